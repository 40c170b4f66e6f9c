package ocr

import (
	"errors"

	"github.com/tsawler/pdf2docx/model"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguage is the Tesseract language used when none is configured
const DefaultLanguage = "eng"

// DominantCoverage is the page area fraction an image must cover to be
// the scan of the page
const DominantCoverage = 0.5

// PageSegMode is a Tesseract page segmentation mode
type PageSegMode int

// Page segmentation modes, numbered as in Tesseract
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// Recognizer turns an encoded image into text. *Client implements it.
type Recognizer interface {
	RecognizeImage(imageData []byte) (string, error)
}

// ScannedImage returns the image to recognize when the page is image only:
// no visible text and one decoded image covering at least
// DominantCoverage of the page
func ScannedImage(page *model.PageContent) (model.Image, bool) {
	if page == nil || page.HasText() || page.Width <= 0 || page.Height <= 0 {
		return model.Image{}, false
	}
	area := page.Width * page.Height
	var best model.Image
	found := false
	for _, img := range page.Images {
		if img.Placeholder || len(img.Data) == 0 {
			continue
		}
		if img.BBox.Width*img.BBox.Height/area < DominantCoverage {
			continue
		}
		if found {
			// two full page images; neither dominates
			return model.Image{}, false
		}
		best, found = img, true
	}
	return best, found
}
