package pdf2docx

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdf2docx/layout"
	"github.com/tsawler/pdf2docx/model"
	"github.com/tsawler/pdf2docx/ocr"
)

// startOCR opens the recognizer. Without OCR support compiled in the
// conversion goes on and the scanned pages stay pictures.
func (p *pipeline) startOCR() {
	client, err := ocr.New(p.opts.ocrLanguage)
	if err != nil {
		p.warn(StageOCR, -1, err)
		return
	}
	p.recognizer = client
	p.closeOCR = client.Close
}

// recognize replaces the scan of an image only page with the recognized
// text, one paragraph per blank line separated block
func (p *pipeline) recognize(content *model.PageContent, pl *layout.PageLayout) {
	img, ok := ocr.ScannedImage(content)
	if !ok {
		return
	}
	text, err := p.recognizer.RecognizeImage(img.Data)
	if err != nil {
		p.warn(StageOCR, content.Index, fmt.Errorf("recognizing page image: %w", err))
		return
	}
	chunks := splitRecognized(text)
	if len(chunks) == 0 {
		return
	}

	box := img.BBox
	step := box.Height / float64(len(chunks))
	var added []layout.Placement
	for i, c := range chunks {
		b := model.NewBBox(box.X, box.Top()-float64(i+1)*step, box.Width, step)
		pl.Paragraphs = append(pl.Paragraphs, layout.Paragraph{
			Block: model.TextBlock{
				Text:     c.text,
				BBox:     b,
				FontSize: ocrFontSize,
				Page:     content.Index,
				Lines:    c.lines,
			},
			Alignment: model.AlignLeft,
		})
		added = append(added, layout.Placement{Kind: layout.PlaceParagraph, Index: len(pl.Paragraphs) - 1, BBox: b})
	}

	var order []layout.Placement
	replaced := false
	for _, pc := range pl.Order {
		if !replaced && pc.Kind == layout.PlacePicture && pl.Images[pc.Index].BBox == img.BBox {
			order = append(order, added...)
			replaced = true
			continue
		}
		order = append(order, pc)
	}
	if !replaced {
		order = append(order, added...)
	}
	pl.Order = order
}

type recognizedChunk struct {
	text  string
	lines int
}

// splitRecognized groups recognized lines into paragraphs at blank lines
func splitRecognized(text string) []recognizedChunk {
	var out []recognizedChunk
	var lines []string
	flush := func() {
		if len(lines) > 0 {
			out = append(out, recognizedChunk{text: strings.Join(lines, " "), lines: len(lines)})
			lines = nil
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return out
}
