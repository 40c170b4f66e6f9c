//go:build !ocr

// Package ocr recognizes the text of image-only pages with the Tesseract
// engine. This is the stub used when the "ocr" build tag is not set; New
// returns ErrOCRNotEnabled. Rebuild with the tag to enable it:
//
//	go build -tags ocr ./...
package ocr

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns ErrOCRNotEnabled
func New(lang string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns ErrOCRNotEnabled
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// SetPageSegMode returns ErrOCRNotEnabled
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}
