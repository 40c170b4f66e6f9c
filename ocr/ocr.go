//go:build ocr

// Package ocr recognizes the text of image-only pages with the Tesseract
// engine through gosseract. Tesseract and its language data must be
// installed. On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Builds without the "ocr" tag get a stub whose New returns
// ErrOCRNotEnabled.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps one Tesseract engine. It is not safe for concurrent use.
type Client struct {
	client *gosseract.Client
}

// New creates a client for lang, a "+" separated list of Tesseract
// language codes such as "eng+fra". An empty lang means "eng". The client
// must be closed.
func New(lang string) (*Client, error) {
	client := gosseract.NewClient()
	if lang == "" {
		lang = DefaultLanguage
	}
	if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting OCR language %q: %w", lang, err)
	}
	return &Client{client: client}, nil
}

// Close releases the engine. It is safe to call on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeImage returns the text of an encoded image (PNG, JPEG, TIFF)
// with surrounding whitespace trimmed
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SetPageSegMode sets how Tesseract segments the page
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}
