//go:build ocr

package ocr

import (
	"strings"
	"testing"

	"github.com/tsawler/pdf2docx/raster"
)

var _ Recognizer = (*Client)(nil)

func newClient(t *testing.T, lang string) *Client {
	t.Helper()
	client, err := New(lang)
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRecognizeImage(t *testing.T) {
	client := newClient(t, "")
	if err := client.SetPageSegMode(PSM_SINGLE_BLOCK); err != nil {
		t.Fatalf("SetPageSegMode failed: %v", err)
	}

	png, _, _, err := raster.RenderText("Invoice Total", 36, raster.DefaultDPI)
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	text, err := client.RecognizeImage(png)
	if err != nil {
		t.Fatalf("RecognizeImage failed: %v", err)
	}
	if !strings.Contains(text, "Invoice") {
		t.Errorf("RecognizeImage() = %q, want it to contain %q", text, "Invoice")
	}
	if text != strings.TrimSpace(text) {
		t.Errorf("RecognizeImage() = %q, want trimmed text", text)
	}
}

func TestRecognizeImage_Invalid(t *testing.T) {
	client := newClient(t, "eng")
	if _, err := client.RecognizeImage([]byte("not an image")); err == nil {
		t.Error("expected error for undecodable image data")
	}
}

func TestNew_UnknownLanguage(t *testing.T) {
	newClient(t, "")
	if client, err := New("zzz"); err == nil {
		client.Close()
		t.Error("expected error for missing language data")
	}
}

func TestClose(t *testing.T) {
	client, err := New("")
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	client.client = nil
	if err := client.Close(); err != nil {
		t.Errorf("Close on released client failed: %v", err)
	}
	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Errorf("Close on nil client failed: %v", err)
	}
}
