package pdf2docx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2docx/layout"
	"github.com/tsawler/pdf2docx/model"
)

type fakeRecognizer struct {
	text string
	err  error
	seen [][]byte
}

func (f *fakeRecognizer) RecognizeImage(data []byte) (string, error) {
	f.seen = append(f.seen, data)
	return f.text, f.err
}

func scannedPage() (*model.PageContent, *layout.PageLayout) {
	img := model.Image{Data: []byte("scan"), MIME: "image/png", BBox: model.NewBBox(0, 0, 612, 792)}
	content := &model.PageContent{Index: 4, Width: 612, Height: 792, Images: []model.Image{img}}
	pl := &layout.PageLayout{
		Page:   4,
		Width:  612,
		Height: 792,
		Images: []model.Image{img},
		Order:  []layout.Placement{{Kind: layout.PlacePicture, Index: 0, BBox: img.BBox}},
	}
	return content, pl
}

func TestRecognize(t *testing.T) {
	fake := &fakeRecognizer{text: "First line\nof the scan\n\n  Second   block \n"}
	p := &pipeline{recognizer: fake}
	content, pl := scannedPage()

	p.recognize(content, pl)
	require.Len(t, fake.seen, 1)
	assert.Equal(t, []byte("scan"), fake.seen[0])

	require.Len(t, pl.Paragraphs, 2)
	assert.Equal(t, "First line of the scan", pl.Paragraphs[0].Block.Text)
	assert.Equal(t, 2, pl.Paragraphs[0].Block.Lines)
	assert.Equal(t, "Second block", pl.Paragraphs[1].Block.Text)
	assert.Equal(t, 4, pl.Paragraphs[1].Block.Page)
	assert.Greater(t, pl.Paragraphs[0].Block.BBox.Y, pl.Paragraphs[1].Block.BBox.Y, "first block sits above")

	require.Len(t, pl.Order, 2)
	for i, pc := range pl.Order {
		assert.Equal(t, layout.PlaceParagraph, pc.Kind)
		assert.Equal(t, i, pc.Index)
	}
}

func TestRecognize_Skipped(t *testing.T) {
	t.Run("page with text", func(t *testing.T) {
		fake := &fakeRecognizer{text: "ignored"}
		p := &pipeline{recognizer: fake}
		content, pl := scannedPage()
		content.Glyphs = []model.Glyph{{Text: "A"}}
		p.recognize(content, pl)
		assert.Empty(t, fake.seen)
		assert.Empty(t, pl.Paragraphs)
	})

	t.Run("recognizer error", func(t *testing.T) {
		fake := &fakeRecognizer{err: errors.New("tesseract failed")}
		p := &pipeline{recognizer: fake}
		content, pl := scannedPage()
		p.recognize(content, pl)
		assert.Empty(t, pl.Paragraphs)
		assert.Len(t, pl.Order, 1)
		require.Len(t, p.warnings, 1)
		assert.Equal(t, StageOCR, p.warnings[0].Stage)
		assert.Equal(t, 4, p.warnings[0].Page)
	})

	t.Run("blank result", func(t *testing.T) {
		p := &pipeline{recognizer: &fakeRecognizer{text: " \n\n"}}
		content, pl := scannedPage()
		p.recognize(content, pl)
		assert.Len(t, pl.Order, 1)
		assert.Equal(t, layout.PlacePicture, pl.Order[0].Kind)
	})
}
