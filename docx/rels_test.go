package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationshipManager_IDs(t *testing.T) {
	m := NewRelationshipManager()

	rid, target := m.AddImage([]byte("one"), "image/png")
	assert.Equal(t, "rId3", rid)
	assert.Equal(t, "media/image1.png", target)

	link := m.AddHyperlink("https://example.com")
	assert.Equal(t, "rId4", link)
	assert.Equal(t, link, m.AddHyperlink("https://example.com"))

	again, sameTarget := m.AddImage([]byte("one"), "image/png")
	assert.Equal(t, rid, again)
	assert.Equal(t, target, sameTarget)

	_, jpeg := m.AddImage([]byte("two"), "image/jpeg")
	assert.Equal(t, "media/image2.jpeg", jpeg)
	assert.Equal(t, 3, m.Len())

	rels := m.Relationships()
	require.Len(t, rels, 3)
	assert.True(t, rels[1].External)
	assert.False(t, rels[0].External)
}

func TestRelationshipManager_Sub(t *testing.T) {
	m := NewRelationshipManager()
	_, target := m.AddImage([]byte("shared"), "image/png")

	sub := m.Sub()
	rid, subTarget := sub.AddImage([]byte("shared"), "image/png")
	assert.Equal(t, "rId1", rid, "part managers number from rId1")
	assert.Equal(t, target, subTarget, "media is shared across parts")
	assert.Len(t, m.Media(), 1)
}

func TestRelationshipManager_RegisterPart(t *testing.T) {
	m := NewRelationshipManager()

	rid, err := m.RegisterPart(Part{Name: "header1.xml", ContentType: ctHeader}, relHeader)
	require.NoError(t, err)
	assert.Equal(t, "rId3", rid)

	_, err = m.RegisterPart(Part{Name: "header1.xml"}, relHeader)
	assert.ErrorIs(t, err, ErrDuplicatePart)

	_, err = m.RegisterPart(Part{Name: "styles.xml"}, relStyles)
	assert.ErrorIs(t, err, ErrDuplicatePart, "styles.xml is reserved")

	_, err = m.RegisterPart(Part{Name: "footer1.xml"}, relFooter)
	require.NoError(t, err)
	parts := m.Parts()
	require.Len(t, parts, 2)
	assert.Equal(t, "footer1.xml", parts[0].Name)
}

func TestImageType(t *testing.T) {
	tests := []struct {
		mime string
		ext  string
	}{
		{"image/png", "png"},
		{"image/jpeg", "jpeg"},
		{"image/gif", "gif"},
		{"image/bmp", "bmp"},
		{"image/tiff", "tiff"},
		{"application/octet-stream", "png"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			ext, _ := imageType(tt.mime)
			assert.Equal(t, tt.ext, ext)
		})
	}
}
