package docx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_RoundTrip(t *testing.T) {
	data, err := Package(sampleDocument())
	require.NoError(t, err)
	s, err := Inspect(data)
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Report", s.Title)
	assert.Equal(t, "Finance", s.Author)
	assert.Equal(t, "en-GB", s.Language)
	assert.Equal(t, 2, s.Pages)
	assert.Equal(t, 1, s.Footnotes)
	assert.Equal(t, 0, s.Endnotes)
	assert.Equal(t, 2, s.Pictures)
	assert.Equal(t, []string{"word/media/image1.png"}, s.Media)
	assert.Contains(t, s.Bookmarks, "_Ref_p1_72")
	assert.Equal(t, []string{"https://example.com", "#_Ref_p1_72"}, s.Hyperlinks)
	assert.Contains(t, s.Styles, "Heading1")

	assert.Contains(t, s.Text, "Quarterly Report")
	assert.Contains(t, s.Text, "Revenue grew strongly")
	assert.Contains(t, s.Text, "North")
	assert.NotContains(t, s.Text, "Revenue chart", "alt text is hidden")
}

func TestInspect_Paragraphs(t *testing.T) {
	data, err := Package(sampleDocument())
	require.NoError(t, err)
	s, err := Inspect(data)
	require.NoError(t, err)

	headings := s.Headings()
	require.Len(t, headings, 2)
	assert.Equal(t, "Title", headings[0].Style)
	assert.Equal(t, 1, headings[0].HeadingLevel)
	assert.Equal(t, "Summary", headings[1].Text)
	assert.Equal(t, 1, headings[1].HeadingLevel)

	var ordered, bullet *ListLevel
	for _, p := range s.Paragraphs {
		switch {
		case p.Text == "First":
			ordered = p.List
		case p.Text == "Second":
			bullet = p.List
		case strings.HasPrefix(p.Text, "Revenue grew"):
			assert.Equal(t, "both", p.Alignment)
			assert.False(t, p.Bold, "first run is not bold")
		}
	}
	require.NotNil(t, ordered)
	assert.True(t, ordered.Ordered)
	assert.Equal(t, "decimal", ordered.Format)
	assert.Equal(t, "%1.", ordered.Text)
	require.NotNil(t, bullet)
	assert.False(t, bullet.Ordered)
	assert.Equal(t, 1, bullet.Level)
	assert.Equal(t, "◦", bullet.Text)
}

func TestInspect_Tables(t *testing.T) {
	data, err := Package(sampleDocument())
	require.NoError(t, err)
	s, err := Inspect(data)
	require.NoError(t, err)

	require.Len(t, s.Tables, 1)
	tbl := s.Tables[0]
	assert.Equal(t, 2, tbl.ColCount())
	assert.Equal(t, []float64{100, 100}, tbl.ColWidths)
	assert.True(t, tbl.HasBorders)
	assert.True(t, tbl.Rows[0].IsHeader)
	assert.Equal(t, 2, tbl.Rows[1].Cells[0].RowSpan)
	assert.True(t, tbl.Rows[2].Cells[0].Continue)
	assert.Equal(t, "Total", tbl.Cell(0, 1))
	assert.Equal(t, "Region\tTotal\nNorth\t10\n\t20", tbl.ToText())
}

func TestInspect_Errors(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		_, err := Inspect([]byte("not a zip file"))
		assert.Error(t, err)
	})

	t.Run("missing document", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		f, err := zw.Create(partContentTypes)
		require.NoError(t, err)
		_, err = f.Write([]byte(`<?xml version="1.0"?><Types/>`))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		_, err = Inspect(buf.Bytes())
		require.Error(t, err)
		assert.Contains(t, err.Error(), partDocument)
	})
}

func TestInspectFile(t *testing.T) {
	data, err := Package(sampleDocument())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "report.docx")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := InspectFile(path)
	require.NoError(t, err)
	assert.True(t, s.HasPart(partStyles))

	_, err = InspectFile(filepath.Join(t.TempDir(), "missing.docx"))
	assert.Error(t, err)
}
