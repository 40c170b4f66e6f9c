package pdf2docx

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2docx/docx"
	"github.com/tsawler/pdf2docx/internal/testpdf"
	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/source"
)

func threePages() []byte {
	return testpdf.Document("",
		testpdf.TextPage("Alpha page opening line", "with a second line"),
		testpdf.TextPage("Bravo page content"),
		testpdf.TextPage("Charlie page content"),
	)
}

func inspect(t *testing.T, res *Result) *docx.Summary {
	t.Helper()
	require.NotNil(t, res)
	s, err := docx.Inspect(res.Data)
	require.NoError(t, err)
	return s
}

func TestConvert_TextTokens(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog"
	res, err := FromBytes(testpdf.Document("", testpdf.TextPage(text))).Convert(context.Background())
	require.NoError(t, err)

	s := inspect(t, res)
	for _, token := range strings.Fields(text) {
		assert.Contains(t, s.Text, token)
	}
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, 1, s.Pages)
	assert.GreaterOrEqual(t, res.Words, len(strings.Fields(text)))
	assert.GreaterOrEqual(t, res.Paragraphs, 1)
	assert.NoError(t, Validate(res.Data))
}

func TestConvert_Deterministic(t *testing.T) {
	c := FromBytes(threePages()).Outline()
	first, err := c.Convert(context.Background())
	require.NoError(t, err)
	second, err := c.Convert(context.Background())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first.Data, second.Data), "identical input yields identical archives")
}

func TestConvert_PageSelection(t *testing.T) {
	res, err := FromBytes(threePages()).Pages(2, 0, 2).Convert(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)

	s := inspect(t, res)
	assert.Contains(t, s.Text, "Alpha")
	assert.Contains(t, s.Text, "Charlie")
	assert.NotContains(t, s.Text, "Bravo")
	assert.Less(t, strings.Index(s.Text, "Alpha"), strings.Index(s.Text, "Charlie"), "document order")

	res, err = FromBytes(threePages()).PageRange(1, 2).Convert(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.NotContains(t, inspect(t, res).Text, "Alpha")
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("page out of range", func(t *testing.T) {
		out := filepath.Join(dir, "range.docx")
		_, err := FromBytes(threePages()).Pages(0, 3).ConvertTo(context.Background(), out)
		var pr *PageRangeError
		require.ErrorAs(t, err, &pr)
		assert.Equal(t, 3, pr.Page)
		assert.Equal(t, 3, pr.PageCount)
		assert.NoFileExists(t, out)
	})

	t.Run("negative page", func(t *testing.T) {
		_, err := FromBytes(threePages()).Pages(-1).Convert(context.Background())
		var pr *PageRangeError
		assert.ErrorAs(t, err, &pr)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := FromBytes(threePages()).PageRange(2, 1).Convert(context.Background())
		assert.Error(t, err)
	})

	t.Run("encrypted without password", func(t *testing.T) {
		out := filepath.Join(dir, "encrypted.docx")
		_, err := FromBytes(lockedPDF(t)).ConvertTo(context.Background(), out)
		var pe *PasswordError
		require.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, source.ErrEncrypted)
		assert.NoFileExists(t, out)
	})

	t.Run("wrong password", func(t *testing.T) {
		out := filepath.Join(dir, "wrong.docx")
		_, err := FromBytes(lockedPDF(t)).Password("guess").ConvertTo(context.Background(), out)
		var pe *PasswordError
		require.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, source.ErrBadPassword)
		assert.NoFileExists(t, out)
	})

	t.Run("not a PDF", func(t *testing.T) {
		_, err := FromBytes([]byte("hello, world")).Convert(context.Background())
		var ie *InputError
		require.ErrorAs(t, err, &ie)
		assert.ErrorIs(t, err, source.ErrNotPDF)
	})

	t.Run("no data", func(t *testing.T) {
		_, err := FromBytes(nil).Convert(context.Background())
		var ie *InputError
		assert.ErrorAs(t, err, &ie)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "missing.pdf")).Convert(context.Background())
		var ie *InputError
		require.ErrorAs(t, err, &ie)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := FromBytes(threePages()).Convert(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// lockedPDF is a two page document encrypted with AES-256
func lockedPDF(t *testing.T) []byte {
	t.Helper()
	data, err := testpdf.Encrypt(testpdf.Document("",
		testpdf.TextPage("Board minutes"),
		testpdf.TextPage("Budget approved"),
	), "s3cret", "owner")
	require.NoError(t, err)
	return data
}

func TestConvert_Encrypted(t *testing.T) {
	for _, pw := range []string{"s3cret", "owner"} {
		t.Run(pw, func(t *testing.T) {
			res, err := FromBytes(lockedPDF(t)).Password(pw).Convert(context.Background())
			require.NoError(t, err)
			s := inspect(t, res)
			assert.Equal(t, 2, res.Pages)
			assert.Contains(t, s.Text, "Board minutes")
			assert.Contains(t, s.Text, "Budget approved")
		})
	}

	t.Run("plain text naming the encrypt key", func(t *testing.T) {
		text := "Set /Encrypt in the trailer to protect a file"
		res, err := FromBytes(testpdf.Document("", testpdf.TextPage(text))).Convert(context.Background())
		require.NoError(t, err)
		assert.Contains(t, inspect(t, res).Text, "/Encrypt in the trailer")
	})
}

func TestConvertTo(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.pdf")
	require.NoError(t, os.WriteFile(in, threePages(), 0o644))
	out := filepath.Join(dir, "output.docx")

	res, err := Open(in).ConvertTo(context.Background(), out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.Data, data)
	assert.NoError(t, docx.Validate(data))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files left behind")

	count, err := Open(in).PageCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestConvert_Metadata(t *testing.T) {
	b := testpdf.New()
	info := b.Add("<< /Title (Quarterly Report) /Author (Finance) /Keywords (revenue, growth) /CreationDate (D:20240102030405Z) >>")
	b.SetInfo(info)
	data := b.Document("/Lang (en-GB)", testpdf.TextPage("Revenue grew"))

	res, err := FromBytes(data).Convert(context.Background())
	require.NoError(t, err)
	s := inspect(t, res)
	assert.Equal(t, "Quarterly Report", s.Title)
	assert.Equal(t, "Finance", s.Author)
	assert.Equal(t, "en-GB", s.Language)

	res, err = FromBytes(data).Metadata(ir.Metadata{Title: "Annual Summary"}).Convert(context.Background())
	require.NoError(t, err)
	s = inspect(t, res)
	assert.Equal(t, "Annual Summary", s.Title, "override wins")
	assert.Equal(t, "Finance", s.Author, "unset override fields keep the source value")
}

func TestConverter_Immutable(t *testing.T) {
	base := FromBytes(threePages())
	paged := base.Pages(1)
	_ = paged.Pages(2)
	meta := base.Metadata(ir.Metadata{Keywords: []string{"a"}})

	assert.Nil(t, base.options.pages)
	assert.Equal(t, []int{1}, paged.options.pages)
	assert.Empty(t, base.options.metadata.Keywords)
	assert.Equal(t, []string{"a"}, meta.options.metadata.Keywords)

	ocrConv := base.OCR("")
	assert.True(t, ocrConv.options.ocr)
	assert.Equal(t, "eng", ocrConv.options.ocrLanguage)
	assert.False(t, base.options.ocr)

	tuned := base.HeadingRatios(2, 0, 0).TableDensity(3, 0, 0).NoTables()
	assert.Equal(t, 2.0, tuned.options.heading.Heading1Ratio)
	assert.Equal(t, base.options.heading.Heading2Ratio, tuned.options.heading.Heading2Ratio)
	assert.Equal(t, 3, tuned.options.tables.MinRows)
	assert.False(t, tuned.options.analyzerConfig().DetectTables)
	assert.True(t, base.options.analyzerConfig().DetectTables)
}

func TestConvert_Trace(t *testing.T) {
	res, err := FromBytes(threePages()).Pages(0).Convert(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.Trace)
	assert.Equal(t, StageOpen, res.Trace[0].Stage)
	assert.Equal(t, StagePackage, res.Trace[len(res.Trace)-1].Stage)

	var stages []string
	for _, e := range res.Trace {
		if e.Page == 0 {
			stages = append(stages, e.Stage)
		}
	}
	assert.Equal(t, []string{StageInterpret, StageAnalyze, StageBuild}, stages)
}

func TestConvert_OCRWithoutSupport(t *testing.T) {
	res, err := FromBytes(threePages()).Pages(0).OCR("eng").Convert(context.Background())
	require.NoError(t, err)
	if len(res.Warnings) == 0 {
		t.Skip("built with OCR support")
	}
	assert.Equal(t, StageOCR, res.Warnings[0].Stage)
	assert.Equal(t, -1, res.Warnings[0].Page)
}

func TestFormatWarnings(t *testing.T) {
	decode := &ResourceDecodeError{Page: 2, Resource: "Im1", Err: errors.New("unsupported filter")}
	warnings := []Warning{
		{Stage: StageOCR, Page: -1, Message: "OCR support not enabled"},
		{Stage: StageInterpret, Page: 2, Message: decode.Error(), Err: decode},
	}
	assert.Equal(t,
		"[ocr] OCR support not enabled\n[interpret] page 2: page 2: decoding Im1: unsupported filter",
		FormatWarnings(warnings))

	var target *ResourceDecodeError
	assert.True(t, errors.As(warnings[1].Unwrap(), &target))
	assert.Equal(t, "", FormatWarnings(nil))
}

func TestMust(t *testing.T) {
	assert.Equal(t, 3, Must(FromBytes(threePages()).PageCount()))
	assert.Panics(t, func() {
		Must(FromBytes([]byte("nope")).PageCount())
	})
}

func TestConvert_WatermarkKept(t *testing.T) {
	var pages []testpdf.Page
	for _, body := range []string{"Opening remarks.", "Closing remarks."} {
		pages = append(pages, testpdf.Page{Content: "BT /F1 12 Tf 72 720 Td (" + body + ") Tj ET\n" +
			"BT /F2 28 Tf 200 396 Td (Quarterly Review) Tj ET\n"})
	}
	res, err := FromBytes(testpdf.Document("", pages...)).Convert(context.Background())
	require.NoError(t, err)

	s := inspect(t, res)
	assert.Contains(t, s.Text, "Opening remarks.")
	assert.Contains(t, s.Text, "Closing remarks.")
	assert.Equal(t, 2, strings.Count(s.Text, "Quarterly Review"), "repeated centered text stays in the document")
}

func TestConvert_SymbolFont(t *testing.T) {
	page := testpdf.Page{
		Resources: "<< /Font << /F1 << /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>" +
			" /F3 << /Type /Font /Subtype /Type1 /BaseFont /Symbol >> >> >>",
		Content: "BT /F1 12 Tf 72 720 Td (Shopping list) Tj ET\n" +
			"BT /F3 12 Tf 72 696 Td (\\267) Tj ET BT /F1 12 Tf 90 696 Td (First item text) Tj ET\n" +
			"BT /F3 12 Tf 72 676 Td (\\267) Tj ET BT /F1 12 Tf 90 676 Td (Second item text) Tj ET\n" +
			"BT /F3 12 Tf 72 640 Td (a + b) Tj ET\n",
	}
	res, err := FromBytes(testpdf.Document("", page)).Convert(context.Background())
	require.NoError(t, err)

	s := inspect(t, res)
	assert.Contains(t, s.Text, "First item text")
	assert.Contains(t, s.Text, "α + β", "Symbol letters decode through the built-in encoding")

	var items int
	for _, p := range s.Paragraphs {
		if p.List != nil {
			items++
		}
	}
	assert.Equal(t, 2, items, "bullets in the Symbol font start list items")
}
