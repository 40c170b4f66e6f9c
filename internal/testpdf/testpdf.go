// Package testpdf assembles small, well-formed PDF files for tests. Object
// bodies are written as raw PDF syntax; the builder takes care of object
// numbering, stream lengths and the cross-reference table.
package testpdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Builder collects indirect objects. Object numbers start at 1 and follow
// the order of Add and Reserve calls.
type Builder struct {
	objects [][]byte
	info    int
}

// New returns an empty builder
func New() *Builder {
	return &Builder{}
}

// Reserve allocates an object number whose body is supplied later with Set.
func (b *Builder) Reserve() int {
	b.objects = append(b.objects, nil)
	return len(b.objects)
}

// Set stores the body of a reserved object
func (b *Builder) Set(num int, body string) {
	b.objects[num-1] = []byte(body)
}

// Add appends an object and returns its number
func (b *Builder) Add(body string) int {
	num := b.Reserve()
	b.Set(num, body)
	return num
}

// AddStream appends a stream object. dict holds extra dictionary entries
// without the surrounding << >>; /Length is added automatically.
func (b *Builder) AddStream(dict string, data []byte) int {
	num := b.Reserve()
	b.SetStream(num, dict, data)
	return num
}

// SetStream stores a stream body for a reserved object
func (b *Builder) SetStream(num int, dict string, data []byte) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< %s /Length %d >>\nstream\n", dict, len(data))
	buf.Write(data)
	buf.WriteString("\nendstream")
	b.objects[num-1] = buf.Bytes()
}

// SetInfo marks an object as the document information dictionary
func (b *Builder) SetInfo(num int) {
	b.info = num
}

// Len reports how many objects have been added or reserved
func (b *Builder) Len() int {
	return len(b.objects)
}

// Ref formats an indirect reference to num
func Ref(num int) string {
	return fmt.Sprintf("%d 0 R", num)
}

// Bytes serializes the file with root as the catalog object
func (b *Builder) Bytes(root int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		if body == nil {
			buf.WriteString("null")
		} else {
			buf.Write(body)
		}
		buf.WriteString("\nendobj\n")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.objects)+1)
	buf.WriteString("0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %s", len(b.objects)+1, Ref(root))
	if b.info > 0 {
		fmt.Fprintf(&buf, " /Info %s", Ref(b.info))
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

// Page describes one page for Document
type Page struct {
	// Content is the uncompressed content stream.
	Content string
	// Resources replaces the default resources, which map /F1 to
	// Helvetica and /F2 to Helvetica-Bold.
	Resources string
	// MediaBox defaults to US Letter.
	MediaBox string
	// Extra dictionary entries such as /Rotate 90 or /Annots [...].
	Extra string
}

// defaultFonts is the Helvetica font dictionary behind /F1; /F2 is the
// bold variant.
const defaultFonts = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

// Document builds a complete file with one page per entry. Catalog
// entries in catalogExtra are appended to the catalog dictionary.
func Document(catalogExtra string, pages ...Page) []byte {
	b := New()
	return b.Document(catalogExtra, pages...)
}

// Document lays out a page tree on top of any objects already added.
func (b *Builder) Document(catalogExtra string, pages ...Page) []byte {
	catalog := b.Reserve()
	tree := b.Reserve()
	f1 := b.Add(defaultFonts)
	f2 := b.Add(strings.Replace(defaultFonts, "/Helvetica ", "/Helvetica-Bold ", 1))
	fontRes := fmt.Sprintf("<< /Font << /F1 %s /F2 %s >> >>", Ref(f1), Ref(f2))

	kids := make([]string, 0, len(pages))
	for _, p := range pages {
		content := b.AddStream("", []byte(p.Content))
		res := p.Resources
		if res == "" {
			res = fontRes
		}
		box := p.MediaBox
		if box == "" {
			box = "[0 0 612 792]"
		}
		num := b.Add(fmt.Sprintf("<< /Type /Page /Parent %s /MediaBox %s /Resources %s /Contents %s %s >>",
			Ref(tree), box, res, Ref(content), p.Extra))
		kids = append(kids, Ref(num))
	}

	b.Set(tree, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids)))
	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s %s >>", Ref(tree), catalogExtra))
	return b.Bytes(catalog)
}

// PageRefs returns the object numbers Builder.Document assigns to pages
// when n pages are laid out on a builder that already holds prior objects.
// Useful for annotations and outlines that point at pages.
func PageRefs(prior, n int) []int {
	// catalog, tree, two fonts, then content/page pairs
	refs := make([]int, n)
	next := prior + 5
	for i := range refs {
		refs[i] = next + 1
		next += 2
	}
	return refs
}

// TextPage returns a page showing each line with Helvetica at size 12,
// starting near the top margin.
func TextPage(lines ...string) Page {
	var sb strings.Builder
	y := 720
	for _, line := range lines {
		fmt.Fprintf(&sb, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", y, Escape(line))
		y -= 16
	}
	return Page{Content: sb.String()}
}

// Escape escapes a string for use inside a PDF literal string
func Escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// Encrypt returns data encrypted with AES-256 under the given user and
// owner passwords. An empty user password gives a file that opens without
// one.
func Encrypt(data []byte, userPW, ownerPW string) ([]byte, error) {
	pdfmodel.ConfigPath = "disable"
	conf := pdfmodel.NewAESConfiguration(userPW, ownerPW, 256)
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	var out bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(data), &out, conf); err != nil {
		return nil, fmt.Errorf("encrypting test document: %w", err)
	}
	return out.Bytes(), nil
}
