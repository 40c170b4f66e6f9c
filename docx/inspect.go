package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Summary describes a finished package as Word would present it
type Summary struct {
	Parts      []string
	Media      []string
	Text       string
	Paragraphs []ParagraphInfo
	Tables     []TableInfo
	Sections   []SectionInfo

	Title    string
	Author   string
	Language string
	Pages    int
	Words    int

	Footnotes  int
	Endnotes   int
	Comments   int
	Pictures   int
	Equations  int
	Hyperlinks []string // external URLs, or "#name" for internal anchors
	Bookmarks  []string
	Styles     []string
}

// ParagraphInfo is one body paragraph
type ParagraphInfo struct {
	Text         string
	Style        string
	HeadingLevel int
	List         *ListLevel
	Fields       []string
	Alignment    string
	FontSize     float64
	Bold         bool
	Italic       bool
	PageBreak    bool
}

// SectionInfo is one section's page setup
type SectionInfo struct {
	Width     float64 // points
	Height    float64
	Landscape bool
	Headers   int
	Footers   int
	TitlePage bool
}

// Headings returns the paragraphs that resolve to a heading style
func (s *Summary) Headings() []ParagraphInfo {
	var out []ParagraphInfo
	for _, p := range s.Paragraphs {
		if p.HeadingLevel > 0 {
			out = append(out, p)
		}
	}
	return out
}

// HasPart reports whether the archive contains the named entry
func (s *Summary) HasPart(name string) bool {
	for _, p := range s.Parts {
		if p == name {
			return true
		}
	}
	return false
}

// inspector holds the decoded parts of one archive
type inspector struct {
	files     map[string][]byte
	styles    *StyleResolver
	numbering *NumberingResolver
	links     map[string]string // document relationship id -> target
	summary   *Summary
	lines     []string
}

// InspectFile reads and inspects a .docx file
func InspectFile(filename string) (*Summary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return Inspect(data)
}

// Inspect decodes a .docx archive into a Summary. The archive must carry
// [Content_Types].xml and word/document.xml; every other part is optional.
func Inspect(data []byte) (*Summary, error) {
	entries, err := readEntries(data)
	if err != nil {
		return nil, err
	}
	in := &inspector{
		files:   make(map[string][]byte, len(entries)),
		links:   make(map[string]string),
		summary: &Summary{},
	}
	for _, e := range entries {
		in.files[e.name] = e.data
		in.summary.Parts = append(in.summary.Parts, e.name)
		if strings.HasPrefix(e.name, "word/media/") {
			in.summary.Media = append(in.summary.Media, e.name)
		}
	}
	for _, name := range []string{partContentTypes, partDocument} {
		if _, ok := in.files[name]; !ok {
			return nil, fmt.Errorf("missing required file: %s", name)
		}
	}

	// Styles and numbering are optional
	var styles stylesXML
	if b, ok := in.files[partStyles]; ok {
		if err := xml.Unmarshal(b, &styles); err != nil {
			return nil, fmt.Errorf("parsing styles: %w", err)
		}
		for _, s := range styles.Styles {
			in.summary.Styles = append(in.summary.Styles, s.StyleID)
		}
	}
	in.styles = NewStyleResolver(&styles)
	var numbering numberingXML
	if b, ok := in.files[partNumbering]; ok {
		if err := xml.Unmarshal(b, &numbering); err != nil {
			return nil, fmt.Errorf("parsing numbering: %w", err)
		}
	}
	in.numbering = NewNumberingResolver(&numbering)

	if err := in.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}
	if err := in.parseBody(in.files[partDocument]); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	if err := in.parseNotes(); err != nil {
		return nil, err
	}
	in.parseProperties()
	in.summary.Text = strings.Join(in.lines, "\n")
	return in.summary, nil
}

func (in *inspector) parseRelationships() error {
	b, ok := in.files[partDocumentRels]
	if !ok {
		return nil
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(b, &rels); err != nil {
		return err
	}
	for _, r := range rels.Relationships {
		in.links[r.ID] = r.Target
	}
	return nil
}

// parseBody walks the direct children of w:body in order
func (in *inspector) parseBody(data []byte) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	inBody := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !inBody {
				inBody = t.Name.Local == "body"
				continue
			}
			switch t.Name.Local {
			case "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				in.addParagraph(&p)
			case "tbl":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				in.addTable(tbl)
			case "sectPr":
				var s sectPrXML
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				in.addSection(s)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				return nil
			}
		}
	}
}

func (in *inspector) addParagraph(p *paragraphXML) {
	s := in.summary
	in.collect(p)
	if p.Properties.SectPr != nil {
		in.addSection(*p.Properties.SectPr)
	}

	style := p.Properties.Style.Val
	if style == "" {
		style = "Normal"
	}
	rs := in.styles.Resolve(style)
	info := ParagraphInfo{
		Text:      p.Text(),
		Style:     style,
		Fields:    p.Fields,
		Alignment: rs.Alignment,
		FontSize:  rs.FontSize,
		Bold:      rs.Bold,
		Italic:    rs.Italic,
		PageBreak: p.Properties.PageBreak.present(),
	}
	if rs.IsHeading {
		info.HeadingLevel = rs.HeadingLevel
	}
	if jc := p.Properties.Justification.Val; jc != "" {
		info.Alignment = jc
	}
	for _, r := range p.Runs {
		if r.Content == "" {
			continue
		}
		rr := in.styles.ResolveRun(style, r)
		info.FontSize, info.Bold, info.Italic = rr.FontSize, rr.Bold, rr.Italic
		break
	}
	for _, r := range p.Runs {
		for _, br := range r.Breaks {
			if br == "page" {
				info.PageBreak = true
			}
		}
	}
	if num := p.Properties.NumPr; num.NumID.Val != "" {
		level, _ := strconv.Atoi(num.ILvl.Val)
		if lvl, ok := in.numbering.ResolveLevel(num.NumID.Val, level); ok {
			info.List = &lvl
		}
	}
	s.Paragraphs = append(s.Paragraphs, info)
}

// collect records the text, links, bookmarks and drawings of a paragraph
// anywhere in the body
func (in *inspector) collect(p *paragraphXML) {
	s := in.summary
	if t := p.Text(); t != "" {
		in.lines = append(in.lines, t)
	}
	s.Bookmarks = append(s.Bookmarks, p.Bookmarks...)
	for _, h := range p.Hyperlinks {
		if target, ok := in.links[h]; ok {
			h = target
		}
		s.Hyperlinks = append(s.Hyperlinks, h)
	}
	if p.Math {
		s.Equations++
	}
	for _, r := range p.Runs {
		if r.Drawing != nil {
			s.Pictures++
		}
	}
}

func (in *inspector) addTable(tbl tableXML) {
	in.summary.Tables = append(in.summary.Tables, parseTable(tbl))
	for _, row := range tbl.Rows {
		for _, cell := range row.Cells {
			for i := range cell.Paragraphs {
				in.collect(&cell.Paragraphs[i])
			}
			for _, nested := range cell.Tables {
				in.addTable(nested)
			}
		}
	}
}

func (in *inspector) addSection(s sectPrXML) {
	in.summary.Sections = append(in.summary.Sections, SectionInfo{
		Width:     parseTwips(s.PgSz.W),
		Height:    parseTwips(s.PgSz.H),
		Landscape: s.PgSz.Orient == "landscape",
		Headers:   len(s.Headers),
		Footers:   len(s.Footers),
		TitlePage: s.TitlePg != nil && s.TitlePg.present(),
	})
}

// parseNotes counts the stories of the note and comment parts. Separator
// notes carry a type and are not counted.
func (in *inspector) parseNotes() error {
	count := func(notes []noteXML) int {
		n := 0
		for _, note := range notes {
			if note.Type == "" || note.Type == "normal" {
				n++
			}
		}
		return n
	}
	for _, part := range []string{"word/footnotes.xml", "word/endnotes.xml"} {
		b, ok := in.files[part]
		if !ok {
			continue
		}
		var notes notesXML
		if err := xml.Unmarshal(b, &notes); err != nil {
			return fmt.Errorf("parsing %s: %w", part, err)
		}
		in.summary.Footnotes += count(notes.Footnotes)
		in.summary.Endnotes += count(notes.Endnotes)
	}
	if b, ok := in.files["word/comments.xml"]; ok {
		var comments commentsXML
		if err := xml.Unmarshal(b, &comments); err != nil {
			return fmt.Errorf("parsing comments: %w", err)
		}
		in.summary.Comments = len(comments.Comments)
	}
	return nil
}

// parseProperties reads the core and app parts. Both are optional and a
// malformed one is ignored.
func (in *inspector) parseProperties() {
	s := in.summary
	if b, ok := in.files[partCore]; ok {
		var core corePropertiesXML
		if xml.Unmarshal(b, &core) == nil {
			s.Title, s.Author, s.Language = core.Title, core.Creator, core.Language
		}
	}
	if b, ok := in.files[partApp]; ok {
		var app appPropertiesXML
		if xml.Unmarshal(b, &app) == nil {
			s.Pages, s.Words = app.Pages, app.Words
		}
	}
	sort.Strings(s.Media)
}
