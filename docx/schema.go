package docx

import (
	"encoding/xml"
	"strings"
)

// XML namespaces written to and read from the package
const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP      = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic     = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsM       = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsDCTerms = "http://purl.org/dc/terms/"
	nsDCMI    = "http://purl.org/dc/dcmitype/"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"
	nsCP      = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsEP      = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsVT      = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	nsRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// The types below decode parts of a finished package for Inspect and for
// the validation gate. Elements are matched on their local name.

// paragraphXML is a w:p. Runs nested in hyperlinks and simple fields are
// collected in document order.
type paragraphXML struct {
	Properties paragraphPropsXML
	Runs       []runXML
	Bookmarks  []string
	Hyperlinks []string // r:id or w:anchor of each hyperlink
	Fields     []string // simple field instructions
	Math       bool
}

func attrValue(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// UnmarshalXML walks the paragraph content, descending into wrappers such
// as w:hyperlink and w:fldSimple
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := d.DecodeElement(&p.Properties, &t); err != nil {
					return err
				}
				continue
			case "r":
				var r runXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
				if instr := strings.TrimSpace(r.Instr); instr != "" {
					p.Fields = append(p.Fields, instr)
				}
				continue
			case "oMathPara", "oMath":
				p.Math = true
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			case "bookmarkStart":
				p.Bookmarks = append(p.Bookmarks, attrValue(t, "name"))
			case "hyperlink":
				target := attrValue(t, "id")
				if target == "" {
					target = "#" + attrValue(t, "anchor")
				}
				p.Hyperlinks = append(p.Hyperlinks, target)
			case "fldSimple":
				p.Fields = append(p.Fields, strings.TrimSpace(attrValue(t, "instr")))
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// Text returns the visible text of the paragraph
func (p *paragraphXML) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		if r.Properties.Vanish.present() {
			continue
		}
		sb.WriteString(r.Content)
	}
	return sb.String()
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         styleRefXML       `xml:"pStyle"`
	NumPr         numberingPropsXML `xml:"numPr"`
	Justification justificationXML  `xml:"jc"`
	Spacing       spacingXML        `xml:"spacing"`
	Indent        indentXML         `xml:"ind"`
	OutlineLvl    outlineLvlXML     `xml:"outlineLvl"`
	PageBreak     boolXML           `xml:"pageBreakBefore"`
	Bidi          boolXML           `xml:"bidi"`
	SectPr        *sectPrXML        `xml:"sectPr"`
}

type styleRefXML struct {
	Val string `xml:"val,attr"`
}

type numberingPropsXML struct {
	ILvl  valXML `xml:"ilvl"`
	NumID valXML `xml:"numId"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type justificationXML struct {
	Val string `xml:"val,attr"` // left, center, right, both
}

type spacingXML struct {
	Before string `xml:"before,attr"` // twips
	After  string `xml:"after,attr"`  // twips
	Line   string `xml:"line,attr"`   // 240ths of a line when lineRule is auto
}

type indentXML struct {
	Left      string `xml:"left,attr"`
	Right     string `xml:"right,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

type outlineLvlXML struct {
	Val string `xml:"val,attr"`
}

// runXML is a w:r. Content holds its text with w:tab as a tab and plain
// w:br as a newline; typed breaks are listed in Breaks.
type runXML struct {
	Properties  runPropsXML
	Content     string
	Instr       string // complex field instruction text
	Breaks      []string
	FootnoteRef string
	EndnoteRef  string
	CommentRef  string
	Drawing     *drawingXML
}

// UnmarshalXML keeps the order of text, tabs and breaks
func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "rPr":
				err = d.DecodeElement(&r.Properties, &t)
			case "t", "instrText":
				var text string
				if err = d.DecodeElement(&text, &t); err == nil {
					if t.Name.Local == "t" {
						sb.WriteString(text)
					} else {
						r.Instr += text
					}
				}
			case "tab":
				sb.WriteByte('\t')
				err = d.Skip()
			case "br", "cr":
				if typ := attrValue(t, "type"); typ != "" && typ != "textWrapping" {
					r.Breaks = append(r.Breaks, typ)
				} else {
					sb.WriteByte('\n')
				}
				err = d.Skip()
			case "footnoteReference":
				r.FootnoteRef = attrValue(t, "id")
				err = d.Skip()
			case "endnoteReference":
				r.EndnoteRef = attrValue(t, "id")
				err = d.Skip()
			case "commentReference":
				r.CommentRef = attrValue(t, "id")
				err = d.Skip()
			case "drawing":
				r.Drawing = &drawingXML{}
				err = d.DecodeElement(r.Drawing, &t)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			r.Content = sb.String()
			return nil
		}
	}
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Style     styleRefXML  `xml:"rStyle"`
	Bold      boolXML      `xml:"b"`
	Italic    boolXML      `xml:"i"`
	Underline underlineXML `xml:"u"`
	Strike    boolXML      `xml:"strike"`
	Vanish    boolXML      `xml:"vanish"`
	FontSize  sizeXML      `xml:"sz"`
	Font      fontXML      `xml:"rFonts"`
	Color     colorXML     `xml:"color"`
	Highlight highlightXML `xml:"highlight"`
	VertAlign valXML       `xml:"vertAlign"`
	RTL       boolXML      `xml:"rtl"`
	Lang      valXML       `xml:"lang"`
}

// boolXML is an on/off property; present without val means on
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

func (b boolXML) present() bool {
	return b.XMLName.Local != "" && b.Val != "false" && b.Val != "0"
}

type underlineXML struct {
	Val string `xml:"val,attr"`
}

type sizeXML struct {
	Val string `xml:"val,attr"` // half-points
}

type fontXML struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	CS       string `xml:"cs,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

type colorXML struct {
	Val string `xml:"val,attr"`
}

type highlightXML struct {
	Val string `xml:"val,attr"`
}

type drawingXML struct {
	Inline *inlineXML `xml:"inline"`
	Anchor *inlineXML `xml:"anchor"`
}

type inlineXML struct {
	Extent extentXML `xml:"extent"`
	DocPr  docPrXML  `xml:"docPr"`
	Blip   *blipXML  `xml:"graphic>graphicData>pic>blipFill>blip"`
}

type extentXML struct {
	CX string `xml:"cx,attr"` // EMU
	CY string `xml:"cy,attr"`
}

type docPrXML struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"`
}

type blipXML struct {
	Embed string `xml:"embed,attr"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Properties tablePropsXML `xml:"tblPr"`
	Grid       tableGridXML  `xml:"tblGrid"`
	Rows       []tableRowXML `xml:"tr"`
}

type tablePropsXML struct {
	Style   styleRefXML     `xml:"tblStyle"`
	Width   tableSizeXML    `xml:"tblW"`
	Borders tableBordersXML `xml:"tblBorders"`
}

type tableSizeXML struct {
	W    string `xml:"w,attr"`
	Type string `xml:"type,attr"` // dxa, pct, auto
}

type tableBordersXML struct {
	Top     borderXML `xml:"top"`
	Bottom  borderXML `xml:"bottom"`
	Left    borderXML `xml:"left"`
	Right   borderXML `xml:"right"`
	InsideH borderXML `xml:"insideH"`
	InsideV borderXML `xml:"insideV"`
}

type borderXML struct {
	Val   string `xml:"val,attr"`
	Sz    string `xml:"sz,attr"`
	Color string `xml:"color,attr"`
}

type tableGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

type gridColXML struct {
	W string `xml:"w,attr"` // twips
}

type tableRowXML struct {
	Properties rowPropsXML    `xml:"trPr"`
	Cells      []tableCellXML `xml:"tc"`
}

type rowPropsXML struct {
	Header boolXML `xml:"tblHeader"`
}

type tableCellXML struct {
	Properties cellPropsXML   `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

type cellPropsXML struct {
	Width    tableSizeXML `xml:"tcW"`
	GridSpan valXML       `xml:"gridSpan"`
	VMerge   *vMergeXML   `xml:"vMerge"`
	Shading  shadingXML   `xml:"shd"`
	VAlign   valXML       `xml:"vAlign"`
}

// vMergeXML is a vertical merge; an empty val continues the merge
type vMergeXML struct {
	Val string `xml:"val,attr"`
}

type shadingXML struct {
	Fill string `xml:"fill,attr"`
}

type sectPrXML struct {
	Headers []hfRefXML `xml:"headerReference"`
	Footers []hfRefXML `xml:"footerReference"`
	PgSz    pgSzXML    `xml:"pgSz"`
	TitlePg *boolXML   `xml:"titlePg"`
}

type hfRefXML struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
}

type pgSzXML struct {
	W      string `xml:"w,attr"`
	H      string `xml:"h,attr"`
	Orient string `xml:"orient,attr"`
}

// stylesXML represents word/styles.xml
type stylesXML struct {
	DocDefaults docDefaultsXML `xml:"docDefaults"`
	Styles      []styleDefXML  `xml:"style"`
}

type docDefaultsXML struct {
	RPrDefault struct {
		RPr runPropsXML `xml:"rPr"`
	} `xml:"rPrDefault"`
}

type styleDefXML struct {
	Type    string            `xml:"type,attr"`
	StyleID string            `xml:"styleId,attr"`
	Name    valXML            `xml:"name"`
	BasedOn valXML            `xml:"basedOn"`
	PPr     paragraphPropsXML `xml:"pPr"`
	RPr     runPropsXML       `xml:"rPr"`
}

// numberingXML represents word/numbering.xml
type numberingXML struct {
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
}

type lvlXML struct {
	ILvl    string `xml:"ilvl,attr"`
	Start   valXML `xml:"start"`
	NumFmt  valXML `xml:"numFmt"`
	LvlText valXML `xml:"lvlText"`
}

type numXML struct {
	NumID         string `xml:"numId,attr"`
	AbstractNumID valXML `xml:"abstractNumId"`
}

// relationshipsXML represents a .rels part
type relationshipsXML struct {
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// contentTypesXML represents [Content_Types].xml
type contentTypesXML struct {
	Defaults []struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Default"`
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// corePropertiesXML represents docProps/core.xml
type corePropertiesXML struct {
	Title          string `xml:"title"`
	Subject        string `xml:"subject"`
	Creator        string `xml:"creator"`
	Keywords       string `xml:"keywords"`
	Description    string `xml:"description"`
	LastModifiedBy string `xml:"lastModifiedBy"`
	Revision       string `xml:"revision"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
	Language       string `xml:"language"`
}

// appPropertiesXML represents docProps/app.xml
type appPropertiesXML struct {
	Application          string `xml:"Application"`
	Pages                int    `xml:"Pages"`
	Words                int    `xml:"Words"`
	Characters           int    `xml:"Characters"`
	CharactersWithSpaces int    `xml:"CharactersWithSpaces"`
	Lines                int    `xml:"Lines"`
	Paragraphs           int    `xml:"Paragraphs"`
}

// notesXML represents word/footnotes.xml or word/endnotes.xml
type notesXML struct {
	Footnotes []noteXML `xml:"footnote"`
	Endnotes  []noteXML `xml:"endnote"`
}

type noteXML struct {
	ID         string         `xml:"id,attr"`
	Type       string         `xml:"type,attr"`
	Paragraphs []paragraphXML `xml:"p"`
}

// commentsXML represents word/comments.xml
type commentsXML struct {
	Comments []struct {
		ID         string         `xml:"id,attr"`
		Author     string         `xml:"author,attr"`
		Initials   string         `xml:"initials,attr"`
		Paragraphs []paragraphXML `xml:"p"`
	} `xml:"comment"`
}
