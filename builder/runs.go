package builder

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/language"

	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/model"
)

// scriptLanguages tags runs written in a script that implies a language
var scriptLanguages = []struct {
	script *unicode.RangeTable
	tag    language.Tag
}{
	{unicode.Hebrew, language.MustParse("he-IL")},
	{unicode.Arabic, language.MustParse("ar-SA")},
	{unicode.Hangul, language.MustParse("ko-KR")},
	{unicode.Hiragana, language.MustParse("ja-JP")},
	{unicode.Katakana, language.MustParse("ja-JP")},
	{unicode.Thai, language.MustParse("th-TH")},
	{unicode.Greek, language.MustParse("el-GR")},
	{unicode.Cyrillic, language.MustParse("ru-RU")},
	{unicode.Han, language.MustParse("zh-CN")},
}

// languageOf returns the BCP 47 tag implied by the first letter of s in a
// tagged script, or ""
func languageOf(s string) string {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		for _, sl := range scriptLanguages {
			if unicode.Is(sl.script, r) {
				return sl.tag.String()
			}
		}
	}
	return ""
}

// makeRuns returns one run per span of blk, or one run for the whole block
// when it has no spans. Run i always corresponds to span i.
func (b *Builder) makeRuns(blk Block) []ir.Run {
	if len(blk.Spans) == 0 {
		return []ir.Run{{
			Text:      b.cleanText(blk.Text),
			FontName:  blk.FontName,
			FontSize:  halfPoint(blk.FontSize),
			Bold:      blk.Bold,
			Italic:    blk.Italic,
			Underline: blk.Underline,
			Color:     runColor(blk.Color),
			RTL:       blk.RTL,
			Language:  languageOf(blk.Text),
			Vertical:  blk.Vertical,
		}}
	}
	runs := make([]ir.Run, len(blk.Spans))
	for i, sp := range blk.Spans {
		runs[i] = ir.Run{
			Text:        b.cleanText(sp.Text),
			FontName:    sp.FontName,
			FontSize:    halfPoint(sp.FontSize),
			Bold:        sp.Bold,
			Italic:      sp.Italic,
			Underline:   sp.Underline,
			Color:       runColor(sp.Color),
			Superscript: sp.Superscript,
			Subscript:   sp.Subscript,
			RTL:         blk.RTL,
			Language:    languageOf(sp.Text),
			Vertical:    blk.Vertical,
		}
	}
	return runs
}

// cleanText drops control characters and, with StripWhitespace, collapses
// whitespace to single spaces
func (b *Builder) cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r), r == '�':
			return -1
		}
		return r
	}, s)
	if !b.config.StripWhitespace {
		return s
	}
	var sb strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.WriteRune(r)
	}
	if space && sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	return sb.String()
}

func halfPoint(size float64) float64 {
	return math.Round(size*2) / 2
}

// runColor returns RRGGBB for colored text and "" for black
func runColor(c model.Color) string {
	if c.IsBlack() {
		return ""
	}
	return c.Hex()
}

func runsText(runs []ir.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// trimPrefix removes the first n bytes of text from runs without removing
// any run
func trimPrefix(runs []ir.Run, n int) {
	for i := range runs {
		if n <= 0 {
			return
		}
		if len(runs[i].Text) <= n {
			n -= len(runs[i].Text)
			runs[i].Text = ""
			continue
		}
		runs[i].Text = runs[i].Text[n:]
		return
	}
}

// trimLeadingSpace strips whitespace before the first visible character
func trimLeadingSpace(runs []ir.Run) {
	for i := range runs {
		runs[i].Text = strings.TrimLeftFunc(runs[i].Text, unicode.IsSpace)
		if runs[i].Text != "" {
			return
		}
	}
}

// lastTextRun returns the last run that is not a break, or nil
func lastTextRun(runs []ir.Run) *ir.Run {
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].Break == ir.BreakNone && runs[i].Field == "" {
			return &runs[i]
		}
	}
	return nil
}

func startsLower(s string) bool {
	for _, r := range strings.TrimLeftFunc(s, unicode.IsSpace) {
		return unicode.IsLower(r)
	}
	return false
}

// applyLinks turns the runs of blk starting at offset into hyperlinks where
// a link annotation covers them
func (b *Builder) applyLinks(id ir.ParagraphID, offset int, blk model.TextBlock) {
	ps := b.pages[b.page]
	if ps == nil || len(ps.links) == 0 {
		return
	}
	p := b.doc.Paragraph(id)
	if len(blk.Spans) == 0 {
		if l := bestLink(ps.links, blk.BBox, 0.05); l != nil && offset < len(p.Runs) {
			b.linkRun(&p.Runs[offset], *l)
		}
		return
	}
	for i, sp := range blk.Spans {
		if offset+i >= len(p.Runs) || strings.TrimSpace(sp.Text) == "" {
			continue
		}
		if l := bestLink(ps.links, sp.BBox, 0.5); l != nil {
			b.linkRun(&p.Runs[offset+i], *l)
		}
	}
}

// bestLink returns the link covering the largest share of box, when that
// share exceeds threshold
func bestLink(links []model.Link, box model.BBox, threshold float64) *model.Link {
	area := math.Max(box.Area(), 1)
	var best *model.Link
	score := threshold
	for i := range links {
		s := box.Intersection(links[i].BBox).Area() / area
		if s > score {
			best, score = &links[i], s
		}
	}
	return best
}

func (b *Builder) linkRun(r *ir.Run, l model.Link) {
	switch {
	case l.URI != "":
		r.HyperlinkTarget = l.URI
	case l.IsInternal():
		r.HyperlinkAnchor = b.marks.linkAnchor(l)
	default:
		return
	}
	r.HyperlinkTooltip = l.Tooltip
	if r.Style == "" {
		r.Style = "Hyperlink"
	}
}
