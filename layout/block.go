package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/tsawler/pdf2docx/model"
	"github.com/tsawler/pdf2docx/text"
)

// spanKey is the styling that separates one span from the next
type spanKey struct {
	font   string
	size   float64
	bold   bool
	italic bool
	color  model.Color
	script Script
}

func keyOf(g model.Glyph, s Script) spanKey {
	return spanKey{
		font:   g.FontName,
		size:   math.Round(g.Size*2) / 2,
		bold:   g.Bold,
		italic: g.Italic,
		color:  g.Color,
		script: s,
	}
}

// Block converts the segment into a text block. Roles maps marked content
// ids to structure roles; the most frequent role among the glyphs wins.
func (s Segment) Block(page int, roles map[int]string) model.TextBlock {
	words := s.Words
	rtl := text.IsRTL(s.Text())
	if rtl && !s.Vertical {
		words = reverseWords(words)
	}

	var spans []model.Span
	var key spanKey
	roleCount := make(map[string]int)
	for wi, w := range words {
		if wi > 0 && len(spans) > 0 {
			spans[len(spans)-1].Text += " "
		}
		for gi, g := range w.Glyphs {
			if role := roles[g.MCID]; g.MCID >= 0 && role != "" {
				roleCount[role]++
			}
			k := keyOf(g, w.Scripts[gi])
			box := glyphBox(g)
			if len(spans) == 0 || k != key {
				spans = append(spans, model.Span{
					FontName:    g.FontName,
					FontSize:    g.Size,
					Bold:        g.Bold,
					Italic:      g.Italic,
					Color:       g.Color,
					Superscript: k.script == ScriptSuper,
					Subscript:   k.script == ScriptSub,
					BBox:        box,
				})
				key = k
			}
			sp := &spans[len(spans)-1]
			sp.Text += g.Text
			sp.BBox = sp.BBox.Union(box)
		}
	}

	b := model.TextBlock{
		BBox:     s.BBox,
		Spans:    spans,
		RTL:      rtl,
		Vertical: s.Vertical,
		Page:     page,
		Lines:    1,
		Role:     topRole(roleCount),
	}
	b.Text = spansText(spans)
	applyDominantStyle(&b)
	return b
}

func reverseWords(words []Word) []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		r := Word{BBox: w.BBox}
		for j := len(w.Glyphs) - 1; j >= 0; j-- {
			r.Glyphs = append(r.Glyphs, w.Glyphs[j])
			r.Scripts = append(r.Scripts, w.Scripts[j])
		}
		out[len(words)-1-i] = r
	}
	return out
}

func topRole(counts map[string]int) string {
	best, n := "", 0
	for role, c := range counts {
		if c > n || (c == n && role < best) {
			best, n = role, c
		}
	}
	return best
}

func spansText(spans []model.Span) string {
	var sb strings.Builder
	for _, sp := range spans {
		sb.WriteString(sp.Text)
	}
	return sb.String()
}

// applyDominantStyle copies the style of the span covering the most
// characters onto the block. Script spans never dominate.
func applyDominantStyle(b *model.TextBlock) {
	best, bestN := -1, -1
	for i, sp := range b.Spans {
		if sp.Superscript || sp.Subscript {
			continue
		}
		if n := len([]rune(strings.TrimSpace(sp.Text))); n > bestN {
			best, bestN = i, n
		}
	}
	if best < 0 && len(b.Spans) > 0 {
		best = 0
	}
	if best < 0 {
		return
	}
	sp := b.Spans[best]
	b.FontName = sp.FontName
	b.FontSize = sp.FontSize
	b.Bold = sp.Bold
	b.Italic = sp.Italic
	b.Color = sp.Color

	underlined := len(b.Spans) > 0
	for _, s := range b.Spans {
		if !s.Underline && strings.TrimSpace(s.Text) != "" {
			underlined = false
			break
		}
	}
	b.Underline = underlined
}

// joinBlocks appends next to prev as a new line of the same paragraph. A
// trailing hyphen before a lowercase continuation is removed.
func joinBlocks(prev, next model.TextBlock) model.TextBlock {
	out := prev
	out.Spans = append([]model.Span(nil), prev.Spans...)
	if n := len(out.Spans); n > 0 {
		last := &out.Spans[n-1]
		trimmed := strings.TrimRight(last.Text, " ")
		if strings.HasSuffix(trimmed, "-") && startsLower(next.Text) {
			last.Text = strings.TrimSuffix(trimmed, "-")
		} else {
			last.Text = trimmed + " "
		}
	}
	out.Spans = append(out.Spans, next.Spans...)
	out.Text = spansText(out.Spans)
	out.BBox = prev.BBox.Union(next.BBox)
	out.Lines = prev.Lines + next.Lines
	if out.Role == "" {
		out.Role = next.Role
	}
	out.RTL = prev.RTL || next.RTL
	applyDominantStyle(&out)
	return out
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}
