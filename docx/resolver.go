package docx

import (
	"strconv"
	"strings"
)

// ResolvedStyle contains the resolved properties of a style after its
// basedOn chain is applied.
type ResolvedStyle struct {
	ID   string
	Name string
	Type string // paragraph, character, table

	IsHeading    bool
	HeadingLevel int // 1-9, 0 if not a heading

	Alignment   string
	SpaceBefore float64 // points
	SpaceAfter  float64 // points
	IndentLeft  float64 // points

	FontName  string
	FontSize  float64 // points
	Bold      bool
	Italic    bool
	Underline bool
	Color     string
}

// StyleResolver resolves styles with inheritance support.
type StyleResolver struct {
	styles      map[string]*styleDefXML
	resolved    map[string]*ResolvedStyle
	defaultFont string
	defaultSize float64
}

// NewStyleResolver creates a resolver from a decoded styles part
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{
		styles:      make(map[string]*styleDefXML),
		resolved:    make(map[string]*ResolvedStyle),
		defaultFont: "Calibri",
		defaultSize: 11,
	}
	if styles == nil {
		return sr
	}
	for i := range styles.Styles {
		sr.styles[styles.Styles[i].StyleID] = &styles.Styles[i]
	}
	rpr := styles.DocDefaults.RPrDefault.RPr
	if rpr.Font.ASCII != "" {
		sr.defaultFont = rpr.Font.ASCII
	}
	if size := parseHalfPoints(rpr.FontSize.Val); size > 0 {
		sr.defaultSize = size
	}
	return sr
}

// Resolve returns the resolved style for an id. Unknown ids resolve to the
// document defaults.
func (sr *StyleResolver) Resolve(styleID string) *ResolvedStyle {
	if rs, ok := sr.resolved[styleID]; ok {
		return rs
	}
	rs := &ResolvedStyle{
		ID:        styleID,
		FontName:  sr.defaultFont,
		FontSize:  sr.defaultSize,
		Alignment: "left",
	}
	if def, ok := sr.styles[styleID]; ok {
		rs.Name = def.Name.Val
		rs.Type = def.Type
		for _, id := range sr.chain(styleID) {
			applyStyleDef(rs, sr.styles[id])
		}
	}
	rs.IsHeading, rs.HeadingLevel = sr.headingLevel(styleID)
	sr.resolved[styleID] = rs
	return rs
}

// chain returns style ids from the root of the basedOn chain to styleID
func (sr *StyleResolver) chain(styleID string) []string {
	var out []string
	seen := make(map[string]bool)
	for id := styleID; id != "" && !seen[id]; {
		def, ok := sr.styles[id]
		if !ok {
			break
		}
		seen[id] = true
		out = append([]string{id}, out...)
		id = def.BasedOn.Val
	}
	return out
}

func applyStyleDef(rs *ResolvedStyle, def *styleDefXML) {
	ppr := def.PPr
	if ppr.Justification.Val != "" {
		rs.Alignment = ppr.Justification.Val
	}
	if ppr.Spacing.Before != "" {
		rs.SpaceBefore = parseTwips(ppr.Spacing.Before)
	}
	if ppr.Spacing.After != "" {
		rs.SpaceAfter = parseTwips(ppr.Spacing.After)
	}
	if ppr.Indent.Left != "" {
		rs.IndentLeft = parseTwips(ppr.Indent.Left)
	}
	applyRunProps(&rs.FontName, &rs.FontSize, &rs.Bold, &rs.Italic, &rs.Underline, &rs.Color, def.RPr)
}

func applyRunProps(font *string, size *float64, bold, italic, underline *bool, color *string, rpr runPropsXML) {
	if rpr.Font.ASCII != "" {
		*font = rpr.Font.ASCII
	}
	if s := parseHalfPoints(rpr.FontSize.Val); s > 0 {
		*size = s
	}
	if rpr.Bold.XMLName.Local != "" {
		*bold = rpr.Bold.present()
	}
	if rpr.Italic.XMLName.Local != "" {
		*italic = rpr.Italic.present()
	}
	if rpr.Underline.Val != "" {
		*underline = rpr.Underline.Val != "none"
	}
	if rpr.Color.Val != "" && rpr.Color.Val != "auto" {
		*color = rpr.Color.Val
	}
}

// headingLevel recognizes built-in heading ids and styles carrying an
// outline level somewhere in their chain
func (sr *StyleResolver) headingLevel(styleID string) (bool, int) {
	id := strings.ToLower(styleID)
	switch id {
	case "title":
		return true, 1
	case "subtitle":
		return true, 2
	}
	if n, ok := strings.CutPrefix(id, "heading"); ok {
		if level, err := strconv.Atoi(n); err == nil && level >= 1 && level <= 9 {
			return true, level
		}
	}
	chain := sr.chain(styleID)
	for i := len(chain) - 1; i >= 0; i-- {
		if v := sr.styles[chain[i]].PPr.OutlineLvl.Val; v != "" {
			if level, err := strconv.Atoi(v); err == nil && level >= 0 && level <= 8 {
				return true, level + 1
			}
		}
	}
	return false, 0
}

// ResolvedRun contains the properties of a run after its paragraph style,
// character style and direct formatting are applied.
type ResolvedRun struct {
	Text      string
	FontName  string
	FontSize  float64
	Bold      bool
	Italic    bool
	Underline bool
	Color     string
}

// ResolveRun resolves a run of a paragraph with the given style
func (sr *StyleResolver) ResolveRun(paragraphStyle string, run runXML) *ResolvedRun {
	base := sr.Resolve(paragraphStyle)
	out := &ResolvedRun{
		Text:      run.Content,
		FontName:  base.FontName,
		FontSize:  base.FontSize,
		Bold:      base.Bold,
		Italic:    base.Italic,
		Underline: base.Underline,
		Color:     base.Color,
	}
	if cs := run.Properties.Style.Val; cs != "" {
		for _, id := range sr.chain(cs) {
			applyRunProps(&out.FontName, &out.FontSize, &out.Bold, &out.Italic, &out.Underline, &out.Color, sr.styles[id].RPr)
		}
	}
	applyRunProps(&out.FontName, &out.FontSize, &out.Bold, &out.Italic, &out.Underline, &out.Color, run.Properties)
	return out
}

// parseHalfPoints converts a size in half-points to points
func parseHalfPoints(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / 2
}

// parseTwips converts twips to points
func parseTwips(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / TwipsPerPoint
}
