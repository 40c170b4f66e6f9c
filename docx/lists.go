package docx

import (
	"strconv"
)

// ListLevel describes how one level of a numbering definition renders
type ListLevel struct {
	NumID   int
	Level   int
	Ordered bool
	Format  string // numFmt value
	Text    string // lvlText such as "%1." or a bullet glyph
	Start   int
}

// NumberingResolver resolves numbering references against numbering.xml.
type NumberingResolver struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	numMappings  map[string]string          // numId -> abstractNumId
}

// NewNumberingResolver creates a resolver from a decoded numbering part
func NewNumberingResolver(numbering *numberingXML) *NumberingResolver {
	nr := &NumberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		numMappings:  make(map[string]string),
	}
	if numbering == nil {
		return nr
	}
	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}
	for _, num := range numbering.Nums {
		nr.numMappings[num.NumID] = num.AbstractNumID.Val
	}
	return nr
}

// ResolveLevel returns the level definition for a numId and level. ok is
// false when numId is 0, unknown, or lacks the level.
func (nr *NumberingResolver) ResolveLevel(numID string, level int) (ListLevel, bool) {
	id, err := strconv.Atoi(numID)
	if err != nil || id == 0 {
		return ListLevel{}, false
	}
	abstract, ok := nr.abstractNums[nr.numMappings[numID]]
	if !ok {
		return ListLevel{}, false
	}
	want := strconv.Itoa(level)
	for _, lvl := range abstract.Levels {
		if lvl.ILvl != want {
			continue
		}
		out := ListLevel{
			NumID:   id,
			Level:   level,
			Format:  lvl.NumFmt.Val,
			Text:    lvl.LvlText.Val,
			Ordered: lvl.NumFmt.Val != "bullet" && lvl.NumFmt.Val != "none",
			Start:   1,
		}
		if s, err := strconv.Atoi(lvl.Start.Val); err == nil {
			out.Start = s
		}
		return out, true
	}
	return ListLevel{}, false
}

// Count returns the number of numbering instances
func (nr *NumberingResolver) Count() int {
	return len(nr.numMappings)
}
