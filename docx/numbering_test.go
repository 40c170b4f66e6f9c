package docx

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2docx/ir"
)

func TestNumberingID(t *testing.T) {
	tests := []struct {
		name string
		n    *ir.Numbering
		want int
	}{
		{"nil", nil, BulletNumID},
		{"bullet", &ir.Numbering{Kind: ir.NumberingBullet, Format: "upperRoman"}, BulletNumID},
		{"decimal dot", &ir.Numbering{Kind: ir.NumberingOrdered, Format: "decimal", Punctuation: "dot"}, 2},
		{"decimal paren", &ir.Numbering{Kind: ir.NumberingOrdered, Format: "decimal", Punctuation: "paren"}, 3},
		{"decimal enclosed", &ir.Numbering{Kind: ir.NumberingOrdered, Format: "decimal", Punctuation: "enclosed"}, 4},
		{"lower letter dot", &ir.Numbering{Kind: ir.NumberingOrdered, Format: "lowerLetter", Punctuation: "dot"}, 5},
		{"upper roman enclosed", &ir.Numbering{Kind: ir.NumberingOrdered, Format: "upperRoman", Punctuation: "enclosed"}, 16},
		{"unknown falls back", &ir.Numbering{Kind: ir.NumberingOrdered, Format: "chineseCounting"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberingID(tt.n))
		})
	}
}

func TestNumberingPart_Catalog(t *testing.T) {
	data, err := numberingPart()
	require.NoError(t, err)

	var n numberingXML
	require.NoError(t, xml.Unmarshal(data, &n))
	assert.Len(t, n.AbstractNums, 16)
	assert.Len(t, n.Nums, 16)
	for _, an := range n.AbstractNums {
		assert.Len(t, an.Levels, ir.MaxLevel+1, "abstractNum %s", an.AbstractNumID)
	}

	nr := NewNumberingResolver(&n)
	assert.Equal(t, 16, nr.Count())

	tests := []struct {
		numID   string
		level   int
		format  string
		text    string
		ordered bool
	}{
		{"1", 0, "bullet", "•", false},
		{"1", 4, "bullet", "•", false},
		{"2", 0, "decimal", "%1.", true},
		{"2", 1, "lowerLetter", "%2.", true},
		{"2", 2, "lowerRoman", "%3.", true},
		{"3", 0, "decimal", "%1)", true},
		{"4", 0, "decimal", "(%1)", true},
		{"14", 0, "upperRoman", "%1.", true},
		{"14", 1, "decimal", "%2.", true},
	}
	for _, tt := range tests {
		lvl, ok := nr.ResolveLevel(tt.numID, tt.level)
		require.True(t, ok, "numId %s level %d", tt.numID, tt.level)
		assert.Equal(t, tt.format, lvl.Format)
		assert.Equal(t, tt.text, lvl.Text)
		assert.Equal(t, tt.ordered, lvl.Ordered)
		assert.Equal(t, 1, lvl.Start)
	}
}

func TestNumberingResolver_Missing(t *testing.T) {
	nr := NewNumberingResolver(nil)
	_, ok := nr.ResolveLevel("2", 0)
	assert.False(t, ok)

	data, err := numberingPart()
	require.NoError(t, err)
	var n numberingXML
	require.NoError(t, xml.Unmarshal(data, &n))
	nr = NewNumberingResolver(&n)

	_, ok = nr.ResolveLevel("0", 0)
	assert.False(t, ok, "numId 0 removes numbering")
	_, ok = nr.ResolveLevel("99", 0)
	assert.False(t, ok)
	_, ok = nr.ResolveLevel("2", 12)
	assert.False(t, ok)
}
