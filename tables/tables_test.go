package tables

import (
	"math"
	"testing"

	"github.com/tsawler/pdf2docx/model"
)

func block(text string, x, top, w, h float64) model.TextBlock {
	return model.TextBlock{Text: text, BBox: model.NewBBox(x, top-h, w, h), FontSize: h}
}

func hline(y, x1, x2 float64) model.Line {
	return model.Line{Start: model.Point{X: x1, Y: y}, End: model.Point{X: x2, Y: y}, Width: 1}
}

func vline(x, y1, y2 float64) model.Line {
	return model.Line{Start: model.Point{X: x, Y: y1}, End: model.Point{X: x, Y: y2}, Width: 1}
}

// rules3x3 draws a 3x3 grid spanning x 100..400 and y 640..700
func rules3x3() []model.Line {
	var lines []model.Line
	for _, y := range []float64{700, 680, 660, 640} {
		lines = append(lines, hline(y, 100, 400))
	}
	for _, x := range []float64{100, 200, 300, 400} {
		lines = append(lines, vline(x, 640, 700))
	}
	return lines
}

func cellText(c Cell) string {
	s := ""
	for _, b := range c.Blocks {
		s += b.Text
	}
	return s
}

// TestDetectRuling tests a fully ruled grid with one segment per cell
func TestDetectRuling(t *testing.T) {
	var blocks []model.TextBlock
	names := [][]string{{"a", "b", "c"}, {"d", "e", "f"}, {"g", "h", "i"}}
	for r, row := range names {
		for c, name := range row {
			blocks = append(blocks, block(name+"x", 110+float64(c)*100, 697-float64(r)*20, 40, 10))
		}
	}
	found := Detect(Input{Blocks: blocks, Lines: rules3x3(), PageWidth: 500}, DefaultConfig())
	if len(found) != 1 {
		t.Fatalf("Detect() found %d tables, want 1", len(found))
	}
	d := found[0]
	if d.Table.Source != "ruling" {
		t.Errorf("Source = %q, want ruling", d.Table.Source)
	}
	if d.Table.RowCount() != 3 || d.Table.ColumnCount() != 3 {
		t.Fatalf("table is %dx%d, want 3x3", d.Table.RowCount(), d.Table.ColumnCount())
	}
	if err := d.Table.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if len(d.Blocks) != 9 || len(d.Lines) != 8 {
		t.Errorf("claimed %d blocks and %d lines, want 9 and 8", len(d.Blocks), len(d.Lines))
	}
	for r, row := range names {
		for c, name := range row {
			if got := cellText(d.Table.Rows[r].Cells[c]); got != name+"x" {
				t.Errorf("cell(%d,%d) = %q, want %q", r, c, got, name+"x")
			}
		}
	}
	for i, w := range d.Table.ColumnWidths {
		if math.Abs(w-100) > 0.01 {
			t.Errorf("ColumnWidths[%d] = %.2f, want 100", i, w)
		}
	}
	if d.Table.BorderColor != "000000" {
		t.Errorf("BorderColor = %q", d.Table.BorderColor)
	}
}

// TestSpanExpansion tests that spanning cells keep every row at the column count
func TestSpanExpansion(t *testing.T) {
	blocks := []model.TextBlock{
		block("wide", 110, 697, 180, 10),
		block("tall", 310, 695, 60, 30),
		block("left", 110, 677, 40, 10),
	}
	found := Detect(Input{Blocks: blocks, Lines: rules3x3(), PageWidth: 500}, DefaultConfig())
	if len(found) != 1 {
		t.Fatalf("Detect() found %d tables, want 1", len(found))
	}
	tbl := found[0].Table
	if err := tbl.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	row0 := tbl.Rows[0].Cells
	if len(row0) != 2 || row0[0].ColSpan != 2 || row0[1].RowSpan != 2 {
		t.Fatalf("row 0 = %+v, want a 2-column cell then a 2-row cell", row0)
	}
	row1 := tbl.Rows[1].Cells
	if len(row1) != 3 {
		t.Fatalf("row 1 has %d cells, want 3", len(row1))
	}
	if cellText(row1[0]) != "left" || !row1[1].IsEmpty() || !row1[2].Continue {
		t.Errorf("row 1 = %+v", row1)
	}
}

// TestDetectTagged tests tables built from cell roles, including header rows
func TestDetectTagged(t *testing.T) {
	blocks := []model.TextBlock{
		block("Name", 100, 700, 40, 10),
		block("Qty", 150, 700, 30, 10),
		block("Apple", 100, 685, 40, 10),
		block("12", 150, 685, 15, 10),
		block("Pear", 100, 670, 40, 10),
		block("7", 150, 670, 8, 10),
	}
	blocks[0].Role, blocks[1].Role = "TH", "TH"
	for i := 2; i < len(blocks); i++ {
		blocks[i].Role = "TD"
	}
	// Separate rules must not steal the tagged cells.
	lines := []model.Line{hline(500, 50, 60), hline(490, 50, 60), vline(50, 490, 500), vline(60, 490, 500)}

	found := Detect(Input{Blocks: blocks, Lines: lines, PageWidth: 600}, DefaultConfig())
	if len(found) != 1 {
		t.Fatalf("Detect() found %d tables, want 1", len(found))
	}
	tbl := found[0].Table
	if tbl.Source != "tagged" {
		t.Errorf("Source = %q, want tagged", tbl.Source)
	}
	if tbl.RowCount() != 3 || tbl.ColumnCount() != 2 {
		t.Fatalf("table is %dx%d, want 3x2", tbl.RowCount(), tbl.ColumnCount())
	}
	if tbl.HeaderRows != 1 || !tbl.Rows[0].Header {
		t.Errorf("HeaderRows = %d, want 1", tbl.HeaderRows)
	}
	head := tbl.Rows[0].Cells[0]
	if head.Background != HeaderFill || head.Alignment != model.AlignCenter || head.VerticalAlign != VAlignCenter {
		t.Errorf("header cell = %+v", head)
	}
	if got := tbl.Rows[1].Cells[1].Alignment; got != model.AlignRight {
		t.Errorf("numeric cell alignment = %q, want right", got)
	}
}

// TestDetectWhitespace tests borderless grids and the density gate
func TestDetectWhitespace(t *testing.T) {
	t.Run("grid", func(t *testing.T) {
		var blocks []model.TextBlock
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				blocks = append(blocks, block("v", 100+float64(c)*70, 700-float64(r)*15, 40, 10))
			}
		}
		found := Detect(Input{Blocks: blocks, PageWidth: 600}, DefaultConfig())
		if len(found) != 1 {
			t.Fatalf("Detect() found %d tables, want 1", len(found))
		}
		tbl := found[0].Table
		if tbl.RowCount() != 3 || tbl.ColumnCount() != 3 {
			t.Errorf("table is %dx%d, want 3x3", tbl.RowCount(), tbl.ColumnCount())
		}
		if tbl.BorderColor != "808080" || tbl.CellPadding != 2.5 {
			t.Errorf("style = %q/%.1f", tbl.BorderColor, tbl.CellPadding)
		}
	})

	t.Run("prose", func(t *testing.T) {
		var blocks []model.TextBlock
		for r := 0; r < 6; r++ {
			blocks = append(blocks, block("the quick brown fox jumps over the lazy dog", 72, 700-float64(r)*14, 400, 10))
		}
		if found := Detect(Input{Blocks: blocks, PageWidth: 612}, DefaultConfig()); len(found) != 0 {
			t.Errorf("Detect() found %d tables in prose, want 0", len(found))
		}
	})

	t.Run("wordy columns", func(t *testing.T) {
		var blocks []model.TextBlock
		for r := 0; r < 4; r++ {
			for c := 0; c < 2; c++ {
				blocks = append(blocks, block("one two three four five six seven eight", 72+float64(c)*230, 700-float64(r)*14, 200, 10))
			}
		}
		if found := Detect(Input{Blocks: blocks, PageWidth: 612}, DefaultConfig()); len(found) != 0 {
			t.Errorf("Detect() found %d tables in two-column prose, want 0", len(found))
		}
	})
}

// TestDetectTooFewLines tests that a lone rule does not form a grid
func TestDetectTooFewLines(t *testing.T) {
	d := NewRulingDetector(DefaultConfig())
	in := Input{
		Blocks: []model.TextBlock{block("x", 110, 697, 10, 10)},
		Lines:  []model.Line{hline(700, 100, 400), vline(100, 600, 700)},
	}
	if got := d.Detect(in, map[int]bool{}); got != nil {
		t.Errorf("Detect() = %v, want nil", got)
	}
}

// TestLooksNumeric tests numeric cell recognition
func TestLooksNumeric(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"42", true},
		{"1,234.50", true},
		{"−3", true},
		{"12%", true},
		{"$99", true},
		{"NaN", false},
		{"Inf", false},
		{"abc", false},
		{"", false},
		{"12a", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := LooksNumeric(tt.text); got != tt.want {
				t.Errorf("LooksNumeric(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// TestInferAlignment tests cell alignment inference from text
func TestInferAlignment(t *testing.T) {
	tests := []struct {
		text string
		want model.Alignment
	}{
		{"3.5", model.AlignRight},
		{"Yes", model.AlignCenter},
		{"N/A", model.AlignNone},
		{"Description", model.AlignNone},
		{"  ", model.AlignNone},
	}
	for _, tt := range tests {
		if got := inferAlignment(tt.text); got != tt.want {
			t.Errorf("inferAlignment(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

// TestClusterValues tests 1-D coordinate clustering
func TestClusterValues(t *testing.T) {
	got := clusterValues([]float64{10, 300, 10.5, 100, 100.8, 11}, 1.0)
	want := []float64{10.5, 100.4, 300}
	if len(got) != len(want) {
		t.Fatalf("clusterValues() = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 0.01 {
			t.Errorf("clusterValues()[%d] = %.2f, want %.2f", i, got[i], want[i])
		}
	}
	if clusterValues(nil, 1) != nil {
		t.Error("clusterValues(nil) should be nil")
	}
}

// TestTableAlignment tests table placement relative to the page
func TestTableAlignment(t *testing.T) {
	tests := []struct {
		left, right float64
		want        model.Alignment
	}{
		{206, 406, model.AlignCenter},
		{72, 200, model.AlignLeft},
		{400, 540, model.AlignRight},
	}
	for _, tt := range tests {
		if got := tableAlignment(612, tt.left, tt.right); got != tt.want {
			t.Errorf("tableAlignment(%.0f, %.0f) = %q, want %q", tt.left, tt.right, got, tt.want)
		}
	}
}

// TestClusterByProximity tests transitive clustering of nearby boxes
func TestClusterByProximity(t *testing.T) {
	blocks := []model.TextBlock{
		block("a", 0, 100, 10, 10),
		block("b", 30, 100, 10, 10),
		block("c", 60, 100, 10, 10),
		block("far", 500, 100, 10, 10),
	}
	got := clusterByProximity(blocks, []int{0, 1, 2, 3}, 25)
	if len(got) != 2 || len(got[0]) != 3 || len(got[1]) != 1 {
		t.Errorf("clusterByProximity() = %v, want [[0 1 2] [3]]", got)
	}
}
