package layout

import (
	"testing"

	"github.com/tsawler/pdf2docx/model"
)

func stack(x, width float64, n int) []model.BBox {
	var out []model.BBox
	for i := 0; i < n; i++ {
		out = append(out, model.NewBBox(x, 700-float64(i)*60, width, 50))
	}
	return out
}

func TestColumnDetector(t *testing.T) {
	tests := []struct {
		name    string
		boxes   []model.BBox
		count   int
		spacing float64
	}{
		{"single column", stack(72, 468, 6), 1, 0},
		{"too few blocks", append(stack(72, 200, 1), stack(320, 200, 1)...), 1, 0},
		{"two columns", append(stack(72, 200, 4), stack(320, 200, 4)...), 2, 48},
		{"indents only", append(stack(72, 400, 3), stack(90, 380, 2)...), 1, 0},
		{"three columns", append(append(stack(50, 150, 3), stack(230, 150, 3)...), stack(410, 150, 3)...), 3, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewColumnDetector().Detect(tt.boxes)
			if got.Count != tt.count {
				t.Fatalf("Count = %d, want %d", got.Count, tt.count)
			}
			if tt.count > 1 && got.Spacing != tt.spacing {
				t.Errorf("Spacing = %v, want %v", got.Spacing, tt.spacing)
			}
		})
	}
}

func TestColumnLayout_ColumnOf(t *testing.T) {
	cols := ColumnLayout{Count: 3, Boundaries: []float64{230, 410}}
	tests := map[float64]int{50: 0, 229.5: 1, 300: 1, 410: 2, 500: 2}
	for x, want := range tests {
		if got := cols.ColumnOf(x); got != want {
			t.Errorf("ColumnOf(%v) = %d, want %d", x, got, want)
		}
	}
}
