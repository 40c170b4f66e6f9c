package layout

import (
	"testing"

	"github.com/tsawler/pdf2docx/model"
)

func TestEstimateMargins(t *testing.T) {
	config := DefaultMarginConfig()
	tests := []struct {
		name  string
		boxes []model.BBox
		want  Margins
	}{
		{"no content", nil, Margins{Top: 72, Bottom: 72, Left: 72, Right: 72}},
		{"letter with inch margins", []model.BBox{model.RectBBox(72, 72, 540, 720)}, Margins{Top: 72, Bottom: 72, Left: 72, Right: 72}},
		{"content at the edge", []model.BBox{model.RectBBox(2, 2, 610, 790)}, Margins{Top: 12, Bottom: 12, Left: 12, Right: 12}},
		{"small centered content", []model.BBox{model.RectBBox(290, 380, 320, 400)}, Margins{Top: 180, Bottom: 180, Left: 180, Right: 180}},
		{"union of boxes", []model.BBox{model.RectBBox(90, 500, 200, 700), model.RectBBox(100, 100, 500, 200)}, Margins{Top: 92, Bottom: 100, Left: 90, Right: 112}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateMargins(tt.boxes, 612, 792, config); got != tt.want {
				t.Errorf("EstimateMargins() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInferAlignment(t *testing.T) {
	m := Margins{Top: 72, Bottom: 72, Left: 72, Right: 72}
	block := func(x, w float64, lines int) model.TextBlock {
		return model.TextBlock{BBox: model.NewBBox(x, 600, w, 12), Lines: lines}
	}
	tests := []struct {
		name  string
		block model.TextBlock
		want  model.Alignment
	}{
		{"left", block(72, 200, 1), model.AlignLeft},
		{"center", block(256, 100, 1), model.AlignCenter},
		{"right", block(400, 140, 1), model.AlignRight},
		{"justified", block(72, 468, 3), model.AlignJustify},
		{"full single line", block(72, 468, 1), model.AlignLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferAlignment(tt.block, 612, m, DefaultAlignmentConfig()); got != tt.want {
				t.Errorf("InferAlignment() = %q, want %q", got, tt.want)
			}
		})
	}
}
