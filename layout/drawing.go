package layout

import (
	"math"

	"github.com/tsawler/pdf2docx/model"
)

// Drawing is a group of touching vector lines and paths rendered as one
// picture
type Drawing struct {
	BBox  model.BBox
	Lines []model.Line
	Paths []model.Path
}

// DrawingConfig holds configuration for vector grouping
type DrawingConfig struct {
	// JoinTolerance is the distance within which vector pieces belong to one
	// drawing (default: 2)
	JoinTolerance float64

	// BackgroundTolerance is how far a paragraph may poke out of a filled
	// rectangle that still counts as its background (default: 4)
	BackgroundTolerance float64

	// MaxPageCoverage is the page area fraction above which a filled path is
	// a page background and dropped (default: 0.9)
	MaxPageCoverage float64
}

// DefaultDrawingConfig returns sensible default configuration
func DefaultDrawingConfig() DrawingConfig {
	return DrawingConfig{JoinTolerance: 2, BackgroundTolerance: 4, MaxPageCoverage: 0.9}
}

func isWhite(c model.Color) bool {
	return c.Hex() == "FFFFFF"
}

// visible reports whether a path leaves a mark on white paper
func visible(p model.Path) bool {
	if p.Stroke && !isWhite(p.StrokeColor) {
		return true
	}
	return p.Fill && !isWhite(p.FillColor)
}

// pathBackgrounds assigns filled paths enclosing a paragraph as that
// paragraph's background. It returns the consumed path indexes.
func pathBackgrounds(paras []Paragraph, paths []model.Path, tol float64) map[int]bool {
	used := make(map[int]bool)
	for pi, p := range paths {
		if !p.Fill || isWhite(p.FillColor) {
			continue
		}
		box := p.BBox().Expand(tol)
		for i := range paras {
			b := paras[i].Block.BBox
			if box.Contains(model.Point{X: b.Left(), Y: b.Bottom()}) && box.Contains(model.Point{X: b.Right(), Y: b.Top()}) {
				paras[i].Background = p.FillColor.Hex()
				used[pi] = true
			}
		}
	}
	return used
}

// markUnderlines flags spans that sit on a horizontal rule just below their
// baseline. It returns the consumed line indexes.
func markUnderlines(blocks []model.TextBlock, lines []model.Line) map[int]bool {
	used := make(map[int]bool)
	for li, l := range lines {
		if !l.IsHorizontal(0.5) {
			continue
		}
		y := (l.Start.Y + l.End.Y) / 2
		lb := l.BBox()
		for bi := range blocks {
			b := &blocks[bi]
			if b.Vertical || b.FontSize <= 0 {
				continue
			}
			baseline := b.BBox.Bottom() + 0.2*b.FontSize
			if y > baseline+0.05*b.FontSize || y < baseline-0.4*b.FontSize {
				continue
			}
			if b.BBox.HorizontalOverlap(lb) < 0.5*lb.Width {
				continue
			}
			hit := false
			for si := range b.Spans {
				sp := &b.Spans[si]
				if sp.BBox.Width > 0 && sp.BBox.HorizontalOverlap(lb) >= 0.5*sp.BBox.Width {
					sp.Underline = true
					hit = true
				}
			}
			if hit {
				applyDominantStyle(b)
				used[li] = true
			}
		}
	}
	return used
}

// groupDrawings clusters the remaining visible vectors into drawings
func groupDrawings(lines []model.Line, paths []model.Path, pageArea float64, config DrawingConfig) []Drawing {
	type piece struct {
		box  model.BBox
		line *model.Line
		path *model.Path
	}
	var pieces []piece
	for i := range lines {
		if isWhite(lines[i].Color) {
			continue
		}
		pieces = append(pieces, piece{box: lines[i].BBox().Expand(math.Max(lines[i].Width, 0.5) / 2), line: &lines[i]})
	}
	for i := range paths {
		p := &paths[i]
		if !visible(*p) {
			continue
		}
		box := p.BBox()
		if pageArea > 0 && p.Fill && box.Area() >= config.MaxPageCoverage*pageArea {
			continue
		}
		pieces = append(pieces, piece{box: box, path: p})
	}

	parent := make([]int, len(pieces))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for a := range pieces {
		for b := a + 1; b < len(pieces); b++ {
			if pieces[a].box.Expand(config.JoinTolerance).Intersects(pieces[b].box) {
				parent[find(a)] = find(b)
			}
		}
	}

	index := make(map[int]int)
	var out []Drawing
	for i, pc := range pieces {
		root := find(i)
		di, ok := index[root]
		if !ok {
			di = len(out)
			index[root] = di
			out = append(out, Drawing{})
		}
		d := &out[di]
		d.BBox = d.BBox.Union(pc.box)
		if pc.line != nil {
			d.Lines = append(d.Lines, *pc.line)
		} else {
			d.Paths = append(d.Paths, *pc.path)
		}
	}
	return out
}
