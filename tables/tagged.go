package tables

import "github.com/tsawler/pdf2docx/model"

// TaggedDetector builds tables from segments whose structure role marks a
// table cell.
type TaggedDetector struct {
	config Config
}

// NewTaggedDetector creates a tagged-role detector
func NewTaggedDetector(config Config) *TaggedDetector {
	return &TaggedDetector{config: config}
}

// Name returns the detector name
func (d *TaggedDetector) Name() string {
	return "tagged"
}

// Detect implements Detector
func (d *TaggedDetector) Detect(in Input, claimed map[int]bool) []Detection {
	idx := unclaimed(in, claimed, func(b model.TextBlock) bool { return IsCellRole(b.Role) })
	if len(idx) < d.config.MinBlocks {
		return nil
	}

	var out []Detection
	for _, cluster := range clusterByProximity(in.Blocks, idx, d.config.TaggedTolerance) {
		if len(cluster) < d.config.MinBlocks {
			continue
		}
		rows := gridEdges(in.Blocks, cluster, true)
		cols := gridEdges(in.Blocks, cluster, false)
		if len(rows) < 2 || len(cols) < 2 {
			continue
		}
		det := buildTable(in, cluster, rows, cols, gridStyle{
			source:      d.Name(),
			borderColor: "000000",
			padding:     3,
		}, d.config.ProjectionTolerance)
		if det != nil {
			out = append(out, *det)
		}
	}
	return out
}
