package builder

import (
	"strings"

	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/model"
	"github.com/tsawler/pdf2docx/tables"
)

// convertTable turns a detected table into an IR table whose cell
// paragraphs live in the document arena
func (b *Builder) convertTable(t *tables.Table) *ir.Table {
	out := &ir.Table{
		ColumnWidths: append([]float64(nil), t.ColumnWidths...),
		Width:        t.Width,
		HeaderRows:   t.HeaderRows,
		Alignment:    t.Alignment,
		Borders:      t.BorderColor != "",
		BorderColor:  t.BorderColor,
		CellPadding:  t.CellPadding,
		Page:         b.page,
		BBox:         t.BBox,
	}
	for _, row := range t.Rows {
		r := ir.TableRow{Header: row.Header}
		for _, c := range row.Cells {
			cell := ir.TableCell{
				RowSpan:       c.RowSpan,
				ColSpan:       c.ColSpan,
				Continue:      c.Continue,
				Alignment:     c.Alignment,
				VerticalAlign: verticalAlign(c.VerticalAlign),
				Background:    c.Background,
			}
			if !c.Continue {
				cell.Content = b.cellContent(c)
			}
			r.Cells = append(r.Cells, cell)
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

func verticalAlign(v tables.VerticalAlign) string {
	switch v {
	case tables.VAlignCenter:
		return ir.VAlignCenter
	case tables.VAlignBottom:
		return ir.VAlignBottom
	}
	return ""
}

// cellContent creates one paragraph per block of the cell, or a single
// empty paragraph for an empty cell
func (b *Builder) cellContent(c tables.Cell) []ir.Element {
	var out []ir.Element
	for _, blk := range c.Blocks {
		runs := b.makeRuns(Block{TextBlock: blk})
		trimLeadingSpace(runs)
		if c.Header {
			for i := range runs {
				runs[i].Bold = true
			}
		}
		id := b.doc.NewParagraph(ir.Paragraph{
			Runs:      runs,
			Role:      blk.Role,
			Alignment: c.Alignment,
			Bidi:      blk.RTL,
			Provenance: ir.Provenance{
				StartPage: b.page,
				EndPage:   b.page,
				BBox:      blk.BBox,
				FontSize:  blk.FontSize,
				Lines:     max(blk.Lines, 1),
			},
		})
		b.applyLinks(id, 0, blk)
		out = append(out, id)
	}
	if len(out) == 0 {
		out = append(out, b.doc.NewParagraph(ir.Paragraph{
			Alignment:  c.Alignment,
			Provenance: ir.Provenance{StartPage: b.page, EndPage: b.page},
		}))
	}
	return out
}

// AddFields appends the interactive form fields of the current page as a
// two column table of labels and values
func (b *Builder) AddFields(fields []model.FormField) error {
	if b.section == nil {
		return ErrNoSection
	}
	var rows []ir.TableRow
	var box model.BBox
	for _, f := range fields {
		if f.Kind == model.FieldButton {
			continue
		}
		label := firstNonEmpty(f.Label, f.Tooltip, f.Name)
		rows = append(rows, ir.TableRow{Cells: []ir.TableCell{
			{Content: []ir.Element{b.fieldParagraph(label, true)}},
			{Content: []ir.Element{b.fieldParagraph(fieldValue(f), false)}},
		}})
		box = box.Union(f.BBox)
	}
	if len(rows) == 0 {
		return nil
	}
	width := b.geometry.UsableWidth()
	if width <= 0 {
		width = box.Width
	}
	t := &ir.Table{
		Rows:         rows,
		ColumnWidths: []float64{0.35 * width, 0.65 * width},
		Width:        width,
		Borders:      true,
		BorderColor:  "BFBFBF",
		CellPadding:  4,
		Page:         b.page,
		BBox:         box,
	}
	return b.addElement(t, box)
}

func (b *Builder) fieldParagraph(text string, label bool) ir.ParagraphID {
	return b.doc.NewParagraph(ir.Paragraph{
		Runs:       []ir.Run{{Text: text, Bold: label}},
		Provenance: ir.Provenance{StartPage: b.page, EndPage: b.page, Lines: 1},
	})
}

// fieldValue renders the value a reader sees in a form field
func fieldValue(f model.FormField) string {
	switch f.Kind {
	case model.FieldCheckbox, model.FieldRadio:
		if f.Checked {
			return "☒"
		}
		return "☐"
	case model.FieldDropdown:
		if f.Value != "" {
			return f.Value
		}
		return strings.Join(f.Options, ", ")
	case model.FieldSignature:
		if f.Value != "" {
			return f.Value
		}
		return "Signature"
	}
	return f.Value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
