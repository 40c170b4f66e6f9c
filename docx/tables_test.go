package docx

import (
	"encoding/xml"
	"testing"
)

const mergedTableXML = `<w:tbl xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblBorders><w:top w:val="nil"/><w:insideH w:val="single" w:sz="4"/></w:tblBorders></w:tblPr>
  <w:tblGrid><w:gridCol w:w="2000"/><w:gridCol w:w="2000"/><w:gridCol w:w="2000"/></w:tblGrid>
  <w:tr>
    <w:trPr><w:tblHeader/></w:trPr>
    <w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>Wide</w:t></w:r></w:p></w:tc>
    <w:tc><w:tcPr><w:vMerge w:val="restart"/><w:shd w:val="clear" w:fill="FFFF00"/></w:tcPr><w:p><w:r><w:t>Tall</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>a</w:t></w:r></w:p><w:p><w:r><w:t>b</w:t></w:r></w:p></w:tc>
    <w:tc><w:tcPr><w:vAlign w:val="center"/></w:tcPr><w:p><w:r><w:t>c</w:t></w:r></w:p></w:tc>
    <w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>d</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>e</w:t></w:r></w:p></w:tc>
    <w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>
  </w:tr>
</w:tbl>`

func TestParseTable_Merges(t *testing.T) {
	var tbl tableXML
	if err := xml.Unmarshal([]byte(mergedTableXML), &tbl); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	info := parseTable(tbl)

	if info.ColCount() != 3 {
		t.Errorf("ColCount() = %d, want 3", info.ColCount())
	}
	if info.ColWidths[0] != 100 {
		t.Errorf("ColWidths[0] = %v, want 100", info.ColWidths[0])
	}
	if !info.HasBorders {
		t.Error("expected HasBorders")
	}
	if !info.Rows[0].IsHeader || info.Rows[1].IsHeader {
		t.Error("only the first row is a header")
	}

	wide := info.Rows[0].Cells[0]
	if wide.ColSpan != 2 || wide.Text != "Wide" {
		t.Errorf("wide cell = %+v", wide)
	}
	tall := info.Rows[0].Cells[1]
	if tall.RowSpan != 3 {
		t.Errorf("RowSpan = %d, want 3", tall.RowSpan)
	}
	if tall.Shading != "FFFF00" {
		t.Errorf("Shading = %q, want FFFF00", tall.Shading)
	}
	if !info.Rows[2].Cells[2].Continue {
		t.Error("expected continuation cell")
	}
	if got := info.Rows[1].Cells[0].Text; got != "a\nb" {
		t.Errorf("multi-paragraph cell = %q", got)
	}
	if got := info.Rows[1].Cells[1].VerticalAlign; got != "center" {
		t.Errorf("VerticalAlign = %q, want center", got)
	}
	if got := info.Cell(0, 2); got != "Tall" {
		t.Errorf("Cell(0, 2) = %q, want Tall", got)
	}
	if got := info.Cell(0, 1); got != "" {
		t.Errorf("Cell(0, 1) = %q, want empty (covered by span)", got)
	}
}

func TestTableInfo_ColCountWithoutGrid(t *testing.T) {
	info := TableInfo{Rows: []RowInfo{
		{Cells: []CellInfo{{ColSpan: 1}, {ColSpan: 3}}},
		{Cells: []CellInfo{{ColSpan: 1}}},
	}}
	if info.ColCount() != 4 {
		t.Errorf("ColCount() = %d, want 4", info.ColCount())
	}
}
