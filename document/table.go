package document

import (
	"strconv"
	"strings"
)

// Table is a w:tbl element.
type Table struct {
	Props string // inner markup of w:tblPr
	Grid  []int  // column widths in twips
	Rows  []*Row
}

// Row is a w:tr element.
type Row struct {
	Props string // inner markup of w:trPr
	Cells []*Cell
}

// Cell is a w:tc element.
type Cell struct {
	Props string // inner markup of w:tcPr
	Nodes []Node
}

const defaultTableProps = `<w:tblW w:w="5000" w:type="pct"/><w:jc w:val="center"/>` +
	`<w:tblBorders><w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/></w:tblBorders>` +
	`<w:tblLayout w:type="autofit"/>`

// NewTable creates a bordered, centred, full width table with the given column widths.
func NewTable(widths ...int) *Table {
	return &Table{Props: defaultTableProps, Grid: append([]int(nil), widths...)}
}

// AddRow appends a row made of cells.
func (t *Table) AddRow(cells ...*Cell) *Row {
	row := &Row{Cells: cells}
	for i, cell := range cells {
		if cell.Props == "" && i < len(t.Grid) {
			cell.Props = `<w:tcW w:w="` + strconv.Itoa(t.Grid[i]) + `" w:type="dxa"/><w:vAlign w:val="center"/>`
		}
	}
	t.Rows = append(t.Rows, row)
	return row
}

// NewCell creates a cell holding the given nodes; an empty cell gets an empty paragraph.
func NewCell(nodes ...Node) *Cell {
	if len(nodes) == 0 {
		nodes = []Node{NewParagraph()}
	}
	return &Cell{Nodes: nodes}
}

// TextCell creates a cell with one paragraph holding the lines separated by
// breaks; a single line is centred.
func TextCell(lines []string, props ...Prop) *Cell {
	p := NewParagraph()
	for i, line := range lines {
		if i > 0 {
			p.Append(&Run{Content: []Content{&Break{}}})
		}
		p.Append(NewRun(line, props...))
	}
	if len(lines) > 1 {
		p.SetProp(Justify("left"))
	} else {
		p.SetProp(Justify("center"))
	}
	return NewCell(p)
}

func (t *Table) Text() string {
	lines := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, NodesText(cell.Nodes))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return strings.Join(lines, "\n")
}

func (t *Table) Clone() Node {
	result := &Table{Props: t.Props, Grid: append([]int(nil), t.Grid...)}
	for _, row := range t.Rows {
		cloned := &Row{Props: row.Props}
		for _, cell := range row.Cells {
			cloned.Cells = append(cloned.Cells, &Cell{Props: cell.Props, Nodes: CloneNodes(cell.Nodes)})
		}
		result.Rows = append(result.Rows, cloned)
	}
	return result
}
