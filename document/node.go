package document

import "strings"

// Node is a block-level element of a document body.
type Node interface {
	// Text returns the plain text of the node.
	Text() string
	// Clone returns a deep copy of the node.
	Clone() Node
}

// Raw is a block-level element kept verbatim (structured tags, block drawings, custom XML).
type Raw struct {
	Name string // local element name
	XML  string
}

func (r *Raw) Text() string { return xmlText(r.XML) }

func (r *Raw) Clone() Node {
	clone := *r
	return &clone
}

// Section holds body-level section properties (w:sectPr).
type Section struct {
	XML string
}

func (s *Section) Text() string { return "" }

func (s *Section) Clone() Node {
	clone := *s
	return &clone
}

// CloneNodes deep-copies a node sequence.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	result := make([]Node, len(nodes))
	for i, node := range nodes {
		result[i] = node.Clone()
	}
	return result
}

// NodesText joins the text of nodes, one line per node.
func NodesText(nodes []Node) string {
	lines := make([]string, 0, len(nodes))
	for _, node := range nodes {
		lines = append(lines, node.Text())
	}
	return strings.Join(lines, "\n")
}

// HasMedia reports whether a node carries a drawing, embedded object or formula.
func HasMedia(node Node) bool {
	switch actual := node.(type) {
	case *Paragraph:
		return actual.HasMedia()
	case *Table:
		for _, row := range actual.Rows {
			for _, cell := range row.Cells {
				for _, child := range cell.Nodes {
					if HasMedia(child) {
						return true
					}
				}
			}
		}
	case *Raw:
		return rawMedia(actual.XML)
	}
	return false
}

func rawMedia(markup string) bool {
	for _, marker := range []string{"<w:drawing", "<w:pict", "<w:object", "<m:oMath"} {
		if strings.Contains(markup, marker) {
			return true
		}
	}
	return false
}

// Paragraphs returns every paragraph of nodes, including those nested in table cells.
func Paragraphs(nodes []Node) []*Paragraph {
	var result []*Paragraph
	for _, node := range nodes {
		switch actual := node.(type) {
		case *Paragraph:
			result = append(result, actual)
		case *Table:
			for _, row := range actual.Rows {
				for _, cell := range row.Cells {
					result = append(result, Paragraphs(cell.Nodes)...)
				}
			}
		}
	}
	return result
}
