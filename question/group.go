package question

import (
	"regexp"
	"strings"

	"github.com/viant/easymix/document"
)

// AnswerGroup is one selectable option: its marker paragraph and everything up
// to the next marker.
type AnswerGroup struct {
	Label   string
	Correct bool
	Nodes   []document.Node
}

// Lead returns the marker paragraph.
func (g *AnswerGroup) Lead() *document.Paragraph {
	return g.Nodes[0].(*document.Paragraph)
}

// Text returns the trimmed text of the group's marker paragraph.
func (g *AnswerGroup) Text() string {
	return strings.TrimSpace(g.Lead().Text())
}

// HasMedia reports whether the group holds a drawing, object or formula.
func (g *AnswerGroup) HasMedia() bool {
	for _, node := range g.Nodes {
		if document.HasMedia(node) {
			return true
		}
	}
	return false
}

// Groups splits nodes at every paragraph starting with marker. Nodes before the
// first marker are returned as the stem; the last group keeps any trailing nodes.
func Groups(nodes []document.Node, marker *regexp.Regexp) ([]document.Node, []*AnswerGroup) {
	var stem []document.Node
	var groups []*AnswerGroup
	for _, node := range nodes {
		if Matches(node, marker) {
			p := node.(*document.Paragraph)
			text, _ := Trimmed(node)
			groups = append(groups, &AnswerGroup{
				Label:   marker.FindString(text),
				Correct: IsCorrect(p, marker),
			})
		}
		if len(groups) == 0 {
			stem = append(stem, node)
			continue
		}
		last := groups[len(groups)-1]
		last.Nodes = append(last.Nodes, node)
	}
	return stem, groups
}
