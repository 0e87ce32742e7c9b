package shuffle

import (
	"unicode/utf8"

	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
)

// Tab stop layouts in twips, keyed by options per line.
var tabStops = map[int][]int{
	1: {238},
	2: {238, 5239},
	4: {238, 2619, 5239, 7859},
}

func (s *Shuffler) multipleChoice(q *question.Question, nodes []document.Node) *Result {
	stem, groups := question.Groups(nodes, question.ChoicePattern)
	if len(groups) < 2 {
		return tooFew(q, nodes)
	}
	order := s.Perm(len(groups))
	shuffled := make([]*question.AnswerGroup, len(groups))
	correct := ""
	for i, from := range order {
		group := groups[from]
		letter := string(rune('A' + i))
		relabel(group.Lead(), question.ChoicePattern, letter+".", false)
		if group.Correct && correct == "" {
			correct = letter
		}
		shuffled[i] = group
	}
	result := &Result{
		Nodes:  append(stem, arrange(shuffled, Layout(shuffled))...),
		Answer: Answer{Type: question.MultipleChoice, Choice: correct},
		Order:  order,
	}
	return result
}

// Layout returns how many options fit on one line: 1 when an option spans
// several nodes or several options carry media, 2 when one option carries
// media or the longest option is under 36 characters, 4 when every option is
// under 18 characters.
func Layout(groups []*question.AnswerGroup) int {
	media, longest := 0, 0
	for _, group := range groups {
		if len(group.Nodes) > 1 {
			return 1
		}
		if group.HasMedia() {
			media++
		}
		if n := utf8.RuneCountInString(group.Text()); n > longest {
			longest = n
		}
	}
	switch {
	case media >= 2:
		return 1
	case media == 1:
		return 2
	case longest < 18:
		return 4
	case longest < 36:
		return 2
	}
	return 1
}

// arrange packs option groups onto lines separated by tabs.
func arrange(groups []*question.AnswerGroup, perLine int) []document.Node {
	stops := tabStops[perLine]
	var nodes []document.Node
	for i := 0; i < len(groups); i += perLine {
		line := groups[i:min(i+perLine, len(groups))]
		p := &document.Paragraph{Props: line[0].Lead().Props.Without("tabs", "numPr")}
		p.SetProp(document.TabStops(stops...))
		for _, group := range line {
			p.Append(tabRun())
			p.Append(group.Lead().Inlines...)
		}
		nodes = append(nodes, p)
		for _, group := range line {
			nodes = append(nodes, group.Nodes[1:]...)
		}
	}
	return nodes
}
