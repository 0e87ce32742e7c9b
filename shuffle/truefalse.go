package shuffle

import (
	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
)

func (s *Shuffler) trueFalse(q *question.Question, nodes []document.Node) *Result {
	stem, groups := question.Groups(nodes, question.ItemPattern)
	if len(groups) < 2 {
		return tooFew(q, nodes)
	}
	order := s.Perm(len(groups))
	result := &Result{Nodes: stem, Answer: Answer{Type: question.TrueFalse}, Order: order}
	for i, from := range order {
		group := groups[from]
		label := string(rune('a'+i)) + ")"
		lead := group.Lead()
		relabel(lead, question.ItemPattern, label, true)
		lead.Prepend(tabRun())
		lead.SetProp(document.TabStops(tabStops[1]...))
		result.Answer.Items = append(result.Answer.Items, Item{Label: label, True: group.Correct})
		result.Nodes = append(result.Nodes, group.Nodes...)
	}
	return result
}
