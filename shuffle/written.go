package shuffle

import (
	"strings"

	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
)

// shortAnswer hides the marked answer paragraph and returns its text.
func shortAnswer(nodes []document.Node) *Result {
	result := &Result{Answer: Answer{Type: question.ShortAnswer}}
	found := false
	for _, node := range nodes {
		if !found && question.Matches(node, question.ChoicePattern) {
			text, _ := question.Trimmed(node)
			result.Answer.Text = strings.TrimSpace(text[len(question.ChoicePattern.FindString(text)):])
			found = true
			continue
		}
		result.Nodes = append(result.Nodes, node)
	}
	return result
}

// essay moves the answer content out of the visible block: from the first
// answer marker up to the next one.
func essay(nodes []document.Node) *Result {
	result := &Result{Answer: Answer{Type: question.Essay, Points: question.Points(document.NodesText(nodes))}}
	start := -1
	end := len(nodes)
	for i, node := range nodes {
		if !question.Matches(node, question.AnswerPattern) {
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		end = i
		break
	}
	if start < 0 {
		result.Nodes = nodes
		return result
	}
	content := nodes[start:end]
	lead := content[0].(*document.Paragraph)
	lead.TrimLeading(question.MarkerLength(lead, question.AnswerPattern))
	lead.TrimLeading(0)
	result.Answer.Content = content
	result.Answer.Text = document.NodesText(content)
	result.Nodes = append(append(result.Nodes, nodes[:start]...), nodes[end:]...)
	return result
}
