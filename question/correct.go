package question

import (
	"regexp"

	"github.com/viant/easymix/document"
)

// IsCorrect reports whether the option paragraph is marked correct: one of the
// runs carrying its leading marker is underlined with a style other than "none".
func IsCorrect(p *document.Paragraph, marker *regexp.Regexp) bool {
	n := MarkerLength(p, marker)
	if n == 0 {
		return false
	}
	for _, run := range p.LeadingRuns(n) {
		if document.Underlined(run.Props) {
			return true
		}
	}
	return false
}
