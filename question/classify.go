package question

import (
	"strings"
	"unicode/utf8"
)

// Classify returns the question type of a block. The first matching rule wins:
// two or more choice markers, two or more true/false markers, a single choice
// marker whose text decides between short answer and essay, no markers at all.
func Classify(block *Block) Type {
	choices, items := 0, 0
	var lone string
	for _, node := range block.Nodes {
		text, ok := Trimmed(node)
		if !ok {
			continue
		}
		if ChoicePattern.MatchString(text) {
			choices++
			lone = text
		}
		if ItemPattern.MatchString(text) {
			items++
		}
	}
	switch {
	case choices >= 2:
		return MultipleChoice
	case items >= 2:
		return TrueFalse
	case choices == 1:
		answer := strings.TrimSpace(lone[len(ChoicePattern.FindString(lone)):])
		if utf8.RuneCountInString(answer) <= ShortAnswerLimit {
			return ShortAnswer
		}
		return Essay
	case items == 0:
		return ShortAnswer
	}
	return Unknown
}
