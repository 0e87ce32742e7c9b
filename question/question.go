package question

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/easymix/document"
)

// ErrNoQuestions is returned when a document has no recognizable question header.
var ErrNoQuestions = errors.New("no question blocks found")

// Diagnostic codes.
const (
	CodeLeadContent  = "lead_content"
	CodeOptionCount  = "option_count"
	CodeCorrectCount = "correct_count"
	CodeItemCount    = "item_count"
	CodeItemLabels   = "item_labels"
	CodeEmptyAnswer  = "empty_answer"
	CodeUnknownType  = "unknown_type"
	CodeRelink       = "relink"
)

// Diagnostic is a validation finding attached to a question; it never stops processing.
type Diagnostic struct {
	Question int // 1-based source position, 0 for document level findings
	Code     string
	Message  string
}

func (d Diagnostic) String() string {
	if d.Question == 0 {
		return d.Code + ": " + d.Message
	}
	return fmt.Sprintf("question %d: %s: %s", d.Question, d.Code, d.Message)
}

// Question is a classified block of the source document.
type Question struct {
	Number      int // 1-based source position
	Block       *Block
	Type        Type
	Level       Level
	Diagnostics []Diagnostic
}

// Source is the parsed form of a source document. It is built once and only read afterwards.
type Source struct {
	Document    *document.Document
	Lead        []document.Node
	Tail        []document.Node
	Questions   []*Question
	Diagnostics []Diagnostic
}

// Parse segments and classifies a document.
func Parse(doc *document.Document) (*Source, error) {
	segmentation := Segment(doc)
	if len(segmentation.Blocks) == 0 {
		return nil, ErrNoQuestions
	}
	source := &Source{Document: doc, Lead: segmentation.Lead, Tail: segmentation.Tail}
	if hasContent(segmentation.Lead) {
		source.Diagnostics = append(source.Diagnostics, Diagnostic{
			Code:    CodeLeadContent,
			Message: "content before the first question header is kept as front matter",
		})
	}
	for i, block := range segmentation.Blocks {
		q := &Question{Number: i + 1, Block: block, Type: Classify(block)}
		if header := block.Header(); header != nil {
			q.Level = LevelOf(header.Text())
		}
		q.Diagnostics = Validate(q)
		source.Questions = append(source.Questions, q)
	}
	return source, nil
}

// ByType returns questions of type t in source order.
func (s *Source) ByType(t Type) []*Question {
	var result []*Question
	for _, q := range s.Questions {
		if q.Type == t {
			result = append(result, q)
		}
	}
	return result
}

// Validate checks a question against the option counts its type expects.
func Validate(q *Question) []Diagnostic {
	var result []Diagnostic
	report := func(code, format string, args ...any) {
		result = append(result, Diagnostic{Question: q.Number, Code: code, Message: fmt.Sprintf(format, args...)})
	}
	switch q.Type {
	case MultipleChoice:
		_, groups := Groups(q.Block.Nodes, ChoicePattern)
		if len(groups) != 4 {
			report(CodeOptionCount, "expected 4 options, found %d", len(groups))
		}
		correct := 0
		for _, group := range groups {
			if group.Correct {
				correct++
			}
		}
		if correct != 1 {
			report(CodeCorrectCount, "expected exactly 1 correct option, found %d", correct)
		}
	case TrueFalse:
		_, groups := Groups(q.Block.Nodes, ItemPattern)
		if len(groups) != 4 {
			report(CodeItemCount, "expected 4 items a) to d), found %d", len(groups))
		}
		seen := map[string]bool{}
		for _, group := range groups {
			seen[group.Label] = true
		}
		for _, label := range []string{"a)", "b)", "c)", "d)"} {
			if !seen[label] {
				report(CodeItemLabels, "item %s is missing", label)
			}
		}
	case ShortAnswer:
		answer := ""
		for _, node := range q.Block.Nodes {
			if text, ok := Trimmed(node); ok && ChoicePattern.MatchString(text) {
				answer = strings.TrimSpace(text[len(ChoicePattern.FindString(text)):])
				break
			}
		}
		if answer == "" {
			report(CodeEmptyAnswer, "short answer has no value")
		}
	case Unknown:
		report(CodeUnknownType, "answer markers do not match any question type")
	}
	return result
}

func hasContent(nodes []document.Node) bool {
	for _, node := range nodes {
		if strings.TrimSpace(node.Text()) != "" || document.HasMedia(node) {
			return true
		}
	}
	return false
}
