package export

import (
	"sort"
	"strconv"

	"github.com/viant/easymix/assembly"
	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
	"github.com/viant/easymix/shuffle"
)

// Fixed export layout after the version column.
const (
	ChoiceColumns    = 40
	ItemQuestions    = 8
	ItemsPerQuestion = 4
	ShortColumns     = 6
	// Width is the number of answer columns of a row.
	Width = ChoiceColumns + ItemQuestions*ItemsPerQuestion + ShortColumns
)

// QuestionExport is the answer record of one question in one version.
type QuestionExport struct {
	Version     string
	Number      int // sequence within the question's type section
	Type        question.Type
	Answer      string // encoded correct answer
	Items       []shuffle.Item
	Points      string
	Content     string // essay answer as plain text
	Diagnostics []question.Diagnostic
}

// Exports creates the answer records of a version from its assembled sections,
// attaching every diagnostic known for each question.
func Exports(version string, sections []*assembly.Section) []QuestionExport {
	var result []QuestionExport
	for _, section := range sections {
		for _, entry := range section.Entries {
			answer := entry.Result.Answer
			record := QuestionExport{
				Version: version,
				Number:  entry.Number,
				Type:    section.Type,
				Answer:  answer.Encode(),
				Items:   append([]shuffle.Item(nil), answer.Items...),
				Points:  answer.Points,
			}
			if answer.Type == question.Essay {
				record.Content = document.NodesText(answer.Content)
			}
			record.Diagnostics = append(append(record.Diagnostics, entry.Question.Diagnostics...), entry.Result.Diagnostics...)
			result = append(result, record)
		}
	}
	return result
}

// Row is one version's line of the cross-version answer table.
type Row struct {
	Version string
	Cells   []string // Width cells: multiple choice, true/false items, short answers
}

// Header returns the column titles, version column first.
func Header() []string {
	header := make([]string, 0, Width+1)
	header = append(header, "Đề/Câu")
	for i := 1; i <= ChoiceColumns; i++ {
		header = append(header, strconv.Itoa(i))
	}
	for i := 1; i <= ItemQuestions; i++ {
		for _, label := range []string{"a", "b", "c", "d"} {
			header = append(header, strconv.Itoa(i)+label)
		}
	}
	for i := 1; i <= ShortColumns; i++ {
		header = append(header, strconv.Itoa(i))
	}
	return header
}

// Rows aggregates records into one row per version, in the order versions first
// appear. Answers beyond the fixed layout are dropped; essays are not exported.
func Rows(records []QuestionExport) []Row {
	var versions []string
	byVersion := map[string][]QuestionExport{}
	for _, record := range records {
		if _, ok := byVersion[record.Version]; !ok {
			versions = append(versions, record.Version)
		}
		byVersion[record.Version] = append(byVersion[record.Version], record)
	}
	rows := make([]Row, 0, len(versions))
	for _, version := range versions {
		rows = append(rows, row(version, byVersion[version]))
	}
	return rows
}

func row(version string, records []QuestionExport) Row {
	result := Row{Version: version, Cells: make([]string, Width)}
	choices := ofType(records, question.MultipleChoice)
	for i := 0; i < len(choices) && i < ChoiceColumns; i++ {
		result.Cells[i] = choices[i].Answer
	}
	items := ofType(records, question.TrueFalse)
	for i := 0; i < len(items) && i < ItemQuestions; i++ {
		for j, item := range items[i].Items {
			if j >= ItemsPerQuestion {
				break
			}
			verdict := "S"
			if item.True {
				verdict = "Đ"
			}
			result.Cells[ChoiceColumns+i*ItemsPerQuestion+j] = verdict
		}
	}
	shorts := ofType(records, question.ShortAnswer)
	for i := 0; i < len(shorts) && i < ShortColumns; i++ {
		result.Cells[ChoiceColumns+ItemQuestions*ItemsPerQuestion+i] = shorts[i].Answer
	}
	return result
}

func ofType(records []QuestionExport, t question.Type) []QuestionExport {
	var result []QuestionExport
	for _, record := range records {
		if record.Type == t {
			result = append(result, record)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result
}
