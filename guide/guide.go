package guide

import (
	"fmt"
	"strconv"

	"github.com/viant/easymix/assembly"
	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
	"github.com/viant/easymix/shuffle"
)

// Grid widths: answers per row pair for each question type.
const (
	ChoiceColumns = 10
	ItemColumns   = 8
	ShortColumns  = 6
)

var notes = map[question.Type][]string{
	question.MultipleChoice: {"Mỗi câu trả lời đúng thí sinh được 0,25 điểm."},
	question.TrueFalse: {
		"- Thí sinh chỉ lựa chọn chính xác 01 ý trong 01 câu hỏi được 0,1 điểm;",
		"- Thí sinh chỉ lựa chọn chính xác 02 ý trong 01 câu hỏi được 0,25 điểm;",
		"- Thí sinh chỉ lựa chọn chính xác 03 ý trong 01 câu hỏi được 0,5 điểm;",
		"- Thí sinh chỉ lựa chọn chính xác cả 04 ý trong 01 câu hỏi được 1 điểm.",
	},
	question.ShortAnswer: {"Mỗi câu trả lời đúng thí sinh được 0,5 điểm."},
}

// Options controls the guide's front matter.
type Options struct {
	Code     string
	Info     assembly.Info
	Template *document.Document // optional guide template; its body opens the guide
}

// Build creates the answer guide of one exam variant: per section a heading,
// scoring notes and an answer grid, with the essay table last. Essay answer
// content is relocated from the source document with its resources.
func Build(source *question.Source, sections []*assembly.Section, options *Options) (*document.Document, []question.Diagnostic) {
	var doc *document.Document
	if options.Template != nil {
		doc = options.Template.Clone()
		assembly.ReplacePlaceholders(doc.Nodes, options.Info.Replacements(options.Code))
	} else {
		doc = source.Document.Shell()
		doc.Append(Title(options.Code))
		doc.Append(document.CloneNodes(source.Tail)...)
	}
	var diagnostics []question.Diagnostic
	var essay []document.Node
	for _, section := range sections {
		heading := assembly.Heading(section.Type, section.Index, len(section.Entries))
		if heading == nil {
			continue
		}
		nodes := []document.Node{heading}
		for _, note := range notes[section.Type] {
			nodes = append(nodes, document.NewParagraph(document.NewRun(note)))
		}
		switch section.Type {
		case question.MultipleChoice:
			nodes = append(nodes, Grid(section.Entries, ChoiceColumns))
		case question.TrueFalse:
			nodes = append(nodes, Grid(section.Entries, ItemColumns))
		case question.ShortAnswer:
			nodes = append(nodes, Grid(section.Entries, ShortColumns))
		case question.Essay:
			table, errs := EssayTable(section.Entries, source.Document, doc)
			diagnostics = append(diagnostics, errs...)
			essay = append(nodes, table)
			continue
		}
		doc.Append(nodes...)
	}
	doc.Append(essay...)
	Format(doc.Nodes)
	doc.Prune()
	return doc, diagnostics
}

// Title returns the guide title paragraph naming the version code.
func Title(code string) *document.Paragraph {
	p := document.NewParagraph(document.NewRun("ĐÁP ÁN MÃ ĐỀ "+code, document.Bold()))
	p.SetProp(document.Justify("center"))
	return p
}

// Cell returns the grid lines for an answer.
func Cell(answer shuffle.Answer) []string {
	if answer.Type == question.TrueFalse {
		lines := make([]string, 0, len(answer.Items))
		for _, item := range answer.Items {
			lines = append(lines, item.String())
		}
		return lines
	}
	return []string{answer.Encode()}
}

// Grid lays answers out in pairs of rows, a "Câu" row over an "Đáp án" row,
// columns answers per pair; the last pair is padded with empty cells.
func Grid(entries []*assembly.Entry, columns int) *document.Table {
	widths := []int{1200}
	for range columns {
		widths = append(widths, 1200)
	}
	table := document.NewTable(widths...)
	rounded := (len(entries) + columns - 1) / columns * columns
	for start := 0; start < rounded; start += columns {
		numbers := []*document.Cell{document.TextCell([]string{"Câu"})}
		answers := []*document.Cell{document.TextCell([]string{"Đáp án"})}
		for i := start; i < start+columns; i++ {
			if i >= len(entries) {
				numbers = append(numbers, document.TextCell([]string{""}))
				answers = append(answers, document.TextCell([]string{""}))
				continue
			}
			numbers = append(numbers, document.TextCell([]string{strconv.Itoa(entries[i].Number)}))
			answers = append(answers, document.TextCell(Cell(entries[i].Result.Answer)))
		}
		table.AddRow(numbers...)
		table.AddRow(answers...)
	}
	return table
}

// EssayTable builds the "Câu | Đáp án | Điểm" table, relinking each answer's
// content from src into dst. Relink failures are reported and the content is
// kept without the broken reference.
func EssayTable(entries []*assembly.Entry, src, dst *document.Document) (*document.Table, []question.Diagnostic) {
	table := document.NewTable(700, 5000, 700)
	table.AddRow(document.TextCell([]string{"Câu"}), document.TextCell([]string{"Đáp án"}), document.TextCell([]string{"Điểm"}))
	var diagnostics []question.Diagnostic
	for _, entry := range entries {
		answer := entry.Result.Answer
		content, errs := document.Relink(answer.Content, src, dst)
		for _, err := range errs {
			diagnostics = append(diagnostics, question.Diagnostic{
				Question: entry.Question.Number,
				Code:     question.CodeRelink,
				Message:  fmt.Sprintf("essay answer: %v", err),
			})
		}
		table.AddRow(
			document.TextCell([]string{strconv.Itoa(entry.Number)}),
			document.NewCell(content...),
			document.TextCell([]string{answer.Points}),
		)
	}
	return table, diagnostics
}
