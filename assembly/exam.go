package assembly

import (
	"fmt"

	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
)

// Options controls the parts of an exam added around the question sections.
type Options struct {
	Code  string
	Info  Info
	Title *document.Document // optional front page template
}

var endNotes = []struct {
	text string
	prop document.Prop
	jc   string
}{
	{text: "-------------------- HẾT --------------------", prop: document.Bold(), jc: "center"},
	{text: "- Thí sinh không được sử dụng tài liệu;", prop: document.Italic()},
	{text: "- Giám thị không giải thích gì thêm.", prop: document.Italic()},
}

// Exam builds one exam variant: title template, lead content, the question
// sections, end notes, then the source's trailing section properties with a
// footer naming the version code. Resources not referenced by the result are pruned.
func Exam(source *question.Source, sections []*Section, options *Options) (*document.Document, []question.Diagnostic) {
	doc := source.Document.Shell()
	var diagnostics []question.Diagnostic
	if options.Title != nil {
		nodes, errs := document.Relink(bodyNodes(options.Title.Nodes), options.Title, doc)
		for _, err := range errs {
			diagnostics = append(diagnostics, question.Diagnostic{Code: question.CodeRelink, Message: fmt.Sprintf("title template: %v", err)})
		}
		ReplacePlaceholders(nodes, options.Info.Replacements(options.Code))
		doc.Append(nodes...)
	}
	doc.Append(document.CloneNodes(source.Lead)...)
	for _, section := range sections {
		doc.Append(section.Nodes()...)
		for _, entry := range section.Entries {
			diagnostics = append(diagnostics, entry.Result.Diagnostics...)
		}
	}
	doc.Append(EndNotes()...)
	doc.Append(document.CloneNodes(source.Tail)...)
	AddFooter(doc, options.Code)
	doc.Prune()
	return doc, diagnostics
}

// EndNotes returns the closing paragraphs of an exam.
func EndNotes() []document.Node {
	nodes := make([]document.Node, 0, len(endNotes))
	for _, note := range endNotes {
		p := document.NewParagraph(document.NewRun(note.text, note.prop))
		if note.jc != "" {
			p.SetProp(document.Justify(note.jc))
		}
		nodes = append(nodes, p)
	}
	return nodes
}

func bodyNodes(nodes []document.Node) []document.Node {
	var result []document.Node
	for _, node := range nodes {
		if _, ok := node.(*document.Section); !ok {
			result = append(result, node)
		}
	}
	return result
}
