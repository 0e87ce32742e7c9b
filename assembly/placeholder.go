package assembly

import (
	"strings"

	"github.com/viant/easymix/document"
)

// Info carries the exam title values substituted into templates.
type Info struct {
	TestPeriod   string `yaml:"testPeriod" json:"testPeriod"`
	SchoolYear   string `yaml:"schoolYear" json:"schoolYear"`
	Subject      string `yaml:"subject" json:"subject"`
	SuperiorUnit string `yaml:"superiorUnit" json:"superiorUnit"`
	Unit         string `yaml:"unit" json:"unit"`
	Time         string `yaml:"time" json:"time"`
}

const numPages = "[NUMPAGES]"

// Replacements returns the placeholder values for a version code.
func (i *Info) Replacements(code string) map[string]string {
	return map[string]string{
		"[KYTHI]":        i.TestPeriod,
		"[NAMHOC]":       i.SchoolYear,
		"[MONTHI]":       i.Subject,
		"[DONVICAPTREN]": i.SuperiorUnit,
		"[DONVI]":        i.Unit,
		"[MaDe]":         code,
		"[ThoiGian]":     i.Time,
	}
}

// ReplacePlaceholders substitutes placeholders in every paragraph of nodes and
// turns "[NUMPAGES]" into a section page count field. A paragraph holding a
// placeholder has its runs merged into one run formatted like the first.
func ReplacePlaceholders(nodes []document.Node, replacements map[string]string) {
	for _, p := range document.Paragraphs(nodes) {
		replaceText(p, replacements)
		insertPageCount(p)
	}
}

func replaceText(p *document.Paragraph, replacements map[string]string) {
	runs := p.Runs()
	if len(runs) == 0 {
		return
	}
	text := runsText(runs)
	replaced := text
	for key, value := range replacements {
		replaced = strings.ReplaceAll(replaced, key, value)
	}
	if replaced == text {
		return
	}
	merged := document.NewRun(replaced)
	merged.Props = runs[0].Props.Clone()
	p.Inlines = append(withoutRuns(p), merged)
}

func insertPageCount(p *document.Paragraph) {
	runs := p.Runs()
	if len(runs) == 0 {
		return
	}
	text := runsText(runs)
	if !strings.Contains(text, numPages) {
		return
	}
	props := runs[0].Props
	inlines := withoutRuns(p)
	parts := strings.Split(text, numPages)
	for i, part := range parts {
		if part != "" {
			run := document.NewRun(part)
			run.Props = props.Clone()
			inlines = append(inlines, run)
		}
		if i < len(parts)-1 {
			inlines = append(inlines, fieldRuns("SECTIONPAGES", props)...)
		}
	}
	p.Inlines = inlines
}

// fieldRuns returns the runs of a simple field showing "1" until updated.
func fieldRuns(code string, props document.Props) []document.Inline {
	object := func(name, markup string) document.Inline {
		return &document.Run{Props: props.Clone(), Content: []document.Content{&document.Object{Name: name, XML: markup}}}
	}
	result := &document.Run{Props: props.Clone(), Content: []document.Content{&document.Text{Value: "1"}}}
	return []document.Inline{
		object("fldChar", `<w:fldChar w:fldCharType="begin"/>`),
		object("instrText", `<w:instrText xml:space="preserve"> `+code+` </w:instrText>`),
		object("fldChar", `<w:fldChar w:fldCharType="separate"/>`),
		result,
		object("fldChar", `<w:fldChar w:fldCharType="end"/>`),
	}
}

func runsText(runs []*document.Run) string {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(run.Text())
	}
	return sb.String()
}

func withoutRuns(p *document.Paragraph) []document.Inline {
	var result []document.Inline
	for _, inline := range p.Inlines {
		if _, ok := inline.(*document.Run); !ok {
			result = append(result, inline)
		}
	}
	return result
}
