package assembly

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
	"github.com/viant/easymix/shuffle"
)

var numberPattern = regexp.MustCompile(`(?i)^Câu\s+\d+`)

var romans = []string{"I", "II", "III", "IV"}

var titles = map[question.Type]string{
	question.MultipleChoice: "PHẦN %s. Câu hỏi trắc nghiệm nhiều lựa chọn. Thí sinh trả lời từ câu 1 đến câu %d. Mỗi câu hỏi thí sinh chỉ chọn một phương án.",
	question.TrueFalse:      "PHẦN %s. Câu hỏi trắc nghiệm đúng sai. Thí sinh trả lời từ câu 1 đến câu %d. Trong mỗi ý a), b), c), d) ở mỗi câu, thí sinh chọn đúng hoặc sai.",
	question.ShortAnswer:    "PHẦN %s. Câu hỏi trắc nghiệm trả lời ngắn. Thí sinh trả lời từ câu 1 đến câu %d.",
	question.Essay:          "PHẦN %s. Câu hỏi tự luận. Thí sinh trả lời từ câu 1 đến câu %d.",
}

// Entry is a shuffled question placed in a section.
type Entry struct {
	Number   int // position within the section, 1-based
	Question *question.Question
	Result   *shuffle.Result
}

// Section is the group of questions sharing a type.
type Section struct {
	Type    question.Type
	Index   int // roman numeral position, 0 for the unnumbered trailing group
	Entries []*Entry
}

// Sections groups questions by type in precedence order, shuffles question
// order within each group and shuffles every question's options. Questions
// of unknown type form a trailing group kept in source order.
func Sections(questions []*question.Question, s *shuffle.Shuffler) []*Section {
	byType := map[question.Type][]*question.Question{}
	for _, q := range questions {
		byType[q.Type] = append(byType[q.Type], q)
	}
	var result []*Section
	for _, t := range question.Precedence {
		group := byType[t]
		if len(group) == 0 {
			continue
		}
		section := &Section{Type: t, Index: len(result) + 1}
		for i, from := range s.Perm(len(group)) {
			section.Entries = append(section.Entries, &Entry{Number: i + 1, Question: group[from], Result: s.Shuffle(group[from])})
		}
		result = append(result, section)
	}
	if unknown := byType[question.Unknown]; len(unknown) > 0 {
		section := &Section{Type: question.Unknown}
		for i, q := range unknown {
			section.Entries = append(section.Entries, &Entry{Number: i + 1, Question: q, Result: s.Shuffle(q)})
		}
		result = append(result, section)
	}
	return result
}

// Nodes returns the heading followed by every renumbered question of the section.
func (s *Section) Nodes() []document.Node {
	var nodes []document.Node
	if heading := Heading(s.Type, s.Index, len(s.Entries)); heading != nil {
		nodes = append(nodes, heading)
	}
	for _, entry := range s.Entries {
		if s.Type != question.Unknown {
			Renumber(entry.Result.Nodes, entry.Number)
		}
		nodes = append(nodes, entry.Result.Nodes...)
	}
	return nodes
}

// Heading returns the section heading paragraph; the "PHẦN I. <kind>." prefix is bold.
func Heading(t question.Type, index, count int) *document.Paragraph {
	format, ok := titles[t]
	if !ok || index < 1 {
		return nil
	}
	numeral := strconv.Itoa(index)
	if index <= len(romans) {
		numeral = romans[index-1]
	}
	parts := strings.SplitN(fmt.Sprintf(format, numeral, count), ".", 3)
	return document.NewParagraph(
		document.NewRun(parts[0]+"."+parts[1]+".", document.Bold()),
		document.NewRun(parts[2]),
	)
}

// Renumber rewrites the "Câu n" prefix of the question header, keeping the
// formatting of the run it started in.
func Renumber(nodes []document.Node, number int) {
	if len(nodes) == 0 {
		return
	}
	header, ok := nodes[0].(*document.Paragraph)
	if !ok {
		return
	}
	text := strings.TrimLeftFunc(header.Text(), unicode.IsSpace)
	match := numberPattern.FindString(text)
	if match == "" {
		return
	}
	props := header.TrimLeading(len([]rune(match)))
	header.Prepend(&document.Run{Props: props, Content: []document.Content{&document.Text{Value: "Câu " + strconv.Itoa(number)}}})
}
