package shuffle

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
)

// Item is one true/false sub-item of an answer.
type Item struct {
	Label string
	True  bool
}

// String renders the item as "a) Đúng" or "a) Sai".
func (i Item) String() string {
	if i.True {
		return i.Label + " Đúng"
	}
	return i.Label + " Sai"
}

// Answer is the correct answer of a shuffled question, always expressed with
// the labels the question carries after relabeling.
type Answer struct {
	Type    question.Type
	Choice  string          // multiple choice letter
	Items   []Item          // true/false sub-items in label order
	Text    string          // short answer value or essay plain text
	Content []document.Node // essay answer content, resource ids of the source document
	Points  string          // essay point value
}

// Encode returns the textual answer encoding used by the export.
func (a Answer) Encode() string {
	switch a.Type {
	case question.MultipleChoice:
		return a.Choice
	case question.TrueFalse:
		parts := make([]string, 0, len(a.Items))
		for _, item := range a.Items {
			parts = append(parts, item.String())
		}
		return strings.Join(parts, " ")
	}
	return a.Text
}

// Result is one question after shuffling.
type Result struct {
	Nodes       []document.Node // visible question content
	Answer      Answer
	Order       []int // Order[i] is the source index of the option now at position i
	Diagnostics []question.Diagnostic
}

// Shuffler reorders answer options. A Shuffler with shuffling disabled applies
// the identity permutation everywhere. It is not safe for concurrent use.
type Shuffler struct {
	shuffle bool
	rng     *rand.Rand
}

// New creates a shuffler; seed selects the random sequence.
func New(shuffle bool, seed uint64) *Shuffler {
	return &Shuffler{shuffle: shuffle, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Identity reports whether the shuffler keeps every order unchanged.
func (s *Shuffler) Identity() bool { return !s.shuffle }

// Perm returns an order for n items, the identity when shuffling is disabled.
func (s *Shuffler) Perm(n int) []int {
	if !s.shuffle || n < 2 {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order
	}
	return s.rng.Perm(n)
}

// Shuffle reorders and relabels the options of q and computes the matching
// answer in the same pass. The source block is never modified.
func (s *Shuffler) Shuffle(q *question.Question) *Result {
	nodes := document.CloneNodes(q.Block.Nodes)
	switch q.Type {
	case question.MultipleChoice:
		return s.multipleChoice(q, nodes)
	case question.TrueFalse:
		return s.trueFalse(q, nodes)
	case question.ShortAnswer:
		return shortAnswer(nodes)
	case question.Essay:
		return essay(nodes)
	}
	return &Result{Nodes: nodes, Answer: Answer{Type: q.Type}}
}

// IsIdentity reports whether order keeps every item in place.
func IsIdentity(order []int) bool {
	for i, from := range order {
		if i != from {
			return false
		}
	}
	return true
}

// relabel replaces the leading marker of p with label. The new label run keeps
// the old label's formatting without underline.
func relabel(p *document.Paragraph, marker *regexp.Regexp, label string, bold bool) {
	props := p.TrimLeading(question.MarkerLength(p, marker)).Without("u")
	if bold {
		props = props.With(document.Bold(), document.RunOrder)
	}
	p.Prepend(&document.Run{Props: props, Content: []document.Content{&document.Text{Value: label}}})
}

func tabRun() *document.Run {
	return &document.Run{Content: []document.Content{&document.Tab{}}}
}

func tooFew(q *question.Question, nodes []document.Node) *Result {
	return &Result{
		Nodes:  nodes,
		Answer: Answer{Type: q.Type},
		Diagnostics: []question.Diagnostic{{
			Question: q.Number,
			Code:     question.CodeOptionCount,
			Message:  "fewer than 2 options, left in source order",
		}},
	}
}
