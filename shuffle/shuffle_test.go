package shuffle

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
)

func para(text string) *document.Paragraph {
	return document.NewParagraph(document.NewRun(text))
}

func option(label, text string, correct bool) *document.Paragraph {
	props := []document.Prop{document.Bold()}
	if correct {
		props = append(props, document.Underline("single"))
	}
	return document.NewParagraph(document.NewRun(label, props...), document.NewRun(" "+text))
}

func newQuestion(t question.Type, nodes ...document.Node) *question.Question {
	return &question.Question{Number: 1, Block: &question.Block{Nodes: nodes}, Type: t}
}

func capitals() *question.Question {
	return newQuestion(question.MultipleChoice,
		para("Câu 1. Thủ đô của Việt Nam?"),
		option("A.", "Huế", false),
		option("B.", "Hà Nội", true),
		option("C.", "Đà Nẵng", false),
		option("D.", "Cần Thơ", false),
	)
}

var optionText = regexp.MustCompile(`([A-D])\. ([^\t]+)`)

func TestShuffler_RootIsIdentity(t *testing.T) {
	q := capitals()
	result := New(false, 0).Shuffle(q)
	assert.Equal(t, []int{0, 1, 2, 3}, result.Order)
	assert.Equal(t, "B", result.Answer.Choice)
	assert.Equal(t, "B", result.Answer.Encode())
	require.Len(t, result.Nodes, 2)
	line := result.Nodes[1].(*document.Paragraph)
	assert.Equal(t, "\tA. Huế\tB. Hà Nội\tC. Đà Nẵng\tD. Cần Thơ", line.Text())
	for _, run := range line.Runs() {
		assert.False(t, document.Underlined(run.Props), "labels lose the correctness marking")
	}
}

func TestShuffler_MultipleChoice(t *testing.T) {
	shuffled := false
	for seed := uint64(1); seed <= 20; seed++ {
		q := capitals()
		result := New(true, seed).Shuffle(q)
		assert.ElementsMatch(t, []int{0, 1, 2, 3}, result.Order)
		if !IsIdentity(result.Order) {
			shuffled = true
		}
		rendered := map[string]string{}
		for _, match := range optionText.FindAllStringSubmatch(document.NodesText(result.Nodes), -1) {
			rendered[match[1]] = match[2]
		}
		require.Len(t, rendered, 4)
		assert.Equal(t, "Hà Nội", rendered[result.Answer.Choice], "seed %d", seed)
		assert.Equal(t, "B. Hà Nội", q.Block.Nodes[2].Text(), "source block untouched")
	}
	assert.True(t, shuffled)
}

func TestShuffler_Deterministic(t *testing.T) {
	first := New(true, 42).Shuffle(capitals())
	second := New(true, 42).Shuffle(capitals())
	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, document.NodesText(first.Nodes), document.NodesText(second.Nodes))
}

func TestShuffler_TooFewOptions(t *testing.T) {
	q := newQuestion(question.MultipleChoice, para("Câu 1."), option("A.", "x", true))
	result := New(true, 3).Shuffle(q)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, question.CodeOptionCount, result.Diagnostics[0].Code)
	assert.Equal(t, "A. x", result.Nodes[1].Text())
}

func TestShuffler_TrueFalse(t *testing.T) {
	statements := map[string]bool{"Mệnh đề một": true, "Mệnh đề hai": false, "Mệnh đề ba": false, "Mệnh đề bốn": true}
	build := func() *question.Question {
		return newQuestion(question.TrueFalse,
			para("Câu 2. Xét tính đúng sai"),
			option("a)", "Mệnh đề một", true),
			option("b)", "Mệnh đề hai", false),
			option("c)", "Mệnh đề ba", false),
			option("d)", "Mệnh đề bốn", true),
		)
	}

	root := New(false, 0).Shuffle(build())
	assert.Equal(t, "a) Đúng b) Sai c) Sai d) Đúng", root.Answer.Encode())

	for seed := uint64(1); seed <= 10; seed++ {
		result := New(true, seed).Shuffle(build())
		require.Len(t, result.Answer.Items, 4)
		require.Len(t, result.Nodes, 5)
		for i, item := range result.Answer.Items {
			label := string(rune('a'+i)) + ")"
			assert.Equal(t, label, item.Label)
			line := result.Nodes[i+1].(*document.Paragraph)
			text := line.Text()
			require.True(t, strings.HasPrefix(text, "\t"+label+" "), text)
			assert.Equal(t, statements[strings.TrimPrefix(text, "\t"+label+" ")], item.True)
			assert.True(t, line.Runs()[1].Props.Has("b"), "labels are bold")
		}
	}
}

func TestShuffler_ShortAnswer(t *testing.T) {
	q := newQuestion(question.ShortAnswer, para("Câu 3. Tính 5 : 2"), option("A.", "2,5", false))
	result := New(true, 9).Shuffle(q)
	assert.Equal(t, "2,5", result.Answer.Encode())
	require.Len(t, result.Nodes, 1)
	assert.Equal(t, "Câu 3. Tính 5 : 2", result.Nodes[0].Text())
}

func TestShuffler_Essay(t *testing.T) {
	q := newQuestion(question.Essay,
		para("Câu 4. Chứng minh (1,5 điểm)"),
		para("Cho tam giác ABC."),
		para("A. Ta có x = 2"),
		para("Suy ra y = 4"),
	)
	result := New(true, 5).Shuffle(q)
	assert.Equal(t, "1,5", result.Answer.Points)
	assert.Equal(t, "Ta có x = 2\nSuy ra y = 4", result.Answer.Encode())
	assert.Equal(t, result.Answer.Text, document.NodesText(result.Answer.Content))
	require.Len(t, result.Nodes, 2)
	assert.Equal(t, "Cho tam giác ABC.", result.Nodes[1].Text())
}

func TestLayout(t *testing.T) {
	media := document.NewParagraph(document.NewRun("A."), &document.Run{Content: []document.Content{&document.Object{Name: "drawing", XML: `<w:drawing/>`}}})
	group := func(nodes ...document.Node) *question.AnswerGroup {
		return &question.AnswerGroup{Nodes: nodes}
	}
	var testCases = []struct {
		description string
		groups      []*question.AnswerGroup
		expect      int
	}{
		{description: "short", groups: []*question.AnswerGroup{group(para("A. 1")), group(para("B. 2"))}, expect: 4},
		{description: "medium", groups: []*question.AnswerGroup{group(para("A. " + strings.Repeat("x", 20))), group(para("B. 2"))}, expect: 2},
		{description: "long", groups: []*question.AnswerGroup{group(para("A. " + strings.Repeat("x", 40))), group(para("B. 2"))}, expect: 1},
		{description: "one image", groups: []*question.AnswerGroup{group(media), group(para("B. 2"))}, expect: 2},
		{description: "two images", groups: []*question.AnswerGroup{group(media), group(media)}, expect: 1},
		{description: "multi paragraph", groups: []*question.AnswerGroup{group(para("A. 1"), para("tiếp")), group(para("B. 2"))}, expect: 1},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, Layout(testCase.groups))
		})
	}
}

func TestArrange_TabStops(t *testing.T) {
	groups := []*question.AnswerGroup{
		{Nodes: []document.Node{para("A. " + strings.Repeat("x", 20))}},
		{Nodes: []document.Node{para("B. y")}},
		{Nodes: []document.Node{para("C. z")}},
	}
	nodes := arrange(groups, 2)
	require.Len(t, nodes, 2)
	first := nodes[0].(*document.Paragraph)
	assert.True(t, first.Props.Has("tabs"))
	assert.Equal(t, "\tA. "+strings.Repeat("x", 20)+"\tB. y", first.Text())
	assert.Equal(t, "\tC. z", nodes[1].Text())
}
