package service

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
	"github.com/viant/easymix/store"
	"github.com/xuri/excelize/v2"
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

// sourceDocument holds two multiple choice questions and one true/false question.
func sourceDocument() *document.Document {
	doc := document.New()
	doc.Append(
		para("Câu 1. Thủ đô của Việt Nam?"),
		option("A.", "Hà Nội", true),
		option("B.", "Huế", false),
		option("C.", "Đà Nẵng", false),
		option("D.", "Cần Thơ", false),
		para("Câu 2. Kết quả của 2+2?"),
		option("A.", "3", false),
		option("B.", "4", true),
		option("C.", "5", false),
		option("D.", "6", false),
		para("Câu 3. Xét tính đúng sai của các mệnh đề"),
		option("a)", "Số 2 là số nguyên tố", true),
		option("b)", "Số 9 là số nguyên tố", false),
		option("c)", "Số 1 là số nguyên tố", false),
		option("d)", "Số 7 là số nguyên tố", true),
		&document.Section{XML: `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`},
	)
	return doc
}

func newFixture(t *testing.T, doc *document.Document, versions ...string) *Config {
	t.Helper()
	dir := t.TempDir()
	config := &Config{
		Source:      filepath.Join(dir, "source.docx"),
		Output:      filepath.Join(dir, "out"),
		Versions:    versions,
		Seed:        7,
		Concurrency: 2,
	}
	require.NoError(t, store.New().Save(context.Background(), doc, config.Source))
	return config
}

var (
	headerNumber = regexp.MustCompile(`^Câu (\d+)\.`)
	correctText  = map[string]string{"Thủ đô": "Hà Nội", "2+2": "4"}
)

// choiceKeys reads an exam and returns, per question keyword, its number and
// the letter rendered in front of the correct option text.
func choiceKeys(t *testing.T, exam *document.Document) (map[string]int, map[string]string) {
	numbers, letters := map[string]int{}, map[string]string{}
	current := ""
	for _, p := range document.Paragraphs(exam.Nodes) {
		text := strings.TrimSpace(p.Text())
		if match := headerNumber.FindStringSubmatch(text); match != nil {
			current = ""
			for keyword := range correctText {
				if strings.Contains(text, keyword) {
					current = keyword
					numbers[keyword], _ = strconv.Atoi(match[1])
				}
			}
			continue
		}
		if current == "" {
			continue
		}
		pattern := regexp.MustCompile(`([A-D])\. ` + regexp.QuoteMeta(correctText[current]) + `(\t|$)`)
		if match := pattern.FindStringSubmatch(p.Text()); match != nil {
			letters[current] = match[1]
		}
	}
	require.Len(t, numbers, 2)
	require.Len(t, letters, 2)
	return numbers, letters
}

func TestService_Mix(t *testing.T) {
	ctx := context.Background()
	config := newFixture(t, sourceDocument(), RootVersion, "101")
	srv := New(config)

	result, err := srv.Mix(ctx)
	require.NoError(t, err)
	require.Len(t, result.Versions, 2)
	assert.NotEmpty(t, result.RunID)
	assert.NotZero(t, result.Fingerprint)
	assert.False(t, result.Partial())

	docs := store.New()
	for _, version := range result.Versions {
		require.NoError(t, version.Err)
		assert.Equal(t, StageDone, version.Stage)
		assert.Empty(t, version.Diagnostics)

		exam, err := docs.Open(ctx, version.Exam)
		require.NoError(t, err)
		assert.Contains(t, exam.Text(), "PHẦN I")
		answers, err := docs.Open(ctx, version.Guide)
		require.NoError(t, err)
		assert.Contains(t, answers.Text(), "ĐÁP ÁN MÃ ĐỀ "+version.Code)
	}
	assert.True(t, strings.HasSuffix(result.Versions[0].Exam, ExamName(RootVersion)))
	assert.True(t, strings.HasSuffix(result.Versions[1].Guide, GuideName("101")))

	require.Len(t, result.Rows, 2)
	root, mixed := result.Rows[0], result.Rows[1]
	assert.Equal(t, RootVersion, root.Version)
	assert.Equal(t, "101", mixed.Version)
	assert.Equal(t, []string{"A", "B"}, root.Cells[:2])
	assert.Equal(t, []string{"Đ", "S", "S", "Đ"}, root.Cells[40:44])

	verdicts := strings.Join(mixed.Cells[40:44], "")
	assert.Equal(t, 2, strings.Count(verdicts, "Đ"), "every item keeps its verdict")
	assert.Equal(t, 2, strings.Count(verdicts, "S"))

	for i, version := range result.Versions {
		exam, err := docs.Open(ctx, version.Exam)
		require.NoError(t, err)
		numbers, letters := choiceKeys(t, exam)
		for keyword, number := range numbers {
			assert.Equal(t, letters[keyword], result.Rows[i].Cells[number-1], "version %s question %q", version.Code, keyword)
		}
		if version.Code == RootVersion {
			assert.Equal(t, map[string]int{"Thủ đô": 1, "2+2": 2}, numbers)
		}
	}

	data, err := docs.Load(ctx, result.Workbook)
	require.NoError(t, err)
	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()
	sheet, err := book.GetRows("Đáp án")
	require.NoError(t, err)
	require.Len(t, sheet, 3)
	assert.Equal(t, RootVersion, sheet[1][0])
	assert.Equal(t, "A", sheet[1][1])
}

func TestService_MixDeterministic(t *testing.T) {
	ctx := context.Background()
	config := newFixture(t, sourceDocument(), "101", "102")
	first, err := New(config).Mix(ctx)
	require.NoError(t, err)
	second, err := New(config).Mix(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Rows, second.Rows, "same seed, same versions")
}

func TestService_MixKeystore(t *testing.T) {
	ctx := context.Background()
	config := newFixture(t, sourceDocument(), RootVersion, "101")
	config.Keystore.DSN = filepath.Join(t.TempDir(), "keys.db")
	keys, err := OpenKeystore(ctx, config.Keystore)
	require.NoError(t, err)
	defer keys.Close()

	srv := New(config, WithKeystore(keys))
	result, err := srv.Mix(ctx)
	require.NoError(t, err)

	records, _, err := srv.Keys(ctx, result.RunID)
	require.NoError(t, err)
	assert.Len(t, records, 6)
	assert.Equal(t, RootVersion, records[0].Version)

	_, runs, err := srv.Keys(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, result.RunID, runs[0].ID)
	assert.Equal(t, 2, runs[0].Versions)
}

func TestService_MixFatal(t *testing.T) {
	ctx := context.Background()

	config := newFixture(t, sourceDocument(), RootVersion)
	config.Source = filepath.Join(t.TempDir(), "missing.docx")
	_, err := New(config).Mix(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	empty := document.New()
	empty.Append(para("Không có câu hỏi"))
	config = newFixture(t, empty, RootVersion)
	_, err = New(config).Mix(ctx)
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, err = New(newFixture(t, sourceDocument(), RootVersion)).Keys(ctx, "")
	assert.Error(t, err)
}

func TestMixResult_Partial(t *testing.T) {
	var testCases = []struct {
		description string
		errs        []error
		expect      bool
		failed      int
	}{
		{description: "all done", errs: []error{nil, nil}, expect: false},
		{description: "one failed", errs: []error{nil, errors.New("x")}, expect: true, failed: 1},
		{description: "all failed", errs: []error{errors.New("x"), errors.New("y")}, expect: false, failed: 2},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			result := &MixResult{}
			for i, err := range testCase.errs {
				result.Versions = append(result.Versions, &VersionResult{Code: strconv.Itoa(100 + i), Err: err})
			}
			assert.Equal(t, testCase.expect, result.Partial())
			assert.Len(t, result.Failed(), testCase.failed)
		})
	}
}

func TestService_Inspect(t *testing.T) {
	doc := sourceDocument()
	doc.Nodes = append([]document.Node{para("ĐỀ KIỂM TRA GIỮA KỲ")}, doc.Nodes...)
	config := newFixture(t, doc, RootVersion)

	report, err := New(config).Inspect(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Questions, 3)
	assert.Equal(t, 2, report.Counts[question.MultipleChoice])
	assert.Equal(t, 1, report.Counts[question.TrueFalse])
	for _, q := range report.Questions {
		assert.Equal(t, 4, q.Answers)
		assert.Empty(t, q.Diagnostics)
	}
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, question.CodeLeadContent, report.Diagnostics[0].Code)
	assert.False(t, report.Valid())
}
