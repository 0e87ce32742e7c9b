package assembly

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/easymix/document"
	"github.com/viant/easymix/question"
	"github.com/viant/easymix/shuffle"
)

func para(text string, props ...document.Prop) *document.Paragraph {
	return document.NewParagraph(document.NewRun(text, props...))
}

func option(label, text string, correct bool) *document.Paragraph {
	if correct {
		return document.NewParagraph(document.NewRun(label, document.Underline("single")), document.NewRun(" "+text))
	}
	return document.NewParagraph(document.NewRun(label), document.NewRun(" "+text))
}

func sampleSource(t *testing.T) *question.Source {
	doc := document.New()
	doc.Append(
		para("Câu 1. Tự luận (1 điểm)"),
		para("A. Lời giải dài hơn bốn ký tự"),
		para("Câu 2. Chọn đáp án", document.Bold()),
		option("A.", "1", true), option("B.", "2", false), option("C.", "3", false), option("D.", "4", false),
		para("Câu 3. Đúng sai"),
		option("a)", "x", true), option("b)", "y", false), option("c)", "z", false), option("d)", "w", true),
		para("Câu 4. Chọn tiếp"),
		option("A.", "5", false), option("B.", "6", true), option("C.", "7", false), option("D.", "8", false),
		para("Câu 5."),
		option("a)", "chỉ một ý", false),
		&document.Section{XML: `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`},
	)
	source, err := question.Parse(doc)
	require.NoError(t, err)
	return source
}

func TestSections_Precedence(t *testing.T) {
	source := sampleSource(t)
	sections := Sections(source.Questions, shuffle.New(false, 0))
	require.Len(t, sections, 4)

	var types []question.Type
	for _, section := range sections {
		types = append(types, section.Type)
	}
	assert.Equal(t, []question.Type{question.MultipleChoice, question.TrueFalse, question.Essay, question.Unknown}, types)
	assert.Equal(t, 2, sections[0].Entries[0].Question.Number, "root keeps source order within a section")
	assert.Equal(t, 4, sections[0].Entries[1].Question.Number)
	assert.Equal(t, 3, sections[2].Index, "roman numerals follow the non-empty groups")
	assert.Equal(t, 0, sections[3].Index)
}

func TestSection_Nodes(t *testing.T) {
	source := sampleSource(t)
	sections := Sections(source.Questions, shuffle.New(false, 0))
	nodes := sections[0].Nodes()
	heading := nodes[0].(*document.Paragraph)
	assert.Equal(t, "PHẦN I. Câu hỏi trắc nghiệm nhiều lựa chọn. Thí sinh trả lời từ câu 1 đến câu 2. Mỗi câu hỏi thí sinh chỉ chọn một phương án.", heading.Text())
	assert.Equal(t, "PHẦN I. Câu hỏi trắc nghiệm nhiều lựa chọn.", heading.Runs()[0].Text())
	assert.True(t, heading.Runs()[0].Props.Has("b"))

	header := nodes[1].(*document.Paragraph)
	assert.Equal(t, "Câu 1. Chọn đáp án", header.Text())
	assert.True(t, header.Runs()[0].Props.Has("b"), "renumbering keeps formatting")
	assert.Equal(t, "Câu 2. Chọn tiếp", nodes[3].Text())

	essay := sections[2].Nodes()
	assert.True(t, strings.HasPrefix(essay[0].Text(), "PHẦN III. Câu hỏi tự luận."))
	assert.Equal(t, "Câu 1. Tự luận (1 điểm)", essay[1].Text())

	unknown := sections[3].Nodes()
	assert.Equal(t, "Câu 5.", unknown[0].Text(), "unknown questions have no heading and keep their number")
}

func TestRenumber(t *testing.T) {
	nodes := []document.Node{document.NewParagraph(document.NewRun("  câu 12", document.Italic()), document.NewRun(": Nội dung"))}
	Renumber(nodes, 3)
	p := nodes[0].(*document.Paragraph)
	assert.Equal(t, "Câu 3: Nội dung", p.Text())
	assert.True(t, p.Runs()[0].Props.Has("i"))
}

func TestExam(t *testing.T) {
	source := sampleSource(t)
	source.Lead = []document.Node{para("SỞ GIÁO DỤC")}

	title := document.New()
	title.Resources.Put(&document.Resource{ID: "rId4", Type: document.ImageType, Target: "media/logo.png", Data: []byte{7}})
	title.Append(
		para("Mã đề [MaDe] - [MONTHI]"),
		document.NewParagraph(&document.Run{Content: []document.Content{&document.Object{Name: "drawing", XML: `<w:drawing><a:blip r:embed="rId4"/></w:drawing>`}}}),
		para("Số trang: [NUMPAGES]"),
	)
	sections := Sections(source.Questions, shuffle.New(true, 11))
	doc, diagnostics := Exam(source, sections, &Options{Code: "101", Info: Info{Subject: "Toán"}, Title: title})
	assert.Empty(t, diagnostics)

	assert.Equal(t, "Mã đề 101 - Toán", doc.Nodes[0].Text())
	refs := document.References(doc.Nodes[1:2])
	require.Len(t, refs, 1)
	logo, ok := doc.Resources.Get(refs[0])
	require.True(t, ok)
	assert.Equal(t, []byte{7}, logo.Data)
	assert.Equal(t, "Số trang: 1", doc.Nodes[2].Text())
	assert.Equal(t, "SỞ GIÁO DỤC", doc.Nodes[3].Text())

	text := doc.Text()
	assert.Contains(t, text, "-------------------- HẾT --------------------")
	assert.True(t, strings.Index(text, "PHẦN I.") < strings.Index(text, "PHẦN II."))

	section := doc.Section()
	require.NotNil(t, section)
	assert.Contains(t, section.XML, `<w:footerReference w:type="default" r:id="`)
	assert.Contains(t, section.XML, `<w:pgSz`)
	var footer *document.Resource
	for _, res := range doc.Resources.All() {
		if res.Type == document.FooterType {
			footer = res
		}
	}
	require.NotNil(t, footer)
	assert.Contains(t, string(footer.Data), "Mã đề 101")
	assert.Contains(t, section.XML, `r:id="`+footer.ID+`"`)
}

func TestAddFooter_ReplacesDefault(t *testing.T) {
	doc := document.New()
	doc.Append(&document.Section{XML: `<w:sectPr w:rsidR="00AB"><w:footerReference w:type="default" r:id="rId3"/><w:pgSz w:w="1"/></w:sectPr>`})
	AddFooter(doc, "205")
	xml := doc.Section().XML
	assert.NotContains(t, xml, `r:id="rId3"`)
	assert.True(t, strings.HasPrefix(xml, `<w:sectPr w:rsidR="00AB"><w:footerReference w:type="default" r:id="rId`))

	empty := document.New()
	empty.Append(&document.Section{XML: `<w:sectPr/>`})
	AddFooter(empty, "000")
	assert.True(t, strings.HasSuffix(empty.Section().XML, `/></w:sectPr>`))
}
