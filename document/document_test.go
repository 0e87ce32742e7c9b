package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProps_With(t *testing.T) {
	var props Props
	props = props.With(Underline("single"), RunOrder)
	props = props.With(Bold(), RunOrder)
	props = props.With(Prop{Name: "rFonts", XML: `<w:rFonts w:ascii="Times New Roman"/>`}, RunOrder)
	props = props.With(Prop{Name: "custom", XML: `<w:custom/>`}, RunOrder)

	names := make([]string, 0, len(props))
	for _, prop := range props {
		names = append(names, prop.Name)
	}
	assert.Equal(t, []string{"rFonts", "b", "u", "custom"}, names)
	assert.Equal(t, "single", props.Attr("u", "val"))
	assert.True(t, Underlined(props))
	assert.False(t, Underlined(props.Without("u")))
	assert.False(t, Underlined(Props{Underline("none")}))
	assert.True(t, Underlined(Props{{Name: "u", XML: `<w:u/>`}}))
}

func TestParagraph_TrimLeading(t *testing.T) {
	var testCases = []struct {
		description string
		paragraph   *Paragraph
		trim        int
		expectText  string
		expectBold  bool
	}{
		{
			description: "label in its own run",
			paragraph:   NewParagraph(NewRun("A.", Bold(), Underline("single")), NewRun(" Hà Nội")),
			trim:        2,
			expectText:  " Hà Nội",
			expectBold:  true,
		},
		{
			description: "label split over runs",
			paragraph:   NewParagraph(NewRun("  B"), NewRun(".", Bold()), NewRun(" Huế")),
			trim:        2,
			expectText:  " Huế",
		},
		{
			description: "label sharing a run with text",
			paragraph:   NewParagraph(NewRun("c) Mệnh đề", Italic())),
			trim:        2,
			expectText:  " Mệnh đề",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			props := testCase.paragraph.TrimLeading(testCase.trim)
			assert.Equal(t, testCase.expectText, testCase.paragraph.Text())
			assert.Equal(t, testCase.expectBold, props.Has("b"))
		})
	}
}

func TestParagraph_LeadingRuns(t *testing.T) {
	p := NewParagraph(NewRun(" "), NewRun("A", Underline("single")), NewRun("."), NewRun(" text", Underline("single")))
	runs := p.LeadingRuns(2)
	require.Len(t, runs, 2)
	assert.True(t, Underlined(runs[0].Props))
	assert.False(t, Underlined(runs[1].Props))
}

func TestRelink(t *testing.T) {
	src := New()
	src.Resources.Put(&Resource{ID: "rId7", Type: ImageType, Target: "media/image1.png", Data: []byte{1, 2, 3}})
	dst := New()
	dst.Resources.Put(&Resource{ID: "rId1", Type: ImageType, Target: "media/image1.png", Data: []byte{9}})

	drawing := &Object{Name: "drawing", XML: `<w:drawing><a:blip r:embed="rId7"/></w:drawing>`}
	nodes := []Node{NewParagraph(&Run{Content: []Content{drawing}})}

	copied, errs := Relink(nodes, src, dst)
	require.Empty(t, errs)
	refs := References(copied)
	require.Len(t, refs, 1)
	assert.NotEqual(t, "rId7", refs[0])
	res, ok := dst.Resources.Get(refs[0])
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, res.Data)
	assert.Equal(t, "media/image1_2.png", res.Target)
	assert.Equal(t, []string{"rId7"}, References(nodes), "source nodes untouched")

	again, errs := Relink(nodes, src, dst)
	require.Empty(t, errs)
	assert.Equal(t, 2, dst.Resources.Len())
	assert.Equal(t, refs, References(again), "identical bytes reuse the copied resource")

	original, _ := src.Resources.Get("rId7")
	original.Data[0] = 42
	assert.Equal(t, byte(1), res.Data[0], "resource bytes are copied")
}

func TestRelink_MissingResource(t *testing.T) {
	src, dst := New(), New()
	nodes := []Node{&Raw{Name: "sdt", XML: `<w:sdt><w:pict><v:imagedata r:id="rId3"/></w:pict></w:sdt>`}}
	copied, errs := Relink(nodes, src, dst)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrMissingResource))
	assert.Empty(t, References(copied))
	assert.Contains(t, copied[0].(*Raw).XML, `r:id=""`)
}

func TestDocument_Prune(t *testing.T) {
	doc := New()
	doc.Resources.Put(&Resource{ID: "rId1", Type: "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles", Target: "styles.xml"})
	doc.Resources.Put(&Resource{ID: "rId2", Type: ImageType, Target: "media/a.png", Data: []byte{1}})
	doc.Resources.Put(&Resource{ID: "rId3", Type: ImageType, Target: "media/b.png", Data: []byte{2}})
	doc.Append(NewParagraph(&Run{Content: []Content{&Object{Name: "drawing", XML: `<a:blip r:embed="rId3"/>`}}}))

	doc.Prune()
	_, styles := doc.Resources.Get("rId1")
	_, unused := doc.Resources.Get("rId2")
	_, used := doc.Resources.Get("rId3")
	assert.True(t, styles)
	assert.False(t, unused)
	assert.True(t, used)
}

func TestDocument_Clone(t *testing.T) {
	doc := New()
	doc.Append(NewParagraph(NewRun("Câu 1.")))
	clone := doc.Clone()
	clone.Nodes[0].(*Paragraph).Runs()[0].Content[0].(*Text).Value = "changed"
	assert.Equal(t, "Câu 1.", doc.Text())
}
