package guide

import "github.com/viant/easymix/document"

// FontName is the guide's body font.
const FontName = "Times New Roman"

// Format applies the guide's body formatting: no paragraph spacing, 1.2 line
// spacing, 12pt Times New Roman.
func Format(nodes []document.Node) {
	for _, p := range document.Paragraphs(nodes) {
		p.SetProp(document.Spacing(0, 0, 288))
		for _, run := range p.Runs() {
			run.Props = run.Props.With(document.Fonts(FontName), document.RunOrder).With(document.FontSize(24), document.RunOrder)
		}
	}
}
