package document

import (
	"strings"
	"unicode"
)

// Paragraph is a w:p element.
type Paragraph struct {
	Props   Props
	Inlines []Inline
}

// Inline is a paragraph child: a run or an element kept verbatim.
type Inline interface {
	Text() string
	cloneInline() Inline
}

// Run is a w:r element.
type Run struct {
	Props   Props
	Content []Content
}

// Content is a run child.
type Content interface {
	Text() string
	cloneContent() Content
}

// Text is a w:t element.
type Text struct{ Value string }

// Tab is a w:tab element.
type Tab struct{}

// Break is a w:br or w:cr element.
type Break struct{ XML string }

// Object is any other run child kept verbatim (w:drawing, w:pict, w:object, fields).
type Object struct {
	Name string
	XML  string
}

// Opaque is a paragraph child other than a run kept verbatim (m:oMath, w:hyperlink, bookmarks).
type Opaque struct {
	Name string
	XML  string
}

func (t *Text) Text() string            { return t.Value }
func (t *Text) cloneContent() Content   { clone := *t; return &clone }
func (t *Tab) Text() string             { return "\t" }
func (t *Tab) cloneContent() Content    { return &Tab{} }
func (b *Break) Text() string           { return "\n" }
func (b *Break) cloneContent() Content  { clone := *b; return &clone }
func (o *Object) Text() string          { return "" }
func (o *Object) cloneContent() Content { clone := *o; return &clone }

func (o *Opaque) Text() string { return xmlText(o.XML) }

func (o *Opaque) cloneInline() Inline {
	clone := *o
	return &clone
}

// IsMedia reports whether the object is a drawing or embedded object.
func (o *Object) IsMedia() bool {
	switch o.Name {
	case "drawing", "pict", "object":
		return true
	}
	return false
}

// IsMedia reports whether the element is a formula or holds a drawing.
func (o *Opaque) IsMedia() bool {
	switch o.Name {
	case "oMath", "oMathPara":
		return true
	}
	return rawMedia(o.XML)
}

// NewRun creates a run holding text.
func NewRun(text string, props ...Prop) *Run {
	run := &Run{}
	for _, prop := range props {
		run.Props = run.Props.With(prop, RunOrder)
	}
	if text != "" {
		run.Content = append(run.Content, &Text{Value: text})
	}
	return run
}

// NewParagraph creates a paragraph from inlines.
func NewParagraph(inlines ...Inline) *Paragraph {
	return &Paragraph{Inlines: inlines}
}

func (r *Run) Text() string {
	var sb strings.Builder
	for _, content := range r.Content {
		sb.WriteString(content.Text())
	}
	return sb.String()
}

func (r *Run) cloneInline() Inline { return r.clone() }

func (r *Run) clone() *Run {
	result := &Run{Props: r.Props.Clone()}
	for _, content := range r.Content {
		result.Content = append(result.Content, content.cloneContent())
	}
	return result
}

// Text returns the concatenated text of all inlines.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, inline := range p.Inlines {
		sb.WriteString(inline.Text())
	}
	return sb.String()
}

// Clone deep-copies the paragraph.
func (p *Paragraph) Clone() Node { return p.Copy() }

// Copy deep-copies the paragraph keeping its concrete type.
func (p *Paragraph) Copy() *Paragraph {
	result := &Paragraph{Props: p.Props.Clone()}
	for _, inline := range p.Inlines {
		result.Inlines = append(result.Inlines, inline.cloneInline())
	}
	return result
}

// Runs returns the direct runs of the paragraph.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, inline := range p.Inlines {
		if run, ok := inline.(*Run); ok {
			runs = append(runs, run)
		}
	}
	return runs
}

// HasMedia reports whether the paragraph holds a drawing, object or formula.
func (p *Paragraph) HasMedia() bool {
	for _, inline := range p.Inlines {
		switch actual := inline.(type) {
		case *Opaque:
			if actual.IsMedia() {
				return true
			}
		case *Run:
			for _, content := range actual.Content {
				if object, ok := content.(*Object); ok && object.IsMedia() {
					return true
				}
			}
		}
	}
	return false
}

// SetProp sets a paragraph property.
func (p *Paragraph) SetProp(prop Prop) {
	p.Props = p.Props.With(prop, ParagraphOrder)
}

// Append adds inlines at the end of the paragraph.
func (p *Paragraph) Append(inlines ...Inline) {
	p.Inlines = append(p.Inlines, inlines...)
}

// Prepend adds inlines at the start of the paragraph.
func (p *Paragraph) Prepend(inlines ...Inline) {
	p.Inlines = append(append([]Inline{}, inlines...), p.Inlines...)
}

// LeadingRuns returns the runs that carry the first n characters after leading
// whitespace. Whitespace-only contributions are ignored.
func (p *Paragraph) LeadingRuns(n int) []*Run {
	var result []*Run
	skipping := true
	for _, inline := range p.Inlines {
		if n <= 0 {
			break
		}
		run, ok := inline.(*Run)
		if !ok {
			if inline.Text() != "" {
				break
			}
			continue
		}
		contributed := false
		for _, content := range run.Content {
			if n <= 0 {
				break
			}
			for _, r := range content.Text() {
				if n <= 0 {
					break
				}
				if skipping && unicode.IsSpace(r) {
					continue
				}
				skipping = false
				n--
				contributed = true
			}
		}
		if contributed {
			result = append(result, run)
		}
	}
	return result
}

// TrimLeading removes leading whitespace and the next n characters from the
// paragraph text, dropping runs left empty. It returns the properties of the
// first run characters were removed from.
func (p *Paragraph) TrimLeading(n int) Props {
	var first Props
	found := false
	skipping := true
	var inlines []Inline
	for _, inline := range p.Inlines {
		run, ok := inline.(*Run)
		if !ok || (n <= 0 && !skipping) {
			if !ok && inline.Text() != "" {
				n = 0
				skipping = false
			}
			inlines = append(inlines, inline)
			continue
		}
		var contents []Content
		touched := false
		for _, content := range run.Content {
			if n <= 0 && !skipping {
				contents = append(contents, content)
				continue
			}
			switch actual := content.(type) {
			case *Text:
				runes := []rune(actual.Value)
				i := 0
				for i < len(runes) && (skipping || n > 0) {
					if skipping && unicode.IsSpace(runes[i]) {
						i++
						continue
					}
					skipping = false
					if n == 0 {
						break
					}
					n--
					i++
				}
				if i > 0 {
					touched = true
				}
				if rest := string(runes[i:]); rest != "" {
					contents = append(contents, &Text{Value: rest})
				}
			case *Tab, *Break:
				if skipping {
					touched = true
					continue
				}
				if n > 0 {
					n--
					touched = true
					continue
				}
				contents = append(contents, content)
			default:
				contents = append(contents, content)
			}
		}
		if touched && !found {
			first = run.Props.Clone()
			found = true
		}
		run.Content = contents
		if touched && len(contents) == 0 {
			continue
		}
		inlines = append(inlines, run)
	}
	p.Inlines = inlines
	return first
}
