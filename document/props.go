package document

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Prop is one child element of a property container (w:pPr, w:rPr), kept as raw XML.
type Prop struct {
	Name string // local element name, e.g. "u", "tabs"
	XML  string // full element markup, e.g. `<w:u w:val="single"/>`
}

// Props is an ordered list of property elements.
type Props []Prop

// RunOrder is the element order WordprocessingML mandates inside w:rPr.
var RunOrder = []string{
	"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike", "dstrike",
	"outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid", "vanish", "webHidden",
	"color", "spacing", "w", "kern", "position", "sz", "szCs", "highlight", "u", "effect",
	"bdr", "shd", "fitText", "vertAlign", "rtl", "cs", "em", "lang", "eastAsianLayout",
	"specVanish", "oMath",
}

// ParagraphOrder is the element order WordprocessingML mandates inside w:pPr.
var ParagraphOrder = []string{
	"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr", "widowControl", "numPr",
	"suppressLineNumbers", "pBdr", "shd", "tabs", "suppressAutoHyphens", "kinsoku", "wordWrap",
	"overflowPunct", "topLinePunct", "autoSpaceDE", "autoSpaceDN", "bidi", "adjustRightInd",
	"snapToGrid", "spacing", "ind", "contextualSpacing", "mirrorIndents", "suppressOverlap",
	"jc", "textDirection", "textAlignment", "textboxTightWrap", "outlineLvl", "divId",
	"cnfStyle", "rPr", "sectPr", "pPrChange",
}

// Get returns the property with the given local name.
func (p Props) Get(name string) (Prop, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop, true
		}
	}
	return Prop{}, false
}

// Has reports whether the property is present.
func (p Props) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Attr returns the value of attribute attr (matched by local name) on property name.
func (p Props) Attr(name, attr string) string {
	prop, ok := p.Get(name)
	if !ok {
		return ""
	}
	return prop.Attr(attr)
}

// Attr returns the value of the attribute with the given local name.
func (p Prop) Attr(attr string) string {
	dec := xml.NewDecoder(strings.NewReader(p.XML))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if start, ok := tok.(xml.StartElement); ok {
			for _, a := range start.Attr {
				if a.Name.Local == attr {
					return a.Value
				}
			}
			return ""
		}
	}
}

// Without returns a copy with the named properties removed.
func (p Props) Without(names ...string) Props {
	var result Props
	for _, prop := range p {
		drop := false
		for _, name := range names {
			if prop.Name == name {
				drop = true
				break
			}
		}
		if !drop {
			result = append(result, prop)
		}
	}
	return result
}

// With returns a copy where prop replaces a same-named property or is inserted at
// the position order requires.
func (p Props) With(prop Prop, order []string) Props {
	result := p.Clone()
	for i := range result {
		if result[i].Name == prop.Name {
			result[i] = prop
			return result
		}
	}
	rank := rankOf(prop.Name, order)
	for i := range result {
		if rankOf(result[i].Name, order) > rank {
			result = append(result, Prop{})
			copy(result[i+1:], result[i:])
			result[i] = prop
			return result
		}
	}
	return append(result, prop)
}

// Clone returns a copy of the list.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	return append(Props(nil), p...)
}

// XML returns the concatenated markup of all properties.
func (p Props) XML() string {
	var sb strings.Builder
	for _, prop := range p {
		sb.WriteString(prop.XML)
	}
	return sb.String()
}

func rankOf(name string, order []string) int {
	for i, candidate := range order {
		if candidate == name {
			return i
		}
	}
	return len(order)
}

// Bold returns a w:b property.
func Bold() Prop { return Prop{Name: "b", XML: `<w:b/>`} }

// Italic returns a w:i property.
func Italic() Prop { return Prop{Name: "i", XML: `<w:i/>`} }

// Underline returns a w:u property with the given style value.
func Underline(val string) Prop {
	return Prop{Name: "u", XML: `<w:u w:val="` + val + `"/>`}
}

// FontSize returns a w:sz property; size is in half points.
func FontSize(halfPoints int) Prop {
	return Prop{Name: "sz", XML: `<w:sz w:val="` + strconv.Itoa(halfPoints) + `"/>`}
}

// Justify returns a w:jc property (left, center, right, both).
func Justify(val string) Prop {
	return Prop{Name: "jc", XML: `<w:jc w:val="` + val + `"/>`}
}

// Spacing returns a w:spacing property with before/after in twips and line in
// 240ths of a line; a zero line keeps the style's line spacing.
func Spacing(before, after, line int) Prop {
	markup := `<w:spacing w:before="` + strconv.Itoa(before) + `" w:after="` + strconv.Itoa(after) + `"`
	if line > 0 {
		markup += ` w:line="` + strconv.Itoa(line) + `" w:lineRule="auto"`
	}
	return Prop{Name: "spacing", XML: markup + `/>`}
}

// Fonts returns a w:rFonts property naming the ASCII and high ANSI font.
func Fonts(name string) Prop {
	return Prop{Name: "rFonts", XML: `<w:rFonts w:ascii="` + name + `" w:hAnsi="` + name + `"/>`}
}

// TabStops returns a w:tabs property with left aligned stops at the given twip positions.
func TabStops(positions ...int) Prop {
	var sb strings.Builder
	sb.WriteString(`<w:tabs>`)
	for _, pos := range positions {
		sb.WriteString(`<w:tab w:val="left" w:pos="`)
		sb.WriteString(strconv.Itoa(pos))
		sb.WriteString(`"/>`)
	}
	sb.WriteString(`</w:tabs>`)
	return Prop{Name: "tabs", XML: sb.String()}
}

// Underlined reports whether run properties carry an underline other than "none".
func Underlined(props Props) bool {
	prop, ok := props.Get("u")
	if !ok {
		return false
	}
	val := prop.Attr("val")
	return val != "none"
}
