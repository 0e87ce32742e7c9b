package assembly

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/viant/easymix/document"
)

const footerTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
	`<w:p><w:pPr><w:jc w:val="right"/></w:pPr>` +
	`<w:r><w:t xml:space="preserve">Trang </w:t></w:r>` +
	`<w:r><w:fldChar w:fldCharType="begin"/></w:r><w:r><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r><w:r><w:fldChar w:fldCharType="end"/></w:r>` +
	`<w:r><w:t>/</w:t></w:r>` +
	`<w:r><w:fldChar w:fldCharType="begin"/></w:r><w:r><w:instrText xml:space="preserve"> SECTIONPAGES </w:instrText></w:r><w:r><w:fldChar w:fldCharType="end"/></w:r>` +
	`<w:r><w:t xml:space="preserve"> - Mã đề {code}</w:t></w:r>` +
	`</w:p></w:ftr>`

var (
	defaultFooterRef = regexp.MustCompile(`<w:footerReference\b[^>]*w:type="default"[^>]*/>`)
	sectionStart     = regexp.MustCompile(`^<w:sectPr\b[^>]*>`)
)

// FooterXML returns the footer part markup: page x of section pages and the version code.
func FooterXML(code string) []byte {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(code))
	return []byte(strings.Replace(footerTemplate, "{code}", escaped.String(), 1))
}

// AddFooter adds a footer part and references it as the default footer of the
// document's final section, creating section properties when missing.
func AddFooter(doc *document.Document, code string) {
	res := doc.Resources.Add(&document.Resource{
		Type:        document.FooterType,
		Target:      "footer1.xml",
		ContentType: document.FooterContentType,
		Data:        FooterXML(code),
	})
	ref := `<w:footerReference w:type="default" r:id="` + res.ID + `"/>`
	section := doc.Section()
	if section == nil {
		doc.Append(&document.Section{XML: `<w:sectPr>` + ref + `</w:sectPr>`})
		return
	}
	markup := defaultFooterRef.ReplaceAllString(section.XML, "")
	if strings.HasSuffix(markup, "/>") && !strings.Contains(markup, "</w:sectPr>") {
		markup = strings.TrimSuffix(markup, "/>") + `></w:sectPr>`
	}
	start := sectionStart.FindString(markup)
	section.XML = start + ref + markup[len(start):]
}
