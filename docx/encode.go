package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/easymix/document"
)

// Encode serializes a document into a .docx package.
func Encode(doc *document.Document) ([]byte, error) {
	files := map[string][]byte{}
	for name, content := range doc.Parts {
		files[name] = content
	}
	types := &contentTypes{}
	if content, ok := files[contentTypesPart]; ok {
		if err := xml.Unmarshal(content, types); err != nil {
			return nil, fmt.Errorf("parse %s: %w", contentTypesPart, err)
		}
	}
	types.ensureDefault("rels")
	types.ensureDefault("xml")
	types.setOverride("/"+MainPart, mainContentType)

	rels := &relationships{}
	for _, res := range doc.Resources.All() {
		rel := relationship{ID: res.ID, Type: res.Type, Target: res.Target}
		if res.External {
			rel.TargetMode = "External"
			rels.Items = append(rels.Items, rel)
			continue
		}
		name := partPath(res.Target)
		files[name] = res.Data
		if res.ContentType != "" {
			types.setOverride("/"+name, res.ContentType)
		} else {
			types.ensureDefault(strings.TrimPrefix(path.Ext(name), "."))
		}
		rels.Items = append(rels.Items, rel)
	}
	var err error
	if files[mainRels], err = marshal(rels); err != nil {
		return nil, err
	}
	if _, ok := files[packageRels]; !ok {
		root := &relationships{Items: []relationship{{ID: "rId1", Type: officeDocument, Target: MainPart}}}
		if files[packageRels], err = marshal(root); err != nil {
			return nil, err
		}
	}
	if files[contentTypesPart], err = marshal(types); err != nil {
		return nil, err
	}
	files[MainPart] = encodeBody(doc)

	names := make([]string, 0, len(files))
	for name := range files {
		if name != contentTypesPart {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{contentTypesPart}, names...)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeBody(doc *document.Document) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	root := doc.Root
	if root == "" {
		root = document.DefaultRoot
	}
	buf.WriteString(root)
	buf.WriteString(`<w:body>`)
	var section *document.Section
	for _, node := range doc.Nodes {
		if s, ok := node.(*document.Section); ok {
			section = s
			continue
		}
		writeNode(&buf, node)
	}
	if section != nil {
		buf.WriteString(section.XML)
	}
	buf.WriteString(`</w:body></w:document>`)
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, node document.Node) {
	switch actual := node.(type) {
	case *document.Paragraph:
		writeParagraph(buf, actual)
	case *document.Table:
		writeTable(buf, actual)
	case *document.Raw:
		buf.WriteString(actual.XML)
	case *document.Section:
		buf.WriteString(actual.XML)
	}
}

func writeParagraph(buf *bytes.Buffer, p *document.Paragraph) {
	buf.WriteString(`<w:p>`)
	if len(p.Props) > 0 {
		buf.WriteString(`<w:pPr>`)
		buf.WriteString(p.Props.XML())
		buf.WriteString(`</w:pPr>`)
	}
	for _, inline := range p.Inlines {
		switch actual := inline.(type) {
		case *document.Run:
			writeRun(buf, actual)
		case *document.Opaque:
			buf.WriteString(actual.XML)
		}
	}
	buf.WriteString(`</w:p>`)
}

func writeRun(buf *bytes.Buffer, run *document.Run) {
	buf.WriteString(`<w:r>`)
	if len(run.Props) > 0 {
		buf.WriteString(`<w:rPr>`)
		buf.WriteString(run.Props.XML())
		buf.WriteString(`</w:rPr>`)
	}
	for _, content := range run.Content {
		switch actual := content.(type) {
		case *document.Text:
			buf.WriteString(`<w:t xml:space="preserve">`)
			_ = xml.EscapeText(buf, []byte(actual.Value))
			buf.WriteString(`</w:t>`)
		case *document.Tab:
			buf.WriteString(`<w:tab/>`)
		case *document.Break:
			if actual.XML == "" {
				buf.WriteString(`<w:br/>`)
			} else {
				buf.WriteString(actual.XML)
			}
		case *document.Object:
			buf.WriteString(actual.XML)
		}
	}
	buf.WriteString(`</w:r>`)
}

func writeTable(buf *bytes.Buffer, table *document.Table) {
	buf.WriteString(`<w:tbl><w:tblPr>`)
	buf.WriteString(table.Props)
	buf.WriteString(`</w:tblPr><w:tblGrid>`)
	for _, width := range table.Grid {
		buf.WriteString(`<w:gridCol w:w="`)
		buf.WriteString(strconv.Itoa(width))
		buf.WriteString(`"/>`)
	}
	buf.WriteString(`</w:tblGrid>`)
	for _, row := range table.Rows {
		buf.WriteString(`<w:tr>`)
		if row.Props != "" {
			buf.WriteString(`<w:trPr>`)
			buf.WriteString(row.Props)
			buf.WriteString(`</w:trPr>`)
		}
		for _, cell := range row.Cells {
			buf.WriteString(`<w:tc>`)
			if cell.Props != "" {
				buf.WriteString(`<w:tcPr>`)
				buf.WriteString(cell.Props)
				buf.WriteString(`</w:tcPr>`)
			}
			for _, node := range cell.Nodes {
				writeNode(buf, node)
			}
			// a cell must end with a paragraph
			if n := len(cell.Nodes); n == 0 {
				buf.WriteString(`<w:p/>`)
			} else if _, ok := cell.Nodes[n-1].(*document.Paragraph); !ok {
				buf.WriteString(`<w:p/>`)
			}
			buf.WriteString(`</w:tc>`)
		}
		buf.WriteString(`</w:tr>`)
	}
	buf.WriteString(`</w:tbl>`)
}
