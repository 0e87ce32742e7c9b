package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/viant/easymix/document"
)

// ErrNotDOCX is returned when the package has no main document part.
var ErrNotDOCX = errors.New("not a docx package")

// Decode parses a .docx package into a document.
func Decode(data []byte) (*document.Document, error) {
	if len(data) == 0 {
		return nil, ErrNotDOCX
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDOCX, err)
	}
	files := map[string][]byte{}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		files[f.Name] = content
	}
	var main []byte
	for name, content := range files {
		if strings.EqualFold(name, MainPart) {
			main = content
			delete(files, name)
			break
		}
	}
	if main == nil {
		return nil, ErrNotDOCX
	}
	doc := &document.Document{Resources: document.NewResources(), Parts: map[string][]byte{}}
	if doc.Root, doc.Nodes, err = parseBody(main); err != nil {
		return nil, fmt.Errorf("parse %s: %w", MainPart, err)
	}
	types := &contentTypes{}
	if content, ok := files[contentTypesPart]; ok {
		if err := xml.Unmarshal(content, types); err != nil {
			return nil, fmt.Errorf("parse %s: %w", contentTypesPart, err)
		}
	}
	if content, ok := files[mainRels]; ok {
		delete(files, mainRels)
		rels := &relationships{}
		if err := xml.Unmarshal(content, rels); err != nil {
			return nil, fmt.Errorf("parse %s: %w", mainRels, err)
		}
		shared := sharedTargets(files)
		for _, rel := range rels.Items {
			res := &document.Resource{ID: rel.ID, Type: rel.Type, Target: rel.Target}
			if strings.EqualFold(rel.TargetMode, "External") {
				res.External = true
				doc.Resources.Put(res)
				continue
			}
			name := partPath(rel.Target)
			res.Data = files[name]
			if contentType, ok := types.override("/" + name); ok {
				res.ContentType = contentType
			}
			if !shared[path.Base(name)] {
				delete(files, name)
			}
			doc.Resources.Put(res)
		}
	}
	for name, content := range files {
		doc.Parts[name] = content
	}
	return doc, nil
}

// sharedTargets collects file names referenced from relationship parts other than the main one.
func sharedTargets(files map[string][]byte) map[string]bool {
	result := map[string]bool{}
	for name, content := range files {
		if !strings.HasSuffix(name, ".rels") || name == packageRels {
			continue
		}
		rels := &relationships{}
		if err := xml.Unmarshal(content, rels); err != nil {
			continue
		}
		for _, rel := range rels.Items {
			result[path.Base(rel.Target)] = true
		}
	}
	return result
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// reader walks word/document.xml keeping byte offsets so that unknown elements
// can be preserved verbatim.
type reader struct {
	data []byte
	dec  *xml.Decoder
}

func parseBody(data []byte) (string, []document.Node, error) {
	r := &reader{data: data, dec: xml.NewDecoder(bytes.NewReader(data))}
	root := ""
	for {
		offset := r.dec.InputOffset()
		tok, err := r.dec.Token()
		if err == io.EOF {
			return "", nil, fmt.Errorf("missing body")
		}
		if err != nil {
			return "", nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "document":
			root = r.raw(offset)
		case "body":
			nodes, err := r.blocks()
			if root == "" {
				root = document.DefaultRoot
			}
			return root, nodes, err
		}
	}
}

func (r *reader) raw(offset int64) string {
	return string(r.data[offset:r.dec.InputOffset()])
}

func (r *reader) skip(offset int64) (string, error) {
	if err := r.dec.Skip(); err != nil {
		return "", err
	}
	return r.raw(offset), nil
}

// blocks reads block children until the end of the enclosing element.
func (r *reader) blocks() ([]document.Node, error) {
	var nodes []document.Node
	for {
		offset := r.dec.InputOffset()
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nodes, nil
		case xml.StartElement:
			node, err := r.block(t, offset)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
	}
}

func (r *reader) block(start xml.StartElement, offset int64) (document.Node, error) {
	switch start.Name.Local {
	case "p":
		return r.paragraph()
	case "tbl":
		return r.table()
	case "sectPr":
		markup, err := r.skip(offset)
		return &document.Section{XML: markup}, err
	default:
		markup, err := r.skip(offset)
		return &document.Raw{Name: start.Name.Local, XML: markup}, err
	}
}

func (r *reader) paragraph() (*document.Paragraph, error) {
	p := &document.Paragraph{}
	for {
		offset := r.dec.InputOffset()
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return p, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if p.Props, err = r.props(); err != nil {
					return nil, err
				}
			case "r":
				run, err := r.run()
				if err != nil {
					return nil, err
				}
				p.Inlines = append(p.Inlines, run)
			default:
				markup, err := r.skip(offset)
				if err != nil {
					return nil, err
				}
				p.Inlines = append(p.Inlines, &document.Opaque{Name: t.Name.Local, XML: markup})
			}
		}
	}
}

func (r *reader) props() (document.Props, error) {
	var props document.Props
	for {
		offset := r.dec.InputOffset()
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return props, nil
		case xml.StartElement:
			markup, err := r.skip(offset)
			if err != nil {
				return nil, err
			}
			props = append(props, document.Prop{Name: t.Name.Local, XML: markup})
		}
	}
}

func (r *reader) run() (*document.Run, error) {
	run := &document.Run{}
	for {
		offset := r.dec.InputOffset()
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return run, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if run.Props, err = r.props(); err != nil {
					return nil, err
				}
			case "t":
				var text string
				if err := r.dec.DecodeElement(&text, &t); err != nil {
					return nil, err
				}
				run.Content = append(run.Content, &document.Text{Value: text})
			case "tab":
				if _, err := r.skip(offset); err != nil {
					return nil, err
				}
				run.Content = append(run.Content, &document.Tab{})
			case "br", "cr":
				markup, err := r.skip(offset)
				if err != nil {
					return nil, err
				}
				run.Content = append(run.Content, &document.Break{XML: markup})
			default:
				markup, err := r.skip(offset)
				if err != nil {
					return nil, err
				}
				run.Content = append(run.Content, &document.Object{Name: t.Name.Local, XML: markup})
			}
		}
	}
}

func (r *reader) table() (*document.Table, error) {
	table := &document.Table{}
	for {
		offset := r.dec.InputOffset()
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return table, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "tblPr":
				markup, err := r.skip(offset)
				if err != nil {
					return nil, err
				}
				table.Props = inner(markup)
			case "tblGrid":
				if table.Grid, err = r.grid(); err != nil {
					return nil, err
				}
			case "tr":
				row, err := r.row()
				if err != nil {
					return nil, err
				}
				table.Rows = append(table.Rows, row)
			default:
				if err := r.dec.Skip(); err != nil {
					return nil, err
				}
			}
		}
	}
}

func (r *reader) grid() ([]int, error) {
	var widths []int
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return widths, nil
		case xml.StartElement:
			if t.Name.Local == "gridCol" {
				width := 0
				for _, attr := range t.Attr {
					if attr.Name.Local == "w" {
						width, _ = strconv.Atoi(attr.Value)
					}
				}
				widths = append(widths, width)
			}
			if err := r.dec.Skip(); err != nil {
				return nil, err
			}
		}
	}
}

func (r *reader) row() (*document.Row, error) {
	row := &document.Row{}
	for {
		offset := r.dec.InputOffset()
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return row, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "trPr":
				markup, err := r.skip(offset)
				if err != nil {
					return nil, err
				}
				row.Props = inner(markup)
			case "tc":
				cell, err := r.cell()
				if err != nil {
					return nil, err
				}
				row.Cells = append(row.Cells, cell)
			default:
				if err := r.dec.Skip(); err != nil {
					return nil, err
				}
			}
		}
	}
}

func (r *reader) cell() (*document.Cell, error) {
	cell := &document.Cell{}
	for {
		offset := r.dec.InputOffset()
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return cell, nil
		case xml.StartElement:
			if t.Name.Local == "tcPr" {
				markup, err := r.skip(offset)
				if err != nil {
					return nil, err
				}
				cell.Props = inner(markup)
				continue
			}
			node, err := r.block(t, offset)
			if err != nil {
				return nil, err
			}
			cell.Nodes = append(cell.Nodes, node)
		}
	}
}

// inner strips the outer start and end tags of an element's markup.
func inner(markup string) string {
	start := strings.IndexByte(markup, '>')
	if start < 0 || strings.HasSuffix(markup[:start+1], "/>") {
		return ""
	}
	end := strings.LastIndexByte(markup, '<')
	if end <= start {
		return ""
	}
	return markup[start+1 : end]
}
