package document

import (
	"errors"
	"regexp"
)

// ErrMissingResource is reported when a reference points at no resource.
var ErrMissingResource = errors.New("missing resource")

// DefaultRoot is the opening body container tag used for documents created from scratch.
const DefaultRoot = `<w:document xmlns:wpc="http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas"` +
	` xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"` +
	` xmlns:o="urn:schemas-microsoft-com:office:office"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math"` +
	` xmlns:v="urn:schemas-microsoft-com:vml"` +
	` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
	` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"` +
	` xmlns:w10="urn:schemas-microsoft-com:office:word"` +
	` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
	` xmlns:w14="http://schemas.microsoft.com/office/word/2010/wordml"` +
	` xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape"` +
	` mc:Ignorable="w14">`

// Document is an in-memory word processing document: a block tree plus its resource arena.
type Document struct {
	Root      string // opening w:document tag with namespace declarations
	Nodes     []Node
	Resources *Resources
	// Parts holds other package parts by path; byte slices are treated as read-only.
	Parts map[string][]byte
}

// New creates an empty document.
func New() *Document {
	return &Document{Root: DefaultRoot, Resources: NewResources(), Parts: map[string][]byte{}}
}

// Clone deep-copies nodes and resources; package parts are shared read-only.
func (d *Document) Clone() *Document {
	result := &Document{
		Root:      d.Root,
		Nodes:     CloneNodes(d.Nodes),
		Resources: d.Resources.Clone(),
		Parts:     make(map[string][]byte, len(d.Parts)),
	}
	for name, data := range d.Parts {
		result.Parts[name] = data
	}
	return result
}

// Shell returns a copy with no body nodes, keeping styles, parts and resources.
func (d *Document) Shell() *Document {
	result := d.Clone()
	result.Nodes = nil
	return result
}

// Append adds nodes at the end of the body, ahead of trailing section properties.
func (d *Document) Append(nodes ...Node) {
	if section := d.Section(); section != nil {
		n := len(d.Nodes) - 1
		d.Nodes = append(append(d.Nodes[:n:n], nodes...), section)
		return
	}
	d.Nodes = append(d.Nodes, nodes...)
}

// Section returns the trailing body section properties, if any.
func (d *Document) Section() *Section {
	if len(d.Nodes) == 0 {
		return nil
	}
	section, _ := d.Nodes[len(d.Nodes)-1].(*Section)
	return section
}

// Text returns the plain text of the body.
func (d *Document) Text() string {
	return NodesText(d.Nodes)
}

var refPattern = regexp.MustCompile(`\br:(embed|link|id|pict|dm|lo|qs|cs)="([^"]*)"`)

// References returns relationship ids referenced from nodes, in order of appearance.
func References(nodes []Node) []string {
	var ids []string
	seen := map[string]bool{}
	walkMarkup(nodes, func(markup string) string {
		for _, match := range refPattern.FindAllStringSubmatch(markup, -1) {
			if id := match[2]; id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		return markup
	})
	return ids
}

// rewriteReferences replaces relationship ids inside node markup in place.
func rewriteReferences(nodes []Node, mapping func(id string) string) {
	walkMarkup(nodes, func(markup string) string {
		if !refPattern.MatchString(markup) {
			return markup
		}
		return refPattern.ReplaceAllStringFunc(markup, func(attr string) string {
			match := refPattern.FindStringSubmatch(attr)
			return `r:` + match[1] + `="` + mapping(match[2]) + `"`
		})
	})
}

func walkMarkup(nodes []Node, fn func(markup string) string) {
	for _, node := range nodes {
		switch actual := node.(type) {
		case *Paragraph:
			for _, inline := range actual.Inlines {
				switch item := inline.(type) {
				case *Opaque:
					item.XML = fn(item.XML)
				case *Run:
					for _, content := range item.Content {
						if object, ok := content.(*Object); ok {
							object.XML = fn(object.XML)
						}
					}
				}
			}
		case *Table:
			for _, row := range actual.Rows {
				for _, cell := range row.Cells {
					walkMarkup(cell.Nodes, fn)
				}
			}
		case *Raw:
			actual.XML = fn(actual.XML)
		case *Section:
			actual.XML = fn(actual.XML)
		}
	}
}

// Prune drops media and hyperlink resources no node references.
func (d *Document) Prune() {
	used := map[string]bool{}
	for _, id := range References(d.Nodes) {
		used[id] = true
	}
	d.Resources.Retain(func(res *Resource) bool {
		switch res.Type {
		case ImageType, OLEObjectType, HyperlinkType:
			return used[res.ID]
		}
		return true
	})
}
