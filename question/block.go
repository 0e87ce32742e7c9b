package question

import (
	"github.com/viant/easymix/document"
)

// Block is the content of one question, from its header paragraph up to the next header.
type Block struct {
	Nodes []document.Node
}

// Header returns the header paragraph.
func (b *Block) Header() *document.Paragraph {
	if len(b.Nodes) == 0 {
		return nil
	}
	p, _ := b.Nodes[0].(*document.Paragraph)
	return p
}

// Text returns the plain text of the block.
func (b *Block) Text() string {
	return document.NodesText(b.Nodes)
}

// Clone deep-copies the block.
func (b *Block) Clone() *Block {
	return &Block{Nodes: document.CloneNodes(b.Nodes)}
}

// Segmentation is a document split into question blocks.
type Segmentation struct {
	Lead   []document.Node // content before the first header
	Blocks []*Block
	Tail   []document.Node // trailing section properties
}

// Nodes re-concatenates lead, blocks and tail.
func (s *Segmentation) Nodes() []document.Node {
	var nodes []document.Node
	nodes = append(nodes, s.Lead...)
	for _, block := range s.Blocks {
		nodes = append(nodes, block.Nodes...)
	}
	return append(nodes, s.Tail...)
}

// Segment splits the document body into blocks at every header paragraph. Nodes
// are deep-copied; the document is left untouched.
func Segment(doc *document.Document) *Segmentation {
	nodes := doc.Nodes
	end := len(nodes)
	for end > 0 {
		if _, ok := nodes[end-1].(*document.Section); !ok {
			break
		}
		end--
	}
	result := &Segmentation{Tail: document.CloneNodes(nodes[end:])}
	var current *Block
	for _, node := range nodes[:end] {
		if IsHeader(node) {
			current = &Block{}
			result.Blocks = append(result.Blocks, current)
		}
		if current == nil {
			result.Lead = append(result.Lead, node.Clone())
			continue
		}
		current.Nodes = append(current.Nodes, node.Clone())
	}
	return result
}
