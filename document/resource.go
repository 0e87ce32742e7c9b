package document

import (
	"bytes"
	"path"
	"strconv"
	"strings"
)

// Relationship types used by the document part.
const (
	ImageType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	HyperlinkType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	FooterType    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	HeaderType    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	OLEObjectType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/oleObject"

	// FooterContentType is the content type of footer parts.
	FooterContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
)

// Resource is an entry of a document's resource table: a package part or an
// external target addressed by relationship id.
type Resource struct {
	ID          string
	Type        string
	Target      string // part path relative to word/, or an external URL
	External    bool
	ContentType string // override content type; empty uses the extension default
	Data        []byte
}

// Resources is a document owned arena of resources indexed by relationship id.
type Resources struct {
	items []*Resource
	index map[string]int
	next  int
}

// NewResources creates an empty arena.
func NewResources() *Resources {
	return &Resources{index: map[string]int{}, next: 1}
}

// Len returns the number of resources.
func (r *Resources) Len() int { return len(r.items) }

// All returns the resources in insertion order.
func (r *Resources) All() []*Resource {
	return append([]*Resource(nil), r.items...)
}

// Get returns the resource with the given id.
func (r *Resources) Get(id string) (*Resource, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.items[i], true
}

// Put stores a resource under its own id, replacing an existing entry.
func (r *Resources) Put(res *Resource) {
	if n, ok := numericID(res.ID); ok && n >= r.next {
		r.next = n + 1
	}
	if i, ok := r.index[res.ID]; ok {
		r.items[i] = res
		return
	}
	r.index[res.ID] = len(r.items)
	r.items = append(r.items, res)
}

// Add stores a copy of res under a fresh id and a target name unused in this arena.
func (r *Resources) Add(res *Resource) *Resource {
	added := &Resource{
		Type:        res.Type,
		Target:      res.Target,
		External:    res.External,
		ContentType: res.ContentType,
		Data:        bytes.Clone(res.Data),
	}
	for {
		added.ID = "rId" + strconv.Itoa(r.next)
		r.next++
		if _, taken := r.index[added.ID]; !taken {
			break
		}
	}
	if !added.External {
		added.Target = r.uniqueTarget(added.Target)
	}
	r.Put(added)
	return added
}

// Find returns a resource of the same type holding identical bytes or external target.
func (r *Resources) Find(res *Resource) (*Resource, bool) {
	for _, candidate := range r.items {
		if candidate.Type != res.Type || candidate.External != res.External {
			continue
		}
		if res.External {
			if candidate.Target == res.Target {
				return candidate, true
			}
			continue
		}
		if bytes.Equal(candidate.Data, res.Data) {
			return candidate, true
		}
	}
	return nil, false
}

// Clone deep-copies the arena keeping ids and targets.
func (r *Resources) Clone() *Resources {
	result := NewResources()
	result.next = r.next
	for _, item := range r.items {
		cloned := *item
		cloned.Data = bytes.Clone(item.Data)
		result.Put(&cloned)
	}
	return result
}

func (r *Resources) uniqueTarget(target string) string {
	if !r.hasTarget(target) {
		return target
	}
	dir, file := path.Split(target)
	ext := path.Ext(file)
	base := strings.TrimSuffix(file, ext)
	for i := 2; ; i++ {
		candidate := dir + base + "_" + strconv.Itoa(i) + ext
		if !r.hasTarget(candidate) {
			return candidate
		}
	}
}

func (r *Resources) hasTarget(target string) bool {
	for _, item := range r.items {
		if !item.External && strings.EqualFold(item.Target, target) {
			return true
		}
	}
	return false
}

func numericID(id string) (int, bool) {
	if !strings.HasPrefix(id, "rId") {
		return 0, false
	}
	n, err := strconv.Atoi(id[3:])
	return n, err == nil
}

// Retain keeps only the resources for which keep returns true.
func (r *Resources) Retain(keep func(res *Resource) bool) {
	items := r.items
	r.items = nil
	r.index = map[string]int{}
	for _, item := range items {
		if keep(item) {
			r.index[item.ID] = len(r.items)
			r.items = append(r.items, item)
		}
	}
}
