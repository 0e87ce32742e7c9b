package document

import "fmt"

// Relink deep-copies nodes taken from src so they can be placed into dst: every
// referenced resource is copied into dst's arena and the reference rewritten to
// the new id. Missing resources are reported and their references cleared, the
// element itself is still copied.
func Relink(nodes []Node, src, dst *Document) ([]Node, []error) {
	copied := CloneNodes(nodes)
	if src == dst {
		return copied, nil
	}
	var errs []error
	mapping := map[string]string{}
	for _, id := range References(copied) {
		res, ok := src.Resources.Get(id)
		if !ok {
			errs = append(errs, fmt.Errorf("relink %s: %w", id, ErrMissingResource))
			mapping[id] = ""
			continue
		}
		if existing, ok := dst.Resources.Find(res); ok {
			mapping[id] = existing.ID
			continue
		}
		mapping[id] = dst.Resources.Add(res).ID
	}
	rewriteReferences(copied, func(id string) string {
		if mapped, ok := mapping[id]; ok {
			return mapped
		}
		return id
	})
	return copied, errs
}
