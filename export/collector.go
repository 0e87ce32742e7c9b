package export

import "github.com/viant/easymix/cache"

// Collector gathers the answer records of concurrently processed versions.
// Records of one version are appended in the order they were added.
type Collector struct {
	records *cache.Map[string, []QuestionExport]
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{records: cache.NewMap[string, []QuestionExport]()}
}

// Add appends the records of a version.
func (c *Collector) Add(version string, records ...QuestionExport) {
	c.records.Update(version, func(current []QuestionExport, _ bool) []QuestionExport {
		return append(current, records...)
	})
}

// Records returns the records of the given versions, in that order; versions
// that produced nothing are skipped.
func (c *Collector) Records(versions []string) []QuestionExport {
	var result []QuestionExport
	for _, version := range versions {
		records, _ := c.records.Get(version)
		result = append(result, records...)
	}
	return result
}
