package docx

import (
	"encoding/xml"
	"path"
	"strings"
)

const (
	// MainPart is the package path of the main document part.
	MainPart          = "word/document.xml"
	mainRels          = "word/_rels/document.xml.rels"
	contentTypesPart  = "[Content_Types].xml"
	packageRels       = "_rels/.rels"
	mainContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	officeDocument    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relsContentType   = "application/vnd.openxmlformats-package.relationships+xml"
)

var defaultContentTypes = map[string]string{
	"rels": relsContentType,
	"xml":  "application/xml",
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"svg":  "image/svg+xml",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"bin":  "application/vnd.openxmlformats-officedocument.oleObject",
}

type relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Items   []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type contentTypes struct {
	XMLName   xml.Name   `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []fileType `xml:"Default"`
	Overrides []partType `xml:"Override"`
}

type fileType struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type partType struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func (c *contentTypes) override(partName string) (string, bool) {
	for _, item := range c.Overrides {
		if strings.EqualFold(item.PartName, partName) {
			return item.ContentType, true
		}
	}
	return "", false
}

func (c *contentTypes) setOverride(partName, contentType string) {
	for i, item := range c.Overrides {
		if strings.EqualFold(item.PartName, partName) {
			c.Overrides[i].ContentType = contentType
			return
		}
	}
	c.Overrides = append(c.Overrides, partType{PartName: partName, ContentType: contentType})
}

func (c *contentTypes) ensureDefault(ext string) {
	ext = strings.ToLower(ext)
	if ext == "" {
		return
	}
	for _, item := range c.Defaults {
		if strings.EqualFold(item.Extension, ext) {
			return
		}
	}
	contentType, ok := defaultContentTypes[ext]
	if !ok {
		contentType = "application/octet-stream"
	}
	c.Defaults = append(c.Defaults, fileType{Extension: ext, ContentType: contentType})
}

// partPath resolves a relationship target of the main part into a package path.
func partPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(MainPart), target)
}

func marshal(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}
