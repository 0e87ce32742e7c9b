package document

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// xmlText extracts the visible text from a verbatim markup fragment.
func xmlText(fragment string) string {
	if !strings.Contains(fragment, ":t") && !strings.Contains(fragment, "<t") {
		return ""
	}
	dec := xml.NewDecoder(strings.NewReader(fragment))
	dec.Strict = false
	var buf bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "t":
			var text string
			if err := dec.DecodeElement(&text, &start); err == nil {
				buf.WriteString(text)
			}
		case "tab":
			buf.WriteByte('\t')
		case "br", "cr":
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}
