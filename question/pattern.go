package question

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/viant/easymix/document"
)

var (
	// HeaderPattern matches a question header such as "Câu 12." or "câu 3:".
	HeaderPattern = regexp.MustCompile(`(?i)^Câu\s+\d+[.:]?`)
	// ChoicePattern matches a multiple choice option marker.
	ChoicePattern = regexp.MustCompile(`^[A-D]\.`)
	// ItemPattern matches a true/false sub-item marker.
	ItemPattern = regexp.MustCompile(`^[a-d]\)`)
	// AnswerPattern matches the marker of a short or essay answer.
	AnswerPattern = regexp.MustCompile(`^[A-Z]\.`)
	// PointsPattern captures the point value written as "(1,5 điểm)".
	PointsPattern = regexp.MustCompile(`\((\d+[,.]?\d*)\s+điểm\)`)

	levelPattern = regexp.MustCompile(`(?i)\((NB|TH|VD)\)$`)
)

// ShortAnswerLimit is the longest answer text a lone option may carry to be a short answer.
const ShortAnswerLimit = 4

// Trimmed returns the trimmed text of a paragraph node, ok is false for other nodes.
func Trimmed(node document.Node) (string, bool) {
	p, ok := node.(*document.Paragraph)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(p.Text()), true
}

// IsHeader reports whether node is a question header paragraph.
func IsHeader(node document.Node) bool {
	text, ok := Trimmed(node)
	return ok && HeaderPattern.MatchString(text)
}

// Matches reports whether node is a paragraph whose trimmed text starts with marker.
func Matches(node document.Node, marker *regexp.Regexp) bool {
	text, ok := Trimmed(node)
	return ok && marker.MatchString(text)
}

// MarkerLength returns the rune length of the marker at the start of the
// paragraph's left-trimmed text, or 0 when absent.
func MarkerLength(p *document.Paragraph, marker *regexp.Regexp) int {
	text := strings.TrimLeftFunc(p.Text(), unicode.IsSpace)
	loc := marker.FindStringIndex(text)
	if loc == nil || loc[0] != 0 {
		return 0
	}
	return utf8.RuneCountInString(text[:loc[1]])
}

// LevelOf parses the trailing level tag of a line.
func LevelOf(text string) Level {
	match := levelPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return LevelNone
	}
	switch strings.ToUpper(match[1]) {
	case "TH":
		return Understand
	case "VD":
		return Manipulate
	}
	return Know
}

// Points returns the point value written anywhere in text, or "".
func Points(text string) string {
	match := PointsPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}
