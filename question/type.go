package question

// Type is the answer shape of a question.
type Type int

const (
	Unknown Type = iota
	MultipleChoice
	TrueFalse
	ShortAnswer
	Essay
)

// Precedence is the order of sections in an assembled exam.
var Precedence = []Type{MultipleChoice, TrueFalse, ShortAnswer, Essay}

func (t Type) String() string {
	switch t {
	case MultipleChoice:
		return "MultipleChoice"
	case TrueFalse:
		return "TrueFalse"
	case ShortAnswer:
		return "ShortAnswer"
	case Essay:
		return "Essay"
	}
	return "Unknown"
}

// ParseType returns the type named by s, Unknown when s names none.
func ParseType(s string) Type {
	for _, t := range Precedence {
		if t.String() == s {
			return t
		}
	}
	return Unknown
}

// Level is the cognitive level tag written after a question header: (NB), (TH) or (VD).
type Level int

const (
	LevelNone Level = iota
	Know
	Understand
	Manipulate
)

func (l Level) String() string {
	switch l {
	case Know:
		return "NB"
	case Understand:
		return "TH"
	case Manipulate:
		return "VD"
	}
	return ""
}
