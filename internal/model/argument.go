package model

// StrengthLevel rates the persuasiveness of an argument or citation
type StrengthLevel string

const (
	StrengthWeak     StrengthLevel = "weak"
	StrengthModerate StrengthLevel = "moderate"
	StrengthStrong   StrengthLevel = "strong"
)

// ParseStrength folds free-form strength labels onto the three-level scale.
// The text-understanding capability sometimes answers on a five-level scale
// (very_weak..very_strong); the extremes collapse onto weak/strong.
// Unrecognized labels return "" so the scorer can apply its default.
func ParseStrength(label string) StrengthLevel {
	switch label {
	case "weak", "very_weak":
		return StrengthWeak
	case "moderate":
		return StrengthModerate
	case "strong", "very_strong":
		return StrengthStrong
	default:
		return ""
	}
}

// Rank orders strength levels for comparison (higher is stronger)
func (s StrengthLevel) Rank() int {
	switch s {
	case StrengthStrong:
		return 3
	case StrengthModerate:
		return 2
	case StrengthWeak:
		return 1
	default:
		return 0
	}
}

// Citation references case law supporting an argument.
// CaseName is the only required field.
type Citation struct {
	CaseName         string `json:"case_name"`
	ReporterCitation string `json:"reporter_citation,omitempty"`
	Court            string `json:"court,omitempty"`
	Year             int    `json:"year,omitempty"`
}

// Argument is a single distinct legal contention extracted from a motion.
// IDs are assigned once per analysis (arg_001, arg_002, ...) and never reused.
type Argument struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Category  string        `json:"category"` // Category key from the taxonomy
	Location  string        `json:"location"` // Section label where first raised
	Strength  StrengthLevel `json:"strength"`
	Priority  int           `json:"priority"` // 1 = highest
	Citations []Citation    `json:"citations"`
}
