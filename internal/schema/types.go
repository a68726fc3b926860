package schema

import "time"

// DateFormat is the on-disk date layout used by all three collections.
// Dates are calendar days; the tracker never persists a time of day.
const DateFormat = "2006-01-02"

// Topic defines a trackable probability question. Topics are keyed by a
// short snake_case string in the registry; the key is not repeated inside
// the record.
type Topic struct {
	Title         string   `json:"title" validate:"required"`
	Question      string   `json:"question" validate:"required"`
	Horizon       string   `json:"horizon"`
	KeyIndicators []string `json:"key_indicators"`
}

// Confidence is the analyst's confidence in an assessment.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// IsValidConfidence reports whether c is one of the three defined levels.
func IsValidConfidence(c Confidence) bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// IndicatorStatus is the qualitative state of a tracked indicator.
type IndicatorStatus string

const (
	IndicatorStable   IndicatorStatus = "Stable"
	IndicatorWatch    IndicatorStatus = "Watch"
	IndicatorCritical IndicatorStatus = "Critical"
	IndicatorUnknown  IndicatorStatus = "Unknown"
)

// IsValidIndicatorStatus reports whether s is one of the four defined statuses.
func IsValidIndicatorStatus(s IndicatorStatus) bool {
	switch s {
	case IndicatorStable, IndicatorWatch, IndicatorCritical, IndicatorUnknown:
		return true
	}
	return false
}

// Assessment is the current best estimate for a topic. A nil
// CurrentProbability means the topic has never been assessed; in that case
// the descriptor, confidence, and date fields are empty as well.
//
// The title/question/horizon fields duplicate the Topic record so that
// assessments.json remains readable on its own; edit-topic keeps them in sync.
type Assessment struct {
	Title              string                     `json:"title"`
	Question           string                     `json:"question"`
	Horizon            string                     `json:"horizon"`
	CurrentProbability *int                       `json:"current_probability" validate:"omitempty,min=1,max=100"`
	CurrentDescriptor  string                     `json:"current_descriptor"`
	Confidence         Confidence                 `json:"confidence"`
	KeyDrivers         []string                   `json:"key_drivers" validate:"max=3"`
	KeyUncertainties   []string                   `json:"key_uncertainties" validate:"max=3"`
	IndicatorStatus    map[string]IndicatorStatus `json:"indicator_status"`
	LastUpdated        string                     `json:"last_updated"`
	NextReview         string                     `json:"next_review"`
	Notes              string                     `json:"notes"`
}

// Assessed reports whether the topic has ever been updated.
func (a Assessment) Assessed() bool {
	return a.CurrentProbability != nil
}

// HistoryEntry is an immutable snapshot of a past assessment. Change is the
// probability delta from the immediately preceding entry for the same topic,
// nil on the first entry.
type HistoryEntry struct {
	ID            string     `json:"id"`
	Date          string     `json:"date" validate:"required"`
	Probability   int        `json:"probability" validate:"min=1,max=100"`
	Descriptor    string     `json:"descriptor"`
	Confidence    Confidence `json:"confidence"`
	Change        *int       `json:"change"`
	Drivers       []string   `json:"drivers" validate:"max=3"`
	Uncertainties []string   `json:"uncertainties" validate:"max=3"`
	Notes         string     `json:"notes"`
}

// Band is a probability range with its qualitative descriptor. Low is
// inclusive, High exclusive, except for the final band which includes 100.
type Band struct {
	Low, High int
	Label     string
}

// Bands are the fixed descriptor bands. Labels are part of the on-disk
// contract and must not be reworded.
var Bands = []Band{
	{1, 10, "Remote/Highly Unlikely"},
	{10, 30, "Unlikely"},
	{30, 70, "Roughly Even Chance"},
	{70, 90, "Likely/Probable"},
	{90, 99, "Highly Likely/Almost Certain"},
	{99, 100, "Certain"},
}

// DescriptorFor maps a probability percentage to its band label.
// Values at or above the final band's lower bound are "Certain".
func DescriptorFor(probability int) string {
	for _, b := range Bands {
		if probability >= b.Low && probability < b.High {
			return b.Label
		}
	}
	return "Certain"
}

// ParseDate parses an on-disk date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// FormatDate renders t in the on-disk date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
