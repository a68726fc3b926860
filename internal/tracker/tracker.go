// Package tracker implements the update workflow: it transitions one topic's
// assessment to a new value, appends the change to the history log, and
// schedules the next review.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/riskwatch/internal/config"
	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
)

// ErrNotFound reports an unknown topic key. It aborts only the affected
// operation; callers iterating several topics continue with the rest.
var ErrNotFound = errors.New("topic not found")

// InputError reports invalid field values in an update. Interactive callers
// re-prompt; programmatic callers fail the operation.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Input carries the new field values for one update. Indicator statuses are
// a partial map: indicators absent from it keep their prior status.
type Input struct {
	Probability   int
	Confidence    schema.Confidence
	Drivers       []string
	Uncertainties []string
	Indicators    map[string]schema.IndicatorStatus
	Notes         string
}

// Result describes a completed update.
type Result struct {
	Key        string
	Assessment schema.Assessment
	Entry      schema.HistoryEntry
	First      bool // no prior assessment existed
}

// Tracker applies updates against a store.
type Tracker struct {
	store *store.Store
	cfg   config.Config
	now   func() time.Time
}

// New returns a tracker over the given store.
func New(s *store.Store, cfg config.Config) *Tracker {
	return &Tracker{store: s, cfg: cfg, now: time.Now}
}

// SetClock overrides the time source. Tests use a fixed clock.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// Validate checks an input without applying it.
func Validate(in Input) error {
	if in.Probability < 1 || in.Probability > 100 {
		return &InputError{Field: "probability", Msg: fmt.Sprintf("must be between 1 and 100, got %d", in.Probability)}
	}
	if in.Confidence == "" {
		in.Confidence = schema.ConfidenceMedium
	}
	if !schema.IsValidConfidence(in.Confidence) {
		return &InputError{Field: "confidence", Msg: fmt.Sprintf("must be Low, Medium, or High, got %q", in.Confidence)}
	}
	if len(in.Drivers) > 3 {
		return &InputError{Field: "drivers", Msg: fmt.Sprintf("at most 3, got %d", len(in.Drivers))}
	}
	if len(in.Uncertainties) > 3 {
		return &InputError{Field: "uncertainties", Msg: fmt.Sprintf("at most 3, got %d", len(in.Uncertainties))}
	}
	for name, status := range in.Indicators {
		if !schema.IsValidIndicatorStatus(status) {
			return &InputError{Field: "indicator", Msg: fmt.Sprintf("%s: must be Stable, Watch, Critical, or Unknown, got %q", name, status)}
		}
	}
	return nil
}

// Update performs one full read-modify-write pass: it validates the input,
// computes the delta against the prior assessment, overwrites the current
// record, appends one history entry, and advances the next-review date.
func (t *Tracker) Update(key string, in Input) (*Result, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	if in.Confidence == "" {
		in.Confidence = schema.ConfidenceMedium
	}

	d, err := t.store.Load()
	if err != nil {
		return nil, err
	}

	topic, ok := d.Topic(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrNotFound, key, strings.Join(d.SortedKeys(), ", "))
	}
	for name := range in.Indicators {
		if !containsString(topic.KeyIndicators, name) {
			return nil, &InputError{Field: "indicator", Msg: fmt.Sprintf("%q is not tracked by topic %q", name, key)}
		}
	}

	prev, ok := d.Assessments[key]
	if !ok {
		prev = store.NewAssessment(topic)
	}

	now := t.now()
	today := schema.FormatDate(now)
	descriptor := schema.DescriptorFor(in.Probability)

	var change *int
	first := !prev.Assessed()
	if !first {
		delta := in.Probability - *prev.CurrentProbability
		change = &delta
	}

	// Indicators not updated this round keep their prior status; indicators
	// new to the topic default to Unknown.
	status := make(map[string]schema.IndicatorStatus, len(topic.KeyIndicators))
	for _, ind := range topic.KeyIndicators {
		switch {
		case in.Indicators[ind] != "":
			status[ind] = in.Indicators[ind]
		case prev.IndicatorStatus[ind] != "":
			status[ind] = prev.IndicatorStatus[ind]
		default:
			status[ind] = schema.IndicatorUnknown
		}
	}

	probability := in.Probability
	next := schema.FormatDate(now.AddDate(0, 0, CadenceDays(topic.Horizon, t.cfg.ReviewCadenceDays)))

	entry := schema.HistoryEntry{
		ID:            uuid.NewString(),
		Date:          today,
		Probability:   probability,
		Descriptor:    descriptor,
		Confidence:    in.Confidence,
		Change:        change,
		Drivers:       in.Drivers,
		Uncertainties: in.Uncertainties,
		Notes:         in.Notes,
	}
	d.History[key] = append(d.History[key], entry)

	updated := schema.Assessment{
		Title:              topic.Title,
		Question:           topic.Question,
		Horizon:            topic.Horizon,
		CurrentProbability: &probability,
		CurrentDescriptor:  descriptor,
		Confidence:         in.Confidence,
		KeyDrivers:         in.Drivers,
		KeyUncertainties:   in.Uncertainties,
		IndicatorStatus:    status,
		LastUpdated:        today,
		NextReview:         next,
		Notes:              in.Notes,
	}
	d.Assessments[key] = updated

	if err := t.store.Save(d); err != nil {
		return nil, err
	}

	return &Result{Key: key, Assessment: updated, Entry: entry, First: first}, nil
}

// CadenceDays returns the review cadence for a horizon: weekly for 3-month
// questions, bi-weekly for longer ones, and the configured default when the
// horizon names neither.
func CadenceDays(horizon string, defaultDays int) int {
	switch {
	case strings.Contains(horizon, "3 months"):
		return 7
	case strings.Contains(horizon, "months") || strings.Contains(horizon, "year"):
		return 14
	default:
		return defaultDays
	}
}

// Due returns the topic keys due for review: next-review on or before today,
// or never assessed. Keys are returned in lexical order. The YYYY-MM-DD
// layout makes the date comparison a plain string compare.
func Due(d *store.Data, now time.Time) []string {
	today := schema.FormatDate(now)
	var due []string
	for _, key := range d.SortedKeys() {
		a, ok := d.Assessments[key]
		if !ok || !a.Assessed() || a.NextReview == "" || a.NextReview <= today {
			due = append(due, key)
		}
	}
	return due
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
