// Package validate checks persisted records at the load boundary. A record
// that fails validation fails the whole load: a corrupt-but-present data file
// is surfaced to the user rather than silently dropped or partially typed.
package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dshills/riskwatch/internal/schema"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Topics validates every record in a topic collection.
func Topics(topics map[string]schema.Topic) error {
	for key, topic := range topics {
		if key == "" {
			return fmt.Errorf("topic with empty key")
		}
		if err := v.Struct(topic); err != nil {
			return fmt.Errorf("topic %q: %w", key, err)
		}
	}
	return nil
}

// Assessments validates every record in an assessment collection.
// Assessed records must carry a descriptor matching their probability band,
// a valid confidence level, and parseable dates.
func Assessments(assessments map[string]schema.Assessment) error {
	for key, a := range assessments {
		if err := assessment(a); err != nil {
			return fmt.Errorf("assessment %q: %w", key, err)
		}
	}
	return nil
}

func assessment(a schema.Assessment) error {
	if err := v.Struct(a); err != nil {
		return err
	}

	for name, status := range a.IndicatorStatus {
		if !schema.IsValidIndicatorStatus(status) {
			return fmt.Errorf("indicator %q: invalid status %q", name, status)
		}
	}

	if !a.Assessed() {
		return nil
	}

	if !schema.IsValidConfidence(a.Confidence) {
		return fmt.Errorf("invalid confidence %q", a.Confidence)
	}
	if want := schema.DescriptorFor(*a.CurrentProbability); a.CurrentDescriptor != want {
		return fmt.Errorf("descriptor %q does not match probability %d (want %q)",
			a.CurrentDescriptor, *a.CurrentProbability, want)
	}
	if _, err := schema.ParseDate(a.LastUpdated); err != nil {
		return fmt.Errorf("last_updated: %w", err)
	}
	if _, err := schema.ParseDate(a.NextReview); err != nil {
		return fmt.Errorf("next_review: %w", err)
	}
	return nil
}

// History validates every entry list in a history collection. Entries must
// be internally consistent: each entry's change must equal its probability
// minus the preceding entry's probability, and the first entry must have no
// change.
func History(history map[string][]schema.HistoryEntry) error {
	for key, entries := range history {
		for i, e := range entries {
			if err := entry(e, i, entries); err != nil {
				return fmt.Errorf("history %q entry %d: %w", key, i, err)
			}
		}
	}
	return nil
}

func entry(e schema.HistoryEntry, i int, entries []schema.HistoryEntry) error {
	if err := v.Struct(e); err != nil {
		return err
	}
	if !schema.IsValidConfidence(e.Confidence) {
		return fmt.Errorf("invalid confidence %q", e.Confidence)
	}
	if _, err := schema.ParseDate(e.Date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if want := schema.DescriptorFor(e.Probability); e.Descriptor != want {
		return fmt.Errorf("descriptor %q does not match probability %d (want %q)",
			e.Descriptor, e.Probability, want)
	}
	if i == 0 {
		if e.Change != nil {
			return fmt.Errorf("first entry has change %+d, want null", *e.Change)
		}
		return nil
	}
	if e.Change == nil {
		return fmt.Errorf("missing change (previous probability %d)", entries[i-1].Probability)
	}
	if want := e.Probability - entries[i-1].Probability; *e.Change != want {
		return fmt.Errorf("change %+d inconsistent with probabilities (want %+d)", *e.Change, want)
	}
	return nil
}
