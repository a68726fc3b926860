// Package registry manages the set of trackable topics. Removal is the only
// destructive operation in the tool and requires the literal confirmation
// token; everything else either adds or reshapes records.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
)

// ConfirmToken must be supplied verbatim to remove a topic.
const ConfirmToken = "DELETE"

var (
	// ErrExists reports an add with a key already in the registry.
	ErrExists = errors.New("topic already exists")
	// ErrNotFound reports an edit or removal of an unknown key.
	ErrNotFound = errors.New("topic not found")
	// ErrNotConfirmed reports a removal without the confirmation token.
	// The registry is left unchanged.
	ErrNotConfirmed = errors.New("removal not confirmed")
)

// Edit carries partial topic fields; empty fields keep their current value.
// Indicators are replaced only when ReplaceIndicators is set, so an edit can
// distinguish "keep the list" from "clear the list".
type Edit struct {
	Title             string
	Question          string
	Horizon           string
	Indicators        []string
	ReplaceIndicators bool
}

// Registry performs topic CRUD against a store.
type Registry struct {
	store *store.Store
}

// New returns a registry over the given store.
func New(s *store.Store) *Registry {
	return &Registry{store: s}
}

// Add creates a topic plus its empty assessment and history records.
func (r *Registry) Add(key string, topic schema.Topic) error {
	if key == "" {
		return fmt.Errorf("topic key must not be empty")
	}
	if topic.Title == "" {
		return fmt.Errorf("topic title is required")
	}
	if topic.Question == "" {
		return fmt.Errorf("topic question is required")
	}
	if topic.Horizon == "" {
		topic.Horizon = "3 months"
	}

	d, err := r.store.Load()
	if err != nil {
		return err
	}
	if _, ok := d.Topics[key]; ok {
		return fmt.Errorf("%w: %q (use edit-topic to modify it)", ErrExists, key)
	}

	d.Topics[key] = topic
	d.Assessments[key] = store.NewAssessment(topic)
	d.History[key] = []schema.HistoryEntry{}

	return r.store.Save(d)
}

// Update applies a partial edit. When the indicator list is replaced, the
// assessment's status map is rebuilt over the new list: surviving names keep
// their status, new names start Unknown, removed names are dropped.
func (r *Registry) Update(key string, edit Edit) (schema.Topic, error) {
	d, err := r.store.Load()
	if err != nil {
		return schema.Topic{}, err
	}
	topic, ok := d.Topics[key]
	if !ok {
		return schema.Topic{}, fmt.Errorf("%w: %q (available: %s)", ErrNotFound, key, strings.Join(d.SortedKeys(), ", "))
	}

	if edit.Title != "" {
		topic.Title = edit.Title
	}
	if edit.Question != "" {
		topic.Question = edit.Question
	}
	if edit.Horizon != "" {
		topic.Horizon = edit.Horizon
	}
	if edit.ReplaceIndicators {
		topic.KeyIndicators = edit.Indicators
	}
	d.Topics[key] = topic

	if a, ok := d.Assessments[key]; ok {
		a.Title = topic.Title
		a.Question = topic.Question
		a.Horizon = topic.Horizon
		status := make(map[string]schema.IndicatorStatus, len(topic.KeyIndicators))
		for _, ind := range topic.KeyIndicators {
			if prev, ok := a.IndicatorStatus[ind]; ok {
				status[ind] = prev
			} else {
				status[ind] = schema.IndicatorUnknown
			}
		}
		a.IndicatorStatus = status
		d.Assessments[key] = a
	}

	if err := r.store.Save(d); err != nil {
		return schema.Topic{}, err
	}
	return topic, nil
}

// Remove deletes a topic and its assessment and history records. The caller
// must pass the confirmation token exactly; anything else leaves all three
// collections untouched.
func (r *Registry) Remove(key, confirm string) error {
	d, err := r.store.Load()
	if err != nil {
		return err
	}
	if _, ok := d.Topics[key]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if confirm != ConfirmToken {
		return fmt.Errorf("%w: type %q to confirm", ErrNotConfirmed, ConfirmToken)
	}

	delete(d.Topics, key)
	delete(d.Assessments, key)
	delete(d.History, key)

	return r.store.Save(d)
}
