package registry

import (
	"errors"
	"testing"

	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
)

func newRegistry(t *testing.T) (*Registry, *store.Store) {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(s), s
}

func TestAdd(t *testing.T) {
	r, s := newRegistry(t)
	topic := schema.Topic{
		Title:         "Regional Port Blockade",
		Question:      "Will a major shipping lane be blockaded in the next 3 months?",
		Horizon:       "3 months",
		KeyIndicators: []string{"Naval deployments", "Insurance rates"},
	}
	if err := r.Add("port_blockade", topic); err != nil {
		t.Fatalf("Add: %v", err)
	}

	d, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Topics["port_blockade"]; !ok {
		t.Fatal("topic not persisted")
	}
	a := d.Assessments["port_blockade"]
	if a.Assessed() {
		t.Error("new topic marked assessed")
	}
	if a.IndicatorStatus["Naval deployments"] != schema.IndicatorUnknown {
		t.Error("new topic indicators not Unknown")
	}
	if entries := d.History["port_blockade"]; entries == nil || len(entries) != 0 {
		t.Errorf("history = %v, want empty list", entries)
	}
}

func TestAddExistingKeyFails(t *testing.T) {
	r, _ := newRegistry(t)
	err := r.Add("taiwan_invasion", schema.Topic{Title: "T", Question: "Q"})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("err = %v, want ErrExists", err)
	}
}

func TestAddRequiresTitleAndQuestion(t *testing.T) {
	r, _ := newRegistry(t)
	if err := r.Add("x", schema.Topic{Question: "Q"}); err == nil {
		t.Error("missing title accepted")
	}
	if err := r.Add("x", schema.Topic{Title: "T"}); err == nil {
		t.Error("missing question accepted")
	}
}

func TestUpdatePartial(t *testing.T) {
	r, s := newRegistry(t)
	got, err := r.Update("taiwan_invasion", Edit{Title: "Taiwan Strait Conflict"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Taiwan Strait Conflict" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Question == "" || got.Horizon != "6 months" {
		t.Error("untouched fields were cleared")
	}

	d, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if d.Assessments["taiwan_invasion"].Title != "Taiwan Strait Conflict" {
		t.Error("assessment title not kept in sync")
	}
}

func TestUpdateUnknownKeyFails(t *testing.T) {
	r, _ := newRegistry(t)
	if _, err := r.Update("nope", Edit{Title: "X"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateRebuildsIndicatorStatuses(t *testing.T) {
	r, s := newRegistry(t)

	// Give one indicator a non-default status first.
	d, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	a := d.Assessments["taiwan_invasion"]
	a.IndicatorStatus["PLA readiness signals"] = schema.IndicatorCritical
	d.Assessments["taiwan_invasion"] = a
	if err := s.Save(d); err != nil {
		t.Fatal(err)
	}

	_, err = r.Update("taiwan_invasion", Edit{
		Indicators:        []string{"PLA readiness signals", "Cross-strait flight activity"},
		ReplaceIndicators: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	d, err = s.Load()
	if err != nil {
		t.Fatal(err)
	}
	status := d.Assessments["taiwan_invasion"].IndicatorStatus
	if len(status) != 2 {
		t.Fatalf("status map = %v, want exactly the new indicators", status)
	}
	if status["PLA readiness signals"] != schema.IndicatorCritical {
		t.Error("surviving indicator lost its status")
	}
	if status["Cross-strait flight activity"] != schema.IndicatorUnknown {
		t.Error("new indicator not Unknown")
	}
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	r, s := newRegistry(t)

	for _, confirm := range []string{"", "delete", "yes", "DELETE "} {
		if err := r.Remove("taiwan_invasion", confirm); !errors.Is(err, ErrNotConfirmed) {
			t.Fatalf("Remove(%q) err = %v, want ErrNotConfirmed", confirm, err)
		}
	}

	d, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Topics["taiwan_invasion"]; !ok {
		t.Fatal("unconfirmed removal changed the registry")
	}

	if err := r.Remove("taiwan_invasion", ConfirmToken); err != nil {
		t.Fatalf("confirmed Remove: %v", err)
	}
	d, err = s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Topics["taiwan_invasion"]; ok {
		t.Fatal("confirmed removal left the topic behind")
	}
}

func TestRemoveUnknownKey(t *testing.T) {
	r, _ := newRegistry(t)
	if err := r.Remove("nope", ConfirmToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
