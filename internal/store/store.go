// Package store persists the three JSON collections: topic definitions,
// current assessments, and the history log. Each collection is a single
// human-editable file, loaded fully into memory per invocation and rewritten
// fully on any mutation. Overlapping writers are not coordinated; the later
// write wins.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/schema/validate"
)

const (
	topicsFile      = "topics.json"
	assessmentsFile = "assessments.json"
	historyFile     = "history.json"
)

// ErrCorrupt wraps parse or validation failures from a present-but-unreadable
// data file. A missing file is not corrupt; it is recreated with defaults.
var ErrCorrupt = errors.New("corrupt data file")

// Data holds all three collections for one read-modify-write pass.
type Data struct {
	Topics      map[string]schema.Topic
	Assessments map[string]schema.Assessment
	History     map[string][]schema.HistoryEntry
}

// Topic returns the registry entry for key.
func (d *Data) Topic(key string) (schema.Topic, bool) {
	t, ok := d.Topics[key]
	return t, ok
}

// SortedKeys returns the topic keys in lexical order for deterministic output.
func (d *Data) SortedKeys() []string {
	keys := make([]string, 0, len(d.Topics))
	for k := range d.Topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Store reads and writes the collections under a single data directory.
type Store struct {
	dir string
}

// Open ensures the data directory exists and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

// Load reads all three collections. On first run the topic catalog is seeded
// with the default questions and written back; missing assessment and history
// files are initialized empty records per topic. A file that exists but fails
// to parse or validate aborts the load with ErrCorrupt.
func (s *Store) Load() (*Data, error) {
	d := &Data{}

	topics, found, err := loadFile[map[string]schema.Topic](s.path(topicsFile))
	if err != nil {
		return nil, err
	}
	if !found {
		topics = DefaultTopics()
		if err := writeFile(s.path(topicsFile), topics); err != nil {
			return nil, err
		}
	}
	if err := validate.Topics(topics); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorrupt, topicsFile, err)
	}
	d.Topics = topics

	assessments, found, err := loadFile[map[string]schema.Assessment](s.path(assessmentsFile))
	if err != nil {
		return nil, err
	}
	if !found {
		assessments = make(map[string]schema.Assessment, len(topics))
		for key, topic := range topics {
			assessments[key] = NewAssessment(topic)
		}
	}
	if err := validate.Assessments(assessments); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorrupt, assessmentsFile, err)
	}
	d.Assessments = assessments

	history, found, err := loadFile[map[string][]schema.HistoryEntry](s.path(historyFile))
	if err != nil {
		return nil, err
	}
	if !found {
		history = make(map[string][]schema.HistoryEntry, len(topics))
		for key := range topics {
			history[key] = []schema.HistoryEntry{}
		}
	}
	if err := validate.History(history); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorrupt, historyFile, err)
	}
	d.History = history

	return d, nil
}

// Save rewrites all three collections. Each file is written via a temp file
// and rename so a crash never leaves a half-written collection behind.
func (s *Store) Save(d *Data) error {
	if err := writeFile(s.path(topicsFile), d.Topics); err != nil {
		return err
	}
	if err := writeFile(s.path(assessmentsFile), d.Assessments); err != nil {
		return err
	}
	return writeFile(s.path(historyFile), d.History)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// loadFile reads and unmarshals one collection file. found is false when the
// file does not exist; a present file that fails to parse returns ErrCorrupt.
func loadFile[T any](path string) (value T, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("%w: %s: %s", ErrCorrupt, filepath.Base(path), err)
	}
	return value, true, nil
}

func writeFile(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

