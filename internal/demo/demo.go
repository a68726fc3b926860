// Package demo seeds the data directory with realistic sample assessments so
// the tracker can be explored without entering data by hand. Dates are
// generated relative to the current day so the status partitions stay
// meaningful.
package demo

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
	"github.com/dshills/riskwatch/internal/tracker"
)

// ErrDataExists reports that the data directory already holds assessment
// history; seeding would clobber real work.
var ErrDataExists = errors.New("assessment history already exists")

type seedEntry struct {
	daysAgo       int
	probability   int
	confidence    schema.Confidence
	change        *int
	drivers       []string
	uncertainties []string
	notes         string
}

type seedTopic struct {
	entries    []seedEntry
	indicators map[string]schema.IndicatorStatus
}

func intPtr(v int) *int { return &v }

var seeds = map[string]seedTopic{
	"iranian_collapse": {
		entries: []seedEntry{
			{
				daysAgo: 21, probability: 12, confidence: schema.ConfidenceMedium,
				drivers:       []string{"Economic sanctions impact intensifying", "Limited elite defection signals"},
				uncertainties: []string{"Supreme Leader health status unknown", "IRGC internal cohesion unclear"},
				notes:         "Initial assessment based on current economic pressure",
			},
			{
				daysAgo: 14, probability: 15, confidence: schema.ConfidenceMedium, change: intPtr(3),
				drivers:       []string{"New EU sanctions package announced", "Reports of elite discontent emerging", "Protest activity increasing in major cities"},
				uncertainties: []string{"IRGC loyalty threshold unknown", "Regional support (Russia/China) sustainability"},
				notes:         "Slight uptick due to new sanctions and protest indicators",
			},
			{
				daysAgo: 7, probability: 18, confidence: schema.ConfidenceMedium, change: intPtr(3),
				drivers:       []string{"Currency collapse accelerating", "Elite defection reports confirmed", "Protest movement showing organization"},
				uncertainties: []string{"Military willingness to use force", "International response to crackdown"},
				notes:         "Economic deterioration faster than expected",
			},
			{
				daysAgo: 0, probability: 20, confidence: schema.ConfidenceMedium, change: intPtr(2),
				drivers:       []string{"Major currency devaluation (30%)", "Senior IRGC commander defected", "Regional isolation deepening"},
				uncertainties: []string{"Popular uprising threshold", "External intervention likelihood"},
				notes:         "Trend continuing upward, watching for inflection point",
			},
		},
		indicators: map[string]schema.IndicatorStatus{
			"Supreme Leader health/succession signals":           schema.IndicatorWatch,
			"IRGC elite cohesion":                                schema.IndicatorWatch,
			"Protest frequency and size":                         schema.IndicatorWatch,
			"Economic conditions (sanctions impact, inflation)":  schema.IndicatorCritical,
			"Regional isolation vs support":                      schema.IndicatorStable,
		},
	},
	"ukraine_agreement": {
		entries: []seedEntry{
			{
				daysAgo: 21, probability: 25, confidence: schema.ConfidenceLow,
				drivers:       []string{"Both sides showing war fatigue", "Western support questions emerging"},
				uncertainties: []string{"US administration policy direction", "Russian territorial demands", "Ukrainian domestic politics"},
				notes:         "Initial baseline - highly uncertain situation",
			},
			{
				daysAgo: 14, probability: 22, confidence: schema.ConfidenceLow, change: intPtr(-3),
				drivers:       []string{"Ukrainian counteroffensive stalling", "Russian defensive lines holding"},
				uncertainties: []string{"Winter offensive potential", "Western ammunition supply"},
				notes:         "Battlefield stalemate reduces negotiation pressure",
			},
			{
				daysAgo: 0, probability: 20, confidence: schema.ConfidenceMedium, change: intPtr(-2),
				drivers:       []string{"Territorial concessions rejected", "US signals continued support", "Russian domestic stability maintained"},
				uncertainties: []string{"European resolve through winter", "Election impacts (US, Russia)"},
				notes:         "Both sides appear committed to military solution for now",
			},
		},
		indicators: map[string]schema.IndicatorStatus{
			"Battlefield momentum":                        schema.IndicatorStable,
			"Western military/financial support":          schema.IndicatorStable,
			"Russian domestic politics":                   schema.IndicatorStable,
			"Ukrainian position (maximalist vs realist)":  schema.IndicatorCritical,
			"Third-party mediation efforts":               schema.IndicatorWatch,
		},
	},
	"taiwan_invasion": {
		entries: []seedEntry{
			{
				daysAgo: 28, probability: 8, confidence: schema.ConfidenceMedium,
				drivers:       []string{"Economic costs prohibitive", "PLA readiness questionable"},
				uncertainties: []string{"Leadership decision-making under pressure", "US commitment credibility"},
				notes:         "Baseline assessment for 6-month horizon",
			},
			{
				daysAgo: 14, probability: 12, confidence: schema.ConfidenceMedium, change: intPtr(4),
				drivers:       []string{"PLA exercises intensifying around Taiwan", "Nationalist rhetoric increasing in state media", "US political dysfunction raising questions"},
				uncertainties: []string{"Taiwan election results impact", "US carrier group deployment"},
				notes:         "Concerning signals from PLA activities",
			},
			{
				daysAgo: 0, probability: 15, confidence: schema.ConfidenceMedium, change: intPtr(3),
				drivers:       []string{"Record PLA incursions into ADIZ", "CCP plenum emphasized reunification timeline", "Semiconductor export controls tightening"},
				uncertainties: []string{"Winter weather window closing", "US Taiwan policy direction"},
				notes:         "Trend line concerning but still unlikely in 6-month window",
			},
		},
		indicators: map[string]schema.IndicatorStatus{
			"PLA readiness signals":      schema.IndicatorCritical,
			"US commitment credibility":  schema.IndicatorWatch,
			"CCP internal politics":      schema.IndicatorWatch,
			"Taiwan domestic politics":   schema.IndicatorStable,
			"Economic costs assessment":  schema.IndicatorStable,
		},
	},
}

// Seed populates the store with the sample history and derived current
// assessments. Three topics get full histories; the rest of the default
// catalog stays unassessed. Returns the keys that received data.
func Seed(st *store.Store, now time.Time) ([]string, error) {
	d, err := st.Load()
	if err != nil {
		return nil, err
	}
	for _, entries := range d.History {
		if len(entries) > 0 {
			return nil, ErrDataExists
		}
	}

	var seeded []string
	for key, seed := range seeds {
		topic, ok := d.Topics[key]
		if !ok {
			continue
		}

		entries := make([]schema.HistoryEntry, len(seed.entries))
		for i, e := range seed.entries {
			entries[i] = schema.HistoryEntry{
				ID:            uuid.NewString(),
				Date:          schema.FormatDate(now.AddDate(0, 0, -e.daysAgo)),
				Probability:   e.probability,
				Descriptor:    schema.DescriptorFor(e.probability),
				Confidence:    e.confidence,
				Change:        e.change,
				Drivers:       e.drivers,
				Uncertainties: e.uncertainties,
				Notes:         e.notes,
			}
		}
		d.History[key] = entries

		latest := entries[len(entries)-1]
		cadence := tracker.CadenceDays(topic.Horizon, 7)
		d.Assessments[key] = schema.Assessment{
			Title:              topic.Title,
			Question:           topic.Question,
			Horizon:            topic.Horizon,
			CurrentProbability: intPtr(latest.Probability),
			CurrentDescriptor:  latest.Descriptor,
			Confidence:         latest.Confidence,
			KeyDrivers:         latest.Drivers,
			KeyUncertainties:   latest.Uncertainties,
			IndicatorStatus:    seed.indicators,
			LastUpdated:        latest.Date,
			NextReview:         schema.FormatDate(now.AddDate(0, 0, cadence)),
			Notes:              latest.Notes,
		}
		seeded = append(seeded, key)
	}
	if len(seeded) == 0 {
		return nil, fmt.Errorf("no seedable topics in the registry")
	}

	if err := st.Save(d); err != nil {
		return nil, err
	}
	return seeded, nil
}
