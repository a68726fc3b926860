// Package prompt collects assessment and registry input through terminal
// forms. Every function returns huh.ErrUserAborted unchanged when the user
// cancels, so callers can exit quietly instead of reporting an error.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/dshills/riskwatch/internal/registry"
	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/tracker"
)

// Assessment walks the user through a full probability update for topic.
// prior is the existing assessment; its values seed the form defaults.
func Assessment(topic schema.Topic, prior schema.Assessment) (tracker.Input, error) {
	var in tracker.Input

	probStr := ""
	if prior.CurrentProbability != nil {
		probStr = strconv.Itoa(*prior.CurrentProbability)
	}
	confidence := string(schema.ConfidenceMedium)
	if prior.Confidence != "" {
		confidence = string(prior.Confidence)
	}
	drivers := strings.Join(prior.KeyDrivers, ", ")
	uncertainties := strings.Join(prior.KeyUncertainties, ", ")
	notes := ""

	fields := []huh.Field{
		huh.NewInput().
			Title("Probability (1-100)").
			Description(topic.Question).
			Value(&probStr).
			Validate(validateProbability),
		huh.NewSelect[string]().
			Title("Confidence").
			Options(
				huh.NewOption("Low", string(schema.ConfidenceLow)),
				huh.NewOption("Medium", string(schema.ConfidenceMedium)),
				huh.NewOption("High", string(schema.ConfidenceHigh)),
			).
			Value(&confidence),
		huh.NewInput().
			Title("Key drivers (comma-separated)").
			Value(&drivers),
		huh.NewInput().
			Title("Key uncertainties (comma-separated)").
			Value(&uncertainties),
	}

	statuses := make([]string, len(topic.KeyIndicators))
	for i, ind := range topic.KeyIndicators {
		statuses[i] = string(schema.IndicatorUnknown)
		if s, ok := prior.IndicatorStatus[ind]; ok {
			statuses[i] = string(s)
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Indicator: "+ind).
			Options(
				huh.NewOption("Stable", string(schema.IndicatorStable)),
				huh.NewOption("Watch", string(schema.IndicatorWatch)),
				huh.NewOption("Critical", string(schema.IndicatorCritical)),
				huh.NewOption("Unknown", string(schema.IndicatorUnknown)),
			).
			Value(&statuses[i]))
	}

	fields = append(fields, huh.NewText().
		Title("Analyst notes").
		Value(&notes))

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return tracker.Input{}, err
	}

	prob, err := strconv.Atoi(strings.TrimSpace(probStr))
	if err != nil {
		return tracker.Input{}, fmt.Errorf("parse probability: %w", err)
	}

	in.Probability = prob
	in.Confidence = schema.Confidence(confidence)
	in.Drivers = SplitList(drivers)
	in.Uncertainties = SplitList(uncertainties)
	in.Notes = strings.TrimSpace(notes)
	in.Indicators = make(map[string]schema.IndicatorStatus, len(topic.KeyIndicators))
	for i, ind := range topic.KeyIndicators {
		in.Indicators[ind] = schema.IndicatorStatus(statuses[i])
	}
	return in, nil
}

// NewTopic collects the fields needed to register a topic.
func NewTopic() (schema.Topic, error) {
	var title, question, horizon, indicators string
	horizon = "3 months"

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Title").Value(&title).Validate(required("title")),
		huh.NewInput().Title("Question (resolvable yes/no)").Value(&question).Validate(required("question")),
		huh.NewInput().Title("Horizon (e.g. 3 months, 12 months)").Value(&horizon),
		huh.NewInput().Title("Key indicators (comma-separated)").Value(&indicators),
	))
	if err := form.Run(); err != nil {
		return schema.Topic{}, err
	}

	return schema.Topic{
		Title:         strings.TrimSpace(title),
		Question:      strings.TrimSpace(question),
		Horizon:       strings.TrimSpace(horizon),
		KeyIndicators: SplitList(indicators),
	}, nil
}

// EditTopic collects a partial edit over an existing topic. Fields left at
// their seeded values are still applied; the registry treats the edit as a
// full replacement of title, question, and horizon.
func EditTopic(current schema.Topic) (registry.Edit, error) {
	title := current.Title
	question := current.Question
	horizon := current.Horizon
	indicators := strings.Join(current.KeyIndicators, ", ")
	replaceIndicators := false

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Title").Value(&title).Validate(required("title")),
		huh.NewInput().Title("Question").Value(&question).Validate(required("question")),
		huh.NewInput().Title("Horizon").Value(&horizon),
		huh.NewInput().Title("Key indicators (comma-separated)").Value(&indicators),
		huh.NewConfirm().
			Title("Apply indicator list?").
			Description("Statuses for removed indicators are discarded.").
			Value(&replaceIndicators),
	))
	if err := form.Run(); err != nil {
		return registry.Edit{}, err
	}

	return registry.Edit{
		Title:             strings.TrimSpace(title),
		Question:          strings.TrimSpace(question),
		Horizon:           strings.TrimSpace(horizon),
		Indicators:        SplitList(indicators),
		ReplaceIndicators: replaceIndicators,
	}, nil
}

// ConfirmRemoval asks for the removal token. The returned string is passed
// to the registry verbatim; typing anything other than the token aborts.
func ConfirmRemoval(topic schema.Topic, historyCount int) (string, error) {
	var token string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Remove %q and its %d history entries?", topic.Title, historyCount)).
			Description(fmt.Sprintf("Type %s to confirm.", registry.ConfirmToken)).
			Value(&token),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return token, nil
}

// SplitList parses a comma-separated field into trimmed, non-empty items.
func SplitList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func validateProbability(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 1 || n > 100 {
		return fmt.Errorf("probability must be between 1 and 100")
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
