package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/riskwatch/internal/schema"
)

// run executes the CLI against a data directory and returns combined output.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append(args, "--data-dir", dataDir))
	err := root.Execute()
	return buf.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *exitErr
	if !errors.As(err, &ee) {
		t.Fatalf("expected an exit-coded error, got %v", err)
	}
	return ee.code
}

func TestViewSeedsDefaultCatalog(t *testing.T) {
	out, err := run(t, t.TempDir(), "view")
	if err != nil {
		t.Fatalf("view: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Taiwan Invasion") {
		t.Errorf("first run should list the default catalog:\n%s", out)
	}
	if !strings.Contains(out, "Not yet assessed") {
		t.Errorf("fresh topics should show as unassessed:\n%s", out)
	}
}

func TestScriptedUpdateThenHistory(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "update", "taiwan_invasion",
		"--probability", "15",
		"--confidence", "Medium",
		"--drivers", "PLA exercises, export controls",
		"--notes", "watching the strait")
	if err != nil {
		t.Fatalf("update: %v\n%s", err, out)
	}
	if !strings.Contains(out, "15% (Unlikely)") {
		t.Errorf("update confirmation missing probability:\n%s", out)
	}
	if !strings.Contains(out, "first update") {
		t.Errorf("first update should be labeled as such:\n%s", out)
	}

	out, err = run(t, dir, "update", "taiwan_invasion", "--probability", "25")
	if err != nil {
		t.Fatalf("second update: %v\n%s", err, out)
	}
	if !strings.Contains(out, "+10%") {
		t.Errorf("second update should show the delta:\n%s", out)
	}

	out, err = run(t, dir, "history", "taiwan_invasion")
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if !strings.Contains(out, "#1") || !strings.Contains(out, "#2") {
		t.Errorf("history should list both entries:\n%s", out)
	}
	if !strings.Contains(out, "watching the strait") {
		t.Errorf("history should include notes:\n%s", out)
	}
}

func TestUpdateUnknownTopicExitsCode2(t *testing.T) {
	_, err := run(t, t.TempDir(), "update", "no_such_topic", "--probability", "50")
	if code := exitCode(t, err); code != exitNotFound {
		t.Fatalf("exit code = %d, want %d", code, exitNotFound)
	}
}

func TestUpdateInvalidProbabilityExitsCode3(t *testing.T) {
	_, err := run(t, t.TempDir(), "update", "taiwan_invasion", "--probability", "250")
	if code := exitCode(t, err); code != exitInput {
		t.Fatalf("exit code = %d, want %d", code, exitInput)
	}
}

func TestUpdateUnknownIndicatorExitsCode3(t *testing.T) {
	_, err := run(t, t.TempDir(), "update", "taiwan_invasion",
		"--probability", "20",
		"--indicator", "Bogus indicator=Watch")
	if code := exitCode(t, err); code != exitInput {
		t.Fatalf("exit code = %d, want %d", code, exitInput)
	}
}

func TestDemoThenStatusAndReport(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "demo")
	if err != nil {
		t.Fatalf("demo: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Seeded demo data for 3 topics") {
		t.Errorf("demo summary missing:\n%s", out)
	}

	// A second demo run must refuse rather than overwrite.
	_, err = run(t, dir, "demo")
	if code := exitCode(t, err); code != exitInput {
		t.Fatalf("second demo exit code = %d, want %d", code, exitInput)
	}

	out, err = run(t, dir, "status")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	// The three unseeded catalog topics have never been assessed.
	if !strings.Contains(out, "Venezuela Civil War") {
		t.Errorf("status should list never-assessed topics:\n%s", out)
	}

	out, err = run(t, dir, "report")
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Iranian Government Collapse") {
		t.Errorf("report should cover seeded topics:\n%s", out)
	}
}

func TestExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "demo"); err != nil {
		t.Fatalf("demo: %v", err)
	}

	outFile := dir + "/export.csv"
	out, err := run(t, dir, "export", "--format", "csv", "--out", outFile)
	if err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}
	if !strings.Contains(out, outFile) {
		t.Errorf("export should report the output path:\n%s", out)
	}
}

func TestExportUnknownFormatExitsCode3(t *testing.T) {
	_, err := run(t, t.TempDir(), "export", "--format", "xml")
	if code := exitCode(t, err); code != exitInput {
		t.Fatalf("exit code = %d, want %d", code, exitInput)
	}
}

func TestAddEditListTopics(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "add-topic", "rate_cut",
		"--title", "Rate Cut",
		"--question", "Will the central bank cut rates this quarter?",
		"--horizon", "3 months",
		"--indicators", "Inflation print, Labor market")
	if err != nil {
		t.Fatalf("add-topic: %v\n%s", err, out)
	}

	// Duplicate keys are rejected.
	_, err = run(t, dir, "add-topic", "rate_cut", "--title", "Again", "--question", "q?")
	if code := exitCode(t, err); code != exitInput {
		t.Fatalf("duplicate add exit code = %d, want %d", code, exitInput)
	}

	out, err = run(t, dir, "edit-topic", "rate_cut", "--title", "Q3 Rate Cut")
	if err != nil {
		t.Fatalf("edit-topic: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Q3 Rate Cut") {
		t.Errorf("edit confirmation missing new title:\n%s", out)
	}

	out, err = run(t, dir, "list-topics")
	if err != nil {
		t.Fatalf("list-topics: %v\n%s", err, out)
	}
	if !strings.Contains(out, "rate_cut") || !strings.Contains(out, "Q3 Rate Cut") {
		t.Errorf("list should show the edited topic:\n%s", out)
	}
}

func TestRemoveTopicRequiresToken(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "view"); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	out, err := run(t, dir, "remove-topic", "taiwan_invasion", "--confirm", "yes")
	if err != nil {
		t.Fatalf("remove with wrong token should not error: %v", err)
	}
	if !strings.Contains(out, "Removal cancelled") {
		t.Errorf("wrong token should cancel:\n%s", out)
	}

	out, err = run(t, dir, "remove-topic", "taiwan_invasion", "--confirm", "DELETE")
	if err != nil {
		t.Fatalf("confirmed remove: %v\n%s", err, out)
	}

	out, err = run(t, dir, "list-topics")
	if err != nil {
		t.Fatalf("list-topics: %v", err)
	}
	if strings.Contains(out, "taiwan_invasion") {
		t.Errorf("removed topic still listed:\n%s", out)
	}
}

func TestRemoveUnknownTopicExitsCode2(t *testing.T) {
	_, err := run(t, t.TempDir(), "remove-topic", "ghost", "--confirm", "DELETE")
	if code := exitCode(t, err); code != exitNotFound {
		t.Fatalf("exit code = %d, want %d", code, exitNotFound)
	}
}

func TestVisualizeAfterDemo(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "demo"); err != nil {
		t.Fatalf("demo: %v", err)
	}

	out, err := run(t, dir, "visualize", "--out-dir", dir+"/charts")
	if err != nil {
		t.Fatalf("visualize: %v\n%s", err, out)
	}
	for _, want := range []string{"iranian_collapse_timeline.png", "current_snapshot.png", "all_topics_comparison.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("visualize output missing %q:\n%s", want, out)
		}
	}
}

func TestNotifyDryRun(t *testing.T) {
	dir := t.TempDir()
	// The fresh catalog has six never-assessed topics, all needing attention.
	if _, err := run(t, dir, "view"); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	out, err := run(t, dir, "notify", "--dry-run")
	if err != nil {
		t.Fatalf("notify --dry-run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Subject: Weekly Assessment Reminder") {
		t.Errorf("dry run should print the subject:\n%s", out)
	}
	if !strings.Contains(out, "6 assessment(s) needing attention") {
		t.Errorf("dry run body should count the catalog:\n%s", out)
	}
}

func TestNotifyEmailConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "view"); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	_, err := run(t, dir, "notify", "--email-config", filepath.Join(dir, "missing.json"))
	if got := exitCode(t, err); got != exitInput {
		t.Errorf("missing email config: exit code = %d, want %d", got, exitInput)
	}

	bad := filepath.Join(dir, "email.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = run(t, dir, "notify", "--email-config", bad)
	if got := exitCode(t, err); got != exitInput {
		t.Errorf("malformed email config: exit code = %d, want %d", got, exitInput)
	}
}

func TestInputFromFlags(t *testing.T) {
	in, err := inputFromFlags(updateFlags{
		probability:   40,
		confidence:    "High",
		drivers:       "a, b",
		uncertainties: "c",
		indicators:    []string{"Reserve margin=Critical", "Plant retirements = Stable"},
		notes:         "n",
	})
	if err != nil {
		t.Fatalf("inputFromFlags: %v", err)
	}
	if in.Probability != 40 || in.Confidence != schema.ConfidenceHigh {
		t.Errorf("scalar fields wrong: %+v", in)
	}
	if len(in.Drivers) != 2 || len(in.Uncertainties) != 1 {
		t.Errorf("list fields wrong: %+v", in)
	}
	if in.Indicators["Reserve margin"] != schema.IndicatorCritical {
		t.Errorf("indicator parse wrong: %v", in.Indicators)
	}
	if in.Indicators["Plant retirements"] != schema.IndicatorStable {
		t.Errorf("indicator whitespace not trimmed: %v", in.Indicators)
	}
}

func TestInputFromFlagsBadIndicator(t *testing.T) {
	_, err := inputFromFlags(updateFlags{probability: 40, indicators: []string{"no-equals-sign"}})
	if err == nil {
		t.Fatal("expected error for malformed --indicator")
	}
}
