package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/staticnoiselog/ciplugin/src/pipeline"
)

func TestTaskSummary(t *testing.T) {
	var buf bytes.Buffer
	TaskSummary(&buf, []pipeline.Outcome{
		{Task: "dockerPrepareContext", Status: "success", Duration: 12 * time.Millisecond},
		{Task: "dockerBuildImage", Status: "failed", Error: errors.New("exit status 1")},
		{Task: "dockerPushImage", Status: "skipped"},
	}, 2*time.Second, false)

	out := buf.String()
	for _, want := range []string{"── Summary", "dockerPrepareContext", "12ms", "✗  exit status 1", "⊘", "2.0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("uncolored summary contains escape codes:\n%s", out)
	}
}

func TestTaskJUnit(t *testing.T) {
	report := TaskJUnit("CI Plugin", []pipeline.Outcome{
		{Task: "a", Status: "success"},
		{Task: "b", Status: "failed", Error: errors.New("boom")},
		{Task: "c", Status: "skipped"},
	}, time.Second)

	if report.Tests != 3 || report.Failures != 1 || report.Skipped != 1 {
		t.Fatalf("totals = %d/%d/%d", report.Tests, report.Failures, report.Skipped)
	}
	cases := report.Suites[0].Cases
	if cases[0].Classname != "ciplugin.ci_plugin" {
		t.Errorf("classname = %q", cases[0].Classname)
	}
	if cases[1].Failure == nil || cases[1].Failure.Message != "boom" {
		t.Errorf("failure = %+v", cases[1].Failure)
	}
	if cases[2].Skipped == nil {
		t.Error("skipped case not marked")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := map[time.Duration]string{
		500 * time.Microsecond:  "<1ms",
		250 * time.Millisecond:  "250ms",
		1500 * time.Millisecond: "1.5s",
		90 * time.Second:        "1m30.0s",
	}
	for d, want := range tests {
		if got := formatElapsed(d); got != want {
			t.Errorf("formatElapsed(%v) = %q, want %q", d, got, want)
		}
	}
}
