// Package output renders task summaries and CI reports for the terminal.
package output

import (
	"io"
	"os"
	"time"

	"github.com/staticnoiselog/ciplugin/src/pipeline"
)

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// TaskSummary writes one row per task outcome and a total line.
func TaskSummary(w io.Writer, outcomes []pipeline.Outcome, elapsed time.Duration, color bool) {
	sec := NewSection(w, "Summary", 0, color)
	overall := "success"
	for _, o := range outcomes {
		detail := ""
		switch o.Status {
		case "success":
			detail = formatElapsed(o.Duration)
		case "failed":
			overall = "failed"
			if o.Error != nil {
				detail = o.Error.Error()
			}
		}
		SummaryRow(w, o.Task, o.Status, detail, color)
	}
	if len(outcomes) == 0 {
		sec.Row("no tasks ran")
	}
	sec.Separator()
	SummaryTotal(w, elapsed, overall, color)
	sec.Close()
}
