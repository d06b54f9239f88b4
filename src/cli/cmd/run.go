package cmd

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/staticnoiselog/ciplugin/src/docker"
	"github.com/staticnoiselog/ciplugin/src/output"
)

var (
	runExclude  []string
	runJUnitDir string
)

var runCmd = &cobra.Command{
	Use:   "run <task>...",
	Short: "Run tasks and their dependencies",
	Long: `Run the named tasks. Dependencies run first and every task runs at most once.
Excluded tasks (-x) are skipped without pulling in their dependencies.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTasks(cmd.Context(), cmd.OutOrStdout(), args, runExclude, runJUnitDir)
	},
}

func init() {
	runCmd.Flags().StringArrayVarP(&runExclude, "exclude-task", "x", nil, "task to exclude (repeatable)")
	runCmd.Flags().StringVar(&runJUnitDir, "junit", "", "write a JUnit report of the task outcomes to this directory")
	rootCmd.AddCommand(runCmd)
}

// runTasks executes names through the task graph and prints the summary.
func runTasks(ctx context.Context, w io.Writer, names, exclude []string, junitDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	color := output.UseColor()
	sess.out = w

	output.CIHeader(w)
	output.SectionStart(w, "ciplugin_tasks", "Tasks")
	start := time.Now()
	outcomes, runErr := sess.graph.Run(ctx, names, exclude)
	elapsed := time.Since(start)
	output.SectionEnd(w, "ciplugin_tasks")

	if outcomes != nil {
		output.TaskSummary(w, outcomes, elapsed, color)
	}
	if junitDir != "" && outcomes != nil {
		if err := output.WriteTaskJUnit(junitDir, docker.TaskGroup, outcomes, elapsed); err != nil {
			sess.log.Warn().Err(err).Msg("writing junit report")
		}
	}
	return runErr
}
