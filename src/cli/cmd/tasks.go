package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/staticnoiselog/ciplugin/src/pipeline"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the available tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeTaskList(cmd.OutOrStdout(), sess.graph.Tasks())
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}

// writeTaskList prints tasks under a heading per group.
func writeTaskList(w io.Writer, tasks []*pipeline.Task) error {
	group := ""
	for i, t := range tasks {
		if i == 0 || t.Group != group {
			group = t.Group
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s tasks\n", group)
		}
		line := t.Name
		if t.Description != "" {
			line += " - " + t.Description
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
