package cmd

import (
	"github.com/spf13/cobra"

	"github.com/staticnoiselog/ciplugin/src/docker"
)

var dockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Docker image tasks",
	Long:  "Prepare the build context, build, push and remove the project image.",
}

func init() {
	for _, sub := range []struct{ use, task string }{
		{"prepare", docker.PrepareContextTask},
		{"build", docker.BuildImageTask},
		{"push", docker.PushImageTask},
		{"remove", docker.RemoveImageTask},
	} {
		task := sub.task
		dockerCmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: "Run " + task + " and its dependencies",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTasks(cmd.Context(), cmd.OutOrStdout(), []string{task}, nil, "")
			},
		})
	}
	rootCmd.AddCommand(dockerCmd)
}
