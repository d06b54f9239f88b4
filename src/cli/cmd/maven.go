package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/staticnoiselog/ciplugin/src/maven"
)

var mavenSettingsOut string

var mavenCmd = &cobra.Command{
	Use:   "maven",
	Short: "Maven repository commands",
}

var mavenSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Write a Maven settings.xml for the configured repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := maven.NewSettings(sess.resolver)
		if err != nil {
			return err
		}
		if mavenSettingsOut == "" {
			return settings.Write(cmd.OutOrStdout())
		}

		f, err := os.OpenFile(mavenSettingsOut, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("creating %s: %w", mavenSettingsOut, err)
		}
		if err := settings.Write(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		sess.log.Info().Str("path", mavenSettingsOut).Msg("maven settings written")
		return nil
	},
}

func init() {
	mavenSettingsCmd.Flags().StringVarP(&mavenSettingsOut, "output", "o", "", "output file (default: stdout)")
	mavenCmd.AddCommand(mavenSettingsCmd)
	rootCmd.AddCommand(mavenCmd)
}
