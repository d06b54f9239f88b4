package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/staticnoiselog/ciplugin/src/output"
)

var opts = sessionOptions{Properties: propertyFlag{}}

// sess is built before every command except version.
var sess *session

var rootCmd = &cobra.Command{
	Use:   "ciplugin",
	Short: "CI configuration and Docker image tasks",
	Long: `ciplugin resolves the CI configuration of a project from properties and the
project file, and runs the Docker image tasks built on it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		sess, err = newSession(opts, os.Environ(), os.Stdout, os.Stderr, output.UseColor())
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "project file (default: .ciplugin.yml in the project directory)")
	flags.StringVar(&opts.ProjectDir, "project-dir", ".", "project directory")
	flags.VarP(opts.Properties, "property", "P", "set a project property (repeatable)")
	flags.StringArrayVar(&opts.PropertiesFiles, "properties-file", nil, "additional properties file (repeatable, later files win)")
	flags.BoolVar(&opts.Debug, "debug", false, "debug logging, shows passwords in show-config")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "log docker commands without executing them")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
