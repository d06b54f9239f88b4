package cmd

import (
	"github.com/spf13/cobra"
)

var showConfigSources bool

var showConfigCmd = &cobra.Command{
	Use:     "show-config",
	Aliases: []string{ShowConfigTask},
	Short:   "Display the resolved CI configuration",
	Long: `Display the effective value of every configuration key.

Passwords are masked unless --debug is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess.out = cmd.OutOrStdout()
		return sess.showConfig(showConfigSources)
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&showConfigSources, "sources", false, "show where each value comes from")
	rootCmd.AddCommand(showConfigCmd)
}
