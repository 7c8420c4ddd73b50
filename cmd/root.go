package cmd

import (
	"os"

	"funnel/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
)

// rootCmd represents the base command for the funnel application.
var rootCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Aggregate MCP tool providers into one callable function set",
	Long: `funnel connects to the MCP tool providers named in a configuration
file, discovers their tool catalogs, resolves name collisions across
providers, and exposes the result as a single set of callable functions.`,
	// SilenceUsage prevents cobra from printing usage on errors the
	// application already reports.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if flagVerbose {
			level = logging.LevelDebug
		}
		logging.Init(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command. It is called from
// the main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "funnel version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "funnel.yaml", "path to the provider configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newVersionCmd())
}
