package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is stamped into reports. Overridden at build time with -ldflags.
var Version = "dev"

var (
	rootPath     string
	configFile   string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	language     string
)

// exitFunc, stdout and stderr are swapped out by tests.
var (
	exitFunc           = os.Exit
	stdout   io.Writer = os.Stdout
	stderr   io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "egralens",
	Short: "EGRA/EGMA assessment interpretation",
	Long: `egralens interprets Early Grade Reading (EGRA) and Early Grade Mathematics
(EGMA) assessment results.

Each score is classified against a threshold table into mastery, developing
or emerging, explained with a classroom message and aggregated into an
overall reading and mathematics level. A text-generation backend can add a
narrative interpretation; when it is unavailable the rule-based
interpretation is still reported.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", "", "Dataset root directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: .egralensrc.{json,yaml,yml})")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|compact|json|markdown)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file for reports (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "fr", "Label language (fr|en)")

	bindFlags()
}

// bindFlags binds the global flags to their configuration keys.
func bindFlags() {
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("lang"))
}
