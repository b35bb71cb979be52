package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/egralens/internal/summary"
)

var summaryGrade string

var summaryCmd = &cobra.Command{
	Use:   "summary [paths...]",
	Short: "Show a class summary report",
	Long: `Summary imports the datasets and reports per-grade EGRA/EGMA averages,
student counts and the distribution of overall reading and mathematics
levels. Use --grade to restrict the report to one grade and --verbose for
the per-skill breakdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(args)
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryGrade, "grade", "", "Only summarize this grade")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	st, _, err := a.loadStore(args)
	if err != nil {
		return err
	}

	report, err := summary.Build(st.Dataset(), a.thresholds, summaryGrade)
	if err != nil {
		return err
	}
	if err := a.outputter().Summary(report); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}
