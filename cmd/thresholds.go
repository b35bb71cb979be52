package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/egralens/internal/config"
	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/output"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/types"
)

var (
	thresholdsFile  string
	thresholdsWrite string
)

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Print the effective threshold table",
	Long: `Thresholds prints the cut points used to classify each metric, after
merging the thresholds file (if any) over the defaults and validating it.

Use --write to save the effective table as a complete YAML thresholds file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runThresholds()
	},
}

func init() {
	thresholdsCmd.Flags().StringVar(&thresholdsFile, "file", "", "Thresholds file to validate (default: thresholdsFile from config)")
	thresholdsCmd.Flags().StringVar(&thresholdsWrite, "write", "", "Write the effective thresholds to this YAML file")
	rootCmd.AddCommand(thresholdsCmd)
}

func runThresholds() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	th := a.thresholds
	if thresholdsFile != "" {
		if th, err = config.LoadThresholds(thresholdsFile, a.validator); err != nil {
			return err
		}
	}

	if thresholdsWrite != "" {
		if err := config.SaveThresholds(th, thresholdsWrite); err != nil {
			return err
		}
		if !a.cfg.Quiet {
			fmt.Fprintf(stdout, "Thresholds written to %s\n", thresholdsWrite)
		}
		return nil
	}

	lang, err := messages.ParseLanguage(a.cfg.Language)
	if err != nil {
		return err
	}
	return printThresholds(stdout, th, a.cfg.Format, lang)
}

func printThresholds(w io.Writer, th scoring.Thresholds, format string, lang messages.Language) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(th.Map(), "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "markdown":
		fmt.Fprintf(w, "| Metric | %s | %s | %s |\n",
			messages.LevelLabel(scoring.Mastery, lang),
			messages.LevelLabel(scoring.Developing, lang),
			messages.LevelLabel(scoring.Emerging, lang))
		fmt.Fprintln(w, "|--------|---|---|---|")
		for _, key := range types.MetricKeys() {
			cfg, err := th.For(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", messages.MetricLabel(key, lang),
				messages.FormatValue(cfg.Mastery), messages.FormatValue(cfg.Developing), messages.FormatValue(cfg.Emerging))
		}
	default:
		header := lipgloss.NewStyle().Bold(true)
		fmt.Fprintf(w, "%-30s %s %s %s\n", "",
			header.Render(fmt.Sprintf("%10s", "mastery")),
			header.Render(fmt.Sprintf("%10s", "developing")),
			header.Render(fmt.Sprintf("%10s", "emerging")))
		for _, key := range types.MetricKeys() {
			cfg, err := th.For(key)
			if err != nil {
				return err
			}
			info, err := types.LookupMetric(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%-30s %s %s %s  %s\n",
				messages.MetricLabel(key, lang),
				output.LevelStyle(scoring.Mastery).Render(fmt.Sprintf("%10s", messages.FormatValue(cfg.Mastery))),
				output.LevelStyle(scoring.Developing).Render(fmt.Sprintf("%10s", messages.FormatValue(cfg.Developing))),
				output.LevelStyle(scoring.Emerging).Render(fmt.Sprintf("%10s", messages.FormatValue(cfg.Emerging))),
				lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(string(info.Unit)))
		}
	}
	return nil
}
