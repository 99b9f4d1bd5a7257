package cli

import (
	"fmt"

	"intervue/internal/common"
	"intervue/internal/report"
	"intervue/internal/types"

	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List and inspect interview reports",
}

var reportsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored interview reports, most recent first",
	Args:    cobra.NoArgs,
	PreRunE: preRunOutputFormat(&reportsConfig),
	RunE:    runReportsList,
}

var reportsShowCmd = &cobra.Command{
	Use:     "show [session-id]",
	Short:   "Show the report for a session",
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunOutputFormat(&reportsConfig),
	RunE:    runReportsShow,
}

var reportsConfig common.CommandConfig

func init() {
	for _, cmd := range []*cobra.Command{reportsListCmd, reportsShowCmd} {
		cmd.Flags().StringVarP(&reportsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
		cmd.Flags().StringVar(&reportsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
		registerFormatCompletion(cmd)
	}

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
}

func reportStore(cmd *cobra.Command) (*report.Store, error) {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	return report.NewStore(cfg.Storage.ReportsDir, logger)
}

func runReportsList(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	store, err := reportStore(cmd)
	if err != nil {
		return err
	}
	reports, err := store.List()
	if err != nil {
		return err
	}

	// Listing output is a compact summary, one entry per report
	summaries := make([]reportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, reportSummary{
			SessionID:     r.SessionInfo.SessionID,
			RoleTitle:     r.SessionInfo.RoleTitle,
			CandidateName: r.SessionInfo.CandidateName,
			InterviewDate: r.SessionInfo.InterviewDate.Format("2006-01-02 15:04"),
			OverallScore:  r.EvaluationResults.OverallScore,
		})
	}

	if reportsConfig.OutputFormat == "text" || reportsConfig.OutputFormat == "markdown" {
		for _, s := range summaries {
			fmt.Printf("%s  %-25s %-20s %.1f/5.0  %s\n",
				s.InterviewDate, s.RoleTitle, s.CandidateName, s.OverallScore, s.SessionID)
		}
		return nil
	}

	return common.WriteOutput(logger, summaries, reportsConfig)
}

type reportSummary struct {
	SessionID     string  `json:"session_id"`
	RoleTitle     string  `json:"role_title"`
	CandidateName string  `json:"candidate_name"`
	InterviewDate string  `json:"interview_date"`
	OverallScore  float64 `json:"overall_score"`
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	store, err := reportStore(cmd)
	if err != nil {
		return err
	}

	var rep types.Report
	rep, err = store.LoadBySession(args[0])
	if err != nil {
		// Allow passing a report filename directly
		rep, err = store.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load report for %q: %w", args[0], err)
		}
	}

	return common.WriteOutput(logger, rep, reportsConfig)
}
