package cli

import (
	"fmt"

	"intervue/internal/catalog"
	"intervue/internal/common"
	"intervue/internal/generate"
	"intervue/internal/types"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [role-id]",
	Short: "Generate interview questions for a role",
	Long: `Generate a set of interview questions for a role from the catalog.
Questions come from the configured generation backend; when the backend is
unreachable the static question bank is used instead.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunOutputFormat(&questionsConfig),
	RunE:    runQuestions,
}

var (
	questionsConfig common.CommandConfig
	questionsCount  int
)

func init() {
	questionsCmd.Flags().StringVarP(&questionsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	questionsCmd.Flags().StringVar(&questionsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	questionsCmd.Flags().IntVarP(&questionsCount, "count", "n", 0, "Number of questions (default: configured minimum)")

	registerFormatCompletion(questionsCmd)
}

// preRunOutputFormat applies the configured default format and validates it.
func preRunOutputFormat(cmdConfig *common.CommandConfig) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if cmdConfig.OutputFormat == "" {
			cmdConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
	}
}

// registerFormatCompletion adds shell completion for the format flag.
func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	cat, err := catalog.Load(cfg.Storage.RolesFile)
	if err != nil {
		return fmt.Errorf("failed to load role catalog: %w", err)
	}
	role, err := cat.Get(args[0])
	if err != nil {
		return err
	}

	generator, err := generate.NewService(cfg.Generation, logger)
	if err != nil {
		return fmt.Errorf("failed to create generation service: %w", err)
	}
	defer func() {
		if err := generator.Close(); err != nil {
			logger.Warn("Failed to close generation service", "error", err.Error())
		}
	}()

	count := questionsCount
	if count <= 0 {
		count = cfg.Interview.MinQuestions
	}
	if count > cfg.Interview.MaxQuestions {
		count = cfg.Interview.MaxQuestions
	}

	logger.Info("Generating interview questions",
		"role", role.Title,
		"count", count,
		"output_format", questionsConfig.OutputFormat)

	content := generator.GenerateInterviewContent(cmd.Context(), role, count)

	model := cfg.Generation.Model
	if content.FallbackCount == len(content.Questions) {
		model = "fallback"
	}

	result := types.QuestionSet{
		RoleID:       role.ID,
		RoleTitle:    role.Title,
		Introduction: content.Introduction,
		Questions:    content.Questions,
		Model:        model,
	}

	if err := common.WriteOutput(logger, result, questionsConfig); err != nil {
		return fmt.Errorf("failed to write questions: %w", err)
	}
	logger.Info("Question generation completed successfully")
	return nil
}
