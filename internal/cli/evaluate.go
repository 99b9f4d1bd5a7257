package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"intervue/internal/common"
	"intervue/internal/evaluate"
	"intervue/internal/types"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [answers-file]",
	Short: "Score a recorded set of interview answers",
	Long: `Evaluate the answers of a finished interview. The input file is JSON
with the interviewed role and the collected question/answer pairs:

  {"role": {...}, "questions_and_answers": [{"question": "...", "answer": "..."}]}

Scoring is deterministic and based on answer substance, so the same input
always produces the same evaluation.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunOutputFormat(&evaluateConfig),
	RunE:    runEvaluate,
}

var evaluateConfig common.CommandConfig

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	evaluateCmd.Flags().StringVar(&evaluateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	registerFormatCompletion(evaluateCmd)
}

// evaluateInput is the accepted shape of an answers file.
type evaluateInput struct {
	Role                types.Role     `json:"role"`
	QuestionsAndAnswers []types.QAPair `json:"questions_and_answers"`
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	evaluator := evaluate.New()

	createInput := func(contents []string) (evaluateInput, error) {
		if len(contents) != 1 {
			return evaluateInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		var input evaluateInput
		if err := json.Unmarshal([]byte(contents[0]), &input); err != nil {
			return evaluateInput{}, fmt.Errorf("invalid answers file: %w", err)
		}
		if len(input.QuestionsAndAnswers) == 0 {
			return evaluateInput{}, fmt.Errorf("answers file contains no question/answer pairs")
		}
		return input, nil
	}

	logDetails := func(input evaluateInput, cfg common.CommandConfig) {
		logger.Info("Starting answer evaluation",
			"role", input.Role.Title,
			"answers", len(input.QuestionsAndAnswers),
			"output_format", cfg.OutputFormat)
	}

	evaluateOperation := func(ctx context.Context, input evaluateInput) (types.Evaluation, error) {
		return evaluator.Evaluate(input.Role, input.QuestionsAndAnswers), nil
	}

	err := common.RunFileCommand(
		cmd.Context(),
		logger,
		evaluateConfig,
		args,
		createInput,
		evaluateOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to evaluate answers: %w", err)
	}
	logger.Info("Answer evaluation completed successfully")
	return nil
}
