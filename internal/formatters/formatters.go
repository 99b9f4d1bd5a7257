package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"intervue/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "Report", &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", "Report", &ReportMarkdownFormatter{})
	registry.RegisterFormatter("text", "Evaluation", &EvaluationTextFormatter{})
	registry.RegisterFormatter("markdown", "Evaluation", &EvaluationMarkdownFormatter{})
	registry.RegisterFormatter("text", "RoleList", &RoleListTextFormatter{})
	registry.RegisterFormatter("markdown", "RoleList", &RoleListMarkdownFormatter{})
	registry.RegisterFormatter("text", "QuestionSet", &QuestionSetTextFormatter{})
	registry.RegisterFormatter("markdown", "QuestionSet", &QuestionSetMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.Report:
		return "Report"
	case types.Evaluation:
		return "Evaluation"
	case []types.Role:
		return "RoleList"
	case types.QuestionSet:
		return "QuestionSet"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// sortedSkills returns skill names in a stable order for display
func sortedSkills(ratings map[string]float64) []string {
	skills := make([]string, 0, len(ratings))
	for skill := range ratings {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}

func writeEvaluationText(output *strings.Builder, evaluation types.Evaluation) {
	output.WriteString(fmt.Sprintf("Overall Score: %.1f/5.0\n\n", evaluation.OverallScore))
	output.WriteString("Summary:\n")
	output.WriteString(evaluation.Summary)
	output.WriteString("\n\n")

	if len(evaluation.SkillRatings) > 0 {
		output.WriteString("Skill Ratings:\n")
		for _, skill := range sortedSkills(evaluation.SkillRatings) {
			output.WriteString(fmt.Sprintf("- %s: %.1f/5.0\n", skill, evaluation.SkillRatings[skill]))
		}
		output.WriteString("\n")
	}

	if len(evaluation.Recommendations) > 0 {
		output.WriteString("Recommendations:\n")
		for i, recommendation := range evaluation.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
	}
}

func writeEvaluationMarkdown(output *strings.Builder, evaluation types.Evaluation) {
	output.WriteString(fmt.Sprintf("**Overall Score:** %.1f/5.0\n\n", evaluation.OverallScore))
	output.WriteString("### Summary\n")
	output.WriteString(evaluation.Summary)
	output.WriteString("\n\n")

	if len(evaluation.SkillRatings) > 0 {
		output.WriteString("### Skill Ratings\n\n")
		output.WriteString("| Skill | Rating |\n")
		output.WriteString("|-------|--------|\n")
		for _, skill := range sortedSkills(evaluation.SkillRatings) {
			output.WriteString(fmt.Sprintf("| %s | %.1f/5.0 |\n", skill, evaluation.SkillRatings[skill]))
		}
		output.WriteString("\n")
	}

	if len(evaluation.Recommendations) > 0 {
		output.WriteString("### Recommendations\n\n")
		for i, recommendation := range evaluation.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
	}
}

// EvaluationTextFormatter handles text formatting for interview evaluations
type EvaluationTextFormatter struct{}

func (etf *EvaluationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Evaluation)
	if !ok {
		return "", fmt.Errorf("expected Evaluation, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== INTERVIEW EVALUATION ===\n\n")
	writeEvaluationText(&output, result)
	return output.String(), nil
}

func (etf *EvaluationTextFormatter) SupportedType() string {
	return "Evaluation"
}

// EvaluationMarkdownFormatter handles markdown formatting for interview evaluations
type EvaluationMarkdownFormatter struct{}

func (emf *EvaluationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Evaluation)
	if !ok {
		return "", fmt.Errorf("expected Evaluation, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Interview Evaluation\n\n")
	writeEvaluationMarkdown(&output, result)
	return output.String(), nil
}

func (emf *EvaluationMarkdownFormatter) SupportedType() string {
	return "Evaluation"
}

// ReportTextFormatter handles text formatting for full interview reports
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Report)
	if !ok {
		return "", fmt.Errorf("expected Report, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW REPORT ===\n\n")
	output.WriteString(fmt.Sprintf("Session: %s\n", result.SessionInfo.SessionID))
	output.WriteString(fmt.Sprintf("Candidate: %s\n", result.SessionInfo.CandidateName))
	output.WriteString(fmt.Sprintf("Role: %s\n", result.SessionInfo.RoleTitle))
	output.WriteString(fmt.Sprintf("Date: %s\n", result.SessionInfo.InterviewDate.Format("2006-01-02 15:04")))
	output.WriteString(fmt.Sprintf("Questions: %d\n", result.SessionInfo.TotalQuestions))
	if result.SessionInfo.TotalDurationMinutes > 0 {
		output.WriteString(fmt.Sprintf("Duration: %.1f min\n", result.SessionInfo.TotalDurationMinutes))
	}
	output.WriteString("\n")

	output.WriteString("=== EVALUATION ===\n\n")
	writeEvaluationText(&output, result.EvaluationResults)
	output.WriteString("\n")

	if len(result.InterviewData.QuestionsAndAnswers) > 0 {
		output.WriteString("=== QUESTIONS AND ANSWERS ===\n\n")
		for _, pair := range result.InterviewData.QuestionsAndAnswers {
			output.WriteString(fmt.Sprintf("Q%d: %s\n", pair.QuestionNumber, pair.Question))
			output.WriteString(fmt.Sprintf("A%d: %s\n\n", pair.QuestionNumber, pair.Answer))
		}
	}

	output.WriteString(fmt.Sprintf("Generated by %s (report v%s)\n",
		result.Metadata.AIModelUsed, result.Metadata.Version))

	return output.String(), nil
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return "Report"
}

// ReportMarkdownFormatter handles markdown formatting for full interview reports
type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Report)
	if !ok {
		return "", fmt.Errorf("expected Report, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Report\n\n")
	output.WriteString(fmt.Sprintf("**Session:** %s\n\n", result.SessionInfo.SessionID))
	output.WriteString(fmt.Sprintf("**Candidate:** %s\n\n", result.SessionInfo.CandidateName))
	output.WriteString(fmt.Sprintf("**Role:** %s\n\n", result.SessionInfo.RoleTitle))
	output.WriteString(fmt.Sprintf("**Date:** %s\n\n", result.SessionInfo.InterviewDate.Format("2006-01-02 15:04")))

	output.WriteString("## Role\n\n")
	output.WriteString(result.RoleInformation.Description)
	output.WriteString("\n\n")
	if len(result.RoleInformation.KeySkills) > 0 {
		output.WriteString("**Key Skills:** ")
		output.WriteString(strings.Join(result.RoleInformation.KeySkills, ", "))
		output.WriteString("\n\n")
	}

	output.WriteString("## Evaluation\n\n")
	writeEvaluationMarkdown(&output, result.EvaluationResults)
	output.WriteString("\n")

	if len(result.InterviewData.QuestionsAndAnswers) > 0 {
		output.WriteString("## Questions and Answers\n\n")
		for _, pair := range result.InterviewData.QuestionsAndAnswers {
			output.WriteString(fmt.Sprintf("### Question %d\n\n", pair.QuestionNumber))
			output.WriteString(pair.Question)
			output.WriteString("\n\n")
			output.WriteString("**Answer:** ")
			output.WriteString(pair.Answer)
			output.WriteString("\n\n")
		}
	}

	output.WriteString(fmt.Sprintf("*Generated by %s (report v%s)*\n",
		result.Metadata.AIModelUsed, result.Metadata.Version))

	return output.String(), nil
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return "Report"
}

// RoleListTextFormatter handles text formatting for role catalog listings
type RoleListTextFormatter struct{}

func (rlf *RoleListTextFormatter) Format(data any) (string, error) {
	roles, ok := data.([]types.Role)
	if !ok {
		return "", fmt.Errorf("expected []Role, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== AVAILABLE ROLES ===\n\n")
	for _, role := range roles {
		output.WriteString(fmt.Sprintf("%s (%s)\n", role.Title, role.ID))
		if role.Department != "" {
			output.WriteString(fmt.Sprintf("  Department: %s\n", role.Department))
		}
		if role.ExperienceLevel != "" {
			output.WriteString(fmt.Sprintf("  Experience: %s\n", role.ExperienceLevel))
		}
		if len(role.KeySkills) > 0 {
			output.WriteString(fmt.Sprintf("  Skills: %s\n", strings.Join(role.KeySkills, ", ")))
		}
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (rlf *RoleListTextFormatter) SupportedType() string {
	return "RoleList"
}

// RoleListMarkdownFormatter handles markdown formatting for role catalog listings
type RoleListMarkdownFormatter struct{}

func (rlmf *RoleListMarkdownFormatter) Format(data any) (string, error) {
	roles, ok := data.([]types.Role)
	if !ok {
		return "", fmt.Errorf("expected []Role, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Available Roles\n\n")
	output.WriteString("| Role | ID | Department | Experience |\n")
	output.WriteString("|------|----|-----------|------------|\n")
	for _, role := range roles {
		output.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			role.Title, role.ID, role.Department, role.ExperienceLevel))
	}
	return output.String(), nil
}

func (rlmf *RoleListMarkdownFormatter) SupportedType() string {
	return "RoleList"
}

// QuestionSetTextFormatter handles text formatting for generated question sets
type QuestionSetTextFormatter struct{}

func (qsf *QuestionSetTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.QuestionSet)
	if !ok {
		return "", fmt.Errorf("expected QuestionSet, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("=== INTERVIEW QUESTIONS: %s ===\n\n", result.RoleTitle))
	output.WriteString(result.Introduction)
	output.WriteString("\n\n")
	for i, question := range result.Questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, question))
	}
	return output.String(), nil
}

func (qsf *QuestionSetTextFormatter) SupportedType() string {
	return "QuestionSet"
}

// QuestionSetMarkdownFormatter handles markdown formatting for generated question sets
type QuestionSetMarkdownFormatter struct{}

func (qsmf *QuestionSetMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.QuestionSet)
	if !ok {
		return "", fmt.Errorf("expected QuestionSet, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("# Interview Questions: %s\n\n", result.RoleTitle))
	output.WriteString(result.Introduction)
	output.WriteString("\n\n")
	output.WriteString("## Questions\n\n")
	for i, question := range result.Questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, question))
	}
	return output.String(), nil
}

func (qsmf *QuestionSetMarkdownFormatter) SupportedType() string {
	return "QuestionSet"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
