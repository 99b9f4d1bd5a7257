// Package interview orchestrates the full interview lifecycle: role
// selection, question generation, answer capture, evaluation and
// report persistence. CLI commands and HTTP handlers both drive the
// same Runner.
package interview

import (
	"context"
	"fmt"
	"strings"

	"intervue/internal/audio"
	"intervue/internal/catalog"
	"intervue/internal/config"
	"intervue/internal/errors"
	"intervue/internal/evaluate"
	"intervue/internal/generate"
	"intervue/internal/report"
	"intervue/internal/session"
	"intervue/internal/transcribe"
	"intervue/internal/types"
)

// fallbackModel is recorded when every question came from the static bank.
const fallbackModel = "fallback"

// Runner wires the interview components together. It holds no
// per-session state; sessions are passed into each operation.
type Runner struct {
	cfg          *config.Config
	catalog      *catalog.Catalog
	generator    *generate.Service
	bridge       *transcribe.Bridge
	evaluator    *evaluate.Evaluator
	reports      *report.Store
	checkpointer *session.Checkpointer
	logger       *errors.Logger
}

// NewRunner assembles a runner from already-constructed components.
// The bridge may be nil when audio transcription is not needed.
func NewRunner(
	cfg *config.Config,
	cat *catalog.Catalog,
	generator *generate.Service,
	bridge *transcribe.Bridge,
	reports *report.Store,
	checkpointer *session.Checkpointer,
	logger *errors.Logger,
) *Runner {
	return &Runner{
		cfg:          cfg,
		catalog:      cat,
		generator:    generator,
		bridge:       bridge,
		evaluator:    evaluate.New(),
		reports:      reports,
		checkpointer: checkpointer,
		logger:       logger,
	}
}

// NewSession creates a fresh session in the welcome stage.
func (r *Runner) NewSession() *session.Session {
	sess := session.New()
	r.logger.Debug("Session created", "session_id", sess.ID())
	return sess
}

// Setup resolves the role and moves the session into setup.
func (r *Runner) Setup(sess *session.Session, roleID, candidateName string) (types.Role, error) {
	role, err := r.catalog.Get(roleID)
	if err != nil {
		return types.Role{}, err
	}
	if err := sess.BeginSetup(role, candidateName); err != nil {
		return types.Role{}, err
	}
	return role, nil
}

// questionCount clamps the requested count into the configured range.
// Zero means "use the minimum".
func (r *Runner) questionCount(requested int) int {
	n := requested
	if n <= 0 {
		n = r.cfg.Interview.MinQuestions
	}
	if n < r.cfg.Interview.MinQuestions {
		n = r.cfg.Interview.MinQuestions
	}
	if n > r.cfg.Interview.MaxQuestions {
		n = r.cfg.Interview.MaxQuestions
	}
	return n
}

// Begin generates the interview content and starts the session. The
// session must be in setup with a role chosen. The generated content
// is returned so callers can report question and fallback counts.
func (r *Runner) Begin(ctx context.Context, sess *session.Session, numQuestions int) (generate.Content, error) {
	if sess.Stage() != session.StageSetup {
		return generate.Content{}, errors.NewValidationError(errors.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot begin interview from stage %s", sess.Stage()), nil)
	}
	if strings.TrimSpace(sess.CandidateName()) == "" {
		return generate.Content{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"candidate name is required to start an interview", nil)
	}

	role := sess.Role()
	total := r.questionCount(numQuestions)
	content := r.generator.GenerateInterviewContent(ctx, role, total)

	method := "none"
	if r.bridge != nil {
		if methods := r.bridge.Methods(); len(methods) > 0 {
			method = methods[0]
		}
	}

	if err := sess.Start(content.Introduction, content.Questions, method); err != nil {
		return generate.Content{}, err
	}

	model := r.cfg.Generation.Model
	if content.FallbackCount == len(content.Questions) {
		model = fallbackModel
	}
	sess.SetModel(model)

	r.logger.Info("Interview started",
		"session_id", sess.ID(),
		"role", role.Title,
		"questions", total,
		"model", model)

	return content, r.checkpoint(sess)
}

// SubmitAnswer records a typed answer for the given question index and
// checkpoints the session.
func (r *Runner) SubmitAnswer(sess *session.Session, index int, answer string, durationSeconds float64) error {
	if err := sess.SubmitAnswer(index, answer, durationSeconds); err != nil {
		return err
	}
	return r.checkpoint(sess)
}

// TranscribeAnswer converts an audio payload to text and records it as
// the answer to the current question.
func (r *Runner) TranscribeAnswer(ctx context.Context, sess *session.Session, payload audio.Payload) (transcribe.Result, error) {
	if r.bridge == nil {
		return transcribe.Result{}, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"no transcription backends configured", nil)
	}

	result, err := r.bridge.Transcribe(ctx, payload)
	if err != nil {
		return transcribe.Result{}, err
	}

	index, _, err := sess.CurrentQuestion()
	if err != nil {
		return transcribe.Result{}, err
	}
	if err := sess.SubmitAnswer(index, result.Text, result.DurationSeconds); err != nil {
		return transcribe.Result{}, err
	}
	return result, r.checkpoint(sess)
}

// Advance moves to the next question.
func (r *Runner) Advance(sess *session.Session) error {
	if err := sess.Advance(); err != nil {
		return err
	}
	return r.checkpoint(sess)
}

// Retreat moves back to the previous question.
func (r *Runner) Retreat(sess *session.Session) error {
	if err := sess.Retreat(); err != nil {
		return err
	}
	return r.checkpoint(sess)
}

// Complete finishes the interview, evaluates the answers, and persists
// the report. Evaluation never blocks completion: any failure falls
// back to a neutral assessment. When only the report write fails, the
// built report is still returned alongside the error.
func (r *Runner) Complete(ctx context.Context, sess *session.Session) (types.Report, string, error) {
	if err := sess.Complete(); err != nil {
		return types.Report{}, "", err
	}

	role := sess.Role()
	pairs := sess.Pairs()
	evaluation := r.evaluate(role, pairs)

	rep := report.Build(sess, role, evaluation, sess.Model())
	path, err := r.reports.Save(rep)
	if err != nil {
		// The session has completed and the evaluation is done; hand
		// the report back so it is not lost with the failed write.
		r.logger.LogError(err, "Failed to persist interview report",
			"session_id", sess.ID(),
			"role", role.Title)
		return rep, "", err
	}

	if r.checkpointer != nil {
		if err := r.checkpointer.Remove(sess.ID()); err != nil {
			r.logger.Warn("Failed to remove session checkpoint",
				"session_id", sess.ID(),
				"error", err.Error())
		}
	}

	r.logger.Info("Interview completed",
		"session_id", sess.ID(),
		"role", role.Title,
		"overall_score", evaluation.OverallScore,
		"report", path)

	return rep, path, nil
}

// Resume loads a checkpointed session so an interrupted interview can
// continue.
func (r *Runner) Resume(sessionID string) (*session.Session, error) {
	if r.checkpointer == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"session checkpointing not configured", nil)
	}
	return r.checkpointer.Load(sessionID)
}

// Reports exposes the report store for listing and retrieval.
func (r *Runner) Reports() *report.Store {
	return r.reports
}

// Catalog exposes the role catalog.
func (r *Runner) Catalog() *catalog.Catalog {
	return r.catalog
}

// Generator exposes the question generation service for health checks.
func (r *Runner) Generator() *generate.Service {
	return r.generator
}

func (r *Runner) evaluate(role types.Role, pairs []types.QAPair) (evaluation types.Evaluation) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("Evaluation panicked, using fallback assessment",
				"role", role.Title,
				"panic", fmt.Sprint(rec))
			evaluation = r.evaluator.Fallback(role, pairs)
		}
	}()
	return r.evaluator.Evaluate(role, pairs)
}

func (r *Runner) checkpoint(sess *session.Session) error {
	if r.checkpointer == nil {
		return nil
	}
	if err := r.checkpointer.Save(sess); err != nil {
		// A failed checkpoint must not abort the interview
		r.logger.Warn("Failed to checkpoint session",
			"session_id", sess.ID(),
			"error", err.Error())
	}
	return nil
}
