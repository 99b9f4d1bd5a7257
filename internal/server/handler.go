package server

import (
	"context"
	"net/http"
	"strings"

	"intervue/internal/observability"
	"intervue/internal/session"

	"go.opentelemetry.io/otel/attribute"
)

// createRolesHandler returns the role catalog
func (s *Server) createRolesHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		_, span := tracer.Start(ctx, "api.roles")
		defer span.End()

		roles := s.Runner.Catalog().Roles()
		span.SetAttributes(attribute.Int("roles.count", len(roles)))

		writeJSONResponse(w, roles, http.StatusOK)
	}
}

// createSessionHandler creates a new session in the setup stage
func (s *Server) createSessionHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		_, span := tracer.Start(ctx, "api.session.create")
		defer span.End()

		var req CreateSessionRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.RoleID) == "" {
			writeErrorResponse(w, "Missing role", "roleId field is required", http.StatusBadRequest)
			return
		}

		sess := s.Runner.NewSession()
		if _, err := s.Runner.Setup(sess, req.RoleID, req.CandidateName); err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}
		s.sessions.add(sess)

		span.SetAttributes(
			attribute.String("session.id", sess.ID()),
			attribute.String("session.role", req.RoleID),
		)

		writeJSONResponse(w, sessionState(sess), http.StatusCreated)
	}
}

// createStartHandler generates questions and moves the session in progress
func (s *Server) createStartHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		ctx, span := tracer.Start(ctx, "api.session.start")
		defer span.End()

		entry, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		entry.mu.Lock()
		defer entry.mu.Unlock()

		var req StartSessionRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		metrics := om.GetMetrics()
		err := metrics.TrackGenerationOperation(ctx, "interview", func(ctx context.Context) *observability.GenerationResult {
			content, genErr := s.Runner.Begin(ctx, entry.sess, req.QuestionCount)
			return &observability.GenerationResult{
				Error:         genErr,
				QuestionCount: int64(len(content.Questions)),
				FallbackCount: int64(content.FallbackCount),
			}
		}, om)
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}

		span.SetAttributes(
			attribute.String("session.id", entry.sess.ID()),
			attribute.Int("session.questions", entry.sess.TotalQuestions()),
			attribute.String("session.model", entry.sess.Model()),
		)

		writeJSONResponse(w, sessionState(entry.sess), http.StatusOK)
	}
}

// createAnswerHandler records an answer for a question
func (s *Server) createAnswerHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		ctx, span := tracer.Start(ctx, "api.session.answer")
		defer span.End()

		entry, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		entry.mu.Lock()
		defer entry.mu.Unlock()

		var req AnswerRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		index := -1
		if req.QuestionIndex != nil {
			index = *req.QuestionIndex
		} else {
			current, _, err := entry.sess.CurrentQuestion()
			if err != nil {
				span.RecordError(err)
				s.writeAppError(w, err)
				return
			}
			index = current
		}

		if err := s.Runner.SubmitAnswer(entry.sess, index, req.Answer, req.DurationSeconds); err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}

		om.GetMetrics().RecordBusinessMetric(ctx, "answer_submitted", true, om,
			attribute.Int("answer.index", index))

		span.SetAttributes(
			attribute.String("session.id", entry.sess.ID()),
			attribute.Int("answer.index", index),
			attribute.Int("answer.length", len(req.Answer)),
		)

		writeJSONResponse(w, sessionState(entry.sess), http.StatusOK)
	}
}

// createAdvanceHandler moves the session to the next question
func (s *Server) createAdvanceHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		ctx, span := tracer.Start(ctx, "api.session.advance")
		defer span.End()

		entry, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		entry.mu.Lock()
		defer entry.mu.Unlock()

		if err := s.Runner.Advance(entry.sess); err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}

		writeJSONResponse(w, sessionState(entry.sess), http.StatusOK)
	}
}

// createRetreatHandler moves the session back to the previous question
func (s *Server) createRetreatHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		ctx, span := tracer.Start(ctx, "api.session.retreat")
		defer span.End()

		entry, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		entry.mu.Lock()
		defer entry.mu.Unlock()

		if err := s.Runner.Retreat(entry.sess); err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}

		writeJSONResponse(w, sessionState(entry.sess), http.StatusOK)
	}
}

// createResumeHandler restores a checkpointed session into the live
// registry so an interrupted interview can continue
func (s *Server) createResumeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		_, span := tracer.Start(ctx, "api.session.resume")
		defer span.End()

		id := r.PathValue("id")
		sess, err := s.Runner.Resume(id)
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}
		if !s.sessions.add(sess) {
			writeErrorResponse(w, "Session already active",
				"session "+id+" is already loaded", http.StatusConflict)
			return
		}

		span.SetAttributes(
			attribute.String("session.id", sess.ID()),
			attribute.String("session.stage", string(sess.Stage())),
		)

		writeJSONResponse(w, sessionState(sess), http.StatusOK)
	}
}

// createCompleteHandler finishes the interview, evaluates the answers
// and persists the report
func (s *Server) createCompleteHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		ctx, span := tracer.Start(ctx, "api.session.complete")
		defer span.End()

		entry, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		entry.mu.Lock()
		defer entry.mu.Unlock()

		metrics := om.GetMetrics()
		rep, path, err := s.Runner.Complete(ctx, entry.sess)
		if err != nil && rep.SessionInfo.SessionID == "" {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "interview_completed", false, om)
			s.writeAppError(w, err)
			return
		}

		s.sessions.remove(entry.sess.ID())

		metrics.RecordBusinessMetric(ctx, "interview_completed", true, om,
			attribute.String("role", rep.SessionInfo.RoleID),
			attribute.Float64("score", rep.EvaluationResults.OverallScore))
		metrics.RecordBusinessMetric(ctx, "report_saved", err == nil, om)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("session.id", rep.SessionInfo.SessionID),
			attribute.Float64("evaluation.score", rep.EvaluationResults.OverallScore),
		)

		resp := CompleteResponse{Report: rep, ReportPath: path}
		if err != nil {
			// Interview completed but the report write failed; hand the
			// evaluated report to the caller with the save error.
			span.RecordError(err)
			resp.SaveError = err.Error()
		}
		writeJSONResponse(w, resp, http.StatusOK)
	}
}

// createReportListHandler lists all persisted reports
func (s *Server) createReportListHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		ctx, span := tracer.Start(ctx, "api.reports.list")
		defer span.End()

		reports, err := s.Runner.Reports().List()
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}

		span.SetAttributes(attribute.Int("reports.count", len(reports)))
		writeJSONResponse(w, reports, http.StatusOK)
	}
}

// createReportShowHandler loads one report by file name or session ID
func (s *Server) createReportShowHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("intervue.api")
		ctx, span := tracer.Start(ctx, "api.reports.show")
		defer span.End()

		name := r.PathValue("name")
		span.SetAttributes(attribute.String("report.name", name))

		rep, err := s.Runner.Reports().LoadBySession(name)
		if err != nil {
			rep, err = s.Runner.Reports().Load(name)
		}
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}

		writeJSONResponse(w, rep, http.StatusOK)
	}
}

// lookupSession resolves the {id} path value against the registry,
// writing a 404 when the session is unknown.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*sessionEntry, bool) {
	id := r.PathValue("id")
	entry, ok := s.sessions.get(id)
	if !ok {
		writeErrorResponse(w, "Session not found", "no active session with id "+id, http.StatusNotFound)
		return nil, false
	}
	return entry, true
}

// sessionState builds the response body describing a session
func sessionState(sess *session.Session) SessionResponse {
	role := sess.Role()
	resp := SessionResponse{
		SessionID:     sess.ID(),
		Stage:         string(sess.Stage()),
		RoleID:        role.ID,
		RoleTitle:     role.Title,
		CandidateName: sess.CandidateName(),
		Introduction:  sess.Introduction(),
		Questions:     sess.Questions(),
		TotalCount:    sess.TotalQuestions(),
		AnsweredCount: sess.AnsweredCount(),
		Model:         sess.Model(),
	}

	if index, text, err := sess.CurrentQuestion(); err == nil {
		resp.CurrentIndex = index
		resp.CurrentText = text
	}

	return resp
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
