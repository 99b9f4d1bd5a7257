// Package report assembles and persists interview reports. A report is
// the immutable record of one completed session: who interviewed for
// which role, what was asked and answered, and how it was scored.
package report

import (
	"time"

	"intervue/internal/session"
	"intervue/internal/types"
)

// reportVersion is stamped into the metadata of every generated report.
const reportVersion = "1.0"

// Build assembles a complete report from a finished session and its
// evaluation. The model name records which provider produced the
// questions, or "fallback" when the static bank was used throughout.
func Build(sess *session.Session, role types.Role, evaluation types.Evaluation, modelUsed string) types.Report {
	pairs := sess.Pairs()
	now := time.Now()

	candidate := sess.CandidateName()
	if candidate == "" {
		candidate = "Anonymous"
	}
	if modelUsed == "" {
		modelUsed = "fallback"
	}

	return types.Report{
		SessionInfo: types.SessionInfo{
			SessionID:            sess.ID(),
			RoleTitle:            role.Title,
			RoleID:               role.ID,
			CandidateName:        candidate,
			InterviewDate:        now,
			TotalQuestions:       len(pairs),
			TotalDurationMinutes: sess.DurationMinutes(),
		},
		RoleInformation: role,
		InterviewData: types.InterviewData{
			QuestionsAndAnswers: pairs,
			TranscriptionMethod: sess.TranscriptionMethod(),
		},
		EvaluationResults: evaluation,
		Metadata: types.ReportMetadata{
			GeneratedAt: now,
			Version:     reportVersion,
			AIModelUsed: modelUsed,
		},
	}
}
