package types

import "time"

// Role represents a job position definition loaded from the role catalog
type Role struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Department      string   `json:"department"`
	ExperienceLevel string   `json:"experience_level"`
	Description     string   `json:"description"`
	KeySkills       []string `json:"key_skills"`
}

// QAPair represents one interview question and the candidate's answer
type QAPair struct {
	QuestionNumber  int     `json:"question_number"`
	Question        string  `json:"question"`
	Answer          string  `json:"answer"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Evaluation represents the derived assessment of a completed interview
type Evaluation struct {
	OverallScore    float64            `json:"overall_score"`
	SkillRatings    map[string]float64 `json:"skill_ratings"`
	Summary         string             `json:"summary"`
	Recommendations []string           `json:"recommendations"`
	EvaluatedAt     time.Time          `json:"evaluated_at"`
	TotalQuestions  int                `json:"total_questions"`
}

// SessionInfo summarizes the session that produced a report
type SessionInfo struct {
	SessionID            string    `json:"session_id"`
	RoleTitle            string    `json:"role_title"`
	RoleID               string    `json:"role_id"`
	CandidateName        string    `json:"candidate_name"`
	InterviewDate        time.Time `json:"interview_date"`
	TotalQuestions       int       `json:"total_questions"`
	TotalDurationMinutes float64   `json:"total_duration_minutes"`
}

// InterviewData holds the collected question/answer pairs of a report
type InterviewData struct {
	QuestionsAndAnswers []QAPair `json:"questions_and_answers"`
	TranscriptionMethod string   `json:"transcription_method"`
}

// ReportMetadata describes how and when a report was generated
type ReportMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
	AIModelUsed string    `json:"ai_model_used"`
}

// Report is the persisted, immutable unit combining session, role,
// answers and evaluation. Written exactly once per session.
type Report struct {
	SessionInfo       SessionInfo    `json:"session_info"`
	RoleInformation   Role           `json:"role_information"`
	InterviewData     InterviewData  `json:"interview_data"`
	EvaluationResults Evaluation     `json:"evaluation_results"`
	Metadata          ReportMetadata `json:"metadata"`
}

// QuestionSet is a generated interview question list for one role
type QuestionSet struct {
	RoleID       string   `json:"role_id"`
	RoleTitle    string   `json:"role_title"`
	Introduction string   `json:"introduction"`
	Questions    []string `json:"questions"`
	Model        string   `json:"model"`
}

// Catalog is the on-disk shape of the role catalog file
type Catalog struct {
	Roles []Role `json:"roles"`
}
