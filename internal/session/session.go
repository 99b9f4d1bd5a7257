// Package session implements the interview session state machine.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"intervue/internal/errors"
	"intervue/internal/types"
)

// Stage is the lifecycle phase of an interview session.
type Stage string

const (
	StageWelcome    Stage = "welcome"
	StageSetup      Stage = "setup"
	StageInProgress Stage = "in_progress"
	StageComplete   Stage = "complete"
)

// Session tracks one candidate's progress through an interview. All
// methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id            string
	stage         Stage
	role          types.Role
	candidateName string

	introduction string
	questions    []string
	answers      []types.QAPair
	currentIndex int

	transcriptionMethod string
	model               string

	createdAt time.Time
	startedAt time.Time
	duration  time.Duration
}

// NewID generates a session identifier of the form
// session_YYYYMMDD_HHMMSS_xxxxxxxx.
func NewID() string {
	return fmt.Sprintf("session_%s_%s",
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8])
}

// New creates a session in the welcome stage.
func New() *Session {
	return &Session{
		id:        NewID(),
		stage:     StageWelcome,
		createdAt: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Stage returns the current lifecycle stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Role returns the role under interview.
func (s *Session) Role() types.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// CandidateName returns the candidate's name.
func (s *Session) CandidateName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidateName
}

// Introduction returns the interview introduction text.
func (s *Session) Introduction() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.introduction
}

// TranscriptionMethod returns the transcription backend that served
// this session.
func (s *Session) TranscriptionMethod() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcriptionMethod
}

// Model returns the name of the model that generated the questions, or
// "" when no interview has been started.
func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SetModel records which generation backend produced the questions.
func (s *Session) SetModel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = name
}

func invalidTransition(from Stage, action string) error {
	return errors.NewValidationError(errors.ErrCodeInvalidTransition,
		fmt.Sprintf("cannot %s from stage %s", action, from), nil)
}

// BeginSetup moves the session from welcome to setup, where a role and
// candidate are chosen.
func (s *Session) BeginSetup(role types.Role, candidateName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageWelcome && s.stage != StageSetup {
		return invalidTransition(s.stage, "begin setup")
	}

	s.stage = StageSetup
	s.role = role
	s.candidateName = candidateName
	return nil
}

// Start moves the session into the in_progress stage with the
// generated interview content.
func (s *Session) Start(introduction string, questions []string, transcriptionMethod string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageSetup {
		return invalidTransition(s.stage, "start interview")
	}
	if len(questions) == 0 {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"cannot start an interview without questions", nil)
	}

	s.stage = StageInProgress
	s.introduction = introduction
	s.questions = append([]string(nil), questions...)
	s.answers = s.answers[:0]
	s.currentIndex = 0
	s.transcriptionMethod = transcriptionMethod
	s.startedAt = time.Now()
	return nil
}

// CurrentQuestion returns the 0-based index and text of the question
// the session is positioned at.
func (s *Session) CurrentQuestion() (int, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageInProgress {
		return 0, "", invalidTransition(s.stage, "read current question")
	}
	return s.currentIndex, s.questions[s.currentIndex], nil
}

// TotalQuestions returns the number of questions in the interview.
func (s *Session) TotalQuestions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Questions returns a copy of the question list.
func (s *Session) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions := make([]string, len(s.questions))
	copy(questions, s.questions)
	return questions
}

// SubmitAnswer records the answer for the question at index. An
// already answered index is overwritten; answers must otherwise be
// filled in order.
func (s *Session) SubmitAnswer(index int, answer string, durationSeconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageInProgress {
		return invalidTransition(s.stage, "submit answer")
	}
	if index < 0 || index >= len(s.questions) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("question index %d out of range (have %d questions)", index, len(s.questions)), nil)
	}
	if index > len(s.answers) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("cannot answer question %d before question %d", index+1, len(s.answers)+1), nil)
	}

	pair := types.QAPair{
		QuestionNumber:  index + 1,
		Question:        s.questions[index],
		Answer:          answer,
		DurationSeconds: durationSeconds,
	}

	if index < len(s.answers) {
		s.answers[index] = pair
	} else {
		s.answers = append(s.answers, pair)
	}
	return nil
}

// Advance moves to the next question. The current question must have
// an answer, and the session must not be on the last question.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageInProgress {
		return invalidTransition(s.stage, "advance")
	}
	if s.currentIndex >= len(s.answers) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("question %d has no answer yet", s.currentIndex+1), nil)
	}
	if s.currentIndex >= len(s.questions)-1 {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"already at the last question", nil)
	}

	s.currentIndex++
	return nil
}

// Retreat moves back to the previous question so its answer can be
// revised.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageInProgress {
		return invalidTransition(s.stage, "retreat")
	}
	if s.currentIndex == 0 {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"already at the first question", nil)
	}

	s.currentIndex--
	return nil
}

// AtLastQuestion reports whether the session is positioned at the
// final question.
func (s *Session) AtLastQuestion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions) > 0 && s.currentIndex == len(s.questions)-1
}

// Complete moves the session to the complete stage. Every question
// must have an answer, and a session completes only once.
func (s *Session) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageInProgress {
		return invalidTransition(s.stage, "complete")
	}
	if len(s.answers) < len(s.questions) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("%d of %d questions answered", len(s.answers), len(s.questions)), nil)
	}

	s.stage = StageComplete
	s.duration = time.Since(s.startedAt)
	return nil
}

// Pairs returns a copy of the submitted question/answer pairs.
func (s *Session) Pairs() []types.QAPair {
	s.mu.Lock()
	defer s.mu.Unlock()

	pairs := make([]types.QAPair, len(s.answers))
	copy(pairs, s.answers)
	return pairs
}

// AnsweredCount returns how many questions have answers.
func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// StartedAt returns when the interview moved to in_progress.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// DurationMinutes returns the interview length in minutes. Before
// completion it measures against the current time.
func (s *Session) DurationMinutes() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startedAt.IsZero() {
		return 0
	}
	if s.stage == StageComplete {
		return s.duration.Minutes()
	}
	return time.Since(s.startedAt).Minutes()
}

// Reset returns the session to the welcome stage under a fresh
// identifier, dropping all interview state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = NewID()
	s.stage = StageWelcome
	s.role = types.Role{}
	s.candidateName = ""
	s.introduction = ""
	s.questions = nil
	s.answers = nil
	s.currentIndex = 0
	s.transcriptionMethod = ""
	s.createdAt = time.Now()
	s.startedAt = time.Time{}
	s.duration = 0
}
