package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"intervue/internal/errors"
	"intervue/internal/types"
)

// Snapshot is the serializable form of a session, written after every
// submitted answer so an interrupted interview can resume.
type Snapshot struct {
	ID                  string         `json:"session_id"`
	Stage               Stage          `json:"stage"`
	Role                types.Role     `json:"role"`
	CandidateName       string         `json:"candidate_name"`
	Introduction        string         `json:"introduction"`
	Questions           []string       `json:"questions"`
	Answers             []types.QAPair `json:"answers"`
	CurrentIndex        int            `json:"current_index"`
	TranscriptionMethod string         `json:"transcription_method"`
	Model               string         `json:"ai_model,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	StartedAt           time.Time      `json:"started_at"`
	SavedAt             time.Time      `json:"saved_at"`
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:                  s.id,
		Stage:               s.stage,
		Role:                s.role,
		CandidateName:       s.candidateName,
		Introduction:        s.introduction,
		Questions:           append([]string(nil), s.questions...),
		Answers:             append([]types.QAPair(nil), s.answers...),
		CurrentIndex:        s.currentIndex,
		TranscriptionMethod: s.transcriptionMethod,
		Model:               s.model,
		CreatedAt:           s.createdAt,
		StartedAt:           s.startedAt,
		SavedAt:             time.Now(),
	}
}

// Restore builds a session from a snapshot.
func Restore(snap Snapshot) (*Session, error) {
	if snap.ID == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"snapshot has no session id", nil)
	}
	switch snap.Stage {
	case StageWelcome, StageSetup, StageInProgress, StageComplete:
	default:
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("snapshot has unknown stage: %s", snap.Stage), nil)
	}
	if snap.CurrentIndex < 0 || (len(snap.Questions) > 0 && snap.CurrentIndex >= len(snap.Questions)) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("snapshot index %d out of range", snap.CurrentIndex), nil)
	}
	if len(snap.Answers) > len(snap.Questions) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"snapshot has more answers than questions", nil)
	}

	return &Session{
		id:                  snap.ID,
		stage:               snap.Stage,
		role:                snap.Role,
		candidateName:       snap.CandidateName,
		introduction:        snap.Introduction,
		questions:           append([]string(nil), snap.Questions...),
		answers:             append([]types.QAPair(nil), snap.Answers...),
		currentIndex:        snap.CurrentIndex,
		transcriptionMethod: snap.TranscriptionMethod,
		model:               snap.Model,
		createdAt:           snap.CreatedAt,
		startedAt:           snap.StartedAt,
	}, nil
}

// Checkpointer persists session snapshots as JSON files in a
// directory, one file per session.
type Checkpointer struct {
	dir    string
	logger *errors.Logger
}

// NewCheckpointer creates the checkpoint directory if needed.
func NewCheckpointer(dir string, logger *errors.Logger) (*Checkpointer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot create session directory: %s", dir), err)
	}
	return &Checkpointer{dir: dir, logger: logger}, nil
}

func (c *Checkpointer) path(sessionID string) string {
	return filepath.Join(c.dir, sessionID+".json")
}

// Save writes the session's snapshot. The write is atomic: a rename
// replaces the previous checkpoint.
func (c *Checkpointer) Save(s *Session) error {
	snap := s.Snapshot()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat,
			"cannot encode session snapshot", err)
	}

	target := c.path(snap.ID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.NewIOError(errors.ErrCodeReportSaveFailed,
			fmt.Sprintf("cannot write session checkpoint: %s", tmp), err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return errors.NewIOError(errors.ErrCodeReportSaveFailed,
			fmt.Sprintf("cannot finalize session checkpoint: %s", target), err)
	}

	if c.logger != nil {
		c.logger.Debug("Session checkpoint saved",
			"session_id", snap.ID,
			"answers", len(snap.Answers))
	}
	return nil
}

// Load reads a session checkpoint by id.
func (c *Checkpointer) Load(sessionID string) (*Session, error) {
	data, err := os.ReadFile(c.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("no checkpoint for session: %s", sessionID), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read session checkpoint: %s", sessionID), err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("session checkpoint is not valid JSON: %s", sessionID), err)
	}

	return Restore(snap)
}

// Remove deletes a session's checkpoint, typically after its report
// has been written.
func (c *Checkpointer) Remove(sessionID string) error {
	err := os.Remove(c.path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot remove session checkpoint: %s", sessionID), err)
	}
	return nil
}
