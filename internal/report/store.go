package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"intervue/internal/errors"
	"intervue/internal/types"
)

// Store persists reports as JSON files under a single directory.
// Filenames are derived from the session ID and role title, and an
// existing file is never overwritten.
type Store struct {
	dir    string
	logger *errors.Logger
}

// NewStore creates the reports directory if needed.
func NewStore(dir string, logger *errors.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"reports directory not configured", nil)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeReportSaveFailed,
			"failed to create reports directory", err).
			WithContext("dir", dir)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Filename returns the on-disk name a report is saved under.
func Filename(r types.Report) string {
	title := strings.ToLower(strings.ReplaceAll(r.SessionInfo.RoleTitle, " ", "_"))
	return fmt.Sprintf("%s_%s_report.json", r.SessionInfo.SessionID, title)
}

// Save writes the report exactly once. A second save for the same
// session and role fails with REPORT_EXISTS.
func (s *Store) Save(r types.Report) (string, error) {
	name := Filename(r)
	path := filepath.Join(s.dir, name)

	if _, err := os.Stat(path); err == nil {
		return "", errors.NewIOError(errors.ErrCodeReportExists,
			"report already exists for this session", nil).
			WithContext("path", path)
	} else if !os.IsNotExist(err) {
		return "", errors.NewIOError(errors.ErrCodeReportSaveFailed,
			"failed to check existing report", err).
			WithContext("path", path)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeReportSaveFailed,
			"failed to encode report", err)
	}

	// Write to a temp file first so a crash never leaves a partial report.
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeReportSaveFailed,
			"failed to create temp report file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", errors.NewIOError(errors.ErrCodeReportSaveFailed,
			"failed to write report", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", errors.NewIOError(errors.ErrCodeReportSaveFailed,
			"failed to close report file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", errors.NewIOError(errors.ErrCodeReportSaveFailed,
			"failed to finalize report file", err).
			WithContext("path", path)
	}

	if s.logger != nil {
		s.logger.Info("Report saved",
			"session_id", r.SessionInfo.SessionID,
			"path", path)
	}
	return path, nil
}

// Load reads one report by filename.
func (s *Store) Load(name string) (types.Report, error) {
	var r types.Report
	path := filepath.Join(s.dir, filepath.Base(name))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, errors.NewIOError(errors.ErrCodeFileNotFound,
				"report not found", err).WithContext("path", path)
		}
		return r, errors.NewIOError(errors.ErrCodeFileNotReadable,
			"failed to read report", err).WithContext("path", path)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, errors.NewIOError(errors.ErrCodeInvalidFormat,
			"failed to parse report", err).WithContext("path", path)
	}
	return r, nil
}

// LoadBySession finds the report for a session ID, whatever role title
// the filename carries.
func (s *Store) LoadBySession(sessionID string) (types.Report, error) {
	var r types.Report
	matches, err := filepath.Glob(filepath.Join(s.dir, sessionID+"_*_report.json"))
	if err != nil || len(matches) == 0 {
		return r, errors.NewIOError(errors.ErrCodeFileNotFound,
			"no report for session", err).WithContext("session_id", sessionID)
	}
	return s.Load(filepath.Base(matches[0]))
}

// List returns all stored reports, most recent interview first.
// Unreadable files are skipped with a warning rather than failing the
// whole listing.
func (s *Store) List() ([]types.Report, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*_report.json"))
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			"failed to scan reports directory", err).WithContext("dir", s.dir)
	}

	reports := make([]types.Report, 0, len(matches))
	for _, path := range matches {
		r, err := s.Load(filepath.Base(path))
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("Skipping unreadable report",
					"path", path,
					"error", err.Error())
			}
			continue
		}
		reports = append(reports, r)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].SessionInfo.InterviewDate.After(reports[j].SessionInfo.InterviewDate)
	})
	return reports, nil
}
