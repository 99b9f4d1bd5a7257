package catalog

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "intervue/internal/errors"
)

const sampleCatalog = `{
  "roles": [
    {
      "id": "backend-developer",
      "title": "Backend Developer",
      "department": "Engineering",
      "experience_level": "Mid",
      "description": "Builds and maintains server-side services.",
      "key_skills": ["Go", "SQL", "API design"]
    },
    {
      "id": "data-scientist",
      "title": "Data Scientist",
      "department": "Data",
      "experience_level": "Senior",
      "description": "Builds models and analyses data.",
      "key_skills": ["Python", "statistics", "machine learning"]
    }
  ]
}`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roles.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalogFile(t, sampleCatalog)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	role, err := c.Get("backend-developer")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if role.Title != "Backend Developer" {
		t.Errorf("Get() title = %q, want %q", role.Title, "Backend Developer")
	}
	if len(role.KeySkills) != 3 {
		t.Errorf("Get() key skills = %d, want 3", len(role.KeySkills))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode string
	}{
		{
			name:     "invalid JSON",
			content:  "{not json",
			wantCode: apperrors.ErrCodeInvalidFormat,
		},
		{
			name:     "empty catalog",
			content:  `{"roles": []}`,
			wantCode: apperrors.ErrCodeInvalidFormat,
		},
		{
			name: "missing role id",
			content: `{"roles": [
				{"id": "", "title": "Backend Developer", "key_skills": ["Go"]}
			]}`,
			wantCode: apperrors.ErrCodeInvalidFormat,
		},
		{
			name: "missing title",
			content: `{"roles": [
				{"id": "backend-developer", "title": "", "key_skills": ["Go"]}
			]}`,
			wantCode: apperrors.ErrCodeInvalidFormat,
		},
		{
			name: "no key skills",
			content: `{"roles": [
				{"id": "backend-developer", "title": "Backend Developer", "key_skills": []}
			]}`,
			wantCode: apperrors.ErrCodeInvalidFormat,
		},
		{
			name: "duplicate role id",
			content: `{"roles": [
				{"id": "backend-developer", "title": "Backend Developer", "key_skills": ["Go"]},
				{"id": "backend-developer", "title": "Backend Developer II", "key_skills": ["Go"]}
			]}`,
			wantCode: apperrors.ErrCodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalogFile(t, tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}

			appErr, ok := err.(*apperrors.AppError)
			if !ok {
				t.Fatalf("Load() error type = %T, want *AppError", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("Load() error code = %q, want %q", appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Load() expected error, got nil")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("Load() error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeFileNotFound {
		t.Errorf("Load() error code = %q, want %q", appErr.Code, apperrors.ErrCodeFileNotFound)
	}
}

func TestRolesSortedByTitle(t *testing.T) {
	path := writeCatalogFile(t, `{"roles": [
		{"id": "z", "title": "Zoologist", "key_skills": ["biology"]},
		{"id": "a", "title": "Analyst", "key_skills": ["Excel"]},
		{"id": "m", "title": "Manager", "key_skills": ["planning"]}
	]}`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	roles := c.Roles()
	want := []string{"Analyst", "Manager", "Zoologist"}
	for i, title := range want {
		if roles[i].Title != title {
			t.Errorf("Roles()[%d].Title = %q, want %q", i, roles[i].Title, title)
		}
	}
}

func TestGetByTitle(t *testing.T) {
	path := writeCatalogFile(t, sampleCatalog)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	role, err := c.GetByTitle("backend developer")
	if err != nil {
		t.Fatalf("GetByTitle() error = %v", err)
	}
	if role.ID != "backend-developer" {
		t.Errorf("GetByTitle() id = %q, want %q", role.ID, "backend-developer")
	}

	if _, err := c.GetByTitle("Astronaut"); err == nil {
		t.Error("GetByTitle() expected error for unknown title")
	}
}

func TestReloadKeepsLastGoodOnFailure(t *testing.T) {
	path := writeCatalogFile(t, sampleCatalog)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("failed to overwrite catalog file: %v", err)
	}

	if err := c.Reload(); err == nil {
		t.Fatal("Reload() expected error for broken file")
	}

	// Previous role set must survive a failed reload
	if c.Len() != 2 {
		t.Errorf("Len() after failed reload = %d, want 2", c.Len())
	}
	if _, err := c.Get("data-scientist"); err != nil {
		t.Errorf("Get() after failed reload error = %v", err)
	}
}

func TestReloadPicksUpChanges(t *testing.T) {
	path := writeCatalogFile(t, sampleCatalog)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	updated := `{"roles": [
		{"id": "product-manager", "title": "Product Manager", "key_skills": ["roadmapping"]}
	]}`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to overwrite catalog file: %v", err)
	}

	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if c.Len() != 1 {
		t.Errorf("Len() after reload = %d, want 1", c.Len())
	}
	if _, err := c.Get("backend-developer"); err == nil {
		t.Error("Get() expected error for removed role")
	}
}
