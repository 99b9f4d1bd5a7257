// Package catalog loads and serves the interview role catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"intervue/internal/errors"
	"intervue/internal/types"
)

// Catalog holds the set of roles available for interviews. It is safe
// for concurrent use; Reload swaps the role set atomically.
type Catalog struct {
	mu    sync.RWMutex
	path  string
	roles []types.Role
	byID  map[string]types.Role
}

// Load reads the role catalog from a JSON file at path.
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the catalog file. On failure the previously loaded
// roles are kept and the error is returned.
func (c *Catalog) Reload() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewIOError(
				errors.ErrCodeFileNotFound,
				fmt.Sprintf("role catalog not found: %s", c.path),
				err,
			)
		}
		return errors.NewIOError(
			errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read role catalog: %s", c.path),
			err,
		)
	}

	roles, err := parseRoles(data)
	if err != nil {
		return err
	}

	byID := make(map[string]types.Role, len(roles))
	for _, role := range roles {
		if _, exists := byID[role.ID]; exists {
			return errors.NewValidationError(
				errors.ErrCodeInvalidFormat,
				fmt.Sprintf("duplicate role id in catalog: %s", role.ID),
				nil,
			)
		}
		byID[role.ID] = role
	}

	c.mu.Lock()
	c.roles = roles
	c.byID = byID
	c.mu.Unlock()

	return nil
}

func parseRoles(data []byte) ([]types.Role, error) {
	var catalog types.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, errors.NewValidationError(
			errors.ErrCodeInvalidFormat,
			"role catalog is not valid JSON",
			err,
		)
	}

	if len(catalog.Roles) == 0 {
		return nil, errors.NewValidationError(
			errors.ErrCodeInvalidFormat,
			"role catalog contains no roles",
			nil,
		)
	}

	for i, role := range catalog.Roles {
		if err := validateRole(i, role); err != nil {
			return nil, err
		}
	}

	return catalog.Roles, nil
}

func validateRole(index int, role types.Role) error {
	if strings.TrimSpace(role.ID) == "" {
		return errors.NewValidationError(
			errors.ErrCodeInvalidFormat,
			fmt.Sprintf("role at index %d has no id", index),
			nil,
		)
	}
	if strings.TrimSpace(role.Title) == "" {
		return errors.NewValidationError(
			errors.ErrCodeInvalidFormat,
			fmt.Sprintf("role %s has no title", role.ID),
			nil,
		)
	}
	if len(role.KeySkills) == 0 {
		return errors.NewValidationError(
			errors.ErrCodeInvalidFormat,
			fmt.Sprintf("role %s has no key skills", role.ID),
			nil,
		)
	}
	return nil
}

// Roles returns all roles sorted by title.
func (c *Catalog) Roles() []types.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()

	roles := make([]types.Role, len(c.roles))
	copy(roles, c.roles)
	sort.Slice(roles, func(i, j int) bool {
		return roles[i].Title < roles[j].Title
	})
	return roles
}

// Get returns the role with the given id.
func (c *Catalog) Get(id string) (types.Role, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	role, ok := c.byID[id]
	if !ok {
		return types.Role{}, errors.NewValidationError(
			errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown role: %s", id),
			nil,
		)
	}
	return role, nil
}

// GetByTitle returns the role with the given title, matched
// case-insensitively.
func (c *Catalog) GetByTitle(title string) (types.Role, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, role := range c.roles {
		if strings.EqualFold(role.Title, title) {
			return role, nil
		}
	}
	return types.Role{}, errors.NewValidationError(
		errors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown role: %s", title),
		nil,
	)
}

// Len returns the number of roles in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.roles)
}
