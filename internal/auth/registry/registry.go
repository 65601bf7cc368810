// Package registry holds the fixed account directory. It is loaded once
// at process start and shared read-only across all request handlers,
// this is a small personal-use directory, not a user store.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/domain"
	"github.com/Damatnic/astral-planner-sub006/pkg/cryptox"
)

// ErrNotFound reports an account id absent from the directory.
var ErrNotFound = errors.New("registry: account not found")

// Registry is an immutable account directory with constant-time lookup.
type Registry struct {
	accounts map[string]domain.Account
}

// accountFile is the JSON shape of a directory entry on disk.
type accountFile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Pin         string `json:"pin"`
	IsDemo      bool   `json:"isDemo"`
	IsPremium   bool   `json:"isPremium"`
}

// DefaultAccounts is the built-in directory used when no accounts file
// is configured.
func DefaultAccounts() []domain.Account {
	return []domain.Account{
		{ID: "demo-user", DisplayName: "Demo Explorer", PINReference: "0000", Demo: true},
		{ID: "nick", DisplayName: "Nick", PINReference: "7347", Premium: true},
		{ID: "guest", DisplayName: "Guest", PINReference: "2580"},
	}
}

// New builds a registry from a list of accounts, validating the directory
// shape up front so a malformed entry fails at startup, not at login time.
func New(accounts []domain.Account) (*Registry, error) {
	if len(accounts) == 0 {
		return nil, errors.New("registry: empty account directory")
	}

	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		if a.ID == "" {
			return nil, errors.New("registry: account with empty id")
		}
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate account id %q", a.ID)
		}
		if a.DisplayName == "" {
			return nil, fmt.Errorf("registry: account %q missing display name", a.ID)
		}
		if !validReference(a.PINReference) {
			return nil, fmt.Errorf("registry: account %q has invalid pin reference", a.ID)
		}
		byID[a.ID] = a
	}

	return &Registry{accounts: byID}, nil
}

// LoadFile reads an account directory from a JSON file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read accounts file: %w", err)
	}

	var entries []accountFile
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("registry: parse accounts file: %w", err)
	}

	accounts := make([]domain.Account, 0, len(entries))
	for _, e := range entries {
		accounts = append(accounts, domain.Account{
			ID:           e.ID,
			DisplayName:  e.DisplayName,
			PINReference: e.Pin,
			Demo:         e.IsDemo,
			Premium:      e.IsPremium,
		})
	}

	return New(accounts)
}

// Lookup returns the account for an id, or ErrNotFound.
func (r *Registry) Lookup(id string) (domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, ErrNotFound
	}
	return a, nil
}

// Len reports the directory size.
func (r *Registry) Len() int { return len(r.accounts) }

// validReference accepts a literal 4-digit PIN or an Argon2id PHC string.
func validReference(ref string) bool {
	if cryptox.IsHashedReference(ref) {
		return true
	}
	if len(ref) != 4 {
		return false
	}
	for i := 0; i < len(ref); i++ {
		if ref[i] < '0' || ref[i] > '9' {
			return false
		}
	}
	return true
}
