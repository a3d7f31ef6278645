// Package chart holds the chart of accounts and hands out read-only
// snapshots of it. Onboarding appends accounts; the categorization engine
// only ever reads.
package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// ErrCycleDetected is returned by ValidateTree when parent links loop.
var ErrCycleDetected = errors.New("cycle in chart of accounts")

// ErrUnknownParent is returned by ValidateTree when a parent ID does not resolve.
var ErrUnknownParent = errors.New("unknown parent account")

// Snapshot is an immutable view of the chart of accounts. Readers may hold
// one across an oracle call without synchronization; it never changes.
type Snapshot struct {
	accounts []model.Account
	byID     map[int]model.Account
}

func newSnapshot(accounts []model.Account) *Snapshot {
	byID := make(map[int]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Snapshot{accounts: accounts, byID: byID}
}

// All returns all accounts in insertion order.
func (s *Snapshot) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Snapshot) Get(id int) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Snapshot) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Snapshot) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// FindByName returns the first account whose name matches, case-insensitively.
// Oracle responses sometimes name accounts rather than numbering them.
func (s *Snapshot) FindByName(name string) (model.Account, bool) {
	for _, a := range s.accounts {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return model.Account{}, false
}

// ValidateTree checks the parent links: every ParentID must resolve and
// following parents must terminate at a top-level account. A malformed
// tree is fatal to categorization.
func (s *Snapshot) ValidateTree() error {
	for _, a := range s.accounts {
		seen := map[int]bool{a.ID: true}
		cur := a
		for cur.ParentID != 0 {
			parent, ok := s.byID[cur.ParentID]
			if !ok {
				return fmt.Errorf("account %d (%s) references parent %d: %w", a.ID, a.Name, cur.ParentID, ErrUnknownParent)
			}
			if seen[parent.ID] {
				return fmt.Errorf("account %d (%s): %w", a.ID, a.Name, ErrCycleDetected)
			}
			seen[parent.ID] = true
			cur = parent
		}
	}
	return nil
}

// Service owns the current chart snapshot. Appends replace the snapshot
// wholesale so concurrent readers keep a consistent view.
type Service struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	return &Service{snap: newSnapshot(accounts)}
}

// Load reads chart-of-accounts.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, "accounts", "chart-of-accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// Snapshot returns the current read-only view.
func (s *Service) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Append adds accounts and publishes a fresh snapshot. Duplicate IDs and
// invalid types are rejected; existing accounts are never modified.
func (s *Service) Append(accounts ...model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		if !a.Type.Valid() {
			return fmt.Errorf("account %d (%s): invalid type %q", a.ID, a.Name, a.Type)
		}
		if s.snap.Exists(a.ID) {
			return fmt.Errorf("account %d already exists", a.ID)
		}
	}

	combined := make([]model.Account, 0, len(s.snap.accounts)+len(accounts))
	combined = append(combined, s.snap.accounts...)
	combined = append(combined, accounts...)
	s.snap = newSnapshot(combined)
	return nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "chart-of-accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.Snapshot().All()); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
