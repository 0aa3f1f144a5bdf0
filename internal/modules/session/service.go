// Package session gates all drafting operations behind a writer identity and
// owns the theme preference. The only states are Onboarding (no name) and
// Active (name set); ending a session is a destructive "switch user" reset,
// not a soft logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/postflow/core/internal/models"
	"github.com/postflow/core/internal/modules/drafting"
	"go.uber.org/zap"
)

// ErrSessionActive is returned by Establish while a writer is already signed
// in. Switching writers goes through End first.
var ErrSessionActive = errors.New("a session is already active: sign out first")

// Service holds the process-scoped session and theme state.
type Service struct {
	mu     sync.RWMutex
	store  *drafting.Store
	drafts *drafting.Manager
	log    *zap.Logger

	name  string
	theme models.Theme
}

// NewService seeds the session from state loaded at startup.
func NewService(store *drafting.Store, drafts *drafting.Manager, log *zap.Logger, name string, theme models.Theme) *Service {
	if !theme.Valid() {
		theme = models.DefaultTheme
	}
	return &Service{store: store, drafts: drafts, log: log, name: name, theme: theme}
}

// Active reports whether a writer name is established.
func (s *Service) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name != ""
}

// Snapshot returns the current name (empty in Onboarding) and theme.
func (s *Service) Snapshot() (string, models.Theme) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name, s.theme
}

// Establish records the writer name and moves Onboarding → Active. It is
// only valid while Onboarding; an active session must End before another
// writer can sign in.
func (s *Service) Establish(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", drafting.ErrValidation)
	}

	s.mu.Lock()
	if s.name != "" {
		s.mu.Unlock()
		return ErrSessionActive
	}
	s.name = name
	s.mu.Unlock()

	if err := s.store.SaveUserName(ctx, name); err != nil {
		s.log.Error("failed to persist user name", zap.Error(err))
	}
	return nil
}

// End wipes the draft collection and the persisted identity, moving
// Active → Onboarding. The reset is deliberate data destruction so the next
// writer starts clean.
func (s *Service) End(ctx context.Context) error {
	if err := s.drafts.ResetAll(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.name = ""
	s.mu.Unlock()

	if err := s.store.ClearUserName(ctx); err != nil {
		s.log.Error("failed to clear persisted user name", zap.Error(err))
	}
	return nil
}

// ToggleTheme flips light ↔ dark and persists the result.
func (s *Service) ToggleTheme(ctx context.Context) models.Theme {
	s.mu.Lock()
	s.theme = s.theme.Flip()
	theme := s.theme
	s.mu.Unlock()

	if err := s.store.SaveTheme(ctx, theme); err != nil {
		s.log.Error("failed to persist theme preference", zap.Error(err))
	}
	return theme
}
