// Package drafting owns the draft record collection: its durable store and
// the lifecycle manager that is the only component allowed to mutate it.
package drafting

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/postflow/core/internal/models"
	"github.com/postflow/core/internal/pkg/kv"
	"go.uber.org/zap"
)

// Storage keys match the original client's local-storage layout so a profile
// migrated from the browser build keeps its history.
const (
	historyKey  = "postflow_history_v1"
	userNameKey = "postflow_username_v1"
	themeKey    = "postflow_theme_v1"
)

// Store persists the draft collection, the writer name and the theme as three
// independent keys. The collection is always written wholesale.
type Store struct {
	kv  kv.Store
	log *zap.Logger
}

func NewStore(backend kv.Store, log *zap.Logger) *Store {
	return &Store{kv: backend, log: log}
}

// Load reads all persisted state. It never fails: unreadable or malformed
// data is logged and replaced by safe defaults (empty collection, no name,
// dark theme).
func (s *Store) Load(ctx context.Context) (records []models.DraftRecord, userName string, theme models.Theme) {
	theme = models.DefaultTheme

	if data, ok, err := s.kv.Get(ctx, historyKey); err != nil {
		s.log.Warn("failed to read draft history, starting empty", zap.Error(err))
	} else if ok {
		if err := json.Unmarshal(data, &records); err != nil {
			s.log.Warn("failed to parse draft history, starting empty", zap.Error(err))
			records = nil
		}
	}

	if data, ok, err := s.kv.Get(ctx, userNameKey); err != nil {
		s.log.Warn("failed to read user name", zap.Error(err))
	} else if ok {
		userName = strings.TrimSpace(string(data))
	}

	if data, ok, err := s.kv.Get(ctx, themeKey); err != nil {
		s.log.Warn("failed to read theme preference", zap.Error(err))
	} else if ok {
		if t := models.Theme(strings.TrimSpace(string(data))); t.Valid() {
			theme = t
		}
	}

	return records, userName, theme
}

// SaveDrafts overwrites the persisted collection with the given ordered
// sequence.
func (s *Store) SaveDrafts(ctx context.Context, records []models.DraftRecord) error {
	if records == nil {
		records = []models.DraftRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, historyKey, data)
}

// SaveUserName persists the writer display name.
func (s *Store) SaveUserName(ctx context.Context, name string) error {
	return s.kv.Set(ctx, userNameKey, []byte(name))
}

// ClearUserName removes the persisted identity.
func (s *Store) ClearUserName(ctx context.Context) error {
	return s.kv.Delete(ctx, userNameKey)
}

// SaveTheme persists the theme preference.
func (s *Store) SaveTheme(ctx context.Context, theme models.Theme) error {
	return s.kv.Set(ctx, themeKey, []byte(theme))
}
