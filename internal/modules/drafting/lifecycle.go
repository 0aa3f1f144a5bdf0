package drafting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/postflow/core/internal/models"
	"github.com/postflow/core/internal/modules/generation"
	"github.com/postflow/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

var (
	// ErrValidation marks rejected input; no external call or mutation has
	// happened when it is returned.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound marks a lookup of a draft id not in the collection.
	ErrNotFound = errors.New("draft not found")
	// ErrSessionEnded marks a generation result discarded because the
	// session was reset while the call was in flight.
	ErrSessionEnded = errors.New("session ended before the draft completed")
)

// Manager is the draft lifecycle manager: the only component that mutates the
// collection. All mutations run on a single serial queue; generation calls
// suspend outside it and apply their result as a queued mutation guarded by a
// session epoch, so a sign-out mid-flight discards the stale completion.
type Manager struct {
	mu    sync.RWMutex
	store *Store
	gw    generation.Gateway
	queue *taskqueue.Queue
	log   *zap.Logger

	records   []models.DraftRecord // front = most recently created or modified
	currentID string
	epoch     uint64 // bumped on ResetAll
}

func NewManager(store *Store, gw generation.Gateway, queue *taskqueue.Queue, log *zap.Logger, initial []models.DraftRecord) *Manager {
	return &Manager{
		store:   store,
		gw:      gw,
		queue:   queue,
		log:     log,
		records: initial,
	}
}

// Create generates content for the idea and prepends a new record.
// On any failure the collection is unchanged and no record exists.
func (m *Manager) Create(ctx context.Context, idea string, platform models.Platform, tone models.Tone, length models.Length) (models.DraftRecord, error) {
	var zero models.DraftRecord

	if strings.TrimSpace(idea) == "" {
		return zero, fmt.Errorf("%w: idea must not be empty", ErrValidation)
	}
	if !platform.Valid() {
		return zero, fmt.Errorf("%w: unknown platform %q", ErrValidation, platform)
	}
	if !tone.Valid() {
		return zero, fmt.Errorf("%w: unknown tone %q", ErrValidation, tone)
	}
	if !length.Valid() {
		return zero, fmt.Errorf("%w: unknown length %q", ErrValidation, length)
	}

	epoch := m.currentEpoch()
	content, err := m.gw.Generate(ctx, generation.GenerateRequest{
		Idea:     idea,
		Platform: platform,
		Tone:     tone,
		Length:   length,
	})
	if err != nil {
		return zero, err
	}

	record := models.DraftRecord{
		ID:           uuid.New().String(),
		OriginalIdea: idea,
		Content:      content,
		Platform:     platform,
		Tone:         tone,
	}

	applied := false
	err = m.queue.Submit(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.epoch != epoch {
			return
		}
		record.Timestamp = time.Now().UnixMilli()
		m.records = append([]models.DraftRecord{record}, m.records...)
		m.currentID = record.ID
		m.persistLocked()
		applied = true
	})
	if err != nil {
		return zero, err
	}
	if !applied {
		return zero, ErrSessionEnded
	}
	return record, nil
}

// Refine rewrites the content of the draft with the given id per the
// instruction. On success only content and timestamp change and the record
// moves to the front; on failure the stored record is untouched and the
// current selection is kept.
func (m *Manager) Refine(ctx context.Context, id, instruction string) (models.DraftRecord, error) {
	var zero models.DraftRecord

	if strings.TrimSpace(instruction) == "" {
		return zero, fmt.Errorf("%w: refinement instruction must not be empty", ErrValidation)
	}

	target, ok := m.Get(id)
	if !ok {
		return zero, ErrNotFound
	}

	epoch := m.currentEpoch()
	content, err := m.gw.Refine(ctx, target.Content, instruction)
	if err != nil {
		return zero, err
	}

	var updated models.DraftRecord
	applied := false
	err = m.queue.Submit(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.epoch != epoch {
			return
		}
		idx := m.indexLocked(id)
		if idx < 0 {
			// deleted while the call was in flight
			return
		}
		updated = m.records[idx]
		updated.Content = content
		updated.Timestamp = time.Now().UnixMilli()
		m.records = append(m.records[:idx], m.records[idx+1:]...)
		m.records = append([]models.DraftRecord{updated}, m.records...)
		m.currentID = updated.ID
		m.persistLocked()
		applied = true
	})
	if err != nil {
		return zero, err
	}
	if !applied {
		if m.currentEpoch() != epoch {
			return zero, ErrSessionEnded
		}
		return zero, ErrNotFound
	}
	return updated, nil
}

// Delete removes the draft with the given id. Removing an absent id is a
// no-op, not an error. If the deleted draft was the current selection, the
// selection is cleared.
func (m *Manager) Delete(ctx context.Context, id string) error {
	_ = ctx
	return m.queue.Submit(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		idx := m.indexLocked(id)
		if idx < 0 {
			return
		}
		m.records = append(m.records[:idx], m.records[idx+1:]...)
		if m.currentID == id {
			m.currentID = ""
		}
		m.persistLocked()
	})
}

// Get is a pure lookup by id.
func (m *Manager) Get(id string) (models.DraftRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx := m.indexLocked(id)
	if idx < 0 {
		return models.DraftRecord{}, false
	}
	return m.records[idx], true
}

// List returns a copy of the collection in recency order.
func (m *Manager) List() []models.DraftRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.DraftRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Current returns the currently selected draft, if any.
func (m *Manager) Current() (models.DraftRecord, bool) {
	m.mu.RLock()
	id := m.currentID
	m.mu.RUnlock()
	if id == "" {
		return models.DraftRecord{}, false
	}
	return m.Get(id)
}

// Select marks the draft with the given id as the current selection.
func (m *Manager) Select(id string) (models.DraftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexLocked(id)
	if idx < 0 {
		return models.DraftRecord{}, ErrNotFound
	}
	m.currentID = id
	return m.records[idx], nil
}

// ResetAll clears the collection and selection and persists the empty
// collection. In-flight generation results from before the reset are
// discarded when they complete. Used exclusively by sign-out.
func (m *Manager) ResetAll(ctx context.Context) error {
	_ = ctx
	return m.queue.Submit(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.records = nil
		m.currentID = ""
		m.epoch++
		m.persistLocked()
	})
}

func (m *Manager) currentEpoch() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch
}

// indexLocked requires m.mu held (read or write).
func (m *Manager) indexLocked(id string) int {
	for i := range m.records {
		if m.records[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked requires m.mu held for writing. Persistence is best-effort:
// a write failure leaves the in-memory collection authoritative for the
// running session.
func (m *Manager) persistLocked() {
	if err := m.store.SaveDrafts(context.Background(), m.records); err != nil {
		m.log.Error("failed to persist draft collection", zap.Error(err), zap.Int("records", len(m.records)))
	}
}
