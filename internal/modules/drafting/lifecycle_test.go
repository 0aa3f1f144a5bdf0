package drafting

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/postflow/core/internal/models"
	"github.com/postflow/core/internal/modules/generation"
	"github.com/postflow/core/internal/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubGateway scripts generation results and counts calls.
type stubGateway struct {
	generateFn    func(ctx context.Context, req generation.GenerateRequest) (string, error)
	refineFn      func(ctx context.Context, current, instruction string) (string, error)
	generateCalls atomic.Int32
	refineCalls   atomic.Int32
}

func (s *stubGateway) Generate(ctx context.Context, req generation.GenerateRequest) (string, error) {
	s.generateCalls.Add(1)
	if s.generateFn == nil {
		return "generated content", nil
	}
	return s.generateFn(ctx, req)
}

func (s *stubGateway) Refine(ctx context.Context, current, instruction string) (string, error) {
	s.refineCalls.Add(1)
	if s.refineFn == nil {
		return "refined content", nil
	}
	return s.refineFn(ctx, current, instruction)
}

type testEnv struct {
	store *Store
	mgr   *Manager
	gw    *stubGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return newTestEnvWith(t, backend)
}

func newTestEnvWith(t *testing.T, backend kv.Store) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	store := NewStore(backend, logger)
	records, _, _ := store.Load(context.Background())

	queue := newRunningQueue(t)
	gw := &stubGateway{}
	return &testEnv{
		store: store,
		mgr:   NewManager(store, gw, queue, logger, records),
		gw:    gw,
	}
}

func mustCreate(t *testing.T, env *testEnv, idea string) models.DraftRecord {
	t.Helper()
	record, err := env.mgr.Create(context.Background(), idea,
		models.PlatformLinkedIn, models.ToneProfessional, models.LengthMedium)
	require.NoError(t, err)
	return record
}

func TestCreateDraftScenario(t *testing.T) {
	env := newTestEnv(t)
	env.gw.generateFn = func(_ context.Context, req generation.GenerateRequest) (string, error) {
		assert.Equal(t, "Launch day!", req.Idea)
		assert.Equal(t, models.PlatformLinkedIn, req.Platform)
		assert.Equal(t, models.ToneProfessional, req.Tone)
		assert.Equal(t, models.LengthMedium, req.Length)
		return "We launched! 🚀", nil
	}

	record := mustCreate(t, env, "Launch day!")

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Launch day!", record.OriginalIdea)
	assert.Equal(t, "We launched! 🚀", record.Content)
	assert.Equal(t, models.PlatformLinkedIn, record.Platform)
	assert.NotZero(t, record.Timestamp)

	list := env.mgr.List()
	require.Len(t, list, 1)
	assert.Equal(t, record, list[0])

	current, ok := env.mgr.Current()
	require.True(t, ok)
	assert.Equal(t, record.ID, current.ID)
}

func TestCreateMintsUniqueIDs(t *testing.T) {
	env := newTestEnv(t)

	seen := map[string]bool{}
	for i := 0; i < 25; i++ {
		record := mustCreate(t, env, "idea")
		assert.False(t, seen[record.ID], "duplicate id %s", record.ID)
		seen[record.ID] = true
	}
	assert.Len(t, env.mgr.List(), 25)
}

func TestCreateValidationRejectedBeforeGatewayCall(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.mgr.Create(context.Background(), "   ",
		models.PlatformLinkedIn, models.ToneProfessional, models.LengthMedium)
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.mgr.Create(context.Background(), "idea",
		models.Platform("MySpace"), models.ToneProfessional, models.LengthMedium)
	require.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, env.gw.generateCalls.Load())
	assert.Empty(t, env.mgr.List())
}

func TestCreateFailureAddsNothing(t *testing.T) {
	env := newTestEnv(t)
	env.gw.generateFn = func(context.Context, generation.GenerateRequest) (string, error) {
		return "", &generation.Error{Message: "service unreachable"}
	}

	_, err := env.mgr.Create(context.Background(), "idea",
		models.PlatformBlog, models.ToneWitty, models.LengthShort)
	require.Error(t, err)
	assert.True(t, generation.IsError(err))

	assert.Empty(t, env.mgr.List())
	_, ok := env.mgr.Current()
	assert.False(t, ok)
}

func TestRecencyOrderingAndDeletion(t *testing.T) {
	env := newTestEnv(t)

	a := mustCreate(t, env, "A")
	b := mustCreate(t, env, "B")

	list := env.mgr.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	require.NoError(t, env.mgr.Delete(context.Background(), a.ID))
	list = env.mgr.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	require.NoError(t, env.mgr.Delete(context.Background(), b.ID))
	assert.Empty(t, env.mgr.List())
}

func TestDeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	record := mustCreate(t, env, "idea")

	require.NoError(t, env.mgr.Delete(context.Background(), record.ID))
	require.NoError(t, env.mgr.Delete(context.Background(), record.ID))
	assert.Empty(t, env.mgr.List())
}

func TestDeleteClearsCurrentSelection(t *testing.T) {
	env := newTestEnv(t)
	keep := mustCreate(t, env, "keep")
	record := mustCreate(t, env, "doomed")

	_, ok := env.mgr.Current()
	require.True(t, ok)

	require.NoError(t, env.mgr.Delete(context.Background(), record.ID))
	_, ok = env.mgr.Current()
	assert.False(t, ok)

	// deleting a non-current draft leaves the selection alone
	other := mustCreate(t, env, "other")
	_, err := env.mgr.Select(keep.ID)
	require.NoError(t, err)
	require.NoError(t, env.mgr.Delete(context.Background(), other.ID))
	current, ok := env.mgr.Current()
	require.True(t, ok)
	assert.Equal(t, keep.ID, current.ID)
}

func TestRefineScenario(t *testing.T) {
	env := newTestEnv(t)
	env.gw.generateFn = func(context.Context, generation.GenerateRequest) (string, error) {
		return "We launched! 🚀", nil
	}
	record := mustCreate(t, env, "Launch day!")

	env.gw.refineFn = func(_ context.Context, current, instruction string) (string, error) {
		assert.Equal(t, "We launched! 🚀", current)
		assert.Equal(t, "make it funnier", instruction)
		return "We launched and the coffee machine still doesn't work 🚀☕", nil
	}

	updated, err := env.mgr.Refine(context.Background(), record.ID, "make it funnier")
	require.NoError(t, err)

	assert.Equal(t, record.ID, updated.ID)
	assert.Equal(t, record.OriginalIdea, updated.OriginalIdea)
	assert.Equal(t, record.Platform, updated.Platform)
	assert.Equal(t, record.Tone, updated.Tone)
	assert.Equal(t, "We launched and the coffee machine still doesn't work 🚀☕", updated.Content)
	assert.GreaterOrEqual(t, updated.Timestamp, record.Timestamp)

	got, ok := env.mgr.Get(record.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got)
}

func TestRefineMovesRecordToFront(t *testing.T) {
	env := newTestEnv(t)
	a := mustCreate(t, env, "A")
	b := mustCreate(t, env, "B")

	_, err := env.mgr.Refine(context.Background(), a.ID, "tighten it up")
	require.NoError(t, err)

	list := env.mgr.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
}

func TestRefineFailureLeavesRecordUnchanged(t *testing.T) {
	env := newTestEnv(t)
	record := mustCreate(t, env, "idea")
	before, ok := env.mgr.Get(record.ID)
	require.True(t, ok)

	env.gw.refineFn = func(context.Context, string, string) (string, error) {
		return "", &generation.Error{Message: "rejected"}
	}

	_, err := env.mgr.Refine(context.Background(), record.ID, "make it pop")
	require.Error(t, err)
	assert.True(t, generation.IsError(err))

	after, ok := env.mgr.Get(record.ID)
	require.True(t, ok)
	assert.Equal(t, before, after)

	// current selection is kept so the user keeps viewing the old content
	current, ok := env.mgr.Current()
	require.True(t, ok)
	assert.Equal(t, record.ID, current.ID)
}

func TestRefineValidation(t *testing.T) {
	env := newTestEnv(t)
	record := mustCreate(t, env, "idea")

	_, err := env.mgr.Refine(context.Background(), record.ID, "  ")
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, env.gw.refineCalls.Load())

	_, err = env.mgr.Refine(context.Background(), "no-such-id", "instruction")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, env.gw.refineCalls.Load())
}

func TestResetAllClearsEverything(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		mustCreate(t, env, "idea")
	}

	require.NoError(t, env.mgr.ResetAll(context.Background()))

	assert.Empty(t, env.mgr.List())
	_, ok := env.mgr.Current()
	assert.False(t, ok)

	records, _, _ := env.store.Load(context.Background())
	assert.Empty(t, records)
}

func TestStaleGenerationDiscardedAfterReset(t *testing.T) {
	env := newTestEnv(t)

	release := make(chan struct{})
	env.gw.generateFn = func(context.Context, generation.GenerateRequest) (string, error) {
		<-release
		return "late content", nil
	}

	result := make(chan error, 1)
	go func() {
		_, err := env.mgr.Create(context.Background(), "slow idea",
			models.PlatformBlog, models.ToneCasual, models.LengthLong)
		result <- err
	}()

	// sign-out lands while the generation call is still suspended
	waitForCalls(t, env.gw.generateCalls.Load, 1)
	require.NoError(t, env.mgr.ResetAll(context.Background()))
	close(release)

	err := <-result
	require.ErrorIs(t, err, ErrSessionEnded)
	assert.Empty(t, env.mgr.List())

	records, _, _ := env.store.Load(context.Background())
	assert.Empty(t, records)
}

func TestRefineOfDraftDeletedMidFlight(t *testing.T) {
	env := newTestEnv(t)
	record := mustCreate(t, env, "idea")

	release := make(chan struct{})
	env.gw.refineFn = func(context.Context, string, string) (string, error) {
		<-release
		return "late refinement", nil
	}

	result := make(chan error, 1)
	go func() {
		_, err := env.mgr.Refine(context.Background(), record.ID, "instruction")
		result <- err
	}()

	waitForCalls(t, env.gw.refineCalls.Load, 1)
	require.NoError(t, env.mgr.Delete(context.Background(), record.ID))
	close(release)

	require.ErrorIs(t, <-result, ErrNotFound)
	assert.Empty(t, env.mgr.List())
}

// faultyStore passes reads through and fails every write while tripped.
type faultyStore struct {
	kv.Store
	failWrites bool
}

func (s *faultyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failWrites {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

func TestWriteFailureLeavesMemoryAuthoritative(t *testing.T) {
	backend, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)
	faulty := &faultyStore{Store: backend}
	env := newTestEnvWith(t, faulty)
	ctx := context.Background()

	faulty.failWrites = true

	record := mustCreate(t, env, "idea")
	list := env.mgr.List()
	require.Len(t, list, 1)
	assert.Equal(t, record.ID, list[0].ID)

	updated, err := env.mgr.Refine(ctx, record.ID, "tighten it up")
	require.NoError(t, err)
	assert.Equal(t, "refined content", updated.Content)

	require.NoError(t, env.mgr.Delete(ctx, record.ID))
	assert.Empty(t, env.mgr.List())
	require.NoError(t, env.mgr.ResetAll(ctx))

	// nothing reached the backend while writes were failing
	records, _, _ := env.store.Load(ctx)
	assert.Empty(t, records)

	faulty.failWrites = false
	recovered := mustCreate(t, env, "after recovery")
	records, _, _ = env.store.Load(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, recovered.ID, records[0].ID)
}

func TestPersistedStateSurvivesRestart(t *testing.T) {
	backend, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	env := newTestEnvWith(t, backend)
	a := mustCreate(t, env, "A")
	b := mustCreate(t, env, "B")

	reloaded := newTestEnvWith(t, backend)
	list := reloaded.mgr.List()
	require.Len(t, list, 2)
	assert.Equal(t, b, list[0])
	assert.Equal(t, a, list[1])
}

