package service

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchpad-labs/launchpad-backend/internal/projects/domain"
	"github.com/launchpad-labs/launchpad-backend/internal/projects/repository"
)

// fakeProjectStore mimics the SQL store's semantics in memory: ownership
// and mode checks inside the lookup, full-replace upgrade, expiry cleared.
type fakeProjectStore struct {
	records map[string]*domain.Project
	nextID  int
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{records: make(map[string]*domain.Project)}
}

func (f *fakeProjectStore) Create(_ context.Context, userID, name string, expiresIn time.Duration) (*domain.Project, error) {
	f.nextID++
	exp := time.Now().UTC().Add(expiresIn)
	p := &domain.Project{
		ID:          "p" + strconv.Itoa(f.nextID),
		UserID:      userID,
		Name:        name,
		StorageMode: domain.StorageModeMemory,
		ExpiresAt:   &exp,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	f.records[p.ID] = p
	return clone(p), nil
}

func (f *fakeProjectStore) FindOwned(_ context.Context, projectID, userID string, mode domain.StorageMode) (*domain.Project, error) {
	p, ok := f.records[projectID]
	if !ok || p.UserID != userID || p.StorageMode != mode {
		return nil, domain.ErrProjectNotFound
	}
	return clone(p), nil
}

func (f *fakeProjectStore) Upgrade(_ context.Context, projectID, userID string, stages domain.StageOutputs) (*domain.Project, error) {
	p, ok := f.records[projectID]
	if !ok || p.UserID != userID || p.StorageMode != domain.StorageModeMemory {
		return nil, domain.ErrProjectNotFound
	}
	p.StorageMode = domain.StorageModePersistent
	p.Stages = stages
	p.ExpiresAt = nil
	p.UpdatedAt = time.Now().UTC()
	return clone(p), nil
}

func clone(p *domain.Project) *domain.Project {
	cp := *p
	return &cp
}

func setupLifecycle(t *testing.T) (*LifecycleService, *repository.SessionProjectRepository, *fakeProjectStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := repository.NewSessionProjectRepository(client, 24*time.Hour)
	projects := newFakeProjectStore()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return NewLifecycleService(sessions, projects, 7*24*time.Hour, log), sessions, projects, mr
}

func seedSession(t *testing.T, sessions *repository.SessionProjectRepository, id, userID string, stages domain.StageOutputs) *domain.SessionProject {
	t.Helper()
	sp := &domain.SessionProject{
		ID:     id,
		UserID: userID,
		Name:   "acme",
		Stages: stages,
	}
	require.NoError(t, sessions.Put(context.Background(), sp))
	return sp
}

func TestGetProject_ReturnsSessionFieldsAndExtends(t *testing.T) {
	svc, sessions, _, mr := setupLifecycle(t)
	ctx := context.Background()

	stages := domain.StageOutputs{Idea: json.RawMessage(`{"title":"X"}`)}
	sp := seedSession(t, sessions, "p1", "u1", stages)

	mr.FastForward(23 * time.Hour) // 1h left on the window

	view, err := svc.GetProject(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.Equal(t, sp.ID, view.ID)
	assert.Equal(t, "acme", view.Name)
	assert.Equal(t, "u1", view.UserID)
	assert.WithinDuration(t, sp.LastAccessedAt, view.UpdatedAt, time.Second)
	assert.JSONEq(t, `{"title":"X"}`, string(view.Idea))

	// the read pushed the expiry out past what was left
	ttl := mr.TTL("session:project:p1")
	assert.Greater(t, ttl, 1*time.Hour)
	assert.LessOrEqual(t, ttl, 2*time.Hour)
}

func TestGetProject_NeverShortensFreshWindow(t *testing.T) {
	svc, sessions, _, mr := setupLifecycle(t)
	ctx := context.Background()

	seedSession(t, sessions, "p1", "u1", domain.StageOutputs{})

	// Reading a record that still has its full 24h window must not cut
	// the window down to the 2h extension.
	_, err := svc.GetProject(ctx, "p1", "u1")
	require.NoError(t, err)

	assert.Greater(t, mr.TTL("session:project:p1"), 23*time.Hour)
}

func TestGetProject_NotOwnerIsNotFound(t *testing.T) {
	svc, sessions, _, _ := setupLifecycle(t)

	seedSession(t, sessions, "p1", "u1", domain.StageOutputs{})

	view, err := svc.GetProject(context.Background(), "p1", "u2")
	assert.Nil(t, view)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestGetProject_NoPersistentFallback(t *testing.T) {
	svc, _, projects, _ := setupLifecycle(t)
	ctx := context.Background()

	// durable row exists but there is no session copy
	p, err := projects.Create(ctx, "u1", "acme", time.Hour)
	require.NoError(t, err)

	_, err = svc.GetProject(ctx, p.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestUpgradeProject_Success(t *testing.T) {
	svc, sessions, projects, _ := setupLifecycle(t)
	ctx := context.Background()

	p, err := projects.Create(ctx, "u1", "acme", time.Hour)
	require.NoError(t, err)
	seedSession(t, sessions, p.ID, "u1", domain.StageOutputs{
		Idea:     json.RawMessage(`{"title":"X"}`),
		Research: json.RawMessage(`{"notes":"old"}`),
	})

	// full replace: only idea survives, research is explicitly null
	view, err := svc.UpgradeProject(ctx, p.ID, "u1", domain.StageOutputs{
		Idea:     json.RawMessage(`{"title":"X"}`),
		Research: json.RawMessage(`null`),
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, view.ID)
	assert.Equal(t, domain.StorageModePersistent, view.StorageMode)

	stored := projects.records[p.ID]
	assert.Equal(t, domain.StorageModePersistent, stored.StorageMode)
	assert.Nil(t, stored.ExpiresAt)
	assert.JSONEq(t, `{"title":"X"}`, string(stored.Stages.Idea))
	assert.False(t, stored.Stages.Research != nil && string(stored.Stages.Research) != "null")
	assert.Nil(t, stored.Stages.Blueprint)

	// session copy is gone
	_, err = sessions.Get(ctx, p.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestUpgradeProject_EmptyPayload(t *testing.T) {
	svc, _, _, _ := setupLifecycle(t)

	_, err := svc.UpgradeProject(context.Background(), "p1", "u1", domain.StageOutputs{})
	assert.ErrorIs(t, err, domain.ErrEmptyPayload)

	// explicit nulls across the board are still an empty payload
	_, err = svc.UpgradeProject(context.Background(), "p1", "u1", domain.StageOutputs{
		Idea: json.RawMessage(`null`),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyPayload)
}

func TestUpgradeProject_AlreadyPersistent(t *testing.T) {
	svc, _, projects, _ := setupLifecycle(t)
	ctx := context.Background()

	p, err := projects.Create(ctx, "u1", "acme", time.Hour)
	require.NoError(t, err)
	_, err = projects.Upgrade(ctx, p.ID, "u1", domain.StageOutputs{Idea: json.RawMessage(`{"v":1}`)})
	require.NoError(t, err)
	before := *projects.records[p.ID]

	_, err = svc.UpgradeProject(ctx, p.ID, "u1", domain.StageOutputs{Idea: json.RawMessage(`{"v":2}`)})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	// record unchanged by the rejected call
	assert.Equal(t, before.Stages, projects.records[p.ID].Stages)
	assert.Equal(t, before.StorageMode, projects.records[p.ID].StorageMode)
}

// raceUpgradeStore lets the eligibility gate pass, then lands a competing
// upgrade before the caller's own upgrade statement runs.
type raceUpgradeStore struct {
	*fakeProjectStore
}

func (r *raceUpgradeStore) FindOwned(ctx context.Context, projectID, userID string, mode domain.StorageMode) (*domain.Project, error) {
	p, err := r.fakeProjectStore.FindOwned(ctx, projectID, userID, mode)
	if err == nil {
		_, _ = r.fakeProjectStore.Upgrade(ctx, projectID, userID, domain.StageOutputs{Idea: json.RawMessage(`{"v":"winner"}`)})
	}
	return p, err
}

func TestUpgradeProject_ConcurrentUpgradeLosesRace(t *testing.T) {
	_, _, projects, _ := setupLifecycle(t)
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := repository.NewSessionProjectRepository(client, 24*time.Hour)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewLifecycleService(sessions, &raceUpgradeStore{projects}, 7*24*time.Hour, log)

	p, err := projects.Create(ctx, "u1", "acme", time.Hour)
	require.NoError(t, err)

	// The competing upgrade wins between the gate and the statement; the
	// second upgrade must fail, not silently overwrite.
	_, err = svc.UpgradeProject(ctx, p.ID, "u1", domain.StageOutputs{Idea: json.RawMessage(`{"v":"loser"}`)})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.JSONEq(t, `{"v":"winner"}`, string(projects.records[p.ID].Stages.Idea))
}

func TestUpgradeProject_TwiceRejectsSecond(t *testing.T) {
	svc, sessions, projects, _ := setupLifecycle(t)
	ctx := context.Background()

	p, err := projects.Create(ctx, "u1", "acme", time.Hour)
	require.NoError(t, err)
	seedSession(t, sessions, p.ID, "u1", domain.StageOutputs{Idea: json.RawMessage(`{"v":1}`)})

	_, err = svc.UpgradeProject(ctx, p.ID, "u1", domain.StageOutputs{Idea: json.RawMessage(`{"v":1}`)})
	require.NoError(t, err)

	_, err = svc.UpgradeProject(ctx, p.ID, "u1", domain.StageOutputs{Idea: json.RawMessage(`{"v":2}`)})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestUpgradeProject_NotOwner(t *testing.T) {
	svc, _, projects, _ := setupLifecycle(t)
	ctx := context.Background()

	p, err := projects.Create(ctx, "u1", "acme", time.Hour)
	require.NoError(t, err)

	_, err = svc.UpgradeProject(ctx, p.ID, "u2", domain.StageOutputs{Idea: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.Equal(t, domain.StorageModeMemory, projects.records[p.ID].StorageMode)
}

func TestStartProject_SeedsBothStores(t *testing.T) {
	svc, sessions, projects, _ := setupLifecycle(t)
	ctx := context.Background()

	view, err := svc.StartProject(ctx, "u1", "acme")
	require.NoError(t, err)
	require.NotEmpty(t, view.ID)

	// durable row is memory-only with an expiry window
	stored := projects.records[view.ID]
	require.NotNil(t, stored)
	assert.Equal(t, domain.StorageModeMemory, stored.StorageMode)
	assert.NotNil(t, stored.ExpiresAt)

	// session copy is readable by the owner
	sp, err := sessions.Get(ctx, view.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "acme", sp.Name)
}
