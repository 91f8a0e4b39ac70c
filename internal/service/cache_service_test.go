package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
)

type memoryCache struct {
	data   map[string][]byte
	ttl    time.Duration
	getErr error
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.ttl = ttl
	m.sets++
	return nil
}

type fakeGroupRepo struct {
	groups []models.Group
	err    error
	calls  int
}

func (f *fakeGroupRepo) List(context.Context) ([]models.Group, error) {
	f.calls++
	return f.groups, f.err
}

func (f *fakeGroupRepo) FindByID(_ context.Context, id string) (*models.Group, error) {
	for _, g := range f.groups {
		if g.ID == id {
			group := g
			return &group, nil
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return nil, sql.ErrNoRows
}

func TestCacheServiceDisabled(t *testing.T) {
	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.False(t, nilSvc.Get(context.Background(), "k", &[]string{}))

	svc := NewCacheService(newMemoryCache(), nil, 0, nil, false)
	svc.Set(context.Background(), "k", "v", 0)
	assert.False(t, svc.Get(context.Background(), "k", new(string)))
}

func TestCacheServiceRoundTripAndDefaultTTL(t *testing.T) {
	store := newMemoryCache()
	svc := NewCacheService(store, NewMetricsService(), time.Minute, zap.NewNop(), true)

	svc.Set(context.Background(), "k", []string{"a"}, 0)
	assert.Equal(t, time.Minute, store.ttl)

	var out []string
	require.True(t, svc.Get(context.Background(), "k", &out))
	assert.Equal(t, []string{"a"}, out)

	store.getErr = errors.New("redis down")
	assert.False(t, svc.Get(context.Background(), "k", &out))
}

func TestGroupServiceCatalogUsesCache(t *testing.T) {
	repo := &fakeGroupRepo{groups: testGroups}
	store := newMemoryCache()
	svc := NewGroupService(repo, NewCacheService(store, nil, time.Minute, nil, true), 5*time.Minute, nil)

	groups, hit, err := svc.CatalogWithCacheInfo(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, groups, 3)
	assert.Equal(t, 5*time.Minute, store.ttl)

	groups, hit, err = svc.CatalogWithCacheInfo(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, testGroups[0].Name, groups[0].Name)
	assert.Equal(t, 1, repo.calls)
}

func TestGroupServiceCatalogWithoutCache(t *testing.T) {
	repo := &fakeGroupRepo{}
	svc := NewGroupService(repo, nil, 0, nil)

	groups, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)

	repo.err = errors.New("db down")
	_, err = svc.Catalog(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestGroupServiceGet(t *testing.T) {
	svc := NewGroupService(&fakeGroupRepo{groups: testGroups}, nil, 0, nil)

	group, err := svc.Get(context.Background(), "g-b")
	require.NoError(t, err)
	assert.Equal(t, "Bravo", group.Name)

	_, err = svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
