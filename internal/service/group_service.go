package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
)

const groupCatalogCacheKey = "groups:catalog"

type groupRepository interface {
	List(ctx context.Context) ([]models.Group, error)
	FindByID(ctx context.Context, id string) (*models.Group, error)
}

// GroupService exposes the group catalog. Groups are owned by another module
// and treated as immutable here, so the catalog may be served from cache.
type GroupService struct {
	repo     groupRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewGroupService constructs a GroupService.
func NewGroupService(repo groupRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Catalog returns all groups ordered by name.
func (s *GroupService) Catalog(ctx context.Context) ([]models.Group, error) {
	groups, _, err := s.CatalogWithCacheInfo(ctx)
	return groups, err
}

// CatalogWithCacheInfo returns the catalog and whether it came from cache.
func (s *GroupService) CatalogWithCacheInfo(ctx context.Context) ([]models.Group, bool, error) {
	var cached []models.Group
	if s.cache.Get(ctx, groupCatalogCacheKey, &cached) {
		return cached, true, nil
	}
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load groups")
	}
	if groups == nil {
		groups = []models.Group{}
	}
	s.cache.Set(ctx, groupCatalogCacheKey, groups, s.cacheTTL)
	return groups, false, nil
}

// Get returns one group straight from the store.
func (s *GroupService) Get(ctx context.Context, id string) (*models.Group, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "groupId is required")
	}
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return group, nil
}
