package repository

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/alexanderramin/farmquest/internal/domain"
)

// DefaultMissionCacheSize bounds the number of missions kept in memory.
const DefaultMissionCacheSize = 256

// CachedMissionRepo serves GetByID from an LRU cache in front of another
// MissionRepo. Missions are immutable once authored, so entries are only
// invalidated by Create and Update going through this repo.
type CachedMissionRepo struct {
	next  MissionRepo
	cache *lru.Cache
}

// NewCachedMissionRepo wraps next with a cache holding up to size missions.
func NewCachedMissionRepo(next MissionRepo, size int) (*CachedMissionRepo, error) {
	if size <= 0 {
		size = DefaultMissionCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating mission cache: %w", err)
	}
	return &CachedMissionRepo{next: next, cache: cache}, nil
}

func (r *CachedMissionRepo) Create(ctx context.Context, m *domain.Mission) error {
	if err := r.next.Create(ctx, m); err != nil {
		return err
	}
	r.cache.Remove(m.ID)
	return nil
}

func (r *CachedMissionRepo) GetByID(ctx context.Context, id string) (*domain.Mission, error) {
	if cached, ok := r.cache.Get(id); ok {
		if m, ok := cached.(*domain.Mission); ok {
			cp := *m
			return &cp, nil
		}
	}
	m, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := *m
	r.cache.Add(id, &cp)
	return m, nil
}

func (r *CachedMissionRepo) List(ctx context.Context, f MissionFilter) ([]*domain.Mission, error) {
	return r.next.List(ctx, f)
}

func (r *CachedMissionRepo) Update(ctx context.Context, m *domain.Mission) error {
	if err := r.next.Update(ctx, m); err != nil {
		return err
	}
	r.cache.Remove(m.ID)
	return nil
}

// Purge drops every cached mission.
func (r *CachedMissionRepo) Purge() {
	r.cache.Purge()
}

// Len reports the number of cached missions.
func (r *CachedMissionRepo) Len() int {
	return r.cache.Len()
}
