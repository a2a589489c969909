package mocks

import (
	"context"

	"github.com/arolitec/taskboard-api/internal/cache"
	"github.com/arolitec/taskboard-api/internal/store"
)

// MockListingCache implements cache.ListingCache for testing with an
// in-memory map.
type MockListingCache struct {
	// Function fields for customizable behavior
	GetPageFn            func(ctx context.Context, key string) (*store.TaskPage, bool, error)
	SetPageFn            func(ctx context.Context, key string, page *store.TaskPage) error
	InvalidateListingsFn func(ctx context.Context) error

	// Data for default implementation
	Pages map[string]*store.TaskPage

	// Call counters for asserting interactions
	GetCalls        int
	SetCalls        int
	InvalidateCalls int
}

// Ensure MockListingCache implements cache.ListingCache
var _ cache.ListingCache = (*MockListingCache)(nil)

// NewMockListingCache creates a new mock cache with initialized defaults
func NewMockListingCache() *MockListingCache {
	return &MockListingCache{
		Pages: make(map[string]*store.TaskPage),
	}
}

// GetPage implements the ListingCache interface
func (m *MockListingCache) GetPage(ctx context.Context, key string) (*store.TaskPage, bool, error) {
	m.GetCalls++
	if m.GetPageFn != nil {
		return m.GetPageFn(ctx, key)
	}

	page, hit := m.Pages[key]
	return page, hit, nil
}

// SetPage implements the ListingCache interface
func (m *MockListingCache) SetPage(ctx context.Context, key string, page *store.TaskPage) error {
	m.SetCalls++
	if m.SetPageFn != nil {
		return m.SetPageFn(ctx, key, page)
	}

	m.Pages[key] = page
	return nil
}

// InvalidateListings implements the ListingCache interface
func (m *MockListingCache) InvalidateListings(ctx context.Context) error {
	m.InvalidateCalls++
	if m.InvalidateListingsFn != nil {
		return m.InvalidateListingsFn(ctx)
	}

	m.Pages = make(map[string]*store.TaskPage)
	return nil
}
