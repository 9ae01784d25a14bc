package marketplace

import (
	"sync"
	"time"

	"github.com/fractionft/fraction-marketplace/internal/entity"
)

// Store holds the last successful aggregation so API reads never wait on the
// chain. A failed refresh leaves the previous items in place.
type Store struct {
	mu          sync.RWMutex
	items       []entity.MarketplaceItem
	refreshedAt time.Time
}

func NewStore() *Store {
	return &Store{items: make([]entity.MarketplaceItem, 0)}
}

func (s *Store) Replace(items []entity.MarketplaceItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = items
	s.refreshedAt = time.Now()
}

func (s *Store) Items() []entity.MarketplaceItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entity.MarketplaceItem, len(s.items))
	copy(items, s.items)

	return items
}

func (s *Store) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.refreshedAt
}

func (s *Store) FindBySlug(itemSlug string) (*entity.MarketplaceItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.Slug == itemSlug {
			found := item
			return &found, true
		}
	}

	return nil, false
}
