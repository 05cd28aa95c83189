package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/florapress/bookshop/internal/model"
)

// ErrPersist marks a failure to write the cart snapshot to its backing
// store. Callers can detect it with errors.Is and must treat the
// in-memory and persisted views as diverged until the next successful
// load; the Store does not roll back its in-memory state.
var ErrPersist = errors.New("cart: persist failed")

// Persister writes a full cart snapshot for one owner. The server-side
// implementation lives in the repository package; tests supply fakes.
type Persister interface {
	SaveCart(ctx context.Context, userID uint64, items []model.CartItem) error
}

// Store is a cart bound to an owner and a Persister. Every mutation
// persists the whole snapshot before returning, mirroring how the
// client keeps its anonymous cart in local storage.
type Store struct {
	userID  uint64
	items   []model.CartItem
	persist Persister
}

// NewStore returns a Store seeded with the owner's current cart lines.
func NewStore(userID uint64, items []model.CartItem, p Persister) *Store {
	return &Store{userID: userID, items: items, persist: p}
}

// Items returns the current in-memory cart lines.
func (s *Store) Items() []model.CartItem { return s.items }

// AddItem places slug in the cart as an active line and persists the
// snapshot. Adding an already-active item is a no-op with respect to
// the final state.
func (s *Store) AddItem(ctx context.Context, slug string) error {
	s.items = Add(s.items, slug)
	return s.save(ctx)
}

// RemoveItem soft-removes slug and persists. Removing an absent item
// still persists the (unchanged) snapshot rather than erroring.
func (s *Store) RemoveItem(ctx context.Context, slug string) error {
	s.items = Remove(s.items, slug)
	return s.save(ctx)
}

// Toggle flips the removed state of slug and persists.
func (s *Store) Toggle(ctx context.Context, slug string) error {
	s.items = Toggle(s.items, slug)
	return s.save(ctx)
}

// IsActive reports whether slug is currently active in the cart.
func (s *Store) IsActive(slug string) bool { return IsActive(s.items, slug) }

func (s *Store) save(ctx context.Context) error {
	if err := s.persist.SaveCart(ctx, s.userID, s.items); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
