package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-system/internal/logger"
)

// Keeper is the durable snapshot surface behind a session's carts.
// One snapshot per session and vertical, overwritten on every save.
type Keeper interface {
	Save(ctx context.Context, sessionID string, v Vertical, items []Item) error
	Load(ctx context.Context, sessionID string, v Vertical) ([]Item, error)
}

// Store owns the three cart collections of one client session. It has a
// single logical writer (the session's request flow), so methods do not
// lock. Every mutation snapshots the affected collection through the
// keeper; persistence is best-effort and an in-memory mutation is never
// rolled back because a snapshot failed.
type Store struct {
	sessionID string
	carts     map[Vertical]collection
	keeper    Keeper
	log       *logger.Logger
}

// NewStore builds an empty store for a session. Use Manager to restore
// persisted state.
func NewStore(sessionID string, keeper Keeper, log *logger.Logger) *Store {
	carts := make(map[Vertical]collection, len(Verticals))
	for _, v := range Verticals {
		carts[v] = collection{}
	}
	return &Store{sessionID: sessionID, carts: carts, keeper: keeper, log: log}
}

func (s *Store) SessionID() string { return s.sessionID }

// Add merges the item into the vertical's collection: an existing entry
// with the same id gets quantity+1, otherwise the item is appended with
// quantity 1 and its kind stamped. Add always succeeds.
func (s *Store) Add(ctx context.Context, v Vertical, item Item) {
	c := s.carts[v]
	if i := c.index(item.ID); i >= 0 {
		c[i].Quantity++
	} else {
		item.Kind = v
		item.Quantity = 1
		c = append(c, item)
	}
	s.carts[v] = c
	s.persist(ctx, v)
}

// UpdateQuantity sets an entry's quantity exactly. Requests below 1 and
// unknown ids are accepted but ignored.
func (s *Store) UpdateQuantity(ctx context.Context, v Vertical, id, quantity int) {
	if quantity < 1 {
		return
	}
	c := s.carts[v]
	i := c.index(id)
	if i < 0 {
		return
	}
	c[i].Quantity = quantity
	s.persist(ctx, v)
}

// Remove deletes the entry with the given id, keeping display order.
// Absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, v Vertical, id int) {
	c := s.carts[v]
	i := c.index(id)
	if i < 0 {
		return
	}
	s.carts[v] = append(c[:i], c[i+1:]...)
	s.persist(ctx, v)
}

// Clear empties the vertical's collection. Called after an order for
// the vertical has been durably recorded.
func (s *Store) Clear(ctx context.Context, v Vertical) {
	s.carts[v] = collection{}
	s.persist(ctx, v)
}

// Count returns the total unit count, not the distinct item count.
func (s *Store) Count(v Vertical) int { return s.carts[v].count() }

// Subtotal returns the sum of price times quantity across the collection.
func (s *Store) Subtotal(v Vertical) decimal.Decimal { return s.carts[v].subtotal() }

// Items returns the collection in insertion order.
func (s *Store) Items(v Vertical) []Item {
	c := s.carts[v]
	out := make([]Item, len(c))
	copy(out, c)
	return out
}

func (s *Store) persist(ctx context.Context, v Vertical) {
	if s.keeper == nil {
		return
	}
	if err := s.keeper.Save(ctx, s.sessionID, v, s.Items(v)); err != nil {
		s.log.Error("cart snapshot failed",
			zap.String("session", s.sessionID), zap.String("vertical", string(v)), zap.Error(err))
	}
}

// Manager hands out one Store per session, restoring persisted
// collections on first access. The mutex guards only the session map;
// each store still has a single writer.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
	keeper Keeper
	log    *logger.Logger
}

func NewManager(keeper Keeper, log *logger.Logger) *Manager {
	return &Manager{stores: make(map[string]*Store), keeper: keeper, log: log}
}

// Store returns the session's store, loading the most recent snapshots
// the first time the session is seen. A missing or unreadable snapshot
// yields an empty collection.
func (m *Manager) Store(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[sessionID]; ok {
		return s
	}
	s := NewStore(sessionID, m.keeper, m.log)
	if m.keeper != nil {
		for _, v := range Verticals {
			items, err := m.keeper.Load(ctx, sessionID, v)
			if err != nil {
				m.log.Error("cart snapshot load failed",
					zap.String("session", sessionID), zap.String("vertical", string(v)), zap.Error(err))
				continue
			}
			if len(items) > 0 {
				s.carts[v] = collection(items)
			}
		}
	}
	m.stores[sessionID] = s
	return s
}
