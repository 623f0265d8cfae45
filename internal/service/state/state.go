// Package state holds the per-session ordering state: cart, placed orders, table binding,
// menu catalog and the latest match schedule.
//
// A Manager is the only writer of that state. Readers get copies, and subscribers are told
// about every effective mutation synchronously, in mutation order.
package state

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/cartitem"
	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/corray333/atlas-cafe/internal/service/models/menuitem"
	"github.com/corray333/atlas-cafe/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

var ErrDuplicateMenuItem = errors.New("menu item with this id already exists")

// Manager owns the state of one client session.
type Manager struct {
	// mu guards the fields below. notifyMu is taken before mu is released so listeners
	// see events in the same order the mutations were applied.
	mu       sync.Mutex
	notifyMu sync.Mutex

	cart    []cartitem.CartItem
	orders  []order.Order
	tableID string
	menu    []menuitem.MenuItem
	matches []match.Match
	version uint64

	listeners map[uint64]Listener
	nextSub   uint64

	now        func() time.Time
	newOrderID func() string
	newMenuID  func() string
}

// Option configures a Manager.
type Option func(*Manager)

// New creates a Manager seeded with the default catalog.
func New(opts ...Option) *Manager {
	m := &Manager{
		menu:       menuitem.Seed(),
		listeners:  make(map[uint64]Listener),
		now:        time.Now,
		newOrderID: shortuuid.New,
		newMenuID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithMenu replaces the seed catalog.
func WithMenu(items []menuitem.MenuItem) Option {
	return func(m *Manager) {
		m.menu = slices.Clone(items)
	}
}

// WithMatches sets the initial schedule snapshot.
func WithMatches(matches []match.Match) Option {
	return func(m *Manager) {
		m.matches = slices.Clone(matches)
	}
}

// WithClock overrides the time source used to stamp orders.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithOrderIDGenerator overrides the order id generator.
func WithOrderIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newOrderID = gen
	}
}

// AddToCart increments the quantity of an existing entry or appends the item with quantity 1.
func (m *Manager) AddToCart(item menuitem.MenuItem) {
	m.commit(EventCartChanged, func() (*order.Order, bool) {
		for i := range m.cart {
			if m.cart[i].ID == item.ID {
				m.cart[i].Quantity++
				return nil, true
			}
		}
		m.cart = append(m.cart, cartitem.CartItem{MenuItem: item, Quantity: 1})

		return nil, true
	})
}

// RemoveFromCart deletes the entry with the given id. Unknown ids are ignored.
func (m *Manager) RemoveFromCart(id string) {
	m.commit(EventCartChanged, func() (*order.Order, bool) {
		idx := m.cartIndex(id)
		if idx < 0 {
			return nil, false
		}
		m.cart = slices.Delete(m.cart, idx, idx+1)

		return nil, true
	})
}

// UpdateQuantity sets the quantity of an existing entry.
// Quantities below 1 and unknown ids leave the cart untouched.
func (m *Manager) UpdateQuantity(id string, quantity int) {
	if quantity < 1 {
		return
	}
	m.commit(EventCartChanged, func() (*order.Order, bool) {
		idx := m.cartIndex(id)
		if idx < 0 || m.cart[idx].Quantity == quantity {
			return nil, false
		}
		m.cart[idx].Quantity = quantity

		return nil, true
	})
}

// PlaceOrder turns the cart into a new order and empties the cart.
// It returns false and changes nothing when the cart is empty.
func (m *Manager) PlaceOrder() (string, bool) {
	var id string
	m.commit(EventOrderPlaced, func() (*order.Order, bool) {
		if len(m.cart) == 0 {
			return nil, false
		}

		tableID := m.tableID
		if tableID == "" {
			tableID = order.TakeawayTableID
		}

		id = m.uniqueOrderID()
		placed := order.Order{
			ID:        id,
			TableID:   tableID,
			Items:     slices.Clone(m.cart),
			Total:     cartitem.Total(m.cart),
			Status:    order.StatusNew,
			CreatedAt: m.now(),
		}
		m.orders = append(m.orders, placed)
		m.cart = nil

		return &placed, true
	})

	return id, id != ""
}

// CancelOrder removes the order with the given id. Unknown ids are ignored.
func (m *Manager) CancelOrder(id string) {
	m.commit(EventOrderCancelled, func() (*order.Order, bool) {
		idx := slices.IndexFunc(m.orders, func(o order.Order) bool { return o.ID == id })
		if idx < 0 {
			return nil, false
		}
		cancelled := m.orders[idx]
		m.orders = slices.Delete(m.orders, idx, idx+1)

		return &cancelled, true
	})
}

// SetTableID binds the session to a table. The last call wins.
func (m *Manager) SetTableID(id string) {
	m.commit(EventTableChanged, func() (*order.Order, bool) {
		if m.tableID == id {
			return nil, false
		}
		m.tableID = id

		return nil, true
	})
}

// AddMenuItem appends a catalog entry and returns it as stored.
// An empty id is replaced by a generated one; an id already in the catalog is rejected.
func (m *Manager) AddMenuItem(item menuitem.MenuItem) (menuitem.MenuItem, error) {
	var err error
	m.commit(EventMenuChanged, func() (*order.Order, bool) {
		if item.ID == "" {
			item.ID = m.newMenuID()
		}
		if m.menuIndex(item.ID) >= 0 {
			err = ErrDuplicateMenuItem
			return nil, false
		}
		m.menu = append(m.menu, item)

		return nil, true
	})
	if err != nil {
		return menuitem.MenuItem{}, err
	}

	return item, nil
}

// ReplaceMatches stores the latest schedule snapshot, replacing the previous one.
func (m *Manager) ReplaceMatches(matches []match.Match) {
	m.commit(EventMatchesChanged, func() (*order.Order, bool) {
		m.matches = slices.Clone(matches)
		return nil, true
	})
}

// Subscribe registers l for every future effective mutation and returns a function that
// removes it. Listeners run on the mutating goroutine and must not call mutating methods.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.listeners[id] = l
	m.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// commit applies mutate under the lock and notifies listeners when it reports a change.
func (m *Manager) commit(kind EventKind, mutate func() (*order.Order, bool)) {
	m.mu.Lock()
	affected, changed := mutate()
	if !changed {
		m.mu.Unlock()
		return
	}
	m.version++
	event := Event{Kind: kind, Snapshot: m.snapshotLocked()}
	if affected != nil {
		o := affected.Clone()
		event.Order = &o
	}
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}

	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	for _, l := range listeners {
		l(event)
	}
}

func (m *Manager) uniqueOrderID() string {
	for {
		id := m.newOrderID()
		if !slices.ContainsFunc(m.orders, func(o order.Order) bool { return o.ID == id }) {
			return id
		}
	}
}

func (m *Manager) cartIndex(id string) int {
	return slices.IndexFunc(m.cart, func(c cartitem.CartItem) bool { return c.ID == id })
}

func (m *Manager) menuIndex(id string) int {
	return slices.IndexFunc(m.menu, func(i menuitem.MenuItem) bool { return i.ID == id })
}
