package state

import (
	"slices"

	"github.com/corray333/atlas-cafe/internal/service/models/cartitem"
	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/corray333/atlas-cafe/internal/service/models/menuitem"
	"github.com/corray333/atlas-cafe/internal/service/models/order"
)

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshotLocked()
}

func (m *Manager) Cart() []cartitem.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneSlice(m.cart)
}

func (m *Manager) Orders() []order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ordersLocked()
}

// Order returns the placed order with the given id.
func (m *Manager) Order(id string) (order.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.orders, func(o order.Order) bool { return o.ID == id })
	if idx < 0 {
		return order.Order{}, false
	}

	return m.orders[idx].Clone(), true
}

func (m *Manager) MenuItems() []menuitem.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneSlice(m.menu)
}

// MenuItem returns the catalog entry with the given id.
func (m *Manager) MenuItem(id string) (menuitem.MenuItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.menuIndex(id)
	if idx < 0 {
		return menuitem.MenuItem{}, false
	}

	return m.menu[idx], true
}

// TableID returns the bound table, or "" when the session has none.
func (m *Manager) TableID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tableID
}

func (m *Manager) Matches() []match.Match {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneSlice(m.matches)
}
