package state

import (
	"slices"

	"github.com/corray333/atlas-cafe/internal/service/models/cartitem"
	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/corray333/atlas-cafe/internal/service/models/menuitem"
	"github.com/corray333/atlas-cafe/internal/service/models/order"
	"github.com/shopspring/decimal"
)

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventCartChanged    EventKind = "cart_changed"
	EventOrderPlaced    EventKind = "order_placed"
	EventOrderCancelled EventKind = "order_cancelled"
	EventTableChanged   EventKind = "table_changed"
	EventMenuChanged    EventKind = "menu_changed"
	EventMatchesChanged EventKind = "matches_changed"
)

// Event is delivered to listeners after every effective mutation.
// Order is set for EventOrderPlaced and EventOrderCancelled.
type Event struct {
	Kind     EventKind    `json:"kind"`
	Snapshot Snapshot     `json:"snapshot"`
	Order    *order.Order `json:"order,omitempty"`
}

// Listener receives events synchronously on the mutating goroutine.
type Listener func(Event)

// Snapshot is a copy of the whole session state at one version.
type Snapshot struct {
	Version   uint64              `json:"version"`
	TableID   string              `json:"tableId,omitempty"`
	Cart      []cartitem.CartItem `json:"cart"`
	CartTotal decimal.Decimal     `json:"cartTotal"`
	Orders    []order.Order       `json:"orders"`
	Menu      []menuitem.MenuItem `json:"menu"`
	Matches   []match.Match       `json:"matches"`
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Version:   m.version,
		TableID:   m.tableID,
		Cart:      cloneSlice(m.cart),
		CartTotal: cartitem.Total(m.cart),
		Orders:    m.ordersLocked(),
		Menu:      cloneSlice(m.menu),
		Matches:   cloneSlice(m.matches),
	}
}

func (m *Manager) ordersLocked() []order.Order {
	orders := make([]order.Order, len(m.orders))
	for i, o := range m.orders {
		orders[i] = o.Clone()
	}

	return orders
}

// cloneSlice never returns nil so empty collections encode as [].
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return slices.Clone(s)
}
