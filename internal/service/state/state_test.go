package state

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/corray333/atlas-cafe/internal/service/models/menuitem"
	"github.com/corray333/atlas-cafe/internal/service/models/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItem(t *testing.T, m *Manager, id string) menuitem.MenuItem {
	t.Helper()

	item, ok := m.MenuItem(id)
	require.True(t, ok, "seed item %s", id)

	return item
}

func recordEvents(m *Manager) (*[]Event, func()) {
	var (
		mu     sync.Mutex
		events []Event
	)
	unsubscribe := m.Subscribe(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	return &events, unsubscribe
}

func TestNewSeedsCatalog(t *testing.T) {
	m := New()

	menu := m.MenuItems()
	require.Len(t, menu, 6)
	assert.Equal(t, "Atlas Mint Tea", menu[0].Name)
	assert.True(t, decimal.NewFromInt(120).Equal(menu[5].Price))
	assert.Empty(t, m.Cart())
	assert.Empty(t, m.Orders())
	assert.Empty(t, m.TableID())
}

func TestAddToCartMergesByID(t *testing.T) {
	m := New()
	tea := seedItem(t, m, "1")

	m.AddToCart(tea)
	m.AddToCart(tea)

	cart := m.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, "1", cart[0].ID)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	m := New()
	tea := seedItem(t, m, "1")
	m.AddToCart(tea)

	m.UpdateQuantity("1", 4)
	assert.Equal(t, 4, m.Cart()[0].Quantity)

	events, unsubscribe := recordEvents(m)
	defer unsubscribe()

	m.UpdateQuantity("1", 0)
	m.UpdateQuantity("1", -3)
	m.UpdateQuantity("missing", 2)

	assert.Equal(t, 4, m.Cart()[0].Quantity)
	assert.Empty(t, *events)
}

func TestRemoveFromCart(t *testing.T) {
	m := New()
	m.AddToCart(seedItem(t, m, "1"))
	m.AddToCart(seedItem(t, m, "2"))

	m.RemoveFromCart("1")
	m.RemoveFromCart("missing")

	cart := m.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, "2", cart[0].ID)
}

func TestPlaceOrder(t *testing.T) {
	createdAt := time.Date(2025, 12, 21, 20, 0, 0, 0, time.UTC)
	m := New(
		WithClock(func() time.Time { return createdAt }),
		WithOrderIDGenerator(func() string { return "ord1" }),
	)
	burger := seedItem(t, m, "3")
	tea := seedItem(t, m, "1")

	m.SetTableID("7")
	m.AddToCart(burger)
	m.AddToCart(burger)
	m.AddToCart(tea)

	id, ok := m.PlaceOrder()
	require.True(t, ok)
	assert.Equal(t, "ord1", id)
	assert.Empty(t, m.Cart())

	placed, ok := m.Order(id)
	require.True(t, ok)
	assert.Equal(t, "7", placed.TableID)
	assert.Equal(t, order.StatusNew, placed.Status)
	assert.Equal(t, createdAt, placed.CreatedAt)
	assert.True(t, decimal.NewFromInt(145).Equal(placed.Total), "got %s", placed.Total)
	require.Len(t, placed.Items, 2)
	assert.Equal(t, 2, placed.Items[0].Quantity)
}

func TestPlaceOrderWithoutTableIsTakeaway(t *testing.T) {
	m := New()
	m.AddToCart(seedItem(t, m, "5"))

	id, ok := m.PlaceOrder()
	require.True(t, ok)

	placed, _ := m.Order(id)
	assert.Equal(t, order.TakeawayTableID, placed.TableID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	m := New()
	events, unsubscribe := recordEvents(m)
	defer unsubscribe()

	id, ok := m.PlaceOrder()

	assert.False(t, ok)
	assert.Empty(t, id)
	assert.Empty(t, m.Orders())
	assert.Empty(t, *events)
}

func TestPlaceOrderSingleNotification(t *testing.T) {
	m := New()
	m.AddToCart(seedItem(t, m, "1"))
	events, unsubscribe := recordEvents(m)
	defer unsubscribe()

	id, ok := m.PlaceOrder()
	require.True(t, ok)

	require.Len(t, *events, 1)
	e := (*events)[0]
	assert.Equal(t, EventOrderPlaced, e.Kind)
	assert.Empty(t, e.Snapshot.Cart)
	require.Len(t, e.Snapshot.Orders, 1)
	require.NotNil(t, e.Order)
	assert.Equal(t, id, e.Order.ID)
}

func TestOrderTotalFixedAtCreation(t *testing.T) {
	m := New()
	tea := seedItem(t, m, "1")
	m.AddToCart(tea)
	id, ok := m.PlaceOrder()
	require.True(t, ok)

	// Later cart activity for the same item must not leak into the placed order.
	m.AddToCart(tea)
	m.UpdateQuantity("1", 9)

	placed, _ := m.Order(id)
	assert.True(t, decimal.NewFromInt(15).Equal(placed.Total))
	assert.Equal(t, 1, placed.Items[0].Quantity)
}

func TestOrderIDsAreUnique(t *testing.T) {
	ids := []string{"dup", "dup", "other"}
	var n int
	m := New(WithOrderIDGenerator(func() string {
		id := ids[n%len(ids)]
		n++
		return id
	}))
	tea := seedItem(t, m, "1")

	m.AddToCart(tea)
	first, _ := m.PlaceOrder()
	m.AddToCart(tea)
	second, _ := m.PlaceOrder()

	assert.Equal(t, "dup", first)
	assert.Equal(t, "other", second)
}

func TestCancelOrder(t *testing.T) {
	m := New()
	tea := seedItem(t, m, "1")
	m.AddToCart(tea)
	first, _ := m.PlaceOrder()
	m.AddToCart(tea)
	second, _ := m.PlaceOrder()

	m.CancelOrder(first)
	m.CancelOrder("missing")

	orders := m.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, second, orders[0].ID)
}

func TestSetTableIDLastWriteWins(t *testing.T) {
	m := New()

	m.SetTableID("3")
	m.SetTableID("12")

	assert.Equal(t, "12", m.TableID())
}

func TestAddMenuItem(t *testing.T) {
	m := New()

	added, err := m.AddMenuItem(menuitem.MenuItem{
		Name:     "Harira",
		Price:    decimal.NewFromInt(30),
		Category: menuitem.CategoryFood,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	got, ok := m.MenuItem(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Harira", got.Name)
	assert.Len(t, m.MenuItems(), 7)

	_, err = m.AddMenuItem(menuitem.MenuItem{ID: "1", Name: "Shadow"})
	require.ErrorIs(t, err, ErrDuplicateMenuItem)
	assert.Len(t, m.MenuItems(), 7)
}

func TestReplaceMatches(t *testing.T) {
	m := New()

	m.ReplaceMatches([]match.Match{{ID: "a"}, {ID: "b"}})
	m.ReplaceMatches([]match.Match{{ID: "c"}})

	matches := m.Matches()
	require.Len(t, matches, 1)
	assert.Equal(t, "c", matches[0].ID)
}

func TestReadsReturnCopies(t *testing.T) {
	m := New()
	m.AddToCart(seedItem(t, m, "1"))

	cart := m.Cart()
	cart[0].Quantity = 99
	menu := m.MenuItems()
	menu[0].Name = "changed"

	assert.Equal(t, 1, m.Cart()[0].Quantity)
	assert.Equal(t, "Atlas Mint Tea", m.MenuItems()[0].Name)
}

func TestSubscribeReceivesEveryMutation(t *testing.T) {
	m := New()
	events, unsubscribe := recordEvents(m)

	m.SetTableID("4")
	m.AddToCart(seedItem(t, m, "2"))
	m.PlaceOrder()

	require.Len(t, *events, 3)
	assert.Equal(t, EventTableChanged, (*events)[0].Kind)
	assert.Equal(t, EventCartChanged, (*events)[1].Kind)
	assert.Equal(t, EventOrderPlaced, (*events)[2].Kind)
	for i, e := range *events {
		assert.Equal(t, uint64(i+1), e.Snapshot.Version)
	}

	unsubscribe()
	unsubscribe()
	m.SetTableID("5")
	assert.Len(t, *events, 3)
}

func TestNoOpCallsDoNotNotify(t *testing.T) {
	m := New()
	m.SetTableID("4")
	events, unsubscribe := recordEvents(m)
	defer unsubscribe()

	m.SetTableID("4")
	m.RemoveFromCart("missing")
	m.CancelOrder("missing")

	assert.Empty(t, *events)
}

func TestNotificationsFollowMutationOrder(t *testing.T) {
	m := New()
	tea := seedItem(t, m, "1")

	var (
		mu       sync.Mutex
		versions []uint64
	)
	unsubscribe := m.Subscribe(func(e Event) {
		mu.Lock()
		versions = append(versions, e.Snapshot.Version)
		mu.Unlock()
	})
	defer unsubscribe()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				m.AddToCart(tea)
				return
			}
			m.SetTableID(fmt.Sprintf("t%d", i))
		}(i)
	}
	wg.Wait()

	require.Len(t, versions, 50)
	for i, v := range versions {
		assert.Equal(t, uint64(i+1), v)
	}
	assert.Equal(t, 25, m.Cart()[0].Quantity)
}
