package ordersvc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/corray333/atlas-cafe/internal/dal/repositories/match/memory"
	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/corray333/atlas-cafe/internal/service/models/order"
	"github.com/corray333/atlas-cafe/internal/service/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, opts ...option) *OrderService {
	t.Helper()

	return MustNewOrderService(append([]option{WithMatchRepository(memory.NewMatchRepository())}, opts...)...)
}

func placeOrder(t *testing.T, sess *Session, itemID string) string {
	t.Helper()

	item, ok := sess.State.MenuItem(itemID)
	require.True(t, ok)
	sess.State.AddToCart(item)
	id, ok := sess.State.PlaceOrder()
	require.True(t, ok)

	return id
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	sess, err := s.CreateSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Len(t, sess.State.MenuItems(), 6)

	got, err := s.Session(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, s.CloseSession(sess.ID))
	_, err = s.Session(sess.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, s.CloseSession(sess.ID), ErrSessionNotFound)
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	a, err := s.CreateSession(ctx)
	require.NoError(t, err)
	b, err := s.CreateSession(ctx)
	require.NoError(t, err)

	item, _ := a.State.MenuItem("1")
	a.State.AddToCart(item)

	assert.Len(t, a.State.Cart(), 1)
	assert.Empty(t, b.State.Cart())
}

func TestOpenTable(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	sess, err := s.OpenTable(ctx, "", "12")
	require.NoError(t, err)
	assert.Equal(t, "12", sess.State.TableID())

	same, err := s.OpenTable(ctx, sess.ID, "14")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, same.ID)
	assert.Equal(t, "14", sess.State.TableID())
	assert.Equal(t, 1, s.SessionCount())
}

func TestBoard(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 12, 21, 20, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Minute)
		return clock
	}
	s := newService(t, WithStateOptions(state.WithClock(tick)))

	a, _ := s.OpenTable(ctx, "", "3")
	b, _ := s.CreateSession(ctx)

	first := placeOrder(t, a, "1")
	second := placeOrder(t, b, "6")
	third := placeOrder(t, a, "3")

	board := s.Board(ctx, order.QueryOrdersModel{})
	require.Len(t, board, 3)
	assert.Equal(t, third, board[0].ID)
	assert.Equal(t, second, board[1].ID)
	assert.Equal(t, first, board[2].ID)
	assert.Equal(t, order.TakeawayTableID, board[1].TableID)

	onlyTable := s.Board(ctx, order.QueryOrdersModel{TableIDs: []string{"3"}})
	assert.Len(t, onlyTable, 2)

	page := s.Board(ctx, order.QueryOrdersModel{Limit: 1, Offset: 1})
	require.Len(t, page, 1)
	assert.Equal(t, second, page[0].ID)
}

func TestPublishMatches(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	latest, err := s.LatestMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, latest)

	before, _ := s.CreateSession(ctx)
	s.PublishMatches(ctx, []match.Match{{ID: "m1", Status: match.StatusLive}})
	after, _ := s.CreateSession(ctx)

	assert.Equal(t, "m1", before.State.Matches()[0].ID)
	assert.Equal(t, "m1", after.State.Matches()[0].ID)

	latest, err = s.LatestMatches(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
}

func TestSessionListenersDetachOnClose(t *testing.T) {
	ctx := context.Background()
	var (
		mu     sync.Mutex
		events []string
	)
	s := newService(t, WithSessionListener(func(sessionID string) state.Listener {
		return func(e state.Event) {
			mu.Lock()
			events = append(events, sessionID+":"+string(e.Kind))
			mu.Unlock()
		}
	}))

	sess, _ := s.CreateSession(ctx)
	sess.State.SetTableID("1")
	require.NoError(t, s.CloseSession(sess.ID))
	sess.State.SetTableID("2")

	assert.Equal(t, []string{sess.ID + ":" + string(state.EventTableChanged)}, events)
}

func TestMustNewOrderServiceRequiresMatchRepository(t *testing.T) {
	assert.Panics(t, func() { MustNewOrderService() })
}

func TestReapIdle(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	now := time.Date(2025, 12, 21, 20, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
	var seen []string
	s := newService(t,
		WithIdleTTL(time.Hour),
		WithClock(clock),
		WithSessionListener(func(sessionID string) state.Listener {
			return func(state.Event) {
				mu.Lock()
				seen = append(seen, sessionID)
				mu.Unlock()
			}
		}),
	)

	for i := 0; i < 1000; i++ {
		_, err := s.OpenTable(ctx, "", "12")
		require.NoError(t, err)
	}
	kept, err := s.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1001, s.SessionCount())

	assert.Zero(t, s.ReapIdle(ctx), "nothing is idle yet")

	advance(30 * time.Minute)
	_, err = s.Session(kept.ID)
	require.NoError(t, err)
	advance(31 * time.Minute)

	assert.Equal(t, 1000, s.ReapIdle(ctx))
	assert.Equal(t, 1, s.SessionCount())
	assert.True(t, kept.LastSeen().Equal(clock().Add(-31*time.Minute)))

	advance(time.Hour)
	assert.Equal(t, 1, s.ReapIdle(ctx))
	_, err = s.Session(kept.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)

	mu.Lock()
	seen = nil
	mu.Unlock()
	kept.State.SetTableID("7")
	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, seen, "reaped sessions must drop their listeners")
}

type gatedMatchRepo struct {
	mu      sync.Mutex
	matches []match.Match
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (r *gatedMatchRepo) Save(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = matches

	return nil
}

func (r *gatedMatchRepo) Latest(context.Context) ([]match.Match, bool, error) {
	r.mu.Lock()
	matches := r.matches
	r.mu.Unlock()

	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})

	return matches, matches != nil, nil
}

func TestCreateSessionDoesNotMissConcurrentPublish(t *testing.T) {
	ctx := context.Background()
	repo := &gatedMatchRepo{
		matches: []match.Match{{ID: "old"}},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := MustNewOrderService(WithMatchRepository(repo))

	created := make(chan *Session, 1)
	go func() {
		sess, err := s.CreateSession(ctx)
		assert.NoError(t, err)
		created <- sess
	}()

	<-repo.entered
	published := make(chan struct{})
	go func() {
		s.PublishMatches(ctx, []match.Match{{ID: "new"}})
		close(published)
	}()

	// Let the publish run while the session is still loading its seed.
	time.Sleep(20 * time.Millisecond)
	close(repo.release)

	sess := <-created
	<-published

	require.Len(t, sess.State.Matches(), 1)
	assert.Equal(t, "new", sess.State.Matches()[0].ID)
}
