package ordersvc

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corray333/atlas-cafe/internal/dal/interfaces/imatchrepo"
	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/corray333/atlas-cafe/internal/service/models/order"
	"github.com/corray333/atlas-cafe/internal/service/state"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var ErrSessionNotFound = errors.New("session not found")

// ListenerFactory builds a listener attached to every new session.
type ListenerFactory func(sessionID string) state.Listener

// Session is one client's ordering state.
type Session struct {
	ID        string
	CreatedAt time.Time
	State     *state.Manager

	now         func() time.Time
	lastSeen    atomic.Int64
	unsubscribe []func()
}

// Touch marks the session as in use.
func (s *Session) Touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

// LastSeen returns when the session was last looked up or touched.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// OrderService is the registry of live sessions. It binds tables, aggregates the
// staff order board and distributes schedule snapshots.
type OrderService struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	matchRepo imatchrepo.IMatchRepository
	listeners []ListenerFactory
	stateOpts []state.Option
	idleTTL   time.Duration
	now       func() time.Time

	// publishMu orders schedule publishes against session seeding.
	publishMu sync.Mutex
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	idleTTL := viper.GetDuration("session.idle_ttl")
	if idleTTL <= 0 {
		idleTTL = 2 * time.Hour
	}

	s := &OrderService{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.matchRepo == nil {
		panic("order service requires a match repository")
	}

	return s
}

// WithMatchRepository sets where the latest schedule snapshot is kept.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMatchRepository(repo imatchrepo.IMatchRepository) option {
	return func(s *OrderService) {
		s.matchRepo = repo
	}
}

// WithSessionListener attaches a listener to every session created afterwards.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSessionListener(factory ListenerFactory) option {
	return func(s *OrderService) {
		s.listeners = append(s.listeners, factory)
	}
}

// WithStateOptions passes options to every new session's state manager.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStateOptions(opts ...state.Option) option {
	return func(s *OrderService) {
		s.stateOpts = append(s.stateOpts, opts...)
	}
}

// WithIdleTTL sets how long a session may go untouched before ReapIdle closes it.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithIdleTTL(ttl time.Duration) option {
	return func(s *OrderService) {
		s.idleTTL = ttl
	}
}

// WithClock overrides the time source used for session timestamps.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// CreateSession starts a session seeded with the default catalog and the latest schedule.
func (s *OrderService) CreateSession(ctx context.Context) (*Session, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.CreateSession")
	defer span.End()

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	opts := append([]state.Option(nil), s.stateOpts...)
	matches, ok, err := s.matchRepo.Latest(ctx)
	if err != nil {
		slog.Warn("Failed to load latest matches for new session", "error", err)
	}
	if ok {
		opts = append(opts, state.WithMatches(matches))
	}

	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		State:     state.New(opts...),
		now:       s.now,
	}
	sess.Touch()
	for _, factory := range s.listeners {
		sess.unsubscribe = append(sess.unsubscribe, sess.State.Subscribe(factory(sess.ID)))
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	slog.Info("Session created", "session_id", sess.ID)

	return sess, nil
}

// Session returns the session with the given id.
func (s *OrderService) Session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.Touch()

	return sess, nil
}

// CloseSession drops a session and detaches its listeners.
func (s *OrderService) CloseSession(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.detach()

	slog.Info("Session closed", "session_id", id)

	return nil
}

// ReapIdle closes every session that has not been touched for longer than the idle TTL
// and returns how many were closed.
func (s *OrderService) ReapIdle(ctx context.Context) int {
	_, span := otel.Tracer("service").Start(ctx, "OrderService.ReapIdle")
	defer span.End()

	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	idle := make([]*Session, 0)
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range idle {
		sess.detach()
		slog.Debug("Idle session closed", "session_id", sess.ID, "last_seen", sess.LastSeen())
	}
	if len(idle) > 0 {
		slog.Info("Idle sessions reaped", "count", len(idle), "remaining", remaining)
	}

	return len(idle)
}

func (s *Session) detach() {
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
}

// OpenTable binds tableID to the session, creating a session when sessionID is unknown.
func (s *OrderService) OpenTable(ctx context.Context, sessionID, tableID string) (*Session, error) {
	sess, err := s.Session(sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		sess, err = s.CreateSession(ctx)
	}
	if err != nil {
		return nil, err
	}

	sess.State.SetTableID(tableID)
	slog.Info("Table bound", "session_id", sess.ID, "table_id", tableID)

	return sess, nil
}

// Board returns the orders of all sessions matching query, newest first.
func (s *OrderService) Board(ctx context.Context, query order.QueryOrdersModel) []order.Order {
	_, span := otel.Tracer("service").Start(ctx, "OrderService.Board")
	defer span.End()

	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	orders := make([]order.Order, 0)
	for _, sess := range sessions {
		for _, o := range sess.State.Orders() {
			if query.Match(o) {
				orders = append(orders, o)
			}
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}

		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return query.Page(orders)
}

// PublishMatches stores a schedule snapshot and replaces it in every live session.
func (s *OrderService) PublishMatches(ctx context.Context, matches []match.Match) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.PublishMatches")
	defer span.End()

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	if err := s.matchRepo.Save(ctx, matches); err != nil {
		slog.Error("Failed to save matches", "error", err)
	}

	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, sess := range sessions {
		sess := sess
		g.Go(func() error {
			sess.State.ReplaceMatches(matches)
			return nil
		})
	}
	_ = g.Wait()

	slog.Debug("Matches published", "count", len(matches), "sessions", len(sessions))
}

// LatestMatches returns the last published snapshot, or an empty list before the first poll.
func (s *OrderService) LatestMatches(ctx context.Context) ([]match.Match, error) {
	matches, ok, err := s.matchRepo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []match.Match{}, nil
	}

	return matches, nil
}

// SessionCount returns the number of live sessions.
func (s *OrderService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
