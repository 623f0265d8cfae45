package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/corray333/atlas-cafe/internal/dal/repositories/match/memory"
	"github.com/corray333/atlas-cafe/internal/service/services/ordersvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerReapsIdleSessions(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	now := time.Date(2025, 12, 21, 20, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	svc := ordersvc.MustNewOrderService(
		ordersvc.WithMatchRepository(memory.NewMatchRepository()),
		ordersvc.WithIdleTTL(time.Hour),
		ordersvc.WithClock(clock),
	)

	for i := 0; i < 3; i++ {
		_, err := svc.OpenTable(ctx, "", "12")
		require.NoError(t, err)
	}
	active, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(90 * time.Minute)
	mu.Unlock()
	_, err = svc.Session(active.ID)
	require.NoError(t, err)

	w := NewWorker(svc).WithReapInterval(5 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return svc.SessionCount() == 1 }, time.Second, 5*time.Millisecond)
	_, err = svc.Session(active.ID)
	assert.NoError(t, err)

	w.Stop()
	w.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
