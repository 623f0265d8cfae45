package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/state"
	"github.com/corray333/atlas-cafe/internal/transport/http/sessionctx"
)

const keepAliveInterval = 15 * time.Second

// Subscribe attaches a coalescing listener to m. The returned channel always holds at most
// the newest snapshot, so a slow reader skips intermediate versions instead of blocking m.
func Subscribe(m *state.Manager) (<-chan state.Snapshot, func()) {
	updates := make(chan state.Snapshot, 1)
	unsubscribe := m.Subscribe(func(e state.Event) {
		for {
			select {
			case updates <- e.Snapshot:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})

	return updates, unsubscribe
}

// Stream sends the current snapshot and then every change as server-sent events until the client leaves.
// An open stream keeps the session from being reaped as idle.
func Stream(w http.ResponseWriter, r *http.Request) {
	sess := sessionctx.From(r.Context())
	rc := http.NewResponseController(w)

	updates, unsubscribe := Subscribe(sess.State)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeSnapshot(w, rc, sess.State.Snapshot()); err != nil {
		slog.Error("Error sending snapshot", "session_id", sess.ID, "error", err)

		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot := <-updates:
			if err := writeSnapshot(w, rc, snapshot); err != nil {
				slog.Error("Error sending snapshot", "session_id", sess.ID, "error", err)

				return
			}
		case <-ticker.C:
			sess.Touch()
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeSnapshot(w http.ResponseWriter, rc *http.ResponseController, snapshot state.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snapshot.Version, data); err != nil {
		return err
	}

	return rc.Flush()
}
