package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/services/ordersvc"
	"github.com/corray333/atlas-cafe/internal/service/state"
	"github.com/corray333/atlas-cafe/internal/transport/http/render"
	"github.com/corray333/atlas-cafe/internal/transport/http/sessionctx"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	CreateSession(ctx context.Context) (*ordersvc.Session, error)
	CloseSession(id string) error
}

// Response represents a session with its current state.
type Response struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	State     state.Snapshot `json:"state"`
}

// NewResponse converts a session to its wire form.
func NewResponse(sess *ordersvc.Session) Response {
	return Response{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		State:     sess.State.Snapshot(),
	}
}

// CreateSession handles the create session request.
func CreateSession(w http.ResponseWriter, r *http.Request, service service) {
	sess, err := service.CreateSession(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error creating session", "error", err)

		return
	}

	render.JSON(w, http.StatusCreated, NewResponse(sess))
}

// GetSession returns the snapshot of the session resolved by sessionctx.
func GetSession(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, NewResponse(sessionctx.From(r.Context())))
}

// CloseSession handles the close session request.
func CloseSession(w http.ResponseWriter, r *http.Request, service service) {
	id := chi.URLParam(r, "sessionID")
	err := service.CloseSession(id)
	if errors.Is(err, ordersvc.ErrSessionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error closing session", "session_id", id, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
