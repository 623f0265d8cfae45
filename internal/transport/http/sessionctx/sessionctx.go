package sessionctx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/atlas-cafe/internal/service/services/ordersvc"
	"github.com/go-chi/chi/v5"
)

type ctxKey struct{}

type service interface {
	Session(id string) (*ordersvc.Session, error)
}

// Middleware resolves the {sessionID} route parameter and stores the session in the request context.
func Middleware(service service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "sessionID")
			sess, err := service.Session(id)
			if errors.Is(err, ordersvc.ErrSessionNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)

				return
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				slog.Error("Error resolving session", "session_id", id, "error", err)

				return
			}

			next.ServeHTTP(w, r.WithContext(With(r.Context(), sess)))
		})
	}
}

// With returns a copy of ctx carrying sess.
func With(ctx context.Context, sess *ordersvc.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// From returns the session stored by Middleware. It panics when the route is not wrapped.
func From(ctx context.Context) *ordersvc.Session {
	sess, ok := ctx.Value(ctxKey{}).(*ordersvc.Session)
	if !ok {
		panic("sessionctx: no session in context")
	}

	return sess
}
