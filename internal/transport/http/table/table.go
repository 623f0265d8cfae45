package table

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/corray333/atlas-cafe/internal/service/services/ordersvc"
	"github.com/corray333/atlas-cafe/internal/transport/http/render"
	"github.com/corray333/atlas-cafe/internal/transport/http/session"
	"github.com/corray333/atlas-cafe/internal/transport/http/sessionctx"
	"github.com/go-playground/validator/v10"
)

const tablePrefix = "/table/"

// service is an interface for the service layer.
type service interface {
	OpenTable(ctx context.Context, sessionID, tableID string) (*ordersvc.Session, error)
}

// TableIDFromPath returns the free-form segment that follows /table/.
// Anything after that segment is ignored.
func TableIDFromPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, tablePrefix)
	if !ok {
		return "", false
	}
	id, _, _ := strings.Cut(rest, "/")
	if id == "" {
		return "", false
	}

	return id, true
}

// OpenTable binds the visitor's session to the scanned table, creating the session on first visit.
// The session id travels in a cookie so later scans reuse it.
func OpenTable(w http.ResponseWriter, r *http.Request, service service, cookieName string) {
	tableID, ok := TableIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "missing table id", http.StatusNotFound)

		return
	}

	var sessionID string
	if c, err := r.Cookie(cookieName); err == nil {
		sessionID = c.Value
	}

	sess, err := service.OpenTable(r.Context(), sessionID, tableID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error opening table", "table_id", tableID, "error", err)

		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	render.JSON(w, http.StatusOK, session.NewResponse(sess))
}

// setTableRequest represents a set table request.
type setTableRequest struct {
	TableID string `json:"tableId" validate:"required"`
}

// Validate validates the set table request.
func (r *setTableRequest) Validate() error {
	return validator.New().Struct(r)
}

// SetTable binds the session from the route to a table.
func SetTable(w http.ResponseWriter, r *http.Request) {
	req := setTableRequest{}
	if !render.Decode(w, r, &req) {
		return
	}

	sess := sessionctx.From(r.Context())
	sess.State.SetTableID(req.TableID)

	render.JSON(w, http.StatusOK, session.NewResponse(sess))
}
