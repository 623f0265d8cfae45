package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/atlas-cafe/internal/transport/http/render"
	"github.com/corray333/atlas-cafe/internal/transport/http/sessionctx"
	"github.com/go-chi/chi/v5"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrConfirmationRequired = errors.New("cancellation must be confirmed with confirm=true")
)

// PlaceOrder turns the session cart into an order.
func PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionctx.From(r.Context())

	id, ok := sess.State.PlaceOrder()
	if !ok {
		render.Error(w, http.StatusConflict, "empty_cart", ErrEmptyCart)

		return
	}

	placed, ok := sess.State.Order(id)
	if !ok {
		// Cancelled between the two calls.
		http.Error(w, "order no longer exists", http.StatusConflict)

		return
	}

	slog.Info("Order placed", "session_id", sess.ID, "order_id", id, "table_id", placed.TableID, "total", placed.Total)

	render.JSON(w, http.StatusCreated, placed)
}

// ListOrders returns the orders placed in the session.
func ListOrders(w http.ResponseWriter, r *http.Request) {
	sess := sessionctx.From(r.Context())
	render.JSON(w, http.StatusOK, sess.State.Orders())
}

// CancelOrder removes an order. The caller must pass confirm=true.
func CancelOrder(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirmed {
		render.Error(w, http.StatusConflict, "confirmation_required", ErrConfirmationRequired)

		return
	}

	sess := sessionctx.From(r.Context())
	orderID := chi.URLParam(r, "orderID")
	if _, ok := sess.State.Order(orderID); !ok {
		http.Error(w, "order not found", http.StatusNotFound)

		return
	}
	sess.State.CancelOrder(orderID)

	slog.Info("Order cancelled", "session_id", sess.ID, "order_id", orderID)

	w.WriteHeader(http.StatusNoContent)
}
