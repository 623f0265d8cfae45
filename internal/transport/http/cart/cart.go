package cart

import (
	"fmt"
	"net/http"

	"github.com/corray333/atlas-cafe/internal/service/models/cartitem"
	"github.com/corray333/atlas-cafe/internal/transport/http/render"
	"github.com/corray333/atlas-cafe/internal/transport/http/sessionctx"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// cartResponse represents the cart with its running total.
type cartResponse struct {
	Items []cartitem.CartItem `json:"items"`
	Total decimal.Decimal     `json:"total"`
}

func newCartResponse(items []cartitem.CartItem) cartResponse {
	return cartResponse{Items: items, Total: cartitem.Total(items)}
}

// GetCart returns the session cart.
func GetCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionctx.From(r.Context())
	render.JSON(w, http.StatusOK, newCartResponse(sess.State.Cart()))
}

// addItemRequest represents an add to cart request.
type addItemRequest struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
}

// Validate validates the add to cart request.
func (r *addItemRequest) Validate() error {
	return validator.New().Struct(r)
}

// AddItem puts one unit of a catalog item into the cart.
func AddItem(w http.ResponseWriter, r *http.Request) {
	req := addItemRequest{}
	if !render.Decode(w, r, &req) {
		return
	}

	sess := sessionctx.From(r.Context())
	item, ok := sess.State.MenuItem(req.MenuItemID)
	if !ok {
		http.Error(w, fmt.Sprintf("menu item %q not found", req.MenuItemID), http.StatusNotFound)

		return
	}
	sess.State.AddToCart(item)

	render.JSON(w, http.StatusOK, newCartResponse(sess.State.Cart()))
}

// updateQuantityRequest represents an update quantity request.
type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

// Validate validates the update quantity request.
func (r *updateQuantityRequest) Validate() error {
	return validator.New().Struct(r)
}

// UpdateQuantity sets the quantity of a cart entry. Quantities below one are rejected.
func UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	req := updateQuantityRequest{}
	if !render.Decode(w, r, &req) {
		return
	}

	sess := sessionctx.From(r.Context())
	itemID := chi.URLParam(r, "itemID")
	if !inCart(sess.State.Cart(), itemID) {
		http.Error(w, fmt.Sprintf("item %q is not in the cart", itemID), http.StatusNotFound)

		return
	}
	sess.State.UpdateQuantity(itemID, req.Quantity)

	render.JSON(w, http.StatusOK, newCartResponse(sess.State.Cart()))
}

// RemoveItem deletes a cart entry. Removing an absent entry succeeds.
func RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionctx.From(r.Context())
	sess.State.RemoveFromCart(chi.URLParam(r, "itemID"))

	render.JSON(w, http.StatusOK, newCartResponse(sess.State.Cart()))
}

func inCart(items []cartitem.CartItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}

	return false
}
