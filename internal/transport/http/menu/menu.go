package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/corray333/atlas-cafe/internal/service/models/menuitem"
	"github.com/corray333/atlas-cafe/internal/service/state"
	"github.com/corray333/atlas-cafe/internal/transport/http/media"
	"github.com/corray333/atlas-cafe/internal/transport/http/render"
	"github.com/corray333/atlas-cafe/internal/transport/http/sessionctx"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrNonPositivePrice = fmt.Errorf("%w: price must be greater than zero", render.ErrInvalidField)

// photoService is an interface for the menu photo generator.
type photoService interface {
	GenerateMenuPhoto(ctx context.Context, name, description string) (string, error)
}

// menuResponse represents the catalog together with the filter tabs.
type menuResponse struct {
	Category   string                   `json:"category"`
	Categories []menuitem.CategoryLabel `json:"categories"`
	Items      []menuitem.MenuItem      `json:"items"`
}

// ListMenu returns the session catalog, optionally filtered by ?category=.
func ListMenu(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = menuitem.CategoryAll
	}
	if category != menuitem.CategoryAll {
		if _, err := menuitem.ParseCategory(category); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
	}

	sess := sessionctx.From(r.Context())
	render.JSON(w, http.StatusOK, menuResponse{
		Category:   category,
		Categories: menuitem.Labels(),
		Items:      menuitem.Filter(sess.State.MenuItems(), category),
	})
}

// addMenuItemRequest represents an add menu item request.
type addMenuItemRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"        validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"    validate:"omitempty,oneof=coffee food dessert combo"`
	Image       string          `json:"image"       validate:"required"`
}

// Validate validates the add menu item request.
func (r *addMenuItemRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	if !r.Price.IsPositive() {
		return ErrNonPositivePrice
	}

	return nil
}

// toModel converts addMenuItemRequest to menuitem.MenuItem. A missing category means food.
func (r *addMenuItemRequest) toModel() (menuitem.MenuItem, error) {
	if r.Category == "" {
		r.Category = menuitem.CategoryFood.String()
	}
	category, err := menuitem.ParseCategory(r.Category)
	if err != nil {
		return menuitem.MenuItem{}, err
	}

	return menuitem.MenuItem{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    category,
		Image:       r.Image,
	}, nil
}

// AddMenuItem appends an item to the session catalog.
func AddMenuItem(w http.ResponseWriter, r *http.Request) {
	req := addMenuItemRequest{}
	if !render.Decode(w, r, &req) {
		return
	}

	item, err := req.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error converting menu item request to model", "error", err)

		return
	}

	sess := sessionctx.From(r.Context())
	added, err := sess.State.AddMenuItem(item)
	if errors.Is(err, state.ErrDuplicateMenuItem) {
		http.Error(w, err.Error(), http.StatusConflict)

		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error adding menu item", "error", err)

		return
	}

	render.JSON(w, http.StatusCreated, added)
}

// menuPhotoRequest represents a menu photo request.
type menuPhotoRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
}

// Validate validates the menu photo request.
func (r *menuPhotoRequest) Validate() error {
	return validator.New().Struct(r)
}

// menuPhotoResponse carries the generated photo as a data URL.
type menuPhotoResponse struct {
	Image string `json:"image"`
}

// GeneratePhoto renders a catalog photo for a dish that is about to be added.
func GeneratePhoto(w http.ResponseWriter, r *http.Request, service photoService) {
	req := menuPhotoRequest{}
	if !render.Decode(w, r, &req) {
		return
	}

	image, err := service.GenerateMenuPhoto(r.Context(), req.Name, req.Description)
	if err != nil {
		media.WriteGenerationError(w, err)

		return
	}

	render.JSON(w, http.StatusOK, menuPhotoResponse{Image: image})
}
