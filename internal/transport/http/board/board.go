package board

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/atlas-cafe/internal/service/models/order"
	"github.com/corray333/atlas-cafe/internal/transport/http/render"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	Board(ctx context.Context, query order.QueryOrdersModel) []order.Order
}

// queryBoardRequest represents the board filters passed in the query string.
type queryBoardRequest struct {
	TableIDs []string `schema:"tableId"  validate:"dive,required"`
	Statuses []string `schema:"status"   validate:"dive,oneof=new preparing completed"`
	Limit    int      `schema:"limit"    validate:"gte=0"`
	Offset   int      `schema:"offset"   validate:"gte=0"`
}

// Validate validates the board query.
func (q *queryBoardRequest) Validate() error {
	return validator.New().Struct(q)
}

// ToModel converts the query to order.QueryOrdersModel.
func (q *queryBoardRequest) ToModel() (order.QueryOrdersModel, error) {
	statuses := make([]order.Status, 0, len(q.Statuses))
	for _, s := range q.Statuses {
		status, err := order.ParseStatus(s)
		if err != nil {
			return order.QueryOrdersModel{}, err
		}
		statuses = append(statuses, status)
	}

	return order.QueryOrdersModel{
		TableIDs: q.TableIDs,
		Statuses: statuses,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}, nil
}

// ListBoard returns the staff order board across all sessions, newest first.
func ListBoard(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	query := &queryBoardRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	if err := query.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating board query", "error", err)

		return
	}

	model, err := query.ToModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	render.JSON(w, http.StatusOK, service.Board(r.Context(), model))
}
