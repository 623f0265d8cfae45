package matches

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/corray333/atlas-cafe/internal/transport/http/render"
)

// service is an interface for the service layer.
type service interface {
	LatestMatches(ctx context.Context) ([]match.Match, error)
}

// matchesResponse represents the schedule with the highlighted fixtures precomputed.
type matchesResponse struct {
	Matches  []match.Match `json:"matches"`
	Featured *match.Match  `json:"featured,omitempty"`
	Banner   *match.Match  `json:"banner,omitempty"`
}

// ListMatches returns the latest schedule snapshot.
func ListMatches(w http.ResponseWriter, r *http.Request, service service) {
	matches, err := service.LatestMatches(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting matches", "error", err)

		return
	}

	resp := matchesResponse{Matches: matches}
	if m, ok := match.Featured(matches); ok {
		resp.Featured = &m
	}
	if m, ok := match.Banner(matches); ok {
		resp.Banner = &m
	}

	render.JSON(w, http.StatusOK, resp)
}
