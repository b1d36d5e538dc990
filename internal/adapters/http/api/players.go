package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/betsafe/internal/app"
)

var errMissingPlayer = errors.New("missing player")

// PlayerDependencies defines the interface for player lookups.
type PlayerDependencies interface {
	Player(ctx context.Context, query string) (service.Player, error)
}

// PlayersHandler handles player lookup requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetPlayer handles GET /players?q=NAME requests. The first player
// whose name contains q, ignoring case, is returned.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errMissingPlayer))
		return
	}
	p, err := h.deps.Player(r.Context(), q)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
