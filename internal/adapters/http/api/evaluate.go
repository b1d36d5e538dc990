package api

import (
	"context"
	"net/http"
	"strings"

	service "github.com/okian/betsafe/internal/app"
	"github.com/okian/betsafe/internal/domain/evaluator"
)

// EvaluateDependencies defines the interface for single-bet evaluation.
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, query string, line float64) (service.Evaluation, error)
}

// EvaluateHandler handles evaluate requests.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// HandleEvaluate handles GET /evaluate?player=NAME&line=N requests.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	player := strings.TrimSpace(q.Get("player"))
	if player == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errMissingPlayer))
		return
	}
	line, err := evaluator.ParseLine(q.Get("line"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, err := h.deps.Evaluate(r.Context(), player, line)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
