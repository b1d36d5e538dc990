package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/betsafe/internal/domain/model"
)

// PredictionsDependencies defines the interface for dataset listings.
type PredictionsDependencies interface {
	Predictions(ctx context.Context, n int) ([]model.PredictionRecord, error)
}

// PredictionsHandler handles predictions requests.
type PredictionsHandler struct {
	deps     PredictionsDependencies
	maxLimit int
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionsDependencies, maxLimit int) *PredictionsHandler {
	return &PredictionsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetPredictions handles GET /predictions?limit=N requests.
func (h *PredictionsHandler) HandleGetPredictions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_predictions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrLimitExceeded))
		return
	}
	recs, err := h.deps.Predictions(r.Context(), n)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, predictionsResponse{Predictions: recs})
}
