package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/betsafe/internal/domain/model"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, reqs []LineRequest) ([]model.Bet, error)
	TopK(ctx context.Context, reqs []LineRequest, k int) ([]model.Bet, error)
}

// RankHandler handles rank and top-K requests.
type RankHandler struct {
	deps         RankDependencies
	maxTopK      int
	maxBodyBytes int64
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies, maxTopK int, maxBodyBytes int64) *RankHandler {
	return &RankHandler{deps: deps, maxTopK: maxTopK, maxBodyBytes: maxBodyBytes}
}

// rankRequest mirrors the OpenAPI schema for POST /rank and POST /top.
type rankRequest struct {
	Bets []betRequest `json:"bets"`
}

// betRequest keeps line as a pointer so a missing line is distinguishable
// from a zero line.
type betRequest struct {
	Player string   `json:"player"`
	Line   *float64 `json:"line"`
}

func (r rankRequest) validate() ([]LineRequest, error) {
	if len(r.Bets) == 0 {
		return nil, errors.New("missing bets")
	}
	out := make([]LineRequest, len(r.Bets))
	for i, b := range r.Bets {
		switch {
		case strings.TrimSpace(b.Player) == "":
			return nil, fmt.Errorf("bets[%d]: missing player", i)
		case b.Line == nil:
			return nil, fmt.Errorf("bets[%d]: missing line", i)
		}
		out[i] = LineRequest{Player: b.Player, Line: *b.Line}
	}
	return out, nil
}

func (h *RankHandler) decode(w http.ResponseWriter, r *http.Request) ([]LineRequest, error) {
	var req rankRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, err
	}
	return req.validate()
}

// HandleRank handles POST /rank requests.
func (h *RankHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	reqs, err := h.decode(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	bets, err := h.deps.Rank(r.Context(), reqs)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, betsResponse{Bets: bets})
}

// HandleTop handles POST /top?k=N requests.
func (h *RankHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.top"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	k, err := strconv.Atoi(r.URL.Query().Get("k"))
	if err != nil || k < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if k > h.maxTopK {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrLimitExceeded))
		return
	}
	reqs, err := h.decode(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	bets, err := h.deps.TopK(r.Context(), reqs, k)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, betsResponse{Bets: bets})
}
