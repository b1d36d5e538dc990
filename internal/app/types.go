package service

import "github.com/okian/betsafe/internal/domain/model"

// LineRequest asks for one player to be evaluated against one line.
type LineRequest struct {
	Player string  `json:"player"`
	Line   float64 `json:"line"`
}

// Display carries presentation fields. They come from the profile API when
// enrichment succeeds and fall back to the dataset otherwise.
type Display struct {
	FullName    string `json:"full_name"`
	Team        string `json:"team,omitempty"`
	Position    string `json:"position,omitempty"`
	HeadshotURL string `json:"headshot_url,omitempty"`
	Enriched    bool   `json:"enriched"`
}

// Evaluation is the outcome of a single lookup-and-evaluate request.
type Evaluation struct {
	EvaluationID string                 `json:"evaluation_id"`
	Record       model.PredictionRecord `json:"record"`
	Line         float64                `json:"line"`
	Result       model.Result           `json:"result"`
	Display      Display                `json:"display"`
}

// Player is a dataset record decorated with display fields.
type Player struct {
	Record  model.PredictionRecord `json:"record"`
	Display Display                `json:"display"`
}
