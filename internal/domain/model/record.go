// Package model contains domain models passed between layers.
package model

// Variant names the uncertainty shape attached to a prediction.
type Variant string

const (
	// VariantMargin is a symmetric +/- error band around the prediction.
	VariantMargin Variant = "margin"
	// VariantRange is an explicit floor/ceiling band.
	VariantRange Variant = "range"
)

// PredictionRecord is one row of the static prediction dataset.
// Records are loaded once and never mutated afterwards.
type PredictionRecord struct {
	Player  string   `json:"player"`
	Team    string   `json:"team,omitempty"`
	Points  float64  `json:"points"`   // predicted value
	RealPts float64  `json:"real_pts"` // historical average, informational only
	Error   float64  `json:"error"`    // uncertainty margin, margin variant only
	Floor   *float64 `json:"floor,omitempty"`
	Ceiling *float64 `json:"ceiling,omitempty"`
}

// Variant reports which evaluator applies to the record.
func (r PredictionRecord) Variant() Variant {
	if r.Floor != nil && r.Ceiling != nil {
		return VariantRange
	}
	return VariantMargin
}

// Bounds returns the floor and ceiling of a range record.
// ok is false for margin records.
func (r PredictionRecord) Bounds() (floor, ceiling float64, ok bool) {
	if r.Variant() != VariantRange {
		return 0, 0, false
	}
	return *r.Floor, *r.Ceiling, true
}
