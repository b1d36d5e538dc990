package model

// Advice is the side of the line the prediction favours.
type Advice string

const (
	AdviceOver  Advice = "OVER"
	AdviceUnder Advice = "UNDER"
)

// Status classifies whether the edge clears the model's uncertainty.
type Status string

const (
	StatusSafe  Status = "SAFE"
	StatusRisky Status = "RISKY"
)

// Result is the derived outcome of evaluating one record against one line.
type Result struct {
	Variant     Variant `json:"variant"`
	Diff        float64 `json:"diff"`
	SafetyScore float64 `json:"safety_score"`
	Advice      Advice  `json:"advice"`
	Status      Status  `json:"status"`
}

// Safe reports whether the result is classified SAFE.
func (r Result) Safe() bool { return r.Status == StatusSafe }

// Bet is a Result tagged with the record and line that produced it.
type Bet struct {
	Player string  `json:"player"`
	Team   string  `json:"team,omitempty"`
	Points float64 `json:"points"`
	Line   float64 `json:"line"`
	Result Result  `json:"result"`
}
