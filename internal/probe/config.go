package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Requests   int           // Number of /evaluate requests to fire
	Batches    int           // Number of /rank and /top batches
	BatchSize  int           // Bets per batch
	TopK       int           // k passed to /top
	Sample     int           // Dataset rows fetched from /predictions
	Workers    int           // Number of concurrent workers
	Seed       uint64        // Seed for line generation, 0 picks one from the clock
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for the run report
	LogFile    string        // Log file for probe output
	Verbose    bool          // Enable verbose logging
}

// Prediction mirrors one row of GET /predictions.
type Prediction struct {
	Player  string   `json:"player"`
	Team    string   `json:"team,omitempty"`
	Points  float64  `json:"points"`
	RealPts float64  `json:"real_pts"`
	Error   float64  `json:"error"`
	Floor   *float64 `json:"floor,omitempty"`
	Ceiling *float64 `json:"ceiling,omitempty"`
}

// Result mirrors the result object the service attaches to evaluations and bets.
type Result struct {
	Variant     string  `json:"variant"`
	Diff        float64 `json:"diff"`
	SafetyScore float64 `json:"safety_score"`
	Advice      string  `json:"advice"`
	Status      string  `json:"status"`
}

// Evaluation mirrors the GET /evaluate response.
type Evaluation struct {
	EvaluationID string     `json:"evaluation_id"`
	Record       Prediction `json:"record"`
	Line         float64    `json:"line"`
	Result       Result     `json:"result"`
}

// Bet mirrors one entry of the /rank and /top responses.
type Bet struct {
	Player string  `json:"player"`
	Team   string  `json:"team,omitempty"`
	Points float64 `json:"points"`
	Line   float64 `json:"line"`
	Result Result  `json:"result"`
}

// Line is a generated (player, line) pair.
type Line struct {
	Player string  `json:"player"`
	Line   float64 `json:"line"`
}

// Stats holds probe statistics.
type Stats struct {
	Predictions     int           `json:"predictions"`
	Evaluations     int           `json:"evaluations"`
	EvaluationsSafe int           `json:"evaluations_safe"`
	EvaluationsFail int           `json:"evaluations_failed"`
	Batches         int           `json:"batches"`
	BatchesFail     int           `json:"batches_failed"`
	Violations      []string      `json:"violations,omitempty"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Duration        time.Duration `json:"duration"`
}
