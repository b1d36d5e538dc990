package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/betsafe/internal/domain/model"
	"github.com/okian/betsafe/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func fptr(v float64) *float64 { return &v }

func sampleRecords() []model.PredictionRecord {
	return []model.PredictionRecord{
		{Player: "Stephen Curry", Team: "GSW", Points: 28, RealPts: 26.4, Error: 1.5},
		{Player: "Seth Curry", Team: "CHA", Points: 9, RealPts: 8.1, Error: 2},
		{Player: "LeBron James", Team: "LAL", Points: 25, RealPts: 24.8, Error: 2.5},
		{Player: "Jalen Brunson", Team: "NYK", Points: 20, Floor: fptr(15), Ceiling: fptr(25)},
	}
}

func TestTable_Find(t *testing.T) {
	ctx := context.Background()
	table, err := NewTable(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := table.Find(ctx, "curry")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Player != "Stephen Curry" {
		t.Errorf("expected first match Stephen Curry, got %s", rec.Player)
	}

	rec, err = table.Find(ctx, "  LEBRON ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Player != "LeBron James" {
		t.Errorf("expected LeBron James, got %s", rec.Player)
	}

	rec, err = table.Find(ctx, "seth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Player != "Seth Curry" {
		t.Errorf("expected Seth Curry, got %s", rec.Player)
	}

	if _, err := table.Find(ctx, "jordan"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := table.Find(ctx, "   "); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for blank query, got %v", err)
	}
}

func TestTable_Get(t *testing.T) {
	ctx := context.Background()
	table, err := NewTable(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := table.Get(ctx, "jalen brunson")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Variant() != model.VariantRange {
		t.Errorf("expected range record, got %s", rec.Variant())
	}

	if _, err := table.Get(ctx, "curry"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected exact match only, got %v", err)
	}
}

func TestTable_Head(t *testing.T) {
	ctx := context.Background()
	table, err := NewTable(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count := table.Count(ctx); count != 4 {
		t.Errorf("expected count 4, got %d", count)
	}

	head, err := table.Head(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(head) != 2 || head[0].Player != "Stephen Curry" || head[1].Player != "Seth Curry" {
		t.Errorf("unexpected head: %+v", head)
	}

	head, err = table.Head(ctx, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(head) != 4 {
		t.Errorf("expected head capped at 4, got %d", len(head))
	}

	if _, err := table.Head(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if head[3].Player != "Jalen Brunson" {
		t.Errorf("expected dataset order, got %+v", head)
	}
}

func TestTable_Immutable(t *testing.T) {
	ctx := context.Background()
	records := sampleRecords()
	table, err := NewTable(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating the input slice must not leak into the table.
	records[0].Points = 99
	*records[3].Floor = 0

	rec, _ := table.Get(ctx, "Stephen Curry")
	if rec.Points != 28 {
		t.Errorf("expected points 28, got %v", rec.Points)
	}

	// Mutating a returned record must not leak either.
	got, _ := table.Get(ctx, "Jalen Brunson")
	if *got.Floor != 15 {
		t.Errorf("expected floor 15, got %v", *got.Floor)
	}
	*got.Floor = 1
	again, _ := table.Get(ctx, "Jalen Brunson")
	if *again.Floor != 15 {
		t.Errorf("expected floor 15 after caller mutation, got %v", *again.Floor)
	}
}

func TestNewTable_Validation(t *testing.T) {
	cases := []struct {
		name    string
		records []model.PredictionRecord
	}{
		{"missing player", []model.PredictionRecord{{Player: " ", Points: 10, Error: 1}}},
		{"negative error", []model.PredictionRecord{{Player: "A", Points: 10, Error: -1}}},
		{"floor without ceiling", []model.PredictionRecord{{Player: "A", Points: 10, Floor: fptr(5)}}},
		{"points below floor", []model.PredictionRecord{{Player: "A", Points: 4, Floor: fptr(5), Ceiling: fptr(9)}}},
		{"points above ceiling", []model.PredictionRecord{{Player: "A", Points: 10, Floor: fptr(5), Ceiling: fptr(9)}}},
		{"duplicate player", []model.PredictionRecord{
			{Player: "A", Points: 10, Error: 1},
			{Player: "a", Points: 11, Error: 1},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTable(tc.records); !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestLoad_JSON(t *testing.T) {
	ctx := context.Background()
	path := writeTemp(t, "predictions.json", `[
		{"player": "Stephen Curry", "points": 28, "real_pts": 26.4, "error": 1.5, "team": "GSW"},
		{"player": "Jalen Brunson", "points": 20, "floor": 15, "ceiling": 25},
		{"player": "Zero Margin", "points": 12, "real_pts": 11, "error": 0, "team_logo": "ignored"}
	]`)

	table, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Count(ctx) != 3 {
		t.Fatalf("expected 3 records, got %d", table.Count(ctx))
	}
	rec, _ := table.Get(ctx, "Stephen Curry")
	if rec.Error != 1.5 || rec.RealPts != 26.4 || rec.Team != "GSW" {
		t.Errorf("unexpected record: %+v", rec)
	}
	rec, _ = table.Get(ctx, "Zero Margin")
	if rec.Variant() != model.VariantMargin || rec.Error != 0 {
		t.Errorf("expected explicit zero error margin, got %+v", rec)
	}
}

func TestLoad_BundledDataset(t *testing.T) {
	ctx := context.Background()
	table, err := Load(ctx, filepath.Join("..", "..", "..", "data", "predictions.json"))
	if err != nil {
		t.Fatalf("bundled dataset failed to load: %v", err)
	}
	if table.Count(ctx) == 0 {
		t.Fatal("bundled dataset is empty")
	}
	ranged := 0
	records, err := table.Head(ctx, table.Count(ctx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rec := range records {
		if rec.Variant() == model.VariantRange {
			ranged++
		}
	}
	if ranged == 0 || ranged == table.Count(ctx) {
		t.Errorf("expected a mix of margin and range records, got %d of %d ranged", ranged, table.Count(ctx))
	}
}

func TestLoad_YAML(t *testing.T) {
	ctx := context.Background()
	path := writeTemp(t, "predictions.yaml", `
- player: Stephen Curry
  points: 28
  real_pts: 26.4
  error: 1.5
- player: Jalen Brunson
  points: 20
  floor: 15
  ceiling: 25
`)

	table, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := table.Find(ctx, "brunson")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	floor, ceiling, ok := rec.Bounds()
	if !ok || floor != 15 || ceiling != 25 {
		t.Errorf("unexpected bounds: %v %v %v", floor, ceiling, ok)
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := Load(ctx, filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, ErrLoadDataset) {
		t.Errorf("expected ErrLoadDataset for missing file, got %v", err)
	}

	bad := writeTemp(t, "bad.json", `{not json`)
	if _, err := Load(ctx, bad); !errors.Is(err, ErrLoadDataset) {
		t.Errorf("expected ErrLoadDataset for bad json, got %v", err)
	}

	missingPoints := writeTemp(t, "missing_points.json", `[{"player": "A", "error": 1}]`)
	if _, err := Load(ctx, missingPoints); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord for missing points, got %v", err)
	}

	missingMargin := writeTemp(t, "missing_margin.json", `[{"player": "A", "points": 10}]`)
	if _, err := Load(ctx, missingMargin); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord for missing error, got %v", err)
	}

	missingPlayer := writeTemp(t, "missing_player.json", `[{"points": 10, "error": 1}]`)
	if _, err := Load(ctx, missingPlayer); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord for missing player, got %v", err)
	}
}

func TestLoad_TrailingData(t *testing.T) {
	ctx := context.Background()

	trailing := writeTemp(t, "trailing.json", `[{"player": "A", "points": 10, "error": 1}] [{"player": "B"}]`)
	if _, err := Load(ctx, trailing); !errors.Is(err, ErrLoadDataset) {
		t.Errorf("expected ErrLoadDataset for data after the array, got %v", err)
	}

	if _, err := Decode([]byte(`[{"player": "A", "points": 10, "error": 1}]garbage`), FormatJSON); !errors.Is(err, ErrLoadDataset) {
		t.Errorf("expected ErrLoadDataset from Decode for trailing garbage, got %v", err)
	}

	table, err := Decode([]byte("[{\"player\": \"A\", \"points\": 10, \"error\": 1}]\n\n"), FormatJSON)
	if err != nil {
		t.Fatalf("trailing whitespace should be accepted: %v", err)
	}
	if table.Count(ctx) != 1 {
		t.Errorf("expected 1 record, got %d", table.Count(ctx))
	}
}

func TestDecode_ForcedFormat(t *testing.T) {
	table, err := Decode([]byte("- player: A\n  points: 10\n  error: 1\n"), FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Count(context.Background()) != 1 {
		t.Errorf("expected 1 record")
	}

	if _, err := Decode([]byte(`[]`), Format("toml")); !errors.Is(err, ErrLoadDataset) {
		t.Errorf("expected ErrLoadDataset for unknown format, got %v", err)
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
