package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/betsafe/internal/domain/model"
	"github.com/okian/betsafe/pkg/metrics"
)

// Table is an in-memory, read-only Store. It is safe for concurrent use
// because nothing mutates it after NewTable returns.
type Table struct {
	records []model.PredictionRecord
	lower   []string       // lower-cased player names, same index as records
	byName  map[string]int // lower-cased player name -> index
}

var _ Store = (*Table)(nil)

// NewTable validates records and builds a Table. Any invalid record rejects
// the whole dataset.
func NewTable(records []model.PredictionRecord) (*Table, error) {
	t := &Table{
		records: make([]model.PredictionRecord, len(records)),
		lower:   make([]string, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for i, rec := range records {
		if err := validate(rec); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, i, err)
		}
		key := strings.ToLower(strings.TrimSpace(rec.Player))
		if prev, dup := t.byName[key]; dup {
			return nil, fmt.Errorf("%w: record %d: duplicate player %q (first at %d)", ErrInvalidRecord, i, rec.Player, prev)
		}
		t.records[i] = clone(rec)
		t.lower[i] = strings.ToLower(rec.Player)
		t.byName[key] = i
	}
	metrics.UpdateDatasetRecords(len(t.records))
	return t, nil
}

// Find implements Store.Find. Matching is plain substring containment on
// the lower-cased name; the first match in dataset order wins.
func (t *Table) Find(ctx context.Context, query string) (model.PredictionRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		metrics.RecordLookup(false)
		return model.PredictionRecord{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}
	for i, name := range t.lower {
		if strings.Contains(name, q) {
			metrics.RecordLookup(true)
			return clone(t.records[i]), nil
		}
	}
	metrics.RecordLookup(false)
	return model.PredictionRecord{}, fmt.Errorf("%w: %q", ErrNotFound, query)
}

// Get implements Store.Get.
func (t *Table) Get(ctx context.Context, player string) (model.PredictionRecord, error) {
	i, ok := t.byName[strings.ToLower(strings.TrimSpace(player))]
	if !ok {
		metrics.RecordLookup(false)
		return model.PredictionRecord{}, fmt.Errorf("%w: %q", ErrNotFound, player)
	}
	metrics.RecordLookup(true)
	return clone(t.records[i]), nil
}

// Head implements Store.Head. n larger than the dataset returns everything.
func (t *Table) Head(ctx context.Context, n int) ([]model.PredictionRecord, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	if n > len(t.records) {
		n = len(t.records)
	}
	out := make([]model.PredictionRecord, n)
	for i := 0; i < n; i++ {
		out[i] = clone(t.records[i])
	}
	return out, nil
}

// Count implements Store.Count.
func (t *Table) Count(ctx context.Context) int {
	return len(t.records)
}

func validate(rec model.PredictionRecord) error {
	if strings.TrimSpace(rec.Player) == "" {
		return fmt.Errorf("missing player")
	}
	if (rec.Floor == nil) != (rec.Ceiling == nil) {
		return fmt.Errorf("player %q: floor and ceiling must be set together", rec.Player)
	}
	if floor, ceiling, ok := rec.Bounds(); ok {
		if !(floor <= rec.Points && rec.Points <= ceiling) {
			return fmt.Errorf("player %q: points %v outside [%v, %v]", rec.Player, rec.Points, floor, ceiling)
		}
		return nil
	}
	if rec.Error < 0 {
		return fmt.Errorf("player %q: negative error %v", rec.Player, rec.Error)
	}
	return nil
}

// clone detaches the bound pointers so callers cannot mutate the table.
func clone(rec model.PredictionRecord) model.PredictionRecord {
	if rec.Floor != nil {
		f := *rec.Floor
		rec.Floor = &f
	}
	if rec.Ceiling != nil {
		c := *rec.Ceiling
		rec.Ceiling = &c
	}
	return rec
}
