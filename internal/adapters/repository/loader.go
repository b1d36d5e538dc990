package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/betsafe/internal/domain/model"
	"github.com/okian/betsafe/pkg/logger"
)

// rawRecord mirrors one dataset row before presence checks. Pointers let us
// tell a missing field apart from an explicit zero.
type rawRecord struct {
	Player  *string  `json:"player" yaml:"player"`
	Team    string   `json:"team" yaml:"team"`
	Points  *float64 `json:"points" yaml:"points"`
	RealPts *float64 `json:"real_pts" yaml:"real_pts"`
	Error   *float64 `json:"error" yaml:"error"`
	Floor   *float64 `json:"floor" yaml:"floor"`
	Ceiling *float64 `json:"ceiling" yaml:"ceiling"`
}

type loader struct {
	format Format
	logger logger.Logger
}

// Load reads a dataset file once and returns an immutable Table.
// JSON is expected unless the file ends in .yaml/.yml or WithFormat says
// otherwise. A malformed record fails the whole load.
func Load(ctx context.Context, path string, opts ...Option) (*Table, error) {
	l := &loader{logger: logger.Get().Named("dataset")}
	for _, opt := range opts {
		opt(l)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadDataset, err)
	}

	table, err := l.table(path, data)
	if err != nil {
		return nil, err
	}
	l.logger.Info(ctx, "dataset loaded",
		logger.String("path", path),
		logger.Int("records", table.Count(ctx)),
	)
	return table, nil
}

// Decode parses dataset bytes without touching the filesystem.
func Decode(data []byte, format Format) (*Table, error) {
	l := &loader{format: format}
	return l.table("", data)
}

// table decodes data and builds a Table. Nothing is returned unless every
// record is valid.
func (l *loader) table(path string, data []byte) (*Table, error) {
	raws, err := l.decode(path, data)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadDataset, path, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadDataset, err)
	}

	records := make([]model.PredictionRecord, len(raws))
	for i, raw := range raws {
		rec, err := raw.toRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, i, err)
		}
		records[i] = rec
	}
	return NewTable(records)
}

func (l *loader) decode(path string, data []byte) ([]rawRecord, error) {
	format := l.format
	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = FormatYAML
		default:
			format = FormatJSON
		}
	}

	var raws []rawRecord
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		// Unmarshal rejects trailing data after the array.
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown dataset format %q", format)
	}
	return raws, nil
}

func (r rawRecord) toRecord() (model.PredictionRecord, error) {
	if r.Player == nil || strings.TrimSpace(*r.Player) == "" {
		return model.PredictionRecord{}, fmt.Errorf("missing player")
	}
	if r.Points == nil {
		return model.PredictionRecord{}, fmt.Errorf("player %q: missing points", *r.Player)
	}
	ranged := r.Floor != nil || r.Ceiling != nil
	if !ranged && r.Error == nil {
		return model.PredictionRecord{}, fmt.Errorf("player %q: missing error or floor/ceiling", *r.Player)
	}

	rec := model.PredictionRecord{
		Player:  *r.Player,
		Team:    r.Team,
		Points:  *r.Points,
		Floor:   r.Floor,
		Ceiling: r.Ceiling,
	}
	if r.RealPts != nil {
		rec.RealPts = *r.RealPts
	}
	if r.Error != nil {
		rec.Error = *r.Error
	}
	return rec, nil
}
