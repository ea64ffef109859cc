package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/ir"
	"github.com/roach88/isodesign/internal/score"
)

// ListDesigns returns every design run, oldest first.
func (s *Store) ListDesigns(ctx context.Context) ([]DesignRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hash, configurations, seq
		FROM designs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query designs: %w", err)
	}
	defer rows.Close()

	designs := []DesignRecord{}
	for rows.Next() {
		var d DesignRecord
		if err := rows.Scan(&d.ID, &d.Name, &d.Hash, &d.Configurations, &d.Seq); err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate designs: %w", err)
	}
	return designs, nil
}

// ReadDesign returns one design run.
func (s *Store) ReadDesign(ctx context.Context, id string) (DesignRecord, error) {
	var d DesignRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, hash, configurations, seq
		FROM designs
		WHERE id = ?
	`, id).Scan(&d.ID, &d.Name, &d.Hash, &d.Configurations, &d.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return DesignRecord{}, fmt.Errorf("design %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return DesignRecord{}, fmt.Errorf("query design: %w", err)
	}
	return d, nil
}

// ReadConfigurations returns the configurations of a design run in index
// order. Excluded configurations are skipped unless all is set.
func (s *Store) ReadConfigurations(ctx context.Context, designID string, all bool) ([]ir.Configuration, error) {
	if _, err := s.ReadDesign(ctx, designID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, idx, rows
		FROM configurations
		WHERE design_id = ? AND (? OR excluded = 0)
		ORDER BY idx ASC
	`, designID, all)
	if err != nil {
		return nil, fmt.Errorf("query configurations: %w", err)
	}
	defer rows.Close()

	configs := []ir.Configuration{}
	for rows.Next() {
		var (
			cfg  ir.Configuration
			data string
		)
		if err := rows.Scan(&cfg.ID, &cfg.Index, &data); err != nil {
			return nil, fmt.Errorf("scan configuration: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &cfg.Rows); err != nil {
			return nil, fmt.Errorf("decode configuration %s: %w", cfg.ID, err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate configurations: %w", err)
	}
	return configs, nil
}

// ReadConfigInfos returns the scoring metadata stored with a design run,
// excluded configurations included.
func (s *Store) ReadConfigInfos(ctx context.Context, designID string) (score.Metadata, error) {
	if _, err := s.ReadDesign(ctx, designID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, labeled_inputs, total_price
		FROM configurations
		WHERE design_id = ?
		ORDER BY idx ASC
	`, designID)
	if err != nil {
		return nil, fmt.Errorf("query configurations: %w", err)
	}
	defer rows.Close()

	meta := score.Metadata{}
	for rows.Next() {
		var (
			id      string
			labeled int
			price   sql.NullString
		)
		if err := rows.Scan(&id, &labeled, &price); err != nil {
			return nil, fmt.Errorf("scan configuration: %w", err)
		}
		info := score.ConfigInfo{LabeledInputs: score.Int(labeled)}
		if price.Valid {
			d, err := frac.Parse(price.String)
			if err != nil {
				return nil, fmt.Errorf("configuration %s price: %w", id, err)
			}
			f, err := frac.Float64(d)
			if err != nil {
				return nil, fmt.Errorf("configuration %s price: %w", id, err)
			}
			info.TotalPrice = score.Float(f)
		}
		meta[id] = info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate configurations: %w", err)
	}
	return meta, nil
}

// ListScoreRuns returns the score runs of a design run, oldest first.
func (s *Store) ListScoreRuns(ctx context.Context, designID string) ([]ScoreRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, design_id, criteria, operation, seq
		FROM score_runs
		WHERE design_id = ?
		ORDER BY seq ASC
	`, designID)
	if err != nil {
		return nil, fmt.Errorf("query score runs: %w", err)
	}
	defer rows.Close()

	runs := []ScoreRun{}
	for rows.Next() {
		run, err := scanScoreRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score runs: %w", err)
	}
	return runs, nil
}

// ReadScores rebuilds the score table of a score run.
func (s *Store) ReadScores(ctx context.Context, runID string) (*score.Table, error) {
	run, err := scanScoreRun(s.db.QueryRowContext(ctx, `
		SELECT id, design_id, criteria, operation, seq
		FROM score_runs
		WHERE id = ?
	`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("score run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT configuration_id, name, value
		FROM scores
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	t := &score.Table{Criteria: run.Criteria, Operation: run.Operation, Columns: []score.ColumnScores{}}
	for rows.Next() {
		var (
			id string
			e  score.Entry
		)
		if err := rows.Scan(&id, &e.Name, &e.Value); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		n := len(t.Columns)
		if n == 0 || t.Columns[n-1].Configuration != id {
			t.Columns = append(t.Columns, score.ColumnScores{Configuration: id})
			n++
		}
		t.Columns[n-1].Entries = append(t.Columns[n-1].Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScoreRun(row scanner) (ScoreRun, error) {
	var (
		run      ScoreRun
		criteria string
		op       string
	)
	if err := row.Scan(&run.ID, &run.DesignID, &criteria, &op, &run.Seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ScoreRun{}, err
		}
		return ScoreRun{}, fmt.Errorf("scan score run: %w", err)
	}
	if err := json.Unmarshal([]byte(criteria), &run.Criteria); err != nil {
		return ScoreRun{}, fmt.Errorf("decode score run %s criteria: %w", run.ID, err)
	}
	run.Operation = score.Operation(op)
	return run, nil
}
