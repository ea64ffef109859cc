package store

import (
	"context"
	"fmt"

	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/ir"
	"github.com/roach88/isodesign/internal/linp"
	"github.com/roach88/isodesign/internal/score"
)

// DesignRecord is one stored design run.
type DesignRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Hash           string `json:"hash"` // content id of the compiled design
	Configurations int    `json:"configurations"`
	Seq            int64  `json:"seq"`
}

// ScoreRun is one stored score table.
type ScoreRun struct {
	ID        string          `json:"id"`
	DesignID  string          `json:"design_id"`
	Criteria  []string        `json:"criteria"`
	Operation score.Operation `json:"operation,omitempty"`
	Seq       int64           `json:"seq"`
}

// WriteDesign inserts a design run. content is the canonical form of the
// compiled design; rec.Seq is assigned by the store and ignored.
func (s *Store) WriteDesign(ctx context.Context, rec DesignRecord, content ir.Object) error {
	data, err := ir.MarshalCanonical(content)
	if err != nil {
		return fmt.Errorf("write design: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO designs (id, name, hash, content, configurations, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM designs))
	`, rec.ID, rec.Name, rec.Hash, string(data), rec.Configurations)
	if err != nil {
		return fmt.Errorf("write design: %w", err)
	}
	return nil
}

// WriteConfigurations stores every configuration of plan under designID,
// marking the ones sel excludes. The whole set is written in one
// transaction.
func (s *Store) WriteConfigurations(ctx context.Context, designID string, plan *linp.Plan, sel linp.Selection) (err error) {
	excluded := make(map[int]bool)
	for _, idx := range sel.Excluded() {
		excluded[idx] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write configurations: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO configurations
		(design_id, id, idx, hash, rows, labeled_inputs, total_price, excluded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write configurations: %w", err)
	}
	defer stmt.Close()

	for _, cfg := range plan.Configurations() {
		info, _ := plan.Info(cfg.Index)
		hash, err := ir.ConfigurationHash(cfg)
		if err != nil {
			return fmt.Errorf("write configuration %s: %w", cfg.ID, err)
		}
		rows, err := ir.MarshalCanonical(cfg.Object()["rows"])
		if err != nil {
			return fmt.Errorf("write configuration %s: %w", cfg.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			designID, cfg.ID, cfg.Index, hash, string(rows),
			info.LabeledInputs, frac.String(info.TotalPrice), excluded[cfg.Index],
		); err != nil {
			return fmt.Errorf("write configuration %s: %w", cfg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write configurations: %w", err)
	}
	return nil
}

// WriteScores stores t as a new score run of designID. Entries keep the
// table's column and key order.
func (s *Store) WriteScores(ctx context.Context, runID, designID string, t *score.Table) (err error) {
	criteria, err := ir.MarshalCanonical(ir.Strings(t.Criteria...))
	if err != nil {
		return fmt.Errorf("write scores: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO score_runs (id, design_id, criteria, operation, seq)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM score_runs))
	`, runID, designID, string(criteria), string(t.Operation)); err != nil {
		return fmt.Errorf("write score run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scores (run_id, configuration_id, name, value, seq)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	defer stmt.Close()

	seq := 0
	for _, col := range t.Columns {
		for _, e := range col.Entries {
			seq++
			if _, err := stmt.ExecContext(ctx, runID, col.Configuration, e.Name, e.Value, seq); err != nil {
				return fmt.Errorf("write score %s/%s: %w", col.Configuration, e.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	return nil
}
