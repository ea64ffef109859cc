package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/isodesign/internal/compiler"
	"github.com/roach88/isodesign/internal/ir"
	"github.com/roach88/isodesign/internal/linp"
	"github.com/roach88/isodesign/internal/mixture"
	"github.com/roach88/isodesign/internal/store"
)

// designID names the single design run of a scenario database.
const designID = "scenario"

// Harness runs scenarios against a store.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database. Coded failures of the
// design (compile, generation and selection errors) are recorded in the
// result and evaluated by error assertions; other failures are returned.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.Run(context.Background(), scenario)
}

// Run executes scenario with h's store.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()

	if err := h.execute(ctx, scenario, result); err != nil {
		code := errorCode(err)
		if code == "" {
			return nil, err
		}
		result.ErrorCode = code
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) execute(ctx context.Context, scenario *Scenario, result *Result) error {
	design, errs := compiler.LoadFile(scenario.Design, compiler.FailFast)
	if len(errs) > 0 {
		return errs[0]
	}
	groups := design.Groups()

	comb := mixture.New(
		mixture.WithLogger(h.logger),
		mixture.WithMaxCombinations(scenario.MaxCombinations),
	)
	combos, err := comb.Generate(groups)
	if err != nil {
		return err
	}

	plan, err := linp.Build(combos, linp.PricesFromGroups(groups))
	if err != nil {
		return fmt.Errorf("failed to build configurations: %w", err)
	}
	sel, err := plan.Select().Exclude(scenario.Exclude...)
	if err != nil {
		return err
	}
	result.Total = plan.Len()

	hash, err := design.Hash()
	if err != nil {
		return fmt.Errorf("failed to hash design: %w", err)
	}
	rec := store.DesignRecord{ID: designID, Name: design.Name, Hash: hash, Configurations: plan.Len()}
	if err := h.store.WriteDesign(ctx, rec, design.Object()); err != nil {
		return err
	}
	if err := h.store.WriteConfigurations(ctx, designID, plan, sel); err != nil {
		return err
	}

	return h.readBack(ctx, result)
}

// readBack fills result from the stored run.
func (h *Harness) readBack(ctx context.Context, result *Result) error {
	written, err := h.store.ReadConfigurations(ctx, designID, false)
	if err != nil {
		return err
	}
	all, err := h.store.ReadConfigurations(ctx, designID, true)
	if err != nil {
		return err
	}
	infos, err := h.store.ReadConfigInfos(ctx, designID)
	if err != nil {
		return err
	}

	kept := make(map[string]bool, len(written))
	for _, c := range written {
		kept[c.ID] = true
	}
	for _, c := range all {
		if !kept[c.ID] {
			result.Excluded = append(result.Excluded, c.ID)
		}
	}
	result.Configurations = written
	result.Infos = infos
	return nil
}

// errorCode returns the code of a design failure, or "" for errors that
// are not part of the design's outcome.
func errorCode(err error) string {
	if code := compiler.CodeOf(err); code != "" {
		return code
	}
	if code := mixture.CodeOf(err); code != "" {
		return string(code)
	}
	var se *linp.SelectionError
	if errors.As(err, &se) {
		return "INVALID_SELECTION"
	}
	return ""
}

// snapshot is the canonical form of the written configurations.
func snapshot(name string, result *Result) map[string]any {
	configs := make([]any, len(result.Configurations))
	for i, c := range result.Configurations {
		obj := c.Object()
		obj["id"] = ir.String(c.ID)
		obj["index"] = ir.Int(c.Index)
		configs[i] = obj
	}
	snap := map[string]any{
		"scenario":       name,
		"total":          result.Total,
		"configurations": configs,
	}
	if len(result.Excluded) > 0 {
		snap["excluded"] = result.Excluded
	}
	if result.ErrorCode != "" {
		snap["error_code"] = result.ErrorCode
	}
	return snap
}
