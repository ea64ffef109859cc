package summary

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/isodesign/internal/score"
)

// Sheet names of the xlsx report.
const (
	SheetSummary = "summary"
	SheetScores  = "scores"
	SheetStats   = "stats"
)

// ExportXLSX writes the table, and the scores when not nil, to an xlsx
// workbook at path.
//
// summary: Name, Kind, Value, then one SD column per configuration.
// scores:  one row per configuration, one column per score entry.
// stats:   sum, mean, median, min and max of every SD column.
func ExportXLSX(path string, t *Table, scores *score.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}

	header := append([]any{"Name", "Kind", "Value"}, anySlice(t.ids)...)
	if err := setRow(f, SheetSummary, 1, header); err != nil {
		return err
	}
	for i, flux := range t.fluxes {
		row := []any{flux.Name, flux.Kind, t.values[i]}
		for _, id := range t.ids {
			row = append(row, t.sds[id][i])
		}
		if err := setRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetStats); err != nil {
		return err
	}
	if err := setRow(f, SheetStats, 1, []any{"Configuration", "Sum", "Mean", "Median", "Min", "Max"}); err != nil {
		return err
	}
	for i, id := range t.ids {
		cs, err := t.Stats(id)
		if err != nil {
			return err
		}
		if err := setRow(f, SheetStats, i+2, []any{id, cs.Sum, cs.Mean, cs.Median, cs.Min, cs.Max}); err != nil {
			return err
		}
	}

	if scores != nil {
		if _, err := f.NewSheet(SheetScores); err != nil {
			return err
		}
		keys := scores.Keys()
		if err := setRow(f, SheetScores, 1, append([]any{"Configuration"}, anySlice(keys)...)); err != nil {
			return err
		}
		for i, col := range scores.Columns {
			row := []any{col.Configuration}
			for _, k := range keys {
				v, _ := col.Get(k)
				row = append(row, v)
			}
			if err := setRow(f, SheetScores, i+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
