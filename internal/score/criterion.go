package score

import (
	"fmt"
	"strings"
)

// Canonical criterion names. They key the entries of a score Table.
const (
	NameSumSD            = "sum of SDs"
	NameFluxesBelow      = "number of fluxes with SDs < threshold"
	NameLabeledInputs    = "number of labeled inputs"
	NamePrice            = "price"
	NameIdentifiedFluxes = "number of structurally identified fluxes"
)

// Short keys accepted by Parse, used on the command line.
const (
	KeySumSD            = "sum_sd"
	KeyFluxesBelow      = "flux_sd"
	KeyLabeledInputs    = "labeled_inputs"
	KeyPrice            = "price"
	KeyIdentifiedFluxes = "identified"
)

// DefaultWeight applies when Params.Weight is nil.
const DefaultWeight = 1.0

// Criterion is one ranking criterion. The set is closed: only the types in
// this file implement it.
type Criterion interface {
	Name() string
	criterion()
}

// SumSD sums the column: Σ column × Weight.
type SumSD struct {
	Weight float64
}

// FluxesBelow counts column values strictly below Threshold, times Weight.
type FluxesBelow struct {
	Threshold float64
	Weight    float64
}

// LabeledInputs reads the number of labelled inputs of the configuration
// from the metadata, times Weight.
type LabeledInputs struct {
	Weight float64
}

// Price reads the aggregate price of the configuration from the metadata,
// times Weight.
type Price struct {
	Weight float64
}

// IdentifiedFluxes reads the number of structurally identified fluxes of the
// configuration from the metadata, times Weight.
type IdentifiedFluxes struct {
	Weight float64
}

func (SumSD) Name() string            { return NameSumSD }
func (FluxesBelow) Name() string      { return NameFluxesBelow }
func (LabeledInputs) Name() string    { return NameLabeledInputs }
func (Price) Name() string            { return NamePrice }
func (IdentifiedFluxes) Name() string { return NameIdentifiedFluxes }

func (SumSD) criterion()            {}
func (FluxesBelow) criterion()      {}
func (LabeledInputs) criterion()    {}
func (Price) criterion()            {}
func (IdentifiedFluxes) criterion() {}

// Params carries the optional parameters of a criterion.
type Params struct {
	Weight    *float64
	Threshold *float64
}

// Parse builds a criterion from its canonical name or short key.
// Weight defaults to 1. FluxesBelow requires a threshold.
func Parse(name string, p Params) (Criterion, error) {
	weight := DefaultWeight
	if p.Weight != nil {
		weight = *p.Weight
	}

	switch strings.TrimSpace(name) {
	case NameSumSD, KeySumSD:
		return SumSD{Weight: weight}, nil
	case NameFluxesBelow, KeyFluxesBelow:
		if p.Threshold == nil {
			return nil, &Error{
				Code:      ErrCodeMissingParameter,
				Criterion: NameFluxesBelow,
				Message:   "threshold is required",
			}
		}
		return FluxesBelow{Threshold: *p.Threshold, Weight: weight}, nil
	case NameLabeledInputs, KeyLabeledInputs:
		return LabeledInputs{Weight: weight}, nil
	case NamePrice:
		return Price{Weight: weight}, nil
	case NameIdentifiedFluxes, KeyIdentifiedFluxes:
		return IdentifiedFluxes{Weight: weight}, nil
	default:
		return nil, &Error{
			Code:      ErrCodeUnknownCriterion,
			Criterion: name,
			Message:   fmt.Sprintf("unknown criterion, expected one of %s", strings.Join(Keys(), ", ")),
		}
	}
}

// Keys lists the short keys accepted by Parse.
func Keys() []string {
	return []string{KeySumSD, KeyFluxesBelow, KeyLabeledInputs, KeyPrice, KeyIdentifiedFluxes}
}

// Names lists the canonical criterion names.
func Names() []string {
	return []string{NameSumSD, NameFluxesBelow, NameLabeledInputs, NamePrice, NameIdentifiedFluxes}
}

// NeedsMetadata reports whether c reads per-configuration metadata.
func NeedsMetadata(c Criterion) bool {
	switch c.(type) {
	case LabeledInputs, Price, IdentifiedFluxes:
		return true
	}
	return false
}
