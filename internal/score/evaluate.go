package score

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Evaluate computes criterion c for the configuration id whose results
// column is column.
func Evaluate(id string, column []float64, c Criterion, meta Metadata) (float64, error) {
	switch c := c.(type) {
	case SumSD:
		if len(column) == 0 {
			return 0, nil
		}
		sum, err := stats.Sum(column)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", c.Name(), err)
		}
		return sum * c.Weight, nil

	case FluxesBelow:
		n := 0
		for _, v := range column {
			if v < c.Threshold {
				n++
			}
		}
		return float64(n) * c.Weight, nil

	case LabeledInputs:
		info, err := lookup(id, c, meta)
		if err != nil {
			return 0, err
		}
		if info.LabeledInputs == nil {
			return 0, missing(id, c, "number of labeled inputs unknown")
		}
		return float64(*info.LabeledInputs) * c.Weight, nil

	case Price:
		info, err := lookup(id, c, meta)
		if err != nil {
			return 0, err
		}
		if info.TotalPrice == nil {
			return 0, missing(id, c, "total price unknown")
		}
		return *info.TotalPrice * c.Weight, nil

	case IdentifiedFluxes:
		info, err := lookup(id, c, meta)
		if err != nil {
			return 0, err
		}
		if info.IdentifiedFluxes == nil {
			return 0, missing(id, c, "structural identification unknown")
		}
		return float64(*info.IdentifiedFluxes) * c.Weight, nil

	default:
		return 0, &Error{
			Code:          ErrCodeUnknownCriterion,
			Configuration: id,
			Message:       fmt.Sprintf("unsupported criterion %T", c),
		}
	}
}

func lookup(id string, c Criterion, meta Metadata) (ConfigInfo, error) {
	info, ok := meta[id]
	if !ok {
		return ConfigInfo{}, missing(id, c, "configuration has no metadata")
	}
	return info, nil
}

func missing(id string, c Criterion, msg string) error {
	return &Error{
		Code:          ErrCodeMissingMetadata,
		Configuration: id,
		Criterion:     c.Name(),
		Message:       msg,
	}
}
