package score

import (
	"fmt"
	"strings"
)

// Operation combines the criterion values of one configuration.
type Operation string

const (
	// OpNone leaves the criterion values uncombined.
	OpNone         Operation = ""
	Addition       Operation = "Addition"
	Multiplication Operation = "Multiplication"
	Division       Operation = "Division"
)

// ParseOperation accepts the operation names, their short verbs ("add",
// "multiply", "divide") and the empty string for OpNone. Case-insensitive.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return OpNone, nil
	case "addition", "add":
		return Addition, nil
	case "multiplication", "multiply":
		return Multiplication, nil
	case "division", "divide":
		return Division, nil
	}
	return OpNone, &Error{
		Code:    ErrCodeUnknownOperation,
		Message: fmt.Sprintf("unknown operation %q, expected Addition, Multiplication or Division", s),
	}
}

// Reduce folds values left to right. Division fails on any zero right-hand
// operand instead of producing an infinity or NaN.
func (op Operation) Reduce(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &Error{Code: ErrCodeNoCriteria, Message: "nothing to combine"}
	}

	acc := values[0]
	for i, v := range values[1:] {
		switch op {
		case Addition:
			acc += v
		case Multiplication:
			acc *= v
		case Division:
			if v == 0 {
				return 0, &Error{
					Code:    ErrCodeDivisionByZero,
					Message: fmt.Sprintf("operand %d of Division is zero", i+1),
				}
			}
			acc /= v
		default:
			return 0, &Error{
				Code:    ErrCodeUnknownOperation,
				Message: fmt.Sprintf("cannot reduce with operation %q", string(op)),
			}
		}
	}
	return acc, nil
}
