package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	ID       string // configuration id, if the assertion names one
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.ID != "" {
		fmt.Fprintf(&buf, " (%s)", e.ID)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages. A run that failed with an error code only satisfies
// error assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	if a.Type == AssertError {
		return assertError(result, a)
	}
	if result.ErrorCode != "" {
		return &AssertionError{Type: a.Type, ID: a.ID, Expected: "successful run", Actual: "error " + result.ErrorCode}
	}

	switch a.Type {
	case AssertTotal:
		return assertCount(a, result.Total)
	case AssertWritten:
		return assertCount(a, len(result.Configurations))
	case AssertConfiguration:
		return assertConfiguration(result, a)
	case AssertExcluded:
		return assertExcluded(result, a)
	case AssertLabeledInputs:
		return assertLabeledInputs(result, a)
	case AssertTotalPrice:
		return assertTotalPrice(result, a)
	case AssertUnpriced:
		return assertUnpriced(result, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertError(result *Result, a Assertion) error {
	if result.ErrorCode == a.Code {
		return nil
	}
	actual := result.ErrorCode
	if actual == "" {
		actual = "no error"
	}
	return &AssertionError{Type: a.Type, Expected: a.Code, Actual: actual}
}

func assertCount(a Assertion, n int) error {
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d configurations", a.Count),
		Actual:   fmt.Sprintf("%d configurations", n),
	}
}

func assertConfiguration(result *Result, a Assertion) error {
	cfg, ok := result.Configuration(a.ID)
	if !ok {
		return &AssertionError{Type: a.Type, ID: a.ID, Expected: "written configuration", Actual: "not found"}
	}
	if slices.Equal(cfg.Rows, a.Rows) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		ID:       a.ID,
		Expected: formatRows(a.Rows),
		Actual:   formatRows(cfg.Rows),
	}
}

func assertExcluded(result *Result, a Assertion) error {
	if slices.Contains(result.Excluded, a.ID) {
		return nil
	}
	actual := "not stored"
	if _, ok := result.Configuration(a.ID); ok {
		actual = "written"
	}
	return &AssertionError{Type: a.Type, ID: a.ID, Expected: "excluded", Actual: actual}
}

func assertLabeledInputs(result *Result, a Assertion) error {
	info, ok := result.Infos[a.ID]
	if !ok || info.LabeledInputs == nil {
		return &AssertionError{Type: a.Type, ID: a.ID, Expected: fmt.Sprintf("%d", a.Count), Actual: "unknown"}
	}
	if *info.LabeledInputs == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		ID:       a.ID,
		Expected: fmt.Sprintf("%d", a.Count),
		Actual:   fmt.Sprintf("%d", *info.LabeledInputs),
	}
}

// assertTotalPrice compares prices as decimals so "109.75" matches a row
// sum written as "109.750". Unpriced rows count as 0.
func assertTotalPrice(result *Result, a Assertion) error {
	want, err := frac.Parse(a.Value)
	if err != nil {
		return fmt.Errorf("total_price %s: %w", a.ID, err)
	}
	cfg, ok := result.Configuration(a.ID)
	if !ok {
		return &AssertionError{Type: a.Type, ID: a.ID, Expected: a.Value, Actual: "not found"}
	}

	sum := frac.Zero()
	for _, row := range cfg.Rows {
		if row.Price == "" {
			continue
		}
		price, err := frac.Parse(row.Price)
		if err != nil {
			return fmt.Errorf("total_price %s: %w", a.ID, err)
		}
		if sum, err = frac.Add(sum, price); err != nil {
			return fmt.Errorf("total_price %s: %w", a.ID, err)
		}
	}
	if sum.Cmp(want) == 0 {
		return nil
	}
	return &AssertionError{Type: a.Type, ID: a.ID, Expected: a.Value, Actual: frac.String(sum)}
}

func assertUnpriced(result *Result, a Assertion) error {
	cfg, ok := result.Configuration(a.ID)
	if !ok {
		return &AssertionError{Type: a.Type, ID: a.ID, Expected: "unpriced", Actual: "not found"}
	}
	for _, row := range cfg.Rows {
		if row.Price == "" {
			return nil
		}
	}
	return &AssertionError{Type: a.Type, ID: a.ID, Expected: "unpriced", Actual: "every row priced"}
}

func formatRows(rows []ir.Row) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprintf("%s[%s]=%s@%s", r.Specie, r.Isotopomer, r.Value, r.Price)
	}
	return strings.Join(parts, " ")
}
