package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/isodesign/internal/ir"
)

func loadScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_ScenarioFiles(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ReadsBackFromStore(t *testing.T) {
	result, err := Run(loadScenario(t, "gluc_fthf"))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Configurations, 2)
	assert.Equal(t, []string{"ID_3"}, result.Excluded)

	// Excluded configurations keep their metadata.
	require.Contains(t, result.Infos, "ID_3")
	assert.Equal(t, 1, *result.Infos["ID_3"].LabeledInputs)
	assert.InDelta(t, 97.5, *result.Infos["ID_3"].TotalPrice, 1e-9)
}

func TestRun_UnpricedRowsCountAsZero(t *testing.T) {
	result, err := Run(loadScenario(t, "gluc_unlabelled"))
	require.NoError(t, err)

	require.Len(t, result.Infos, 3)
	assert.Equal(t, 0.0, *result.Infos["ID_1"].TotalPrice)
	assert.InDelta(t, 47.75, *result.Infos["ID_2"].TotalPrice, 1e-9)
	assert.InDelta(t, 95.5, *result.Infos["ID_3"].TotalPrice, 1e-9)
}

func TestRun_ErrorCodes(t *testing.T) {
	tests := []struct {
		scenario string
		code     string
	}{
		{"bad_labelling", "LABELLING_LENGTH"},
		{"too_many", "TOO_MANY_COMBINATIONS"},
	}
	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			result, err := Run(loadScenario(t, tt.scenario))
			require.NoError(t, err)
			assert.Equal(t, tt.code, result.ErrorCode)
			assert.Empty(t, result.Configurations)
			assert.True(t, result.Pass)
		})
	}
}

func TestRun_SelectionOutOfRange(t *testing.T) {
	scenario := loadScenario(t, "gluc_fthf")
	scenario.Exclude = []int{4}
	scenario.Assertions = []Assertion{{Type: AssertError, Code: "INVALID_SELECTION"}}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_MissingDesignFileIsNotAnOutcome(t *testing.T) {
	scenario := &Scenario{
		Name:       "missing",
		Design:     filepath.Join(t.TempDir(), "absent.cue"),
		Assertions: []Assertion{{Type: AssertError, Code: "CUE"}},
	}
	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read design file")
}

func TestRun_FailedAssertions(t *testing.T) {
	scenario := loadScenario(t, "gluc_fthf")
	scenario.Assertions = []Assertion{
		{Type: AssertTotal, Count: 4},
		{Type: AssertConfiguration, ID: "ID_1", Rows: []ir.Row{{Specie: "Gluc", Isotopomer: "111111", Value: "1"}}},
		{Type: AssertConfiguration, ID: "ID_3", Rows: []ir.Row{{Specie: "Gluc", Isotopomer: "100000", Value: "1"}}},
		{Type: AssertExcluded, ID: "ID_1"},
		{Type: AssertLabeledInputs, ID: "ID_2", Count: 1},
		{Type: AssertTotalPrice, ID: "ID_2", Value: "110"},
		{Type: AssertUnpriced, ID: "ID_1"},
		{Type: AssertError, Code: "LABELLING_LENGTH"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 8)

	assert.Contains(t, result.Errors[0], "Expected: 4 configurations")
	assert.Contains(t, result.Errors[1], "Gluc[111111]=1@")
	assert.Contains(t, result.Errors[2], "Actual: not found")
	assert.Contains(t, result.Errors[3], "Actual: written")
	assert.Contains(t, result.Errors[4], "Actual: 2")
	assert.Contains(t, result.Errors[5], "Actual: 109.75")
	assert.Contains(t, result.Errors[6], "Actual: every row priced")
	assert.Contains(t, result.Errors[7], "Actual: no error")
}

func TestRun_ErrorFailsOtherAssertions(t *testing.T) {
	scenario := loadScenario(t, "bad_labelling")
	scenario.Assertions = append(scenario.Assertions, Assertion{Type: AssertTotal, Count: 0})

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Actual: error LABELLING_LENGTH")
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: AssertTotalPrice, ID: "ID_2", Expected: "110", Actual: "109.75"}
	assert.Equal(t, "Assertion failed: total_price (ID_2)\n  Expected: 110\n  Actual: 109.75", err.Error())
}
