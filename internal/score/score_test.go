package score

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// columns is an in-memory Results.
type columns struct {
	ids  []string
	data map[string][]float64
}

func (c columns) Configurations() []string { return c.ids }

func (c columns) Column(id string) ([]float64, bool) {
	v, ok := c.data[id]
	return v, ok
}

func twoConfigs() columns {
	return columns{
		ids: []string{"ID_1", "ID_2"},
		data: map[string][]float64{
			"ID_1": {0.5, 1.5, 3},
			"ID_2": {0.25, 0.25},
		},
	}
}

func twoConfigsMeta() Metadata {
	return Metadata{
		"ID_1": {LabeledInputs: Int(2), TotalPrice: Float(120)},
		"ID_2": {LabeledInputs: Int(1), TotalPrice: Float(40)},
	}
}

func render(t *Table) string {
	var b strings.Builder
	for _, c := range t.Columns {
		for _, e := range c.Entries {
			fmt.Fprintf(&b, "%s\t%s\t%s\n", c.Configuration, e.Name, strconv.FormatFloat(e.Value, 'g', -1, 64))
		}
	}
	return b.String()
}

func TestScoreGolden(t *testing.T) {
	h := Handler{
		Criteria: []Criterion{
			SumSD{Weight: 1},
			FluxesBelow{Threshold: 1, Weight: 1},
			LabeledInputs{Weight: 1},
		},
		Operation: Addition,
	}
	table, err := h.Score(twoConfigs(), twoConfigsMeta())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "score_addition", []byte(render(table)))
}

func TestScoreKeepsRequestedOrder(t *testing.T) {
	h := Handler{Criteria: []Criterion{Price{Weight: 1}, SumSD{Weight: 1}}}
	table, err := h.Score(twoConfigs(), twoConfigsMeta())
	require.NoError(t, err)

	assert.Equal(t, []string{NamePrice, NameSumSD}, table.Keys())
	col, ok := table.Get("ID_1")
	require.True(t, ok)
	require.Len(t, col.Entries, 2)
	assert.Equal(t, NamePrice, col.Entries[0].Name)
	assert.Equal(t, 120.0, col.Entries[0].Value)
	assert.Equal(t, 5.0, col.Entries[1].Value)
}

func TestScoreAdditionEqualsSumOfCriteria(t *testing.T) {
	criteria := []Criterion{SumSD{Weight: 2}, FluxesBelow{Threshold: 1, Weight: 3}, Price{Weight: 0.5}}
	table, err := Handler{Criteria: criteria, Operation: Addition}.Score(twoConfigs(), twoConfigsMeta())
	require.NoError(t, err)

	for _, col := range table.Columns {
		total := 0.0
		for _, c := range criteria {
			v, ok := col.Get(c.Name())
			require.True(t, ok)
			total += v
		}
		got, ok := col.Get(string(Addition))
		require.True(t, ok)
		assert.InDelta(t, total, got, 1e-12, col.Configuration)
	}
}

func TestScoreWeights(t *testing.T) {
	table, err := Handler{Criteria: []Criterion{SumSD{Weight: -1}}}.Score(twoConfigs(), nil)
	require.NoError(t, err)

	v, ok := table.AsMap()["ID_2"][NameSumSD]
	require.True(t, ok)
	assert.Equal(t, -0.5, v)
}

func TestScoreEmptyColumn(t *testing.T) {
	res := columns{ids: []string{"ID_1"}, data: map[string][]float64{"ID_1": nil}}
	table, err := Handler{Criteria: []Criterion{SumSD{Weight: 1}, FluxesBelow{Threshold: 0.1, Weight: 1}}}.Score(res, nil)
	require.NoError(t, err)

	m := table.AsMap()["ID_1"]
	assert.Equal(t, 0.0, m[NameSumSD])
	assert.Equal(t, 0.0, m[NameFluxesBelow])
}

func TestScoreIsRepeatable(t *testing.T) {
	h := Handler{Criteria: []Criterion{SumSD{Weight: 1}, LabeledInputs{Weight: 1}}, Operation: Multiplication}
	a, err := h.Score(twoConfigs(), twoConfigsMeta())
	require.NoError(t, err)
	b, err := h.Score(twoConfigs(), twoConfigsMeta())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScoreDivision(t *testing.T) {
	h := Handler{Criteria: []Criterion{SumSD{Weight: 1}, LabeledInputs{Weight: 1}}, Operation: Division}
	table, err := h.Score(twoConfigs(), twoConfigsMeta())
	require.NoError(t, err)

	m := table.AsMap()
	assert.Equal(t, 2.5, m["ID_1"][string(Division)])
	assert.Equal(t, 0.5, m["ID_2"][string(Division)])
}

func TestScoreDivisionByZero(t *testing.T) {
	meta := twoConfigsMeta()
	meta["ID_2"] = ConfigInfo{LabeledInputs: Int(0)}

	h := Handler{Criteria: []Criterion{SumSD{Weight: 1}, LabeledInputs{Weight: 1}}, Operation: Division}
	_, err := h.Score(twoConfigs(), meta)
	require.Error(t, err)
	assert.True(t, IsDivisionByZero(err))

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ID_2", se.Configuration)
}

func TestScoreMissingMetadata(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
		c    Criterion
	}{
		{"no entry", Metadata{"ID_1": {LabeledInputs: Int(1)}}, LabeledInputs{Weight: 1}},
		{"no price", twoConfigsMeta().Merge(Metadata{}), IdentifiedFluxes{Weight: 1}},
		{"unpriced tracer", Metadata{"ID_1": {}, "ID_2": {}}, Price{Weight: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Handler{Criteria: []Criterion{tt.c}}.Score(twoConfigs(), tt.meta)
			require.Error(t, err)
			assert.True(t, IsMissingMetadata(err))
		})
	}
}

func TestScoreRejectsBadCriteria(t *testing.T) {
	_, err := Handler{}.Score(twoConfigs(), nil)
	assert.Equal(t, ErrCodeNoCriteria, CodeOf(err))

	_, err = Handler{Criteria: []Criterion{SumSD{Weight: 1}, SumSD{Weight: 2}}}.Score(twoConfigs(), nil)
	assert.Equal(t, ErrCodeDuplicateCriterion, CodeOf(err))

	_, err = Handler{Criteria: []Criterion{SumSD{Weight: 1}}, Operation: "Modulo"}.Score(twoConfigs(), nil)
	assert.Equal(t, ErrCodeUnknownOperation, CodeOf(err))
}

func TestScoreMissingColumn(t *testing.T) {
	res := columns{ids: []string{"ID_1", "ID_9"}, data: twoConfigs().data}
	_, err := Handler{Criteria: []Criterion{SumSD{Weight: 1}}}.Score(res, nil)
	assert.Equal(t, ErrCodeMissingColumn, CodeOf(err))
}

func TestParse(t *testing.T) {
	threshold := 0.2
	weight := 3.0

	c, err := Parse("sum_sd", Params{})
	require.NoError(t, err)
	assert.Equal(t, SumSD{Weight: 1}, c)

	c, err = Parse(NameFluxesBelow, Params{Threshold: &threshold, Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, FluxesBelow{Threshold: 0.2, Weight: 3}, c)

	c, err = Parse("price", Params{})
	require.NoError(t, err)
	assert.True(t, NeedsMetadata(c))

	_, err = Parse("flux_sd", Params{})
	assert.Equal(t, ErrCodeMissingParameter, CodeOf(err))

	_, err = Parse("entropy", Params{})
	assert.Equal(t, ErrCodeUnknownCriterion, CodeOf(err))

	for _, k := range Keys() {
		_, err := Parse(k, Params{Threshold: &threshold})
		assert.NoError(t, err, k)
	}
}

func TestParseOperation(t *testing.T) {
	for in, want := range map[string]Operation{
		"":               OpNone,
		"Addition":       Addition,
		"multiply":       Multiplication,
		"DIVIDE":         Division,
		"Multiplication": Multiplication,
	} {
		got, err := ParseOperation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOperation("pow")
	assert.Equal(t, ErrCodeUnknownOperation, CodeOf(err))
}

func TestReduceOrder(t *testing.T) {
	v, err := Division.Reduce([]float64{8, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = Multiplication.Reduce([]float64{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 24.0, v)

	v, err = Division.Reduce([]float64{0, 4})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestLog10(t *testing.T) {
	h := Handler{Criteria: []Criterion{Price{Weight: 1}, LabeledInputs{Weight: 1}}}
	table, err := h.Score(twoConfigs(), twoConfigsMeta())
	require.NoError(t, err)

	logged, err := Log10(table)
	require.NoError(t, err)
	assert.InDelta(t, math.Log10(120), logged.AsMap()["ID_1"][NamePrice], 1e-12)
	assert.Equal(t, 0.0, logged.AsMap()["ID_2"][NameLabeledInputs])

	// the input table is untouched
	assert.Equal(t, 120.0, table.AsMap()["ID_1"][NamePrice])

	res := columns{ids: []string{"ID_1"}, data: map[string][]float64{"ID_1": {}}}
	zero, err := Handler{Criteria: []Criterion{SumSD{Weight: 1}}}.Score(res, nil)
	require.NoError(t, err)
	_, err = Log10(zero)
	assert.Equal(t, ErrCodeNonPositiveLog, CodeOf(err))
}

func TestRank(t *testing.T) {
	res := columns{
		ids: []string{"ID_1", "ID_2", "ID_3"},
		data: map[string][]float64{
			"ID_1": {3},
			"ID_2": {1},
			"ID_3": {3},
		},
	}
	table, err := Handler{Criteria: []Criterion{SumSD{Weight: 1}}}.Score(res, nil)
	require.NoError(t, err)

	ids, err := Rank(table, NameSumSD, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID_2", "ID_1", "ID_3"}, ids)

	ids, err = Rank(table, NameSumSD, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID_1", "ID_3", "ID_2"}, ids)

	_, err = Rank(table, NamePrice, false)
	assert.Equal(t, ErrCodeUnknownKey, CodeOf(err))
}

func TestMetadataMerge(t *testing.T) {
	a := Metadata{"ID_1": {LabeledInputs: Int(1), TotalPrice: Float(10)}}
	b := Metadata{"ID_1": {IdentifiedFluxes: Int(4), TotalPrice: Float(12)}, "ID_2": {LabeledInputs: Int(0)}}

	m := a.Merge(b)
	assert.Equal(t, 1, *m["ID_1"].LabeledInputs)
	assert.Equal(t, 12.0, *m["ID_1"].TotalPrice)
	assert.Equal(t, 4, *m["ID_1"].IdentifiedFluxes)
	assert.Equal(t, 0, *m["ID_2"].LabeledInputs)
	assert.Equal(t, 10.0, *a["ID_1"].TotalPrice)
}
