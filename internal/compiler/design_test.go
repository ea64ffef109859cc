package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/tracer"
)

const referenceDesign = `
name: "gluc_fthf"
substrate: Gluc: {
	carbons:    6
	unlabelled: false
	tracers: [
		{labelling: "111111", price: 120},
		{labelling: "100000", intervals: 2, lower: 0, upper: 1, price: 95.5},
	]
}
substrate: FTHF_in: carbons: 1
`

func compile(t *testing.T, src string) (*Design, error) {
	t.Helper()
	d, errs := LoadBytes("design.cue", []byte(src), FailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return d, nil
}

func labellings(ts []*tracer.Tracer) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Labelling()
	}
	return out
}

func TestCompileReferenceDesign(t *testing.T) {
	d, err := compile(t, referenceDesign)
	require.NoError(t, err)

	assert.Equal(t, "gluc_fthf", d.Name)
	require.Len(t, d.Substrates, 2)

	gluc := d.Substrates[0]
	assert.Equal(t, "Gluc", gluc.Name)
	assert.Equal(t, 6, gluc.Carbons)
	assert.False(t, gluc.Unlabelled)
	assert.Equal(t, []string{"111111", "100000"}, labellings(gluc.Tracers))

	first := gluc.Tracers[0]
	assert.True(t, first.IsFixed())
	assert.Equal(t, tracer.DefaultIntervals, first.Intervals())
	assert.Equal(t, "120", frac.String(first.Price()))

	second := gluc.Tracers[1]
	assert.Equal(t, 2, second.Intervals())
	assert.Equal(t, "0", frac.String(second.Lower()))
	assert.Equal(t, "95.5", frac.String(second.Price()))

	fthf := d.Substrates[1]
	assert.True(t, fthf.Unlabelled)
	assert.Equal(t, []string{"0"}, labellings(fthf.Tracers))
	assert.False(t, fthf.Tracers[0].HasPrice())
}

func TestCompileGroupsKeepDeclarationOrder(t *testing.T) {
	d, err := compile(t, `
substrate: Zeta: carbons: 2
substrate: Alpha: carbons: 3
`)
	require.NoError(t, err)

	groups := d.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Zeta", groups[0].Substrate)
	assert.Equal(t, "Alpha", groups[1].Substrate)
}

func TestCompileUnlabelledPrepended(t *testing.T) {
	d, err := compile(t, `
substrate: Gluc: {
	carbons: 6
	tracers: [{labelling: "100000", lower: 0, upper: 0.5, intervals: 5}]
}
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"000000", "100000"}, labellings(d.Substrates[0].Tracers))
}

func TestCompileExplicitUnlabelledNotDuplicated(t *testing.T) {
	d, err := compile(t, `
substrate: Gluc: {
	carbons: 2
	tracers: [
		{labelling: "10", lower: 0, upper: 1, intervals: 2},
		{labelling: "00", price: 1},
	]
}
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "00"}, labellings(d.Substrates[0].Tracers))
}

func TestCompileExactDecimals(t *testing.T) {
	d, err := compile(t, `
substrate: S: {
	carbons: 1
	unlabelled: false
	tracers: [{labelling: "1", lower: 0.1, upper: 0.30, intervals: 2, price: 1e2}]
}
`)
	require.NoError(t, err)

	tr := d.Substrates[0].Tracers[0]
	assert.Equal(t, "0.1", frac.String(tr.Lower()))
	assert.Equal(t, "0.3", frac.String(tr.Upper()))
	assert.Equal(t, "100", frac.String(tr.Price()))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"no substrates", `name: "x"`, CodeNoSubstrates},
		{"missing carbons", `substrate: G: tracers: []`, CodeMissingField},
		{"float carbons", `substrate: G: carbons: 1.5`, CodeInvalidType},
		{"zero carbons", `substrate: G: carbons: 0`, CodeInvalidValue},
		{"unknown substrate field", `substrate: G: {carbons: 1, carbon: 1}`, CodeUnknownField},
		{"unknown tracer field", `substrate: G: {carbons: 1, tracers: [{labelling: "1", bound: 1}]}`, CodeUnknownField},
		{"missing labelling", `substrate: G: {carbons: 1, tracers: [{price: 1}]}`, CodeMissingField},
		{"labelling length", `substrate: G: {carbons: 2, tracers: [{labelling: "1"}]}`, CodeLabellingLength},
		{"string bound", `substrate: G: {carbons: 1, tracers: [{labelling: "1", lower: "0"}]}`, CodeInvalidType},
		{"string price", `substrate: G: {carbons: 1, tracers: [{labelling: "1", price: "cheap"}]}`, CodeInvalidType},
		{"float intervals", `substrate: G: {carbons: 1, tracers: [{labelling: "1", intervals: 2.5}]}`, CodeInvalidType},
		{"duplicate labelling", `substrate: G: {carbons: 1, tracers: [{labelling: "1"}, {labelling: "1"}]}`, CodeDuplicateLabelling},
		{"no tracers", `substrate: G: {carbons: 1, unlabelled: false}`, CodeNoTracers},
		{"negative lower", `substrate: G: {carbons: 1, tracers: [{labelling: "1", lower: -0.1}]}`, string(tracer.ErrCodeNegativeLowerBound)},
		{"upper above one", `substrate: G: {carbons: 1, tracers: [{labelling: "1", upper: 2}]}`, string(tracer.ErrCodeUpperBoundRange)},
		{"bounds order", `substrate: G: {carbons: 1, tracers: [{labelling: "1", lower: 0.6, upper: 0.5}]}`, string(tracer.ErrCodeBoundsOrder)},
		{"bad symbol", `substrate: G: {carbons: 1, tracers: [{labelling: "2"}]}`, string(tracer.ErrCodeInvalidLabelling)},
		{"negative price", `substrate: G: {carbons: 1, tracers: [{labelling: "1", price: -1}]}`, string(tracer.ErrCodeNegativePrice)},
		{"zero intervals", `substrate: G: {carbons: 1, tracers: [{labelling: "1", intervals: 0}]}`, string(tracer.ErrCodeInvalidIntervals)},
		{"cue conflict", "substrate: G: carbons: 1\nsubstrate: G: carbons: 2", CodeCUE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, tt.src)
			require.Error(t, err)
			assert.Equal(t, tt.code, CodeOf(err), err.Error())
		})
	}
}

func TestCompileErrorPosition(t *testing.T) {
	_, err := compile(t, "substrate: G: {\n\tcarbons: 1\n\ttracers: [{labelling: \"1\", lower: \"0\"}]\n}\n")
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "substrate.G.tracers[0].lower", ce.Field)
	assert.True(t, ce.Pos.IsValid())
	assert.Equal(t, 3, ce.Pos.Line())
	assert.Contains(t, err.Error(), "design.cue:3:")
}

func TestCompileCollectAll(t *testing.T) {
	_, errs := LoadBytes("design.cue", []byte(`
substrate: A: {carbons: 1, tracers: [{labelling: "11"}]}
substrate: B: {carbons: 2, tracers: [{labelling: "10", price: -1}]}
substrate: C: carbons: 1
`), CollectAll)
	require.Len(t, errs, 2)
	assert.Equal(t, CodeLabellingLength, CodeOf(errs[0]))
	assert.Equal(t, string(tracer.ErrCodeNegativePrice), CodeOf(errs[1]))
}

func TestCompileSubstrateAndTracer(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
gluc: {carbons: 2, tracers: [{labelling: "11", lower: 0, upper: 1, intervals: 4}]}
tr: {labelling: "01", price: 3}
`)
	require.NoError(t, v.Err())

	s, err := CompileSubstrate("Gluc", v.LookupPath(cue.ParsePath("gluc")))
	require.NoError(t, err)
	assert.Equal(t, []string{"00", "11"}, labellings(s.Tracers))
	assert.Equal(t, 5, s.Tracers[1].GridSize())

	tr, err := CompileTracer("Gluc", 2, v.LookupPath(cue.ParsePath("tr")))
	require.NoError(t, err)
	assert.Equal(t, "01", tr.Labelling())
	assert.True(t, tr.IsFixed())

	_, err = CompileTracer("Gluc", 3, v.LookupPath(cue.ParsePath("tr")))
	assert.Equal(t, CodeLabellingLength, CodeOf(err))
}

func TestDesignHash(t *testing.T) {
	a, err := compile(t, referenceDesign)
	require.NoError(t, err)
	b, err := compile(t, "name: \"renamed\"\n"+referenceDesign[len("\nname: \"gluc_fthf\""):])
	require.NoError(t, err)

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)

	c, err := compile(t, `substrate: FTHF_in: carbons: 1`)
	require.NoError(t, err)
	hc, err := c.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my_design.cue")
	require.NoError(t, os.WriteFile(path, []byte(`substrate: FTHF_in: carbons: 1`), 0o644))

	d, errs := LoadFile(path, FailFast)
	require.Empty(t, errs)
	assert.Equal(t, "my_design", d.Name)

	_, errs = LoadFile(filepath.Join(dir, "missing.cue"), FailFast)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "failed to read design file")
}
