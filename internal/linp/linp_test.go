package linp

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/isodesign/internal/compiler"
	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/ir"
	"github.com/roach88/isodesign/internal/score"
	"github.com/roach88/isodesign/internal/testutil"
)

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func referencePlan(t *testing.T) *Plan {
	t.Helper()
	groups := testutil.GlucFTHF()
	plan, err := Build(testutil.Generate(groups), PricesFromGroups(groups))
	require.NoError(t, err)
	return plan
}

func TestBuildReferenceDesign(t *testing.T) {
	plan := referencePlan(t)
	require.Equal(t, 3, plan.Len())

	cfg, ok := plan.Configuration(2)
	require.True(t, ok)
	assert.Equal(t, ir.Configuration{
		ID:    "ID_2",
		Index: 2,
		Rows: []ir.Row{
			{Specie: "Gluc", Isotopomer: "111111", Value: "0.5", Price: "60"},
			{Specie: "Gluc", Isotopomer: "100000", Value: "0.5", Price: "47.75"},
			{Specie: "FTHF_in", Isotopomer: "0", Value: "1", Price: "2"},
		},
	}, cfg)
}

func TestBuildDropsZeroRows(t *testing.T) {
	plan := referencePlan(t)

	first, _ := plan.Configuration(1)
	assert.Len(t, first.Rows, 2)
	assert.Equal(t, "111111", first.Rows[0].Isotopomer)

	last, _ := plan.Configuration(3)
	assert.Len(t, last.Rows, 2)
	assert.Equal(t, "100000", last.Rows[0].Isotopomer)
	assert.Equal(t, "1", last.Rows[0].Value)
}

func TestBuildInfo(t *testing.T) {
	plan := referencePlan(t)

	tests := []struct {
		index   int
		labeled int
		total   string
	}{
		{1, 1, "122"},
		{2, 2, "109.75"},
		{3, 1, "97.5"},
	}
	for _, tt := range tests {
		info, ok := plan.Info(tt.index)
		require.True(t, ok)
		assert.Equal(t, tt.labeled, info.LabeledInputs, tt.index)
		assert.True(t, info.Priced)
		assert.Equal(t, tt.total, frac.String(info.TotalPrice), tt.index)
	}

	_, ok := plan.Info(4)
	assert.False(t, ok)
}

func TestBuildUnpriced(t *testing.T) {
	groups := testutil.GlucFTHFUnpriced()
	plan, err := Build(testutil.Generate(groups), PricesFromGroups(groups))
	require.NoError(t, err)

	cfg, _ := plan.Configuration(1)
	assert.Equal(t, "120", cfg.Rows[0].Price)
	assert.Equal(t, "", cfg.Rows[1].Price)

	// The unpriced formate row counts as 0.
	info, _ := plan.Info(1)
	assert.False(t, info.Priced)
	assert.Equal(t, "120", frac.String(info.TotalPrice))

	meta, err := plan.Metadata()
	require.NoError(t, err)
	assert.Equal(t, 120.0, *meta["ID_1"].TotalPrice)
	assert.Equal(t, 107.75, *meta["ID_2"].TotalPrice)
	assert.Equal(t, 1, *meta["ID_1"].LabeledInputs)
}

func TestPriceOfImplicitUnlabelledForm(t *testing.T) {
	design, errs := compiler.LoadBytes("unlabelled.cue", []byte(`
substrate: Gluc: {
	carbons: 6
	tracers: [{labelling: "100000", intervals: 2, lower: 0, upper: 1, price: 95.5}]
}
`), compiler.FailFast)
	require.Empty(t, errs)
	groups := design.Groups()

	plan, err := Build(testutil.Generate(groups), PricesFromGroups(groups))
	require.NoError(t, err)
	meta, err := plan.Metadata()
	require.NoError(t, err)

	for id, want := range map[string]float64{"ID_1": 0, "ID_2": 47.75, "ID_3": 95.5} {
		got, err := score.Evaluate(id, nil, score.Price{Weight: 1}, meta)
		require.NoError(t, err, id)
		assert.Equal(t, want, got, id)
	}

	info, _ := plan.Info(2)
	assert.False(t, info.Priced)
	info, _ = plan.Info(3)
	assert.True(t, info.Priced)
}

func TestMetadata(t *testing.T) {
	meta, err := referencePlan(t).Metadata()
	require.NoError(t, err)
	require.Len(t, meta, 3)
	assert.Equal(t, 109.75, *meta["ID_2"].TotalPrice)
	assert.Equal(t, 2, *meta["ID_2"].LabeledInputs)
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "ID_3", FormatID(3, 1))
	assert.Equal(t, "ID_03", FormatID(3, 2))
	assert.Equal(t, "ID_0100", FormatID(100, 4))
}

func TestSelection(t *testing.T) {
	plan := referencePlan(t)
	all := plan.Select()
	assert.Equal(t, 3, all.Len())

	sel, err := all.Exclude(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, sel.Excluded())
	require.Len(t, sel.Configurations(), 1)
	assert.Equal(t, "ID_2", sel.Configurations()[0].ID)

	// the original selection is untouched
	assert.Equal(t, 3, all.Len())

	back, err := sel.Include(3)
	require.NoError(t, err)
	ids := []string{}
	for _, c := range back.Configurations() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"ID_2", "ID_3"}, ids)
}

func TestSelectionErrors(t *testing.T) {
	all := referencePlan(t).Select()

	_, err := all.Exclude(0)
	var se *SelectionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Index)

	_, err = all.Exclude(4)
	assert.Error(t, err)

	_, err = all.Include(2)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "not excluded", se.Message)
}

func TestWriteLINPGolden(t *testing.T) {
	cfg, _ := referencePlan(t).Configuration(2)
	var buf bytes.Buffer
	require.NoError(t, WriteLINP(&buf, cfg))
	golden(t).Assert(t, "ID_2.linp", buf.Bytes())
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sel, err := referencePlan(t).Select().Exclude(1)
	require.NoError(t, err)

	ids, err := WriteFiles(dir, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID_2", "ID_3"}, ids)

	assert.FileExists(t, filepath.Join(dir, "ID_2.linp"))
	assert.FileExists(t, filepath.Join(dir, "ID_3.linp"))
	assert.NoFileExists(t, filepath.Join(dir, "ID_1.linp"))

	manifest, err := os.ReadFile(filepath.Join(dir, ManifestName))
	require.NoError(t, err)
	golden(t).Assert(t, "manifest", manifest)
}

func TestWriteVMTF(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteVMTF(dir, VMTF{Name: "design", Constant: []string{"netw", "tvar"}, IDs: []string{"ID_1", "ID_2"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "design.vmtf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	golden(t).Assert(t, "design.vmtf", data)

	_, err = WriteVMTF(dir, VMTF{Name: "design"})
	assert.Error(t, err)
}

func TestWriteVMTFColumns(t *testing.T) {
	tests := []struct {
		name     string
		constant []string
		header   []string
	}{
		{"model files", []string{"netw", "tvar", "mflux"}, []string{"Id", "Comment", "netw", "tvar", "mflux", "linp", "ftbl"}},
		{"no model files", nil, []string{"Id", "Comment", "linp", "ftbl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := WriteVMTF(t.TempDir(), VMTF{Name: "ecoli", Constant: tt.constant, IDs: []string{"ID_1", "ID_2"}})
			require.NoError(t, err)
			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			r := csv.NewReader(f)
			r.Comma = '\t'
			records, err := r.ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 3)
			assert.Equal(t, tt.header, records[0])

			for i, rec := range records[1:] {
				id := FormatID(i+1, 1)
				assert.Equal(t, []string{"", ""}, rec[:2], "Id and Comment stay empty")
				for _, name := range rec[2 : len(rec)-2] {
					assert.Equal(t, "ecoli", name)
				}
				assert.Equal(t, []string{id, id}, rec[len(rec)-2:])
			}
		})
	}
}
