package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/isodesign/internal/config"
	"github.com/roach88/isodesign/internal/ir"
)

const referenceDesign = `substrate: Gluc: {
	carbons:    6
	unlabelled: false
	tracers: [
		{labelling: "111111", price: 120},
		{labelling: "100000", intervals: 2, lower: 0, upper: 1, price: 95.5},
	]
}
substrate: FTHF_in: {
	carbons: 1
	tracers: [{labelling: "0", price: 2}]
}
`

const simID1 = `Name	Kind	Value	SD	Struct_identif
v1	NET	1	0.5	yes
v2	XCH	2	1.5	no
`

const simID2 = `Name	Kind	Value	SD	Struct_identif
v1	NET	1	0.25	yes
v2	XCH	2	0.25	yes
`

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// execute runs the root command with args. ids names stored runs.
func execute(t *testing.T, ids []string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvVar, "")

	opts := &RootOptions{}
	if len(ids) > 0 {
		opts.ids = ir.NewFixedGenerator(ids...)
	}
	cmd := newRootCommand(opts)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func designFile(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, filepath.Join(t.TempDir(), "design.cue"), content)
}

func resultsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ID_1.tvar.sim"), simID1)
	writeFile(t, filepath.Join(dir, "ID_2_res", "ID_2.tvar.sim"), simID2)
	return dir
}
