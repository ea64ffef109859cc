package ir

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", "", `""`},
		{"int", Int(42), "42"},
		{"negative int", -100, "-100"},
		{"bool", Bool(true), "true"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"strings", []string{"1", "0.5"}, `["1","0.5"]`},
		{"sorted keys", Object{"zebra": Int(1), "alpha": Int(2), "beta": Int(3)}, `{"alpha":2,"beta":3,"zebra":1}`},
		{"nested", map[string]any{"z": map[string]any{"b": 1, "a": 2}, "a": true}, `{"a":true,"z":{"a":2,"b":1}}`},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"control escaped", "a\nb", `"a\nb"`},
		{"line separator literal", "a\u2028b", "\"a\u2028b\""},
		{"escaped backslash kept", `a\u2028`, `"a\\u2028"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// e + combining acute accent normalizes to U+00E9
	decomposed, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	composed, err := MarshalCanonical("\u00e9")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates D83D DE00, which sort before U+FF61.
	obj := Object{"\uFF61": Int(1), "\U0001F600": Int(2)}
	assert.Equal(t, []string{"\U0001F600", "\uFF61"}, obj.SortedKeys())
}

func TestMarshalCanonicalRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"float", 0.5},
		{"float in map", map[string]any{"v": float32(1)}},
		{"nil in array", Array{nil}},
		{"nil in object", Object{"a": nil}},
		{"struct", struct{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			assert.Error(t, err)
		})
	}
}

func glucConfiguration(id string, index int) Configuration {
	return Configuration{
		ID:    id,
		Index: index,
		Rows: []Row{
			{Specie: "Gluc", Isotopomer: "100000", Value: "0.5", Price: "47.75"},
			{Specie: "Gluc", Isotopomer: "111111", Value: "0.5"},
		},
	}
}

func TestConfigurationCanonicalForm(t *testing.T) {
	got, err := MarshalCanonical(glucConfiguration("ID_1", 1).Object())
	require.NoError(t, err)
	assert.Equal(t,
		`{"rows":[{"isotopomer":"100000","price":"47.75","specie":"Gluc","value":"0.5"},{"isotopomer":"111111","specie":"Gluc","value":"0.5"}]}`,
		string(got))
}

func TestConfigurationHash(t *testing.T) {
	a := MustConfigurationHash(glucConfiguration("ID_1", 1))
	b := MustConfigurationHash(glucConfiguration("ID_7", 7))
	assert.Len(t, a, 64)
	assert.Equal(t, a, b, "id and index are not part of the content")

	c := glucConfiguration("ID_1", 1)
	c.Rows[0].Value = "0.25"
	assert.NotEqual(t, a, MustConfigurationHash(c))

	d, err := DesignHash(c.Object())
	require.NoError(t, err)
	assert.NotEqual(t, MustConfigurationHash(c), d, "domains separate hashes of equal content")
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("run-1", "run-2")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestFixedGeneratorConcurrent(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	gen := NewFixedGenerator(ids...)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)
	for range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.Generate()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, len(ids))
}
