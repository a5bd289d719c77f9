package core

import (
	"encoding/json"
	"testing"

	"github.com/mailru/easyjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// normalize turns YAML ints into float64 so both decodings compare equal.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []interface{}:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	}
	return v
}

func decodeBoth(t *testing.T, v easyjson.Marshaler) (interface{}, interface{}) {
	raw, err := easyjson.Marshal(v)
	require.NoError(t, err)
	var fromJSON interface{}
	require.NoError(t, json.Unmarshal(raw, &fromJSON), string(raw))

	doc, err := yaml.Marshal(v)
	require.NoError(t, err)
	var fromYAML interface{}
	require.NoError(t, yaml.Unmarshal(doc, &fromYAML), string(doc))
	return fromJSON, normalize(fromYAML)
}

func TestJSONMatchesYAML(t *testing.T) {
	device := sampleDevice()
	device.GlobalMemCacheSize = 262144
	device.GlobalMemCachelineSize = 64
	device.ExecNativeKernel = true
	platform := sampleInventory().Platforms[0]
	bench := DefaultPlan().Cases[3]
	result := BenchResult{
		RunID:    "r1",
		Device:   device.Name,
		Case:     bench,
		RunsMs:   []float64{0.5, 0.25},
		BestMs:   0.25,
		MeanMs:   0.375,
		Verified: false,
		Skipped:  false,
		Error:    "output mismatch at 3: 3 + 6 != 10",
	}
	cases := []struct {
		name string
		v    easyjson.Marshaler
	}{
		{"VectorWidths", device.VectorWidths},
		{"DeviceInfo", device},
		{"PlatformInfo", platform},
		{"Inventory", sampleInventory()},
		{"BenchCase", bench},
		{"BenchResult", result},
		{"BenchResults", BenchResults{result, {RunID: "r1", Case: bench, RunsMs: []float64{}, Skipped: true, Error: "too big"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fromJSON, fromYAML := decodeBoth(t, c.v)
			assert.Equal(t, fromYAML, fromJSON)
		})
	}
}

func TestBenchResultErrorOmitted(t *testing.T) {
	r := BenchResult{RunID: "r1", Case: DefaultPlan().Cases[0], RunsMs: []float64{1}}
	fromJSON, fromYAML := decodeBoth(t, r)
	assert.Equal(t, fromYAML, fromJSON)
	assert.NotContains(t, fromJSON.(map[string]interface{}), "error")
}
