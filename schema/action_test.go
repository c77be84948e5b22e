package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/huangsam/pathways/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersUnmarshal(t *testing.T) {
	raw := `[
		{"__typename": "NumberParameterType", "id": "p1", "value": 2.5, "minValue": 0, "maxValue": 10, "unit": "%"},
		{"__typename": "BoolParameterType", "id": "p2", "value": true, "isCustomizable": true},
		{"__typename": "StringParameterType", "id": "p3", "value": "low"}
	]`

	var ps schema.Parameters
	require.NoError(t, json.Unmarshal([]byte(raw), &ps))
	require.Len(t, ps, 3)

	num, ok := ps[0].(schema.NumberParameter)
	require.True(t, ok)
	assert.Equal(t, "p1", num.ParameterID())
	assert.Equal(t, schema.NumberParameterKind, num.Kind())
	assert.InDelta(t, 2.5, *num.Value, 1e-9)
	assert.Equal(t, "%", num.Unit)

	b, ok := ps[1].(schema.BoolParameter)
	require.True(t, ok)
	assert.True(t, *b.Value)
	assert.True(t, b.IsCustomizable)

	s, ok := ps[2].(schema.StringParameter)
	require.True(t, ok)
	assert.Equal(t, "low", *s.Value)
}

func TestParametersUnmarshalUnknownType(t *testing.T) {
	var ps schema.Parameters
	err := json.Unmarshal([]byte(`[{"__typename": "UnknownParameterType", "id": "x"}]`), &ps)
	assert.ErrorContains(t, err, "unknown __typename")
}

func TestParameterMarshalKeepsTypename(t *testing.T) {
	ps := schema.Parameters{
		schema.NumberParameter{ParameterBase: schema.ParameterBase{ID: "p1"}, Value: schema.Float(1)},
	}
	data, err := json.Marshal(ps)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"__typename":"NumberParameterType"`)

	var back schema.Parameters
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 1)
	assert.Equal(t, "p1", back[0].ParameterID())
}

func TestDisplayColorFallback(t *testing.T) {
	group := &schema.ActionGroup{ID: "g", Color: "#123456"}

	assert.Equal(t, "#abcdef", schema.Action{Color: "#abcdef", Group: group}.DisplayColor())
	assert.Equal(t, "#123456", schema.Action{Group: group}.DisplayColor())
	assert.Empty(t, schema.Action{}.DisplayColor())
	assert.Equal(t, "g", schema.RankedAction{Group: group}.GroupID())
	assert.Empty(t, schema.RankedAction{}.GroupID())
}

func TestMetricPointNullValue(t *testing.T) {
	var m schema.Metric
	require.NoError(t, json.Unmarshal([]byte(`{"historicalValues":[{"year":2020,"value":null}],"forecastValues":[]}`), &m))
	require.Len(t, m.HistoricalValues, 1)
	assert.Nil(t, m.HistoricalValues[0].Value)
	assert.False(t, m.IsEmpty())
}
