package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBatch_KeepsKeyOrder(t *testing.T) {
	var batch QueryBatch
	err := json.Unmarshal([]byte(`{
		"q10": {"query": "Vilna"},
		"q2": {"query": "Safed", "properties": [{"pid": "P6", "v": "IL"}], "type": "T1", "limit": 3},
		"q1": {"query": "Lublin"}
	}`), &batch)
	require.NoError(t, err)

	assert.Equal(t, []string{"q10", "q2", "q1"}, batch.Keys)
	assert.Equal(t, 3, batch.Len())

	q := batch.Queries["q2"]
	assert.Equal(t, "Safed", q.Text)
	assert.True(t, q.HasConstraints())
	assert.Equal(t, []PropertyConstraint{{PropertyID: "P6", Value: "IL"}}, q.Properties)
	assert.False(t, batch.Queries["q1"].HasConstraints())
}

func TestQueryBatch_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	var batch QueryBatch
	require.NoError(t, json.Unmarshal([]byte(`{"a": {"query": "x"}, "b": {"query": "y"}, "a": {"query": "z"}}`), &batch))

	assert.Equal(t, []string{"a", "b"}, batch.Keys)
	assert.Equal(t, "z", batch.Queries["a"].Text)
}

func TestQueryBatch_Malformed(t *testing.T) {
	inputs := []string{
		`[]`,
		`"queries"`,
		`{"q0": "Vilna"}`,
		`{"q0": {"query": "x", "properties": [{"pid": "P6", "v": {"id": "IL"}}]}}`,
		`{"q0": {"query": "x"`,
	}

	for _, in := range inputs {
		var batch QueryBatch
		assert.Error(t, json.Unmarshal([]byte(in), &batch), "input %s", in)
	}
}

func TestPropertyConstraint_Values(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"pid": "P6", "v": "IL"}`, "IL"},
		{`{"pid": "P3", "v": 293100}`, "293100"},
		{`{"pid": "P3", "v": -1.50}`, "-1.50"},
		{`{"pid": "P6", "v": null}`, ""},
		{`{"pid": "P6"}`, ""},
	}

	for _, tt := range tests {
		var pc PropertyConstraint
		require.NoError(t, json.Unmarshal([]byte(tt.in), &pc), tt.in)
		assert.Equal(t, tt.want, pc.Value, tt.in)
	}
}

func TestQueryBatch_Validate(t *testing.T) {
	batch := NewQueryBatch()
	assert.Empty(t, batch.Validate(), "an empty batch is valid")

	var decoded QueryBatch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &decoded))
	assert.Empty(t, decoded.Validate())

	batch.Add("ok", Query{Text: "Vilna"})
	assert.Empty(t, batch.Validate())

	batch.Add("blank", Query{Text: "  "})
	batch.Add("nopid", Query{Text: "x", Properties: []PropertyConstraint{{Value: "IL"}}})
	assert.Equal(t, []BatchProblem{
		{Field: "queries.blank.query", Message: "Query text cannot be empty or whitespace-only"},
		{Field: "queries.nopid.properties[0].pid", Message: "Property id is required"},
	}, batch.Validate())
}

func TestScoredBatch_Empty(t *testing.T) {
	encoded, err := json.Marshal(NewScoredBatch(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(encoded))
}

func TestScoredBatch_MarshalJSON(t *testing.T) {
	sb := NewScoredBatch([]string{"second", "first"})
	sb.Set("first", []MatchResult{{ID: "1", Name: "Alpha", Score: 100, IsMatch: true, Type: []EntityType{PlaceType}}})
	sb.Set("extra", nil)

	encoded, err := json.Marshal(sb)
	require.NoError(t, err)

	assert.Equal(t,
		`{"second":{"result":[]},"first":{"result":[{"id":"1","name":"Alpha","score":100,"match":true,"type":[{"id":"T1","name":"Place"}]}]},"extra":{"result":[]}}`,
		string(encoded))
	assert.Equal(t, []string{"second", "first", "extra"}, sb.Keys())

	got, ok := sb.Get("first")
	require.True(t, ok)
	assert.Len(t, got, 1)
	_, ok = sb.Get("second")
	assert.False(t, ok)
}

func TestRecord_Value(t *testing.T) {
	var empty Record
	assert.Equal(t, "", empty.Value("country_code"))

	r := Record{"country_code": "IL"}
	assert.Equal(t, "IL", r.Value("country_code"))
	assert.Equal(t, "", r.Value("wd"))
}
