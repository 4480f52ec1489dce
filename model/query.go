package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PropertyConstraint asserts that a candidate's property should resemble Value
type PropertyConstraint struct {
	PropertyID string `json:"pid"`
	Value      string `json:"v"`
}

// UnmarshalJSON accepts string and numeric constraint values. Numbers keep
// their literal text so "972" and 972 compare identically.
func (pc *PropertyConstraint) UnmarshalJSON(data []byte) error {
	var raw struct {
		PropertyID string          `json:"pid"`
		Value      json.RawMessage `json:"v"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	pc.PropertyID = raw.PropertyID
	pc.Value = ""

	trimmed := bytes.TrimSpace(raw.Value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		return json.Unmarshal(trimmed, &pc.Value)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num json.Number
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&num); err != nil {
			return err
		}
		pc.Value = num.String()
		return nil
	default:
		return fmt.Errorf("property '%s' value must be a string or a number", raw.PropertyID)
	}
}

// Query is a single reconciliation query
type Query struct {
	Text       string               `json:"query"`
	Properties []PropertyConstraint `json:"properties,omitempty"`
	Type       string               `json:"type,omitempty"`  // Accepted for compatibility, not used for routing
	Limit      int                  `json:"limit,omitempty"` // Accepted for compatibility, results are never truncated
}

// HasConstraints reports whether the query carries property assertions
func (q Query) HasConstraints() bool {
	return len(q.Properties) > 0
}

// QueryBatch is a set of queries keyed by caller-chosen identifiers.
// Keys keeps the order in which the caller sent them.
type QueryBatch struct {
	Keys    []string
	Queries map[string]Query
}

// NewQueryBatch creates an empty batch
func NewQueryBatch() *QueryBatch {
	return &QueryBatch{Queries: make(map[string]Query)}
}

// Add appends a query, replacing an earlier query with the same key in place
func (b *QueryBatch) Add(key string, q Query) {
	if b.Queries == nil {
		b.Queries = make(map[string]Query)
	}
	if _, exists := b.Queries[key]; !exists {
		b.Keys = append(b.Keys, key)
	}
	b.Queries[key] = q
}

// Len returns the number of queries in the batch
func (b *QueryBatch) Len() int {
	return len(b.Keys)
}

// UnmarshalJSON decodes a JSON object of queries while keeping key order
func (b *QueryBatch) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("query batch must be a JSON object")
	}

	b.Keys = nil
	b.Queries = make(map[string]Query)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected query key %v", keyTok)
		}

		var q Query
		if err := dec.Decode(&q); err != nil {
			return fmt.Errorf("query '%s': %w", key, err)
		}
		b.Add(key, q)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// BatchProblem describes one invalid field of a batch
type BatchProblem struct {
	Field   string
	Message string
}

func (p BatchProblem) String() string {
	return p.Field + ": " + p.Message
}

// Validate returns every problem found in the batch. An empty batch is valid.
func (b *QueryBatch) Validate() []BatchProblem {
	var problems []BatchProblem
	for _, key := range b.Keys {
		q := b.Queries[key]
		if strings.TrimSpace(q.Text) == "" {
			problems = append(problems, BatchProblem{
				Field:   fmt.Sprintf("queries.%s.query", key),
				Message: "Query text cannot be empty or whitespace-only",
			})
		}
		for i, pc := range q.Properties {
			if strings.TrimSpace(pc.PropertyID) == "" {
				problems = append(problems, BatchProblem{
					Field:   fmt.Sprintf("queries.%s.properties[%d].pid", key, i),
					Message: "Property id is required",
				})
			}
		}
	}
	return problems
}
