package model

import (
	"bytes"
	"encoding/json"
)

// QueryResult wraps the ranked candidates of one query
type QueryResult struct {
	Result []MatchResult `json:"result"`
}

// ScoredBatch maps query keys to their ranked results. It serializes keys in
// the order the queries were submitted.
type ScoredBatch struct {
	keys    []string
	results map[string]QueryResult
}

// NewScoredBatch creates a batch whose key order follows keys
func NewScoredBatch(keys []string) *ScoredBatch {
	ordered := make([]string, len(keys))
	copy(ordered, keys)
	return &ScoredBatch{
		keys:    ordered,
		results: make(map[string]QueryResult, len(keys)),
	}
}

// Set stores the results for key. Unknown keys are appended to the order.
func (sb *ScoredBatch) Set(key string, results []MatchResult) {
	if results == nil {
		results = []MatchResult{}
	}
	if _, known := sb.results[key]; !known && !sb.hasKey(key) {
		sb.keys = append(sb.keys, key)
	}
	sb.results[key] = QueryResult{Result: results}
}

// Get returns the results stored for key
func (sb *ScoredBatch) Get(key string) ([]MatchResult, bool) {
	qr, ok := sb.results[key]
	return qr.Result, ok
}

// Keys returns the query keys in submission order
func (sb *ScoredBatch) Keys() []string {
	keys := make([]string, len(sb.keys))
	copy(keys, sb.keys)
	return keys
}

// Len returns the number of query keys
func (sb *ScoredBatch) Len() int {
	return len(sb.keys)
}

func (sb *ScoredBatch) hasKey(key string) bool {
	for _, k := range sb.keys {
		if k == key {
			return true
		}
	}
	return false
}

// MarshalJSON writes {"key": {"result": [...]}, ...} in submission order
func (sb *ScoredBatch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range sb.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')

		qr, ok := sb.results[key]
		if !ok {
			qr = QueryResult{Result: []MatchResult{}}
		}
		encoded, err := json.Marshal(qr)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
