package model

// EntityType identifies the category of a reconciled entity
type EntityType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlaceType is the only entity type this service reconciles against
var PlaceType = EntityType{ID: "T1", Name: "Place"}

// CandidateSummary is a gazetteer hit returned by a text search
type CandidateSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
}

// Record is the full attribute record of a gazetteer entity, keyed by internal
// property key. Absent keys and null values are stored as missing entries.
type Record map[string]string

// Value returns the text stored under key, or "" when the key is absent
func (r Record) Value(key string) string {
	if r == nil {
		return ""
	}
	return r[key]
}

// MatchResult is a single scored candidate in a reconciliation response
type MatchResult struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Score   float64      `json:"score"` // Always within [0, 100]
	IsMatch bool         `json:"match"` // At most one result per query is a match
	Type    []EntityType `json:"type"`
}
