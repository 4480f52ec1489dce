package model

import "time"

// Routing kinds recorded for each reconciled query
const (
	RoutingNameOnly    = "name_only"
	RoutingConstrained = "constrained"
)

// ReconcileEvent represents a single reconciliation request for analytics tracking
type ReconcileEvent struct {
	RequestID        string        `json:"request_id"`
	QueryTexts       []string      `json:"query_texts"`
	QueryCount       int           `json:"query_count"`
	NameOnlyCount    int           `json:"name_only_count"`
	ConstrainedCount int           `json:"constrained_count"`
	CandidateCount   int           `json:"candidate_count"`
	MatchCount       int           `json:"match_count"` // Queries that produced a match=true result
	Failed           bool          `json:"failed"`
	ResponseTime     time.Duration `json:"response_time"`
	Timestamp        time.Time     `json:"timestamp"`
}

// PopularQuery represents aggregated data for frequently reconciled texts
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// RoutingStats splits reconciled queries by the scorer that handled them
type RoutingStats struct {
	NameOnly    int `json:"name_only"`
	Constrained int `json:"constrained"`
}

// AnalyticsDashboard represents the reconciliation statistics of the last 24 hours
type AnalyticsDashboard struct {
	TotalRequests            int                      `json:"total_requests"`
	FailedRequests           int                      `json:"failed_requests"`
	TotalQueries             int                      `json:"total_queries"`
	MatchRate                float64                  `json:"match_rate_percent"`
	AvgCandidatesPerQuery    float64                  `json:"avg_candidates_per_query"`
	AvgResponseTime          int64                    `json:"avg_response_time"` // in milliseconds
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	Routing                  RoutingStats             `json:"routing"`
	PopularQueries           []PopularQuery           `json:"popular_queries"`
}
