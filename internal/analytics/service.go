// Package analytics keeps an in-memory window of reconciliation requests and
// aggregates it into dashboard statistics.
package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-reconcile/model"
)

const (
	maxEventsToKeep   = 10000 // Keep last 10k events for performance
	popularQueryLimit = 5
	dashboardWindow   = 24 * time.Hour
)

// Service implements analytics tracking and reporting
type Service struct {
	mutex  sync.RWMutex
	events []model.ReconcileEvent
	now    func() time.Time
}

// NewService creates a new analytics service
func NewService() *Service {
	return &Service{
		events: make([]model.ReconcileEvent, 0),
		now:    time.Now,
	}
}

// TrackEvent records a reconciliation request. Missing request ids and
// timestamps are filled in.
func (s *Service) TrackEvent(event model.ReconcileEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.RequestID == "" {
		event.RequestID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
}

// EventCount returns the number of retained events
func (s *Service) EventCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.events)
}

// GetDashboardData aggregates the events of the last 24 hours
func (s *Service) GetDashboardData() model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	recent := s.filterEventsByTime(s.events, s.now().Add(-dashboardWindow))

	dashboard := model.AnalyticsDashboard{
		TotalRequests:            len(recent),
		AvgResponseTime:          calculateAvgResponseTime(recent),
		ResponseTimeDistribution: getResponseTimeDistribution(recent),
		PopularQueries:           getPopularQueries(recent),
	}

	var candidates, matches int
	for _, event := range recent {
		if event.Failed {
			dashboard.FailedRequests++
		}
		dashboard.TotalQueries += event.QueryCount
		dashboard.Routing.NameOnly += event.NameOnlyCount
		dashboard.Routing.Constrained += event.ConstrainedCount
		candidates += event.CandidateCount
		matches += event.MatchCount
	}

	if dashboard.TotalQueries > 0 {
		dashboard.MatchRate = float64(matches) / float64(dashboard.TotalQueries) * 100
		dashboard.AvgCandidatesPerQuery = float64(candidates) / float64(dashboard.TotalQueries)
	}

	return dashboard
}

// filterEventsByTime returns events after the given time
func (s *Service) filterEventsByTime(events []model.ReconcileEvent, after time.Time) []model.ReconcileEvent {
	var filtered []model.ReconcileEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.ReconcileEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// getPopularQueries returns the most reconciled query texts
func getPopularQueries(events []model.ReconcileEvent) []model.PopularQuery {
	counts := make(map[string]int)
	for _, event := range events {
		for _, text := range event.QueryTexts {
			if text != "" {
				counts[text]++
			}
		}
	}

	queries := make([]model.PopularQuery, 0, len(counts))
	for text, count := range counts {
		queries = append(queries, model.PopularQuery{Query: text, Count: count})
	}

	// Sort by count descending, then alphabetically for stable output
	sort.Slice(queries, func(i, j int) bool {
		if queries[i].Count != queries[j].Count {
			return queries[i].Count > queries[j].Count
		}
		return queries[i].Query < queries[j].Query
	})

	if len(queries) > popularQueryLimit {
		queries = queries[:popularQueryLimit]
	}
	return queries
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.ReconcileEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)

	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To25 = float64(dist.Bucket0To25ms) / float64(total) * 100
	dist.Percentage25To50 = float64(dist.Bucket25To50ms) / float64(total) * 100
	dist.Percentage50To100 = float64(dist.Bucket50To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100

	return dist
}
