package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcbaptista/go-reconcile/internal/analytics"
	"github.com/gcbaptista/go-reconcile/internal/catalog"
	"github.com/gcbaptista/go-reconcile/model"
	"github.com/gcbaptista/go-reconcile/services"
)

// ManifestSettings describes the service in the manifest returned by /api
type ManifestSettings struct {
	Name            string
	IdentifierSpace string
	SchemaSpace     string
	ViewURL         string
	PropertyType    string
}

// Options configures the API
type Options struct {
	Manifest     ManifestSettings
	MaxBodyBytes int64 // Zero disables the request size limit
	Logger       *log.Logger
}

// API holds dependencies for API handlers, primarily the reconciliation service.
type API struct {
	service      services.ReconcileService
	analytics    *analytics.Service
	manifest     ManifestSettings
	maxBodyBytes int64
	logger       *log.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(service services.ReconcileService, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &API{
		service:      service,
		analytics:    analytics.NewService(),
		manifest:     opts.Manifest,
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       logger,
	}
}

// SetupRoutes registers the middleware and every route of the reconciliation service.
func SetupRoutes(router *gin.Engine, apiHandler *API) {
	router.Use(RequestIDMiddleware(), CORSMiddleware())
	if apiHandler.maxBodyBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(apiHandler.maxBodyBytes))
	}

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Analytics and Prometheus metrics
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Reconciliation: queries, extend or the service manifest
	router.GET("/api", apiHandler.ReconcileHandler)
	router.POST("/api", apiHandler.ReconcileHandler)

	// Property catalog routes advertised by the manifest
	router.GET("/propose_properties/heb", apiHandler.ProposePropertiesHandler)
	router.GET("/property/search", apiHandler.PropertySearchHandler)
}

// ReconcileHandler dispatches on the "queries" and "extend" parameters, read
// from the form body first and the query string second. With neither it
// returns the service manifest.
func (api *API) ReconcileHandler(c *gin.Context) {
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeRequestTooLarge,
					"Request body exceeds the allowed size")
				return
			}
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Invalid form body: "+err.Error())
			return
		}
	}

	if raw := formValue(c, "queries"); raw != "" {
		api.handleQueries(c, raw)
		return
	}
	if raw := formValue(c, "extend"); raw != "" {
		api.handleExtend(c, raw)
		return
	}

	respond(c, http.StatusOK, api.buildManifest(c))
}

func (api *API) handleQueries(c *gin.Context, raw string) {
	startTime := time.Now()

	var batch model.QueryBatch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		SendInvalidJSONError(c, "queries", err)
		return
	}
	if result := ValidateQueryBatch(&batch); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	scored, err := api.service.Reconcile(c.Request.Context(), &batch)
	api.trackReconcile(c, &batch, scored, err, time.Since(startTime))
	if err != nil {
		api.logger.Warn("reconciliation failed", "queries", batch.Len(), "err", err)
		SendServiceError(c, "reconciliation", err)
		return
	}

	respond(c, http.StatusOK, scored)
}

func (api *API) handleExtend(c *gin.Context, raw string) {
	var req model.ExtendRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		SendInvalidJSONError(c, "extend", err)
		return
	}
	if result := ValidateExtendRequest(&req); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	response, err := api.service.Extend(c.Request.Context(), req)
	if err != nil {
		api.logger.Warn("extend failed", "ids", len(req.IDs), "err", err)
		SendServiceError(c, "extend", err)
		return
	}

	respond(c, http.StatusOK, response)
}

// ProposePropertiesHandler lists every property of the catalog
func (api *API) ProposePropertiesHandler(c *gin.Context) {
	respond(c, http.StatusOK, model.PropertyProposal{
		Type:       api.manifest.PropertyType,
		Properties: catalog.Summaries(api.service.Catalog().List()),
	})
}

// PropertySearchHandler suggests properties whose key or name contains the prefix parameter
func (api *API) PropertySearchHandler(c *gin.Context) {
	matches := api.service.Catalog().Search(c.Query("prefix"))
	respond(c, http.StatusOK, model.PropertySearchResult{Result: catalog.Summaries(matches)})
}

// buildManifest describes the service. Auxiliary service URLs point back at
// the host the client used to reach this server.
func (api *API) buildManifest(c *gin.Context) model.ServiceManifest {
	domain := requestOrigin(c)
	return model.ServiceManifest{
		Name:            api.manifest.Name,
		IdentifierSpace: api.manifest.IdentifierSpace,
		SchemaSpace:     api.manifest.SchemaSpace,
		View:            model.ServiceView{URL: api.manifest.ViewURL},
		DefaultTypes:    []model.EntityType{},
		Extend: model.ServiceExtend{
			ProposeProperties: model.ServiceEndpoint{ServiceURL: domain + "/propose_properties", ServicePath: "/heb"},
		},
		Suggest: model.ServiceSuggest{
			Property: model.ServiceEndpoint{ServiceURL: domain + "/property", ServicePath: "/search"},
		},
	}
}

// trackReconcile records the outcome of a batch for the analytics dashboard
func (api *API) trackReconcile(c *gin.Context, batch *model.QueryBatch, scored *model.ScoredBatch, err error, elapsed time.Duration) {
	event := model.ReconcileEvent{
		RequestID:    c.GetString(requestIDKey),
		QueryTexts:   make([]string, 0, batch.Len()),
		QueryCount:   batch.Len(),
		Failed:       err != nil,
		ResponseTime: elapsed,
	}

	for _, key := range batch.Keys {
		q := batch.Queries[key]
		event.QueryTexts = append(event.QueryTexts, q.Text)
		if q.HasConstraints() {
			event.ConstrainedCount++
		} else {
			event.NameOnlyCount++
		}

		if scored == nil {
			continue
		}
		results, _ := scored.Get(key)
		event.CandidateCount += len(results)
		for _, r := range results {
			if r.IsMatch {
				event.MatchCount++
				break
			}
		}
	}

	api.analytics.TrackEvent(event)
}

// formValue returns a POST form value, falling back to the query string
func formValue(c *gin.Context, key string) string {
	if value, ok := c.GetPostForm(key); ok && value != "" {
		return value
	}
	return c.Query(key)
}

// requestOrigin returns scheme://host as seen by the client
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(forwarded, ",")[0]))
	}
	return scheme + "://" + c.Request.Host
}

// respond writes obj as JSON, or as JSONP when a callback parameter is present
func respond(c *gin.Context, status int, obj any) {
	c.JSONP(status, obj)
}
