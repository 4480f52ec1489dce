package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	respond(c, http.StatusOK, api.analytics.GetDashboardData())
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "go-reconcile",
		"name":       api.manifest.Name,
		"properties": len(api.service.Catalog().List()),
		"timestamp":  fmt.Sprintf("%d", time.Now().Unix()),
	})
}
