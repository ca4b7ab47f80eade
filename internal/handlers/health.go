package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comparekart/catalog-service/internal/database"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string     `json:"status"`
	Database string     `json:"database"`
	Pool     *PoolStats `json:"pool,omitempty"`
}

// PoolStats summarizes the database connection pool
type PoolStats struct {
	Total int32 `json:"total"`
	Idle  int32 `json:"idle"`
}

// HealthCheck handles GET /health. The service is degraded without a
// database, so a failed ping answers 503.
func HealthCheck(c *gin.Context) {
	response := HealthResponse{Status: "ok"}

	if database.Pool() == nil {
		response.Database = "not configured"
		c.JSON(http.StatusOK, response)
		return
	}

	if err := database.Status(c.Request.Context()); err != nil {
		response.Database = "disconnected"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response.Database = "connected"
	if stats := database.Stats(); stats != nil {
		response.Pool = &PoolStats{
			Total: stats.TotalConns(),
			Idle:  stats.IdleConns(),
		}
	}

	c.JSON(http.StatusOK, response)
}
