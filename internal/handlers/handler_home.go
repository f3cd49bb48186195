package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterHomeRoutes registers the root status route and the health probe.
func RegisterHomeRoutes(r *gin.Engine, dbPool *pgxpool.Pool) {
	r.GET("/", getHome)
	r.GET("/healthz", getHealth(dbPool))
}

func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Ledger Reports API v1"})
}

// getHealth reports liveness plus database reachability.
func getHealth(dbPool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
