package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerlite/ledger_reports_app/internal/middleware"
	"github.com/ledgerlite/ledger_reports_app/internal/platform/events"
)

// notificationHandler lets the write side (or an external hook) tell report
// instances that records changed. Reports only flag themselves stale; the
// refetch happens on their next refresh.
type notificationHandler struct {
	bus *events.Bus
}

// RegisterNotificationRoutes registers the record change notification hook.
func RegisterNotificationRoutes(rg *gin.RouterGroup, bus *events.Bus) {
	h := &notificationHandler{bus: bus}

	notificationGroup := rg.Group("/notifications")
	{
		notificationGroup.POST("/synced/:schema", h.recordSynced)
		notificationGroup.POST("/deleted/:schema", h.recordDeleted)
	}
}

func (h *notificationHandler) recordSynced(c *gin.Context) {
	h.publish(c, events.SyncTopic(c.Param("schema")))
}

func (h *notificationHandler) recordDeleted(c *gin.Context) {
	h.publish(c, events.DeleteTopic(c.Param("schema")))
}

func (h *notificationHandler) publish(c *gin.Context, topic string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Record change notification", slog.String("topic", topic))
	h.bus.Publish(topic)
	c.Status(http.StatusNoContent)
}
