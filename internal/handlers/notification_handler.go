package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/httpresp"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

// NotificationInbox is the in-app notification store.
type NotificationInbox interface {
	List(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID uint, id uuid.UUID, now time.Time) (*models.Notification, error)
}

type NotificationHandler struct {
	inbox NotificationInbox
	now   func() time.Time
}

func NewNotificationHandler(inbox NotificationInbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox, now: time.Now}
}

func (h *NotificationHandler) List(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	list, err := h.inbox.List(
		c.Request.Context(),
		actorFrom(c).UserID,
		c.Query("unread") == "true",
		limit,
	)
	if err != nil {
		respondError(c, err, "failed_to_list_notifications")
		return
	}

	httpresp.List(c, list)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_notification_id", "Notification id must be a UUID.")
		return
	}

	n, err := h.inbox.MarkRead(c.Request.Context(), actorFrom(c).UserID, id, h.now())
	if err != nil {
		respondError(c, err, "failed_to_update_notification")
		return
	}

	httpresp.OK(c, n)
}
