package httpserver

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"quantumreview/internal/notify"
	"quantumreview/pkg/response"
)

type notificationDTO struct {
	ID        string            `json:"id"`
	RepoID    string            `json:"repo_id,omitempty"`
	Kind      string            `json:"kind"`
	Payload   map[string]any    `json:"payload"`
	Read      bool              `json:"read"`
	CreatedAt response.DateTime `json:"created_at"`
}

// listNotifications lists persisted notifications, newest first.
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Param        unread_only  query  bool  false  "Only unread notifications"
// @Param        limit        query  int   false  "Page size"
// @Param        offset       query  int   false  "Page offset"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/notifications [get]
func (srv HTTPServer) listNotifications(c *gin.Context) {
	ctx := c.Request.Context()

	unreadOnly, _ := strconv.ParseBool(c.Query("unread_only"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, total, err := srv.notifier.List(ctx, notify.ListInput{
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		srv.l.Errorf(ctx, "httpserver.listNotifications: %v", err)
		response.InternalError(c, err)
		return
	}

	items := make([]notificationDTO, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationDTO{
			ID:        n.ID,
			RepoID:    n.RepoID,
			Kind:      string(n.Kind),
			Payload:   n.Payload,
			Read:      n.Read,
			CreatedAt: response.DateTime(n.CreatedAt),
		})
	}
	response.OK(c, gin.H{"items": items, "total": total})
}

// markNotificationRead flags one notification as read.
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        id  path  string  true  "Notification ID"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/notifications/{id}/read [post]
func (srv HTTPServer) markNotificationRead(c *gin.Context) {
	ctx := c.Request.Context()

	if err := srv.notifier.MarkRead(ctx, c.Param("id")); err != nil {
		srv.l.Errorf(ctx, "httpserver.markNotificationRead: %v", err)
		response.InternalError(c, err)
		return
	}
	response.OK(c, nil)
}
