package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"quantumreview/internal/installation"
	"quantumreview/pkg/response"
)

type eventDTO struct {
	Type      string            `json:"type"`
	Payload   map[string]any    `json:"payload"`
	Timestamp response.DateTime `json:"timestamp"`
}

// streamEvents streams live notifications for one repository as
// server-sent events. Delivery is at most once; a disconnected client
// misses events published while it was away.
// @Summary      Stream live repository events
// @Tags         events
// @Produce      text/event-stream
// @Param        owner  path  string  true  "Repository owner"
// @Param        name   path  string  true  "Repository name"
// @Success      200  {string}  string  "SSE stream"
// @Failure      404  {object}  response.Resp
// @Router       /api/v1/events/{owner}/{name} [get]
func (srv HTTPServer) streamEvents(c *gin.Context) {
	ctx := c.Request.Context()
	fullName := repoFullName(c)

	rp, err := srv.installations.GetRepo(ctx, installation.GetRepoInput{FullName: fullName})
	if err != nil || rp.ID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "repository not tracked"})
		return
	}

	sub := srv.notifier.Subscribe(rp.ID)
	defer sub.Close()

	srv.l.Infof(ctx, "httpserver.streamEvents: subscriber attached to %s", fullName)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(string(n.Kind), eventDTO{
				Type:      string(n.Kind),
				Payload:   n.Payload,
				Timestamp: response.DateTime(n.CreatedAt),
			})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
