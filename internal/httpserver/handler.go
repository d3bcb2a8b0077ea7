package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(requestID())
}

// requestID tags every request so log lines and client reports can be
// correlated. An inbound X-Request-ID is kept, otherwise one is minted.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers the webhook ingress and the read API.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	srv.gin.POST("/webhooks/github", srv.webhookHandler.HandleGitHubWebhook)
	srv.l.Infof(ctx, "GitHub webhook route registered at POST /webhooks/github")

	api := srv.gin.Group("/api/v1")

	api.GET("/repos", srv.listRepos)
	api.GET("/repos/:owner/:name/issues/:number/checklist", srv.getChecklist)
	api.PATCH("/repos/:owner/:name/issues/:number/checklist/:item_id", srv.updateChecklistItem)
	api.GET("/repos/:owner/:name/pulls/:number/validation", srv.getValidation)
	api.GET("/repos/:owner/:name/pulls/:number/health", srv.getHealth)

	api.GET("/notifications", srv.listNotifications)
	api.POST("/notifications/:id/read", srv.markNotificationRead)
	api.GET("/events/:owner/:name", srv.streamEvents)
}
