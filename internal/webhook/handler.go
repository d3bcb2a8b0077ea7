package webhook

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgResponse "quantumreview/pkg/response"
)

// HandleGitHubWebhook ingests GitHub App webhook events.
// @Summary      Ingest a GitHub webhook event
// @Description  Verifies the event signature, deduplicates on delivery ID and enqueues background jobs.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Hub-Signature-256  header  string  true  "HMAC-SHA256 signature of the body"
// @Param        X-GitHub-Event       header  string  true  "Event type"
// @Param        X-GitHub-Delivery    header  string  true  "Unique delivery ID"
// @Success      200  {object}  response.Resp
// @Failure      401  {object}  response.Resp
// @Failure      403  {object}  response.Resp
// @Failure      429  {object}  response.Resp
// @Router       /webhooks/github [post]
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "webhook: %v", err)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "webhook: read body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Signature first. Nothing else runs on an unverified body.
	signature := c.GetHeader("X-Hub-Signature-256")
	if err := h.security.ValidateSignature(body, signature); err != nil {
		h.l.Warnf(ctx, "webhook: signature verification failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	if err := h.security.CheckRateLimit(extractIP(c.Request)); err != nil {
		h.l.Warnf(ctx, "webhook: rate limit exceeded: %v", err)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	eventType := c.GetHeader("X-GitHub-Event")
	deliveryID := c.GetHeader("X-GitHub-Delivery")
	if deliveryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing delivery id"})
		return
	}

	// Redeliveries are acknowledged without enqueueing anything.
	if h.deduper.Seen(deliveryID) {
		h.l.Infof(ctx, "webhook: duplicate delivery %s ignored", deliveryID)
		pkgResponse.OK(c, gin.H{"status": "duplicate"})
		return
	}

	jobs, err := h.router.Route(eventType, deliveryID, body)
	if err != nil {
		h.l.Errorf(ctx, "webhook: route %s event: %v", eventType, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}
	if len(jobs) == 0 {
		pkgResponse.OK(c, gin.H{"status": "ignored"})
		return
	}

	if err := h.enqueuer.Enqueue(ctx, jobs...); err != nil {
		h.l.Errorf(ctx, "webhook: enqueue %d jobs for delivery %s: %v", len(jobs), deliveryID, err)
		// Let GitHub's redelivery retry this one.
		h.deduper.Forget(deliveryID)
		pkgResponse.Error(c, err, nil)
		return
	}

	h.l.Infof(ctx, "webhook: delivery %s (%s) accepted, %d jobs", deliveryID, eventType, len(jobs))
	pkgResponse.OK(c, gin.H{"status": "accepted", "jobs": len(jobs)})
}
