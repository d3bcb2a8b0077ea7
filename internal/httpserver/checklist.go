package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quantumreview/internal/checklist"
	"quantumreview/internal/model"
	"quantumreview/pkg/response"
)

type checklistItemDTO struct {
	ItemID    string   `json:"item_id"`
	Text      string   `json:"text"`
	Required  bool     `json:"required"`
	Category  string   `json:"category,omitempty"`
	Priority  string   `json:"priority,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Status    string   `json:"status"`
	Protected bool     `json:"protected"`
}

// getChecklist returns an issue's checklist and its analysis state. The
// analysis_status field lets the dashboard tell "never analyzed" from
// "in progress" from "failed".
// @Summary      Get the checklist of an issue
// @Tags         checklists
// @Produce      json
// @Param        owner   path  string  true  "Repository owner"
// @Param        name    path  string  true  "Repository name"
// @Param        number  path  int     true  "Issue number"
// @Success      200  {object}  response.Resp
// @Failure      404  {object}  response.Resp
// @Router       /api/v1/repos/{owner}/{name}/issues/{number}/checklist [get]
func (srv HTTPServer) getChecklist(c *gin.Context) {
	ctx := c.Request.Context()

	number, ok := pathNumber(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue number"})
		return
	}

	issue, items, err := srv.checklists.GetChecklist(ctx, checklist.GetChecklistInput{
		RepoFullName: repoFullName(c),
		IssueNumber:  number,
	})
	if err != nil {
		srv.l.Errorf(ctx, "httpserver.getChecklist: %v", err)
		response.InternalError(c, err)
		return
	}
	if issue.ID == "" {
		response.OK(c, gin.H{"analysis_status": "never_analyzed", "items": []checklistItemDTO{}})
		return
	}

	dtos := make([]checklistItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, checklistItemDTO{
			ItemID:    item.ItemID,
			Text:      item.Text,
			Required:  item.Required,
			Category:  item.Category,
			Priority:  item.Priority,
			Tags:      item.Tags,
			Status:    string(item.Status),
			Protected: item.Protected,
		})
	}
	response.OK(c, gin.H{
		"analysis_status": analysisStatus(issue.Status),
		"issue_number":    issue.Number,
		"title":           issue.Title,
		"items":           dtos,
	})
}

// analysisStatus maps issue generation state onto the dashboard vocabulary.
func analysisStatus(status model.IssueStatus) string {
	switch status {
	case model.IssueStatusPending:
		return "queued"
	case model.IssueStatusProcessing:
		return "in_progress"
	case model.IssueStatusProcessed:
		return "done"
	case model.IssueStatusFailed:
		return "failed"
	default:
		return "never_analyzed"
	}
}

type updateItemReq struct {
	Status    string `json:"status" binding:"required"`
	Protected *bool  `json:"protected"`
}

// updateChecklistItem applies a manual override to one checklist item.
// @Summary      Override a checklist item
// @Tags         checklists
// @Accept       json
// @Produce      json
// @Param        owner    path  string         true  "Repository owner"
// @Param        name     path  string         true  "Repository name"
// @Param        number   path  int            true  "Issue number"
// @Param        item_id  path  string         true  "Checklist item ID"
// @Param        body     body  updateItemReq  true  "New status and optional protected flag"
// @Success      200  {object}  response.Resp
// @Failure      404  {object}  response.Resp
// @Router       /api/v1/repos/{owner}/{name}/issues/{number}/checklist/{item_id} [patch]
func (srv HTTPServer) updateChecklistItem(c *gin.Context) {
	ctx := c.Request.Context()

	number, ok := pathNumber(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue number"})
		return
	}

	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}
	status := model.ChecklistItemStatus(req.Status)
	switch status {
	case model.ChecklistItemPending, model.ChecklistItemPassed,
		model.ChecklistItemFailed, model.ChecklistItemSkipped:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	item, err := srv.checklists.UpdateItem(ctx, checklist.UpdateItemInput{
		RepoFullName: repoFullName(c),
		IssueNumber:  number,
		ItemID:       c.Param("item_id"),
		Status:       status,
		Protected:    req.Protected,
	})
	if errors.Is(err, checklist.ErrIssueNotFound) || errors.Is(err, checklist.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		srv.l.Errorf(ctx, "httpserver.updateChecklistItem: %v", err)
		response.InternalError(c, err)
		return
	}

	response.OK(c, checklistItemDTO{
		ItemID:    item.ItemID,
		Text:      item.Text,
		Required:  item.Required,
		Category:  item.Category,
		Priority:  item.Priority,
		Tags:      item.Tags,
		Status:    string(item.Status),
		Protected: item.Protected,
	})
}
