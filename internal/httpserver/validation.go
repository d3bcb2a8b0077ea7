package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quantumreview/internal/health"
	"quantumreview/internal/model"
	"quantumreview/internal/validation"
	"quantumreview/pkg/response"
)

type verdictDTO struct {
	ItemID        string `json:"item_id"`
	Verdict       string `json:"verdict"`
	Justification string `json:"justification,omitempty"`
}

type validationResultDTO struct {
	Verdicts  []verdictDTO      `json:"verdicts"`
	Summary   string            `json:"summary"`
	Score     int               `json:"score"`
	Model     string            `json:"model"`
	CreatedAt response.DateTime `json:"created_at"`
}

// getValidation returns a PR's validation state and result history.
// @Summary      Get the validation history of a pull request
// @Tags         validations
// @Produce      json
// @Param        owner   path  string  true  "Repository owner"
// @Param        name    path  string  true  "Repository name"
// @Param        number  path  int     true  "Pull request number"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/repos/{owner}/{name}/pulls/{number}/validation [get]
func (srv HTTPServer) getValidation(c *gin.Context) {
	ctx := c.Request.Context()

	number, ok := pathNumber(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid PR number"})
		return
	}

	pr, results, err := srv.validations.GetValidation(ctx, validation.GetValidationInput{
		RepoFullName: repoFullName(c),
		PRNumber:     number,
	})
	if err != nil {
		srv.l.Errorf(ctx, "httpserver.getValidation: %v", err)
		response.InternalError(c, err)
		return
	}
	if pr.ID == "" {
		response.OK(c, gin.H{"analysis_status": "never_analyzed", "results": []validationResultDTO{}})
		return
	}

	dtos := make([]validationResultDTO, 0, len(results))
	for _, result := range results {
		verdicts := make([]verdictDTO, 0, len(result.Verdicts))
		for _, v := range result.Verdicts {
			verdicts = append(verdicts, verdictDTO{
				ItemID:        v.ItemID,
				Verdict:       string(v.Verdict),
				Justification: v.Justification,
			})
		}
		dtos = append(dtos, validationResultDTO{
			Verdicts:  verdicts,
			Summary:   result.Summary,
			Score:     result.Score,
			Model:     result.Model,
			CreatedAt: response.DateTime(result.CreatedAt),
		})
	}
	response.OK(c, gin.H{
		"analysis_status":   validationAnalysisStatus(pr.ValidationStatus),
		"validation_status": string(pr.ValidationStatus),
		"pr_number":         pr.Number,
		"head_sha":          pr.HeadSHA,
		"results":           dtos,
	})
}

// validationAnalysisStatus maps PR validation state onto the dashboard
// vocabulary.
func validationAnalysisStatus(status model.ValidationStatus) string {
	switch status {
	case model.ValidationStatusPending:
		return "queued"
	case model.ValidationStatusRunning:
		return "in_progress"
	case model.ValidationStatusFailed:
		return "failed"
	case model.ValidationStatusValidated, model.ValidationStatusNeedsWork:
		return "done"
	default:
		return "never_analyzed"
	}
}

// getHealth returns the current health record of a pull request.
// @Summary      Get the health record of a pull request
// @Tags         health-records
// @Produce      json
// @Param        owner   path  string  true  "Repository owner"
// @Param        name    path  string  true  "Repository name"
// @Param        number  path  int     true  "Pull request number"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/repos/{owner}/{name}/pulls/{number}/health [get]
func (srv HTTPServer) getHealth(c *gin.Context) {
	ctx := c.Request.Context()

	number, ok := pathNumber(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid PR number"})
		return
	}

	rec, err := srv.healths.GetHealth(ctx, health.GetHealthInput{
		RepoFullName: repoFullName(c),
		PRNumber:     number,
	})
	if err != nil {
		srv.l.Errorf(ctx, "httpserver.getHealth: %v", err)
		response.InternalError(c, err)
		return
	}
	if rec.ID == "" {
		response.OK(c, gin.H{"analysis_status": "never_analyzed"})
		return
	}

	body := gin.H{
		"analysis_status": "done",
		"lint_status":     string(rec.LintStatus),
		"score":           rec.Score,
		"analyzed_at":     rec.AnalyzedAt,
	}
	if rec.VulnsScanned {
		body["vulnerabilities"] = rec.Vulns
	}
	if rec.CoveragePercent != nil {
		body["coverage_percent"] = *rec.CoveragePercent
	}
	if rec.OutdatedDeps != nil {
		body["outdated_deps"] = *rec.OutdatedDeps
	}
	response.OK(c, body)
}
