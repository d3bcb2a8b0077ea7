package httpserver

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"quantumreview/internal/installation"
	"quantumreview/pkg/response"
)

type repoDTO struct {
	FullName       string `json:"full_name"`
	GitHubRepoID   int64  `json:"github_repo_id"`
	InstallationID int64  `json:"installation_id"`
	Installed      bool   `json:"installed"`
}

// listRepos lists tracked repositories.
// @Summary      List tracked repositories
// @Tags         repos
// @Produce      json
// @Param        installed_only  query  bool  false  "Only currently installed repos"
// @Param        limit           query  int   false  "Page size"
// @Param        offset          query  int   false  "Page offset"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/repos [get]
func (srv HTTPServer) listRepos(c *gin.Context) {
	ctx := c.Request.Context()

	installedOnly, _ := strconv.ParseBool(c.Query("installed_only"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	repos, total, err := srv.installations.ListRepos(ctx, installation.ListReposInput{
		InstalledOnly: installedOnly,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		srv.l.Errorf(ctx, "httpserver.listRepos: %v", err)
		response.InternalError(c, err)
		return
	}

	items := make([]repoDTO, 0, len(repos))
	for _, rp := range repos {
		items = append(items, repoDTO{
			FullName:       rp.FullName,
			GitHubRepoID:   rp.GitHubRepoID,
			InstallationID: rp.InstallationID,
			Installed:      rp.Installed,
		})
	}
	response.OK(c, gin.H{"items": items, "total": total})
}

// repoFullName joins the owner and name path params.
func repoFullName(c *gin.Context) string {
	return c.Param("owner") + "/" + c.Param("name")
}

// pathNumber parses the :number path param.
func pathNumber(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
