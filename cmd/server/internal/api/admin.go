package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recapd/recapd/cmd/server/internal/catalog"
	"github.com/recapd/recapd/pkg/logger"
	"github.com/recapd/recapd/pkg/metrics"
)

// WorkspaceSummary is the listing shape for UI/inspection use.
type WorkspaceSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Domains     int    `json:"domains"`
	Methodology string `json:"methodology,omitempty"`
}

// ModuleSummary is the listing shape for modules, with capability
// flags.
type ModuleSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	HasRubric   bool   `json:"has_rubric"`
	HasAddendum bool   `json:"has_addendum"`
	IsFallback  bool   `json:"is_fallback"`
}

// HandleReloadCatalog POST /api/v1/admin/reload
// Re-reads all definitions and atomically publishes a new snapshot.
// Idempotent; requests already in flight keep their snapshot.
func HandleReloadCatalog(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := store.Reload()
		if err != nil {
			logger.L().Error("catalog reload failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		metrics.SetCatalogEntities(counts.Workspaces, counts.Modules, counts.Combinations)
		c.JSON(http.StatusOK, gin.H{"success": true, "loaded": counts})
	}
}

// HandleListWorkspaces GET /api/v1/workspaces
func HandleListWorkspaces(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := store.Snapshot()
		summaries := make([]WorkspaceSummary, 0, len(snap.Workspaces()))
		for _, ws := range snap.Workspaces() {
			summaries = append(summaries, WorkspaceSummary{
				ID:          ws.ID,
				DisplayName: ws.DisplayName,
				Domains:     len(ws.DomainPatterns),
				Methodology: ws.Methodology,
			})
		}
		c.JSON(http.StatusOK, gin.H{"workspaces": summaries})
	}
}

// HandleListModules GET /api/v1/modules
func HandleListModules(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := store.Snapshot()
		summaries := make([]ModuleSummary, 0, len(snap.Modules()))
		for _, mod := range snap.Modules() {
			summaries = append(summaries, ModuleSummary{
				ID:          mod.ID,
				Name:        mod.Name,
				Category:    mod.Category,
				HasRubric:   mod.Rubric != nil && len(mod.Rubric.Criteria) > 0,
				HasAddendum: mod.PromptAddendum != "",
				IsFallback:  mod.Detection.IsFallback,
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"modules":    summaries,
			"categories": snap.Categories(),
		})
	}
}
