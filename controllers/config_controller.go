package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/config"
	"github.com/cppla/webblog/feed"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/utils"
)

// ConfigController serves the constants the screens render with.
type ConfigController struct{}

func NewConfigController() *ConfigController { return &ConfigController{} }

// GetUI returns paging, preview and form settings.
func (c *ConfigController) GetUI(ctx *gin.Context) {
	cfg := config.Get()
	statuses := []gin.H{}
	for _, s := range []models.ReportStatus{models.ReportPending, models.ReportReviewed, models.ReportResolved, models.ReportDismissed} {
		statuses = append(statuses, gin.H{"value": s, "label": s.Label()})
	}
	utils.Success(ctx, gin.H{
		"pageSize":      feed.PageSize,
		"previewLength": utils.PreviewLength,
		"sortKeys":      []feed.SortKey{feed.SortLatest, feed.SortOldest, feed.SortAlphabetical},
		"reportStatus":  statuses,
		"apiBaseUrl":    cfg.APIBaseURL,
	})
}
