package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/utils"
)

// StatsController serves the admin dashboard numbers.
type StatsController struct{}

func NewStatsController() *StatsController {
	return &StatsController{}
}

// Dashboard returns the server's aggregates. A failed fetch renders zeros rather than an error.
func (s *StatsController) Dashboard(ctx *gin.Context) {
	b := browserOf(ctx)
	utils.Success(ctx, b.Admin.Dashboard(ctx.Request.Context(), b.Session.Client()))
}
