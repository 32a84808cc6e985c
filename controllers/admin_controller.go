package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/admin"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/utils"
)

// AdminController drives the admin console panels.
type AdminController struct {
	log *zap.Logger
}

func NewAdminController() *AdminController {
	return &AdminController{log: utils.Named("admin")}
}

type userRow struct {
	models.User
	// UIBlocked mirrors the browser's blocked-user flag.
	UIBlocked bool `json:"uiBlocked"`
}

func (a *AdminController) userRows(ctx *gin.Context) []userRow {
	b := browserOf(ctx)
	users := b.Admin.Users.List()
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{User: u, UIBlocked: b.Flags.IsUserBlocked(u.ID)})
	}
	return rows
}

func (a *AdminController) Users(ctx *gin.Context) {
	b := browserOf(ctx)
	if err := b.Admin.Users.Load(ctx.Request.Context(), b.Session.Client()); err != nil {
		apiFail(ctx, a.log, err, "Failed to load users")
		return
	}
	utils.Success(ctx, a.userRows(ctx))
}

// ToggleBlock flips the server-side block and mirrors the result into the UI flags.
func (a *AdminController) ToggleBlock(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	b := browserOf(ctx)
	u, err := b.Admin.Users.ToggleBlock(ctx.Request.Context(), b.Session.Client(), id)
	if err != nil {
		apiFail(ctx, a.log, err, "Failed to update user")
		return
	}
	msg := "User unblocked successfully"
	if u.IsBlocked {
		b.Flags.BlockUser(u.ID)
		msg = "User blocked successfully"
	} else {
		b.Flags.UnblockUser(u.ID)
	}
	utils.Notice(ctx, msg, a.userRows(ctx))
}

func (a *AdminController) RequestDeleteUser(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	b := browserOf(ctx)
	if u := b.Session.User(); u != nil && u.ID == id {
		badRequest(ctx, "You cannot delete your own account")
		return
	}
	utils.Success(ctx, b.Admin.RequestDeleteUser(viewerID(b), id))
}

func (a *AdminController) Categories(ctx *gin.Context) {
	b := browserOf(ctx)
	if err := b.Admin.Categories.Load(ctx.Request.Context(), b.Session.Client()); err != nil {
		apiFail(ctx, a.log, err, "Failed to load categories")
		return
	}
	utils.Success(ctx, b.Admin.Categories.Rows())
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (a *AdminController) categoryFail(ctx *gin.Context, err error, fallback string) {
	if errors.Is(err, admin.ErrEmptyCategoryName) {
		badRequest(ctx, "Category name is required")
		return
	}
	apiFail(ctx, a.log, err, fallback)
}

func (a *AdminController) CreateCategory(ctx *gin.Context) {
	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	if err := b.Admin.Categories.Create(ctx.Request.Context(), b.Session.Client(), req.Name); err != nil {
		a.categoryFail(ctx, err, "Failed to create category")
		return
	}
	utils.Notice(ctx, "Category created successfully", b.Admin.Categories.Rows())
}

func (a *AdminController) RenameCategory(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	if err := b.Admin.Categories.Rename(ctx.Request.Context(), b.Session.Client(), id, req.Name); err != nil {
		a.categoryFail(ctx, err, "Failed to update category")
		return
	}
	utils.Notice(ctx, "Category updated successfully", b.Admin.Categories.Rows())
}

func (a *AdminController) RequestDeleteCategory(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	b := browserOf(ctx)
	utils.Success(ctx, b.Admin.RequestDeleteCategory(viewerID(b), id))
}

func (a *AdminController) Reports(ctx *gin.Context) {
	b := browserOf(ctx)
	if err := b.Admin.Reports.Load(ctx.Request.Context(), b.Session.Client()); err != nil {
		apiFail(ctx, a.log, err, "Failed to load reports")
		return
	}
	utils.Success(ctx, b.Admin.Reports.Rows())
}

// ReportStatus moves a report through review.
func (a *AdminController) ReportStatus(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	status := models.ReportStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status.Normalize() != status {
		badRequest(ctx, "Invalid report status")
		return
	}
	b := browserOf(ctx)
	if _, err := b.Admin.Reports.SetStatus(ctx.Request.Context(), b.Session.Client(), id, status); err != nil {
		apiFail(ctx, a.log, err, "Failed to update report")
		return
	}
	utils.Notice(ctx, "Report updated successfully", b.Admin.Reports.Rows())
}

func (a *AdminController) RequestDeleteReport(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	b := browserOf(ctx)
	utils.Success(ctx, b.Admin.RequestDeleteReport(viewerID(b), id))
}
