package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/admin"
	"github.com/cppla/webblog/utils"
)

// ConfirmController answers the confirmation dialogs of destructive actions.
type ConfirmController struct {
	log *zap.Logger
}

func NewConfirmController() *ConfirmController {
	return &ConfirmController{log: utils.Named("confirm")}
}

var confirmedMessages = map[string]string{
	"delete_post":              "Post deleted successfully",
	"delete_comment":           "Comment deleted successfully",
	"delete_reply":             "Reply deleted successfully",
	admin.ActionDeleteUser:     "User deleted successfully",
	admin.ActionDeleteCategory: "Category deleted successfully",
	admin.ActionDeleteReport:   "Report deleted successfully",
}

var failedMessages = map[string]string{
	"delete_post":              "Failed to delete post",
	"delete_comment":           "Failed to delete comment",
	"delete_reply":             "Failed to delete reply",
	admin.ActionDeleteUser:     "Failed to delete user",
	admin.ActionDeleteCategory: "Failed to delete category",
	admin.ActionDeleteReport:   "Failed to delete report",
}

// Confirm runs the pending action behind the ticket.
func (c *ConfirmController) Confirm(ctx *gin.Context) {
	b := browserOf(ctx)
	t, err := b.Confirm.Confirm(ctx.Request.Context(), ctx.Param("ticket"), viewerID(b), b.Session.Client())
	switch {
	case errors.Is(err, admin.ErrUnknownTicket):
		utils.Error(ctx, http.StatusNotFound, 40402, "This confirmation has expired. Please try again.")
		return
	case errors.Is(err, admin.ErrForeignTicket):
		c.log.Warn("confirmation by another user refused", zap.String("action", t.Action), zap.Int64("owner", t.RequestedBy))
		utils.Error(ctx, http.StatusForbidden, 40305, "This confirmation belongs to another session.")
		return
	}
	if err != nil {
		apiFail(ctx, c.log, err, failedMessages[t.Action])
		return
	}
	c.log.Info("confirmed", zap.String("action", t.Action), zap.Int64("target", t.TargetID))
	utils.Notice(ctx, confirmedMessages[t.Action], t)
}

// Cancel closes the dialog without side effects.
func (c *ConfirmController) Cancel(ctx *gin.Context) {
	b := browserOf(ctx)
	utils.Success(ctx, gin.H{"cancelled": b.Confirm.Cancel(ctx.Param("ticket"))})
}
