package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/threads"
	"github.com/cppla/webblog/utils"
)

// CommentController handles the discussion under a post.
type CommentController struct {
	log *zap.Logger
}

func NewCommentController() *CommentController {
	return &CommentController{log: utils.Named("comment")}
}

type contentRequest struct {
	Content string `json:"content"`
}

func (c *CommentController) treeFail(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, threads.ErrNotAuthenticated):
		utils.Error(ctx, http.StatusUnauthorized, 40101, "Please login to continue")
	case errors.Is(err, threads.ErrEmptyContent):
		badRequest(ctx, "Content cannot be empty")
	default:
		apiFail(ctx, c.log, err, fallback)
	}
}

// AddComment posts a comment and returns the refreshed tree.
func (c *CommentController) AddComment(ctx *gin.Context) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req contentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	viewer := b.Session.User()
	if viewer != nil && b.Flags.IsUserBlocked(viewer.ID) {
		utils.Error(ctx, http.StatusForbidden, 40304, "Your account is temporarily restricted. Commenting is disabled.")
		return
	}
	tree := b.Thread(postID)
	if err := tree.AddComment(ctx.Request.Context(), b.Session.Client(), viewer, req.Content); err != nil {
		c.treeFail(ctx, err, "Failed to create comment")
		return
	}
	utils.Notice(ctx, "Comment added successfully", tree.View(viewer))
}

// AddReply posts a reply under a comment and returns the refreshed tree.
func (c *CommentController) AddReply(ctx *gin.Context) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(ctx, "commentId")
	if !ok {
		return
	}
	var req contentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	viewer := b.Session.User()
	if viewer != nil && b.Flags.IsUserBlocked(viewer.ID) {
		utils.Error(ctx, http.StatusForbidden, 40304, "Your account is temporarily restricted. Commenting is disabled.")
		return
	}
	tree := b.Thread(postID)
	if err := tree.AddReply(ctx.Request.Context(), b.Session.Client(), viewer, commentID, req.Content); err != nil {
		c.treeFail(ctx, err, "Failed to post reply")
		return
	}
	utils.Notice(ctx, "Reply posted successfully", tree.View(viewer))
}

// RequestDeleteComment asks for confirmation before deleting a comment.
func (c *CommentController) RequestDeleteComment(ctx *gin.Context) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(ctx, "commentId")
	if !ok {
		return
	}
	b := browserOf(ctx)
	tree := b.Thread(postID)
	t := b.Confirm.Request("delete_comment", commentID, viewerID(b), "Are you sure you want to delete this comment?",
		func(rctx context.Context, client *api.Client) error { return tree.DeleteComment(rctx, client, commentID) })
	utils.Success(ctx, t)
}

// RequestDeleteReply asks for confirmation before deleting a reply.
func (c *CommentController) RequestDeleteReply(ctx *gin.Context) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(ctx, "commentId")
	if !ok {
		return
	}
	replyID, ok := idParam(ctx, "replyId")
	if !ok {
		return
	}
	b := browserOf(ctx)
	tree := b.Thread(postID)
	t := b.Confirm.Request("delete_reply", replyID, viewerID(b), "Are you sure you want to delete this reply?",
		func(rctx context.Context, client *api.Client) error { return tree.DeleteReply(rctx, client, commentID, replyID) })
	utils.Success(ctx, t)
}
