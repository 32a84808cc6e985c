package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/utils"
)

// FlagsController edits the browser-local moderation flags. They are never sent to the API.
type FlagsController struct{}

func NewFlagsController() *FlagsController { return &FlagsController{} }

type flagRequest struct {
	On bool `json:"on"`
}

func (f *FlagsController) view(ctx *gin.Context) gin.H {
	b := browserOf(ctx)
	return gin.H{"blockedUsers": b.Flags.BlockedUsers(), "flaggedPosts": b.Flags.FlaggedPosts()}
}

func (f *FlagsController) List(ctx *gin.Context) {
	utils.Success(ctx, f.view(ctx))
}

func (f *FlagsController) User(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req flagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	if req.On {
		b.Flags.BlockUser(id)
	} else {
		b.Flags.UnblockUser(id)
	}
	utils.Success(ctx, f.view(ctx))
}

func (f *FlagsController) Post(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req flagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	if req.On {
		b.Flags.FlagPost(id)
	} else {
		b.Flags.UnflagPost(id)
	}
	utils.Success(ctx, f.view(ctx))
}
