package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/compose"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/state"
	"github.com/cppla/webblog/utils"
)

// ComposeController serves the create-post screen and its draft autosave.
type ComposeController struct {
	log *zap.Logger
}

func NewComposeController() *ComposeController {
	return &ComposeController{log: utils.Named("compose")}
}

type ComposeView struct {
	Draft      models.Draft      `json:"draft"`
	HasDraft   bool              `json:"hasDraft"`
	Errors     compose.Errors    `json:"errors"`
	Submit     compose.Submit    `json:"submit"`
	Categories []models.Category `json:"categories,omitempty"`
}

func composeView(b *state.Browser, d models.Draft, errs compose.Errors) ComposeView {
	u := b.Session.User()
	blocked := u != nil && b.Flags.IsUserBlocked(u.ID)
	if errs == nil {
		errs = compose.Errors{}
	}
	return ComposeView{Draft: d, HasDraft: !d.IsBlank(), Errors: errs, Submit: compose.SubmitState(d, blocked)}
}

// Form restores the draft and lists the categories to pick from.
func (c *ComposeController) Form(ctx *gin.Context) {
	b := browserOf(ctx)
	d, _ := b.Drafts.Restore(ctx.Request.Context())
	v := composeView(b, d, nil)
	cats, err := b.Session.Client().ListCategories(ctx.Request.Context())
	if err != nil {
		c.log.Warn("load categories failed", zap.Error(err))
		cats = []models.Category{}
	}
	v.Categories = cats
	utils.Success(ctx, v)
}

// Draft autosaves the form on every change and validates the changed fields.
func (c *ComposeController) Draft(ctx *gin.Context) {
	var d models.Draft
	if err := ctx.ShouldBindJSON(&d); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	if err := b.Drafts.Update(ctx.Request.Context(), d); err != nil {
		// autosave is best-effort; the form still works
		c.log.Warn("draft autosave failed", zap.Error(err))
	}
	utils.Success(ctx, composeView(b, d, compose.Validate(d)))
}

// Discard clears the draft and the form.
func (c *ComposeController) Discard(ctx *gin.Context) {
	b := browserOf(ctx)
	_ = b.Drafts.Clear(ctx.Request.Context())
	utils.Notice(ctx, "Draft cleared", composeView(b, models.Draft{}, nil))
}

// Create validates and submits the post, clearing the draft on success.
func (c *ComposeController) Create(ctx *gin.Context) {
	var d models.Draft
	if err := ctx.ShouldBindJSON(&d); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	if u := b.Session.User(); u != nil && b.Flags.IsUserBlocked(u.ID) {
		utils.Respond(ctx, http.StatusForbidden, 40304, compose.MsgRestricted, composeView(b, d, nil))
		return
	}
	if errs := compose.Validate(d); len(errs) > 0 {
		utils.Respond(ctx, http.StatusBadRequest, 40004, "Please fix the highlighted fields", composeView(b, d, errs))
		return
	}
	post, err := b.Session.Client().CreatePost(ctx.Request.Context(), compose.Input(d))
	if err != nil {
		apiFail(ctx, c.log, err, "Failed to create post")
		return
	}
	_ = b.Drafts.Clear(ctx.Request.Context())
	utils.Notice(ctx, "Post created successfully!", gin.H{"id": post.ID, "next": "/post/" + itoa(post.ID)})
}
