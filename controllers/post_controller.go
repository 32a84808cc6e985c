package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/compose"
	"github.com/cppla/webblog/interaction"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/state"
	"github.com/cppla/webblog/threads"
	"github.com/cppla/webblog/utils"
)

// PostController serves the post detail and edit screens and the per-post actions.
type PostController struct {
	log *zap.Logger
}

func NewPostController() *PostController {
	return &PostController{log: utils.Named("post")}
}

// CommentBox is the comment form state: hidden for anonymous viewers, replaced by a notice
// for viewers blocked in this browser.
type CommentBox struct {
	Visible bool   `json:"visible"`
	Notice  string `json:"notice,omitempty"`
}

type PostDetail struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	HTML        string            `json:"html"`
	Author      string            `json:"author"`
	AuthorID    int64             `json:"authorId"`
	CreatedAt   time.Time         `json:"createdAt"`
	Categories  []models.Category `json:"categories"`
	Flagged     bool              `json:"flagged"`
	CanEdit     bool              `json:"canEdit"`
	CanDelete   bool              `json:"canDelete"`
	Interaction interaction.View  `json:"interaction"`
	Comments    []threads.Node    `json:"comments"`
	CommentBox  CommentBox        `json:"commentBox"`
}

func commentBox(b *state.Browser) CommentBox {
	u := b.Session.User()
	switch {
	case u == nil:
		return CommentBox{Notice: "Login to add a comment"}
	case b.Flags.IsUserBlocked(u.ID):
		return CommentBox{Notice: "Your account is temporarily restricted. Commenting is disabled."}
	}
	return CommentBox{Visible: true}
}

func (p *PostController) detail(b *state.Browser, post *models.Post) PostDetail {
	viewer := b.Session.User()
	html, err := utils.RenderContent(post.Content)
	if err != nil {
		p.log.Warn("render content failed", zap.Int64("post", post.ID), zap.Error(err))
		html = utils.Sanitize(post.Content)
	}
	cats := post.Categories
	if cats == nil {
		cats = []models.Category{}
	}
	canModify := threads.CanModify(viewer, post.AuthorID)
	return PostDetail{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		HTML:        html,
		Author:      post.Author.DisplayName(),
		AuthorID:    post.AuthorID,
		CreatedAt:   post.CreatedAt,
		Categories:  cats,
		Flagged:     viewer.IsAdmin() && b.Flags.IsPostFlagged(post.ID),
		CanEdit:     canModify,
		CanDelete:   canModify,
		Interaction: b.Widget(post.ID).View(b.Session.IsAuthenticated()),
		Comments:    b.Thread(post.ID).View(viewer),
		CommentBox:  commentBox(b),
	}
}

// Detail loads the post, its like/save state and its comment tree in parallel.
func (p *PostController) Detail(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	b := browserOf(ctx)
	client := b.Session.Client()
	viewer := b.Session.User()
	rctx := ctx.Request.Context()

	var (
		wg      sync.WaitGroup
		post    *models.Post
		postErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		post, postErr = client.GetPost(rctx, id)
	}()
	go func() {
		defer wg.Done()
		b.Widget(id).Load(rctx, client, viewer)
	}()
	go func() {
		defer wg.Done()
		// failures are logged by the tree and render as an empty discussion
		_ = b.Thread(id).Load(rctx, client)
	}()
	wg.Wait()

	if postErr != nil {
		if api.IsNotFound(postErr) {
			b.Forget(id)
		}
		apiFail(ctx, p.log, postErr, "Failed to load post")
		return
	}
	utils.Success(ctx, p.detail(b, post))
}

// Like toggles the viewer's like.
func (p *PostController) Like(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	b := browserOf(ctx)
	w := b.Widget(id)
	_, err := w.ToggleLike(ctx.Request.Context(), b.Session.Client(), b.Session.User())
	p.toggled(ctx, b, w, err)
}

// Save toggles the viewer's bookmark.
func (p *PostController) Save(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	b := browserOf(ctx)
	w := b.Widget(id)
	_, err := w.ToggleSave(ctx.Request.Context(), b.Session.Client(), b.Session.User())
	p.toggled(ctx, b, w, err)
}

func (p *PostController) toggled(ctx *gin.Context, b *state.Browser, w *interaction.Widget, err error) {
	view := w.View(b.Session.IsAuthenticated())
	switch {
	case err == nil:
		utils.Success(ctx, view)
	case errors.Is(err, interaction.ErrNotAuthenticated):
		utils.Respond(ctx, http.StatusUnauthorized, 40101, "Please login to continue", view)
	case errors.Is(err, interaction.ErrToggleInFlight):
		utils.Respond(ctx, http.StatusConflict, 40901, "", view)
	default:
		utils.Respond(ctx, http.StatusBadGateway, 50202, interaction.FailureMessage(err), view)
	}
}

// EditForm loads the current title and content for editing.
func (p *PostController) EditForm(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	b := browserOf(ctx)
	post, err := b.Session.Client().GetPost(ctx.Request.Context(), id)
	if err != nil {
		apiFail(ctx, p.log, err, "Failed to load post")
		return
	}
	if !threads.CanModify(b.Session.User(), post.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, 40303, "You can only edit your own posts")
		return
	}
	utils.Success(ctx, gin.H{"id": post.ID, "title": post.Title, "content": post.Content})
}

// Update saves title and content. Categories are not editable.
func (p *PostController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	if msg := compose.ValidateContent(req.Content); msg != "" || strings.TrimSpace(req.Title) == "" {
		if msg == "" {
			msg = compose.MsgTitleRequired
		}
		badRequest(ctx, msg)
		return
	}
	b := browserOf(ctx)
	post, err := b.Session.Client().UpdatePost(ctx.Request.Context(), id, models.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		apiFail(ctx, p.log, err, "Failed to update post")
		return
	}
	utils.Notice(ctx, "Post updated successfully!", gin.H{"id": post.ID, "next": "/post/" + itoa(post.ID)})
}

// RequestDelete asks for confirmation before deleting a post.
func (p *PostController) RequestDelete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	b := browserOf(ctx)
	t := b.Confirm.Request("delete_post", id, viewerID(b), "Are you sure you want to delete this post? This action cannot be undone.",
		func(rctx context.Context, client *api.Client) error {
			if err := client.DeletePost(rctx, id); err != nil {
				return err
			}
			b.Home.RemovePost(id)
			b.Forget(id)
			return nil
		})
	utils.Success(ctx, t)
}

// Report files a report against the post or one of its comments.
func (p *PostController) Report(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Reason    string `json:"reason"`
		CommentID *int64 `json:"commentId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		badRequest(ctx, "Please provide a reason for the report")
		return
	}
	in := models.Report{Reason: strings.TrimSpace(req.Reason)}
	if req.CommentID != nil {
		in.CommentID = req.CommentID
	} else {
		in.PostID = &id
	}
	b := browserOf(ctx)
	rep, err := b.Session.Client().CreateReport(ctx.Request.Context(), in)
	if err != nil {
		apiFail(ctx, p.log, err, "Failed to submit report")
		return
	}
	utils.Notice(ctx, "Report submitted successfully", rep)
}
