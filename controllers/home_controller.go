package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/compose"
	"github.com/cppla/webblog/feed"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/state"
	"github.com/cppla/webblog/utils"
)

// HomeController serves the post list with its filters.
type HomeController struct {
	log *zap.Logger
}

func NewHomeController() *HomeController {
	return &HomeController{log: utils.Named("home")}
}

// CreateButton is the home screen's Create Post button. It is shown to logged-in users
// who are not admins.
type CreateButton struct {
	Visible  bool   `json:"visible"`
	Disabled bool   `json:"disabled"`
	Tooltip  string `json:"tooltip,omitempty"`
}

type HomeView struct {
	Session        SessionView       `json:"session"`
	Categories     []models.Category `json:"categories"`
	Posts          []PostCard        `json:"posts"`
	Page           int               `json:"page"`
	TotalPages     int               `json:"totalPages"`
	ShowPagination bool              `json:"showPagination"`
	Found          *int              `json:"found,omitempty"`
	Category       *int64            `json:"category"`
	Query          string            `json:"query"`
	Sort           feed.SortKey      `json:"sort"`
	CreatePost     CreateButton      `json:"createPost"`
	// Empty is true when there are no posts at all, before filtering.
	Empty bool `json:"empty"`
}

func createButton(b *state.Browser) CreateButton {
	u := b.Session.User()
	if u == nil || u.IsAdmin() {
		return CreateButton{}
	}
	if b.Flags.IsUserBlocked(u.ID) {
		return CreateButton{Visible: true, Disabled: true, Tooltip: compose.MsgRestricted}
	}
	return CreateButton{Visible: true}
}

func (h *HomeController) render(ctx *gin.Context, b *state.Browser) HomeView {
	v := b.Home.View()
	return HomeView{
		Session:        sessionView(b),
		Categories:     b.Home.Categories(),
		Posts:          buildCards(ctx.Request.Context(), b, v.Items),
		Page:           v.Page,
		TotalPages:     v.TotalPages,
		ShowPagination: v.ShowPagination,
		Found:          v.Found,
		Category:       v.Category,
		Query:          v.Query,
		Sort:           v.Sort,
		CreatePost:     createButton(b),
		Empty:          v.Total == 0,
	}
}

// Home fetches posts and categories and renders the current page.
func (h *HomeController) Home(ctx *gin.Context) {
	b := browserOf(ctx)
	client := b.Session.Client()
	rctx := ctx.Request.Context()

	var (
		wg       sync.WaitGroup
		posts    []models.Post
		cats     []models.Category
		postsErr error
		catsErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		posts, postsErr = client.ListPosts(rctx)
	}()
	go func() {
		defer wg.Done()
		cats, catsErr = client.ListCategories(rctx)
	}()
	wg.Wait()

	if catsErr != nil {
		h.log.Warn("load categories failed", zap.Error(catsErr))
	} else {
		b.Home.SetCategories(cats)
	}
	if postsErr != nil {
		apiFail(ctx, h.log, postsErr, "Failed to load posts")
		return
	}
	b.Home.SetPosts(posts)
	utils.Success(ctx, h.render(ctx, b))
}

// Criteria changes the category, search text or sort order. Any change returns to page 1.
func (h *HomeController) Criteria(ctx *gin.Context) {
	var req struct {
		Category *string `json:"category"`
		Query    *string `json:"query"`
		Sort     *string `json:"sort"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	if req.Category != nil {
		raw := strings.TrimSpace(*req.Category)
		if raw == "" || raw == "all" {
			b.Home.SetCategory(nil)
		} else {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				badRequest(ctx, "invalid category")
				return
			}
			b.Home.SetCategory(&id)
		}
	}
	if req.Query != nil {
		b.Home.SetQuery(*req.Query)
	}
	if req.Sort != nil {
		b.Home.SetSort(feed.SortKey(*req.Sort))
	}
	utils.Success(ctx, h.render(ctx, b))
}

// Page moves between pages: {"page": n} or {"direction": "next"|"prev"}.
func (h *HomeController) Page(ctx *gin.Context) {
	var req struct {
		Page      int    `json:"page"`
		Direction string `json:"direction"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	switch req.Direction {
	case "next":
		b.Home.Next()
	case "prev":
		b.Home.Prev()
	case "":
		b.Home.SetPage(req.Page)
	default:
		badRequest(ctx, "direction must be next or prev")
		return
	}
	utils.Success(ctx, h.render(ctx, b))
}
