package controllers

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/feed"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/utils"
)

// ProfileController shows the viewer's own posts.
type ProfileController struct {
	log *zap.Logger
}

func NewProfileController() *ProfileController {
	return &ProfileController{log: utils.Named("profile")}
}

type ProfileView struct {
	User         *models.User `json:"user"`
	Posts        []PostCard   `json:"posts"`
	PostCount    int          `json:"postCount"`
	CommentCount int64        `json:"commentCount"`
}

// authoredBy keeps the posts written by userID, newest first.
func authoredBy(posts []models.Post, userID int64) []models.Post {
	out := make([]models.Post, 0)
	for _, p := range posts {
		if p.AuthorID == userID {
			out = append(out, p)
		}
	}
	feed.Sort(out, feed.SortLatest)
	return out
}

// countComments sums the comments userID left on posts. A failing fetch counts as zero.
func (p *ProfileController) countComments(ctx context.Context, client *api.Client, posts []models.Post, userID int64) int64 {
	var (
		wg    sync.WaitGroup
		total atomic.Int64
	)
	for _, post := range posts {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			comments, err := client.ListComments(ctx, id)
			if err != nil {
				p.log.Warn("load comments failed", zap.Int64("post", id), zap.Error(err))
				return
			}
			for _, c := range comments {
				if c.AuthorID == userID {
					total.Add(1)
				}
			}
		}(post.ID)
	}
	wg.Wait()
	return total.Load()
}

func (p *ProfileController) Show(ctx *gin.Context) {
	b := browserOf(ctx)
	user := b.Session.User()
	client := b.Session.Client()
	rctx := ctx.Request.Context()

	all, err := client.ListPosts(rctx)
	if err != nil {
		apiFail(ctx, p.log, err, "Failed to load your posts")
		return
	}
	mine := authoredBy(all, user.ID)
	utils.Success(ctx, ProfileView{
		User:         user,
		Posts:        buildCards(rctx, b, mine),
		PostCount:    len(mine),
		CommentCount: p.countComments(rctx, client, mine, user.ID),
	})
}
