package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/utils"
)

// SavedController lists the viewer's bookmarked posts.
type SavedController struct {
	log *zap.Logger
}

func NewSavedController() *SavedController {
	return &SavedController{log: utils.Named("saved")}
}

// unwrapSaved returns the posts carried by saved entries, skipping entries whose post is gone.
func unwrapSaved(saved []models.SavedPost) []models.Post {
	posts := make([]models.Post, 0, len(saved))
	for _, s := range saved {
		if s.Post != nil {
			posts = append(posts, *s.Post)
		}
	}
	return posts
}

func (s *SavedController) List(ctx *gin.Context) {
	b := browserOf(ctx)
	saved, err := b.Session.Client().MySavedPosts(ctx.Request.Context())
	if err != nil {
		apiFail(ctx, s.log, err, "Failed to load saved posts")
		return
	}
	cards := buildCards(ctx.Request.Context(), b, unwrapSaved(saved))
	utils.Success(ctx, gin.H{"posts": cards, "empty": len(cards) == 0})
}
