package fakeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/utils"
)

const ctxUserKey = "fakeapi_user_id"

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.Use(s.track(), s.identify())

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	api.GET("/posts", s.listPosts)
	api.GET("/posts/:id", s.getPost)
	api.POST("/posts", s.requireUser(), s.createPost)
	api.PUT("/posts/:id", s.requireUser(), s.updatePost)
	api.DELETE("/posts/:id", s.requireUser(), s.deletePost)

	api.GET("/categories", s.listCategories)
	api.POST("/categories", s.requireAdmin(), s.createCategory)
	api.PUT("/categories/:id", s.requireAdmin(), s.updateCategory)
	api.DELETE("/categories/:id", s.requireAdmin(), s.deleteCategory)

	api.GET("/comments/post/:id", s.listComments)
	api.POST("/comments/post/:id", s.requireUser(), s.createComment)
	api.DELETE("/comments/:id", s.requireUser(), s.deleteComment)

	api.GET("/comment-replies/comment/:id", s.listReplies)
	api.POST("/comment-replies/comment/:id", s.requireUser(), s.createReply)
	api.DELETE("/comment-replies/:id", s.requireUser(), s.deleteReply)

	api.GET("/post-likes/:id/count", s.likeCount)
	api.GET("/post-likes/:id/is-liked", s.requireUser(), s.isLiked)
	api.POST("/post-likes/:id/toggle", s.requireUser(), s.toggleLike)

	api.GET("/saved-posts/my-saved", s.requireUser(), s.mySaved)
	api.GET("/saved-posts/:id/is-saved", s.requireUser(), s.isSaved)
	api.POST("/saved-posts/:id/toggle", s.requireUser(), s.toggleSave)

	api.GET("/users", s.requireAdmin(), s.listUsers)
	api.DELETE("/users/:id", s.requireAdmin(), s.deleteUser)
	api.PUT("/users/:id/toggle-block", s.requireAdmin(), s.toggleBlock)

	api.GET("/reports", s.requireAdmin(), s.listReports)
	api.POST("/reports", s.requireUser(), s.createReport)
	api.PUT("/reports/:id/status", s.requireAdmin(), s.updateReportStatus)
	api.DELETE("/reports/:id", s.requireAdmin(), s.deleteReport)

	api.GET("/admin/stats", s.requireAdmin(), s.adminStats)

	return r
}

// track counts calls per route and applies injected faults.
func (s *Server) track() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := ctx.Request.Method + " " + strings.TrimPrefix(ctx.FullPath(), "/api")
		s.mu.Lock()
		s.hits[key]++
		f := s.faults[key]
		var status int
		var reason string
		if f != nil && f.times > 0 {
			f.times--
			status, reason = f.status, f.reason
		}
		s.mu.Unlock()
		if status != 0 {
			if reason == "" {
				ctx.AbortWithStatus(status)
				return
			}
			fail(ctx, status, reason)
			return
		}
		ctx.Next()
	}
}

// identify resolves an optional bearer token to a user id.
func (s *Server) identify() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			fail(ctx, http.StatusUnauthorized, "invalid authorization header format")
			return
		}
		claims, err := utils.ParseToken(s.secret, strings.TrimSpace(parts[1]))
		if err != nil {
			fail(ctx, http.StatusUnauthorized, "invalid token")
			return
		}
		s.mu.Lock()
		u := s.userByEmailLocked(claims.Subject)
		s.mu.Unlock()
		if u == nil {
			fail(ctx, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx.Set(ctxUserKey, u.ID)
		ctx.Next()
	}
}

func (s *Server) requireUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := ctx.Get(ctxUserKey); !ok {
			fail(ctx, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uid, ok := currentUserID(ctx)
		if !ok {
			fail(ctx, http.StatusUnauthorized, "authentication required")
			return
		}
		s.mu.Lock()
		u := s.users[uid]
		s.mu.Unlock()
		if u == nil || u.Role != models.RoleAdmin {
			fail(ctx, http.StatusForbidden, "Access denied")
			return
		}
		ctx.Next()
	}
}

func currentUserID(ctx *gin.Context) (int64, bool) {
	v, ok := ctx.Get(ctxUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func paramID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(ctx, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
