package fakeapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/utils"
)

func (s *Server) register(ctx *gin.Context) {
	var req models.Registration
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		fail(ctx, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userByEmailLocked(req.Email) != nil {
		fail(ctx, http.StatusBadRequest, "Email already exists")
		return
	}
	s.addUserLocked(req.Name, req.Email, req.Password, models.RoleUser)
	ctx.JSON(http.StatusOK, gin.H{"message": "Registration successful. Please login."})
}

func (s *Server) login(ctx *gin.Context) {
	var req models.Credentials
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	s.mu.Lock()
	u := s.userByEmailLocked(req.Email)
	var user models.User
	var hash string
	if u != nil {
		user, hash = u.User, u.passwordHash
	}
	s.mu.Unlock()
	if u == nil || !utils.CheckPassword(hash, req.Password) {
		fail(ctx, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !user.Enabled {
		fail(ctx, http.StatusUnauthorized, "Account is disabled")
		return
	}
	token, err := utils.GenerateToken(s.secret, user.Email, string(user.Role), tokenTTL)
	if err != nil {
		fail(ctx, http.StatusInternalServerError, "failed to issue token")
		return
	}
	ctx.JSON(http.StatusOK, models.AuthResponse{Token: token, User: user})
}

func (s *Server) listPosts(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, 0, len(s.posts))
	for _, id := range sortedIDs(s.posts) {
		out = append(out, s.postViewLocked(s.posts[id]))
	}
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) getPost(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		fail(ctx, http.StatusNotFound, "Post not found")
		return
	}
	ctx.JSON(http.StatusOK, s.postViewLocked(p))
}

// writerLocked returns the caller when it may write content. Blocked users may not.
func (s *Server) writerLocked(ctx *gin.Context) (*userRecord, bool) {
	uid, _ := currentUserID(ctx)
	u := s.users[uid]
	if u == nil {
		fail(ctx, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	if u.IsBlocked {
		fail(ctx, http.StatusForbidden, "Your account is blocked")
		return nil, false
	}
	return u, true
}

func (s *Server) createPost(ctx *gin.Context) {
	var req models.PostInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		fail(ctx, http.StatusBadRequest, "Title and content are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.writerLocked(ctx)
	if !ok {
		return
	}
	p := &models.Post{ID: s.id(), Title: req.Title, Content: req.Content, AuthorID: u.ID, CreatedAt: s.now()}
	for _, cid := range req.CategoryIDs {
		if c, ok := s.categories[cid]; ok {
			p.Categories = append(p.Categories, *c)
		}
	}
	s.posts[p.ID] = p
	ctx.JSON(http.StatusCreated, s.postViewLocked(p))
}

func (s *Server) canModifyLocked(ctx *gin.Context, authorID int64) bool {
	uid, _ := currentUserID(ctx)
	u := s.users[uid]
	return u != nil && (u.ID == authorID || u.Role == models.RoleAdmin)
}

func (s *Server) updatePost(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req models.PostInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		fail(ctx, http.StatusNotFound, "Post not found")
		return
	}
	if !s.canModifyLocked(ctx, p.AuthorID) {
		fail(ctx, http.StatusForbidden, "You don't have permission to edit this post")
		return
	}
	p.Title, p.Content = req.Title, req.Content
	ctx.JSON(http.StatusOK, s.postViewLocked(p))
}

func (s *Server) deletePost(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		fail(ctx, http.StatusNotFound, "Post not found")
		return
	}
	if !s.canModifyLocked(ctx, p.AuthorID) {
		fail(ctx, http.StatusForbidden, "You don't have permission to delete this post")
		return
	}
	delete(s.posts, id)
	delete(s.likes, id)
	delete(s.saves, id)
	ctx.Status(http.StatusNoContent)
}

func (s *Server) listCategories(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, id := range sortedIDs(s.categories) {
		out = append(out, *s.categories[id])
	}
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) categoryNameTakenLocked(name string, except int64) bool {
	for id, c := range s.categories {
		if id != except && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (s *Server) createCategory(ctx *gin.Context) {
	var req models.Category
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(ctx, http.StatusBadRequest, "Category name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryNameTakenLocked(req.Name, 0) {
		fail(ctx, http.StatusBadRequest, "Category already exists")
		return
	}
	c := &models.Category{ID: s.id(), Name: strings.TrimSpace(req.Name)}
	s.categories[c.ID] = c
	ctx.JSON(http.StatusCreated, c)
}

func (s *Server) updateCategory(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req models.Category
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(ctx, http.StatusBadRequest, "Category name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		fail(ctx, http.StatusNotFound, "Category not found")
		return
	}
	if s.categoryNameTakenLocked(req.Name, id) {
		fail(ctx, http.StatusBadRequest, "Category name already exists")
		return
	}
	c.Name = strings.TrimSpace(req.Name)
	ctx.JSON(http.StatusOK, c)
}

// deleteCategory has no cascade check: posts simply lose the reference.
func (s *Server) deleteCategory(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		fail(ctx, http.StatusNotFound, "Category not found")
		return
	}
	delete(s.categories, id)
	for _, p := range s.posts {
		kept := p.Categories[:0]
		for _, c := range p.Categories {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		p.Categories = kept
	}
	ctx.Status(http.StatusNoContent)
}

func (s *Server) listComments(ctx *gin.Context) {
	postID, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Comment{}
	for _, id := range sortedIDs(s.comments) {
		if c := s.comments[id]; c.PostID == postID {
			out = append(out, s.commentViewLocked(c))
		}
	}
	ctx.JSON(http.StatusOK, out)
}

type contentRequest struct {
	Content string `json:"content"`
}

func (s *Server) createComment(ctx *gin.Context) {
	postID, ok := paramID(ctx)
	if !ok {
		return
	}
	var req contentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(ctx, http.StatusBadRequest, "Comment content is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		fail(ctx, http.StatusNotFound, "Post not found")
		return
	}
	u, ok := s.writerLocked(ctx)
	if !ok {
		return
	}
	c := &models.Comment{ID: s.id(), PostID: postID, AuthorID: u.ID, Content: req.Content, CreatedAt: s.now()}
	s.comments[c.ID] = c
	ctx.JSON(http.StatusCreated, s.commentViewLocked(c))
}

func (s *Server) deleteComment(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		fail(ctx, http.StatusNotFound, "Comment not found")
		return
	}
	if !s.canModifyLocked(ctx, c.AuthorID) {
		fail(ctx, http.StatusForbidden, "You don't have permission to delete this comment")
		return
	}
	delete(s.comments, id)
	for rid, r := range s.replies {
		if r.ParentCommentID == id {
			delete(s.replies, rid)
		}
	}
	ctx.Status(http.StatusNoContent)
}

func (s *Server) listReplies(ctx *gin.Context) {
	commentID, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Reply{}
	for _, id := range sortedIDs(s.replies) {
		if r := s.replies[id]; r.ParentCommentID == commentID {
			out = append(out, s.replyViewLocked(r))
		}
	}
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) createReply(ctx *gin.Context) {
	commentID, ok := paramID(ctx)
	if !ok {
		return
	}
	var req contentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(ctx, http.StatusBadRequest, "Reply content is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[commentID]; !ok {
		fail(ctx, http.StatusNotFound, "Comment not found")
		return
	}
	u, ok := s.writerLocked(ctx)
	if !ok {
		return
	}
	r := &models.Reply{ID: s.id(), ParentCommentID: commentID, AuthorID: u.ID, Content: req.Content, CreatedAt: s.now()}
	s.replies[r.ID] = r
	ctx.JSON(http.StatusCreated, s.replyViewLocked(r))
}

func (s *Server) deleteReply(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.replies[id]
	if !ok {
		fail(ctx, http.StatusNotFound, "Reply not found")
		return
	}
	if !s.canModifyLocked(ctx, r.AuthorID) {
		fail(ctx, http.StatusForbidden, "You don't have permission to delete this reply")
		return
	}
	delete(s.replies, id)
	ctx.Status(http.StatusNoContent)
}
