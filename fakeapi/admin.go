package fakeapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/models"
)

func (s *Server) listUsers(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, id := range sortedIDs(s.users) {
		out = append(out, s.users[id].User)
	}
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) deleteUser(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		fail(ctx, http.StatusNotFound, "User not found")
		return
	}
	if uid, _ := currentUserID(ctx); uid == id {
		fail(ctx, http.StatusBadRequest, "You cannot delete your own account")
		return
	}
	delete(s.users, id)
	ctx.Status(http.StatusNoContent)
}

func (s *Server) toggleBlock(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		fail(ctx, http.StatusNotFound, "User not found")
		return
	}
	if u.Role == models.RoleAdmin {
		fail(ctx, http.StatusBadRequest, "Admins cannot be blocked")
		return
	}
	u.IsBlocked = !u.IsBlocked
	ctx.JSON(http.StatusOK, u.User)
}

func (s *Server) listReports(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Report, 0, len(s.reports))
	for _, id := range sortedIDs(s.reports) {
		out = append(out, s.reportViewLocked(s.reports[id]))
	}
	ctx.JSON(http.StatusOK, out)
}

func (s *Server) createReport(ctx *gin.Context) {
	var req models.Report
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.PostID == nil && req.CommentID == nil {
		fail(ctx, http.StatusBadRequest, "Either postId or commentId must be provided")
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		fail(ctx, http.StatusBadRequest, "Reason is required")
		return
	}
	uid, _ := currentUserID(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.PostID != nil {
		if _, ok := s.posts[*req.PostID]; !ok {
			fail(ctx, http.StatusNotFound, "Post not found")
			return
		}
	}
	if req.CommentID != nil {
		if _, ok := s.comments[*req.CommentID]; !ok {
			fail(ctx, http.StatusNotFound, "Comment not found")
			return
		}
	}
	r := &models.Report{
		ID:         s.id(),
		ReporterID: uid,
		PostID:     req.PostID,
		CommentID:  req.CommentID,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     models.ReportPending,
		CreatedAt:  s.now(),
	}
	s.reports[r.ID] = r
	ctx.JSON(http.StatusCreated, s.reportViewLocked(r))
}

func (s *Server) updateReportStatus(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	status := models.ReportStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status.Normalize() != status {
		fail(ctx, http.StatusBadRequest, "Invalid status")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		fail(ctx, http.StatusNotFound, "Report not found")
		return
	}
	r.Status = status
	ctx.JSON(http.StatusOK, s.reportViewLocked(r))
}

func (s *Server) deleteReport(ctx *gin.Context) {
	if s.ReportDeleteUnsupported {
		fail(ctx, http.StatusMethodNotAllowed, "Request method 'DELETE' is not supported")
		return
	}
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		fail(ctx, http.StatusNotFound, "Report not found")
		return
	}
	delete(s.reports, id)
	ctx.Status(http.StatusNoContent)
}

func (s *Server) adminStats(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.AdminStats{
		TotalUsers:    int64(len(s.users)),
		TotalPosts:    int64(len(s.posts)),
		TotalComments: int64(len(s.comments)),
		TotalReports:  int64(len(s.reports)),
	}
	for _, r := range s.reports {
		if r.Status.Normalize() == models.ReportPending {
			stats.PendingReports++
		}
	}
	ctx.JSON(http.StatusOK, stats)
}
