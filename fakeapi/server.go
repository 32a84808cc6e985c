// Package fakeapi is an in-memory implementation of the WebBlog REST API. It backs the
// gateway's tests and local development when no real backend is running.
package fakeapi

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/utils"
)

const tokenTTL = 24 * time.Hour

type userRecord struct {
	models.User
	passwordHash string
}

type fault struct {
	status int
	reason string
	times  int
}

// Server holds the whole backend state behind one mutex.
type Server struct {
	mu     sync.Mutex
	secret []byte
	nextID int64
	now    func() time.Time

	users      map[int64]*userRecord
	posts      map[int64]*models.Post
	categories map[int64]*models.Category
	comments   map[int64]*models.Comment
	replies    map[int64]*models.Reply
	likes      map[int64]map[int64]bool
	saves      map[int64]map[int64]time.Time
	reports    map[int64]*models.Report

	// ReportDeleteUnsupported makes DELETE /reports/{id} answer 405, like older backends.
	ReportDeleteUnsupported bool

	faults map[string]*fault
	hits   map[string]int

	engine *gin.Engine
}

// New creates an empty backend.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		secret:     []byte("fakeapi-secret"),
		now:        time.Now,
		users:      map[int64]*userRecord{},
		posts:      map[int64]*models.Post{},
		categories: map[int64]*models.Category{},
		comments:   map[int64]*models.Comment{},
		replies:    map[int64]*models.Reply{},
		likes:      map[int64]map[int64]bool{},
		saves:      map[int64]map[int64]time.Time{},
		reports:    map[int64]*models.Report{},
		faults:     map[string]*fault{},
		hits:       map[string]int{},
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler. All routes live under /api.
func (s *Server) Handler() http.Handler { return s.engine }

// Fail makes the next `times` calls of method+route answer status with reason.
// route is the pattern without the /api prefix, e.g. "/post-likes/:id/toggle".
func (s *Server) Fail(method, route string, status int, reason string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+route] = &fault{status: status, reason: reason, times: times}
}

// Hits returns how many times method+route was called.
func (s *Server) Hits(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+route]
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// SeedUser registers a user directly.
func (s *Server) SeedUser(name, email, password string, role models.Role) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, role).User
}

func (s *Server) addUserLocked(name, email, password string, role models.Role) *userRecord {
	hash, _ := utils.HashPassword(password, bcrypt.MinCost)
	u := &userRecord{
		User:         models.User{ID: s.id(), Name: name, Email: email, Role: role, Enabled: true},
		passwordHash: hash,
	}
	s.users[u.ID] = u
	return u
}

// SetBlocked sets the server-side block flag of a user.
func (s *Server) SetBlocked(userID int64, blocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.IsBlocked = blocked
	}
}

// SeedCategory adds a category.
func (s *Server) SeedCategory(name string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Category{ID: s.id(), Name: name}
	s.categories[c.ID] = c
	return *c
}

// SeedPost adds a post authored by authorID at createdAt.
func (s *Server) SeedPost(authorID int64, title, content string, createdAt time.Time, categoryIDs ...int64) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.Post{ID: s.id(), Title: title, Content: content, AuthorID: authorID, CreatedAt: createdAt}
	for _, cid := range categoryIDs {
		if c, ok := s.categories[cid]; ok {
			p.Categories = append(p.Categories, *c)
		}
	}
	s.posts[p.ID] = p
	return s.postViewLocked(p)
}

// SeedComment adds a comment on a post.
func (s *Server) SeedComment(postID, authorID int64, content string) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Comment{ID: s.id(), PostID: postID, AuthorID: authorID, Content: content, CreatedAt: s.now()}
	s.comments[c.ID] = c
	return s.commentViewLocked(c)
}

// SeedReply adds a reply to a comment.
func (s *Server) SeedReply(commentID, authorID int64, content string) models.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &models.Reply{ID: s.id(), ParentCommentID: commentID, AuthorID: authorID, Content: content, CreatedAt: s.now()}
	s.replies[r.ID] = r
	return s.replyViewLocked(r)
}

// SeedReport files a report.
func (s *Server) SeedReport(reporterID int64, postID *int64, reason string, status models.ReportStatus) models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &models.Report{ID: s.id(), ReporterID: reporterID, PostID: postID, Reason: reason, Status: status, CreatedAt: s.now()}
	s.reports[r.ID] = r
	return s.reportViewLocked(r)
}

// Token issues a valid token for an existing user.
func (s *Server) Token(userID int64) string {
	s.mu.Lock()
	u := s.users[userID]
	s.mu.Unlock()
	if u == nil {
		return ""
	}
	tok, _ := utils.GenerateToken(s.secret, u.Email, string(u.Role), tokenTTL)
	return tok
}

// CategoryCount returns how many categories exist.
func (s *Server) CategoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

func (s *Server) userSummaryLocked(id int64) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	cp := u.User
	return &cp
}

func (s *Server) postViewLocked(p *models.Post) models.Post {
	out := *p
	out.Categories = append([]models.Category(nil), p.Categories...)
	if out.Categories == nil {
		out.Categories = []models.Category{}
	}
	out.Author = s.userSummaryLocked(p.AuthorID)
	return out
}

func (s *Server) commentViewLocked(c *models.Comment) models.Comment {
	out := *c
	out.Author = s.userSummaryLocked(c.AuthorID)
	return out
}

func (s *Server) replyViewLocked(r *models.Reply) models.Reply {
	out := *r
	out.Author = s.userSummaryLocked(r.AuthorID)
	return out
}

func (s *Server) reportViewLocked(r *models.Report) models.Report {
	out := *r
	out.Reporter = s.userSummaryLocked(r.ReporterID)
	return out
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Server) userByEmailLocked(email string) *userRecord {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func fail(ctx *gin.Context, status int, reason string) {
	ctx.AbortWithStatusJSON(status, gin.H{"error": reason})
}
