// Package threads loads and mutates the comment tree of a post: top-level comments, each
// with one level of replies.
package threads

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cppla/webblog/models"
)

var (
	ErrNotAuthenticated = errors.New("login required")
	ErrEmptyContent     = errors.New("content must not be empty")
)

// Backend is the slice of the API the tree needs.
type Backend interface {
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID int64, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	ListReplies(ctx context.Context, commentID int64) ([]models.Reply, error)
	CreateReply(ctx context.Context, commentID int64, content string) (*models.Reply, error)
	DeleteReply(ctx context.Context, id int64) error
}

// Tree is the loaded discussion of one post. Replies are keyed by parent comment id; a
// comment whose replies failed to load has no entry.
type Tree struct {
	postID int64
	log    *zap.Logger

	mu       sync.RWMutex
	comments []models.Comment
	replies  map[int64][]models.Reply
}

func New(postID int64, log *zap.Logger) *Tree {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tree{postID: postID, log: log.With(zap.Int64("post", postID)), replies: map[int64][]models.Reply{}}
}

// Load fetches the comments, then the replies of every comment concurrently.
func (t *Tree) Load(ctx context.Context, be Backend) error {
	comments, err := be.ListComments(ctx, t.postID)
	if err != nil {
		t.log.Warn("load comments failed", zap.Error(err))
		return err
	}
	replies := t.fetchReplies(ctx, be, comments)

	t.mu.Lock()
	t.comments, t.replies = comments, replies
	t.mu.Unlock()
	return nil
}

func (t *Tree) fetchReplies(ctx context.Context, be Backend, comments []models.Comment) map[int64][]models.Reply {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		out = make(map[int64][]models.Reply, len(comments))
	)
	for _, c := range comments {
		wg.Add(1)
		go func(commentID int64) {
			defer wg.Done()
			rs, err := be.ListReplies(ctx, commentID)
			if err != nil {
				t.log.Warn("load replies failed", zap.Int64("comment", commentID), zap.Error(err))
				return
			}
			mu.Lock()
			out[commentID] = rs
			mu.Unlock()
		}(c.ID)
	}
	wg.Wait()
	return out
}

// reloadComments re-fetches the comment list and the replies of comments not seen before.
func (t *Tree) reloadComments(ctx context.Context, be Backend) error {
	comments, err := be.ListComments(ctx, t.postID)
	if err != nil {
		t.log.Warn("reload comments failed", zap.Error(err))
		return err
	}
	t.mu.RLock()
	var fresh []models.Comment
	for _, c := range comments {
		if _, ok := t.replies[c.ID]; !ok {
			fresh = append(fresh, c)
		}
	}
	t.mu.RUnlock()
	added := t.fetchReplies(ctx, be, fresh)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.comments = comments
	for id, rs := range added {
		t.replies[id] = rs
	}
	return nil
}

func (t *Tree) reloadReplies(ctx context.Context, be Backend, commentID int64) error {
	rs, err := be.ListReplies(ctx, commentID)
	if err != nil {
		t.log.Warn("reload replies failed", zap.Int64("comment", commentID), zap.Error(err))
		return err
	}
	t.mu.Lock()
	t.replies[commentID] = rs
	t.mu.Unlock()
	return nil
}

// AddComment posts a comment and re-fetches the list.
func (t *Tree) AddComment(ctx context.Context, be Backend, viewer *models.User, content string) error {
	if viewer == nil {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if _, err := be.CreateComment(ctx, t.postID, content); err != nil {
		t.log.Info("create comment rejected", zap.Int64("user", viewer.ID), zap.Error(err))
		return err
	}
	return t.reloadComments(ctx, be)
}

// AddReply posts a reply and re-fetches that comment's replies.
func (t *Tree) AddReply(ctx context.Context, be Backend, viewer *models.User, commentID int64, content string) error {
	if viewer == nil {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if _, err := be.CreateReply(ctx, commentID, content); err != nil {
		t.log.Info("create reply rejected", zap.Int64("user", viewer.ID), zap.Error(err))
		return err
	}
	return t.reloadReplies(ctx, be, commentID)
}

// DeleteComment removes the comment locally once the server accepted the delete.
func (t *Tree) DeleteComment(ctx context.Context, be Backend, commentID int64) error {
	if err := be.DeleteComment(ctx, commentID); err != nil {
		t.log.Info("delete comment rejected", zap.Int64("comment", commentID), zap.Error(err))
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := make([]models.Comment, 0, len(t.comments))
	for _, c := range t.comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	t.comments = kept
	delete(t.replies, commentID)
	return nil
}

// DeleteReply deletes a reply and re-fetches its siblings.
func (t *Tree) DeleteReply(ctx context.Context, be Backend, commentID, replyID int64) error {
	if err := be.DeleteReply(ctx, replyID); err != nil {
		t.log.Info("delete reply rejected", zap.Int64("reply", replyID), zap.Error(err))
		return err
	}
	return t.reloadReplies(ctx, be, commentID)
}

// Comments returns a copy of the loaded comments.
func (t *Tree) Comments() []models.Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]models.Comment(nil), t.comments...)
}

// Replies returns the replies of a comment and whether they were loaded.
func (t *Tree) Replies(commentID int64) ([]models.Reply, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rs, ok := t.replies[commentID]
	return append([]models.Reply(nil), rs...), ok
}

// Node is one comment with its replies, as rendered.
type Node struct {
	models.Comment
	Replies       []ReplyNode `json:"replies"`
	RepliesLoaded bool        `json:"repliesLoaded"`
	CanDelete     bool        `json:"canDelete"`
}

type ReplyNode struct {
	models.Reply
	CanDelete bool `json:"canDelete"`
}

// View renders the tree for viewer. Delete is offered to the author and to admins.
func (t *Tree) View(viewer *models.User) []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Node, 0, len(t.comments))
	for _, c := range t.comments {
		rs, ok := t.replies[c.ID]
		nodes := make([]ReplyNode, 0, len(rs))
		for _, r := range rs {
			nodes = append(nodes, ReplyNode{Reply: r, CanDelete: CanModify(viewer, r.AuthorID)})
		}
		out = append(out, Node{
			Comment:       c,
			Replies:       nodes,
			RepliesLoaded: ok,
			CanDelete:     CanModify(viewer, c.AuthorID),
		})
	}
	return out
}

// CanModify reports whether viewer may edit or delete content written by authorID.
func CanModify(viewer *models.User, authorID int64) bool {
	return viewer != nil && (viewer.ID == authorID || viewer.IsAdmin())
}
