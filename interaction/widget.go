// Package interaction implements the like and save controls of a single post.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cppla/webblog/models"
)

var (
	ErrNotAuthenticated = errors.New("login required")
	ErrToggleInFlight   = errors.New("toggle already in progress")
	ErrLikeFailed       = errors.New("like toggle failed")
	ErrSaveFailed       = errors.New("save toggle failed")
)

// Messages shown when a toggle fails.
const (
	MsgLikeFailed = "Failed to like post. Please try again."
	MsgSaveFailed = "Failed to save post. Please try again."
)

// FailureMessage returns the user-facing text for a failed toggle, "" for other errors.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrLikeFailed):
		return MsgLikeFailed
	case errors.Is(err, ErrSaveFailed):
		return MsgSaveFailed
	}
	return ""
}

// Backend is the slice of the API the widget needs.
type Backend interface {
	LikeCount(ctx context.Context, postID int64) (int64, error)
	IsLiked(ctx context.Context, postID, userID int64) (bool, error)
	ToggleLike(ctx context.Context, postID int64) (models.LikeState, error)
	IsSaved(ctx context.Context, postID, userID int64) (bool, error)
	ToggleSave(ctx context.Context, postID int64) (models.SaveState, error)
}

// Widget holds the like and save state of one post for one viewer.
type Widget struct {
	postID int64
	log    *zap.Logger

	mu    sync.Mutex
	liked bool
	saved bool
	count int64

	likeBusy atomic.Bool
	saveBusy atomic.Bool
}

func New(postID int64, log *zap.Logger) *Widget {
	if log == nil {
		log = zap.NewNop()
	}
	return &Widget{postID: postID, log: log.With(zap.Int64("post", postID))}
}

func (w *Widget) PostID() int64 { return w.postID }

// Load fetches the count, and for a logged-in viewer the liked and saved flags. The calls
// run concurrently; a failed call leaves its field at the zero value.
func (w *Widget) Load(ctx context.Context, be Backend, viewer *models.User) {
	var wg sync.WaitGroup
	var count int64
	var liked, saved bool
	var countOK, likedOK, savedOK bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := be.LikeCount(ctx, w.postID)
		if err != nil {
			w.log.Warn("load like count failed", zap.Error(err))
			return
		}
		count, countOK = n, true
	}()
	if viewer != nil {
		wg.Add(2)
		go func() {
			defer wg.Done()
			v, err := be.IsLiked(ctx, w.postID, viewer.ID)
			if err != nil {
				w.log.Warn("load liked flag failed", zap.Error(err))
				return
			}
			liked, likedOK = v, true
		}()
		go func() {
			defer wg.Done()
			v, err := be.IsSaved(ctx, w.postID, viewer.ID)
			if err != nil {
				w.log.Warn("load saved flag failed", zap.Error(err))
				return
			}
			saved, savedOK = v, true
		}()
	}
	wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.count, w.liked, w.saved = 0, false, false
	if countOK {
		w.count = count
	}
	if likedOK {
		w.liked = liked
	}
	if savedOK {
		w.saved = saved
	}
}

// ToggleLike flips the viewer's like. The server's answer replaces local state.
func (w *Widget) ToggleLike(ctx context.Context, be Backend, viewer *models.User) (models.LikeState, error) {
	if viewer == nil {
		return w.likeState(), ErrNotAuthenticated
	}
	if !w.likeBusy.CompareAndSwap(false, true) {
		return w.likeState(), ErrToggleInFlight
	}
	defer w.likeBusy.Store(false)

	st, err := be.ToggleLike(ctx, w.postID)
	if err != nil {
		w.log.Warn("toggle like failed", zap.Int64("user", viewer.ID), zap.Error(err))
		return w.likeState(), fmt.Errorf("%w: %w", ErrLikeFailed, err)
	}
	w.mu.Lock()
	w.liked, w.count = st.Liked, st.Count
	w.mu.Unlock()
	return st, nil
}

// ToggleSave flips the viewer's bookmark. The server's answer replaces local state.
func (w *Widget) ToggleSave(ctx context.Context, be Backend, viewer *models.User) (models.SaveState, error) {
	if viewer == nil {
		return w.saveState(), ErrNotAuthenticated
	}
	if !w.saveBusy.CompareAndSwap(false, true) {
		return w.saveState(), ErrToggleInFlight
	}
	defer w.saveBusy.Store(false)

	st, err := be.ToggleSave(ctx, w.postID)
	if err != nil {
		w.log.Warn("toggle save failed", zap.Int64("user", viewer.ID), zap.Error(err))
		return w.saveState(), fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	w.mu.Lock()
	w.saved = st.Saved
	w.mu.Unlock()
	return st, nil
}

func (w *Widget) likeState() models.LikeState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return models.LikeState{Liked: w.liked, Count: w.count}
}

func (w *Widget) saveState() models.SaveState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return models.SaveState{Saved: w.saved}
}

// Button is a rendered control.
type Button struct {
	Active   bool   `json:"active"`
	Disabled bool   `json:"disabled"`
	Busy     bool   `json:"busy"`
	Tooltip  string `json:"tooltip"`
}

// View is what the post card renders for the controls. Save is nil when it is not shown.
type View struct {
	PostID    int64   `json:"postId"`
	LikeCount int64   `json:"likeCount"`
	Like      Button  `json:"like"`
	Save      *Button `json:"save,omitempty"`
}

func (w *Widget) View(authenticated bool) View {
	w.mu.Lock()
	liked, saved, count := w.liked, w.saved, w.count
	w.mu.Unlock()

	v := View{PostID: w.postID, LikeCount: count}
	switch {
	case !authenticated:
		v.Like = Button{Disabled: true, Tooltip: "Login to like"}
		return v
	case liked:
		v.Like = Button{Active: true, Tooltip: "Unlike"}
	default:
		v.Like = Button{Tooltip: "Like"}
	}
	v.Like.Busy = w.likeBusy.Load()
	v.Like.Disabled = v.Like.Busy

	save := Button{Active: saved, Tooltip: "Save"}
	if saved {
		save.Tooltip = "Unsave"
	}
	save.Busy = w.saveBusy.Load()
	save.Disabled = save.Busy
	v.Save = &save
	return v
}
