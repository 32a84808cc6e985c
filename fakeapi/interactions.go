package fakeapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/models"
)

func (s *Server) likeCount(ctx *gin.Context) {
	postID, ok := paramID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx.JSON(http.StatusOK, gin.H{"likeCount": len(s.likes[postID])})
}

func queryUserID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Query("userId"), 10, 64)
	if err != nil {
		fail(ctx, http.StatusBadRequest, "userId is required")
		return 0, false
	}
	return id, true
}

func (s *Server) isLiked(ctx *gin.Context) {
	postID, ok := paramID(ctx)
	if !ok {
		return
	}
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx.JSON(http.StatusOK, gin.H{"isLiked": s.likes[postID][userID]})
}

func (s *Server) toggleLike(ctx *gin.Context) {
	postID, ok := paramID(ctx)
	if !ok {
		return
	}
	uid, _ := currentUserID(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		fail(ctx, http.StatusNotFound, "Post not found")
		return
	}
	set := s.likes[postID]
	if set == nil {
		set = map[int64]bool{}
		s.likes[postID] = set
	}
	liked := !set[uid]
	if liked {
		set[uid] = true
	} else {
		delete(set, uid)
	}
	ctx.JSON(http.StatusOK, models.LikeState{Liked: liked, Count: int64(len(set))})
}

func (s *Server) isSaved(ctx *gin.Context) {
	postID, ok := paramID(ctx)
	if !ok {
		return
	}
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, saved := s.saves[postID][userID]
	ctx.JSON(http.StatusOK, gin.H{"isSaved": saved})
}

func (s *Server) toggleSave(ctx *gin.Context) {
	postID, ok := paramID(ctx)
	if !ok {
		return
	}
	uid, _ := currentUserID(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		fail(ctx, http.StatusNotFound, "Post not found")
		return
	}
	set := s.saves[postID]
	if set == nil {
		set = map[int64]time.Time{}
		s.saves[postID] = set
	}
	_, saved := set[uid]
	if saved {
		delete(set, uid)
	} else {
		set[uid] = s.now()
	}
	ctx.JSON(http.StatusOK, models.SaveState{Saved: !saved})
}

func (s *Server) mySaved(ctx *gin.Context) {
	uid, _ := currentUserID(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.SavedPost{}
	for _, postID := range sortedIDs(s.saves) {
		at, ok := s.saves[postID][uid]
		if !ok {
			continue
		}
		p, exists := s.posts[postID]
		if !exists {
			continue
		}
		view := s.postViewLocked(p)
		out = append(out, models.SavedPost{ID: postID*1000 + uid, UserID: uid, Post: &view, SavedAt: at})
	}
	ctx.JSON(http.StatusOK, out)
}
