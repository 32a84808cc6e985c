package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/cppla/webblog/models"
)

func userQuery(userID int64) url.Values {
	return url.Values{"userId": []string{strconv.FormatInt(userID, 10)}}
}

// LikeCount is public and works without a token.
func (c *Client) LikeCount(ctx context.Context, postID int64) (int64, error) {
	var out struct {
		LikeCount int64 `json:"likeCount"`
	}
	if err := c.get(ctx, idPath("/post-likes/%d/count", postID), nil, &out); err != nil {
		return 0, err
	}
	return out.LikeCount, nil
}

func (c *Client) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	var out struct {
		IsLiked bool `json:"isLiked"`
	}
	if err := c.get(ctx, idPath("/post-likes/%d/is-liked", postID), userQuery(userID), &out); err != nil {
		return false, err
	}
	return out.IsLiked, nil
}

// ToggleLike flips the caller's like and returns the new state with the fresh count.
func (c *Client) ToggleLike(ctx context.Context, postID int64) (models.LikeState, error) {
	var out models.LikeState
	if err := c.post(ctx, idPath("/post-likes/%d/toggle", postID), nil, &out); err != nil {
		return models.LikeState{}, err
	}
	return out, nil
}

func (c *Client) IsSaved(ctx context.Context, postID, userID int64) (bool, error) {
	var out struct {
		IsSaved bool `json:"isSaved"`
	}
	if err := c.get(ctx, idPath("/saved-posts/%d/is-saved", postID), userQuery(userID), &out); err != nil {
		return false, err
	}
	return out.IsSaved, nil
}

func (c *Client) ToggleSave(ctx context.Context, postID int64) (models.SaveState, error) {
	var out models.SaveState
	if err := c.post(ctx, idPath("/saved-posts/%d/toggle", postID), nil, &out); err != nil {
		return models.SaveState{}, err
	}
	return out, nil
}

// MySavedPosts lists the caller's saved posts.
func (c *Client) MySavedPosts(ctx context.Context) ([]models.SavedPost, error) {
	var out []models.SavedPost
	if err := c.get(ctx, "/saved-posts/my-saved", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.SavedPost{}
	}
	return out, nil
}
