package api

import (
	"context"

	"github.com/cppla/webblog/models"
)

type contentBody struct {
	Content string `json:"content"`
}

// ListComments returns the top-level comments of a post.
func (c *Client) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.get(ctx, idPath("/comments/post/%d", postID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Comment{}
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, postID int64, content string) (*models.Comment, error) {
	var out models.Comment
	if err := c.post(ctx, idPath("/comments/post/%d", postID), contentBody{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/comments/%d", id))
}

// ListReplies returns the replies to one comment.
func (c *Client) ListReplies(ctx context.Context, commentID int64) ([]models.Reply, error) {
	var out []models.Reply
	if err := c.get(ctx, idPath("/comment-replies/comment/%d", commentID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Reply{}
	}
	return out, nil
}

func (c *Client) CreateReply(ctx context.Context, commentID int64, content string) (*models.Reply, error) {
	var out models.Reply
	if err := c.post(ctx, idPath("/comment-replies/comment/%d", commentID), contentBody{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReply(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/comment-replies/%d", id))
}
