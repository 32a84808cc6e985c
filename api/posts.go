package api

import (
	"context"

	"github.com/cppla/webblog/models"
)

// ListPosts returns every post. The API has no server-side paging.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := c.get(ctx, "/posts", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Post{}
	}
	return out, nil
}

func (c *Client) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var out models.Post
	if err := c.get(ctx, idPath("/posts/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	var out models.Post
	if err := c.post(ctx, "/posts", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost replaces title and content. Category reassignment is not supported by the API.
func (c *Client) UpdatePost(ctx context.Context, id int64, in models.PostInput) (*models.Post, error) {
	var out models.Post
	if err := c.put(ctx, idPath("/posts/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/posts/%d", id))
}
