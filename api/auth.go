package api

import (
	"context"

	"github.com/cppla/webblog/models"
)

// Login exchanges credentials for a token and the user's profile.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.post(ctx, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	return c.post(ctx, "/auth/register", reg, nil)
}
