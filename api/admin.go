package api

import (
	"context"

	"github.com/cppla/webblog/models"
)

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.User{}
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/users/%d", id))
}

// ToggleBlockUser flips the server-side block flag and returns the updated user.
func (c *Client) ToggleBlockUser(ctx context.Context, id int64) (*models.User, error) {
	var out models.User
	if err := c.put(ctx, idPath("/users/%d/toggle-block", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListReports(ctx context.Context) ([]models.Report, error) {
	var out []models.Report
	if err := c.get(ctx, "/reports", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Report{}
	}
	return out, nil
}

// CreateReport files a report against a post or a comment.
func (c *Client) CreateReport(ctx context.Context, in models.Report) (*models.Report, error) {
	var out models.Report
	if err := c.post(ctx, "/reports", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReportStatus moves a report through review and returns the updated report.
func (c *Client) UpdateReportStatus(ctx context.Context, id int64, status models.ReportStatus) (*models.Report, error) {
	var out models.Report
	body := map[string]string{"status": string(status)}
	if err := c.put(ctx, idPath("/reports/%d/status", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReport is best-effort: not every backend deployment supports it.
func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/reports/%d", id))
}

func (c *Client) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var out models.AdminStats
	if err := c.get(ctx, "/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
