package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/models"
)

// Action names carried by tickets.
const (
	ActionDeleteUser     = "delete_user"
	ActionDeleteCategory = "delete_category"
	ActionDeleteReport   = "delete_report"
)

type StatsBackend interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}

// Stats fetches the dashboard numbers. On failure every number is zero; the error is
// returned for logging only.
func Stats(ctx context.Context, be StatsBackend) (models.AdminStats, error) {
	s, err := be.AdminStats(ctx)
	if err != nil || s == nil {
		return models.AdminStats{}, err
	}
	return *s, nil
}

// Console groups the panels of one admin's browser.
type Console struct {
	Users      *Users
	Categories *Categories
	Reports    *Reports
	Confirm    *Confirmations
	log        *zap.Logger
}

// NewConsole creates the panels. Destructive actions are queued on confirm.
func NewConsole(confirm *Confirmations, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	if confirm == nil {
		confirm = NewConfirmations(DefaultTicketTTL)
	}
	log = log.Named("admin")
	return &Console{
		Users:      &Users{log: log},
		Categories: &Categories{log: log, usage: map[int64]int{}},
		Reports:    &Reports{log: log},
		Confirm:    confirm,
		log:        log,
	}
}

// Dashboard loads the stats, logging a failure.
func (c *Console) Dashboard(ctx context.Context, be StatsBackend) models.AdminStats {
	s, err := Stats(ctx, be)
	if err != nil {
		c.log.Warn("load admin stats failed", zap.Error(err))
	}
	return s
}

// The Request methods queue a deletion for the admin userID. The API call is made with the
// client handed to Confirm.

func (c *Console) RequestDeleteUser(userID, id int64) Ticket {
	return c.Confirm.Request(ActionDeleteUser, id, userID, "Are you sure you want to delete this user?",
		func(ctx context.Context, client *api.Client) error { return c.Users.remove(ctx, client, id) })
}

func (c *Console) RequestDeleteCategory(userID, id int64) Ticket {
	prompt := "Are you sure you want to delete this category?"
	if name := c.Categories.name(id); name != "" {
		prompt = fmt.Sprintf("Are you sure you want to delete the category %q?", name)
	}
	return c.Confirm.Request(ActionDeleteCategory, id, userID, prompt,
		func(ctx context.Context, client *api.Client) error { return c.Categories.remove(ctx, client, id) })
}

func (c *Console) RequestDeleteReport(userID, id int64) Ticket {
	return c.Confirm.Request(ActionDeleteReport, id, userID, "Are you sure you want to delete this report?",
		func(ctx context.Context, client *api.Client) error { return c.Reports.remove(ctx, client, id) })
}
