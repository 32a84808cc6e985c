// Package admin holds the state of the admin console panels: users, categories, reports and
// the dashboard. Destructive actions go through a two-step confirmation.
package admin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cppla/webblog/api"
)

// DefaultTicketTTL bounds how long a confirmation dialog stays answerable.
const DefaultTicketTTL = 5 * time.Minute

var (
	ErrUnknownTicket = errors.New("confirmation expired or unknown")
	ErrForeignTicket = errors.New("confirmation requested by another user")
)

// Action is a confirmed destructive call, made with the API client of the confirming session.
type Action func(ctx context.Context, client *api.Client) error

// Ticket identifies a pending destructive action.
type Ticket struct {
	ID        string    `json:"ticket"`
	Action    string    `json:"action"`
	TargetID  int64     `json:"targetId"`
	Prompt    string    `json:"prompt"`
	ExpiresAt time.Time `json:"expiresAt"`

	// RequestedBy is the user that opened the dialog; only that user may confirm.
	RequestedBy int64 `json:"-"`
}

type pending struct {
	ticket Ticket
	run    Action
}

// Confirmations keeps actions that were requested but not yet confirmed.
type Confirmations struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[string]pending
}

func NewConfirmations(ttl time.Duration) *Confirmations {
	if ttl <= 0 {
		ttl = DefaultTicketTTL
	}
	return &Confirmations{ttl: ttl, now: time.Now, pending: map[string]pending{}}
}

// Request registers run under a new ticket owned by userID. Nothing is executed yet.
func (c *Confirmations) Request(action string, targetID, userID int64, prompt string, run Action) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, p := range c.pending {
		if !now.Before(p.ticket.ExpiresAt) {
			delete(c.pending, id)
		}
	}
	t := Ticket{
		ID:          uuid.NewString(),
		Action:      action,
		TargetID:    targetID,
		Prompt:      prompt,
		ExpiresAt:   now.Add(c.ttl),
		RequestedBy: userID,
	}
	c.pending[t.ID] = pending{ticket: t, run: run}
	return t
}

// Confirm executes the action behind id on behalf of userID with client. A ticket is
// usable once, whatever the outcome.
func (c *Confirmations) Confirm(ctx context.Context, id string, userID int64, client *api.Client) (Ticket, error) {
	c.mu.Lock()
	p, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if !ok || !c.now().Before(p.ticket.ExpiresAt) {
		return Ticket{}, ErrUnknownTicket
	}
	if p.ticket.RequestedBy != userID {
		return p.ticket, ErrForeignTicket
	}
	return p.ticket, p.run(ctx, client)
}

// Cancel discards a pending action and reports whether it existed.
func (c *Confirmations) Cancel(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	delete(c.pending, id)
	return ok
}

// Clear drops every pending action, e.g. when the session changes hands.
func (c *Confirmations) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.pending)
	c.pending = map[string]pending{}
	return n
}

// Pending returns the number of outstanding tickets.
func (c *Confirmations) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
