package admin

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cppla/webblog/models"
)

type UserBackend interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ToggleBlockUser(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Users is the user management panel.
type Users struct {
	mu    sync.RWMutex
	users []models.User
	log   *zap.Logger
}

func (u *Users) Load(ctx context.Context, be UserBackend) error {
	list, err := be.ListUsers(ctx)
	if err != nil {
		u.log.Warn("load users failed", zap.Error(err))
		return err
	}
	u.mu.Lock()
	u.users = list
	u.mu.Unlock()
	return nil
}

func (u *Users) List() []models.User {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]models.User(nil), u.users...)
}

// ToggleBlock flips the server-side block flag and replaces the row with the server's user.
func (u *Users) ToggleBlock(ctx context.Context, be UserBackend, id int64) (*models.User, error) {
	updated, err := be.ToggleBlockUser(ctx, id)
	if err != nil {
		u.log.Info("toggle block rejected", zap.Int64("user", id), zap.Error(err))
		return nil, err
	}
	u.mu.Lock()
	for i := range u.users {
		if u.users[i].ID == id {
			u.users[i] = *updated
		}
	}
	u.mu.Unlock()
	return updated, nil
}

func (u *Users) remove(ctx context.Context, be UserBackend, id int64) error {
	if err := be.DeleteUser(ctx, id); err != nil {
		u.log.Info("delete user rejected", zap.Int64("user", id), zap.Error(err))
		return err
	}
	u.mu.Lock()
	kept := make([]models.User, 0, len(u.users))
	for _, x := range u.users {
		if x.ID != id {
			kept = append(kept, x)
		}
	}
	u.users = kept
	u.mu.Unlock()
	return nil
}
