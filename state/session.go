package state

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/utils"
)

var (
	ErrCredentialsRequired  = errors.New("email and password are required")
	ErrRegistrationRequired = errors.New("name, email and password are required")
	ErrNoToken              = errors.New("login response carried no token")
)

// authRecord is what KeyAuth holds: the token and the identity it was issued for.
type authRecord struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Session is the authentication context of one browser: at most one identity at a time.
type Session struct {
	mu        sync.RWMutex
	browserID string
	store     LocalStore
	base      *api.Client
	log       *zap.Logger
	now       func() time.Time

	token    string
	user     *models.User
	restored bool
}

// NewSession creates an anonymous session. base must not carry a token.
func NewSession(browserID string, store LocalStore, base *api.Client, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		browserID: browserID,
		store:     store,
		base:      base,
		log:       log.With(zap.String("browser", browserID)),
		now:       time.Now,
	}
}

// Restore reloads a persisted auth record once per session. A record whose token has
// already expired is discarded.
func (s *Session) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		return
	}
	s.restored = true

	raw, err := s.store.Get(ctx, s.browserID, KeyAuth)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("read auth record failed", zap.Error(err))
		}
		return
	}
	var rec authRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Token == "" {
		s.log.Warn("discarding unreadable auth record")
		s.dropRecord(ctx)
		return
	}
	if utils.TokenExpired(rec.Token, s.now()) {
		s.log.Info("discarding expired token", zap.Int64("user", rec.User.ID))
		s.dropRecord(ctx)
		return
	}
	u := rec.User
	s.token, s.user = rec.Token, &u
}

func (s *Session) dropRecord(ctx context.Context) {
	if err := s.store.Delete(ctx, s.browserID, KeyAuth); err != nil {
		s.log.Warn("remove auth record failed", zap.Error(err))
	}
}

// Login exchanges credentials for a token. On failure the session is left untouched and
// the server's error is returned.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	resp, err := s.base.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		s.log.Info("login failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if resp.Token == "" {
		s.log.Warn("login answered without a token", zap.String("email", email))
		return nil, ErrNoToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := resp.User
	s.token, s.user, s.restored = resp.Token, &u, true

	b, _ := json.Marshal(authRecord{Token: resp.Token, User: resp.User})
	if err := s.store.Set(ctx, s.browserID, KeyAuth, string(b)); err != nil {
		// the in-memory session still works for this process
		s.log.Warn("persist auth record failed", zap.Error(err))
	}
	s.log.Info("login", zap.Int64("user", u.ID), zap.String("role", string(u.Role)))
	cp := u
	return &cp, nil
}

// Logout clears the identity and the persisted token. Calling it twice is harmless.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		s.log.Info("logout", zap.Int64("user", s.user.ID))
	}
	s.token, s.user, s.restored = "", nil, true
	s.dropRecord(ctx)
}

// Register creates an account without logging in.
func (s *Session) Register(ctx context.Context, name, email, password string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return ErrRegistrationRequired
	}
	if err := s.base.Register(ctx, models.Registration{Name: name, Email: email, Password: password}); err != nil {
		s.log.Info("register failed", zap.String("email", email), zap.Error(err))
		return err
	}
	return nil
}

// User returns a copy of the current identity, or nil when anonymous.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Client returns an API client that carries the session's bearer token, if any.
func (s *Session) Client() *api.Client {
	return s.base.WithToken(s.Token())
}
