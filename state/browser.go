package state

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/cppla/webblog/admin"
	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/feed"
	"github.com/cppla/webblog/interaction"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/threads"
)

// Browser is everything the gateway remembers about one browser between requests.
type Browser struct {
	ID      string
	Session *Session
	Flags   *Flags
	Drafts  *Drafts
	Home    *feed.Pipeline
	Admin   *admin.Console
	// Confirm holds every pending destructive action of this browser.
	Confirm *admin.Confirmations

	log      *zap.Logger
	lastSeen atomic.Int64

	mu      sync.Mutex
	widgets map[int64]*interaction.Widget
	trees   map[int64]*threads.Tree
}

// Widget returns the like/save widget of a post, creating it on first use.
func (b *Browser) Widget(postID int64) *interaction.Widget {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.widgets[postID]
	if !ok {
		w = interaction.New(postID, b.log)
		b.widgets[postID] = w
	}
	return w
}

// Thread returns the comment tree of a post, creating it on first use.
func (b *Browser) Thread(postID int64) *threads.Tree {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.trees[postID]
	if !ok {
		t = threads.New(postID, b.log)
		b.trees[postID] = t
	}
	return t
}

// Forget drops the per-post state of a deleted post.
func (b *Browser) Forget(postID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.widgets, postID)
	delete(b.trees, postID)
}

// PostsTracked returns how many posts have widget or comment state in this browser.
func (b *Browser) PostsTracked() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make(map[int64]struct{}, len(b.widgets)+len(b.trees))
	for id := range b.widgets {
		ids[id] = struct{}{}
	}
	for id := range b.trees {
		ids[id] = struct{}{}
	}
	return len(ids)
}

// Login signs the browser in. Pending confirmations of a previous identity are dropped.
func (b *Browser) Login(ctx context.Context, email, password string) (*models.User, error) {
	prev := b.Session.User()
	u, err := b.Session.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if prev == nil || prev.ID != u.ID {
		if n := b.Confirm.Clear(); n > 0 {
			b.log.Info("dropped pending confirmations", zap.Int("count", n))
		}
	}
	return u, nil
}

// Logout ends the session and drops every pending confirmation.
func (b *Browser) Logout(ctx context.Context) {
	b.Session.Logout(ctx)
	if n := b.Confirm.Clear(); n > 0 {
		b.log.Info("dropped pending confirmations", zap.Int("count", n))
	}
}

func (b *Browser) touch(now time.Time) { b.lastSeen.Store(now.UnixNano()) }

// LastSeen is the time of the browser's latest request.
func (b *Browser) LastSeen() time.Time { return time.Unix(0, b.lastSeen.Load()) }

// Registry maps browser ids to their state. Idle entries are swept; their local storage
// survives in the store.
type Registry struct {
	mu       sync.Mutex
	browsers map[string]*Browser
	store    LocalStore
	base     *api.Client
	idle     time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewRegistry(store LocalStore, base *api.Client, idle time.Duration, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		browsers: map[string]*Browser{},
		store:    store,
		base:     base,
		idle:     idle,
		now:      time.Now,
		log:      log,
	}
}

// Get returns the state of browserID, creating it and restoring its session on first use.
func (r *Registry) Get(ctx context.Context, browserID string) *Browser {
	r.mu.Lock()
	b, ok := r.browsers[browserID]
	if !ok {
		b = r.newBrowser(browserID)
		r.browsers[browserID] = b
	}
	b.touch(r.now())
	r.mu.Unlock()

	b.Session.Restore(ctx)
	return b
}

func (r *Registry) newBrowser(id string) *Browser {
	log := r.log.With(zap.String("browser", id))
	confirm := admin.NewConfirmations(admin.DefaultTicketTTL)
	return &Browser{
		ID:      id,
		Session: NewSession(id, r.store, r.base, r.log),
		Flags:   NewFlags(),
		Drafts:  NewDrafts(id, r.store, r.log),
		Home:    feed.NewPipeline(),
		Admin:   admin.NewConsole(confirm, log),
		Confirm: confirm,
		log:     log,
		widgets: map[int64]*interaction.Widget{},
		trees:   map[int64]*threads.Tree{},
	}
}

// Len returns the number of live browsers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.browsers)
}

// Sweep drops browsers idle for longer than the idle timeout and returns how many went.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, b := range r.browsers {
		if b.LastSeen().Before(cutoff) {
			delete(r.browsers, id)
			n++
		}
	}
	return n
}

// StartSweeper schedules Sweep with a cron spec such as "@every 10m". Stop the returned
// scheduler on shutdown.
func (r *Registry) StartSweeper(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() {
		if n := r.Sweep(); n > 0 {
			r.log.Info("swept idle browsers", zap.Int("count", n), zap.Int("remaining", r.Len()))
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
