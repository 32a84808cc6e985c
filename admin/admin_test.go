package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/fakeapi"
	"github.com/cppla/webblog/feed"
	"github.com/cppla/webblog/models"
)

func newBackend(t *testing.T) (*fakeapi.Server, *api.Client, models.User) {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	root := fake.SeedUser("Root", "root@example.com", "pw", models.RoleAdmin)
	client := api.New(srv.URL+"/api", 5*time.Second).WithToken(fake.Token(root.ID))
	return fake, client, root
}

func TestDeleteCategoryUsedByPosts(t *testing.T) {
	fake, client, root := newBackend(t)
	ctx := context.Background()
	tech := fake.SeedCategory("Tech")
	life := fake.SeedCategory("Life")
	for i := 0; i < 3; i++ {
		fake.SeedPost(root.ID, "Post", "body", time.Now(), tech.ID)
	}
	fake.SeedPost(root.ID, "Other", "body", time.Now(), life.ID)

	home := feed.NewPipeline()
	posts, err := client.ListPosts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	home.SetPosts(posts)

	console := NewConsole(nil, nil)
	if err := console.Categories.Load(ctx, client); err != nil {
		t.Fatalf("load: %v", err)
	}
	rows := console.Categories.Rows()
	if len(rows) != 2 || rows[0].ID != tech.ID || rows[0].Posts != 3 || rows[1].Posts != 1 {
		t.Fatalf("rows = %+v", rows)
	}

	ticket := console.RequestDeleteCategory(root.ID, tech.ID)
	if ticket.Prompt != `Are you sure you want to delete the category "Tech"?` {
		t.Fatalf("prompt = %q", ticket.Prompt)
	}
	if fake.CategoryCount() != 2 {
		t.Fatal("category deleted before confirmation")
	}
	if _, err := console.Confirm.Confirm(ctx, ticket.ID, root.ID, client); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	rows = console.Categories.Rows()
	if len(rows) != 1 || rows[0].ID != life.ID {
		t.Fatalf("rows after delete = %+v", rows)
	}
	// the home list is not re-fetched, so its posts still name the deleted category
	stale := 0
	for _, p := range home.View().Items {
		if p.HasCategory(tech.ID) {
			stale++
		}
	}
	if stale != 3 {
		t.Fatalf("stale references = %d, want 3", stale)
	}
}

func TestCategoryCreateRenameReload(t *testing.T) {
	fake, client, _ := newBackend(t)
	ctx := context.Background()
	console := NewConsole(nil, nil)

	if err := console.Categories.Create(ctx, client, "  "); !errors.Is(err, ErrEmptyCategoryName) {
		t.Fatalf("blank name err = %v", err)
	}
	if err := console.Categories.Create(ctx, client, "News"); err != nil {
		t.Fatalf("create: %v", err)
	}
	rows := console.Categories.Rows()
	if len(rows) != 1 || rows[0].Name != "News" {
		t.Fatalf("rows = %+v", rows)
	}
	if err := console.Categories.Rename(ctx, client, rows[0].ID, "Updates"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if rows := console.Categories.Rows(); rows[0].Name != "Updates" {
		t.Fatalf("rows = %+v", rows)
	}
	if got := fake.Hits(http.MethodGet, "/categories"); got != 2 {
		t.Fatalf("category list fetches = %d, want 2", got)
	}
}

func TestCategoryUsageFailureKeepsTally(t *testing.T) {
	fake, client, root := newBackend(t)
	ctx := context.Background()
	c := fake.SeedCategory("Tech")
	fake.SeedPost(root.ID, "Post", "body", time.Now(), c.ID)
	console := NewConsole(nil, nil)
	if err := console.Categories.Load(ctx, client); err != nil {
		t.Fatal(err)
	}
	fake.Fail(http.MethodGet, "/posts", http.StatusInternalServerError, "", 1)
	if err := console.Categories.Load(ctx, client); err != nil {
		t.Fatalf("load with failing usage: %v", err)
	}
	if rows := console.Categories.Rows(); rows[0].Posts != 1 {
		t.Fatalf("usage = %d, want previous tally", rows[0].Posts)
	}
}

func TestUsage(t *testing.T) {
	posts := []models.Post{
		{Categories: []models.Category{{ID: 1}, {ID: 2}}},
		{Categories: []models.Category{{ID: 1}}},
		{},
	}
	u := Usage(posts)
	if u[1] != 2 || u[2] != 1 || len(u) != 2 {
		t.Fatalf("usage = %v", u)
	}
}

func TestUsersToggleAndDelete(t *testing.T) {
	fake, client, root := newBackend(t)
	ctx := context.Background()
	bob := fake.SeedUser("Bob", "bob@example.com", "pw", models.RoleUser)
	console := NewConsole(nil, nil)
	if err := console.Users.Load(ctx, client); err != nil {
		t.Fatal(err)
	}

	u, err := console.Users.ToggleBlock(ctx, client, bob.ID)
	if err != nil || !u.IsBlocked {
		t.Fatalf("toggle: %+v %v", u, err)
	}
	for _, row := range console.Users.List() {
		if row.ID == bob.ID && !row.IsBlocked {
			t.Fatal("row not replaced with the server's user")
		}
	}
	if _, err := console.Users.ToggleBlock(ctx, client, root.ID); err == nil {
		t.Fatal("blocking an admin succeeded")
	}

	ticket := console.RequestDeleteUser(root.ID, bob.ID)
	if _, err := console.Confirm.Confirm(ctx, ticket.ID, root.ID, client); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	for _, row := range console.Users.List() {
		if row.ID == bob.ID {
			t.Fatal("deleted user still listed")
		}
	}
}

func TestReportDeleteBestEffort(t *testing.T) {
	fake, client, root := newBackend(t)
	ctx := context.Background()
	p := fake.SeedPost(root.ID, "Post", "body", time.Now())
	rep := fake.SeedReport(root.ID, &p.ID, "spam", "SOMETHING_ELSE")
	fake.ReportDeleteUnsupported = true

	console := NewConsole(nil, nil)
	if err := console.Reports.Load(ctx, client); err != nil {
		t.Fatal(err)
	}
	rows := console.Reports.Rows()
	if len(rows) != 1 || rows[0].Status != models.ReportPending || rows[0].StatusLabel != "Pending" {
		t.Fatalf("rows = %+v", rows)
	}

	ticket := console.RequestDeleteReport(root.ID, rep.ID)
	_, err := console.Confirm.Confirm(ctx, ticket.ID, root.ID, client)
	if err == nil {
		t.Fatal("delete succeeded on a backend that refuses it")
	}
	if api.KindOf(err) != api.KindValidation {
		t.Fatalf("kind = %v", api.KindOf(err))
	}
	if len(console.Reports.Rows()) != 1 {
		t.Fatal("report list changed after failed delete")
	}

	updated, err := console.Reports.SetStatus(ctx, client, rep.ID, models.ReportResolved)
	if err != nil || updated.Status != models.ReportResolved {
		t.Fatalf("set status: %+v %v", updated, err)
	}
	if rows := console.Reports.Rows(); rows[0].StatusLabel != "Resolved" {
		t.Fatalf("label = %q", rows[0].StatusLabel)
	}
}

func TestStatsZeroOnFailure(t *testing.T) {
	fake, client, _ := newBackend(t)
	console := NewConsole(nil, nil)
	if s := console.Dashboard(context.Background(), client); s.TotalUsers != 1 {
		t.Fatalf("stats = %+v", s)
	}
	fake.Fail(http.MethodGet, "/admin/stats", http.StatusInternalServerError, "", 1)
	if s := console.Dashboard(context.Background(), client); s != (models.AdminStats{}) {
		t.Fatalf("stats on failure = %+v", s)
	}
}

func TestConfirmationsLifecycle(t *testing.T) {
	c := NewConfirmations(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()
	runs := 0
	run := func(context.Context, *api.Client) error { runs++; return nil }

	cancelled := c.Request("delete_thing", 1, 7, "sure?", run)
	if !c.Cancel(cancelled.ID) || c.Cancel(cancelled.ID) {
		t.Fatal("cancel should report the ticket exactly once")
	}
	if _, err := c.Confirm(ctx, cancelled.ID, 7, nil); !errors.Is(err, ErrUnknownTicket) {
		t.Fatalf("confirm after cancel err = %v", err)
	}

	ok := c.Request("delete_thing", 2, 7, "sure?", run)
	if _, err := c.Confirm(ctx, ok.ID, 7, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := c.Confirm(ctx, ok.ID, 7, nil); !errors.Is(err, ErrUnknownTicket) {
		t.Fatalf("second confirm err = %v", err)
	}

	expired := c.Request("delete_thing", 3, 7, "sure?", run)
	now = now.Add(2 * time.Minute)
	if _, err := c.Confirm(ctx, expired.ID, 7, nil); !errors.Is(err, ErrUnknownTicket) {
		t.Fatalf("expired confirm err = %v", err)
	}
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}
	if c.Pending() != 0 {
		t.Fatalf("pending = %d", c.Pending())
	}
}

func TestConfirmPropagatesFailure(t *testing.T) {
	c := NewConfirmations(0)
	boom := errors.New("boom")
	tk := c.Request("x", 1, 7, "sure?", func(context.Context, *api.Client) error { return boom })
	got, err := c.Confirm(context.Background(), tk.ID, 7, nil)
	if !errors.Is(err, boom) || got.Action != "x" {
		t.Fatalf("confirm = %+v %v", got, err)
	}
}

func TestConfirmRefusesOtherUsers(t *testing.T) {
	c := NewConfirmations(0)
	ran := false
	tk := c.Request("delete_post", 1, 7, "sure?", func(context.Context, *api.Client) error { ran = true; return nil })
	if _, err := c.Confirm(context.Background(), tk.ID, 8, nil); !errors.Is(err, ErrForeignTicket) {
		t.Fatalf("confirm by another user err = %v", err)
	}
	if _, err := c.Confirm(context.Background(), tk.ID, 7, nil); !errors.Is(err, ErrUnknownTicket) {
		t.Fatalf("refused ticket stayed usable: %v", err)
	}
	if ran {
		t.Fatal("action ran for another user")
	}
}

func TestClearDropsPending(t *testing.T) {
	c := NewConfirmations(0)
	noop := func(context.Context, *api.Client) error { return nil }
	a := c.Request("delete_post", 1, 7, "sure?", noop)
	c.Request("delete_post", 2, 7, "sure?", noop)
	if n := c.Clear(); n != 2 || c.Pending() != 0 {
		t.Fatalf("cleared %d, pending %d", n, c.Pending())
	}
	if _, err := c.Confirm(context.Background(), a.ID, 7, nil); !errors.Is(err, ErrUnknownTicket) {
		t.Fatalf("confirm after clear err = %v", err)
	}
}
