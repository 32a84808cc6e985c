package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/fakeapi"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/state"
)

const cookieName = "bid"

func newRegistry(t *testing.T) (*state.Registry, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return state.NewRegistry(state.NewMemoryStore(), api.New(srv.URL+"/api", 2*time.Second), time.Hour, nil), fake
}

func engine(reg *state.Registry, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Browser(reg, BrowserOptions{CookieName: cookieName, MaxAge: time.Hour}))
	handlers := append(extra, func(ctx *gin.Context) {
		ctx.String(http.StatusOK, CurrentBrowser(ctx).ID)
	})
	r.GET("/", handlers...)
	return r
}

func get(r http.Handler, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBrowserCookie(t *testing.T) {
	reg, _ := newRegistry(t)
	r := engine(reg)

	first := get(r, nil)
	cookies := first.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cookieName || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	id := cookies[0].Value
	if first.Body.String() != id {
		t.Fatalf("browser %q, cookie %q", first.Body.String(), id)
	}

	again := get(r, &http.Cookie{Name: cookieName, Value: id})
	if again.Body.String() != id || reg.Len() != 1 {
		t.Fatalf("known cookie got browser %q, %d browsers", again.Body.String(), reg.Len())
	}

	forged := get(r, &http.Cookie{Name: cookieName, Value: "../../etc"})
	if forged.Body.String() == "../../etc" || reg.Len() != 2 {
		t.Fatalf("malformed cookie accepted: %q", forged.Body.String())
	}
}

func TestAuthGuards(t *testing.T) {
	reg, fake := newRegistry(t)
	fake.SeedUser("Ann", "ann@example.com", "pw", models.RoleUser)
	fake.SeedUser("Root", "root@example.com", "pw", models.RoleAdmin)
	authed := engine(reg, AuthRequired())
	admin := engine(reg, AdminRequired())

	login := func(email string) *http.Cookie {
		c := &http.Cookie{Name: cookieName, Value: get(authed, nil).Result().Cookies()[0].Value}
		b := reg.Get(context.Background(), c.Value)
		if _, err := b.Session.Login(context.Background(), email, "pw"); err != nil {
			t.Fatal(err)
		}
		return c
	}

	anon := &http.Cookie{Name: cookieName, Value: get(authed, nil).Result().Cookies()[0].Value}
	user := login("ann@example.com")
	root := login("root@example.com")

	cases := []struct {
		name   string
		r      http.Handler
		cookie *http.Cookie
		status int
	}{
		{"anonymous auth", authed, anon, http.StatusUnauthorized},
		{"user auth", authed, user, http.StatusOK},
		{"anonymous admin", admin, anon, http.StatusUnauthorized},
		{"user admin", admin, user, http.StatusForbidden},
		{"admin admin", admin, root, http.StatusOK},
	}
	for _, tc := range cases {
		if w := get(tc.r, tc.cookie); w.Code != tc.status {
			t.Errorf("%s: status %d, want %d", tc.name, w.Code, tc.status)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg, _ := newRegistry(t)
	rl := NewRateLimiter(2)
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }
	r := gin.New()
	r.Use(rl.Middleware(), Browser(reg, BrowserOptions{CookieName: cookieName, MaxAge: time.Hour}))
	r.GET("/", func(ctx *gin.Context) { ctx.String(http.StatusOK, CurrentBrowser(ctx).ID) })

	if w := get(r, nil); w.Code != http.StatusOK {
		t.Fatalf("first request status %d", w.Code)
	}
	// dropping the cookie does not earn a new bucket
	if w := get(r, nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("cookieless retry status %d", w.Code)
	}
	if w := get(r, &http.Cookie{Name: cookieName, Value: "made-up"}); w.Code != http.StatusTooManyRequests {
		t.Fatalf("fresh cookie status %d", w.Code)
	}
	if n := reg.Len(); n != 1 {
		t.Fatalf("registry holds %d browsers, throttled requests must not create any", n)
	}
	now = now.Add(31 * time.Second)
	if w := get(r, nil); w.Code != http.StatusOK {
		t.Fatalf("after refill status %d", w.Code)
	}
}
