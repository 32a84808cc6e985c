package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serve(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", 2*time.Second, WithUserAgent("webblog-test"))
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		status int
		body   string
		kind   Kind
		reason string
	}{
		{http.StatusUnauthorized, `{"error":"invalid token"}`, KindUnauthorized, "invalid token"},
		{http.StatusForbidden, `{"message":"forbidden"}`, KindUnauthorized, "forbidden"},
		{http.StatusNotFound, `{"error":"Post not found","message":"ignored"}`, KindNotFound, "Post not found"},
		{http.StatusBadRequest, `{"error":"  ","message":"Title is required"}`, KindValidation, "Title is required"},
		{http.StatusMethodNotAllowed, `{"error":"Request method 'DELETE' is not supported"}`, KindValidation, "Request method 'DELETE' is not supported"},
		{http.StatusInternalServerError, `<html>oops</html>`, KindServer, ""},
		{http.StatusBadGateway, ``, KindServer, ""},
	}
	for _, tc := range cases {
		c := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})
		_, err := c.GetPost(context.Background(), 7)
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("%d: error %v is not *Error", tc.status, err)
		}
		if apiErr.Kind != tc.kind || apiErr.Reason != tc.reason || apiErr.Status != tc.status {
			t.Errorf("%d: got kind %v reason %q", tc.status, apiErr.Kind, apiErr.Reason)
		}
		if apiErr.Path != "/posts/7" || apiErr.Method != http.MethodGet {
			t.Errorf("%d: got %s %s", tc.status, apiErr.Method, apiErr.Path)
		}
	}
}

func TestUserMessage(t *testing.T) {
	withReason := &Error{Kind: KindValidation, Status: 400, Reason: "Email already exists"}
	if got := UserMessage(withReason, "Registration failed"); got != "Email already exists" {
		t.Fatalf("got %q", got)
	}
	if got := UserMessage(&Error{Kind: KindServer, Status: 500}, "Registration failed"); got != "Registration failed" {
		t.Fatalf("got %q", got)
	}
	if got := UserMessage(errors.New("boom"), "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
	if KindOf(errors.New("boom")) != 0 || !IsUnauthorized(&Error{Kind: KindUnauthorized}) || !IsNotFound(&Error{Kind: KindNotFound}) {
		t.Fatal("kind helpers disagree")
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := New(url, time.Second).ListPosts(context.Background())
	if KindOf(err) != KindTransport {
		t.Fatalf("kind = %v, err %v", KindOf(err), err)
	}
}

func TestBearerToken(t *testing.T) {
	var auth, ua string
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		auth, ua = r.Header.Get("Authorization"), r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"liked":true,"likeCount":3}`))
	})

	if _, err := c.ListPosts(context.Background()); err == nil {
		t.Fatal("list decoded a like body")
	}
	if auth != "" || c.HasToken() {
		t.Fatalf("anonymous client sent %q", auth)
	}

	authed := c.WithToken("abc")
	st, err := authed.ToggleLike(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer abc" || ua != "webblog-test" {
		t.Fatalf("auth %q ua %q", auth, ua)
	}
	if !st.Liked || st.Count != 3 {
		t.Fatalf("state = %+v", st)
	}
	if c.HasToken() || !authed.HasToken() {
		t.Fatal("WithToken mutated the base client")
	}
	if authed.WithToken("").HasToken() {
		t.Fatal("empty token kept credentials")
	}
}

func TestEmptyListsAreNotNil(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})
	posts, err := c.ListPosts(context.Background())
	if err != nil || posts == nil || len(posts) != 0 {
		t.Fatalf("posts = %v, err %v", posts, err)
	}
	cats, err := c.ListCategories(context.Background())
	if err != nil || cats == nil {
		t.Fatalf("categories = %v, err %v", cats, err)
	}
}

func TestUserQuery(t *testing.T) {
	var got string
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path + "?" + r.URL.RawQuery
		_, _ = w.Write([]byte(`{"isSaved":true}`))
	})
	saved, err := c.IsSaved(context.Background(), 4, 9)
	if err != nil || !saved {
		t.Fatalf("saved %v err %v", saved, err)
	}
	if got != "/api/saved-posts/4/is-saved?userId=9" {
		t.Fatalf("request = %q", got)
	}
}
