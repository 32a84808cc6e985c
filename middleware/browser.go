package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cppla/webblog/state"
)

// ContextBrowserKey stores the *state.Browser of the request in the gin context.
const ContextBrowserKey = "browser"

// BrowserOptions configure the browser id cookie.
type BrowserOptions struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Browser binds every request to a browser id kept in a cookie, issuing a new id when the
// cookie is missing or malformed, and loads that browser's state.
func Browser(reg *state.Registry, opts BrowserOptions) gin.HandlerFunc {
	if opts.CookieName == "" {
		opts.CookieName = "webblog_bid"
	}
	maxAge := int(opts.MaxAge / time.Second)
	return func(ctx *gin.Context) {
		id, err := ctx.Cookie(opts.CookieName)
		if err == nil {
			_, err = uuid.Parse(id)
		}
		if err != nil {
			id = uuid.NewString()
		}
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(opts.CookieName, id, maxAge, "/", "", opts.Secure, true)

		ctx.Set(ContextBrowserKey, reg.Get(ctx.Request.Context(), id))
		ctx.Next()
	}
}

// CurrentBrowser returns the browser state attached by Browser.
func CurrentBrowser(ctx *gin.Context) *state.Browser {
	v, ok := ctx.Get(ContextBrowserKey)
	if !ok {
		return nil
	}
	b, _ := v.(*state.Browser)
	return b
}
