package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/webblog/utils"
)

// AuthRequired rejects requests from browsers without a logged-in session.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		b := CurrentBrowser(ctx)
		if b == nil || !b.Session.IsAuthenticated() {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "Please login to continue")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// AdminRequired rejects requests from browsers whose user is not an admin.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		b := CurrentBrowser(ctx)
		if b == nil || !b.Session.IsAuthenticated() {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "Please login to continue")
			ctx.Abort()
			return
		}
		if !b.Session.IsAdmin() {
			utils.Error(ctx, http.StatusForbidden, 40301, "Access denied")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
