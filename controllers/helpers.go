package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/middleware"
	"github.com/cppla/webblog/state"
	"github.com/cppla/webblog/utils"
)

func browserOf(ctx *gin.Context) *state.Browser {
	return middleware.CurrentBrowser(ctx)
}

// idParam parses a positive id path parameter, answering 400 when it is not one.
func idParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid id")
		return 0, false
	}
	return id, true
}

// apiFail reports a failed API call once: the server's reason when it gave one, otherwise
// fallback. A 401 from the API means the token is no longer accepted, so the session ends.
func apiFail(ctx *gin.Context, log *zap.Logger, err error, fallback string) {
	reportFail(ctx, log, err, fallback, true)
}

// credentialsFail reports a failed login or registration. Those calls carry no token, so
// their 401 says nothing about the current session.
func credentialsFail(ctx *gin.Context, log *zap.Logger, err error, fallback string) {
	reportFail(ctx, log, err, fallback, false)
}

func reportFail(ctx *gin.Context, log *zap.Logger, err error, fallback string, endSession bool) {
	msg := api.UserMessage(err, fallback)
	status, code := http.StatusBadGateway, 50201

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindUnauthorized:
			status, code = apiErr.Status, 40102
			if apiErr.Status == http.StatusForbidden {
				code = 40302
			}
			if endSession && apiErr.Status == http.StatusUnauthorized {
				if b := browserOf(ctx); b != nil && b.Session.IsAuthenticated() {
					b.Logout(ctx.Request.Context())
				}
			}
		case api.KindValidation:
			status, code = apiErr.Status, 40002
		case api.KindNotFound:
			status, code = http.StatusNotFound, 40401
		}
	}
	log.Info("api call failed", zap.String("route", ctx.FullPath()), zap.Int("status", status), zap.Error(err))
	utils.Error(ctx, status, code, msg)
}

// badRequest answers a client-side validation failure.
func badRequest(ctx *gin.Context, msg string) {
	utils.Error(ctx, http.StatusBadRequest, 40003, msg)
}

// viewerID is the id of the logged-in user, 0 when anonymous.
func viewerID(b *state.Browser) int64 {
	if u := b.Session.User(); u != nil {
		return u.ID
	}
	return 0
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
