package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/state"
	"github.com/cppla/webblog/utils"
)

// AuthController drives the login, logout and registration screens.
type AuthController struct {
	log *zap.Logger
}

func NewAuthController() *AuthController {
	return &AuthController{log: utils.Named("auth")}
}

// SessionView describes who is using the browser.
type SessionView struct {
	Authenticated bool         `json:"authenticated"`
	IsAdmin       bool         `json:"isAdmin"`
	User          *models.User `json:"user"`
	Blocked       bool         `json:"blocked"`
}

func sessionView(b *state.Browser) SessionView {
	u := b.Session.User()
	v := SessionView{Authenticated: b.Session.IsAuthenticated(), IsAdmin: b.Session.IsAdmin(), User: u}
	if u != nil {
		v.Blocked = b.Flags.IsUserBlocked(u.ID)
	}
	return v
}

// Login exchanges credentials for a session.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	if _, err := b.Login(ctx.Request.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, state.ErrCredentialsRequired) {
			badRequest(ctx, "Email and password are required")
			return
		}
		credentialsFail(ctx, a.log, err, "Login failed. Please check your credentials.")
		return
	}
	utils.Notice(ctx, "Login successful", sessionView(b))
}

// Logout ends the session. It succeeds for anonymous browsers too.
func (a *AuthController) Logout(ctx *gin.Context) {
	b := browserOf(ctx)
	b.Logout(ctx.Request.Context())
	utils.Notice(ctx, "Logged out successfully", sessionView(b))
}

// Register creates an account; the user logs in afterwards.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	b := browserOf(ctx)
	if err := b.Session.Register(ctx.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, state.ErrRegistrationRequired) {
			badRequest(ctx, "Name, email and password are required")
			return
		}
		credentialsFail(ctx, a.log, err, "Registration failed. Please try again.")
		return
	}
	utils.Notice(ctx, "Registration successful. Please login.", gin.H{"next": "/login"})
}

// Me returns the current session.
func (a *AuthController) Me(ctx *gin.Context) {
	utils.Success(ctx, sessionView(browserOf(ctx)))
}
