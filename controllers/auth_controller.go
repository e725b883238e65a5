package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GenVas/yatube/forms"
	"github.com/GenVas/yatube/middleware"
	"github.com/GenVas/yatube/models"
	"github.com/GenVas/yatube/storage"
	"github.com/GenVas/yatube/utils"
)

const sessionDuration = 7 * 24 * time.Hour

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)

// AuthController handles signup, login and logout pages.
type AuthController struct {
	store storage.Storage
}

// NewAuthController creates an AuthController over the given storage.
func NewAuthController(store storage.Storage) *AuthController {
	return &AuthController{store: store}
}

// SignupPage renders the registration form.
func (a *AuthController) SignupPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "signup.html", gin.H{})
}

// Signup registers a local account with a bcrypt-hashed password.
func (a *AuthController) Signup(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.PostForm("username"))
	password := ctx.PostForm("password")
	confirm := ctx.PostForm("confirm")

	errs := forms.FieldErrors{}
	if !usernamePattern.MatchString(username) {
		errs.Add("username", "Enter a username of 3-64 letters, digits or _.-")
	} else if _, err := a.store.UserByUsername(ctx.Request.Context(), username); err == nil {
		errs.Add("username", "This username is already taken.")
	}
	if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters.")
	} else if password != confirm {
		errs.Add("confirm", "Passwords do not match.")
	}
	if len(errs) > 0 {
		ctx.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Errors":   errs,
			"Username": username,
		})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	user := models.User{Username: username, PasswordHash: hash}
	if err := a.store.CreateUser(ctx.Request.Context(), &user); err != nil {
		// A concurrent signup can slip past the lookup above and hit the
		// unique index; surface it as the same field error.
		if errors.Is(err, storage.ErrConflict) {
			errs.Add("username", "This username is already taken.")
			ctx.HTML(http.StatusBadRequest, "signup.html", gin.H{
				"Errors":   errs,
				"Username": username,
			})
			return
		}
		renderServerError(ctx, err)
		return
	}

	if utils.Sugar != nil {
		utils.Sugar.Infof("user registered username=%s", username)
	}
	ctx.Redirect(http.StatusFound, middleware.LoginURL)
}

// LoginPage renders the login form, carrying the return path through next.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{"Next": ctx.Query("next")})
}

// Login verifies credentials and sets the session cookie, then returns the
// user to the page that sent them here.
func (a *AuthController) Login(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.PostForm("username"))
	password := ctx.PostForm("password")
	next := ctx.PostForm("next")

	user, err := a.store.UserByUsername(ctx.Request.Context(), username)
	if err != nil || !utils.CheckPassword(user.PasswordHash, password) {
		ctx.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error":    "Invalid username or password.",
			"Username": username,
			"Next":     next,
		})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, sessionDuration)
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	ctx.SetCookie(middleware.AuthCookieName, token, int(sessionDuration.Seconds()), "/", "", false, true)

	ctx.Redirect(http.StatusFound, safeNext(next))
}

// Logout revokes the session token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(middleware.AuthCookieName); err == nil && token != "" {
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}
	ctx.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	ctx.Redirect(http.StatusFound, "/")
}

// safeNext keeps redirects on-site: only rooted relative paths pass through.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
