package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-tracker/internal/constants"
	"github.com/yukikurage/okr-tracker/internal/dto"
	apierrors "github.com/yukikurage/okr-tracker/internal/errors"
	"github.com/yukikurage/okr-tracker/internal/logger"
	"github.com/yukikurage/okr-tracker/internal/middleware"
	"github.com/yukikurage/okr-tracker/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService   *services.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies marks the session
// cookie Secure, which requires HTTPS.
func NewAuthHandler(authService *services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

type registerForm struct {
	Username        string `form:"username" binding:"required"`
	Email           string `form:"email" binding:"required"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"password2" binding:"required"`
}

type loginForm struct {
	Username   string `form:"username" binding:"required"`
	Password   string `form:"password" binding:"required"`
	RememberMe bool   `form:"remember_me"`
	Next       string `form:"next"`
}

type changePasswordForm struct {
	CurrentPassword string `form:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" binding:"required"`
	ConfirmPassword string `form:"new_password2" binding:"required"`
}

const missingFieldsMessage = "Please fill in all required fields."

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if _, ok := middleware.GetCurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	render(c, http.StatusOK, "auth/register.html", gin.H{"Title": "Register"})
}

// Register creates a new user and sends them to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegister(c, form, missingFieldsMessage)
		return
	}

	_, err := h.authService.Register(services.RegisterInput{
		Username:        form.Username,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		if isValidationError(err) {
			h.renderRegister(c, form, err.Error())
			return
		}
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	flash(c, "Congratulations, you are now a registered user!")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) renderRegister(c *gin.Context, form registerForm, message string) {
	render(c, http.StatusBadRequest, "auth/register.html", gin.H{
		"Title":    "Register",
		"Error":    message,
		"Username": form.Username,
		"Email":    form.Email,
	})
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if _, ok := middleware.GetCurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	render(c, http.StatusOK, "auth/login.html", gin.H{
		"Title": "Sign In",
		"Next":  c.Query("next"),
	})
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, form, missingFieldsMessage)
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.renderLogin(c, form, err.Error())
			return
		}
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	maxAge := 0
	if form.RememberMe {
		maxAge = constants.RememberMeMaxAge
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(middleware.SessionOptions(h.secureCookies, maxAge))
	session.Set(constants.ContextKeyUserID, user.ID)
	session.Set(constants.SessionKeyRemember, form.RememberMe)
	if err := session.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	logger.Log.Infow("user signed in", "user_id", user.ID, "remember_me", form.RememberMe)

	next := form.Next
	if next == "" {
		next = c.Query("next")
	}
	c.Redirect(http.StatusFound, safeRedirect(next, "/dashboard"))
}

func (h *AuthHandler) renderLogin(c *gin.Context, form loginForm, message string) {
	render(c, http.StatusBadRequest, "auth/login.html", gin.H{
		"Title":    "Sign In",
		"Error":    message,
		"Username": form.Username,
		"Next":     form.Next,
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(middleware.SessionOptions(h.secureCookies, -1))
	if err := session.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ShowChangePassword renders the change password form.
func (h *AuthHandler) ShowChangePassword(c *gin.Context) {
	render(c, http.StatusOK, "auth/password.html", gin.H{"Title": "Change Password"})
}

// ChangePassword replaces the signed-in user's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var form changePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderChangePassword(c, missingFieldsMessage)
		return
	}

	err := h.authService.ChangePassword(userID, services.ChangePasswordInput{
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		if isValidationError(err) {
			h.renderChangePassword(c, err.Error())
			return
		}
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	flash(c, "Your password has been changed.")
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) renderChangePassword(c *gin.Context, message string) {
	render(c, http.StatusBadRequest, "auth/password.html", gin.H{
		"Title": "Change Password",
		"Error": message,
	})
}

// GetCurrentUser returns the authenticated user as JSON.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// safeRedirect returns next when it is a relative path on this host and
// fallback otherwise
func safeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}

	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}

	return next
}
