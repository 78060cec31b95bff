package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-tracker/internal/constants"
	apierrors "github.com/yukikurage/okr-tracker/internal/errors"
	"github.com/yukikurage/okr-tracker/internal/logger"
	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/services"
)

// RequireAuth redirects anonymous visitors to the login page, keeping the
// requested path in the next parameter
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// RequireAPIAuth checks if the user is authenticated via session and answers
// with a JSON 401 otherwise
func RequireAPIAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// LoadCurrentUser stores the signed-in user in the context so that templates
// can show it. Sessions pointing at a user that no longer exists are cleared.
func LoadCurrentUser(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionUserID(c)
		if !ok {
			c.Next()
			return
		}

		user, err := authService.GetUser(userID)
		switch {
		case err == nil:
			c.Set(constants.ContextKeyUser, user)
		case errors.Is(err, services.ErrUserNotFound):
			session := sessions.Default(c)
			session.Clear()
			if err := session.Save(); err != nil {
				logger.Log.Warnw("failed to clear stale session", "error", err)
			}
		default:
			logger.Log.Errorw("failed to load current user", "user_id", userID, "error", err)
		}

		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

// GetCurrentUser retrieves the user loaded by LoadCurrentUser
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func sessionUserID(c *gin.Context) (uint64, bool) {
	session := sessions.Default(c)
	return toUserID(session.Get(constants.ContextKeyUserID))
}

func toUserID(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
