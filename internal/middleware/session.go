package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-tracker/internal/constants"
)

// SessionOptions returns the cookie options for a session lasting maxAge
// seconds. Zero means a browser session and a negative value deletes the cookie.
func SessionOptions(secure bool, maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionLifetime applies the cookie lifetime chosen at login to every later
// save of the session.
func SessionLifetime(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		maxAge := 0
		if remember, _ := session.Get(constants.SessionKeyRemember).(bool); remember {
			maxAge = constants.RememberMeMaxAge
		}
		session.Options(SessionOptions(secure, maxAge))

		c.Next()
	}
}
