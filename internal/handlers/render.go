package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/okr-tracker/internal/errors"
	"github.com/yukikurage/okr-tracker/internal/logger"
	"github.com/yukikurage/okr-tracker/internal/middleware"
	"github.com/yukikurage/okr-tracker/internal/services"
)

// Error page templates by status
var errorTemplates = map[int]string{
	http.StatusForbidden:           "errors/403.html",
	http.StatusNotFound:            "errors/404.html",
	http.StatusInternalServerError: "errors/500.html",
}

// render executes an HTML template with the values every page needs
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if user, ok := middleware.GetCurrentUser(c); ok {
		data["CurrentUser"] = user
	}

	session := sessions.Default(c)
	if flashes := session.Flashes(); len(flashes) > 0 {
		data["Flashes"] = flashes
		if err := session.Save(); err != nil {
			logger.Log.Warnw("failed to consume flashes", "error", err)
		}
	}

	c.HTML(status, name, data)
}

// flash queues a message for the next rendered page
func flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		logger.Log.Warnw("failed to save flash", "error", err)
	}
}

// renderError renders the error page for status. Malformed IDs are reported
// as not found.
func renderError(c *gin.Context, status int, err error) {
	if status == http.StatusBadRequest {
		status = http.StatusNotFound
	}

	name, ok := errorTemplates[status]
	if !ok {
		status = http.StatusInternalServerError
		name = errorTemplates[status]
	}

	if status == http.StatusInternalServerError && err != nil {
		logger.Log.Errorw("request failed",
			"request_id", middleware.GetRequestID(c),
			"path", c.Request.URL.Path,
			"error", err,
		)
		_ = c.Error(err)
	}

	render(c, status, name, gin.H{"Title": http.StatusText(status)})
}

// HTMLFailure renders access-check failures as error pages
func HTMLFailure(c *gin.Context, status int, err error) {
	renderError(c, status, err)
}

// APIFailure renders access-check failures as APIError JSON
func APIFailure(c *gin.Context, status int, err error) {
	switch status {
	case http.StatusBadRequest:
		apierrors.BadRequest(c, err.Error())
	case http.StatusNotFound:
		apierrors.NotFound(c, err.Error())
	case http.StatusForbidden:
		apierrors.Forbidden(c, "")
	default:
		logger.Log.Errorw("api request failed", "request_id", middleware.GetRequestID(c), "error", err)
		apierrors.InternalError(c, "")
	}
}

// isValidationError reports whether err should be shown back on the form
func isValidationError(err error) bool {
	for _, target := range []error{
		services.ErrUsernameRequired,
		services.ErrUsernameLength,
		services.ErrUsernameTaken,
		services.ErrEmailInvalid,
		services.ErrEmailTaken,
		services.ErrPasswordTooShort,
		services.ErrPasswordMismatch,
		services.ErrIncorrectPassword,
		services.ErrInvalidCredentials,
		services.ErrTitleRequired,
		services.ErrDatesRequired,
		services.ErrInvalidDateRange,
		services.ErrTargetRequired,
		services.ErrUnitRequired,
		services.ErrValueNotFinite,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// failServiceError renders not-found, forbidden or internal error pages for
// errors returned by the OKR services
func failServiceError(c *gin.Context, err error) {
	renderError(c, middleware.AccessStatus(err), err)
}
