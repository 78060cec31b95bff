package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-tracker/internal/constants"
	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/okr"
	"github.com/yukikurage/okr-tracker/internal/services"
)

// ErrInvalidID is passed to the failure handler when the :id parameter is malformed
var ErrInvalidID = errors.New("invalid id")

// FailureHandler writes the response for a request rejected by an access check
type FailureHandler func(c *gin.Context, status int, err error)

// RequireObjectiveAccess loads the objective named by :id and checks that the
// current user owns it. Missing objectives fail with 404, foreign ones with 403.
func RequireObjectiveAccess(objectives *services.ObjectiveService, onFailure FailureHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			onFailure(c, http.StatusBadRequest, ErrInvalidID)
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		objective, err := objectives.Get(userID, id)
		if err != nil {
			onFailure(c, AccessStatus(err), err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyObjective, objective)
		c.Next()
	}
}

// RequireKeyResultAccess loads the key result named by :id and checks that the
// current user owns its objective
func RequireKeyResultAccess(keyResults *services.KeyResultService, onFailure FailureHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			onFailure(c, http.StatusBadRequest, ErrInvalidID)
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		owned, err := keyResults.Get(userID, id)
		if err != nil {
			onFailure(c, AccessStatus(err), err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyKeyResult, owned)
		c.Next()
	}
}

// AccessStatus maps service errors to HTTP status codes
func AccessStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrObjectiveNotFound),
		errors.Is(err, services.ErrKeyResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, okr.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetObjective retrieves the objective loaded by RequireObjectiveAccess
func GetObjective(c *gin.Context) (*models.Objective, bool) {
	value, exists := c.Get(constants.ContextKeyObjective)
	if !exists {
		return nil, false
	}
	objective, ok := value.(*models.Objective)
	return objective, ok
}

// GetKeyResult retrieves the key result loaded by RequireKeyResultAccess
func GetKeyResult(c *gin.Context) (*services.OwnedKeyResult, bool) {
	value, exists := c.Get(constants.ContextKeyKeyResult)
	if !exists {
		return nil, false
	}
	owned, ok := value.(*services.OwnedKeyResult)
	return owned, ok
}
