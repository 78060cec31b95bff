package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-tracker/internal/dto"
	apierrors "github.com/yukikurage/okr-tracker/internal/errors"
	"github.com/yukikurage/okr-tracker/internal/middleware"
	"github.com/yukikurage/okr-tracker/internal/services"
)

// DashboardHandler serves the landing page and the dashboard
type DashboardHandler struct {
	dashboardService *services.DashboardService
	now              func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Index renders the landing page or sends signed-in users to their dashboard
func (h *DashboardHandler) Index(c *gin.Context) {
	if _, ok := middleware.GetCurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	render(c, http.StatusOK, "pages/index.html", gin.H{"Title": "OKR Tracker"})
}

// Show renders the dashboard
func (h *DashboardHandler) Show(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	dashboard, err := h.dashboardService.Build(userID, h.now())
	if err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	render(c, http.StatusOK, "dashboard/index.html", gin.H{
		"Title":     "Dashboard",
		"Dashboard": dashboard,
	})
}

// GetDashboardJSON returns the dashboard rollup as JSON
func (h *DashboardHandler) GetDashboardJSON(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	dashboard, err := h.dashboardService.Build(userID, h.now())
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTO(dashboard))
}
