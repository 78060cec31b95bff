package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-tracker/internal/dto"
	apierrors "github.com/yukikurage/okr-tracker/internal/errors"
	"github.com/yukikurage/okr-tracker/internal/middleware"
	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/services"
	"github.com/yukikurage/okr-tracker/internal/utils"
	"github.com/yukikurage/okr-tracker/internal/view"
)

// ObjectiveHandler handles objective pages and the objective API
type ObjectiveHandler struct {
	objectiveService *services.ObjectiveService
}

// NewObjectiveHandler creates a new ObjectiveHandler
func NewObjectiveHandler(objectiveService *services.ObjectiveService) *ObjectiveHandler {
	return &ObjectiveHandler{
		objectiveService: objectiveService,
	}
}

type objectiveForm struct {
	Title       string    `form:"title" binding:"required"`
	Description string    `form:"description"`
	StartDate   time.Time `form:"start_date" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	EndDate     time.Time `form:"end_date" time_format:"2006-01-02" time_utc:"1" binding:"required"`
}

func (f objectiveForm) input() services.ObjectiveInput {
	return services.ObjectiveInput{
		Title:       f.Title,
		Description: f.Description,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
	}
}

// objectiveValues fills the form fields from a stored objective
func objectiveValues(objective *models.Objective) gin.H {
	return gin.H{
		"title":       objective.Title,
		"description": objective.Description,
		"start_date":  view.FormatDate(objective.StartDate),
		"end_date":    view.FormatDate(objective.EndDate),
	}
}

// postedValues echoes the submitted form fields back to the template
func postedValues(c *gin.Context, fields ...string) gin.H {
	values := gin.H{}
	for _, field := range fields {
		values[field] = c.PostForm(field)
	}
	return values
}

var objectiveFields = []string{"title", "description", "start_date", "end_date"}

// List renders the user's objectives with their progress
func (h *ObjectiveHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	params := utils.GetPaginationParams(c)

	summaries, total, err := h.objectiveService.List(userID, params)
	if err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	render(c, http.StatusOK, "objectives/list.html", gin.H{
		"Title":      "Objectives",
		"Objectives": summaries,
		"Page":       utils.NewPage(params, len(summaries), total),
	})
}

// ShowNew renders the empty objective form
func (h *ObjectiveHandler) ShowNew(c *gin.Context) {
	render(c, http.StatusOK, "objectives/new.html", gin.H{
		"Title":  "New Objective",
		"Values": gin.H{},
	})
}

// Create stores a new objective owned by the current user
func (h *ObjectiveHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var form objectiveForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, "objectives/new.html", "New Objective", nil, missingFieldsMessage)
		return
	}

	objective, err := h.objectiveService.Create(userID, form.input())
	if err != nil {
		if isValidationError(err) {
			h.renderForm(c, "objectives/new.html", "New Objective", nil, err.Error())
			return
		}
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	flash(c, "Objective created successfully.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/objectives/%d", objective.ID))
}

// Show renders an objective with its key results
func (h *ObjectiveHandler) Show(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	objective, _ := middleware.GetObjective(c)

	detail, err := h.objectiveService.Detail(userID, objective.ID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "objectives/view.html", gin.H{
		"Title":  detail.Objective.Title,
		"Detail": detail,
	})
}

// ShowEdit renders the edit form prefilled with the objective
func (h *ObjectiveHandler) ShowEdit(c *gin.Context) {
	objective, _ := middleware.GetObjective(c)

	render(c, http.StatusOK, "objectives/edit.html", gin.H{
		"Title":     "Edit Objective",
		"Objective": objective,
		"Values":    objectiveValues(objective),
	})
}

// Update saves the edited objective
func (h *ObjectiveHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	objective, _ := middleware.GetObjective(c)

	var form objectiveForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, "objectives/edit.html", "Edit Objective", objective, missingFieldsMessage)
		return
	}

	updated, err := h.objectiveService.Update(userID, objective.ID, form.input())
	if err != nil {
		if isValidationError(err) {
			h.renderForm(c, "objectives/edit.html", "Edit Objective", objective, err.Error())
			return
		}
		failServiceError(c, err)
		return
	}

	flash(c, "Objective updated successfully.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/objectives/%d", updated.ID))
}

// Delete removes the objective with all of its key results and updates
func (h *ObjectiveHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	objective, _ := middleware.GetObjective(c)

	if err := h.objectiveService.Delete(userID, objective.ID); err != nil {
		failServiceError(c, err)
		return
	}

	flash(c, "Objective deleted successfully.")
	c.Redirect(http.StatusFound, "/objectives")
}

func (h *ObjectiveHandler) renderForm(c *gin.Context, name, title string, objective *models.Objective, message string) {
	render(c, http.StatusBadRequest, name, gin.H{
		"Title":     title,
		"Objective": objective,
		"Values":    postedValues(c, objectiveFields...),
		"Error":     message,
	})
}

// GetObjectiveJSON returns an objective with its key results as JSON
func (h *ObjectiveHandler) GetObjectiveJSON(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	objective, _ := middleware.GetObjective(c)

	detail, err := h.objectiveService.Detail(userID, objective.ID)
	if err != nil {
		APIFailure(c, middleware.AccessStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, dto.ToObjectiveDetailDTO(*detail))
}

// SetComplete toggles the completion flag from the objective page script
func (h *ObjectiveHandler) SetComplete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	objective, _ := middleware.GetObjective(c)

	var req dto.CompleteObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "is_complete is required")
		return
	}

	updated, err := h.objectiveService.SetComplete(userID, objective.ID, *req.IsComplete)
	if err != nil {
		APIFailure(c, middleware.AccessStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, dto.CompleteObjectiveResponse{
		Success:    true,
		IsComplete: updated.IsComplete,
	})
}
