package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-tracker/internal/dto"
	"github.com/yukikurage/okr-tracker/internal/middleware"
	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/services"
)

// KeyResultHandler handles key result pages
type KeyResultHandler struct {
	keyResultService *services.KeyResultService
}

// NewKeyResultHandler creates a new KeyResultHandler
func NewKeyResultHandler(keyResultService *services.KeyResultService) *KeyResultHandler {
	return &KeyResultHandler{
		keyResultService: keyResultService,
	}
}

type keyResultForm struct {
	Title        string  `form:"title" binding:"required"`
	Description  string  `form:"description"`
	TargetValue  float64 `form:"target_value" binding:"required"`
	CurrentValue float64 `form:"current_value"`
	Unit         string  `form:"unit" binding:"required"`
}

func (f keyResultForm) input() services.KeyResultInput {
	return services.KeyResultInput{
		Title:        f.Title,
		Description:  f.Description,
		TargetValue:  f.TargetValue,
		InitialValue: f.CurrentValue,
		Unit:         f.Unit,
	}
}

type progressForm struct {
	Value   *float64 `form:"value" binding:"required"`
	Comment string   `form:"comment"`
}

var (
	keyResultFields = []string{"title", "description", "target_value", "current_value", "unit"}
	progressFields  = []string{"value", "comment"}
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func keyResultValues(kr *models.KeyResult) gin.H {
	return gin.H{
		"title":        kr.Title,
		"description":  kr.Description,
		"target_value": formatNumber(kr.TargetValue),
		"unit":         kr.Unit,
	}
}

// ShowNew renders the key result form for an objective
func (h *KeyResultHandler) ShowNew(c *gin.Context) {
	objective, _ := middleware.GetObjective(c)

	render(c, http.StatusOK, "keyresults/new.html", gin.H{
		"Title":     "New Key Result",
		"Objective": objective,
		"Values":    gin.H{"current_value": "0"},
	})
}

// Create adds a key result to the objective
func (h *KeyResultHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	objective, _ := middleware.GetObjective(c)

	renderInvalid := func(message string) {
		render(c, http.StatusBadRequest, "keyresults/new.html", gin.H{
			"Title":     "New Key Result",
			"Objective": objective,
			"Values":    postedValues(c, keyResultFields...),
			"Error":     message,
		})
	}

	var form keyResultForm
	if err := c.ShouldBind(&form); err != nil {
		renderInvalid(missingFieldsMessage)
		return
	}

	if _, err := h.keyResultService.Create(userID, objective.ID, form.input()); err != nil {
		if isValidationError(err) {
			renderInvalid(err.Error())
			return
		}
		failServiceError(c, err)
		return
	}

	flash(c, "Key Result added successfully.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/objectives/%d", objective.ID))
}

// ShowEdit renders the edit form prefilled with the key result
func (h *KeyResultHandler) ShowEdit(c *gin.Context) {
	owned, _ := middleware.GetKeyResult(c)

	render(c, http.StatusOK, "keyresults/edit.html", gin.H{
		"Title":     "Edit Key Result",
		"KeyResult": owned.KeyResult,
		"Objective": owned.Objective,
		"Values":    keyResultValues(owned.KeyResult),
	})
}

// Update saves the edited key result. Progress is only changed through updates.
func (h *KeyResultHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	owned, _ := middleware.GetKeyResult(c)

	renderInvalid := func(message string) {
		render(c, http.StatusBadRequest, "keyresults/edit.html", gin.H{
			"Title":     "Edit Key Result",
			"KeyResult": owned.KeyResult,
			"Objective": owned.Objective,
			"Values":    postedValues(c, keyResultFields...),
			"Error":     message,
		})
	}

	var form keyResultForm
	if err := c.ShouldBind(&form); err != nil {
		renderInvalid(missingFieldsMessage)
		return
	}

	updated, err := h.keyResultService.Update(userID, owned.KeyResult.ID, form.input())
	if err != nil {
		if isValidationError(err) {
			renderInvalid(err.Error())
			return
		}
		failServiceError(c, err)
		return
	}

	flash(c, "Key Result updated successfully.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/objectives/%d", updated.Objective.ID))
}

// Delete removes the key result and its history
func (h *KeyResultHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	owned, _ := middleware.GetKeyResult(c)

	objective, err := h.keyResultService.Delete(userID, owned.KeyResult.ID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	flash(c, "Key Result deleted successfully.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/objectives/%d", objective.ID))
}

// ShowProgress renders the progress form with the update history
func (h *KeyResultHandler) ShowProgress(c *gin.Context) {
	owned, _ := middleware.GetKeyResult(c)
	h.renderProgress(c, http.StatusOK, owned, gin.H{
		"value": formatNumber(owned.KeyResult.CurrentValue),
	}, "")
}

// RecordProgress logs a new value for the key result
func (h *KeyResultHandler) RecordProgress(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	owned, _ := middleware.GetKeyResult(c)

	var form progressForm
	if err := c.ShouldBind(&form); err != nil || strings.TrimSpace(c.PostForm("value")) == "" {
		h.renderProgress(c, http.StatusBadRequest, owned, postedValues(c, progressFields...), "Please enter a numeric value.")
		return
	}

	updated, err := h.keyResultService.RecordUpdate(userID, owned.KeyResult.ID, services.ProgressInput{
		Value:   *form.Value,
		Comment: form.Comment,
	})
	if err != nil {
		if isValidationError(err) {
			h.renderProgress(c, http.StatusBadRequest, owned, postedValues(c, progressFields...), err.Error())
			return
		}
		failServiceError(c, err)
		return
	}

	flash(c, "Key Result progress updated.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/objectives/%d", updated.Objective.ID))
}

func (h *KeyResultHandler) renderProgress(c *gin.Context, status int, owned *services.OwnedKeyResult, values gin.H, message string) {
	userID, _ := middleware.GetUserID(c)

	history, err := h.keyResultService.History(userID, owned.KeyResult.ID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	data := gin.H{
		"Title":     "Update Progress",
		"KeyResult": owned.KeyResult,
		"Objective": owned.Objective,
		"Progress":  owned.Progress(),
		"History":   history,
		"Values":    values,
	}
	if message != "" {
		data["Error"] = message
	}

	render(c, status, "keyresults/update.html", data)
}

// GetHistoryJSON returns the key result's updates as JSON, oldest first
func (h *KeyResultHandler) GetHistoryJSON(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	owned, _ := middleware.GetKeyResult(c)

	history, err := h.keyResultService.History(userID, owned.KeyResult.ID)
	if err != nil {
		APIFailure(c, middleware.AccessStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key_result": dto.ToKeyResultDTO(*owned.KeyResult, owned.Progress()),
		"updates":    dto.ToKeyResultUpdateDTOs(history),
	})
}
