package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-tracker/internal/constants"
)

// PaginationParams is the page window requested by the client
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// Page describes where a listing sits in the full result set
type Page struct {
	Number  int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

// GetPaginationParams reads ?page= and ?limit=, falling back to the defaults
// for missing or out of range values
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < constants.MinPageSize {
		page = constants.MinPageSize
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// NewPage builds the navigation state for a page holding count of total rows
func NewPage(params PaginationParams, count int, total int64) Page {
	return Page{
		Number:  params.Page,
		Limit:   params.Limit,
		Total:   total,
		HasPrev: params.Page > 1,
		HasNext: int64(params.Offset+count) < total,
	}
}
