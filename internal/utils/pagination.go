package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// GetPaginationParams extracts pagination parameters from the request.
// It reports false when the client asked for neither page nor limit, in
// which case the full collection is returned.
func GetPaginationParams(c *gin.Context) (PaginationParams, bool) {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{}, false
	}

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}, true
}

// GetLimit reads an integer "limit" style query parameter, falling back to
// defaultValue when absent or not positive and capping at maxValue.
func GetLimit(c *gin.Context, key string, defaultValue, maxValue int) int {
	limit, err := strconv.Atoi(c.Query(key))
	if err != nil || limit <= 0 {
		return defaultValue
	}
	if limit > maxValue {
		return maxValue
	}
	return limit
}

// GetDays reads a non-negative day count, falling back to defaultValue.
func GetDays(c *gin.Context, key string, defaultValue int) int {
	days, err := strconv.Atoi(c.Query(key))
	if err != nil || days < 0 {
		return defaultValue
	}
	return days
}
