package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/replate/pkg/db/pagination"
)

func pageFromQuery(c *gin.Context) pagination.Page {
	return pagination.Parse(c.Query("page"), c.Query("per_page"))
}

// parsePositiveID returns 0 for anything that is not a positive integer.
func parsePositiveID(value string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}
