// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PageParams struct {
	Page     int
	PageSize int
}

// GetPageParams reads the page/page_size query parameters with the
// defaults the search UI uses.
func GetPageParams(c *gin.Context) PageParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return PageParams{Page: page, PageSize: pageSize}
}

func ApplyPagination(db *gorm.DB, params PageParams) *gorm.DB {
	offset := (params.Page - 1) * params.PageSize
	return db.Offset(offset).Limit(params.PageSize)
}
