// internal/handlers/grant.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grantguru/grantguru-backend/internal/services"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

type GrantHandler struct {
	grantService *services.GrantService
}

func NewGrantHandler(grantService *services.GrantService) *GrantHandler {
	return &GrantHandler{
		grantService: grantService,
	}
}

// GET /api/public/grant/:id
func (h *GrantHandler) GetGrant(c *gin.Context) {
	grantID, ok := parseIDParam(c, "id", "Grant")
	if !ok {
		return
	}

	grant, err := h.grantService.GetGrant(grantID)
	if err != nil {
		handleServiceError(c, err, "Grant")
		return
	}

	c.JSON(http.StatusOK, grant)
}

// GET /api/public/search_grants
func (h *GrantHandler) SearchGrants(c *gin.Context) {
	params := services.GrantSearchParams{
		Query:             c.Query("q"),
		ResearchField:     c.Query("field"),
		OpportunityNumber: c.Query("op_num"),
		SortBy:            c.Query("sort_by"),
		PageParams:        utils.GetPageParams(c),
	}

	grants, total, err := h.grantService.SearchGrants(params)
	if err != nil {
		handleServiceError(c, err, "Grant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grants": grants,
		"total":  total,
		"page":   params.Page,
	})
}

// GET /api/public/aggregate-grants
func (h *GrantHandler) AggregateFunding(c *gin.Context) {
	total, err := h.grantService.AggregateFunding()
	if err != nil {
		handleServiceError(c, err, "Grant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

// GET /api/public/fetch_grant_count
func (h *GrantHandler) CountGrants(c *gin.Context) {
	total, err := h.grantService.CountGrants()
	if err != nil {
		handleServiceError(c, err, "Grant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}
