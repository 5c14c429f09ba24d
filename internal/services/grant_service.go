// internal/services/grant_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

// GrantService is the read-only facade over the scraped grants table.
type GrantService struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

// GrantDetail is a grant with its scraped HTML sanitized and the contact
// blob parsed into a typed struct. Raw shapes never leave this service.
type GrantDetail struct {
	models.Grant
	PointOfContact models.PointOfContact `json:"point_of_contact"`
}

type GrantSearchParams struct {
	Query             string
	ResearchField     string
	OpportunityNumber string
	SortBy            string
	utils.PageParams
}

func NewGrantService(db *gorm.DB) *GrantService {
	return &GrantService{
		db:        db,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *GrantService) GetGrant(grantID uuid.UUID) (*GrantDetail, error) {
	var grant models.Grant
	if err := s.db.First(&grant, "id = ?", grantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.toDetail(&grant), nil
}

func (s *GrantService) toDetail(grant *models.Grant) *GrantDetail {
	detail := &GrantDetail{Grant: *grant}
	detail.Description = s.sanitizer.Sanitize(grant.Description)
	detail.Eligibility = s.sanitizer.Sanitize(grant.Eligibility)

	poc, err := models.ParsePointOfContact(grant.PointOfContact)
	if err != nil {
		// Bad upstream data should degrade to an empty contact, not a 500.
		logrus.WithError(err).WithField("grant_id", grant.ID).Warn("Unparseable point of contact")
	}
	detail.PointOfContact = poc

	return detail
}

var grantSortColumns = map[string]string{
	"title_asc":     "grant_title ASC",
	"title_desc":    "grant_title DESC",
	"deadline_asc":  "date_closed ASC",
	"deadline_desc": "date_closed DESC",
	"posted_desc":   "posted_date DESC",
}

func (s *GrantService) SearchGrants(params GrantSearchParams) ([]*GrantDetail, int64, error) {
	query := s.db.Model(&models.Grant{})

	if params.Query != "" {
		like := "%" + params.Query + "%"
		query = query.Where("grant_title LIKE ? OR description LIKE ? OR provider LIKE ?", like, like, like)
	}

	if params.ResearchField != "" {
		query = query.Where("research_field = ?", params.ResearchField)
	}

	if params.OpportunityNumber != "" {
		query = query.Where("opportunity_number LIKE ?", "%"+params.OpportunityNumber+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count grants: %w", err)
	}

	order, ok := grantSortColumns[params.SortBy]
	if !ok {
		order = grantSortColumns["title_asc"]
	}
	query = query.Order(order)
	query = utils.ApplyPagination(query, params.PageParams)

	var grants []models.Grant
	if err := query.Find(&grants).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch grants: %w", err)
	}

	details := make([]*GrantDetail, 0, len(grants))
	for i := range grants {
		details = append(details, s.toDetail(&grants[i]))
	}

	return details, total, nil
}

// AggregateFunding sums program funding across all grants, for the
// landing-page headline number.
func (s *GrantService) AggregateFunding() (float64, error) {
	var total float64
	err := s.db.Model(&models.Grant{}).
		Select("COALESCE(SUM(program_funding), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate funding: %w", err)
	}
	return total, nil
}

func (s *GrantService) CountGrants() (int64, error) {
	var total int64
	if err := s.db.Model(&models.Grant{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count grants: %w", err)
	}
	return total, nil
}
