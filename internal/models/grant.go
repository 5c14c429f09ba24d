// internal/models/grant.go
package models

import (
	"encoding/json"
	"errors"
	"strings"
)

// Grant is a funding opportunity, read-only from the applicant's
// perspective. Rows are produced by the scraping pipeline; this service
// only ever reads them.
type Grant struct {
	BaseModel
	GrantTitle         string  `json:"grant_title" gorm:"size:500;not null"`
	OpportunityNumber  string  `json:"opportunity_number" gorm:"size:100;index"`
	Provider           string  `json:"provider" gorm:"size:255"`
	ResearchField      string  `json:"research_field" gorm:"size:255;index"`
	Description        string  `json:"description" gorm:"type:text"`
	ProgramFunding     float64 `json:"program_funding"`
	AwardMinAmount     float64 `json:"award_min_amount"`
	AwardMaxAmount     float64 `json:"award_max_amount"`
	ExpectedAwardCount int     `json:"expected_award_count"`
	Eligibility        string  `json:"eligibility" gorm:"type:text"`
	// Raw point-of-contact blob as stored by the scraper. Parse with
	// ParsePointOfContact before exposing it; the upstream format is not
	// reliable.
	PointOfContact string `json:"-" gorm:"column:point_of_contact;type:text"`
	LinkToSource   string `json:"link_to_source" gorm:"size:1000"`
	PostedDate     Date   `json:"posted_date" gorm:"type:date"`
	DateClosed     *Date  `json:"date_closed" gorm:"type:date"`
	LastUpdated    Date   `json:"last_updated" gorm:"type:date"`
}

// PointOfContact is the typed form of the grant's contact blob.
type PointOfContact struct {
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Description  string `json:"description,omitempty"`
}

var ErrContactUnparseable = errors.New("point of contact is not parseable")

// ParsePointOfContact turns the stored contact blob into a typed struct.
// The scraper persists either a JSON object, a JSON-encoded string, or
// free text, so each shape is tried in turn; free text lands in
// Description rather than being dropped.
func ParsePointOfContact(raw string) (PointOfContact, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PointOfContact{}, nil
	}

	var poc PointOfContact
	if err := json.Unmarshal([]byte(raw), &poc); err == nil {
		return poc, nil
	}

	var nested string
	if err := json.Unmarshal([]byte(raw), &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &poc); err == nil {
			return poc, nil
		}
		return PointOfContact{Description: nested}, nil
	}

	if strings.HasPrefix(raw, "{") {
		// Looks like JSON but failed to decode; refuse to guess.
		return PointOfContact{}, ErrContactUnparseable
	}

	return PointOfContact{Description: raw}, nil
}

// TaskDeadlineAllowed reports whether a task deadline is within the
// grant's closing date. Grants with no closing date accept any deadline.
func (g *Grant) TaskDeadlineAllowed(deadline Date) bool {
	if g.DateClosed == nil || g.DateClosed.IsZero() {
		return true
	}
	return !deadline.After(g.DateClosed.Time)
}
