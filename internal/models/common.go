// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the UUID in application code instead of relying on a
// database default, so the same models work against postgres and the sqlite
// test database.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL (stored as plain JSON text on sqlite)
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Date is a calendar date without a time component. The wire format is
// "2006-01-02", matching what the grant scraper and the frontend exchange.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Date{v}
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Enums

// SubmissionStatus is the application lifecycle flag: an editable draft is
// "started", a finalized submission is "submitted". The only legal
// transition is started -> submitted.
type SubmissionStatus string

const (
	SubmissionStarted   SubmissionStatus = "started"
	SubmissionSubmitted SubmissionStatus = "submitted"
)

func (s SubmissionStatus) Valid() bool {
	return s == SubmissionStarted || s == SubmissionSubmitted
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition. Submitted is terminal.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	return s == SubmissionStarted && next == SubmissionSubmitted
}

// ReviewStatus is the administrative review outcome, orthogonal to the
// submission lifecycle and editable in any submission state.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewInReview ReviewStatus = "in_review"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewInReview, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// DocumentCategories is the ordered list of required document slots an
// application is expected to fill. Each category can hold any number of
// uploaded files.
var DocumentCategories = []string{
	"Proposal",
	"Budget",
	"CV/Resume",
	"Cover Letter",
}

func ValidDocumentCategory(category string) bool {
	for _, c := range DocumentCategories {
		if c == category {
			return true
		}
	}
	return false
}
