package offer

import (
	"time"

	"junqo/internal/common"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusClosed   Status = "CLOSED"
	StatusDeleted  Status = "DELETED"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusClosed, StatusDeleted:
		return true
	default:
		return false
	}
}

type Type string

const (
	TypeInternship     Type = "INTERNSHIP"
	TypeApprenticeship Type = "APPRENTICESHIP"
	TypePartTime       Type = "PART_TIME"
	TypeFullTime       Type = "FULL_TIME"
)

func ValidType(t Type) bool {
	switch t {
	case TypeInternship, TypeApprenticeship, TypePartTime, TypeFullTime:
		return true
	default:
		return false
	}
}

type WorkContext string

const (
	WorkOnSite WorkContext = "ON_SITE"
	WorkHybrid WorkContext = "HYBRID"
	WorkRemote WorkContext = "TELEWORKING"
)

func ValidWorkContext(w WorkContext) bool {
	switch w {
	case WorkOnSite, WorkHybrid, WorkRemote:
		return true
	default:
		return false
	}
}

type Offer struct {
	ID               common.UUID `json:"id"`
	UserID           common.UUID `json:"user_id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Status           Status      `json:"status"`
	OfferType        Type        `json:"offer_type"`
	WorkLocationType WorkContext `json:"work_location_type"`
	Duration         int         `json:"duration,omitempty"`
	Salary           int         `json:"salary,omitempty"`
	EducationLevel   string      `json:"education_level,omitempty"`
	Skills           []string    `json:"skills"`
	Benefits         []string    `json:"benefits"`
	ViewCount        int         `json:"view_count"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	DeletedAt        *time.Time  `json:"deleted_at,omitempty"`
}
