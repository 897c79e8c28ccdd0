package profile

import (
	"context"
	"time"

	"junqo/internal/common"
)

type StudentProfile struct {
	UserID         common.UUID  `json:"user_id"`
	Name           string       `json:"name"`
	Avatar         string       `json:"avatar,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	PhoneNumber    string       `json:"phone_number,omitempty"`
	LinkedinURL    string       `json:"linkedin_url,omitempty"`
	EducationLevel string       `json:"education_level,omitempty"`
	Skills         []string     `json:"skills"`
	LinkedSchoolID common.UUID  `json:"linked_school_id,omitempty"`
	Experiences    []Experience `json:"experiences,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type CompanyProfile struct {
	UserID      common.UUID `json:"user_id"`
	Name        string      `json:"name"`
	Avatar      string      `json:"avatar,omitempty"`
	Description string      `json:"description,omitempty"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	Address     string      `json:"address,omitempty"`
	WebsiteURL  string      `json:"website_url,omitempty"`
	LogoURL     string      `json:"logo_url,omitempty"`
	Industry    string      `json:"industry,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type SchoolProfile struct {
	UserID    common.UUID `json:"user_id"`
	Name      string      `json:"name"`
	Avatar    string      `json:"avatar,omitempty"`
	Skills    []string    `json:"skills"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Experience struct {
	ID               common.UUID `json:"id"`
	StudentProfileID common.UUID `json:"student_profile_id"`
	Title            string      `json:"title"`
	Company          string      `json:"company"`
	StartDate        string      `json:"start_date"`
	EndDate          string      `json:"end_date,omitempty"`
	Description      string      `json:"description,omitempty"`
	Skills           []string    `json:"skills"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Query filters profile listings. Skills matching is an overlap test and is
// ignored for company profiles.
type Query struct {
	Name   string
	Skills []string
	Offset int
	Limit  int
}

type StudentQueryResult struct {
	Rows  []StudentProfile `json:"rows"`
	Count int              `json:"count"`
}

type CompanyQueryResult struct {
	Rows  []CompanyProfile `json:"rows"`
	Count int              `json:"count"`
}

type SchoolQueryResult struct {
	Rows  []SchoolProfile `json:"rows"`
	Count int             `json:"count"`
}

type StudentRepository interface {
	Create(ctx context.Context, p StudentProfile) (*StudentProfile, error)
	GetByUserID(ctx context.Context, userID common.UUID) (*StudentProfile, error)
	Update(ctx context.Context, p StudentProfile) (*StudentProfile, error)
	FindByQuery(ctx context.Context, q Query) (*StudentQueryResult, error)
}

type CompanyRepository interface {
	Create(ctx context.Context, p CompanyProfile) (*CompanyProfile, error)
	GetByUserID(ctx context.Context, userID common.UUID) (*CompanyProfile, error)
	Update(ctx context.Context, p CompanyProfile) (*CompanyProfile, error)
	FindByQuery(ctx context.Context, q Query) (*CompanyQueryResult, error)
}

type SchoolRepository interface {
	Create(ctx context.Context, p SchoolProfile) (*SchoolProfile, error)
	GetByUserID(ctx context.Context, userID common.UUID) (*SchoolProfile, error)
	Update(ctx context.Context, p SchoolProfile) (*SchoolProfile, error)
	FindByQuery(ctx context.Context, q Query) (*SchoolQueryResult, error)
}

type ExperienceRepository interface {
	Create(ctx context.Context, e Experience) (*Experience, error)
	GetByID(ctx context.Context, id common.UUID) (*Experience, error)
	ListByProfile(ctx context.Context, studentProfileID common.UUID) ([]Experience, error)
	Update(ctx context.Context, e Experience) (*Experience, error)
	Delete(ctx context.Context, id common.UUID) error
}
