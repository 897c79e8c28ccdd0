package offer

import (
	"context"

	"junqo/internal/common"
)

type Query struct {
	Title            string
	Status           Status
	OfferType        Type
	WorkLocationType WorkContext
	Skills           []string
	UserID           common.UUID
	Offset           int
	Limit            int
}

type QueryResult struct {
	Rows  []Offer `json:"rows"`
	Count int     `json:"count"`
}

type Analytics struct {
	OfferID              common.UUID `json:"offer_id"`
	TotalViews           int         `json:"total_views"`
	TotalApplications    int         `json:"total_applications"`
	PendingApplications  int         `json:"pending_applications"`
	AcceptedApplications int         `json:"accepted_applications"`
	DeniedApplications   int         `json:"denied_applications"`
	ConversionRate       float64     `json:"conversion_rate"`
	AcceptanceRate       float64     `json:"acceptance_rate"`
	DaysSinceCreation    float64     `json:"days_since_creation"`
}

type CompanyAnalytics struct {
	Analytics []Analytics            `json:"analytics"`
	Totals    CompanyAnalyticsTotals `json:"totals"`
}

type CompanyAnalyticsTotals struct {
	TotalOffers                 int     `json:"total_offers"`
	TotalViews                  int     `json:"total_views"`
	TotalApplications           int     `json:"total_applications"`
	AverageViewsPerOffer        float64 `json:"average_views_per_offer"`
	AverageApplicationsPerOffer float64 `json:"average_applications_per_offer"`
	OverallConversionRate       float64 `json:"overall_conversion_rate"`
}

type Repository interface {
	Create(ctx context.Context, o Offer) (*Offer, error)
	Update(ctx context.Context, o Offer) (*Offer, error)
	GetByID(ctx context.Context, id common.UUID) (*Offer, error)
	FindByQuery(ctx context.Context, q Query) (*QueryResult, error)
	SoftDelete(ctx context.Context, id common.UUID) error
	IncrementViewCount(ctx context.Context, id common.UUID) error
	// MarkSeen records that the user saw the offer. It reports whether the
	// pair was inserted for the first time.
	MarkSeen(ctx context.Context, userID, offerID common.UUID) (bool, error)
	ListAppliedByStudent(ctx context.Context, studentID common.UUID) ([]Offer, error)
}
