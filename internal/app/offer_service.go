package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/domain/application"
	"junqo/internal/domain/offer"
	"junqo/internal/domain/user"
)

type OfferService struct {
	repo         offer.Repository
	applications application.Repository
	logger       zerolog.Logger
}

func NewOfferService(repo offer.Repository, applications application.Repository, logger zerolog.Logger) *OfferService {
	return &OfferService{repo: repo, applications: applications, logger: logger}
}

func (s *OfferService) FindByQuery(ctx context.Context, p ability.Principal, q offer.Query) (*offer.QueryResult, error) {
	// Non-owners browse only the active catalogue.
	if p.Type != user.TypeAdmin && q.UserID != p.ID {
		q.Status = offer.StatusActive
	}
	result, err := s.repo.FindByQuery(ctx, q)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch offers")
	}
	if len(result.Rows) == 0 {
		return nil, common.NewError(common.CodeNotFound, "no offers found matching the query", nil)
	}
	for _, o := range result.Rows {
		if !ability.Can(p, ability.ActionRead, ability.OfferResource{UserID: o.UserID, Status: o.Status}) {
			return nil, common.NewError(common.CodeForbidden, "you do not have permission to read offers", nil)
		}
	}
	return result, nil
}

// FindOneByID returns the offer and counts the view when the reader is not
// the owner. Every non-owner read counts; MarkSeen tracks unique readers
// separately.
func (s *OfferService) FindOneByID(ctx context.Context, p ability.Principal, id common.UUID) (*offer.Offer, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch offer")
	}
	if !ability.Can(p, ability.ActionRead, ability.OfferResource{UserID: o.UserID, Status: o.Status}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to read this offer", nil)
	}
	if o.UserID != p.ID {
		if err := s.repo.IncrementViewCount(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("offer_id", id.String()).Msg("failed to increment offer view count")
		} else {
			o.ViewCount++
		}
	}
	return o, nil
}

func (s *OfferService) Create(ctx context.Context, p ability.Principal, o offer.Offer) (*offer.Offer, error) {
	if !ability.Can(p, ability.ActionCreate, ability.OfferResource{UserID: p.ID}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to create offers", nil)
	}
	o.UserID = p.ID
	if o.Status == "" {
		o.Status = offer.StatusActive
	}
	if fields := validateOffer(o); len(fields) > 0 {
		return nil, common.NewValidationError("invalid offer", fields)
	}
	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, common.Wrap(err, "failed to create offer")
	}
	s.logger.Info().Str("offer_id", created.ID.String()).Str("company_id", p.ID.String()).Msg("offer created")
	return created, nil
}

func (s *OfferService) Update(ctx context.Context, p ability.Principal, o offer.Offer) (*offer.Offer, error) {
	existing, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return nil, common.Wrap(err, "failed to update offer")
	}
	if !ability.Can(p, ability.ActionUpdate, ability.OfferResource{UserID: existing.UserID, Status: existing.Status}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to update this offer", nil)
	}
	if fields := validateOffer(o); len(fields) > 0 {
		return nil, common.NewValidationError("invalid offer", fields)
	}
	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		return nil, common.Wrap(err, "failed to update offer")
	}
	return updated, nil
}

func (s *OfferService) Delete(ctx context.Context, p ability.Principal, id common.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.Wrap(err, "failed to delete offer")
	}
	if !ability.Can(p, ability.ActionDelete, ability.OfferResource{UserID: existing.UserID, Status: existing.Status}) {
		return common.NewError(common.CodeForbidden, "you do not have permission to delete this offer", nil)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return common.Wrap(err, "failed to delete offer")
	}
	return nil
}

// MarkSeen records a unique view of the offer for the caller. The first
// insert for a (user, offer) pair counts a view; repeats are no-ops.
func (s *OfferService) MarkSeen(ctx context.Context, p ability.Principal, offerID common.UUID) (bool, error) {
	o, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return false, common.Wrap(err, "failed to mark offer as seen")
	}
	if !ability.Can(p, ability.ActionRead, ability.OfferResource{UserID: o.UserID, Status: o.Status}) {
		return false, common.NewError(common.CodeForbidden, "you do not have permission to read this offer", nil)
	}
	first, err := s.repo.MarkSeen(ctx, p.ID, offerID)
	if err != nil {
		return false, common.Wrap(err, "failed to mark offer as seen")
	}
	if first && o.UserID != p.ID {
		if err := s.repo.IncrementViewCount(ctx, offerID); err != nil {
			s.logger.Warn().Err(err).Str("offer_id", offerID.String()).Msg("failed to increment offer view count")
		}
	}
	return first, nil
}

// ListMine returns the caller's own offers regardless of status.
func (s *OfferService) ListMine(ctx context.Context, p ability.Principal, q offer.Query) (*offer.QueryResult, error) {
	q.UserID = p.ID
	result, err := s.repo.FindByQuery(ctx, q)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch offers")
	}
	if len(result.Rows) == 0 {
		return nil, common.NewError(common.CodeNotFound, "no offers found matching the query", nil)
	}
	return result, nil
}

func (s *OfferService) ListApplied(ctx context.Context, p ability.Principal) ([]offer.Offer, error) {
	if p.Type != user.TypeStudent && p.Type != user.TypeAdmin {
		return nil, common.NewError(common.CodeForbidden, "only students can list applied offers", nil)
	}
	offers, err := s.repo.ListAppliedByStudent(ctx, p.ID)
	if err != nil {
		return nil, common.Wrap(err, "failed to list applied offers")
	}
	return offers, nil
}

// Analytics computes engagement metrics for one offer. Rates come out as
// zero when their denominator is zero.
func (s *OfferService) Analytics(ctx context.Context, p ability.Principal, offerID common.UUID) (*offer.Analytics, error) {
	o, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return nil, common.Wrap(err, "failed to load offer analytics")
	}
	if !ability.Can(p, ability.ActionUpdate, ability.OfferResource{UserID: o.UserID, Status: o.Status}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to view analytics for this offer", nil)
	}
	return s.analyticsFor(ctx, o)
}

func (s *OfferService) analyticsFor(ctx context.Context, o *offer.Offer) (*offer.Analytics, error) {
	counts, err := s.applications.CountByOffer(ctx, o.ID)
	if err != nil {
		return nil, common.Wrap(err, "failed to count applications")
	}
	a := &offer.Analytics{
		OfferID:              o.ID,
		TotalViews:           o.ViewCount,
		TotalApplications:    counts.Total,
		PendingApplications:  counts.Pending,
		AcceptedApplications: counts.Accepted,
		DeniedApplications:   counts.Denied,
		DaysSinceCreation:    time.Since(o.CreatedAt).Hours() / 24,
	}
	if o.ViewCount > 0 {
		a.ConversionRate = float64(counts.Total) / float64(o.ViewCount) * 100
	}
	if counts.Total > 0 {
		a.AcceptanceRate = float64(counts.Accepted) / float64(counts.Total) * 100
	}
	return a, nil
}

// CompanyAnalytics aggregates analytics over every offer the company owns,
// deleted ones excluded.
func (s *OfferService) CompanyAnalytics(ctx context.Context, p ability.Principal, companyID common.UUID) (*offer.CompanyAnalytics, error) {
	if p.Type != user.TypeAdmin && companyID != p.ID {
		return nil, common.NewError(common.CodeForbidden, "you can only view analytics for your own offers", nil)
	}
	result, err := s.repo.FindByQuery(ctx, offer.Query{UserID: companyID, Limit: maxAnalyticsOffers})
	if err != nil {
		return nil, common.Wrap(err, "failed to load company offers")
	}

	out := &offer.CompanyAnalytics{Analytics: []offer.Analytics{}}
	for i := range result.Rows {
		a, err := s.analyticsFor(ctx, &result.Rows[i])
		if err != nil {
			return nil, err
		}
		out.Analytics = append(out.Analytics, *a)
		out.Totals.TotalViews += a.TotalViews
		out.Totals.TotalApplications += a.TotalApplications
	}
	out.Totals.TotalOffers = len(out.Analytics)
	if out.Totals.TotalOffers > 0 {
		n := float64(out.Totals.TotalOffers)
		out.Totals.AverageViewsPerOffer = float64(out.Totals.TotalViews) / n
		out.Totals.AverageApplicationsPerOffer = float64(out.Totals.TotalApplications) / n
	}
	if out.Totals.TotalViews > 0 {
		out.Totals.OverallConversionRate = float64(out.Totals.TotalApplications) / float64(out.Totals.TotalViews) * 100
	}
	return out, nil
}

const maxAnalyticsOffers = 500

func validateOffer(o offer.Offer) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(o.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(o.Description) == "" {
		fields["description"] = "description is required"
	}
	if !offer.ValidStatus(o.Status) {
		fields["status"] = "status must be ACTIVE, INACTIVE, CLOSED, or DELETED"
	}
	if !offer.ValidType(o.OfferType) {
		fields["offer_type"] = "offer_type must be INTERNSHIP, APPRENTICESHIP, PART_TIME, or FULL_TIME"
	}
	if !offer.ValidWorkContext(o.WorkLocationType) {
		fields["work_location_type"] = "work_location_type must be ON_SITE, HYBRID, or TELEWORKING"
	}
	if o.Salary < 0 {
		fields["salary"] = "salary cannot be negative"
	}
	if o.Duration < 0 {
		fields["duration"] = "duration cannot be negative"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
