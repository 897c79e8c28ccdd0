package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/domain/application"
	"junqo/internal/domain/offer"
	"junqo/internal/domain/user"
)

func newOfferService(t *testing.T) (*OfferService, *fakeOfferRepo, *fakeApplicationRepo) {
	t.Helper()
	offers := newFakeOfferRepo()
	apps := newFakeApplicationRepo()
	return NewOfferService(offers, apps, zerolog.Nop()), offers, apps
}

func seedOffer(t *testing.T, offers *fakeOfferRepo, companyID common.UUID, status offer.Status) *offer.Offer {
	t.Helper()
	created, err := offers.Create(context.Background(), offer.Offer{
		UserID:           companyID,
		Title:            "Go Developer",
		Description:      "Build backend services",
		Status:           status,
		OfferType:        offer.TypeFullTime,
		WorkLocationType: offer.WorkRemote,
		Skills:           []string{"go", "postgres"},
	})
	if err != nil {
		t.Fatalf("expected offer created, got %v", err)
	}
	return created
}

func TestOfferServiceFindOneByID_NonOwnerCountsView(t *testing.T) {
	service, offers, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	student := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	o := seedOffer(t, offers, company.ID, offer.StatusActive)

	got, err := service.FindOneByID(context.Background(), student, o.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("expected view_count 1, got %d", got.ViewCount)
	}
	got, err = service.FindOneByID(context.Background(), student, o.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.ViewCount != 2 {
		t.Fatalf("expected repeat views to count, got %d", got.ViewCount)
	}
}

func TestOfferServiceFindOneByID_OwnerDoesNotCount(t *testing.T) {
	service, offers, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	o := seedOffer(t, offers, company.ID, offer.StatusActive)

	got, err := service.FindOneByID(context.Background(), company, o.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.ViewCount != 0 {
		t.Fatalf("expected view_count 0 for owner read, got %d", got.ViewCount)
	}
}

func TestOfferServiceFindOneByID_InactiveHiddenFromNonOwner(t *testing.T) {
	service, offers, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	student := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	o := seedOffer(t, offers, company.ID, offer.StatusInactive)

	if _, err := service.FindOneByID(context.Background(), student, o.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := service.FindOneByID(context.Background(), company, o.ID); err != nil {
		t.Fatalf("expected owner to read inactive offer, got %v", err)
	}
}

func TestOfferServiceMarkSeen_DeduplicatesPerUser(t *testing.T) {
	service, offers, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	student := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	other := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	o := seedOffer(t, offers, company.ID, offer.StatusActive)

	first, err := service.MarkSeen(context.Background(), student, o.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !first {
		t.Fatal("expected first mark to report true")
	}
	repeat, err := service.MarkSeen(context.Background(), student, o.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if repeat {
		t.Fatal("expected repeat mark to report false")
	}
	otherFirst, err := service.MarkSeen(context.Background(), other, o.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !otherFirst {
		t.Fatal("expected another user's first mark to report true")
	}

	got, err := offers.GetByID(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.ViewCount != 2 {
		t.Fatalf("expected one counted view per unique user, got %d", got.ViewCount)
	}
}

func TestOfferServiceCreate_StudentForbidden(t *testing.T) {
	service, _, _ := newOfferService(t)
	student := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}

	_, err := service.Create(context.Background(), student, offer.Offer{
		Title:            "Go Developer",
		Description:      "Build backend services",
		OfferType:        offer.TypeFullTime,
		WorkLocationType: offer.WorkRemote,
	})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestOfferServiceCreate_OwnerForcedToCaller(t *testing.T) {
	service, _, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	foreign := common.NewUUID()

	created, err := service.Create(context.Background(), company, offer.Offer{
		UserID:           foreign,
		Title:            "Go Developer",
		Description:      "Build backend services",
		OfferType:        offer.TypeFullTime,
		WorkLocationType: offer.WorkRemote,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.UserID != company.ID {
		t.Fatalf("expected owner %s, got %s", company.ID, created.UserID)
	}
	if created.Status != offer.StatusActive {
		t.Fatalf("expected default status ACTIVE, got %s", created.Status)
	}
}

func TestOfferServiceCreate_ValidatesEnums(t *testing.T) {
	service, _, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}

	_, err := service.Create(context.Background(), company, offer.Offer{
		Title:            "Go Developer",
		Description:      "Build backend services",
		OfferType:        "FREELANCE",
		WorkLocationType: offer.WorkRemote,
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOfferServiceUpdate_NonOwnerForbidden(t *testing.T) {
	service, offers, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	other := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	o := seedOffer(t, offers, company.ID, offer.StatusActive)

	o.Title = "Hijacked"
	if _, err := service.Update(context.Background(), other, *o); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestOfferServiceDelete_SoftDeletesAndHides(t *testing.T) {
	service, offers, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	o := seedOffer(t, offers, company.ID, offer.StatusActive)

	if err := service.Delete(context.Background(), company, o.ID); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := offers.GetByID(context.Background(), o.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected offer hidden after delete, got %v", err)
	}
}

func TestOfferServiceAnalytics_ZeroDenominators(t *testing.T) {
	service, offers, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	o := seedOffer(t, offers, company.ID, offer.StatusActive)

	a, err := service.Analytics(context.Background(), company, o.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if a.ConversionRate != 0 || a.AcceptanceRate != 0 {
		t.Fatalf("expected zero rates with no views or applications, got %v/%v", a.ConversionRate, a.AcceptanceRate)
	}
}

func TestOfferServiceAnalytics_Rates(t *testing.T) {
	service, offers, apps := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	o := seedOffer(t, offers, company.ID, offer.StatusActive)

	for i := 0; i < 10; i++ {
		if err := offers.IncrementViewCount(context.Background(), o.ID); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	statuses := []application.Status{
		application.StatusAccepted,
		application.StatusDenied,
		application.StatusPending,
		application.StatusPending,
	}
	for _, status := range statuses {
		if _, err := apps.Create(context.Background(), application.Application{
			StudentID: common.NewUUID(),
			CompanyID: company.ID,
			OfferID:   o.ID,
			Status:    status,
		}); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	a, err := service.Analytics(context.Background(), company, o.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if a.TotalViews != 10 || a.TotalApplications != 4 {
		t.Fatalf("expected 10 views and 4 applications, got %d/%d", a.TotalViews, a.TotalApplications)
	}
	if a.ConversionRate != 40 {
		t.Fatalf("expected conversion rate 40, got %v", a.ConversionRate)
	}
	if a.AcceptanceRate != 25 {
		t.Fatalf("expected acceptance rate 25, got %v", a.AcceptanceRate)
	}
	if a.PendingApplications != 2 || a.AcceptedApplications != 1 || a.DeniedApplications != 1 {
		t.Fatalf("unexpected status counts %+v", a)
	}
}

func TestOfferServiceAnalytics_NonOwnerForbidden(t *testing.T) {
	service, offers, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	other := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	o := seedOffer(t, offers, company.ID, offer.StatusActive)

	if _, err := service.Analytics(context.Background(), other, o.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestOfferServiceCompanyAnalytics_Totals(t *testing.T) {
	service, offers, apps := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	first := seedOffer(t, offers, company.ID, offer.StatusActive)
	second := seedOffer(t, offers, company.ID, offer.StatusActive)

	for i := 0; i < 4; i++ {
		if err := offers.IncrementViewCount(context.Background(), first.ID); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	if _, err := apps.Create(context.Background(), application.Application{
		StudentID: common.NewUUID(), CompanyID: company.ID, OfferID: second.ID,
		Status: application.StatusPending,
	}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	result, err := service.CompanyAnalytics(context.Background(), company, company.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Totals.TotalOffers != 2 {
		t.Fatalf("expected 2 offers, got %d", result.Totals.TotalOffers)
	}
	if result.Totals.TotalViews != 4 || result.Totals.TotalApplications != 1 {
		t.Fatalf("expected 4 views and 1 application, got %d/%d", result.Totals.TotalViews, result.Totals.TotalApplications)
	}
	if result.Totals.AverageViewsPerOffer != 2 {
		t.Fatalf("expected average views 2, got %v", result.Totals.AverageViewsPerOffer)
	}
	if result.Totals.OverallConversionRate != 25 {
		t.Fatalf("expected overall conversion rate 25, got %v", result.Totals.OverallConversionRate)
	}
}

func TestOfferServiceFindByQuery_NonOwnerSeesOnlyActive(t *testing.T) {
	service, offers, _ := newOfferService(t)
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	student := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	seedOffer(t, offers, company.ID, offer.StatusActive)
	seedOffer(t, offers, company.ID, offer.StatusInactive)

	result, err := service.FindByQuery(context.Background(), student, offer.Query{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("expected only the active offer, got %d", result.Count)
	}
	if result.Rows[0].Status != offer.StatusActive {
		t.Fatalf("expected ACTIVE, got %s", result.Rows[0].Status)
	}
}
