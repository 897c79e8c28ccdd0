package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/domain/application"
	"junqo/internal/domain/conversation"
	"junqo/internal/domain/offer"
	"junqo/internal/domain/profile"
	"junqo/internal/domain/user"
)

const maxBulkBatchSize = 100

type ApplicationService struct {
	repo          application.Repository
	offers        offer.Repository
	students      profile.StudentRepository
	companies     profile.CompanyRepository
	conversations conversation.Repository
	logger        zerolog.Logger
}

func NewApplicationService(repo application.Repository, offers offer.Repository, students profile.StudentRepository, companies profile.CompanyRepository, conversations conversation.Repository, logger zerolog.Logger) *ApplicationService {
	return &ApplicationService{
		repo:          repo,
		offers:        offers,
		students:      students,
		companies:     companies,
		conversations: conversations,
		logger:        logger,
	}
}

// FindByQuery pre-filters the query by the caller's ownership id, runs it,
// and re-checks every returned row against the ability rules.
func (s *ApplicationService) FindByQuery(ctx context.Context, p ability.Principal, q application.Query) (*application.QueryResult, error) {
	switch p.Type {
	case user.TypeStudent:
		q.StudentID = p.ID
	case user.TypeCompany:
		q.CompanyID = p.ID
	case user.TypeSchool:
		if q.StudentID.IsZero() {
			return nil, common.NewValidationError("invalid query", map[string]string{"student_id": "school users must provide a student_id"})
		}
		studentProfile, err := s.students.GetByUserID(ctx, q.StudentID)
		if err != nil {
			return nil, common.Wrap(err, "failed to load student profile")
		}
		if !ability.Can(p, ability.ActionRead, ability.ApplicationResource{
			StudentID:             q.StudentID,
			StudentLinkedSchoolID: studentProfile.LinkedSchoolID,
		}) {
			return nil, common.NewError(common.CodeForbidden, "you do not have permission to view applications for this student", nil)
		}
	case user.TypeAdmin:
	default:
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to read applications", nil)
	}

	result, err := s.repo.FindByQuery(ctx, q)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch applications")
	}
	if len(result.Rows) == 0 {
		return nil, common.NewError(common.CodeNotFound, "no applications found matching the query", nil)
	}
	for _, app := range result.Rows {
		if p.Type == user.TypeSchool {
			// School access was already verified against the pre-filtered
			// student above; per-row resources lack the link field.
			continue
		}
		if !ability.Can(p, ability.ActionRead, applicationResource(app)) {
			return nil, common.NewError(common.CodeForbidden, "you do not have permission to read applications", nil)
		}
	}
	return result, nil
}

func (s *ApplicationService) FindOneByID(ctx context.Context, p ability.Principal, id common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch application")
	}
	resource := applicationResource(*app)
	if p.Type == user.TypeSchool {
		studentProfile, err := s.students.GetByUserID(ctx, app.StudentID)
		if err == nil {
			resource.StudentLinkedSchoolID = studentProfile.LinkedSchoolID
		}
	}
	if !ability.Can(p, ability.ActionRead, resource) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to read this application", nil)
	}
	return app, nil
}

// Create files a student application for an offer. A second application for
// the same (student, offer) pair is a conflict, except that applying to an
// offer the company already pre-accepted the student for finalizes the match.
func (s *ApplicationService) Create(ctx context.Context, p ability.Principal, offerID common.UUID) (*application.Application, error) {
	if !ability.Can(p, ability.ActionCreate, ability.ApplicationResource{StudentID: p.ID}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to create this application", nil)
	}

	target, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, common.Wrap(err, "failed to create application")
	}
	if target.Status != offer.StatusActive {
		return nil, common.NewValidationError("invalid request", map[string]string{"offer_id": "offer is not active"})
	}

	existing, err := s.repo.FindByOfferAndStudent(ctx, offerID, p.ID)
	if err == nil {
		if existing.Status == application.StatusPreAccepted {
			// Mutual interest: the company pre-accepted, the student applied.
			return s.Update(ctx, p, existing.ID, application.StatusAccepted)
		}
		return nil, common.NewError(common.CodeConflict, "you have already applied to this offer", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, common.Wrap(err, "failed to create application")
	}

	created, err := s.repo.Create(ctx, application.Application{
		StudentID: p.ID,
		CompanyID: target.UserID,
		OfferID:   offerID,
		Status:    application.StatusNotOpened,
	})
	if err != nil {
		return nil, common.Wrap(err, "failed to create application")
	}
	return created, nil
}

// Update sets the application status. A transition into ACCEPTED triggers
// the conversation side effect after the status write; the write is not
// rolled back when the side effect fails (it is idempotent by application
// id, so a later accept retries it).
func (s *ApplicationService) Update(ctx context.Context, p ability.Principal, id common.UUID, status application.Status) (*application.Application, error) {
	status = application.NormalizeStatus(status)
	if !application.ValidStatus(status) {
		return nil, common.NewValidationError("invalid status", map[string]string{
			"status": "status must be NOT_OPENED, PENDING, DENIED, ACCEPTED, or PRE_ACCEPTED",
		})
	}

	app, err := s.FindOneByID(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !ability.Can(p, ability.ActionUpdate, applicationResource(*app)) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to update this application", nil)
	}

	becomingAccepted := status == application.StatusAccepted && app.Status != application.StatusAccepted

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, common.Wrap(err, "failed to update application")
	}

	if becomingAccepted {
		s.ensureConversation(ctx, p, updated)
	}
	return updated, nil
}

func (s *ApplicationService) Delete(ctx context.Context, p ability.Principal, id common.UUID) error {
	app, err := s.FindOneByID(ctx, p, id)
	if err != nil {
		return err
	}
	if !ability.Can(p, ability.ActionDelete, applicationResource(*app)) {
		return common.NewError(common.CodeForbidden, "you do not have permission to delete this application", nil)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return common.Wrap(err, "failed to delete application")
	}
	return nil
}

// MarkAsOpened moves a NOT_OPENED application to PENDING. Anything already
// past NOT_OPENED is returned unchanged.
func (s *ApplicationService) MarkAsOpened(ctx context.Context, p ability.Principal, id common.UUID) (*application.Application, error) {
	app, err := s.FindOneByID(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if app.Status == application.StatusNotOpened {
		return s.Update(ctx, p, id, application.StatusPending)
	}
	return app, nil
}

// PreAccept lets a company express interest in a student before the student
// applies. An application that is already ACCEPTED is never downgraded.
func (s *ApplicationService) PreAccept(ctx context.Context, p ability.Principal, studentID, offerID common.UUID) (*application.Application, error) {
	if p.Type != user.TypeCompany && p.Type != user.TypeAdmin {
		return nil, common.NewError(common.CodeForbidden, "only companies can pre-accept candidates", nil)
	}

	target, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, common.Wrap(err, "failed to pre-accept candidate")
	}
	if p.Type != user.TypeAdmin && target.UserID != p.ID {
		return nil, common.NewError(common.CodeForbidden, "you can only pre-accept candidates for your own offers", nil)
	}
	if _, err := s.students.GetByUserID(ctx, studentID); err != nil {
		return nil, common.Wrap(err, "failed to pre-accept candidate")
	}

	existing, err := s.repo.FindByOfferAndStudent(ctx, offerID, studentID)
	if err == nil {
		if existing.Status == application.StatusAccepted {
			return existing, nil
		}
		return s.Update(ctx, p, existing.ID, application.StatusPreAccepted)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, common.Wrap(err, "failed to pre-accept candidate")
	}

	if !ability.Can(p, ability.ActionCreate, ability.ApplicationResource{StudentID: studentID, CompanyID: target.UserID}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to create this application", nil)
	}
	created, err := s.repo.Create(ctx, application.Application{
		StudentID: studentID,
		CompanyID: target.UserID,
		OfferID:   offerID,
		Status:    application.StatusPreAccepted,
	})
	if err != nil {
		return nil, common.Wrap(err, "failed to pre-accept candidate")
	}
	s.logger.Info().
		Str("company_id", p.ID.String()).
		Str("student_id", studentID.String()).
		Str("offer_id", offerID.String()).
		Msg("candidate pre-accepted")
	return created, nil
}

// BulkUpdateStatus applies one status to many applications, each processed
// independently. One failing id never fails the batch.
func (s *ApplicationService) BulkUpdateStatus(ctx context.Context, p ability.Principal, ids []common.UUID, status application.Status) (*application.BulkResult, error) {
	if len(ids) == 0 {
		return nil, common.NewValidationError("invalid request", map[string]string{"application_ids": "application_ids cannot be empty"})
	}
	if len(ids) > maxBulkBatchSize {
		return nil, common.NewValidationError("invalid request", map[string]string{
			"application_ids": fmt.Sprintf("batch size exceeds maximum of %d", maxBulkBatchSize),
		})
	}

	result := &application.BulkResult{UpdatedIDs: []common.UUID{}, FailedIDs: []common.UUID{}}
	for _, id := range ids {
		if _, err := s.Update(ctx, p, id, status); err != nil {
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
			s.logger.Error().Err(err).Str("application_id", id.String()).Msg("bulk status update failed for application")
			continue
		}
		result.Updated++
		result.UpdatedIDs = append(result.UpdatedIDs, id)
	}
	return result, nil
}

// ensureConversation creates the student/company conversation for an
// accepted application. Idempotent by application id; failures are logged
// and never surfaced to the status update.
func (s *ApplicationService) ensureConversation(ctx context.Context, p ability.Principal, app *application.Application) {
	if _, err := s.conversations.GetByApplicationID(ctx, app.ID); err == nil {
		return
	} else if !common.Is(err, common.CodeNotFound) {
		s.logger.Error().Err(err).Str("application_id", app.ID.String()).Msg("failed to look up conversation for accepted application")
		return
	}

	studentName := "Student"
	if studentProfile, err := s.students.GetByUserID(ctx, app.StudentID); err == nil && studentProfile.Name != "" {
		studentName = studentProfile.Name
	}
	companyName := "Company"
	if companyProfile, err := s.companies.GetByUserID(ctx, app.CompanyID); err == nil && companyProfile.Name != "" {
		companyName = companyProfile.Name
	}
	offerTitle := "Offer"
	if target, err := s.offers.GetByID(ctx, app.OfferID); err == nil && target.Title != "" {
		offerTitle = target.Title
	}

	created, err := s.conversations.Create(ctx, conversation.Conversation{
		OfferID:         app.OfferID,
		ApplicationID:   app.ID,
		Title:           "Application Discussion - " + offerTitle,
		ParticipantsIDs: []common.UUID{app.StudentID, app.CompanyID},
		ParticipantTitles: map[common.UUID]string{
			app.StudentID: offerTitle + " - " + companyName,
			app.CompanyID: offerTitle + " - " + studentName,
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("application_id", app.ID.String()).Msg("failed to create conversation for accepted application")
		return
	}

	welcome := fmt.Sprintf("Bonjour %s, votre candidature pour le poste de %q a retenu notre attention.", studentName, offerTitle)
	if _, err := s.conversations.CreateMessage(ctx, conversation.Message{
		ConversationID: created.ID,
		SenderID:       p.ID,
		Content:        welcome,
	}); err != nil {
		s.logger.Warn().Err(err).Str("conversation_id", created.ID.String()).Msg("failed to send welcome message")
	}
}

func applicationResource(app application.Application) ability.ApplicationResource {
	return ability.ApplicationResource{
		StudentID: app.StudentID,
		CompanyID: app.CompanyID,
		Status:    app.Status,
	}
}
