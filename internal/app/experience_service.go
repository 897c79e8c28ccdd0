package app

import (
	"context"
	"strings"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/domain/profile"
)

type ExperienceService struct {
	repo     profile.ExperienceRepository
	students profile.StudentRepository
}

func NewExperienceService(repo profile.ExperienceRepository, students profile.StudentRepository) *ExperienceService {
	return &ExperienceService{repo: repo, students: students}
}

func (s *ExperienceService) Create(ctx context.Context, p ability.Principal, e profile.Experience) (*profile.Experience, error) {
	if e.StudentProfileID.IsZero() {
		e.StudentProfileID = p.ID
	}
	if !ability.Can(p, ability.ActionCreate, ability.ExperienceResource{StudentID: e.StudentProfileID}) {
		return nil, common.NewError(common.CodeForbidden, "you can only add experiences to your own profile", nil)
	}
	if _, err := s.students.GetByUserID(ctx, e.StudentProfileID); err != nil {
		return nil, common.Wrap(err, "failed to create experience")
	}
	if fields := validateExperience(e); len(fields) > 0 {
		return nil, common.NewValidationError("invalid experience", fields)
	}
	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, common.Wrap(err, "failed to create experience")
	}
	return created, nil
}

func (s *ExperienceService) FindOneByID(ctx context.Context, p ability.Principal, id common.UUID) (*profile.Experience, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch experience")
	}
	if !ability.Can(p, ability.ActionRead, ability.ExperienceResource{StudentID: e.StudentProfileID}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to read this experience", nil)
	}
	return e, nil
}

func (s *ExperienceService) ListByProfile(ctx context.Context, p ability.Principal, studentProfileID common.UUID) ([]profile.Experience, error) {
	if !ability.Can(p, ability.ActionRead, ability.ExperienceResource{StudentID: studentProfileID}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to read these experiences", nil)
	}
	items, err := s.repo.ListByProfile(ctx, studentProfileID)
	if err != nil {
		return nil, common.Wrap(err, "failed to list experiences")
	}
	return items, nil
}

func (s *ExperienceService) Update(ctx context.Context, p ability.Principal, e profile.Experience) (*profile.Experience, error) {
	existing, err := s.repo.GetByID(ctx, e.ID)
	if err != nil {
		return nil, common.Wrap(err, "failed to update experience")
	}
	if !ability.Can(p, ability.ActionUpdate, ability.ExperienceResource{StudentID: existing.StudentProfileID}) {
		return nil, common.NewError(common.CodeForbidden, "you can only update your own experiences", nil)
	}
	e.StudentProfileID = existing.StudentProfileID
	if fields := validateExperience(e); len(fields) > 0 {
		return nil, common.NewValidationError("invalid experience", fields)
	}
	updated, err := s.repo.Update(ctx, e)
	if err != nil {
		return nil, common.Wrap(err, "failed to update experience")
	}
	return updated, nil
}

func (s *ExperienceService) Delete(ctx context.Context, p ability.Principal, id common.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.Wrap(err, "failed to delete experience")
	}
	if !ability.Can(p, ability.ActionDelete, ability.ExperienceResource{StudentID: existing.StudentProfileID}) {
		return common.NewError(common.CodeForbidden, "you can only delete your own experiences", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return common.Wrap(err, "failed to delete experience")
	}
	return nil
}

func validateExperience(e profile.Experience) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(e.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(e.Company) == "" {
		fields["company"] = "company is required"
	}
	if strings.TrimSpace(e.StartDate) == "" {
		fields["start_date"] = "start_date is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
