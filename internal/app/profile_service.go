package app

import (
	"context"
	"strings"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/domain/profile"
)

// ProfileService serves the three profile directories. Reads are open to any
// authenticated user; each profile is writable only by its owner.
type ProfileService struct {
	students  profile.StudentRepository
	companies profile.CompanyRepository
	schools   profile.SchoolRepository
}

func NewProfileService(students profile.StudentRepository, companies profile.CompanyRepository, schools profile.SchoolRepository) *ProfileService {
	return &ProfileService{students: students, companies: companies, schools: schools}
}

func (s *ProfileService) GetStudent(ctx context.Context, p ability.Principal, userID common.UUID) (*profile.StudentProfile, error) {
	if !ability.Can(p, ability.ActionRead, ability.ProfileResource{UserID: userID}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to read this profile", nil)
	}
	sp, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch student profile")
	}
	return sp, nil
}

func (s *ProfileService) UpdateStudent(ctx context.Context, p ability.Principal, sp profile.StudentProfile) (*profile.StudentProfile, error) {
	if !ability.Can(p, ability.ActionUpdate, ability.ProfileResource{UserID: sp.UserID}) {
		return nil, common.NewError(common.CodeForbidden, "you can only update your own profile", nil)
	}
	if strings.TrimSpace(sp.Name) == "" {
		return nil, common.NewValidationError("invalid profile", map[string]string{"name": "name is required"})
	}
	updated, err := s.students.Update(ctx, sp)
	if err != nil {
		return nil, common.Wrap(err, "failed to update student profile")
	}
	return updated, nil
}

func (s *ProfileService) FindStudents(ctx context.Context, p ability.Principal, q profile.Query) (*profile.StudentQueryResult, error) {
	result, err := s.students.FindByQuery(ctx, q)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch student profiles")
	}
	if len(result.Rows) == 0 {
		return nil, common.NewError(common.CodeNotFound, "no student profiles found matching the query", nil)
	}
	return result, nil
}

func (s *ProfileService) GetCompany(ctx context.Context, p ability.Principal, userID common.UUID) (*profile.CompanyProfile, error) {
	if !ability.Can(p, ability.ActionRead, ability.ProfileResource{UserID: userID}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to read this profile", nil)
	}
	cp, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch company profile")
	}
	return cp, nil
}

func (s *ProfileService) UpdateCompany(ctx context.Context, p ability.Principal, cp profile.CompanyProfile) (*profile.CompanyProfile, error) {
	if !ability.Can(p, ability.ActionUpdate, ability.ProfileResource{UserID: cp.UserID}) {
		return nil, common.NewError(common.CodeForbidden, "you can only update your own profile", nil)
	}
	if strings.TrimSpace(cp.Name) == "" {
		return nil, common.NewValidationError("invalid profile", map[string]string{"name": "name is required"})
	}
	updated, err := s.companies.Update(ctx, cp)
	if err != nil {
		return nil, common.Wrap(err, "failed to update company profile")
	}
	return updated, nil
}

func (s *ProfileService) FindCompanies(ctx context.Context, p ability.Principal, q profile.Query) (*profile.CompanyQueryResult, error) {
	result, err := s.companies.FindByQuery(ctx, q)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch company profiles")
	}
	if len(result.Rows) == 0 {
		return nil, common.NewError(common.CodeNotFound, "no company profiles found matching the query", nil)
	}
	return result, nil
}

func (s *ProfileService) GetSchool(ctx context.Context, p ability.Principal, userID common.UUID) (*profile.SchoolProfile, error) {
	if !ability.Can(p, ability.ActionRead, ability.ProfileResource{UserID: userID}) {
		return nil, common.NewError(common.CodeForbidden, "you do not have permission to read this profile", nil)
	}
	sp, err := s.schools.GetByUserID(ctx, userID)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch school profile")
	}
	return sp, nil
}

func (s *ProfileService) UpdateSchool(ctx context.Context, p ability.Principal, sp profile.SchoolProfile) (*profile.SchoolProfile, error) {
	if !ability.Can(p, ability.ActionUpdate, ability.ProfileResource{UserID: sp.UserID}) {
		return nil, common.NewError(common.CodeForbidden, "you can only update your own profile", nil)
	}
	if strings.TrimSpace(sp.Name) == "" {
		return nil, common.NewValidationError("invalid profile", map[string]string{"name": "name is required"})
	}
	updated, err := s.schools.Update(ctx, sp)
	if err != nil {
		return nil, common.Wrap(err, "failed to update school profile")
	}
	return updated, nil
}

func (s *ProfileService) FindSchools(ctx context.Context, p ability.Principal, q profile.Query) (*profile.SchoolQueryResult, error) {
	result, err := s.schools.FindByQuery(ctx, q)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch school profiles")
	}
	if len(result.Rows) == 0 {
		return nil, common.NewError(common.CodeNotFound, "no school profiles found matching the query", nil)
	}
	return result, nil
}

// LinkStudentToSchool records the school a student belongs to, granting the
// school read access to the student's applications.
func (s *ProfileService) LinkStudentToSchool(ctx context.Context, p ability.Principal, studentID, schoolID common.UUID) (*profile.StudentProfile, error) {
	if !ability.Can(p, ability.ActionUpdate, ability.ProfileResource{UserID: studentID}) {
		return nil, common.NewError(common.CodeForbidden, "you can only link your own profile to a school", nil)
	}
	if !schoolID.IsZero() {
		if _, err := s.schools.GetByUserID(ctx, schoolID); err != nil {
			return nil, common.Wrap(err, "failed to link school")
		}
	}
	sp, err := s.students.GetByUserID(ctx, studentID)
	if err != nil {
		return nil, common.Wrap(err, "failed to link school")
	}
	sp.LinkedSchoolID = schoolID
	updated, err := s.students.Update(ctx, *sp)
	if err != nil {
		return nil, common.Wrap(err, "failed to link school")
	}
	return updated, nil
}
