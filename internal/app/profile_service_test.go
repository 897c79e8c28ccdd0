package app

import (
	"context"
	"testing"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/domain/profile"
	"junqo/internal/domain/user"
)

func newProfileService() (*ProfileService, *fakeStudentProfileRepo, *fakeCompanyProfileRepo, *fakeSchoolProfileRepo) {
	students := newFakeStudentProfileRepo()
	companies := newFakeCompanyProfileRepo()
	schools := newFakeSchoolProfileRepo()
	return NewProfileService(students, companies, schools), students, companies, schools
}

func TestProfileServiceUpdateStudent_OwnerOnly(t *testing.T) {
	service, students, _, _ := newProfileService()
	owner := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	other := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	if _, err := students.Create(context.Background(), profile.StudentProfile{UserID: owner.ID, Name: "Alice"}); err != nil {
		t.Fatalf("expected profile created, got %v", err)
	}

	updated, err := service.UpdateStudent(context.Background(), owner, profile.StudentProfile{UserID: owner.ID, Name: "Alice M", Skills: []string{"go"}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Name != "Alice M" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}

	if _, err := service.UpdateStudent(context.Background(), other, profile.StudentProfile{UserID: owner.ID, Name: "Hijacked"}); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := service.UpdateStudent(context.Background(), owner, profile.StudentProfile{UserID: owner.ID, Name: "  "}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
}

func TestProfileServiceGetStudent_AnyAuthenticatedReader(t *testing.T) {
	service, students, _, _ := newProfileService()
	owner := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	if _, err := students.Create(context.Background(), profile.StudentProfile{UserID: owner.ID, Name: "Alice"}); err != nil {
		t.Fatalf("expected profile created, got %v", err)
	}

	if _, err := service.GetStudent(context.Background(), company, owner.ID); err != nil {
		t.Fatalf("expected company to read a student profile, got %v", err)
	}
}

func TestProfileServiceLinkStudentToSchool(t *testing.T) {
	service, students, _, schools := newProfileService()
	student := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	schoolID := common.NewUUID()
	if _, err := students.Create(context.Background(), profile.StudentProfile{UserID: student.ID, Name: "Alice"}); err != nil {
		t.Fatalf("expected profile created, got %v", err)
	}
	if _, err := schools.Create(context.Background(), profile.SchoolProfile{UserID: schoolID, Name: "Epitech"}); err != nil {
		t.Fatalf("expected school created, got %v", err)
	}

	updated, err := service.LinkStudentToSchool(context.Background(), student, student.ID, schoolID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.LinkedSchoolID != schoolID {
		t.Fatalf("expected linked school %s, got %s", schoolID, updated.LinkedSchoolID)
	}

	if _, err := service.LinkStudentToSchool(context.Background(), student, student.ID, common.NewUUID()); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not_found for unknown school, got %v", err)
	}

	// Clearing the link requires no school lookup.
	cleared, err := service.LinkStudentToSchool(context.Background(), student, student.ID, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !cleared.LinkedSchoolID.IsZero() {
		t.Fatalf("expected cleared link, got %s", cleared.LinkedSchoolID)
	}
}

func TestProfileServiceFindCompanies_EmptyIsNotFound(t *testing.T) {
	service, _, _, _ := newProfileService()
	caller := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}

	if _, err := service.FindCompanies(context.Background(), caller, profile.Query{}); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
