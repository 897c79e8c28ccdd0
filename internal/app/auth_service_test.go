package app

import (
	"context"
	"testing"
	"time"

	"junqo/internal/common"
	"junqo/internal/domain/user"
	"junqo/internal/security"
)

func newAuthService() (*AuthService, *fakeUserRepo, *fakeStudentProfileRepo, *fakeCompanyProfileRepo, *fakeSchoolProfileRepo) {
	users := newFakeUserRepo()
	students := newFakeStudentProfileRepo()
	companies := newFakeCompanyProfileRepo()
	schools := newFakeSchoolProfileRepo()
	jwt := security.NewJWTProvider("secret", time.Hour)
	return NewAuthService(users, students, companies, schools, jwt), users, students, companies, schools
}

func TestAuthServiceRegister_CreatesProfileForType(t *testing.T) {
	service, _, students, companies, schools := newAuthService()

	result, err := service.Register(context.Background(), "Alice Martin", "alice@example.com", "supersecret", user.TypeStudent)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if result.User.Type != user.TypeStudent {
		t.Fatalf("expected STUDENT, got %s", result.User.Type)
	}
	sp, err := students.GetByUserID(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("expected student profile, got %v", err)
	}
	if sp.Name != "Alice Martin" {
		t.Fatalf("expected profile name to match, got %q", sp.Name)
	}

	if _, err := service.Register(context.Background(), "Acme", "jobs@acme.example", "supersecret", user.TypeCompany); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(companies.profiles) != 1 {
		t.Fatalf("expected 1 company profile, got %d", len(companies.profiles))
	}
	if len(schools.profiles) != 0 {
		t.Fatalf("expected no school profile, got %d", len(schools.profiles))
	}
}

func TestAuthServiceRegister_RejectsAdmin(t *testing.T) {
	service, _, _, _, _ := newAuthService()

	_, err := service.Register(context.Background(), "Root", "root@example.com", "supersecret", user.TypeAdmin)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthServiceRegister_ShortPasswordRejected(t *testing.T) {
	service, _, _, _, _ := newAuthService()

	_, err := service.Register(context.Background(), "Alice", "alice@example.com", "short", user.TypeStudent)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthServiceLogin(t *testing.T) {
	service, _, _, _, _ := newAuthService()

	if _, err := service.Register(context.Background(), "Alice", "alice@example.com", "supersecret", user.TypeStudent); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	result, err := service.Login(context.Background(), "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}

	if _, err := service.Login(context.Background(), "alice@example.com", "wrongpass"); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}
	if _, err := service.Login(context.Background(), "nobody@example.com", "supersecret"); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}
