package app

import (
	"context"
	"strings"
	"time"

	"junqo/internal/common"
	"junqo/internal/domain/profile"
	"junqo/internal/domain/user"
	"junqo/internal/security"
)

type AuthService struct {
	users    user.Repository
	students profile.StudentRepository
	companies profile.CompanyRepository
	schools  profile.SchoolRepository
	jwt      *security.JWTProvider
}

func NewAuthService(users user.Repository, students profile.StudentRepository, companies profile.CompanyRepository, schools profile.SchoolRepository, jwt *security.JWTProvider) *AuthService {
	return &AuthService{users: users, students: students, companies: companies, schools: schools, jwt: jwt}
}

type AuthResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

// Register creates the account and the empty profile matching its type.
// Admin accounts are provisioned out of band, never through this endpoint.
func (s *AuthService) Register(ctx context.Context, name, email, password string, userType user.Type) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"name": "name is required"})
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.NewValidationError("invalid request", map[string]string{"email": "a valid email is required"})
	}
	if len(password) < 8 {
		return nil, common.NewValidationError("invalid request", map[string]string{"password": "password must be at least 8 characters"})
	}
	if !user.ValidType(userType) || userType == user.TypeAdmin {
		return nil, common.NewValidationError("invalid request", map[string]string{"type": "type must be STUDENT, COMPANY, or SCHOOL"})
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	created, err := s.users.Create(ctx, user.User{Email: email, PasswordHash: hash, Type: userType})
	if err != nil {
		return nil, err
	}

	switch userType {
	case user.TypeStudent:
		_, err = s.students.Create(ctx, profile.StudentProfile{UserID: created.ID, Name: name})
	case user.TypeCompany:
		_, err = s.companies.Create(ctx, profile.CompanyProfile{UserID: created.ID, Name: name})
	case user.TypeSchool:
		_, err = s.schools.Create(ctx, profile.SchoolProfile{UserID: created.ID, Name: name})
	}
	if err != nil {
		return nil, common.Wrap(err, "failed to create profile")
	}

	return s.issueToken(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
		}
		return nil, err
	}
	if !security.CheckPassword(account.PasswordHash, password) {
		return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
	}
	return s.issueToken(account)
}

func (s *AuthService) Me(ctx context.Context, userID common.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issueToken(account *user.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwt.Generate(account.ID, account.Type)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to issue token", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: account}, nil
}
