package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"junqo/internal/common"
	"junqo/internal/domain/profile"
)

type StudentProfileRepository struct {
	db *sql.DB
}

func NewStudentProfileRepository(db *sql.DB) *StudentProfileRepository {
	return &StudentProfileRepository{db: db}
}

const studentProfileColumns = `user_id, name, avatar, bio, phone_number, linkedin_url,
	education_level, skills, linked_school_id, created_at, updated_at`

func scanStudentProfile(row interface{ Scan(...any) error }) (*profile.StudentProfile, error) {
	var p profile.StudentProfile
	var bio, phone, linkedin, education sql.NullString
	var linkedSchool sql.NullString
	err := row.Scan(&p.UserID, &p.Name, &p.Avatar, &bio, &phone, &linkedin, &education,
		pq.Array(&p.Skills), &linkedSchool, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Bio = bio.String
	p.PhoneNumber = phone.String
	p.LinkedinURL = linkedin.String
	p.EducationLevel = education.String
	p.LinkedSchoolID = common.UUID(linkedSchool.String)
	return &p, nil
}

func (r *StudentProfileRepository) Create(ctx context.Context, p profile.StudentProfile) (*profile.StudentProfile, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Skills == nil {
		p.Skills = []string{}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO student_profiles (user_id, name, avatar, bio, phone_number,
		linkedin_url, education_level, skills, linked_school_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.UserID, p.Name, p.Avatar, nullString(p.Bio), nullString(p.PhoneNumber), nullString(p.LinkedinURL),
		nullString(p.EducationLevel), pq.Array(p.Skills), nullUUID(p.LinkedSchoolID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "student profile already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create student profile", err)
	}
	return &p, nil
}

func (r *StudentProfileRepository) GetByUserID(ctx context.Context, userID common.UUID) (*profile.StudentProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentProfileColumns+` FROM student_profiles WHERE user_id = $1`, userID)
	p, err := scanStudentProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "student profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load student profile", err)
	}
	experiences, err := r.listExperiences(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Experiences = experiences
	return p, nil
}

func (r *StudentProfileRepository) Update(ctx context.Context, p profile.StudentProfile) (*profile.StudentProfile, error) {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE student_profiles SET name = $1, avatar = $2, bio = $3,
		phone_number = $4, linkedin_url = $5, education_level = $6, skills = $7, linked_school_id = $8, updated_at = $9
		WHERE user_id = $10`,
		p.Name, p.Avatar, nullString(p.Bio), nullString(p.PhoneNumber), nullString(p.LinkedinURL),
		nullString(p.EducationLevel), pq.Array(p.Skills), nullUUID(p.LinkedSchoolID), p.UpdatedAt, p.UserID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update student profile", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "student profile not found", sql.ErrNoRows)
	}
	return r.GetByUserID(ctx, p.UserID)
}

func (r *StudentProfileRepository) FindByQuery(ctx context.Context, q profile.Query) (*profile.StudentQueryResult, error) {
	where, args, next := profileFilter(q)
	condition := strings.Join(where, " AND ")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM student_profiles WHERE `+condition, args()...).Scan(&count); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count student profiles", err)
	}

	query := `SELECT ` + studentProfileColumns + ` FROM student_profiles WHERE ` + condition +
		` ORDER BY created_at DESC LIMIT ` + next(queryLimit(q.Limit)) + ` OFFSET ` + next(q.Offset)
	rows, err := r.db.QueryContext(ctx, query, args()...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list student profiles", err)
	}
	defer rows.Close()

	result := &profile.StudentQueryResult{Rows: []profile.StudentProfile{}, Count: count}
	for rows.Next() {
		p, err := scanStudentProfile(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan student profile", err)
		}
		result.Rows = append(result.Rows, *p)
	}
	return result, nil
}

func (r *StudentProfileRepository) listExperiences(ctx context.Context, userID common.UUID) ([]profile.Experience, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+experienceColumns+` FROM experiences
		WHERE student_profile_id = $1 ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list experiences", err)
	}
	defer rows.Close()
	var items []profile.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan experience", err)
		}
		items = append(items, *e)
	}
	return items, nil
}

type CompanyProfileRepository struct {
	db *sql.DB
}

func NewCompanyProfileRepository(db *sql.DB) *CompanyProfileRepository {
	return &CompanyProfileRepository{db: db}
}

const companyProfileColumns = `user_id, name, avatar, description, phone_number, address,
	website_url, logo_url, industry, created_at, updated_at`

func scanCompanyProfile(row interface{ Scan(...any) error }) (*profile.CompanyProfile, error) {
	var p profile.CompanyProfile
	var description, phone, address, website, logo, industry sql.NullString
	err := row.Scan(&p.UserID, &p.Name, &p.Avatar, &description, &phone, &address,
		&website, &logo, &industry, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.PhoneNumber = phone.String
	p.Address = address.String
	p.WebsiteURL = website.String
	p.LogoURL = logo.String
	p.Industry = industry.String
	return &p, nil
}

func (r *CompanyProfileRepository) Create(ctx context.Context, p profile.CompanyProfile) (*profile.CompanyProfile, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO company_profiles (user_id, name, avatar, description, phone_number,
		address, website_url, logo_url, industry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.UserID, p.Name, p.Avatar, nullString(p.Description), nullString(p.PhoneNumber), nullString(p.Address),
		nullString(p.WebsiteURL), nullString(p.LogoURL), nullString(p.Industry), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "company profile already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create company profile", err)
	}
	return &p, nil
}

func (r *CompanyProfileRepository) GetByUserID(ctx context.Context, userID common.UUID) (*profile.CompanyProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+companyProfileColumns+` FROM company_profiles WHERE user_id = $1`, userID)
	p, err := scanCompanyProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "company profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load company profile", err)
	}
	return p, nil
}

func (r *CompanyProfileRepository) Update(ctx context.Context, p profile.CompanyProfile) (*profile.CompanyProfile, error) {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE company_profiles SET name = $1, avatar = $2, description = $3,
		phone_number = $4, address = $5, website_url = $6, logo_url = $7, industry = $8, updated_at = $9
		WHERE user_id = $10`,
		p.Name, p.Avatar, nullString(p.Description), nullString(p.PhoneNumber), nullString(p.Address),
		nullString(p.WebsiteURL), nullString(p.LogoURL), nullString(p.Industry), p.UpdatedAt, p.UserID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update company profile", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "company profile not found", sql.ErrNoRows)
	}
	return r.GetByUserID(ctx, p.UserID)
}

func (r *CompanyProfileRepository) FindByQuery(ctx context.Context, q profile.Query) (*profile.CompanyQueryResult, error) {
	where := []string{"TRUE"}
	args := []any{}
	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}
	if q.Name != "" {
		where = append(where, "name ILIKE "+next("%"+q.Name+"%"))
	}
	condition := strings.Join(where, " AND ")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM company_profiles WHERE `+condition, args...).Scan(&count); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count company profiles", err)
	}

	query := `SELECT ` + companyProfileColumns + ` FROM company_profiles WHERE ` + condition +
		` ORDER BY created_at DESC LIMIT ` + next(queryLimit(q.Limit)) + ` OFFSET ` + next(q.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list company profiles", err)
	}
	defer rows.Close()

	result := &profile.CompanyQueryResult{Rows: []profile.CompanyProfile{}, Count: count}
	for rows.Next() {
		p, err := scanCompanyProfile(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan company profile", err)
		}
		result.Rows = append(result.Rows, *p)
	}
	return result, nil
}

type SchoolProfileRepository struct {
	db *sql.DB
}

func NewSchoolProfileRepository(db *sql.DB) *SchoolProfileRepository {
	return &SchoolProfileRepository{db: db}
}

const schoolProfileColumns = `user_id, name, avatar, skills, created_at, updated_at`

func scanSchoolProfile(row interface{ Scan(...any) error }) (*profile.SchoolProfile, error) {
	var p profile.SchoolProfile
	err := row.Scan(&p.UserID, &p.Name, &p.Avatar, pq.Array(&p.Skills), &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SchoolProfileRepository) Create(ctx context.Context, p profile.SchoolProfile) (*profile.SchoolProfile, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Skills == nil {
		p.Skills = []string{}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO school_profiles (user_id, name, avatar, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.UserID, p.Name, p.Avatar, pq.Array(p.Skills), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "school profile already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create school profile", err)
	}
	return &p, nil
}

func (r *SchoolProfileRepository) GetByUserID(ctx context.Context, userID common.UUID) (*profile.SchoolProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+schoolProfileColumns+` FROM school_profiles WHERE user_id = $1`, userID)
	p, err := scanSchoolProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "school profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load school profile", err)
	}
	return p, nil
}

func (r *SchoolProfileRepository) Update(ctx context.Context, p profile.SchoolProfile) (*profile.SchoolProfile, error) {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE school_profiles SET name = $1, avatar = $2, skills = $3, updated_at = $4
		WHERE user_id = $5`,
		p.Name, p.Avatar, pq.Array(p.Skills), p.UpdatedAt, p.UserID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update school profile", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "school profile not found", sql.ErrNoRows)
	}
	return r.GetByUserID(ctx, p.UserID)
}

func (r *SchoolProfileRepository) FindByQuery(ctx context.Context, q profile.Query) (*profile.SchoolQueryResult, error) {
	where, args, next := profileFilter(q)
	condition := strings.Join(where, " AND ")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM school_profiles WHERE `+condition, args()...).Scan(&count); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count school profiles", err)
	}

	query := `SELECT ` + schoolProfileColumns + ` FROM school_profiles WHERE ` + condition +
		` ORDER BY created_at DESC LIMIT ` + next(queryLimit(q.Limit)) + ` OFFSET ` + next(q.Offset)
	rows, err := r.db.QueryContext(ctx, query, args()...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list school profiles", err)
	}
	defer rows.Close()

	result := &profile.SchoolQueryResult{Rows: []profile.SchoolProfile{}, Count: count}
	for rows.Next() {
		p, err := scanSchoolProfile(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan school profile", err)
		}
		result.Rows = append(result.Rows, *p)
	}
	return result, nil
}

// profileFilter builds the shared name/skills WHERE clause. The returned
// args func snapshots the argument list so it can be reused for the count
// and page queries as placeholders keep growing.
func profileFilter(q profile.Query) ([]string, func() []any, func(any) string) {
	where := []string{"TRUE"}
	var args []any
	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}
	if q.Name != "" {
		where = append(where, "name ILIKE "+next("%"+q.Name+"%"))
	}
	if len(q.Skills) > 0 {
		where = append(where, "skills && "+next(pq.Array(q.Skills)))
	}
	return where, func() []any { return args }, next
}

func queryLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func nullUUID(id common.UUID) sql.NullString {
	return sql.NullString{String: id.String(), Valid: !id.IsZero()}
}
