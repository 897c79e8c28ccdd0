package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"junqo/internal/common"
	"junqo/internal/domain/profile"
)

type ExperienceRepository struct {
	db *sql.DB
}

func NewExperienceRepository(db *sql.DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

const experienceColumns = `id, student_profile_id, title, company, start_date, end_date,
	description, skills, created_at, updated_at`

func scanExperience(row interface{ Scan(...any) error }) (*profile.Experience, error) {
	var e profile.Experience
	var endDate, description sql.NullString
	err := row.Scan(&e.ID, &e.StudentProfileID, &e.Title, &e.Company, &e.StartDate, &endDate,
		&description, pq.Array(&e.Skills), &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.EndDate = endDate.String
	e.Description = description.String
	return &e, nil
}

func (r *ExperienceRepository) Create(ctx context.Context, e profile.Experience) (*profile.Experience, error) {
	e.ID = common.NewUUID()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Skills == nil {
		e.Skills = []string{}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO experiences (id, student_profile_id, title, company, start_date,
		end_date, description, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.StudentProfileID, e.Title, e.Company, e.StartDate, nullString(e.EndDate),
		nullString(e.Description), pq.Array(e.Skills), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create experience", err)
	}
	return &e, nil
}

func (r *ExperienceRepository) GetByID(ctx context.Context, id common.UUID) (*profile.Experience, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id = $1`, id)
	e, err := scanExperience(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "experience not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load experience", err)
	}
	return e, nil
}

func (r *ExperienceRepository) ListByProfile(ctx context.Context, studentProfileID common.UUID) ([]profile.Experience, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+experienceColumns+` FROM experiences
		WHERE student_profile_id = $1 ORDER BY start_date DESC`, studentProfileID)
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

func (r *ExperienceRepository) Update(ctx context.Context, e profile.Experience) (*profile.Experience, error) {
	e.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE experiences SET title = $1, company = $2, start_date = $3,
		end_date = $4, description = $5, skills = $6, updated_at = $7 WHERE id = $8`,
		e.Title, e.Company, e.StartDate, nullString(e.EndDate), nullString(e.Description),
		pq.Array(e.Skills), e.UpdatedAt, e.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update experience", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "experience not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, e.ID)
}

func (r *ExperienceRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete experience", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "experience not found", sql.ErrNoRows)
	}
	return nil
}
