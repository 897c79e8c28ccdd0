package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"junqo/internal/common"
	"junqo/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, student_id, company_id, offer_id, status, created_at, updated_at`

func scanApplication(row interface{ Scan(...any) error }) (*application.Application, error) {
	var app application.Application
	err := row.Scan(&app.ID, &app.StudentID, &app.CompanyID, &app.OfferID, &app.Status,
		&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	app.Status = application.NormalizeStatus(app.Status)
	return &app, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, student_id, company_id, offer_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		app.ID, app.StudentID, app.CompanyID, app.OfferID, app.Status, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "application already exists for this offer", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE id = $1 AND deleted_at IS NULL`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) FindByQuery(ctx context.Context, q application.Query) (*application.QueryResult, error) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}
	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}
	if !q.StudentID.IsZero() {
		where = append(where, "student_id = "+next(q.StudentID))
	}
	if !q.CompanyID.IsZero() {
		where = append(where, "company_id = "+next(q.CompanyID))
	}
	if !q.OfferID.IsZero() {
		where = append(where, "offer_id = "+next(q.OfferID))
	}
	if q.Status != "" {
		where = append(where, "status = "+next(q.Status))
	}
	condition := strings.Join(where, " AND ")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications WHERE `+condition, args...).Scan(&count); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count applications", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE ` + condition +
		` ORDER BY created_at DESC LIMIT ` + next(limit) + ` OFFSET ` + next(q.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()

	result := &application.QueryResult{Rows: []application.Application{}, Count: count}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		result.Rows = append(result.Rows, *app)
	}
	return result, nil
}

func (r *ApplicationRepository) FindByOfferAndStudent(ctx context.Context, offerID, studentID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE offer_id = $1 AND student_id = $2 AND deleted_at IS NULL`, offerID, studentID)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

// UpdateStatus rewrites the status inside a transaction so the row's
// read-modify-write is atomic; cross-entity side effects stay outside it.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}

	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`,
		app.Status, app.UpdatedAt, app.ID); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit application update", err)
	}
	return app, nil
}

func (r *ApplicationRepository) SoftDelete(ctx context.Context, id common.UUID) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL`, now, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return nil
}

func (r *ApplicationRepository) CountByOffer(ctx context.Context, offerID common.UUID) (*application.StatusCounts, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE status = $2),
		COUNT(*) FILTER (WHERE status = $3),
		COUNT(*) FILTER (WHERE status = $4)
		FROM applications WHERE offer_id = $1 AND deleted_at IS NULL`,
		offerID, application.StatusPending, application.StatusAccepted, application.StatusDenied)
	var counts application.StatusCounts
	if err := row.Scan(&counts.Total, &counts.Pending, &counts.Accepted, &counts.Denied); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	return &counts, nil
}
