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
	"junqo/internal/domain/offer"
)

type OfferRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerColumns = `id, user_id, title, description, status, offer_type, work_location_type,
	duration, salary, education_level, skills, benefits, view_count, created_at, updated_at`

func scanOffer(row interface{ Scan(...any) error }) (*offer.Offer, error) {
	var o offer.Offer
	var duration, salary sql.NullInt64
	var educationLevel sql.NullString
	err := row.Scan(&o.ID, &o.UserID, &o.Title, &o.Description, &o.Status, &o.OfferType,
		&o.WorkLocationType, &duration, &salary, &educationLevel,
		pq.Array(&o.Skills), pq.Array(&o.Benefits), &o.ViewCount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Duration = int(duration.Int64)
	o.Salary = int(salary.Int64)
	o.EducationLevel = educationLevel.String
	return &o, nil
}

func (r *OfferRepository) Create(ctx context.Context, o offer.Offer) (*offer.Offer, error) {
	o.ID = common.NewUUID()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO offers (id, user_id, title, description, status, offer_type,
		work_location_type, duration, salary, education_level, skills, benefits, view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		o.ID, o.UserID, o.Title, o.Description, o.Status, o.OfferType, o.WorkLocationType,
		nullInt(o.Duration), nullInt(o.Salary), nullString(o.EducationLevel),
		pq.Array(o.Skills), pq.Array(o.Benefits), o.ViewCount, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create offer", err)
	}
	return &o, nil
}

// Update rewrites the mutable columns inside a transaction so the
// read-modify-write of a single row is atomic.
func (r *OfferRepository) Update(ctx context.Context, o offer.Offer) (*offer.Offer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers
		WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, o.ID)
	current, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "offer not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load offer", err)
	}

	o.UserID = current.UserID
	o.ViewCount = current.ViewCount
	o.CreatedAt = current.CreatedAt
	o.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `UPDATE offers SET title = $1, description = $2, status = $3, offer_type = $4,
		work_location_type = $5, duration = $6, salary = $7, education_level = $8, skills = $9, benefits = $10,
		updated_at = $11 WHERE id = $12`,
		o.Title, o.Description, o.Status, o.OfferType, o.WorkLocationType,
		nullInt(o.Duration), nullInt(o.Salary), nullString(o.EducationLevel),
		pq.Array(o.Skills), pq.Array(o.Benefits), o.UpdatedAt, o.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update offer", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit offer update", err)
	}
	return &o, nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id common.UUID) (*offer.Offer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers
		WHERE id = $1 AND deleted_at IS NULL`, id)
	o, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "offer not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load offer", err)
	}
	return o, nil
}

func (r *OfferRepository) FindByQuery(ctx context.Context, q offer.Query) (*offer.QueryResult, error) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}
	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}
	if q.Title != "" {
		where = append(where, "title ILIKE "+next("%"+q.Title+"%"))
	}
	if q.Status != "" {
		where = append(where, "status = "+next(q.Status))
	}
	if q.OfferType != "" {
		where = append(where, "offer_type = "+next(q.OfferType))
	}
	if q.WorkLocationType != "" {
		where = append(where, "work_location_type = "+next(q.WorkLocationType))
	}
	if len(q.Skills) > 0 {
		where = append(where, "skills && "+next(pq.Array(q.Skills)))
	}
	if !q.UserID.IsZero() {
		where = append(where, "user_id = "+next(q.UserID))
	}
	condition := strings.Join(where, " AND ")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM offers WHERE `+condition, args...).Scan(&count); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count offers", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + offerColumns + ` FROM offers WHERE ` + condition +
		` ORDER BY created_at DESC LIMIT ` + next(limit) + ` OFFSET ` + next(q.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list offers", err)
	}
	defer rows.Close()

	result := &offer.QueryResult{Rows: []offer.Offer{}, Count: count}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan offer", err)
		}
		result.Rows = append(result.Rows, *o)
	}
	return result, nil
}

func (r *OfferRepository) SoftDelete(ctx context.Context, id common.UUID) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE offers SET status = $1, deleted_at = $2, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL`, offer.StatusDeleted, now, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete offer", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "offer not found", sql.ErrNoRows)
	}
	return nil
}

func (r *OfferRepository) IncrementViewCount(ctx context.Context, id common.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE offers SET view_count = view_count + 1
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to increment view count", err)
	}
	return nil
}

func (r *OfferRepository) MarkSeen(ctx context.Context, userID, offerID common.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO offers_seen (user_id, offer_id, seen_at)
		VALUES ($1, $2, $3) ON CONFLICT (user_id, offer_id) DO NOTHING`,
		userID, offerID, time.Now().UTC())
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to mark offer as seen", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to mark offer as seen", err)
	}
	return rows > 0, nil
}

func (r *OfferRepository) ListAppliedByStudent(ctx context.Context, studentID common.UUID) ([]offer.Offer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT o.id, o.user_id, o.title, o.description, o.status, o.offer_type,
		o.work_location_type, o.duration, o.salary, o.education_level, o.skills, o.benefits, o.view_count,
		o.created_at, o.updated_at
		FROM offers o
		JOIN applications a ON a.offer_id = o.id AND a.deleted_at IS NULL
		WHERE a.student_id = $1 AND o.deleted_at IS NULL
		ORDER BY a.created_at DESC`, studentID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applied offers", err)
	}
	defer rows.Close()
	var items []offer.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan offer", err)
		}
		items = append(items, *o)
	}
	return items, nil
}

func nullInt(value int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(value), Valid: value != 0}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
