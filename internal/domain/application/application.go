package application

import (
	"context"
	"strings"
	"time"

	"junqo/internal/common"
)

type Status string

const (
	// The company has not opened the application yet.
	StatusNotOpened Status = "NOT_OPENED"
	// The company has opened the application.
	StatusPending Status = "PENDING"
	// The company rejected the application.
	StatusDenied Status = "DENIED"
	// The company accepted the application.
	StatusAccepted Status = "ACCEPTED"
	// The company expressed interest before the student applied.
	StatusPreAccepted Status = "PRE_ACCEPTED"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusNotOpened, StatusPending, StatusDenied, StatusAccepted, StatusPreAccepted:
		return true
	default:
		return false
	}
}

func NormalizeStatus(s Status) Status {
	return Status(strings.ToUpper(strings.TrimSpace(string(s))))
}

// Terminal reports whether no further company decision is expected.
func Terminal(s Status) bool {
	return s == StatusAccepted || s == StatusDenied
}

type Application struct {
	ID        common.UUID `json:"id"`
	StudentID common.UUID `json:"student_id"`
	CompanyID common.UUID `json:"company_id"`
	OfferID   common.UUID `json:"offer_id"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	DeletedAt *time.Time  `json:"deleted_at,omitempty"`
}

type Query struct {
	StudentID common.UUID
	CompanyID common.UUID
	OfferID   common.UUID
	Status    Status
	Offset    int
	Limit     int
}

type QueryResult struct {
	Rows  []Application `json:"rows"`
	Count int           `json:"count"`
}

type BulkResult struct {
	Updated    int           `json:"updated"`
	Failed     int           `json:"failed"`
	UpdatedIDs []common.UUID `json:"updated_ids"`
	FailedIDs  []common.UUID `json:"failed_ids"`
}

// StatusCounts carries per-status application counts for one offer.
type StatusCounts struct {
	Total    int
	Pending  int
	Accepted int
	Denied   int
}

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByQuery(ctx context.Context, q Query) (*QueryResult, error)
	FindByOfferAndStudent(ctx context.Context, offerID, studentID common.UUID) (*Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Application, error)
	SoftDelete(ctx context.Context, id common.UUID) error
	CountByOffer(ctx context.Context, offerID common.UUID) (*StatusCounts, error)
}
