package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/hotspot-portal-api/internal/models"
)

var (
	// ErrDuplicatePending marks an insert that lost to an existing pending request.
	ErrDuplicatePending = errors.New("pending request already exists")
	// ErrRequestDecided marks an approve/reject on a request that is no
	// longer pending. Callers treat it as a harmless no-op.
	ErrRequestDecided = errors.New("request already decided")
)

const requestColumns = `id, student_id, request_time, status, approved_by, approval_time`

// RequestRepository persists the hotspot access request workflow.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs the repository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a pending request. The partial unique index on
// (student_id) WHERE status = 'pending' makes concurrent submissions
// single-winner; a lost insert surfaces as ErrDuplicatePending.
func (r *RequestRepository) Create(ctx context.Context, request *models.HotspotRequest) error {
	const query = `INSERT INTO hotspot_requests (id, student_id, request_time, status)
VALUES ($1, $2, $3, $4)
ON CONFLICT (student_id) WHERE status = 'pending' DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, request.ID, request.StudentID, request.RequestTime, request.Status)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if affected == 0 {
		return ErrDuplicatePending
	}
	return nil
}

// HasPending reports whether the student already has a pending request.
func (r *RequestRepository) HasPending(ctx context.Context, studentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM hotspot_requests WHERE student_id = $1 AND status = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, models.RequestPending); err != nil {
		return false, fmt.Errorf("check pending request: %w", err)
	}
	return exists, nil
}

// FindLatestByStudent returns the student's most recent request by request time.
func (r *RequestRepository) FindLatestByStudent(ctx context.Context, studentID string) (*models.HotspotRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM hotspot_requests
WHERE student_id = $1 ORDER BY request_time DESC LIMIT 1`, requestColumns)
	var request models.HotspotRequest
	if err := r.db.GetContext(ctx, &request, query, studentID); err != nil {
		return nil, err
	}
	return &request, nil
}

// ListPending returns the admin triage queue joined with student identity.
func (r *RequestRepository) ListPending(ctx context.Context) ([]models.PendingRequest, error) {
	const query = `SELECT r.id, r.student_id, r.request_time, r.status, r.approved_by, r.approval_time,
s.admission_number, s.full_name, s.department
FROM hotspot_requests r
JOIN students s ON s.id = r.student_id
WHERE r.status = $1
ORDER BY r.request_time ASC`
	var requests []models.PendingRequest
	if err := r.db.SelectContext(ctx, &requests, query, models.RequestPending); err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return requests, nil
}

// Approve transitions a pending request to approved and grants the owning
// student hotspot access in the same transaction. The conditional UPDATE
// makes concurrent approvals single-winner: the loser observes the
// non-pending row and gets ErrRequestDecided; a missing request surfaces
// as sql.ErrNoRows.
func (r *RequestRepository) Approve(ctx context.Context, requestID, approverID string, now time.Time) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin approve tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const decide = `UPDATE hotspot_requests
SET status = $2, approved_by = $3, approval_time = $4
WHERE id = $1 AND status = $5
RETURNING student_id`
	var studentID string
	err = tx.GetContext(ctx, &studentID, decide, requestID, models.RequestApproved, approverID, now, models.RequestPending)
	if errors.Is(err, sql.ErrNoRows) {
		return "", r.classifyDecided(ctx, tx, requestID)
	}
	if err != nil {
		return "", fmt.Errorf("approve request: %w", err)
	}

	const grant = `UPDATE students SET hotspot_access = TRUE, updated_at = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, grant, studentID, now); err != nil {
		return "", fmt.Errorf("grant hotspot access: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit approve tx: %w", err)
	}
	return studentID, nil
}

// Reject transitions a pending request to rejected. The student's access
// flag is never touched. Idempotency rules match Approve.
func (r *RequestRepository) Reject(ctx context.Context, requestID string) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin reject tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const decide = `UPDATE hotspot_requests SET status = $2 WHERE id = $1 AND status = $3 RETURNING student_id`
	var studentID string
	err = tx.GetContext(ctx, &studentID, decide, requestID, models.RequestRejected, models.RequestPending)
	if errors.Is(err, sql.ErrNoRows) {
		return "", r.classifyDecided(ctx, tx, requestID)
	}
	if err != nil {
		return "", fmt.Errorf("reject request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit reject tx: %w", err)
	}
	return studentID, nil
}

// classifyDecided distinguishes a missing request from one that has
// already left the pending state.
func (r *RequestRepository) classifyDecided(ctx context.Context, tx *sqlx.Tx, requestID string) error {
	const query = `SELECT status FROM hotspot_requests WHERE id = $1`
	var status models.RequestStatus
	if err := tx.GetContext(ctx, &status, query, requestID); err != nil {
		return err
	}
	return ErrRequestDecided
}
