package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campushub/hotspot-portal-api/internal/models"
)

// ErrSessionClosed marks an attempt to close a session that already has
// an end timestamp. Callers treat it as a harmless no-op.
var ErrSessionClosed = errors.New("session already closed")

// SessionRepository persists the usage session ledger. Multi-step
// mutations run inside a single transaction so elapsed minutes can
// never drift from the recorded sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// AcquireActive returns the student's active session, creating one with
// the provided id and start time when none exists. The active row is
// locked for the duration of the transaction; a partial unique index on
// (student_id) WHERE end_time IS NULL backstops the check-then-act.
func (r *SessionRepository) AcquireActive(ctx context.Context, studentID, newID string, now time.Time) (*models.HotspotSession, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin acquire session tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const selectActive = `SELECT id, student_id, start_time, end_time, data_used_mb
FROM hotspot_sessions WHERE student_id = $1 AND end_time IS NULL FOR UPDATE`
	var existing models.HotspotSession
	err = tx.GetContext(ctx, &existing, selectActive, studentID)
	switch {
	case err == nil:
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit acquire session tx: %w", err)
		}
		return &existing, true, nil
	case errors.Is(err, sql.ErrNoRows):
		// fall through to insert
	default:
		return nil, false, fmt.Errorf("find active session: %w", err)
	}

	session := models.HotspotSession{
		ID:        newID,
		StudentID: studentID,
		StartTime: now,
	}
	const insert = `INSERT INTO hotspot_sessions (id, student_id, start_time, data_used_mb)
VALUES (:id, :student_id, :start_time, :data_used_mb)`
	if _, err := tx.NamedExecContext(ctx, insert, session); err != nil {
		// Two concurrent first logins can both pass the empty select; the
		// loser trips the partial unique index and reuses the winner's row.
		if isUniqueViolation(err) {
			tx.Rollback() //nolint:errcheck
			existing, ferr := r.FindActiveByStudent(ctx, studentID)
			if ferr == nil {
				return existing, true, nil
			}
		}
		return nil, false, fmt.Errorf("create session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit acquire session tx: %w", err)
	}
	return &session, false, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Close stamps the end time on an active session and adds the elapsed
// whole minutes to the owning student's cumulative usage, atomically.
// Returns sql.ErrNoRows when the session does not exist and
// ErrSessionClosed when it was closed before.
func (r *SessionRepository) Close(ctx context.Context, sessionID string, now time.Time) (*models.HotspotSession, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin close session tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const selectSession = `SELECT id, student_id, start_time, end_time, data_used_mb
FROM hotspot_sessions WHERE id = $1 FOR UPDATE`
	var session models.HotspotSession
	if err := tx.GetContext(ctx, &session, selectSession, sessionID); err != nil {
		return nil, 0, err
	}
	if session.EndTime != nil {
		return nil, 0, ErrSessionClosed
	}

	minutes := int(now.Sub(session.StartTime).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	const closeSession = `UPDATE hotspot_sessions SET end_time = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, closeSession, sessionID, now); err != nil {
		return nil, 0, fmt.Errorf("close session: %w", err)
	}

	const addUsage = `UPDATE students
SET internet_usage_minutes = internet_usage_minutes + $2, updated_at = $3
WHERE id = $1`
	if _, err := tx.ExecContext(ctx, addUsage, session.StudentID, minutes, now); err != nil {
		return nil, 0, fmt.Errorf("accumulate usage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit close session tx: %w", err)
	}

	session.EndTime = &now
	return &session, minutes, nil
}

// FindActiveByStudent returns the student's open session, if any.
func (r *SessionRepository) FindActiveByStudent(ctx context.Context, studentID string) (*models.HotspotSession, error) {
	const query = `SELECT id, student_id, start_time, end_time, data_used_mb
FROM hotspot_sessions WHERE student_id = $1 AND end_time IS NULL`
	var session models.HotspotSession
	if err := r.db.GetContext(ctx, &session, query, studentID); err != nil {
		return nil, err
	}
	return &session, nil
}

// RecentByStudent lists a student's sessions newest first, capped at limit.
func (r *SessionRepository) RecentByStudent(ctx context.Context, studentID string, limit int) ([]models.HotspotSession, error) {
	const query = `SELECT id, student_id, start_time, end_time, data_used_mb
FROM hotspot_sessions WHERE student_id = $1 ORDER BY start_time DESC LIMIT $2`
	var sessions []models.HotspotSession
	if err := r.db.SelectContext(ctx, &sessions, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	return sessions, nil
}
