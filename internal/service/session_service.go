package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushub/hotspot-portal-api/internal/models"
	"github.com/campushub/hotspot-portal-api/internal/repository"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
)

type sessionRepository interface {
	AcquireActive(ctx context.Context, studentID, newID string, now time.Time) (*models.HotspotSession, bool, error)
	Close(ctx context.Context, sessionID string, now time.Time) (*models.HotspotSession, int, error)
	FindActiveByStudent(ctx context.Context, studentID string) (*models.HotspotSession, error)
	RecentByStudent(ctx context.Context, studentID string, limit int) ([]models.HotspotSession, error)
}

// SessionConfig tunes listing behaviour.
type SessionConfig struct {
	RecentLimit    int
	MaxRecentLimit int
}

// CloseResult reports the outcome of closing a session. Closed is false
// when the session had already been closed; per the idempotency rules
// that is not an error.
type CloseResult struct {
	Session *models.HotspotSession `json:"session,omitempty"`
	Minutes int                    `json:"minutes"`
	Closed  bool                   `json:"closed"`
}

// SessionService owns the usage session ledger: one active session per
// student, minutes accumulated on close.
type SessionService struct {
	repo   sessionRepository
	logger *zap.Logger
	config SessionConfig
	now    func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo sessionRepository, logger *zap.Logger, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RecentLimit <= 0 {
		config.RecentLimit = 10
	}
	if config.MaxRecentLimit <= 0 {
		config.MaxRecentLimit = 100
	}
	return &SessionService{repo: repo, logger: logger, config: config, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source, for tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Start opens a usage session for the student. When an active session
// already exists it is reused rather than duplicated, so the cumulative
// usage accounting stays coherent. The second return value reports reuse.
func (s *SessionService) Start(ctx context.Context, studentID string) (*models.HotspotSession, bool, error) {
	session, reused, err := s.repo.AcquireActive(ctx, studentID, uuid.NewString(), s.now())
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start session")
	}
	if reused {
		s.logger.Debug("reusing active session", zap.String("student_id", studentID), zap.String("session_id", session.ID))
	}
	return session, reused, nil
}

// Close stamps the end time on a session and credits the elapsed whole
// minutes to the student. Closing an already-closed session is a no-op.
func (s *SessionService) Close(ctx context.Context, sessionID string) (*CloseResult, error) {
	session, minutes, err := s.repo.Close(ctx, sessionID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrSessionClosed) {
			return &CloseResult{Closed: false}, nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close session")
	}
	return &CloseResult{Session: session, Minutes: minutes, Closed: true}, nil
}

// CloseForStudent closes the student's active session, if any. Used by
// logout, where having no open session is perfectly normal.
func (s *SessionService) CloseForStudent(ctx context.Context, studentID string) (*CloseResult, error) {
	active, err := s.repo.FindActiveByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &CloseResult{Closed: false}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to find active session")
	}
	return s.Close(ctx, active.ID)
}

// Recent returns the student's sessions newest first, capped at limit,
// with computed durations. A non-positive limit falls back to the
// configured default; the cap prevents unbounded scans.
func (s *SessionService) Recent(ctx context.Context, studentID string, limit int) ([]models.SessionView, error) {
	if limit <= 0 {
		limit = s.config.RecentLimit
	}
	if limit > s.config.MaxRecentLimit {
		limit = s.config.MaxRecentLimit
	}
	sessions, err := s.repo.RecentByStudent(ctx, studentID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	views := make([]models.SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, models.SessionView{
			HotspotSession:  session,
			Active:          session.Active(),
			DurationMinutes: session.DurationMinutes(),
		})
	}
	return views, nil
}
