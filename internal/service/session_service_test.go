package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/hotspot-portal-api/internal/models"
	"github.com/campushub/hotspot-portal-api/internal/repository"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
)

// fakeSessionRepo mirrors the ledger semantics in memory: at most one
// open session per student, whole minutes credited on close.
type fakeSessionRepo struct {
	sessions map[string]*models.HotspotSession
	usage    map[string]int
	order    []string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[string]*models.HotspotSession),
		usage:    make(map[string]int),
	}
}

func (f *fakeSessionRepo) AcquireActive(_ context.Context, studentID, newID string, now time.Time) (*models.HotspotSession, bool, error) {
	for _, id := range f.order {
		s := f.sessions[id]
		if s.StudentID == studentID && s.EndTime == nil {
			existing := *s
			return &existing, true, nil
		}
	}
	session := &models.HotspotSession{ID: newID, StudentID: studentID, StartTime: now}
	f.sessions[newID] = session
	f.order = append(f.order, newID)
	created := *session
	return &created, false, nil
}

func (f *fakeSessionRepo) Close(_ context.Context, sessionID string, now time.Time) (*models.HotspotSession, int, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, 0, sql.ErrNoRows
	}
	if session.EndTime != nil {
		return nil, 0, repository.ErrSessionClosed
	}
	end := now
	session.EndTime = &end
	minutes := int(now.Sub(session.StartTime).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	f.usage[session.StudentID] += minutes
	closed := *session
	return &closed, minutes, nil
}

func (f *fakeSessionRepo) FindActiveByStudent(_ context.Context, studentID string) (*models.HotspotSession, error) {
	for _, id := range f.order {
		s := f.sessions[id]
		if s.StudentID == studentID && s.EndTime == nil {
			active := *s
			return &active, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSessionRepo) RecentByStudent(_ context.Context, studentID string, limit int) ([]models.HotspotSession, error) {
	var out []models.HotspotSession
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		s := f.sessions[f.order[i]]
		if s.StudentID == studentID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) activeCount(studentID string) int {
	count := 0
	for _, s := range f.sessions {
		if s.StudentID == studentID && s.EndTime == nil {
			count++
		}
	}
	return count
}

func newSessionServiceForTest(repo *fakeSessionRepo, clock *time.Time) *SessionService {
	svc := NewSessionService(repo, zap.NewNop(), SessionConfig{RecentLimit: 10, MaxRecentLimit: 100})
	return svc.WithClock(func() time.Time { return *clock })
}

func TestSessionServiceStartReusesActiveSession(t *testing.T) {
	repo := newFakeSessionRepo()
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := newSessionServiceForTest(repo, &clock)

	first, reused, err := svc.Start(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.False(t, reused)

	clock = clock.Add(10 * time.Minute)
	second, reused, err := svc.Start(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.StartTime, second.StartTime)
	assert.Equal(t, 1, repo.activeCount("stu-1"))
}

func TestSessionServiceLoginBrowseLogoutAccrual(t *testing.T) {
	repo := newFakeSessionRepo()
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := newSessionServiceForTest(repo, &clock)

	session, _, err := svc.Start(context.Background(), "stu-1")
	require.NoError(t, err)

	// Another page visit mid-session must not open a second session.
	clock = clock.Add(20 * time.Minute)
	_, reused, err := svc.Start(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.True(t, reused)

	// Logout 45m30s after login credits exactly 45 whole minutes.
	clock = session.StartTime.Add(45*time.Minute + 30*time.Second)
	result, err := svc.CloseForStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.True(t, result.Closed)
	assert.Equal(t, 45, result.Minutes)
	assert.Equal(t, 45, repo.usage["stu-1"])
	assert.Equal(t, 0, repo.activeCount("stu-1"))
}

func TestSessionServiceCloseAlreadyClosedIsNoOp(t *testing.T) {
	repo := newFakeSessionRepo()
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := newSessionServiceForTest(repo, &clock)

	session, _, err := svc.Start(context.Background(), "stu-1")
	require.NoError(t, err)

	clock = clock.Add(30 * time.Minute)
	first, err := svc.Close(context.Background(), session.ID)
	require.NoError(t, err)
	assert.True(t, first.Closed)

	// Usage must never be credited twice for the same session.
	clock = clock.Add(30 * time.Minute)
	second, err := svc.Close(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, second.Closed)
	assert.Equal(t, 30, repo.usage["stu-1"])
}

func TestSessionServiceCloseMissingSession(t *testing.T) {
	repo := newFakeSessionRepo()
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := newSessionServiceForTest(repo, &clock)

	_, err := svc.Close(context.Background(), "sess-x")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSessionServiceCloseForStudentWithoutActiveSession(t *testing.T) {
	repo := newFakeSessionRepo()
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := newSessionServiceForTest(repo, &clock)

	result, err := svc.CloseForStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.False(t, result.Closed)
}

func TestSessionServiceRecentClampsLimitAndComputesDurations(t *testing.T) {
	repo := newFakeSessionRepo()
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := NewSessionService(repo, zap.NewNop(), SessionConfig{RecentLimit: 2, MaxRecentLimit: 3}).
		WithClock(func() time.Time { return clock })

	for i := 0; i < 5; i++ {
		session, _, err := svc.Start(context.Background(), "stu-1")
		require.NoError(t, err)
		clock = clock.Add(15 * time.Minute)
		_, err = svc.Close(context.Background(), session.ID)
		require.NoError(t, err)
		clock = clock.Add(time.Minute)
	}

	// Zero limit falls back to the configured default.
	views, err := svc.Recent(context.Background(), "stu-1", 0)
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.False(t, views[0].Active)
	assert.Equal(t, 15, views[0].DurationMinutes)

	// Oversized limit is capped.
	views, err = svc.Recent(context.Background(), "stu-1", 50)
	require.NoError(t, err)
	assert.Len(t, views, 3)
}
