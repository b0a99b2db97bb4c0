package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/hotspot-portal-api/internal/models"
	"github.com/campushub/hotspot-portal-api/internal/repository"
	"github.com/campushub/hotspot-portal-api/internal/service"
)

type stubSessions struct {
	sessions map[string]*models.HotspotSession
	order    []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: make(map[string]*models.HotspotSession)}
}

func (s *stubSessions) AcquireActive(_ context.Context, studentID, newID string, now time.Time) (*models.HotspotSession, bool, error) {
	for _, id := range s.order {
		existing := s.sessions[id]
		if existing.StudentID == studentID && existing.EndTime == nil {
			copied := *existing
			return &copied, true, nil
		}
	}
	session := &models.HotspotSession{ID: newID, StudentID: studentID, StartTime: now}
	s.sessions[newID] = session
	s.order = append(s.order, newID)
	copied := *session
	return &copied, false, nil
}

func (s *stubSessions) Close(_ context.Context, sessionID string, now time.Time) (*models.HotspotSession, int, error) {
	session, ok := s.sessions[sessionID]
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
	copied := *session
	return &copied, minutes, nil
}

func (s *stubSessions) FindActiveByStudent(_ context.Context, studentID string) (*models.HotspotSession, error) {
	for _, id := range s.order {
		session := s.sessions[id]
		if session.StudentID == studentID && session.EndTime == nil {
			copied := *session
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubSessions) RecentByStudent(_ context.Context, studentID string, limit int) ([]models.HotspotSession, error) {
	var out []models.HotspotSession
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		session := s.sessions[s.order[i]]
		if session.StudentID == studentID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func newProfileRouter(students *stubStudents, requests *stubRequests, sessions *stubSessions, claims *models.JWTClaims) *gin.Engine {
	studentSvc := service.NewStudentService(students, sessions, validator.New(), zap.NewNop())
	sessionSvc := service.NewSessionService(sessions, zap.NewNop(), service.SessionConfig{RecentLimit: 10, MaxRecentLimit: 100})
	accessSvc := service.NewAccessService(requests, students, zap.NewNop())
	h := NewProfileHandler(studentSvc, sessionSvc, accessSvc)

	router := gin.New()
	group := router.Group("/", withClaims(claims))
	group.GET("/me", h.Me)
	group.GET("/me/sessions", h.Sessions)
	group.GET("/me/access", h.AccessStatus)
	group.POST("/me/access/request", h.SubmitRequest)
	return router
}

func TestProfileHandlerMe(t *testing.T) {
	students, requests := newWorkflowStubs()
	students.students["stu-1"].InternetUsageMinutes = 75
	router := newProfileRouter(students, requests, newStubSessions(), studentClaims())

	w := perform(router, http.MethodGet, "/me")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"internet_usage_minutes":75`)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestProfileHandlerSessionsListsHistory(t *testing.T) {
	students, requests := newWorkflowStubs()
	sessions := newStubSessions()
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	_, _, err := sessions.AcquireActive(context.Background(), "stu-1", "sess-1", start)
	require.NoError(t, err)
	_, _, err = sessions.Close(context.Background(), "sess-1", start.Add(25*time.Minute))
	require.NoError(t, err)
	router := newProfileRouter(students, requests, sessions, studentClaims())

	w := perform(router, http.MethodGet, "/me/sessions")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"duration_minutes":25`)
}

func TestProfileHandlerSessionsRejectsBadLimit(t *testing.T) {
	students, requests := newWorkflowStubs()
	router := newProfileRouter(students, requests, newStubSessions(), studentClaims())

	w := perform(router, http.MethodGet, "/me/sessions?limit=soon")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandlerAccessStatusNone(t *testing.T) {
	students, requests := newWorkflowStubs()
	router := newProfileRouter(students, requests, newStubSessions(), studentClaims())

	w := perform(router, http.MethodGet, "/me/access")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No active hotspot access")
}

func TestProfileHandlerSubmitRequest(t *testing.T) {
	students, requests := newWorkflowStubs()
	router := newProfileRouter(students, requests, newStubSessions(), studentClaims())

	w := perform(router, http.MethodPost, "/me/access/request")
	assert.Equal(t, http.StatusCreated, w.Code)

	// A second submission while one is pending conflicts.
	w = perform(router, http.MethodPost, "/me/access/request")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProfileHandlerRequiresClaims(t *testing.T) {
	students, requests := newWorkflowStubs()
	router := newProfileRouter(students, requests, newStubSessions(), nil)

	w := perform(router, http.MethodGet, "/me")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
