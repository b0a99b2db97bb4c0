package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/hotspot-portal-api/internal/models"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
)

type fakeAuthStudents struct {
	students   map[string]*models.Student
	lastLogins map[string]time.Time
}

func (f *fakeAuthStudents) FindByAdmissionNumber(_ context.Context, admissionNumber string) (*models.Student, error) {
	for _, s := range f.students {
		if s.AdmissionNumber == admissionNumber {
			copied := *s
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthStudents) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	f.lastLogins[id] = ts
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeAuthStudents, *fakeSessionRepo, *time.Time) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("studentpass"), bcrypt.MinCost)
	require.NoError(t, err)

	students := &fakeAuthStudents{
		students: map[string]*models.Student{
			"stu-1": {
				ID:              "stu-1",
				AdmissionNumber: "STD001",
				FullName:        "Jane Student",
				Email:           "jane@school.test",
				PasswordHash:    string(hash),
				Role:            models.RoleStudent,
				Active:          true,
			},
		},
		lastLogins: make(map[string]time.Time),
	}

	clock := time.Now().UTC().Truncate(time.Second)
	ledgerRepo := newFakeSessionRepo()
	sessions := NewSessionService(ledgerRepo, zap.NewNop(), SessionConfig{}).
		WithClock(func() time.Time { return clock })
	svc := NewAuthService(students, sessions, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: 12 * time.Hour,
		Issuer:      "hotspot-portal-api",
	}).WithClock(func() time.Time { return clock })
	return svc, students, ledgerRepo, &clock
}

func TestAuthServiceLoginIssuesTokenAndOpensSession(t *testing.T) {
	svc, students, ledger, clock := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		AdmissionNumber: "STD001",
		Password:        "studentpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64((12 * time.Hour).Seconds()), resp.ExpiresIn)
	assert.Equal(t, "STD001", resp.Student.AdmissionNumber)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 1, ledger.activeCount("stu-1"))
	assert.Equal(t, *clock, students.lastLogins["stu-1"])

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", claims.StudentID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginReattachesToActiveSession(t *testing.T) {
	svc, _, ledger, _ := newAuthFixture(t)

	first, err := svc.Login(context.Background(), models.LoginRequest{AdmissionNumber: "STD001", Password: "studentpass"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), models.LoginRequest{AdmissionNumber: "STD001", Password: "studentpass"})
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 1, ledger.activeCount("stu-1"))
}

func TestAuthServiceLoginFailureIsIndistinguishable(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{AdmissionNumber: "NOPE", Password: "studentpass"})
	_, wrongPassErr := svc.Login(context.Background(), models.LoginRequest{AdmissionNumber: "STD001", Password: "wrong"})

	assertAppErrorCode(t, unknownErr, appErrors.ErrAuthFailed.Code)
	assertAppErrorCode(t, wrongPassErr, appErrors.ErrAuthFailed.Code)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	svc, students, _, _ := newAuthFixture(t)
	students.students["stu-1"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{AdmissionNumber: "STD001", Password: "studentpass"})
	assertAppErrorCode(t, err, appErrors.ErrInactiveAccount.Code)
}

func TestAuthServiceLoginRejectsEmptyPayload(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{})
	assertAppErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestAuthServiceLogoutClosesSession(t *testing.T) {
	svc, _, ledger, clock := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{AdmissionNumber: "STD001", Password: "studentpass"})
	require.NoError(t, err)

	*clock = clock.Add(30*time.Minute + 45*time.Second)
	result, err := svc.Logout(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.True(t, result.Closed)
	assert.Equal(t, 30, result.Minutes)
	assert.Equal(t, 0, ledger.activeCount("stu-1"))
	require.NotNil(t, result.Session)
	assert.Equal(t, resp.SessionID, result.Session.ID)

	// Logging out again is a clean no-op.
	result, err = svc.Logout(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.False(t, result.Closed)
}

func TestAuthServiceValidateTokenRejectsForeignSignature(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	other, _, _, _ := newAuthFixture(t)
	other.config.TokenSecret = "other-secret"

	resp, err := other.Login(context.Background(), models.LoginRequest{AdmissionNumber: "STD001", Password: "studentpass"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assertAppErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}
