package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/hotspot-portal-api/internal/models"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
)

type authStudentRepository interface {
	FindByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
}

type sessionLedger interface {
	Start(ctx context.Context, studentID string) (*models.HotspotSession, bool, error)
	CloseForStudent(ctx context.Context, studentID string) (*CloseResult, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// AuthService verifies credentials and issues access tokens. Logging in
// opens a usage session; logging out closes it and credits the minutes.
type AuthService struct {
	students  authStudentRepository
	sessions  sessionLedger
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students authStudentRepository, sessions sessionLedger, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		students:  students,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source, for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login authenticates a student by admission number and password. The
// failure message never distinguishes an unknown admission number from a
// wrong password, to avoid account enumeration.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	student, err := s.students.FindByAdmissionNumber(ctx, req.AdmissionNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAuthFailed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrAuthFailed
	}

	if !student.Active {
		return nil, appErrors.ErrInactiveAccount
	}

	loginAt := s.now()
	if err := s.students.UpdateLastLogin(ctx, student.ID, loginAt); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	session, reused, err := s.sessions.Start(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if reused {
		s.logger.Info("login reattached to active session",
			zap.String("student_id", student.ID),
			zap.String("session_id", session.ID))
	}

	token, err := s.generateToken(student, loginAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:    loginAt,
		SessionID:   session.ID,
		Student: models.StudentInfo{
			ID:              student.ID,
			AdmissionNumber: student.AdmissionNumber,
			FullName:        student.FullName,
			Email:           student.Email,
			Role:            student.Role,
			HotspotAccess:   student.HotspotAccess,
		},
	}, nil
}

// Logout closes the student's active usage session, crediting the
// elapsed minutes. A student with no open session logs out cleanly.
func (s *AuthService) Logout(ctx context.Context, studentID string) (*CloseResult, error) {
	result, err := s.sessions.CloseForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if result.Closed {
		s.logger.Info("usage session closed on logout",
			zap.String("student_id", studentID),
			zap.Int("minutes", result.Minutes))
	}
	return result, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateToken(student *models.Student, issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		StudentID:       student.ID,
		AdmissionNumber: student.AdmissionNumber,
		FullName:        student.FullName,
		Role:            student.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   student.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}
