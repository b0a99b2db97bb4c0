package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushub/hotspot-portal-api/internal/models"
	"github.com/campushub/hotspot-portal-api/internal/repository"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
)

type requestRepository interface {
	Create(ctx context.Context, request *models.HotspotRequest) error
	HasPending(ctx context.Context, studentID string) (bool, error)
	FindLatestByStudent(ctx context.Context, studentID string) (*models.HotspotRequest, error)
	ListPending(ctx context.Context) ([]models.PendingRequest, error)
	Approve(ctx context.Context, requestID, approverID string, now time.Time) (string, error)
	Reject(ctx context.Context, requestID string) (string, error)
}

type accessStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// AccessStatus summarises the student's position in the request workflow.
type AccessStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Request *models.HotspotRequest `json:"request,omitempty"`
}

// AccessStatusNone is the sentinel status for students who never filed a request.
const AccessStatusNone = "none"

// AccessService orchestrates the hotspot access request workflow:
// pending requests, admin approval granting access, terminal rejection.
type AccessService struct {
	requests requestRepository
	students accessStudentReader
	logger   *zap.Logger
	now      func() time.Time
}

// NewAccessService constructs an AccessService.
func NewAccessService(requests requestRepository, students accessStudentReader, logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{requests: requests, students: students, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source, for tests.
func (s *AccessService) WithClock(now func() time.Time) *AccessService {
	s.now = now
	return s
}

// Submit files a new pending request for the student. Students who
// already hold access or already have a pending request are refused.
func (s *AccessService) Submit(ctx context.Context, studentID string) (*models.HotspotRequest, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.HotspotAccess {
		return nil, appErrors.ErrAlreadyGranted
	}

	pending, err := s.requests.HasPending(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending requests")
	}
	if pending {
		return nil, appErrors.ErrDuplicatePending
	}

	request := &models.HotspotRequest{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		RequestTime: s.now(),
		Status:      models.RequestPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		if errors.Is(err, repository.ErrDuplicatePending) {
			return nil, appErrors.ErrDuplicatePending
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}
	return request, nil
}

// Status reports the most recent request for the student, with the
// user-facing message the portal shows on the request page.
func (s *AccessService) Status(ctx context.Context, studentID string) (*AccessStatus, error) {
	request, err := s.requests.FindLatestByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &AccessStatus{Status: AccessStatusNone, Message: "No active hotspot access"}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}

	status := &AccessStatus{Status: string(request.Status), Request: request}
	switch request.Status {
	case models.RequestApproved:
		// ApprovalTime is nullable in the schema even for approved rows.
		status.Message = "Hotspot Access Approved"
		if request.ApprovalTime != nil {
			status.Message = fmt.Sprintf("Hotspot Access Approved (on %s)", request.ApprovalTime.Format("2006-01-02"))
		}
	case models.RequestPending:
		status.Message = "Hotspot Access Pending Approval"
	default:
		// Rejection is terminal for the request, not for the student.
		status.Message = "Last request was rejected"
	}
	return status, nil
}

// Pending lists the admin triage queue.
func (s *AccessService) Pending(ctx context.Context) ([]models.PendingRequest, error) {
	requests, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending requests")
	}
	return requests, nil
}

// Approve grants the request and flips the owning student's access flag,
// atomically. Approving a request that is no longer pending is a no-op
// so double-clicked admin buttons never double-grant.
func (s *AccessService) Approve(ctx context.Context, requestID, approverID string) error {
	studentID, err := s.requests.Approve(ctx, requestID, approverID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrRequestDecided) {
			s.logger.Debug("approve skipped, request already decided", zap.String("request_id", requestID))
			return nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve request")
	}
	s.logger.Info("hotspot access approved",
		zap.String("request_id", requestID),
		zap.String("student_id", studentID),
		zap.String("approved_by", approverID))
	return nil
}

// Reject marks the request rejected. The student's access flag is never
// touched and the student remains free to submit again later.
func (s *AccessService) Reject(ctx context.Context, requestID string) error {
	studentID, err := s.requests.Reject(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestDecided) {
			s.logger.Debug("reject skipped, request already decided", zap.String("request_id", requestID))
			return nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject request")
	}
	s.logger.Info("hotspot access rejected",
		zap.String("request_id", requestID),
		zap.String("student_id", studentID))
	return nil
}
