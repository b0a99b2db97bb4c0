package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/hotspot-portal-api/internal/models"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
	"github.com/campushub/hotspot-portal-api/pkg/export"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	ExistsByAdmissionNumber(ctx context.Context, admissionNumber, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type studentSessionReader interface {
	RecentByStudent(ctx context.Context, studentID string, limit int) ([]models.HotspotSession, error)
}

// CreateStudentRequest is the admin provisioning payload.
type CreateStudentRequest struct {
	AdmissionNumber string `json:"admission_number" validate:"required,max=20"`
	FullName        string `json:"full_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=100"`
	Password        string `json:"password" validate:"required,min=8"`
	Department      string `json:"department" validate:"required,max=50"`
	YearOfStudy     int    `json:"year_of_study" validate:"min=0,max=6"`
	HotspotAccess   bool   `json:"hotspot_access"`
}

// UpdateStudentRequest rewrites a student record. A blank password keeps
// the current hash.
type UpdateStudentRequest struct {
	AdmissionNumber string `json:"admission_number" validate:"required,max=20"`
	FullName        string `json:"full_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=100"`
	Password        string `json:"password" validate:"omitempty,min=8"`
	Department      string `json:"department" validate:"required,max=50"`
	YearOfStudy     int    `json:"year_of_study" validate:"min=0,max=6"`
	Active          bool   `json:"active"`
	HotspotAccess   bool   `json:"hotspot_access"`
}

// UsageReportFormat selects the export rendering.
type UsageReportFormat string

const (
	UsageReportCSV UsageReportFormat = "csv"
	UsageReportPDF UsageReportFormat = "pdf"
)

// UsageReport bundles rendered export bytes with transport metadata.
type UsageReport struct {
	Content     []byte
	ContentType string
	Filename    string
}

const usageReportSessionCap = 1000

// StudentService covers admin provisioning of student records and the
// usage report export.
type StudentService struct {
	repo      studentRepository
	sessions  studentSessionReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, sessions studentSessionReader, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:      repo,
		sessions:  sessions,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// List returns every student record.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get fetches one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create provisions a new student with a hashed password. Admission
// number and email must be unique.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := s.ensureUnique(ctx, req.AdmissionNumber, req.Email, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	student := &models.Student{
		ID:              uuid.NewString(),
		AdmissionNumber: req.AdmissionNumber,
		FullName:        req.FullName,
		Email:           req.Email,
		PasswordHash:    string(hash),
		Department:      req.Department,
		YearOfStudy:     req.YearOfStudy,
		Role:            models.RoleStudent,
		Active:          true,
		HotspotAccess:   req.HotspotAccess,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update rewrites a student record, rehashing the password when one is supplied.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, req.AdmissionNumber, req.Email, id); err != nil {
		return nil, err
	}

	student.AdmissionNumber = req.AdmissionNumber
	student.FullName = req.FullName
	student.Email = req.Email
	student.Department = req.Department
	student.YearOfStudy = req.YearOfStudy
	student.Active = req.Active
	student.HotspotAccess = req.HotspotAccess
	student.UpdatedAt = time.Now().UTC()

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		student.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student record entirely.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

// UsageReport renders a student's session history and totals as CSV or PDF.
func (s *StudentService) UsageReport(ctx context.Context, id string, format UsageReportFormat) (*UsageReport, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.RecentByStudent(ctx, id, usageReportSessionCap)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}

	dataset := export.Dataset{
		Headers: []string{"Start Time", "End Time", "Duration (min)"},
		Rows:    make([]map[string]string, 0, len(sessions)),
	}
	for _, session := range sessions {
		row := map[string]string{
			"Start Time":     session.StartTime.Format("2006-01-02 15:04:05"),
			"End Time":       "Active",
			"Duration (min)": "-",
		}
		if session.EndTime != nil {
			row["End Time"] = session.EndTime.Format("2006-01-02 15:04:05")
			row["Duration (min)"] = strconv.Itoa(session.DurationMinutes())
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	switch format {
	case UsageReportCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &UsageReport{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("usage-%s.csv", student.AdmissionNumber),
		}, nil
	case UsageReportPDF:
		summary := []string{
			fmt.Sprintf("Student: %s (%s)", student.FullName, student.AdmissionNumber),
			fmt.Sprintf("Total minutes used: %d", student.InternetUsageMinutes),
		}
		content, err := s.pdf.Render(dataset, "Hotspot Usage Report", summary...)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &UsageReport{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("usage-%s.pdf", student.AdmissionNumber),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
}

func (s *StudentService) ensureUnique(ctx context.Context, admissionNumber, email, excludeID string) error {
	taken, err := s.repo.ExistsByAdmissionNumber(ctx, admissionNumber, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admission number")
	}
	if taken {
		return appErrors.Clone(appErrors.ErrConflict, "admission number already in use")
	}
	taken, err = s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if taken {
		return appErrors.Clone(appErrors.ErrConflict, "email already in use")
	}
	return nil
}
