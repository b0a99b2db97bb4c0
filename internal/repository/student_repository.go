package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/hotspot-portal-api/internal/models"
)

const studentColumns = `id, admission_number, full_name, email, password_hash, department,
year_of_study, role, active, last_login, internet_usage_minutes, hotspot_access, created_at, updated_at`

// StudentRepository persists student identity records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID fetches a student by primary key.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByAdmissionNumber fetches a student by their login identifier.
func (r *StudentRepository) FindByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE admission_number = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, admissionNumber); err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns all students ordered by admission number.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students ORDER BY admission_number ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ExistsByAdmissionNumber reports whether another student already uses the admission number.
func (r *StudentRepository) ExistsByAdmissionNumber(ctx context.Context, admissionNumber, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM students WHERE admission_number = $1 AND id <> $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, admissionNumber, excludeID); err != nil {
		return false, fmt.Errorf("check admission number: %w", err)
	}
	return exists, nil
}

// ExistsByEmail reports whether another student already uses the email.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM students WHERE email = $1 AND id <> $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, excludeID); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (id, admission_number, full_name, email, password_hash, department,
year_of_study, role, active, internet_usage_minutes, hotspot_access, created_at, updated_at)
VALUES (:id, :admission_number, :full_name, :email, :password_hash, :department,
:year_of_study, :role, :active, :internet_usage_minutes, :hotspot_access, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a student record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET admission_number = :admission_number, full_name = :full_name,
email = :email, password_hash = :password_hash, department = :department, year_of_study = :year_of_study,
role = :role, active = :active, hotspot_access = :hotspot_access, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student and, via ON DELETE CASCADE, their sessions and requests.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateLastLogin stamps the most recent successful login.
func (r *StudentRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE students SET last_login = $2, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
