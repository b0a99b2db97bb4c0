package models

import "time"

// StudentRole distinguishes portal administrators from regular students.
type StudentRole string

const (
	RoleAdmin   StudentRole = "ADMIN"
	RoleStudent StudentRole = "STUDENT"
)

// Student represents a learner (or administrator) registered in the portal.
type Student struct {
	ID                   string      `db:"id" json:"id"`
	AdmissionNumber      string      `db:"admission_number" json:"admission_number"`
	FullName             string      `db:"full_name" json:"full_name"`
	Email                string      `db:"email" json:"email"`
	PasswordHash         string      `db:"password_hash" json:"-"`
	Department           string      `db:"department" json:"department"`
	YearOfStudy          int         `db:"year_of_study" json:"year_of_study"`
	Role                 StudentRole `db:"role" json:"role"`
	Active               bool        `db:"active" json:"active"`
	LastLogin            *time.Time  `db:"last_login" json:"last_login,omitempty"`
	InternetUsageMinutes int         `db:"internet_usage_minutes" json:"internet_usage_minutes"`
	HotspotAccess        bool        `db:"hotspot_access" json:"hotspot_access"`
	CreatedAt            time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at" json:"updated_at"`
}
