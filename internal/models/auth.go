package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims carries the authenticated identity through the request.
type JWTClaims struct {
	StudentID       string      `json:"student_id"`
	AdmissionNumber string      `json:"admission_number"`
	FullName        string      `json:"full_name"`
	Role            StudentRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	AdmissionNumber string `json:"admission_number" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token plus the student identity and
// the usage session opened by the login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	Student     StudentInfo `json:"student"`
	SessionID   string      `json:"session_id"`
}

// StudentInfo is the public subset of a student record.
type StudentInfo struct {
	ID              string      `json:"id"`
	AdmissionNumber string      `json:"admission_number"`
	FullName        string      `json:"full_name"`
	Email           string      `json:"email"`
	Role            StudentRole `json:"role"`
	HotspotAccess   bool        `json:"hotspot_access"`
}
