package models

import "time"

// RequestStatus enumerates the access request lifecycle. Approved and
// rejected are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// HotspotRequest is one student's application for hotspot access.
type HotspotRequest struct {
	ID           string        `db:"id" json:"id"`
	StudentID    string        `db:"student_id" json:"student_id"`
	RequestTime  time.Time     `db:"request_time" json:"request_time"`
	Status       RequestStatus `db:"status" json:"status"`
	ApprovedBy   *string       `db:"approved_by" json:"approved_by,omitempty"`
	ApprovalTime *time.Time    `db:"approval_time" json:"approval_time,omitempty"`
}

// PendingRequest joins a pending request with the identity of the
// student who filed it, for the admin queue.
type PendingRequest struct {
	HotspotRequest
	AdmissionNumber string `db:"admission_number" json:"admission_number"`
	FullName        string `db:"full_name" json:"full_name"`
	Department      string `db:"department" json:"department"`
}
