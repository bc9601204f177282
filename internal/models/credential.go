package models

import "time"

// Status is the registry verdict attached to a credential.
type Status string

const (
	StatusVerified Status = "Verified"
	StatusPending  Status = "Pending"
	StatusRejected Status = "Rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusVerified, StatusPending, StatusRejected:
		return true
	}
	return false
}

// CredentialRecord is one row of the static credential table.
type CredentialRecord struct {
	ID          string    `json:"id"`
	StudentName string    `json:"student_name"`
	Institution string    `json:"institution"`
	Degree      string    `json:"degree"`
	IssueDate   time.Time `json:"issue_date"`
	Status      Status    `json:"status"`
	Fingerprint string    `json:"fingerprint"`
}

// VerificationResult is produced by a single pipeline run and never stored.
type VerificationResult struct {
	CredentialRecord
	VerificationDate  time.Time `json:"verification_date"`
	SecuritySealValid bool      `json:"security_seal_valid"`
}

// DateLayout is the display format for issue and verification dates.
const DateLayout = "2006-01-02"

// Activity is a row in the dashboard's recent activity feed.
type Activity struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Activity  string    `json:"activity"`
	Status    string    `json:"status"`
}
