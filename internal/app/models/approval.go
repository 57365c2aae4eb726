package models

import "time"

// IdentityCredential defines a verified real person from the 'identities' table
type IdentityCredential struct {
	UID            int32  `json:"uid" db:"uid"`
	StudentID      string `json:"studentId" db:"student_id"`
	Realname       string `json:"realname" db:"realname"`
	IdentityNumber string `json:"-" db:"identity_number"`
	OACertified    bool   `json:"oaCertified" db:"oa_certified"`
}

// Approval defines an administrative sign-off from the 'approvals' table.
// CertStatus is not a column; it is computed against identities on every read.
type Approval struct {
	ID             int32      `json:"id" db:"id"`
	StudentID      string     `json:"studentId" db:"student_id"`
	Name           string     `json:"name" db:"name"`
	IdentityNumber *string    `json:"-" db:"identity_number"`
	ApprovedTime   *time.Time `json:"approvedTime" db:"approved_time"`
	College        string     `json:"college" db:"college"`
	Major          *string    `json:"major" db:"major"`
	CertStatus     bool       `json:"certStatus"`
}

// NewApproval holds what an administrator submits
type NewApproval struct {
	StudentID      string
	Name           string
	IdentityNumber *string
	ApprovedTime   *time.Time
	College        string
	Major          *string
}
