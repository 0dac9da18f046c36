package entity

// Status constants for Document
const (
	StatusDraft      = "DRAFT"
	StatusInProgress = "INPROGRESS"
	StatusApproved   = "APPROVED"
	StatusRejected   = "REJECTED"
)

// Status constants for Line
const (
	LineStatusPending  = "PENDING"
	LineStatusApproved = "APPROVED"
	LineStatusRejected = "REJECTED"
)

// Approval action constants
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)
