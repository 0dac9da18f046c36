package entity

import "time"

// Line represents one approval step bound to a single approver at a fixed
// sequence position. Seq values are unique within a document.
type Line struct {
	ID          int64      `json:"id"`
	DocID       int64      `json:"doc_id"`
	Seq         int        `json:"seq"`
	ApproverID  string     `json:"approver_id"`
	Status      string     `json:"status"`
	Comment     string     `json:"comment,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsPending returns true if the line has not been processed yet
func (l *Line) IsPending() bool {
	return l.Status == LineStatusPending
}

// DeriveStatus computes the document status implied by its lines:
// REJECTED if any line is REJECTED, APPROVED if all lines are APPROVED,
// INPROGRESS otherwise. DRAFT is a lifecycle state, not derivable from lines.
func DeriveStatus(lines []*Line) string {
	allApproved := len(lines) > 0
	for _, l := range lines {
		switch l.Status {
		case LineStatusRejected:
			return StatusRejected
		case LineStatusApproved:
			// keep scanning
		default:
			allApproved = false
		}
	}
	if allApproved {
		return StatusApproved
	}
	return StatusInProgress
}

// NextActionable returns the PENDING line with the smallest seq, or nil if
// no line is pending. While a document is in progress exactly this line may
// be acted on.
func NextActionable(lines []*Line) *Line {
	var next *Line
	for _, l := range lines {
		if l.Status != LineStatusPending {
			continue
		}
		if next == nil || l.Seq < next.Seq {
			next = l
		}
	}
	return next
}
