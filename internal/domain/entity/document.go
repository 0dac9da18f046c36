package entity

import "time"

// Document represents an approval document aggregate header.
// Details is the originating form's payload; the engine stores and forwards
// it verbatim and never parses it.
type Document struct {
	ID          int64      `json:"id"`
	TemplateKey string     `json:"template_key"`
	Title       string     `json:"title"`
	DrafterID   string     `json:"drafter_id"`
	Details     string     `json:"details"`
	Status      string     `json:"status"`
	DocNumber   string     `json:"doc_number,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsDraft returns true if the document has never been submitted or was recalled
func (d *Document) IsDraft() bool {
	return d.Status == StatusDraft
}

// IsInProgress returns true if the document is awaiting approval
func (d *Document) IsInProgress() bool {
	return d.Status == StatusInProgress
}

// IsTerminal returns true if the document reached a final state
func (d *Document) IsTerminal() bool {
	return d.Status == StatusApproved || d.Status == StatusRejected
}
