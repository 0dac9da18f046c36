package entity

import "time"

// Bookmark marks a document as pinned by an employee. At most one bookmark
// exists per (document, employee) pair.
type Bookmark struct {
	ID         int64     `json:"id"`
	DocID      int64     `json:"doc_id"`
	EmployeeID string    `json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
