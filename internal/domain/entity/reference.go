package entity

// Reference represents a non-approving watcher on a document. References
// carry no status and no ordering; they receive a notification only when
// the document completes.
type Reference struct {
	ID           int64  `json:"id"`
	DocID        int64  `json:"doc_id"`
	ReferencerID string `json:"referencer_id"`
}
