package entity

import "time"

// Attachment represents attachment metadata. The file content lives in the
// external file store; the engine persists only the storage key.
type Attachment struct {
	ID           int64     `json:"id"`
	DocID        int64     `json:"doc_id"`
	StorageKey   string    `json:"storage_key"`
	OriginalName string    `json:"original_name"`
	CreatedAt    time.Time `json:"created_at"`
}
