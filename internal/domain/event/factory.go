package event

// NewCompleted builds the event emitted when every line of a document is
// approved. It carries the opaque details payload verbatim so subscribers
// need no back-reference into the document store.
func NewCompleted(docID int64, templateKey, details, drafterID, title, docNumber string, referencers []string) *Event {
	return NewEvent(TypeCompleted, docID, templateKey, map[string]interface{}{
		KeyDetails:     details,
		KeyDrafterID:   drafterID,
		KeyTitle:       title,
		KeyDocNumber:   docNumber,
		KeyReferencers: referencers,
	})
}

// NewRejected builds the event emitted when a line rejects a document
func NewRejected(docID int64, templateKey, details, drafterID, comment string) *Event {
	return NewEvent(TypeRejected, docID, templateKey, map[string]interface{}{
		KeyDetails:   details,
		KeyDrafterID: drafterID,
		KeyComment:   comment,
	})
}

// NewRequested builds the lightweight event addressed to the approver whose
// line just became actionable
func NewRequested(docID int64, templateKey, title, approverID string, lineID int64, seq int) *Event {
	return NewEvent(TypeRequested, docID, templateKey, map[string]interface{}{
		KeyTitle:      title,
		KeyApproverID: approverID,
		KeyLineID:     lineID,
		KeySeq:        seq,
	})
}

// NewRecalled builds the event emitted when the drafter pulls an
// in-progress document back to draft
func NewRecalled(docID int64, templateKey, title, drafterID string) *Event {
	return NewEvent(TypeRecalled, docID, templateKey, map[string]interface{}{
		KeyTitle:     title,
		KeyDrafterID: drafterID,
	})
}

// NewReminder builds the advisory event for a line pending beyond the
// configured threshold. It causes no document or line state change.
func NewReminder(docID int64, templateKey, title, approverID string, lineID int64, waitingDays int) *Event {
	return NewEvent(TypeReminder, docID, templateKey, map[string]interface{}{
		KeyTitle:       title,
		KeyApproverID:  approverID,
		KeyLineID:      lineID,
		KeyWaitingDays: waitingDays,
	})
}
