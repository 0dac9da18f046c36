package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haenin/hr-eapproval/internal/application/dispatcher"
	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/domain/entity"
	"github.com/haenin/hr-eapproval/internal/domain/event"
	"github.com/haenin/hr-eapproval/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// LineInput describes one approval step supplied by the caller. The caller
// resolves default approvers; the engine stores the steps exactly as given.
type LineInput struct {
	Seq        int    `json:"seq"`
	ApproverID string `json:"approver_id"`
}

// AttachmentInput binds an already-stored file to a document
type AttachmentInput struct {
	StorageKey   string `json:"storage_key"`
	OriginalName string `json:"original_name"`
}

// DocumentInput carries the caller-supplied document content
type DocumentInput struct {
	TemplateKey string            `json:"template_key"`
	Title       string            `json:"title"`
	Details     string            `json:"details"`
	Lines       []LineInput       `json:"lines"`
	Referencers []string          `json:"referencers"`
	Attachments []AttachmentInput `json:"attachments"`
}

// DocumentDetail is the full aggregate view of a document
type DocumentDetail struct {
	Document    *entity.Document     `json:"document"`
	Lines       []*entity.Line       `json:"lines"`
	References  []*entity.Reference  `json:"references"`
	Attachments []*entity.Attachment `json:"attachments"`
}

// ApprovalResult reports the outcome of a processed approval action
type ApprovalResult struct {
	DocID     int64  `json:"doc_id"`
	LineID    int64  `json:"line_id"`
	DocStatus string `json:"doc_status"`
}

// ApprovalService owns the approval document lifecycle. Every mutation runs
// as a single transaction: guards and writes are atomic, and events are
// buffered and flushed only after the transaction commits.
type ApprovalService interface {
	CreateDocument(ctx context.Context, drafterID string, in DocumentInput, submit bool) (*entity.Document, error)
	UpdateDraft(ctx context.Context, docID int64, actorID string, in DocumentInput) (*entity.Document, error)
	SubmitDraft(ctx context.Context, docID int64, actorID string, in DocumentInput) (*entity.Document, error)
	ProcessApproval(ctx context.Context, docID, lineID int64, actorID, action, comment string) (*ApprovalResult, error)
	Cancel(ctx context.Context, docID int64, actorID string) error
	Delete(ctx context.Context, docID int64, actorID string) error
	PublishReminder(ctx context.Context, docID, lineID int64, waitingDays int) error
	GetDocument(ctx context.Context, docID int64) (*DocumentDetail, error)
	ListDocuments(ctx context.Context, status string, limit, offset int) ([]*entity.Document, error)
	ToggleBookmark(ctx context.Context, docID int64, employeeID string) (bool, error)
	StoreAttachment(ctx context.Context, originalName string, content []byte) (*AttachmentInput, error)
	AttachmentURL(ctx context.Context, attachmentID int64, ttl time.Duration) (string, error)
}

type approvalServiceImpl struct {
	docRepo      port.DocumentRepository
	lineRepo     port.LineRepository
	refRepo      port.ReferenceRepository
	attRepo      port.AttachmentRepository
	bookmarkRepo port.BookmarkRepository
	txManager    port.TransactionManager
	templates    port.TemplateRegistry
	sequence     port.SequenceGenerator
	fileStore    port.FileStore
	events       dispatcher.Dispatcher
	logger       Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	docRepo port.DocumentRepository,
	lineRepo port.LineRepository,
	refRepo port.ReferenceRepository,
	attRepo port.AttachmentRepository,
	bookmarkRepo port.BookmarkRepository,
	txManager port.TransactionManager,
	templates port.TemplateRegistry,
	sequence port.SequenceGenerator,
	fileStore port.FileStore,
	events dispatcher.Dispatcher,
	logger Logger,
) ApprovalService {
	return &approvalServiceImpl{
		docRepo:      docRepo,
		lineRepo:     lineRepo,
		refRepo:      refRepo,
		attRepo:      attRepo,
		bookmarkRepo: bookmarkRepo,
		txManager:    txManager,
		templates:    templates,
		sequence:     sequence,
		fileStore:    fileStore,
		events:       events,
		logger:       logger,
	}
}

// CreateDocument persists a new document with its lines, references and
// attachment metadata. With submit=true the document transitions to
// INPROGRESS immediately and receives a document number.
func (s *approvalServiceImpl) CreateDocument(ctx context.Context, drafterID string, in DocumentInput, submit bool) (*entity.Document, error) {
	if strings.TrimSpace(drafterID) == "" {
		return nil, fmt.Errorf("%w: drafter id is required", entity.ErrValidation)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.templates.Resolve(ctx, in.TemplateKey); err != nil {
		return nil, fmt.Errorf("template %q: %w", in.TemplateKey, err)
	}

	doc := &entity.Document{
		TemplateKey: in.TemplateKey,
		Title:       in.Title,
		DrafterID:   drafterID,
		Details:     in.Details,
		Status:      entity.StatusDraft,
	}

	queue := dispatcher.NewQueue()
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.createChildren(txCtx, doc.ID, in); err != nil {
			return err
		}
		if submit {
			return s.submitLocked(txCtx, doc, in, queue)
		}
		return nil
	})
	if err != nil {
		queue.Discard()
		s.logger.Error("Failed to create document", "error", err, "drafter_id", drafterID, "template_key", in.TemplateKey)
		return nil, err
	}
	queue.Flush(ctx, s.events)

	s.logger.Info("Document created",
		"doc_id", doc.ID,
		"template_key", doc.TemplateKey,
		"status", doc.Status,
		"drafter_id", drafterID,
	)
	return doc, nil
}

// UpdateDraft replaces title, payload, lines, references and attachments of a
// draft document.
func (s *approvalServiceImpl) UpdateDraft(ctx context.Context, docID int64, actorID string, in DocumentInput) (*entity.Document, error) {
	return s.updateDraft(ctx, docID, actorID, in, false)
}

// SubmitDraft applies the same update as UpdateDraft, then transitions the
// document to INPROGRESS and assigns a document number.
func (s *approvalServiceImpl) SubmitDraft(ctx context.Context, docID int64, actorID string, in DocumentInput) (*entity.Document, error) {
	return s.updateDraft(ctx, docID, actorID, in, true)
}

func (s *approvalServiceImpl) updateDraft(ctx context.Context, docID int64, actorID string, in DocumentInput, submit bool) (*entity.Document, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.templates.Resolve(ctx, in.TemplateKey); err != nil {
		return nil, fmt.Errorf("template %q: %w", in.TemplateKey, err)
	}

	var doc *entity.Document
	var removedKeys []string
	queue := dispatcher.NewQueue()

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.loadDocument(txCtx, docID)
		if err != nil {
			return err
		}
		if doc.DrafterID != actorID {
			return fmt.Errorf("%w: only the drafter may modify document %d", entity.ErrForbiddenActor, docID)
		}
		if !doc.IsDraft() {
			return fmt.Errorf("%w: document %d is %s, expected %s", entity.ErrInvalidState, docID, doc.Status, entity.StatusDraft)
		}

		removedKeys, err = s.replaceChildren(txCtx, doc.ID, in)
		if err != nil {
			return err
		}

		doc.TemplateKey = in.TemplateKey
		doc.Title = in.Title
		doc.Details = in.Details
		if err := s.docRepo.Update(txCtx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		if submit {
			return s.submitLocked(txCtx, doc, in, queue)
		}
		return nil
	})
	if err != nil {
		queue.Discard()
		return nil, err
	}
	queue.Flush(ctx, s.events)
	s.releaseStorageKeys(ctx, removedKeys)

	s.logger.Info("Draft updated", "doc_id", doc.ID, "submitted", submit, "status", doc.Status)
	return doc, nil
}

// submitLocked transitions a draft to INPROGRESS inside the caller's
// transaction, resolves any leading lines held by the drafter, and enqueues
// the request event for the first actionable line. A document whose every
// line belongs to the drafter completes at submit.
func (s *approvalServiceImpl) submitLocked(txCtx context.Context, doc *entity.Document, in DocumentInput, queue *dispatcher.Queue) error {
	machine := workflow.NewDocumentMachine(workflow.State(doc.Status))
	if err := machine.Fire(txCtx, workflow.TriggerSubmit); err != nil {
		return fmt.Errorf("%w: document %d cannot be submitted from %s", entity.ErrInvalidState, doc.ID, doc.Status)
	}

	docNumber, err := s.sequence.NextDocNumber(txCtx)
	if err != nil {
		return fmt.Errorf("assign doc number: %w", err)
	}

	now := time.Now()
	if err := s.docRepo.SetSubmission(txCtx, doc.ID, docNumber, now); err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	if err := s.docRepo.UpdateStatus(txCtx, doc.ID, machine.State().String()); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	doc.Status = machine.State().String()
	doc.DocNumber = docNumber
	doc.SubmittedAt = &now

	lines, err := s.lineRepo.GetByDocID(txCtx, doc.ID)
	if err != nil {
		return fmt.Errorf("load lines: %w", err)
	}

	// Leading lines held by the drafter are resolved by the act of
	// submitting; the drafter never approves their own document explicitly.
	for {
		next := entity.NextActionable(lines)
		if next == nil || next.ApproverID != doc.DrafterID {
			break
		}
		ok, err := s.lineRepo.MarkProcessed(txCtx, next.ID, entity.LineStatusApproved, "", now)
		if err != nil {
			return fmt.Errorf("resolve drafter line: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: line %d was processed concurrently", entity.ErrConflict, next.ID)
		}
		next.Status = entity.LineStatusApproved
		next.ProcessedAt = &now
	}

	if entity.DeriveStatus(lines) == entity.StatusApproved {
		if err := machine.Fire(txCtx, workflow.TriggerComplete); err != nil {
			return fmt.Errorf("complete transition: %w", err)
		}
		if err := s.docRepo.UpdateStatus(txCtx, doc.ID, entity.StatusApproved); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		doc.Status = entity.StatusApproved

		refs, err := s.refRepo.GetByDocID(txCtx, doc.ID)
		if err != nil {
			return fmt.Errorf("load references: %w", err)
		}
		queue.Enqueue(event.NewCompleted(doc.ID, doc.TemplateKey, doc.Details, doc.DrafterID, doc.Title, doc.DocNumber, referencerIDs(refs)))
		return nil
	}

	if next := entity.NextActionable(lines); next != nil {
		queue.Enqueue(event.NewRequested(doc.ID, doc.TemplateKey, doc.Title, next.ApproverID, next.ID, next.Seq))
	}
	return nil
}

// ProcessApproval applies an approver's decision to the currently actionable
// line. Guards run before any write; a failed call never leaves partial state.
func (s *approvalServiceImpl) ProcessApproval(ctx context.Context, docID, lineID int64, actorID, action, comment string) (*ApprovalResult, error) {
	switch action {
	case entity.ActionApprove:
		// comment optional
	case entity.ActionReject:
		if strings.TrimSpace(comment) == "" {
			return nil, fmt.Errorf("%w: rejection requires a comment", entity.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown action %q", entity.ErrValidation, action)
	}

	var result *ApprovalResult
	queue := dispatcher.NewQueue()

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		doc, err := s.loadDocument(txCtx, docID)
		if err != nil {
			return err
		}
		machine := workflow.NewDocumentMachine(workflow.State(doc.Status))
		if !doc.IsInProgress() {
			return fmt.Errorf("%w: document %d is %s, expected %s", entity.ErrInvalidState, docID, doc.Status, entity.StatusInProgress)
		}

		lines, err := s.lineRepo.GetByDocID(txCtx, docID)
		if err != nil {
			return fmt.Errorf("load lines: %w", err)
		}
		line := findLine(lines, lineID)
		if line == nil {
			return fmt.Errorf("%w: line %d on document %d", entity.ErrNotFound, lineID, docID)
		}
		if !line.IsPending() {
			return fmt.Errorf("%w: line %d already processed", entity.ErrInvalidState, lineID)
		}
		if line.ApproverID != actorID {
			return fmt.Errorf("%w: line %d belongs to %s", entity.ErrForbiddenActor, lineID, line.ApproverID)
		}
		next := entity.NextActionable(lines)
		if next == nil || next.ID != line.ID {
			return fmt.Errorf("%w: line seq %d is not the lowest pending seq", entity.ErrNotYourTurn, line.Seq)
		}

		lineStatus := entity.LineStatusApproved
		if action == entity.ActionReject {
			lineStatus = entity.LineStatusRejected
		}

		now := time.Now()
		ok, err := s.lineRepo.MarkProcessed(txCtx, lineID, lineStatus, comment, now)
		if err != nil {
			return fmt.Errorf("mark line processed: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: line %d was processed concurrently", entity.ErrConflict, lineID)
		}

		line.Status = lineStatus
		line.Comment = comment
		line.ProcessedAt = &now

		derived := entity.DeriveStatus(lines)
		switch derived {
		case entity.StatusApproved:
			if err := machine.Fire(txCtx, workflow.TriggerComplete); err != nil {
				return fmt.Errorf("complete transition: %w", err)
			}
			if err := s.docRepo.UpdateStatus(txCtx, docID, derived); err != nil {
				return fmt.Errorf("update status: %w", err)
			}
			refs, err := s.refRepo.GetByDocID(txCtx, docID)
			if err != nil {
				return fmt.Errorf("load references: %w", err)
			}
			queue.Enqueue(event.NewCompleted(docID, doc.TemplateKey, doc.Details, doc.DrafterID, doc.Title, doc.DocNumber, referencerIDs(refs)))
		case entity.StatusRejected:
			if err := machine.Fire(txCtx, workflow.TriggerReject); err != nil {
				return fmt.Errorf("reject transition: %w", err)
			}
			if err := s.docRepo.UpdateStatus(txCtx, docID, derived); err != nil {
				return fmt.Errorf("update status: %w", err)
			}
			queue.Enqueue(event.NewRejected(docID, doc.TemplateKey, doc.Details, doc.DrafterID, comment))
		default:
			// Still in progress; hand the turn to the next approver.
			if upcoming := entity.NextActionable(lines); upcoming != nil {
				queue.Enqueue(event.NewRequested(docID, doc.TemplateKey, doc.Title, upcoming.ApproverID, upcoming.ID, upcoming.Seq))
			}
		}

		result = &ApprovalResult{DocID: docID, LineID: lineID, DocStatus: derived}
		return nil
	})
	if err != nil {
		queue.Discard()
		return nil, err
	}
	queue.Flush(ctx, s.events)

	s.logger.Info("Approval processed",
		"doc_id", docID,
		"line_id", lineID,
		"actor_id", actorID,
		"action", action,
		"doc_status", result.DocStatus,
	)
	return result, nil
}

// Cancel recalls an in-progress document: every line returns to PENDING with
// comment and processedAt cleared, the submission identity is dropped, and
// the document becomes DRAFT again.
func (s *approvalServiceImpl) Cancel(ctx context.Context, docID int64, actorID string) error {
	var doc *entity.Document
	queue := dispatcher.NewQueue()

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.loadDocument(txCtx, docID)
		if err != nil {
			return err
		}
		if doc.DrafterID != actorID {
			return fmt.Errorf("%w: only the drafter may recall document %d", entity.ErrForbiddenActor, docID)
		}
		machine := workflow.NewDocumentMachine(workflow.State(doc.Status))
		if err := machine.Fire(txCtx, workflow.TriggerRecall); err != nil {
			return fmt.Errorf("%w: document %d cannot be recalled from %s", entity.ErrInvalidState, docID, doc.Status)
		}

		if err := s.lineRepo.ResetByDocID(txCtx, docID); err != nil {
			return fmt.Errorf("reset lines: %w", err)
		}
		if err := s.docRepo.UpdateStatus(txCtx, docID, machine.State().String()); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		// The number belongs to the withdrawn submission; resubmission draws
		// a fresh one.
		if err := s.docRepo.ClearSubmission(txCtx, docID); err != nil {
			return fmt.Errorf("clear submission: %w", err)
		}
		doc.Status = machine.State().String()
		doc.DocNumber = ""
		doc.SubmittedAt = nil

		queue.Enqueue(event.NewRecalled(docID, doc.TemplateKey, doc.Title, doc.DrafterID))
		return nil
	})
	if err != nil {
		queue.Discard()
		return err
	}
	queue.Flush(ctx, s.events)

	s.logger.Info("Document recalled", "doc_id", docID, "actor_id", actorID)
	return nil
}

// Delete removes a draft document and cascades to its lines, references,
// attachment metadata and bookmarks. Stored files are released after commit.
func (s *approvalServiceImpl) Delete(ctx context.Context, docID int64, actorID string) error {
	var storageKeys []string

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		doc, err := s.loadDocument(txCtx, docID)
		if err != nil {
			return err
		}
		if doc.DrafterID != actorID {
			return fmt.Errorf("%w: only the drafter may delete document %d", entity.ErrForbiddenActor, docID)
		}
		if !doc.IsDraft() {
			return fmt.Errorf("%w: document %d is %s, expected %s", entity.ErrInvalidState, docID, doc.Status, entity.StatusDraft)
		}

		atts, err := s.attRepo.GetByDocID(txCtx, docID)
		if err != nil {
			return fmt.Errorf("load attachments: %w", err)
		}
		for _, att := range atts {
			storageKeys = append(storageKeys, att.StorageKey)
		}

		if err := s.lineRepo.DeleteByDocID(txCtx, docID); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}
		if err := s.refRepo.DeleteByDocID(txCtx, docID); err != nil {
			return fmt.Errorf("delete references: %w", err)
		}
		if err := s.attRepo.DeleteByDocID(txCtx, docID); err != nil {
			return fmt.Errorf("delete attachments: %w", err)
		}
		if err := s.bookmarkRepo.DeleteByDocID(txCtx, docID); err != nil {
			return fmt.Errorf("delete bookmarks: %w", err)
		}
		if err := s.docRepo.Delete(txCtx, docID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.releaseStorageKeys(ctx, storageKeys)
	s.logger.Info("Document deleted", "doc_id", docID, "actor_id", actorID)
	return nil
}

// PublishReminder emits an advisory reminder for a line pending beyond the
// scheduler's threshold. Document and line state are untouched.
func (s *approvalServiceImpl) PublishReminder(ctx context.Context, docID, lineID int64, waitingDays int) error {
	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		return err
	}
	if !doc.IsInProgress() {
		return fmt.Errorf("%w: document %d is %s, expected %s", entity.ErrInvalidState, docID, doc.Status, entity.StatusInProgress)
	}

	line, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return fmt.Errorf("load line: %w", err)
	}
	if line == nil || line.DocID != docID {
		return fmt.Errorf("%w: line %d on document %d", entity.ErrNotFound, lineID, docID)
	}
	if !line.IsPending() {
		return fmt.Errorf("%w: line %d already processed", entity.ErrInvalidState, lineID)
	}

	s.events.DispatchAsync(ctx, event.NewReminder(docID, doc.TemplateKey, doc.Title, line.ApproverID, lineID, waitingDays))
	return nil
}

// GetDocument returns the full aggregate view of a document
func (s *approvalServiceImpl) GetDocument(ctx context.Context, docID int64) (*DocumentDetail, error) {
	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	lines, err := s.lineRepo.GetByDocID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("load lines: %w", err)
	}
	refs, err := s.refRepo.GetByDocID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("load references: %w", err)
	}
	atts, err := s.attRepo.GetByDocID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("load attachments: %w", err)
	}
	return &DocumentDetail{Document: doc, Lines: lines, References: refs, Attachments: atts}, nil
}

// ListDocuments lists documents, optionally filtered by status
func (s *approvalServiceImpl) ListDocuments(ctx context.Context, status string, limit, offset int) ([]*entity.Document, error) {
	if status == "" {
		return s.docRepo.List(ctx, limit, offset)
	}
	return s.docRepo.ListByStatus(ctx, status, limit, offset)
}

// ToggleBookmark flips the bookmark state for an employee on a document and
// returns the resulting state.
func (s *approvalServiceImpl) ToggleBookmark(ctx context.Context, docID int64, employeeID string) (bool, error) {
	if strings.TrimSpace(employeeID) == "" {
		return false, fmt.Errorf("%w: employee id is required", entity.ErrValidation)
	}

	var bookmarked bool
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.loadDocument(txCtx, docID); err != nil {
			return err
		}
		exists, err := s.bookmarkRepo.Exists(txCtx, docID, employeeID)
		if err != nil {
			return fmt.Errorf("check bookmark: %w", err)
		}
		if exists {
			if err := s.bookmarkRepo.Delete(txCtx, docID, employeeID); err != nil {
				return fmt.Errorf("delete bookmark: %w", err)
			}
			bookmarked = false
			return nil
		}
		if err := s.bookmarkRepo.Create(txCtx, &entity.Bookmark{DocID: docID, EmployeeID: employeeID}); err != nil {
			return fmt.Errorf("create bookmark: %w", err)
		}
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

// StoreAttachment pushes content into the file store and returns the
// attachment binding for a subsequent create or update call.
func (s *approvalServiceImpl) StoreAttachment(ctx context.Context, originalName string, content []byte) (*AttachmentInput, error) {
	if strings.TrimSpace(originalName) == "" {
		return nil, fmt.Errorf("%w: attachment name is required", entity.ErrValidation)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: attachment content is empty", entity.ErrValidation)
	}

	key, err := s.fileStore.Put(ctx, content, "approval")
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}
	return &AttachmentInput{StorageKey: key, OriginalName: originalName}, nil
}

// AttachmentURL returns a time-limited download URL for an attachment
func (s *approvalServiceImpl) AttachmentURL(ctx context.Context, attachmentID int64, ttl time.Duration) (string, error) {
	att, err := s.attRepo.GetByID(ctx, attachmentID)
	if err != nil {
		return "", fmt.Errorf("load attachment: %w", err)
	}
	if att == nil {
		return "", fmt.Errorf("%w: attachment %d", entity.ErrNotFound, attachmentID)
	}
	return s.fileStore.PresignedURL(ctx, att.StorageKey, ttl)
}

func (s *approvalServiceImpl) loadDocument(ctx context.Context, docID int64) (*entity.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %d", entity.ErrNotFound, docID)
	}
	return doc, nil
}

// createChildren persists lines, references and attachment metadata for a
// freshly created or fully replaced document.
func (s *approvalServiceImpl) createChildren(txCtx context.Context, docID int64, in DocumentInput) error {
	for _, li := range in.Lines {
		line := &entity.Line{
			DocID:      docID,
			Seq:        li.Seq,
			ApproverID: li.ApproverID,
			Status:     entity.LineStatusPending,
		}
		if err := s.lineRepo.Create(txCtx, line); err != nil {
			return fmt.Errorf("create line seq %d: %w", li.Seq, err)
		}
	}
	for _, refID := range in.Referencers {
		if err := s.refRepo.Create(txCtx, &entity.Reference{DocID: docID, ReferencerID: refID}); err != nil {
			return fmt.Errorf("create reference %s: %w", refID, err)
		}
	}
	for _, att := range in.Attachments {
		a := &entity.Attachment{
			DocID:        docID,
			StorageKey:   att.StorageKey,
			OriginalName: att.OriginalName,
		}
		if err := s.attRepo.Create(txCtx, a); err != nil {
			return fmt.Errorf("create attachment %s: %w", att.OriginalName, err)
		}
	}
	return nil
}

// replaceChildren swaps the child rows of a draft for the new input and
// returns the storage keys no longer referenced, to be released after commit.
func (s *approvalServiceImpl) replaceChildren(txCtx context.Context, docID int64, in DocumentInput) ([]string, error) {
	existing, err := s.attRepo.GetByDocID(txCtx, docID)
	if err != nil {
		return nil, fmt.Errorf("load attachments: %w", err)
	}
	kept := make(map[string]bool, len(in.Attachments))
	for _, att := range in.Attachments {
		kept[att.StorageKey] = true
	}
	var removed []string
	for _, att := range existing {
		if !kept[att.StorageKey] {
			removed = append(removed, att.StorageKey)
		}
	}

	if err := s.lineRepo.DeleteByDocID(txCtx, docID); err != nil {
		return nil, fmt.Errorf("delete lines: %w", err)
	}
	if err := s.refRepo.DeleteByDocID(txCtx, docID); err != nil {
		return nil, fmt.Errorf("delete references: %w", err)
	}
	if err := s.attRepo.DeleteByDocID(txCtx, docID); err != nil {
		return nil, fmt.Errorf("delete attachments: %w", err)
	}
	if err := s.createChildren(txCtx, docID, in); err != nil {
		return nil, err
	}
	return removed, nil
}

// releaseStorageKeys asks the file store to drop orphaned objects. Failures
// are logged only; the database state is already committed.
func (s *approvalServiceImpl) releaseStorageKeys(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.fileStore.Delete(ctx, key); err != nil {
			s.logger.Error("Failed to release stored file", "storage_key", key, "error", err)
		}
	}
}

func validateInput(in DocumentInput) error {
	if strings.TrimSpace(in.TemplateKey) == "" {
		return fmt.Errorf("%w: template key is required", entity.ErrValidation)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", entity.ErrValidation)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: at least one approval line is required", entity.ErrValidation)
	}
	seen := make(map[int]bool, len(in.Lines))
	for _, li := range in.Lines {
		if li.Seq <= 0 {
			return fmt.Errorf("%w: line seq must be positive, got %d", entity.ErrValidation, li.Seq)
		}
		if seen[li.Seq] {
			return fmt.Errorf("%w: duplicate line seq %d", entity.ErrValidation, li.Seq)
		}
		seen[li.Seq] = true
		if strings.TrimSpace(li.ApproverID) == "" {
			return fmt.Errorf("%w: approver id is required on seq %d", entity.ErrValidation, li.Seq)
		}
	}
	return nil
}

func findLine(lines []*entity.Line, lineID int64) *entity.Line {
	for _, l := range lines {
		if l.ID == lineID {
			return l
		}
	}
	return nil
}

func referencerIDs(refs []*entity.Reference) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ReferencerID)
	}
	return ids
}
