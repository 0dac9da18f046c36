package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/application/service"
	"github.com/haenin/hr-eapproval/internal/domain/entity"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReminderPoller periodically scans in-progress documents and asks the
// orchestrator to publish a reminder for each actionable line pending beyond
// the threshold. Reminders are advisory; no document state changes.
type ReminderPoller struct {
	docRepo  port.DocumentRepository
	lineRepo port.LineRepository
	approval service.ApprovalService
	logger   *zap.Logger

	pollInterval  time.Duration
	thresholdDays int
	batchSize     int
	concurrency   int

	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// Config holds reminder poller settings
type Config struct {
	PollInterval  time.Duration
	ThresholdDays int
	BatchSize     int
	Concurrency   int
}

// NewReminderPoller creates a new reminder poller
func NewReminderPoller(
	docRepo port.DocumentRepository,
	lineRepo port.LineRepository,
	approval service.ApprovalService,
	cfg Config,
	logger *zap.Logger,
) *ReminderPoller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Hour
	}
	if cfg.ThresholdDays <= 0 {
		cfg.ThresholdDays = 3
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	return &ReminderPoller{
		docRepo:       docRepo,
		lineRepo:      lineRepo,
		approval:      approval,
		logger:        logger,
		pollInterval:  cfg.PollInterval,
		thresholdDays: cfg.ThresholdDays,
		batchSize:     cfg.BatchSize,
		concurrency:   cfg.Concurrency,
	}
}

// Start starts the reminder polling worker
func (p *ReminderPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("reminder poller is already running")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.isRunning = true

	p.logger.Info("ReminderPoller started",
		zap.Duration("poll_interval", p.pollInterval),
		zap.Int("threshold_days", p.thresholdDays))

	go p.pollLoop()

	return nil
}

// Stop stops the reminder polling worker
func (p *ReminderPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}

	p.isRunning = false
	if p.cancel != nil {
		p.cancel()
	}

	p.logger.Info("ReminderPoller stopped")
}

// Name returns the worker name for identification
func (p *ReminderPoller) Name() string {
	return "ReminderPoller"
}

func (p *ReminderPoller) pollLoop() {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("Poll loop context cancelled")
			return

		case <-ticker.C:
			p.Sweep(p.ctx)
		}
	}
}

// Sweep runs one reminder pass over all in-progress documents
func (p *ReminderPoller) Sweep(ctx context.Context) {
	docs, err := p.docRepo.ListByStatus(ctx, entity.StatusInProgress, p.batchSize, 0)
	if err != nil {
		p.logger.Error("Failed to list in-progress documents", zap.Error(err))
		return
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	now := time.Now()
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			p.remindDocument(gCtx, doc, now)
			return nil
		})
	}
	_ = g.Wait()
}

// remindDocument publishes a reminder for the document's actionable line if
// it has been waiting past the threshold. Failures are logged per document
// so one bad document never stops the sweep.
func (p *ReminderPoller) remindDocument(ctx context.Context, doc *entity.Document, now time.Time) {
	lines, err := p.lineRepo.GetByDocID(ctx, doc.ID)
	if err != nil {
		p.logger.Error("Failed to load lines", zap.Int64("doc_id", doc.ID), zap.Error(err))
		return
	}

	next := entity.NextActionable(lines)
	if next == nil {
		return
	}

	waitingDays := int(now.Sub(actionableSince(doc, lines, next)).Hours() / 24)
	if waitingDays < p.thresholdDays {
		return
	}

	if err := p.approval.PublishReminder(ctx, doc.ID, next.ID, waitingDays); err != nil {
		p.logger.Error("Failed to publish reminder",
			zap.Int64("doc_id", doc.ID),
			zap.Int64("line_id", next.ID),
			zap.Error(err))
		return
	}

	p.logger.Info("Reminder published",
		zap.Int64("doc_id", doc.ID),
		zap.Int64("line_id", next.ID),
		zap.String("approver_id", next.ApproverID),
		zap.Int("waiting_days", waitingDays))
}

// actionableSince estimates when a line became actionable: the latest
// processed time among lower-seq lines, falling back to the submission time.
func actionableSince(doc *entity.Document, lines []*entity.Line, next *entity.Line) time.Time {
	since := doc.CreatedAt
	if doc.SubmittedAt != nil {
		since = *doc.SubmittedAt
	}
	for _, l := range lines {
		if l.Seq < next.Seq && l.ProcessedAt != nil && l.ProcessedAt.After(since) {
			since = *l.ProcessedAt
		}
	}
	return since
}
