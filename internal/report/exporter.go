package report

import (
	"context"
	"fmt"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Exporter renders the approval ledger as an Excel workbook for HR staff.
// The details payload stays opaque and is not exported.
type Exporter struct {
	docRepo  port.DocumentRepository
	lineRepo port.LineRepository
	logger   *zap.Logger
}

// NewExporter creates a new report exporter
func NewExporter(docRepo port.DocumentRepository, lineRepo port.LineRepository, logger *zap.Logger) *Exporter {
	return &Exporter{
		docRepo:  docRepo,
		lineRepo: lineRepo,
		logger:   logger,
	}
}

const sheetName = "Approvals"

var headers = []string{"Doc Number", "Template", "Title", "Drafter", "Status", "Submitted", "Progress"}

// BuildWorkbook lists documents (optionally filtered by status) into a
// single-sheet workbook. The caller owns closing the returned file.
func (e *Exporter) BuildWorkbook(ctx context.Context, status string, limit int) (*excelize.File, error) {
	var docs []*entity.Document
	var err error
	if status == "" {
		docs, err = e.docRepo.List(ctx, limit, 0)
	} else {
		docs, err = e.docRepo.ListByStatus(ctx, status, limit, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set header: %w", err)
		}
	}

	for i, doc := range docs {
		progress, err := e.progress(ctx, doc)
		if err != nil {
			e.logger.Error("Failed to compute progress", zap.Int64("doc_id", doc.ID), zap.Error(err))
			progress = "-"
		}

		submitted := ""
		if doc.SubmittedAt != nil {
			submitted = doc.SubmittedAt.Format("2006-01-02")
		}

		values := []interface{}{
			doc.DocNumber,
			doc.TemplateKey,
			doc.Title,
			doc.DrafterID,
			doc.Status,
			submitted,
			progress,
		}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("set value: %w", err)
			}
		}
	}

	e.logger.Info("Approval report built", zap.Int("documents", len(docs)), zap.String("status_filter", status))
	return f, nil
}

// progress renders "approved/total" for a document's lines
func (e *Exporter) progress(ctx context.Context, doc *entity.Document) (string, error) {
	lines, err := e.lineRepo.GetByDocID(ctx, doc.ID)
	if err != nil {
		return "", err
	}

	approved := 0
	for _, l := range lines {
		if l.Status == entity.LineStatusApproved {
			approved++
		}
	}
	return fmt.Sprintf("%d/%d", approved, len(lines)), nil
}
