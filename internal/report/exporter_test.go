package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/haenin/hr-eapproval/internal/domain/entity"
	"go.uber.org/zap"
)

type fakeDocRepo struct {
	docs    []*entity.Document
	listErr error

	lastStatus string
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *entity.Document) error { return nil }
func (f *fakeDocRepo) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	return nil, nil
}
func (f *fakeDocRepo) Update(ctx context.Context, doc *entity.Document) error { return nil }
func (f *fakeDocRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return nil
}
func (f *fakeDocRepo) SetSubmission(ctx context.Context, id int64, docNumber string, at time.Time) error {
	return nil
}
func (f *fakeDocRepo) ClearSubmission(ctx context.Context, id int64) error { return nil }
func (f *fakeDocRepo) List(ctx context.Context, limit, offset int) ([]*entity.Document, error) {
	f.lastStatus = ""
	return f.docs, f.listErr
}
func (f *fakeDocRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Document, error) {
	f.lastStatus = status
	return f.docs, f.listErr
}
func (f *fakeDocRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeLineRepo struct {
	byDoc map[int64][]*entity.Line
	err   error
}

func (f *fakeLineRepo) Create(ctx context.Context, line *entity.Line) error { return nil }
func (f *fakeLineRepo) GetByID(ctx context.Context, id int64) (*entity.Line, error) {
	return nil, nil
}
func (f *fakeLineRepo) GetByDocID(ctx context.Context, docID int64) ([]*entity.Line, error) {
	return f.byDoc[docID], f.err
}
func (f *fakeLineRepo) MarkProcessed(ctx context.Context, id int64, status, comment string, processedAt time.Time) (bool, error) {
	return false, nil
}
func (f *fakeLineRepo) ResetByDocID(ctx context.Context, docID int64) error  { return nil }
func (f *fakeLineRepo) DeleteByDocID(ctx context.Context, docID int64) error { return nil }

func testExporter(docRepo *fakeDocRepo, lineRepo *fakeLineRepo) *Exporter {
	logger, _ := zap.NewDevelopment()
	return NewExporter(docRepo, lineRepo, logger)
}

func submittedAt(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestBuildWorkbook(t *testing.T) {
	docRepo := &fakeDocRepo{docs: []*entity.Document{
		{ID: 1, DocNumber: "2026-000001", TemplateKey: "vacation", Title: "Leave", DrafterID: "emp-1", Status: entity.StatusInProgress, SubmittedAt: submittedAt("2026-08-20")},
		{ID: 2, DocNumber: "2026-000002", TemplateKey: "resign", Title: "Resignation", DrafterID: "emp-2", Status: entity.StatusApproved, SubmittedAt: submittedAt("2026-08-21")},
	}}
	lineRepo := &fakeLineRepo{byDoc: map[int64][]*entity.Line{
		1: {
			{ID: 11, Status: entity.LineStatusApproved},
			{ID: 12, Status: entity.LineStatusPending},
		},
		2: {
			{ID: 21, Status: entity.LineStatusApproved},
		},
	}}

	f, err := testExporter(docRepo, lineRepo).BuildWorkbook(context.Background(), "", 100)
	if err != nil {
		t.Fatalf("BuildWorkbook() error = %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "Approvals" {
		t.Errorf("sheet name = %q, want Approvals", got)
	}

	header, err := f.GetCellValue("Approvals", "A1")
	if err != nil || header != "Doc Number" {
		t.Errorf("A1 = %q, %v, want Doc Number", header, err)
	}

	checks := map[string]string{
		"A2": "2026-000001",
		"B2": "vacation",
		"E2": entity.StatusInProgress,
		"F2": "2026-08-20",
		"G2": "1/2",
		"A3": "2026-000002",
		"G3": "1/1",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("Approvals", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestBuildWorkbook_StatusFilterIsForwarded(t *testing.T) {
	docRepo := &fakeDocRepo{}
	lineRepo := &fakeLineRepo{}

	_, err := testExporter(docRepo, lineRepo).BuildWorkbook(context.Background(), entity.StatusApproved, 50)
	if err != nil {
		t.Fatalf("BuildWorkbook() error = %v", err)
	}
	if docRepo.lastStatus != entity.StatusApproved {
		t.Errorf("status filter = %q, want %q", docRepo.lastStatus, entity.StatusApproved)
	}
}

func TestBuildWorkbook_ListFailure(t *testing.T) {
	docRepo := &fakeDocRepo{listErr: errors.New("db down")}

	_, err := testExporter(docRepo, &fakeLineRepo{}).BuildWorkbook(context.Background(), "", 100)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildWorkbook_ProgressFailureRendersDash(t *testing.T) {
	docRepo := &fakeDocRepo{docs: []*entity.Document{
		{ID: 1, DocNumber: "2026-000001", TemplateKey: "vacation", Status: entity.StatusInProgress},
	}}
	lineRepo := &fakeLineRepo{err: errors.New("db down")}

	f, err := testExporter(docRepo, lineRepo).BuildWorkbook(context.Background(), "", 100)
	if err != nil {
		t.Fatalf("BuildWorkbook() error = %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Approvals", "G2")
	if err != nil || got != "-" {
		t.Errorf("G2 = %q, %v, want -", got, err)
	}
}
