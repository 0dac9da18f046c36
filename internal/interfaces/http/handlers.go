package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haenin/hr-eapproval/internal/application/service"
	"github.com/haenin/hr-eapproval/internal/domain/entity"
	"github.com/haenin/hr-eapproval/internal/infrastructure/storage"
	"github.com/haenin/hr-eapproval/internal/notify"
	"github.com/haenin/hr-eapproval/internal/report"
)

// employeeHeader carries the acting employee's identity. Authentication is
// handled upstream by the gateway; the engine trusts this header.
const employeeHeader = "X-Employee-ID"

// Handlers contains all HTTP request handlers
type Handlers struct {
	approvalService service.ApprovalService
	exporter        *report.Exporter
	hub             *notify.Hub
	fileStore       *storage.LocalFileStore
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	approvalService service.ApprovalService,
	exporter *report.Exporter,
	hub *notify.Hub,
	fileStore *storage.LocalFileStore,
	logger Logger,
) *Handlers {
	return &Handlers{
		approvalService: approvalService,
		exporter:        exporter,
		hub:             hub,
		fileStore:       fileStore,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateDocumentRequest is the body of POST /api/v1/documents
type CreateDocumentRequest struct {
	service.DocumentInput
	Submit bool `json:"submit"`
}

// ApprovalRequest is the body of POST /api/v1/documents/:id/approval
type ApprovalRequest struct {
	LineID  int64  `json:"line_id" binding:"required"`
	Action  string `json:"action" binding:"required"`
	Comment string `json:"comment"`
}

// ListDocumentsRequest represents query parameters for listing documents
type ListDocumentsRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateDocument handles POST /api/v1/documents
func (h *Handlers) CreateDocument(c *gin.Context) {
	employeeID, ok := h.requireEmployee(c)
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	doc, err := h.approvalService.CreateDocument(c.Request.Context(), employeeID, req.DocumentInput, req.Submit)
	if err != nil {
		h.respondError(c, err, "Failed to create document")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: doc})
}

// UpdateDocument handles PUT /api/v1/documents/:id
func (h *Handlers) UpdateDocument(c *gin.Context) {
	employeeID, ok := h.requireEmployee(c)
	if !ok {
		return
	}
	id, ok := h.docID(c)
	if !ok {
		return
	}

	var req service.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	doc, err := h.approvalService.UpdateDraft(c.Request.Context(), id, employeeID, req)
	if err != nil {
		h.respondError(c, err, "Failed to update document")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// SubmitDocument handles POST /api/v1/documents/:id/submit
func (h *Handlers) SubmitDocument(c *gin.Context) {
	employeeID, ok := h.requireEmployee(c)
	if !ok {
		return
	}
	id, ok := h.docID(c)
	if !ok {
		return
	}

	var req service.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	doc, err := h.approvalService.SubmitDraft(c.Request.Context(), id, employeeID, req)
	if err != nil {
		h.respondError(c, err, "Failed to submit document")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// ProcessApproval handles POST /api/v1/documents/:id/approval
func (h *Handlers) ProcessApproval(c *gin.Context) {
	employeeID, ok := h.requireEmployee(c)
	if !ok {
		return
	}
	id, ok := h.docID(c)
	if !ok {
		return
	}

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	result, err := h.approvalService.ProcessApproval(c.Request.Context(), id, req.LineID, employeeID, req.Action, req.Comment)
	if err != nil {
		h.respondError(c, err, "Failed to process approval")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// CancelDocument handles POST /api/v1/documents/:id/cancel
func (h *Handlers) CancelDocument(c *gin.Context) {
	employeeID, ok := h.requireEmployee(c)
	if !ok {
		return
	}
	id, ok := h.docID(c)
	if !ok {
		return
	}

	if err := h.approvalService.Cancel(c.Request.Context(), id, employeeID); err != nil {
		h.respondError(c, err, "Failed to cancel document")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// DeleteDocument handles DELETE /api/v1/documents/:id
func (h *Handlers) DeleteDocument(c *gin.Context) {
	employeeID, ok := h.requireEmployee(c)
	if !ok {
		return
	}
	id, ok := h.docID(c)
	if !ok {
		return
	}

	if err := h.approvalService.Delete(c.Request.Context(), id, employeeID); err != nil {
		h.respondError(c, err, "Failed to delete document")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// GetDocument handles GET /api/v1/documents/:id
func (h *Handlers) GetDocument(c *gin.Context) {
	id, ok := h.docID(c)
	if !ok {
		return
	}

	detail, err := h.approvalService.GetDocument(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get document")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: detail})
}

// ListDocuments handles GET /api/v1/documents
func (h *Handlers) ListDocuments(c *gin.Context) {
	var req ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	docs, err := h.approvalService.ListDocuments(c.Request.Context(), req.Status, req.Limit, req.Offset)
	if err != nil {
		h.respondError(c, err, "Failed to list documents")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: docs})
}

// ToggleBookmark handles POST /api/v1/documents/:id/bookmark
func (h *Handlers) ToggleBookmark(c *gin.Context) {
	employeeID, ok := h.requireEmployee(c)
	if !ok {
		return
	}
	id, ok := h.docID(c)
	if !ok {
		return
	}

	bookmarked, err := h.approvalService.ToggleBookmark(c.Request.Context(), id, employeeID)
	if err != nil {
		h.respondError(c, err, "Failed to toggle bookmark")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"bookmarked": bookmarked}})
}

// UploadAttachment handles POST /api/v1/attachments (multipart form)
func (h *Handlers) UploadAttachment(c *gin.Context) {
	if _, ok := h.requireEmployee(c); !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file field is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.respondError(c, err, "Failed to open upload")
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		h.respondError(c, err, "Failed to read upload")
		return
	}

	att, err := h.approvalService.StoreAttachment(c.Request.Context(), file.Filename, content)
	if err != nil {
		h.respondError(c, err, "Failed to store attachment")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: att})
}

// AttachmentURL handles GET /api/v1/attachments/:id/url
func (h *Handlers) AttachmentURL(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid attachment ID"})
		return
	}

	url, err := h.approvalService.AttachmentURL(c.Request.Context(), id, 15*time.Minute)
	if err != nil {
		h.respondError(c, err, "Failed to build attachment URL")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"url": url}})
}

// ServeFile handles GET /files/*key using the signed URL parameters
func (h *Handlers) ServeFile(c *gin.Context) {
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}

	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid expiry"})
		return
	}
	if !h.fileStore.Verify(key, expires, c.Query("sig")) {
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "invalid or expired signature"})
		return
	}

	path, err := h.fileStore.Open(key)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "file not found"})
		return
	}
	c.File(path)
}

// ExportApprovals handles GET /api/v1/reports/approvals
func (h *Handlers) ExportApprovals(c *gin.Context) {
	status := c.Query("status")
	limit := 1000
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid limit"})
			return
		}
		limit = n
	}

	wb, err := h.exporter.BuildWorkbook(c.Request.Context(), status, limit)
	if err != nil {
		h.respondError(c, err, "Failed to build report")
		return
	}
	defer wb.Close()

	filename := "approvals-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := wb.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream report", "error", err)
	}
}

// StreamNotifications handles GET /api/v1/notifications as server-sent events
func (h *Handlers) StreamNotifications(c *gin.Context) {
	employeeID, ok := h.requireEmployee(c)
	if !ok {
		return
	}

	ch, cancel := h.hub.Subscribe(employeeID)
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case notice, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent("notice", notice)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handlers) requireEmployee(c *gin.Context) (string, bool) {
	employeeID := c.GetHeader(employeeHeader)
	if employeeID == "" {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "missing " + employeeHeader + " header"})
		return "", false
	}
	return employeeID, true
}

func (h *Handlers) docID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid document ID"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error, logMsg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrForbiddenActor):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrInvalidState),
		errors.Is(err, entity.ErrNotYourTurn),
		errors.Is(err, entity.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(logMsg, "error", err, "path", c.Request.URL.Path)
		c.JSON(status, Response{Success: false, Error: "internal server error"})
		return
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}
