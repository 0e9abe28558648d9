package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/metrics"
)

type AttachmentHandler struct {
	attachments *repository.AttachmentRepository
	requests    *repository.RequestRepository
	uploads     config.UploadsConfig
}

func NewAttachmentHandler(attachments *repository.AttachmentRepository, requests *repository.RequestRepository, uploads config.UploadsConfig) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, requests: requests, uploads: uploads}
}

func (h *AttachmentHandler) List(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	attachments, err := h.attachments.ListByRequest(id)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(attachments))
}

// Categories lists the attachment categories for the request's team.
// Clients treat this as best-effort decoration and render uncategorized
// uploads when it fails.
func (h *AttachmentHandler) Categories(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, err := h.requests.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	categories, err := h.attachments.Categories(req.TeamID)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(categories))
}

// CategoriesByTeam lists categories before a request exists, for the new
// request form.
func (h *AttachmentHandler) CategoriesByTeam(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	categories, err := h.attachments.Categories(teamID)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(categories))
}

// Upload stores one multipart file against the request. An optional
// category_id form field labels it.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.requests.Get(id); err != nil {
		writeServiceError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}

	var categoryID *uint
	if raw := c.PostForm("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			model.HandleError(c, http.StatusBadRequest, fmt.Errorf("invalid category_id: %s", raw))
			return
		}
		cid := uint(parsed)
		categoryID = &cid
	}

	userID, _ := c.Get("user_id")
	attachment, err := h.storeFile(c, file, id, categoryID, fmt.Sprintf("%v", userID))
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "failed to store attachment")
		return
	}

	c.JSON(http.StatusOK, model.Success(attachment))
}

func (h *AttachmentHandler) Download(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := pathID(c, "attachment_id")
	if !ok {
		return
	}

	attachment, err := h.attachments.Get(requestID, attachmentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	path := filepath.Join(h.uploads.Dir, attachment.StoredName)
	if _, err := os.Stat(path); err != nil {
		model.HandleError(c, http.StatusNotFound, errors.New("attachment file missing from storage"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	if attachment.ContentType != "" {
		c.Header("Content-Type", attachment.ContentType)
	}
	c.File(path)
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := pathID(c, "attachment_id")
	if !ok {
		return
	}

	attachment, err := h.attachments.Get(requestID, attachmentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if err := h.attachments.Delete(requestID, attachmentID); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	// Disk cleanup after the row is gone; a leftover file is harmless, a
	// dangling row is not.
	if err := os.Remove(filepath.Join(h.uploads.Dir, attachment.StoredName)); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to remove attachment file %s: %v", attachment.StoredName, err)
	}

	c.JSON(http.StatusOK, model.Success(nil))
}

// storeFile writes the upload under a uuid name and records the row. Shared
// with the action handler for files staged on approve/reject dialogs.
func (h *AttachmentHandler) storeFile(c *gin.Context, file *multipart.FileHeader, requestID uint, categoryID *uint, uploadedBy string) (*model.Attachment, error) {
	maxBytes := int64(h.uploads.MaxSizeMB) * 1024 * 1024
	if file.Size > maxBytes {
		return nil, fmt.Errorf("file exceeds the %d MB limit", h.uploads.MaxSizeMB)
	}

	if err := os.MkdirAll(h.uploads.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	storedName := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploads.Dir, storedName)); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	attachment := &model.Attachment{
		RequestID:   requestID,
		CategoryID:  categoryID,
		FileName:    filepath.Base(file.Filename),
		StoredName:  storedName,
		ContentType: file.Header.Get("Content-Type"),
		SizeBytes:   file.Size,
		UploadedBy:  uploadedBy,
	}
	if err := h.attachments.Create(attachment); err != nil {
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	// Create does not fill the association; resolve it so the response and
	// the metric label carry the category name.
	if categoryID != nil {
		if cat, err := h.attachments.Category(*categoryID); err == nil {
			attachment.Category = cat
		}
	}

	category := "uncategorized"
	if attachment.Category != nil {
		category = attachment.Category.Name
	}
	metrics.AttachmentsUploaded.WithLabelValues(category).Inc()
	metrics.AttachmentUploadBytes.WithLabelValues(category).Observe(float64(file.Size))

	return attachment, nil
}
