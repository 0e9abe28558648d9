package handler

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/metrics"
)

func newAttachmentTestHandler(t *testing.T) (*AttachmentHandler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.AttachmentCategory{}, &model.Attachment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	uploads := config.UploadsConfig{Dir: t.TempDir(), MaxSizeMB: 5}
	return NewAttachmentHandler(repository.NewAttachmentRepository(db), repository.NewRequestRepository(db), uploads), db
}

func multipartContext(t *testing.T, fileName, content string) (*gin.Context, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	header, err := c.FormFile("file")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	return c, header
}

func TestStoreFileResolvesCategoryLabel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, db := newAttachmentTestHandler(t)

	category := model.AttachmentCategory{Name: "پیش‌فاکتور", Required: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	before := testutil.ToFloat64(metrics.AttachmentsUploaded.WithLabelValues("پیش‌فاکتور"))

	c, header := multipartContext(t, "proforma.pdf", "pdf-bytes")
	attachment, err := h.storeFile(c, header, 1, &category.ID, "user-1")
	if err != nil {
		t.Fatalf("storeFile: %v", err)
	}

	if attachment.Category == nil || attachment.Category.Name != "پیش‌فاکتور" {
		t.Errorf("category not resolved on stored attachment: %+v", attachment.Category)
	}
	after := testutil.ToFloat64(metrics.AttachmentsUploaded.WithLabelValues("پیش‌فاکتور"))
	if after != before+1 {
		t.Errorf("upload counter for category = %v, want %v", after, before+1)
	}
}

func TestStoreFileWithoutCategoryIsUncategorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newAttachmentTestHandler(t)

	before := testutil.ToFloat64(metrics.AttachmentsUploaded.WithLabelValues("uncategorized"))

	c, header := multipartContext(t, "note.txt", "hello")
	attachment, err := h.storeFile(c, header, 1, nil, "user-1")
	if err != nil {
		t.Fatalf("storeFile: %v", err)
	}

	if attachment.Category != nil {
		t.Errorf("unexpected category: %+v", attachment.Category)
	}
	after := testutil.ToFloat64(metrics.AttachmentsUploaded.WithLabelValues("uncategorized"))
	if after != before+1 {
		t.Errorf("uncategorized counter = %v, want %v", after, before+1)
	}
}
