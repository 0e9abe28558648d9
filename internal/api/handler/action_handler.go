package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
)

// ActionHandler serves the approve/reject/complete transitions. Bodies come
// in two shapes: plain JSON {"comment": ...} from bare actions, or multipart
// form data when the dialog staged files alongside the comment.
type ActionHandler struct {
	requests    *service.RequestService
	users       *repository.UserRepository
	attachments *AttachmentHandler
}

func NewActionHandler(requests *service.RequestService, users *repository.UserRepository, attachments *AttachmentHandler) *ActionHandler {
	return &ActionHandler{requests: requests, users: users, attachments: attachments}
}

// Submit shares the dual-shape body handling so files staged on the submit
// dialog are stored before required-category validation runs.
func (h *ActionHandler) Submit(c *gin.Context) {
	h.run(c, h.requests.Submit)
}

func (h *ActionHandler) Approve(c *gin.Context) {
	h.run(c, h.requests.Approve)
}

func (h *ActionHandler) Reject(c *gin.Context) {
	h.run(c, h.requests.Reject)
}

func (h *ActionHandler) Complete(c *gin.Context) {
	h.run(c, h.requests.Complete)
}

func (h *ActionHandler) run(c *gin.Context, action func(*model.User, uint, string) (*model.PurchaseRequest, error)) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	comment, ok := h.readBody(c, id, user.ID)
	if !ok {
		return
	}

	req, err := action(user, id, comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(req))
}

// readBody extracts the comment from either body shape, persisting any
// staged multipart files before the transition runs so they are part of the
// request when approvers after this step look at it.
func (h *ActionHandler) readBody(c *gin.Context, requestID uint, userID string) (string, bool) {
	contentType := c.GetHeader("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var body struct {
			Comment string `json:"comment"`
		}
		// An empty body is fine for approve/complete.
		_ = c.ShouldBindJSON(&body)
		return body.Comment, true
	}

	form, err := c.MultipartForm()
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "invalid multipart body")
		return "", false
	}

	comment := c.PostForm("comment")

	var categoryID *uint
	if raw := c.PostForm("category_id"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			cid := uint(parsed)
			categoryID = &cid
		}
	}

	for _, file := range form.File["files"] {
		if _, err := h.attachments.storeFile(c, file, requestID, categoryID, userID); err != nil {
			// Staged files are a courtesy; the transition itself decides
			// whether required categories are satisfied.
			logger.Warnf("Failed to store staged file %s on request %d: %v", file.Filename, requestID, err)
		}
	}

	return comment, true
}
