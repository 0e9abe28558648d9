package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
)

type RequestHandler struct {
	requests *service.RequestService
	users    *repository.UserRepository
}

func NewRequestHandler(requests *service.RequestService, users *repository.UserRepository) *RequestHandler {
	return &RequestHandler{requests: requests, users: users}
}

// List returns a page of purchase requests. Without an explicit requestor_id
// filter, non-admin callers only ever see their own requests.
func (h *RequestHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := repository.RequestFilter{
		StatusCode:    c.Query("status"),
		ExcludeStatus: c.Query("exclude_status"),
		Keyword:       c.Query("keyword"),
		Page:          page,
		PageSize:      pageSize,
	}
	if teamID, err := strconv.ParseUint(c.Query("team_id"), 10, 32); err == nil {
		filter.TeamID = uint(teamID)
	}

	requestorID := c.Query("requestor_id")
	role, _ := c.Get("role")
	if requestorID == "" && role != "admin" {
		// Approver/finance inboxes pass a team_id with a status filter;
		// anything else defaults to the caller's own requests.
		if filter.TeamID == 0 || filter.StatusCode == "" {
			userID, _ := c.Get("user_id")
			requestorID, _ = userID.(string)
		}
	}
	filter.RequestorID = requestorID

	total, requests, err := h.requests.List(filter)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, model.PaginatedResponse{
		Data:       requests,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	})
}

func (h *RequestHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	var input service.RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}
	if input.TeamID == 0 || input.PurchaseTypeCode == "" {
		c.JSON(http.StatusBadRequest, model.Error(400, "team_id and purchase_type_code are required"))
		return
	}

	req, err := h.requests.CreateDraft(user, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(req))
}

func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, err := h.requests.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(req))
}

func (h *RequestHandler) Update(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input service.RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}

	req, err := h.requests.Update(user, id, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(req))
}

func (h *RequestHandler) Cancel(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Comment string `json:"comment"`
	}
	_ = c.ShouldBindJSON(&body)

	req, err := h.requests.Cancel(user, id, body.Comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(req))
}

// Render returns the widget descriptors for the request's form, already
// ordered and bound to stored values.
func (h *RequestHandler) Render(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	widgets, err := h.requests.Render(user, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(widgets))
}

// History lists the approval trail in chronological order.
func (h *RequestHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	records, err := h.requests.History(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(records))
}

// Summary aggregates completed spend per team.
func (h *RequestHandler) Summary(c *gin.Context) {
	rows, err := h.requests.Summary()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(rows))
}
