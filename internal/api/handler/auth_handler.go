package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
)

type AuthHandler struct {
	auth  *service.AuthService
	users *repository.UserRepository
}

func NewAuthHandler(auth *service.AuthService, users *repository.UserRepository) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}

	resp, err := h.auth.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, model.Error(401, err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.Success(resp))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}

	user, err := h.auth.Register(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.Success(user))
}

// Me returns the authenticated account plus its team memberships, which the
// client uses to decide which inboxes to show.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.Success(user))
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	page, pageSize := pagination(c)
	total, users, err := h.users.List(page, pageSize)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, model.PaginatedResponse{
		Data:       users,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	})
}
