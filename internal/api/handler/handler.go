// Package handler implements the HTTP endpoints of the purchase request API.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
)

// pathID reads a uint path parameter, answering 400 itself on garbage.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, fmt.Errorf("invalid %s: %s", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// currentUser loads the authenticated account the middleware identified.
func currentUser(c *gin.Context, users *repository.UserRepository) (*model.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, model.Error(401, "unauthenticated"))
		return nil, false
	}
	user, err := users.FindByID(fmt.Sprintf("%v", userID))
	if err != nil {
		model.HandleError(c, http.StatusUnauthorized, err, "failed to load current user")
		return nil, false
	}
	return user, true
}

// writeServiceError maps service-layer failures onto HTTP statuses. The
// structured validation body goes out as-is under a 400 so clients can
// highlight fields and attachment categories.
func writeServiceError(c *gin.Context, err error) {
	var validation *service.ValidationFailedError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":                 400,
			"message":              validation.Body.Detail,
			"detail":               validation.Body.Detail,
			"required_fields":      validation.Body.RequiredFields,
			"required_attachments": validation.Body.RequiredAttachments,
		})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, model.Error(403, err.Error()))
	case errors.Is(err, service.ErrNotEditable):
		c.JSON(http.StatusConflict, model.Error(409, err.Error()))
	case errors.Is(err, service.ErrTransitionBusy):
		c.JSON(http.StatusConflict, model.Error(409, err.Error()))
	case errors.Is(err, repository.ErrNoTemplate):
		c.JSON(http.StatusNotFound, model.Error(404, err.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, model.Error(404, "not found"))
	default:
		model.HandleError(c, http.StatusInternalServerError, err)
	}
}

// pagination reads page/page_size with the API-wide defaults.
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
