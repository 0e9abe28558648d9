package model

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(data interface{}) Response {
	return Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

func Error(code int, message string) Response {
	return Response{
		Code:    code,
		Message: message,
	}
}

// FieldError points a validation message at one form field.
type FieldError struct {
	FieldID uint   `json:"field_id"`
	Message string `json:"message"`
}

// CategoryError names an attachment category that still needs a file.
type CategoryError struct {
	CategoryName string `json:"category_name"`
}

// ValidationError is the structured 4xx body for submit-time validation:
// clients map required_fields to inline field errors and required_attachments
// to the attachments panel instead of a generic toast.
type ValidationError struct {
	Detail              string          `json:"detail,omitempty"`
	RequiredFields      []FieldError    `json:"required_fields,omitempty"`
	RequiredAttachments []CategoryError `json:"required_attachments,omitempty"`
}

// HandleError logs the failure with request context and writes the error
// envelope. Extra context strings prefix the message.
func HandleError(c *gin.Context, code int, err error, context ...string) {
	requestMethod := c.Request.Method
	requestPath := c.Request.URL.Path
	requestQuery := c.Request.URL.RawQuery

	userID := ""
	username := ""
	if uid, exists := c.Get("user_id"); exists {
		userID = fmt.Sprintf("%v", uid)
	}
	if uname, exists := c.Get("username"); exists {
		username = fmt.Sprintf("%v", uname)
	}

	fullURL := requestPath
	if requestQuery != "" {
		fullURL = fmt.Sprintf("%s?%s", requestPath, requestQuery)
	}

	errorMsg := err.Error()
	if len(context) > 0 {
		errorMsg = fmt.Sprintf("%s: %v", context[0], err)
	}

	logger.Errorf(
		"Request error [%d]: %v\n"+
			"  Request: %s %s\n"+
			"  Client IP: %s\n"+
			"  User ID: %s\n"+
			"  Username: %s",
		code,
		errorMsg,
		requestMethod,
		fullURL,
		c.ClientIP(),
		userID,
		username,
	)

	c.JSON(code, Error(code, errorMsg))
}

// PaginatedResponse wraps list endpoints.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}
