// Package dto defines the request and response shapes of the HTTP surface.
package dto

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"
)

// APIResponse 通用 API 响应结构
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorDTO   `json:"error,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorDTO 错误信息 DTO
type ErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendSuccess writes a success envelope.
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, &APIResponse{
		Success:   true,
		Data:      data,
		TraceID:   traceID(c),
		Timestamp: time.Now().Unix(),
	})
}

// SendError writes an error envelope with the status derived from the
// error's classification.
func SendError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	c.JSON(httpStatus(code), &APIResponse{
		Success: false,
		Error: &ErrorDTO{
			Code:    string(code),
			Message: err.Error(),
		},
		TraceID:   traceID(c),
		Timestamp: time.Now().Unix(),
	})
}

func traceID(c *gin.Context) string {
	if id, ok := c.Request.Context().Value(constants.ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

func httpStatus(code errors.Code) int {
	switch code {
	case errors.CodeInvalidArgument:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeConflict:
		return http.StatusConflict
	case errors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
