package middleware

import (
	"net/http"

	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrorResponse 统一错误响应格式
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandlingMiddleware 统一错误处理中间件
func ErrorHandlingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Code:    "INTERNAL_ERROR",
					Message: "An internal error occurred",
				})
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status, resp := Classify(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request error",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
		} else {
			logger.Info("request rejected",
				zap.Error(err),
				zap.Int("status", status),
				zap.String("path", c.Request.URL.Path))
		}
		c.JSON(status, resp)
	}
}

// Classify 按错误类型返回状态码与响应体
func Classify(err error) (int, ErrorResponse) {
	switch {
	case errors.IsAny(err, errors.ErrNotFound, gorm.ErrRecordNotFound):
		return http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Resource not found",
			Details: err.Error(),
		}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, ErrorResponse{
			Code:    "DUPLICATE",
			Message: "Resource already exists",
		}
	case errors.Is(err, errors.ErrInvalidArgument):
		return http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "Invalid request",
			Details: err.Error(),
		}
	}
	return http.StatusInternalServerError, ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "An error occurred while processing your request",
		Details: err.Error(),
	}
}
