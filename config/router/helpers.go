package router

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/grahmind/careers-waitlist/internal/log"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

func CreatedResult(data any, resourceName string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusCreated,
		Data:       data,
		Message:    resourceName + " created successfully",
	}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Data:       data,
		Message:    "Too Many Requests",
	}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Data:       payload,
		Message:    message,
	}
}

func FileResult(name, contentType string, content []byte) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Message:    name,
		File: &FileAttachment{
			Name:        name,
			ContentType: contentType,
			Content:     content,
		},
	}
}

func UnauthorizedResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusUnauthorized,
		Data:       nil,
		Message:    message,
	}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusNotFound,
		Data:       nil,
		Message:    message,
	}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusInternalServerError,
		Data:       nil,
		Message:    message,
	}
}

func BadGatewayResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadGateway,
		Data:       nil,
		Message:    message,
	}
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	}
}

// ParseBoolQuery reads an optional boolean query parameter; a missing value is false.
func ParseBoolQuery(ctx *RequestContext, name string) (bool, *ServiceResult) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return false, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		GetLogger(ctx).Warn("Invalid boolean query parameter", "param", name, "value", raw)
		return false, BadRequestResult(fmt.Sprintf("Invalid value for %s", name), nil)
	}

	return value, nil
}
