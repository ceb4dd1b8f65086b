package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

type ServiceResult struct {
	StatusCode int    `json:"code"`
	Data       any    `json:"data"`
	Message    string `json:"message"`

	// File, when set, is written as a raw attachment instead of the JSON envelope.
	File *FileAttachment `json:"-"`

	// TopLevel fields are written beside the envelope keys and never replace them.
	TopLevel map[string]any `json:"-"`
}

type FileAttachment struct {
	Name        string
	ContentType string
	Content     []byte
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	body := gin.H{}
	for key, value := range result.TopLevel {
		body[key] = value
	}
	body["code"] = result.StatusCode
	body["data"] = result.Data
	body["message"] = result.Message
	return body
}

// WithTopLevel sets a field beside the envelope keys.
func (result *ServiceResult) WithTopLevel(key string, value any) *ServiceResult {
	if result.TopLevel == nil {
		result.TopLevel = map[string]any{}
	}
	result.TopLevel[key] = value
	return result
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}
