package sheets

import (
	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/internal/models"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
	"github.com/grahmind/careers-waitlist/pkg/utils"
)

const genericErrorDetail = "Something went wrong"

// NewSubmitEmailController serves POST /api/submit-email. Other methods on the
// path get the router's 405 response.
func NewSubmitEmailController(client Appender, logger *log.Logger, opts ...ServiceOption) *router.RESTController {
	service := NewForwardingService(client, logger, opts...)

	return router.NewRESTController(
		"SubmitEmailController",
		"/api",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddPostHandler(c, nil, "submit-email", submitEmailHandler(service))
		},
	)
}

func submitEmailHandler(service ForwardingService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)
		logger.Info("Email submission API called", "user_agent", ctx.Request.UserAgent())

		var req SubmitEmailRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Missing required fields",
				"email", req.Email != "",
				"timestamp", req.Timestamp != "",
				"source", req.Source != "",
			)
			return router.BadRequestResult(MessageMissingFields, nil)
		}

		acceptedAt, err := service.Forward(ctx.Request.Context(), req)
		if err != nil {
			if apperrors.GetErrorType(err) == apperrors.ErrorTypeConfiguration {
				return router.InternalServerErrorResult(MessageConfigurationError)
			}

			detail := genericErrorDetail
			if utils.IsDevelopment() {
				detail = err.Error()
			}
			return router.ErrorResult(apperrors.StatusInternalServerError, MessageInternalError, SubmitEmailError{Error: detail})
		}

		timestamp := acceptedAt.UTC().Format(models.TimestampLayout)
		return router.OKResult(SubmitEmailResponse{Timestamp: timestamp}, MessageSubmitted).
			WithTopLevel("timestamp", timestamp)
	}
}
