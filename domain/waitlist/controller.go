package waitlist

import (
	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/internal/log"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
	"github.com/grahmind/careers-waitlist/pkg/liststore"
)

func NewWaitlistController(
	updater *liststore.Updater,
	logger *log.Logger,
	opts ...ServiceOption,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			service := NewWaitlistService(logger, updater, opts...)

			rs.AddPostHandler(c, nil, "", joinWaitlistHandler(service))
		},
	)
}

func joinWaitlistHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req JoinWaitlistRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)
			return router.BadRequestResult("Invalid request body", apperrors.FieldErrors(err, &req))
		}

		submission, err := service.Submit(ctx.Request.Context(), req.Email)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				ToSubmissionResponse(submission),
			)
		}

		return router.CreatedResult(ToSubmissionResponse(submission), "Waitlist entry")
	}
}
