package admin

import (
	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/pkg/constants"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
)

type ControllerConfig struct {
	CookieSecure bool
}

func NewAdminController(gate *Gate, cfg ControllerConfig) *router.RESTController {
	return router.NewVersionedRESTController(
		"AdminController",
		"v1",
		"/admin",
		func(rs *router.RouterService, c *router.RESTController) {
			loginLimiter := rs.NewRateLimiter("admin-login", constants.AdminLoginRequestsPerMinute, constants.DefaultRateLimitWindow)

			rs.AddPostHandler(c, loginLimiter, "login", loginHandler(gate, cfg))
			rs.AddPostHandler(c, nil, "logout", logoutHandler(gate, cfg))
			rs.AddGetHandler(c, nil, "session", sessionHandler(gate))
		},
	)
}

func loginHandler(gate *Gate, cfg ControllerConfig) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req LoginRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)
			return router.BadRequestResult("Invalid request body", apperrors.FieldErrors(err, &req))
		}

		session, err := gate.Login(ctx.Request.Context(), req.Username, req.Password)
		if err != nil {
			return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
		}

		setSessionCookie(ctx, session.Token, cfg.CookieSecure)
		return router.OKResult(LoginResponse{Token: session.Token, CreatedAt: session.CreatedAt}, "Login successful")
	}
}

func logoutHandler(gate *Gate, cfg ControllerConfig) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		if err := gate.Logout(ctx.Request.Context(), TokenFromRequest(ctx)); err != nil {
			return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
		}

		clearSessionCookie(ctx, cfg.CookieSecure)
		return router.OKResult(SessionStatusResponse{Authenticated: false}, "Logged out")
	}
}

func sessionHandler(gate *Gate) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		session, err := gate.Authenticate(ctx.Request.Context(), TokenFromRequest(ctx))
		if err != nil {
			if apperrors.HTTPStatusCode(err) == apperrors.StatusUnauthorized {
				return router.OKResult(SessionStatusResponse{Authenticated: false}, "Not authenticated")
			}
			return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
		}

		createdAt := session.CreatedAt
		return router.OKResult(SessionStatusResponse{Authenticated: true, CreatedAt: &createdAt}, "Authenticated")
	}
}
