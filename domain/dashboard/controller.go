package dashboard

import (
	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/domain/admin"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
)

const csvContentType = "text/csv; charset=utf-8"

func NewDashboardController(view *View, gate *admin.Gate) *router.RESTController {
	return router.NewVersionedRESTController(
		"DashboardController",
		"v1",
		"/admin/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			requireSession := admin.RequireSession(gate)

			rs.AddGetHandler(c, nil, "", listHandler(view), requireSession)
			rs.AddPostHandler(c, nil, "refresh", refreshHandler(view), requireSession)
			rs.AddGetHandler(c, nil, "stats", statsHandler(view), requireSession)
			rs.AddGetHandler(c, nil, "export", exportHandler(view), requireSession)
			rs.AddDeleteHandler(c, nil, "", clearHandler(view), requireSession)
		},
	)
}

func queryParams(ctx *router.RequestContext) (string, Window) {
	return ctx.Query("search"), ParseWindow(ctx.Query("filter"))
}

func listHandler(view *View) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		if err := view.EnsureLoaded(ctx.Request.Context()); err != nil {
			return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
		}

		term, window := queryParams(ctx)
		return router.OKResult(view.toResponse(term, window), "Waitlist retrieved")
	}
}

func refreshHandler(view *View) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		if _, err := view.Refresh(ctx.Request.Context()); err != nil {
			return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
		}

		term, window := queryParams(ctx)
		return router.OKResult(view.toResponse(term, window), "Waitlist refreshed")
	}
}

func statsHandler(view *View) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		if err := view.EnsureLoaded(ctx.Request.Context()); err != nil {
			return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
		}
		return router.OKResult(view.Stats(), "Waitlist stats retrieved")
	}
}

func exportHandler(view *View) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		if err := view.EnsureLoaded(ctx.Request.Context()); err != nil {
			return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
		}

		term, window := queryParams(ctx)
		name, content := view.ExportCSV(term, window)

		router.GetLogger(ctx).Info("Waitlist exported", "file", name, "bytes", len(content))
		return router.FileResult(name, csvContentType, content)
	}
}

func clearHandler(view *View) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		confirmed, badRequest := router.ParseBoolQuery(ctx, "confirm")
		if badRequest != nil {
			return badRequest
		}

		if err := view.ClearAll(ctx.Request.Context(), confirmed); err != nil {
			return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
		}
		return router.OKResult(ClearResponse{Cleared: true}, "Waitlist cleared")
	}
}
