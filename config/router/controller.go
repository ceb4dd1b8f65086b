package router

import (
	"fmt"
	"net/http"
	"path"

	"github.com/grahmind/careers-waitlist/pkg/ratelimit"
)

func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: path.Join("/", mountPoint),
		prepare:    prepare,
	}
}

// NewVersionedRESTController mounts the controller under /{version}/{mountPoint}.
func NewVersionedRESTController(name, version, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: path.Join("/", version, mountPoint),
		version:    version,
		prepare:    prepare,
	}
}

// RateLimitWith applies limiter to every handler of the controller that has
// no limiter of its own. A nil limiter is ignored.
func (controller *RESTController) RateLimitWith(routerService *RouterService, limiter ratelimit.RateLimiter) *RESTController {
	routerService.bindOverrideRateLimiter(controller.mountPoint, limiter)
	return controller
}

func (controller *RESTController) route(relativePath string) string {
	return path.Join(controller.mountPoint, relativePath)
}

func (routerService *RouterService) keyForPathAndMethod(route, method string) string {
	return method + " " + route
}

func (routerService *RouterService) bindOverrideRateLimiter(key string, limiter ratelimit.RateLimiter) {
	if limiter == nil {
		return
	}
	if _, taken := routerService.rateLimitOverrides[key]; taken {
		panic(fmt.Sprintf("router: rate limiter already registered for %q", key))
	}
	routerService.rateLimitOverrides[key] = limiter
}

func writeResult(c *RequestContext, result *ServiceResult) {
	switch {
	case result == nil:
		c.JSON(http.StatusInternalServerError, InternalServerErrorResult("Handler returned no result").ToJSON())
	case result.File != nil:
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.File.Name))
		c.Data(result.StatusCode, result.File.ContentType, result.File.Content)
	default:
		c.JSON(result.StatusCode, result.ToJSON())
	}
}

func (routerService *RouterService) addHandler(
	method string,
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	relativePath string,
	handler HandlerFunction,
	middlewares []MiddlewareFunc,
) {
	route := controller.route(relativePath)
	key := routerService.keyForPathAndMethod(route, method)

	if owner, taken := routerService.handlerToControllerMap[key]; taken {
		panic(fmt.Sprintf("router: %s already registered by controller %q", key, owner.name))
	}
	routerService.handlerToControllerMap[key] = controller
	routerService.bindOverrideRateLimiter(key, limiter)
	controller.handlerCount++

	chain := append(middlewares, func(c *RequestContext) { writeResult(c, handler(c)) })
	routerService.engine.Handle(method, route, chain...)
	routerService.logger.Debug("Handler registered", "method", method, "path", route)
}

func (routerService *RouterService) AddGetHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodGet, controller, limiter, path, handler, middlewares)
}

func (routerService *RouterService) AddPostHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodPost, controller, limiter, path, handler, middlewares)
}

func (routerService *RouterService) AddDeleteHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodDelete, controller, limiter, path, handler, middlewares)
}
