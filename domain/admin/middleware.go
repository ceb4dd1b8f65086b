package admin

import (
	"net/http"
	"strings"

	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/pkg/constants"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
)

// TokenFromRequest reads the session cookie, falling back to a bearer token.
func TokenFromRequest(c *router.RequestContext) string {
	if cookie, err := c.Cookie(constants.AdminSessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// RequireSession aborts with 401 unless the request carries a live session,
// which is then available through SessionFromContext.
func RequireSession(gate *Gate) router.MiddlewareFunc {
	return func(c *router.RequestContext) {
		session, err := gate.Authenticate(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			status := apperrors.HTTPStatusCode(err)
			c.AbortWithStatusJSON(status, router.ErrorResult(status, apperrors.GetHumanReadableMessage(err), nil).ToJSON())
			return
		}

		c.Request = c.Request.WithContext(ContextWithSession(c.Request.Context(), session))
		c.Next()
	}
}

func setSessionCookie(c *router.RequestContext, token string, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.AdminSessionCookieName, token, 0, "/", "", secure, true)
}

func clearSessionCookie(c *router.RequestContext, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.AdminSessionCookieName, "", -1, "/", "", secure, true)
}
