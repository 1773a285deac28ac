package access

import (
	"net/http"

	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Middleware resolves the caller once and applies the navigation policy
// before any handler runs. The snapshot is stored on the request for
// handlers to read with FromContext.
//
// It must run after routing (echo.Use, not echo.Pre): the decision takes
// the strictest class of the decoded path, the path echo routed on and
// the matched route template, so encoded separators cannot move a
// request out of a guarded prefix.
func Middleware(resolver Resolver, policy Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			sess := resolver.Resolve(req.Context(), req)
			setSession(c, sess)

			class := policy.ClassifyAll(req.URL.Path, echo.GetPath(req), c.Path())
			outcome := Admit(class, sess.State)
			if outcome == Allowed {
				return next(c)
			}

			target := policy.Target(outcome)
			log.Debugf("guard redirected %s %s (%s) to %s", req.Method, req.URL.Path, sess.State, target)

			c.Response().Header().Set("Cache-Control", "no-store")
			return c.Redirect(http.StatusTemporaryRedirect, target)
		}
	}
}

// RequireAuthenticated rejects anonymous callers of API routes with 401.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !FromContext(c).State.Authenticated() {
				return c.JSON(apierror.UnauthorizedError.Code(), apierror.UnauthorizedError)
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects anonymous callers with 401 and members with 403.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch FromContext(c).State {
			case Admin:
				return next(c)
			case Member:
				return c.JSON(apierror.AdminOnlyError.Code(), apierror.AdminOnlyError)
			default:
				return c.JSON(apierror.UnauthorizedError.Code(), apierror.UnauthorizedError)
			}
		}
	}
}

// RequireSession returns the caller's snapshot, or UnauthorizedError when
// the caller is anonymous.
func RequireSession(c echo.Context) (*Session, apierror.ErrorResponse) {
	sess := FromContext(c)
	if !sess.State.Authenticated() {
		log.Warnf("route %s attempted to read a session from an anonymous request", c.Request().URL)
		return nil, apierror.UnauthorizedError
	}
	return sess, nil
}
