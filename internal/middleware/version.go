package middleware

import (
	"net/http"
	"strings"

	"shopdesk/internal/common"

	"github.com/labstack/echo/v4"
)

// VersionMiddleware tags responses with the API version and rejects unknown
// version prefixes.
type VersionMiddleware struct {
	supported      map[string]string // version -> message
	defaultVersion string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supported: map[string]string{
			"v1": "Current stable API version",
		},
		defaultVersion: "v1",
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			if msg, ok := vm.supported[version]; ok {
				c.Response().Header().Set("X-API-Message", msg)
			}
			return next(c)
		}
	}
}

// APIVersionResolver stores the requested version under "api_version". Paths
// like /v9/... with an unsupported version get a 404.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := extractVersion(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if _, ok := vm.supported[version]; !ok {
				return c.JSON(http.StatusNotFound, common.CreateErrorResponse("NOT_FOUND", "Unsupported API version", nil))
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// extractVersion returns the leading /vN segment of path, if any.
func extractVersion(path string) string {
	segment := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	if len(segment) < 2 || segment[0] != 'v' {
		return ""
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return segment
}
