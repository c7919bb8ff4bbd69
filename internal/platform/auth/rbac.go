package auth

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	RolePatient    = "patient"
	RoleDoctor     = "doctor"
	RolePharmacist = "pharmacist"
	RoleAdmin      = "admin"
)

// RequireRole rejects callers holding none of roles. Admin gets no implicit
// pass and must be listed explicitly.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required {
						return next(c)
					}
				}
			}
			role := "anonymous"
			if len(userRoles) > 0 {
				role = userRoles[0]
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("Role: %s is not allowed to access this resource", role))
		}
	}
}
