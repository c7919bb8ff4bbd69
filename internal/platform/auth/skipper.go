package auth

import (
	"github.com/labstack/echo/v4"
)

// publicRoutes are route patterns (as reported by c.Path()) reachable
// without a session.
var publicRoutes = map[string]bool{
	"/health":                                   true,
	"/health/db":                                true,
	"/api/v1/register":                          true,
	"/api/v1/login":                             true,
	"/api/v1/logout":                            true,
	"/api/v1/doctors":                           true,
	"/api/v1/admin/register":                    true,
	"/api/v1/admin/login":                       true,
	"/api/v1/appointment/slots/:doctorId/:date": true,
	"/api/v1/symptoms/languages":                true,
}

// PublicSkipper reports whether the matched route bypasses authentication.
func PublicSkipper(c echo.Context) bool {
	return publicRoutes[c.Path()]
}
