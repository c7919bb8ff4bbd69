package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserRolesKey contextKey = "user_roles"
	TokenIDKey   contextKey = "token_id"
)

// CookieName is the session cookie set at login.
const CookieName = "token"

// ErrAccountNotFound is returned by an AccountLookup when the session's user
// no longer exists.
var ErrAccountNotFound = errors.New("account not found")

// Account is the live state of the user behind a session.
type Account struct {
	Role    string
	Blocked bool
}

// AccountLookup loads the account for a token subject.
type AccountLookup interface {
	LookupAccount(ctx context.Context, userID string) (*Account, error)
}

type JWTConfig struct {
	Tokens      *TokenManager
	Revocations RevocationChecker
	// Accounts, when set, is consulted on every request so deleted or
	// blocked users lose access immediately. The stored role wins over the
	// role in the token.
	Accounts AccountLookup
	// Skipper lets public routes through without a token.
	Skipper func(c echo.Context) bool
	Logger  zerolog.Logger
}

// TokenFromRequest reads the session token from the cookie, falling back to
// an Authorization: Bearer header for non-browser clients.
func TokenFromRequest(r *http.Request) string {
	if ck, err := r.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}

			tokenStr := TokenFromRequest(c.Request())
			if tokenStr == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please login to access this feature")
			}

			claims, err := cfg.Tokens.Parse(tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			if cfg.Revocations != nil {
				revoked, err := cfg.Revocations.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					cfg.Logger.Error().Err(err).Msg("revocation lookup failed")
					return echo.NewHTTPError(http.StatusServiceUnavailable, "Session check unavailable, please retry")
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "Session has been logged out")
				}
			}

			role := claims.Role
			if cfg.Accounts != nil {
				acct, err := cfg.Accounts.LookupAccount(c.Request().Context(), claims.Subject)
				if errors.Is(err, ErrAccountNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "User not found, please login again")
				}
				if err != nil {
					cfg.Logger.Error().Err(err).Msg("account lookup failed")
					return echo.NewHTTPError(http.StatusServiceUnavailable, "Session check unavailable, please retry")
				}
				if acct.Blocked {
					return echo.NewHTTPError(http.StatusForbidden, "Your account has been blocked. Please contact support.")
				}
				role = acct.Role
			}

			c.Set("user_id", claims.Subject)
			ctx := WithIdentity(c.Request().Context(), claims.Subject, role)
			ctx = context.WithValue(ctx, TokenIDKey, claims.ID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// WithIdentity stores the caller on ctx. Tests use it to fake a session.
func WithIdentity(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UserRolesKey, []string{role})
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(UserRolesKey).([]string)
	return roles
}

// RoleFromContext returns the caller's single role, or "" when anonymous.
func RoleFromContext(ctx context.Context) string {
	if roles := RolesFromContext(ctx); len(roles) > 0 {
		return roles[0]
	}
	return ""
}

func TokenIDFromContext(ctx context.Context) string {
	jti, _ := ctx.Value(TokenIDKey).(string)
	return jti
}
