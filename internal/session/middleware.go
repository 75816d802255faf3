package session

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"etshoes/internal/auth"
	"etshoes/internal/model"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/auth/login"

// UnauthenticatedResponse is the body of every 401 produced by the guard.
// Wrong role and no session look the same to the caller.
type UnauthenticatedResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Redirect string `json:"redirect"`
}

// Unauthenticated builds the guard's 401 error.
func Unauthenticated() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, UnauthenticatedResponse{
		Error:    "authentication required",
		Code:     "UNAUTHENTICATED",
		Redirect: LoginPath,
	})
}

// Middleware converts the token verified by the JWT middleware into a
// Session. Refresh tokens and blacklisted access tokens are rejected.
func Middleware(tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return Unauthenticated()
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.Type != auth.TokenTypeAccess {
				return Unauthenticated()
			}

			ctx := c.Request().Context()
			if claims.ID != "" {
				if revoked, _ := tokens.IsAccessTokenBlacklisted(ctx, claims.ID); revoked {
					zap.L().Debug("rejected revoked access token", zap.String("token_id", claims.ID))
					return Unauthenticated()
				}
			}

			s := Session{UserID: claims.UserID, Role: claims.Role, TokenID: claims.ID}
			c.SetRequest(c.Request().WithContext(WithSession(ctx, s)))
			return next(c)
		}
	}
}

// RequireRoles lets the request through only when the session role is one of roles.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := Current(c.Request().Context())
			if !ok {
				return Unauthenticated()
			}
			if _, ok := allowed[s.Role]; !ok {
				return Unauthenticated()
			}
			return next(c)
		}
	}
}
