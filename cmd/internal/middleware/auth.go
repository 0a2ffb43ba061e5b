package middleware

import (
	"clinic/cmd/internal/auth"
	"clinic/cmd/internal/domain/entity"
	"clinic/cmd/internal/utils"
	"clinic/cmd/internal/utils/apierror"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type TokenParser interface {
	Parse(raw string) (*auth.TokenData, error)
}

// AccountLookup resolves the account behind a token. It returns (nil, nil)
// for unknown ids.
type AccountLookup interface {
	FindByID(id int) (*entity.User, error)
}

// RequireToken verifies the bearer token and stores the caller in the context
// under utils.TokenDataKey. The account is looked up on every request, so a
// deleted user's token stops working at once and the stored role wins over
// the one in the token.
func RequireToken(parser TokenParser, accounts AccountLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// token from Authorization: Bearer <jwt>
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(header, "Bearer ")
			raw = strings.TrimSpace(raw)
			if !found || raw == "" {
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			data, err := parser.Parse(raw)
			if err != nil {
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			user, err := accounts.FindByID(data.ID)
			if err != nil {
				log.Errorf("failed to resolve token owner %d: %v", data.ID, err)
				return c.JSON(apierror.StorageUnavailableError.Code(), apierror.StorageUnavailableError)
			}
			if user == nil {
				log.Warnf("token presented for deleted user %d", data.ID)
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}
			data.Role = user.Role

			c.Set(utils.TokenDataKey, data)
			return next(c)
		}
	}
}

// RequireRole lets the request through only for the given roles.
// It must run after RequireToken.
func RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, err := utils.ParseTokenDataCtx(c)
			if err != nil {
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}
			if !slices.Contains(roles, data.Role) {
				return c.JSON(apierror.ForbiddenError.Code(), apierror.ForbiddenError)
			}
			return next(c)
		}
	}
}
