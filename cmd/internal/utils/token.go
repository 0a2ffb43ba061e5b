package utils

import (
	"clinic/cmd/internal/auth"
	"errors"

	"github.com/labstack/echo/v4"
)

const TokenDataKey = "token_data"

var ErrNoTokenData = errors.New("no token data in context")

// ParseTokenDataCtx returns the caller data stored by the token middleware.
func ParseTokenDataCtx(c echo.Context) (*auth.TokenData, error) {
	data, ok := c.Get(TokenDataKey).(*auth.TokenData)
	if !ok || data == nil {
		return nil, ErrNoTokenData
	}
	return data, nil
}
