package routes

import (
	"clinic/cmd/internal/utils/apierror"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type Pinger interface {
	Ping() error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func() error

func (f PingFunc) Ping() error { return f() }

type DefaultHealthRoute struct {
	DB Pinger
}

func NewHealthDefault(db Pinger) *DefaultHealthRoute {
	return &DefaultHealthRoute{DB: db}
}

func (h *DefaultHealthRoute) GetHealth(c echo.Context) error {
	if err := h.DB.Ping(); err != nil {
		log.Errorf("health check failed: %v", err)
		return c.JSON(apierror.StorageUnavailableError.Code(), apierror.StorageUnavailableError)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "db": "connected"})
}
