package routes

import (
	"clinic/cmd/internal/service"
	"clinic/cmd/internal/utils/apierror"
	"net/http"

	"github.com/labstack/echo/v4"
)

type DashboardService interface {
	GetDashboard(caller service.Caller) (*service.DashboardResponse, apierror.ErrorResponse)
}

type DefaultDashboardRoute struct {
	DashboardService DashboardService
}

func NewDashboardDefault(dashboardService DashboardService) *DefaultDashboardRoute {
	return &DefaultDashboardRoute{DashboardService: dashboardService}
}

// GetDashboard answers with the view matching the role in the token.
func (d *DefaultDashboardRoute) GetDashboard(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	dashboard, apierr := d.DashboardService.GetDashboard(caller)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "dashboard": dashboard})
}
