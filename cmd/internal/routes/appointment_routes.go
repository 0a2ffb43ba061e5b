package routes

import (
	"clinic/cmd/internal/service"
	"clinic/cmd/internal/utils/apierror"
	"net/http"

	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	GetVisibleAppointments(caller service.Caller) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	Book(req *service.BookRequest, caller service.Caller) (*service.AppointmentResponse, apierror.ErrorResponse)
	Cancel(id int, caller service.Caller) apierror.ErrorResponse
	Complete(id int, req *service.CompleteRequest, caller service.Caller) apierror.ErrorResponse
	GetRecord(id int, caller service.Caller) (*service.RecordResponse, apierror.ErrorResponse)
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	appts, apierr := a.AppointmentService.GetVisibleAppointments(caller)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"ok": true, "appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) Book(c echo.Context) error {
	var req service.BookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	caller, err := callerFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.Book(&req, caller)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true, "appointment": appt})
}

func (a *DefaultAppointmentRoute) Cancel(c echo.Context) error {
	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	caller, err := callerFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	if serr := a.AppointmentService.Cancel(id, caller); serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (a *DefaultAppointmentRoute) Complete(c echo.Context) error {
	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.CompleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	caller, err := callerFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	if serr := a.AppointmentService.Complete(id, &req, caller); serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (a *DefaultAppointmentRoute) GetRecord(c echo.Context) error {
	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	caller, err := callerFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	record, serr := a.AppointmentService.GetRecord(id, caller)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "record": record})
}
