package routes

import (
	"clinic/cmd/internal/service"
	"clinic/cmd/internal/utils/apierror"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetUsers() ([]*service.UserResponse, apierror.ErrorResponse)
	GetDoctors() ([]*service.UserResponse, apierror.ErrorResponse)
	GetUser(rawId string, caller service.Caller) (*service.UserResponse, apierror.ErrorResponse)
	Register(req *service.RegisterRequest) (*service.UserResponse, apierror.ErrorResponse)
	Login(req *service.LoginRequest) (*service.LoginResponse, apierror.ErrorResponse)
	DeleteUser(rawId string) apierror.ErrorResponse
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	users, apierr := u.UserService.GetUsers()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"ok": true, "users": users}
	return c.JSON(http.StatusOK, &resp)
}

func (u *DefaultUserRoute) GetDoctors(c echo.Context) error {
	doctors, apierr := u.UserService.GetDoctors()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"ok": true, "doctors": doctors}
	return c.JSON(http.StatusOK, &resp)
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	rawId := strings.TrimSpace(c.Param("id"))
	if rawId == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	caller, err := callerFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	user, apierr := u.UserService.GetUser(rawId, caller)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "user": user})
}

func (u *DefaultUserRoute) Register(c echo.Context) error {
	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.Register(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true, "user": user})
}

func (u *DefaultUserRoute) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Login(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "user": resp.User, "access_token": resp.AccessToken})
}

func (u *DefaultUserRoute) DeleteUser(c echo.Context) error {
	rawId := strings.TrimSpace(c.Param("id"))
	if rawId == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	if apierr := u.UserService.DeleteUser(rawId); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
