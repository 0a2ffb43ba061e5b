package routes

import (
	"clinic/cmd/internal/service"
	"clinic/cmd/internal/utils"
	"clinic/cmd/internal/utils/apierror"
	"strconv"

	"github.com/labstack/echo/v4"
)

func callerFrom(c echo.Context) (service.Caller, error) {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return service.Caller{}, err
	}
	return service.Caller{ID: data.ID, Role: data.Role}, nil
}

func parseID(c echo.Context) (int, apierror.ErrorResponse) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apierror.NewSimple(400, "ID is not a number")
	}
	return id, nil
}
