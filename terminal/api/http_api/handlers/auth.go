package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/lojascometa/contract-terminal/terminal/api/dto"
	cs "github.com/lojascometa/contract-terminal/terminal/api/http_api/context_service"
	req "github.com/lojascometa/contract-terminal/terminal/api/http_api/requests"
)

func (a *HTTPApp) Login(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &LoginDTO{}
	if err := stx.BindToDTO(&req.LoginForm{}, formDTO); err != nil {
		return err
	}

	session, err := a.backend.Login(stx.Request().Context(), formDTO.User, formDTO.Password)
	if err != nil {
		return stx.JsonError(apiStatus(err), err)
	}
	return stx.Json(http.StatusOK, session)
}

func (a *HTTPApp) GetUsername(c echo.Context) error {
	stx := c.(*cs.ContextService)

	return stx.Json(http.StatusOK, a.username)
}
