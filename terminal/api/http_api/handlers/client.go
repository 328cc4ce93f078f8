package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/lojascometa/contract-terminal/terminal/api/dto"
	cs "github.com/lojascometa/contract-terminal/terminal/api/http_api/context_service"
	req "github.com/lojascometa/contract-terminal/terminal/api/http_api/requests"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

func (a *HTTPApp) LookupClient(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &ClientIdDTO{}
	if err := stx.BindToDTO(&req.ClientIdForm{}, formDTO); err != nil {
		return err
	}

	client, err := a.workflow.LookupClient(stx.Request().Context(), formDTO.ClientID)
	if err != nil {
		return stx.JsonError(apiStatus(err), err)
	}
	return stx.Json(http.StatusOK, client)
}

func (a *HTTPApp) GetClient(c echo.Context) error {
	stx := c.(*cs.ContextService)

	client, err := a.workflow.Client()
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	if client == nil {
		return stx.JsonError(http.StatusNotFound, &types.NotFoundError{})
	}
	return stx.Json(http.StatusOK, client)
}

func (a *HTTPApp) GetWorkflowState(c echo.Context) error {
	stx := c.(*cs.ContextService)

	status, err := a.workflow.Status()
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, status)
}
