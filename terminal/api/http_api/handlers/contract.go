package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	cs "github.com/lojascometa/contract-terminal/terminal/api/http_api/context_service"
	"github.com/lojascometa/contract-terminal/terminal/api/http_api/responses"
)

func (a *HTTPApp) SubmitContract(c echo.Context) error {
	stx := c.(*cs.ContextService)

	location, qrPath, err := a.workflow.SubmitContract(stx.Request().Context())
	if err != nil {
		return stx.JsonError(apiStatus(err), err)
	}

	return stx.Json(http.StatusOK, &responses.SubmitContractResponse{
		ContractURL: location.URL,
		QrPath:      qrPath,
	})
}

func (a *HTTPApp) ListContracts(c echo.Context) error {
	stx := c.(*cs.ContextService)

	contracts, err := a.backend.ListContracts(stx.Request().Context())
	if err != nil {
		return stx.JsonError(http.StatusBadGateway, err)
	}
	return stx.Json(http.StatusOK, contracts)
}
