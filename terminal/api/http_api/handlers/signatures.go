package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/lojascometa/contract-terminal/terminal/api/dto"
	cs "github.com/lojascometa/contract-terminal/terminal/api/http_api/context_service"
	req "github.com/lojascometa/contract-terminal/terminal/api/http_api/requests"
	"github.com/lojascometa/contract-terminal/terminal/api/http_api/responses"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

func (a *HTTPApp) OpenSignature(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SignerRoleDTO{}
	if err := stx.BindToDTO(&req.SignerRoleForm{}, formDTO); err != nil {
		return err
	}

	if err := a.workflow.OpenSignature(types.SignerRole(formDTO.Role)); err != nil {
		return stx.JsonError(apiStatus(err), err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) DrawSignature(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &StrokesDTO{}
	if err := stx.BindToDTO(&req.StrokesForm{}, formDTO); err != nil {
		return err
	}

	if err := a.workflow.DrawSignature(formDTO.Strokes...); err != nil {
		return stx.JsonError(apiStatus(err), err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) ClearSignature(c echo.Context) error {
	stx := c.(*cs.ContextService)

	if err := a.workflow.ClearSignature(); err != nil {
		return stx.JsonError(apiStatus(err), err)
	}
	return stx.Json(http.StatusOK, "ok")
}

// ConfirmSignature closes the pad. An empty pad is a cancellation and the
// previously stored signature, if any, survives.
func (a *HTTPApp) ConfirmSignature(c echo.Context) error {
	stx := c.(*cs.ContextService)

	image, err := a.workflow.ConfirmSignature()
	if err != nil {
		return stx.JsonError(apiStatus(err), err)
	}
	if image == nil {
		return stx.Json(http.StatusOK, "cancelled")
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) CloseSignature(c echo.Context) error {
	stx := c.(*cs.ContextService)

	if err := a.workflow.CloseSignature(); err != nil {
		return stx.JsonError(apiStatus(err), err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) GetSignatures(c echo.Context) error {
	stx := c.(*cs.ContextService)

	status, err := a.workflow.Status()
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}

	resp := &responses.SignatureStatusResponse{
		Signatures: make(map[string]bool, len(status.Signatures)),
		ActiveRole: status.ActiveRole.String(),
	}
	for role, signed := range status.Signatures {
		resp.Signatures[role.String()] = signed
	}
	return stx.Json(http.StatusOK, resp)
}
