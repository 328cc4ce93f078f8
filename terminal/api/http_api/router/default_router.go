package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lojascometa/contract-terminal/terminal/api/http_api/handlers"
	"github.com/lojascometa/contract-terminal/terminal/services"
)

func SetRouter(e *echo.Echo, sp *services.ServiceProvider) {
	h := handlers.NewHTTPApp(sp)

	e.POST("/login", h.Login)
	e.GET("/getUsername", h.GetUsername)

	e.POST("/lookupClient", h.LookupClient)
	e.GET("/getClient", h.GetClient)
	e.GET("/getWorkflowState", h.GetWorkflowState)

	e.POST("/addAttachments", h.AddAttachments)
	e.POST("/confirmAttachments", h.ConfirmAttachments)
	e.GET("/getAttachments", h.GetAttachments)

	e.POST("/openSignature", h.OpenSignature)
	e.POST("/drawSignature", h.DrawSignature)
	e.POST("/clearSignature", h.ClearSignature)
	e.POST("/confirmSignature", h.ConfirmSignature)
	e.POST("/closeSignature", h.CloseSignature)
	e.GET("/getSignatures", h.GetSignatures)

	e.POST("/submitContract", h.SubmitContract)
	e.GET("/listContracts", h.ListContracts)
}
