package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	cs "github.com/lojascometa/contract-terminal/terminal/api/http_api/context_service"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

const attachmentsFormField = "anexos"

func (a *HTTPApp) AddAttachments(c echo.Context) error {
	stx := c.(*cs.ContextService)

	form, err := stx.MultipartForm()
	if err != nil {
		return stx.JsonError(http.StatusBadRequest, fmt.Errorf("failed to read multipart form: %v", err))
	}

	headers := form.File[attachmentsFormField]
	if len(headers) == 0 {
		return stx.JsonError(http.StatusBadRequest, &types.ValidationError{Message: "Nenhum documento enviado"})
	}

	files := make([]types.Attachment, 0, len(headers))
	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			return stx.JsonError(http.StatusBadRequest, fmt.Errorf("failed to open %q: %v", header.Filename, err))
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return stx.JsonError(http.StatusBadRequest, fmt.Errorf("failed to read %q: %v", header.Filename, err))
		}
		files = append(files, types.Attachment{
			FileName: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	if err := a.workflow.AddAttachments(files...); err != nil {
		return stx.JsonError(apiStatus(err), err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) ConfirmAttachments(c echo.Context) error {
	stx := c.(*cs.ContextService)

	if err := a.workflow.ConfirmAttachments(); err != nil {
		return stx.JsonError(apiStatus(err), err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) GetAttachments(c echo.Context) error {
	stx := c.(*cs.ContextService)

	return stx.Json(http.StatusOK, a.workflow.AttachmentPreviews())
}
