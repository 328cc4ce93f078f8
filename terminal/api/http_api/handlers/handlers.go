package handlers

import (
	"errors"
	"net/http"

	"github.com/lojascometa/contract-terminal/backendapi"
	"github.com/lojascometa/contract-terminal/terminal/services"
	"github.com/lojascometa/contract-terminal/terminal/services/workflow"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

type HTTPApp struct {
	workflow workflow.WorkflowService
	backend  *backendapi.Client
	username string
}

func NewHTTPApp(sp *services.ServiceProvider) *HTTPApp {
	return &HTTPApp{
		workflow: sp.WorkflowService(),
		backend:  sp.BackendClient(),
		username: sp.Config().Username,
	}
}

// apiStatus maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal failure.
func apiStatus(err error) int {
	var notFound *types.NotFoundError
	var validation *types.ValidationError
	var submission *types.SubmissionError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &submission):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
