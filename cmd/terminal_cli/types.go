package main

import (
	"github.com/lojascometa/contract-terminal/terminal/api/http_api/responses"
	"github.com/lojascometa/contract-terminal/terminal/services/workflow"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

type OperationResponse struct {
	ErrorMessage string `json:"error_message,omitempty"`
	Result       string `json:"result"`
}

type ClientResponse struct {
	ErrorMessage string        `json:"error_message,omitempty"`
	Result       *types.Client `json:"result"`
}

type WorkflowStateResponse struct {
	ErrorMessage string           `json:"error_message,omitempty"`
	Result       *workflow.Status `json:"result"`
}

type AttachmentsResponse struct {
	ErrorMessage string   `json:"error_message,omitempty"`
	Result       []string `json:"result"`
}

type SignaturesResponse struct {
	ErrorMessage string                             `json:"error_message,omitempty"`
	Result       *responses.SignatureStatusResponse `json:"result"`
}

type SubmitContractResponse struct {
	ErrorMessage string                            `json:"error_message,omitempty"`
	Result       *responses.SubmitContractResponse `json:"result"`
}

type ContractsResponse struct {
	ErrorMessage string   `json:"error_message,omitempty"`
	Result       []string `json:"result"`
}
