package dto

import (
	"github.com/lojascometa/contract-terminal/terminal/services/signature"
)

// This package contains DTO (Data Transfer Object) structures
// for providing validated and sanitized values to service layer

type LoginDTO struct {
	User     string
	Password string
}

type ClientIdDTO struct {
	ClientID string
}

type SignerRoleDTO struct {
	Role string
}

type StrokesDTO struct {
	Strokes []signature.Stroke
}
