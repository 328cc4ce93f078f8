package requests

import (
	"github.com/lojascometa/contract-terminal/terminal/services/signature"
)

type LoginForm struct {
	User     string `json:"user" validate:"attr=user,min=1"`
	Password string `json:"password" validate:"attr=password,min=1"`
}

type ClientIdForm struct {
	ClientID string `query:"clientID" json:"clientID" validate:"attr=clientID,min=1"`
}

type SignerRoleForm struct {
	Role string `query:"role" json:"role" validate:"attr=role,min=1"`
}

type StrokesForm struct {
	Strokes []signature.Stroke `json:"strokes"`
}
