package contract_workflow_fsm

import (
	"errors"

	"github.com/lojascometa/contract-terminal/fsm/fsm"
)

// noClient -> clientLoaded
// args: client identifier
func (s *ContractWorkflowFSM) actionLookupSuccess(event fsm.Event, args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, errors.New("client identifier required")
	}

	clientID, ok := args[0].(string)
	if !ok {
		return nil, errors.New("cannot cast client identifier, awaiting string value")
	}

	if clientID == "" {
		return nil, errors.New("client identifier cannot be empty")
	}

	return clientID, nil
}
