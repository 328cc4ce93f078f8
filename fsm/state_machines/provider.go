package state_machines

import (
	"encoding/json"
	"fmt"

	"github.com/lojascometa/contract-terminal/fsm/fsm"
	"github.com/lojascometa/contract-terminal/fsm/state_machines/contract_workflow_fsm"
)

// WorkflowDump is the persisted scope of one workflow instance.
type WorkflowDump struct {
	ClientID string    `json:"client_id"`
	State    fsm.State `json:"state"`
}

func (d *WorkflowDump) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

func (d *WorkflowDump) Unmarshal(data []byte) error {
	return json.Unmarshal(data, d)
}

// WorkflowInstance couples the contract workflow machine with its persisted
// dump. Restoring from a dump puts the machine back into the dumped state
// without replaying events.
type WorkflowInstance struct {
	machine *contract_workflow_fsm.ContractWorkflowFSM
	dump    *WorkflowDump
}

// New returns a workflow instance. Empty data starts a fresh workflow;
// otherwise the instance is restored from the dump.
func New(data []byte) (*WorkflowInstance, error) {
	i := &WorkflowInstance{
		machine: contract_workflow_fsm.New(),
	}

	if len(data) == 0 {
		i.dump = &WorkflowDump{State: i.machine.InitialState()}
		return i, nil
	}

	i.dump = &WorkflowDump{}
	if err := i.dump.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("cannot read workflow dump: %w", err)
	}

	if err := i.machine.SetState(i.dump.State); err != nil {
		return nil, fmt.Errorf("cannot restore workflow state: %w", err)
	}

	return i, nil
}

// Do processes an event and returns the response together with the updated
// dump for persisting.
func (i *WorkflowInstance) Do(event fsm.Event, args ...interface{}) (*fsm.Response, []byte, error) {
	result, err := i.machine.Do(event, args...)
	if err != nil {
		return result, nil, err
	}

	i.dump.State = result.State
	if event == contract_workflow_fsm.EventLookupSuccess {
		// Validated by the machine's callback.
		i.dump.ClientID = result.Data.(string)
	}
	if event == contract_workflow_fsm.EventLookupBegin || event == contract_workflow_fsm.EventLookupFailed {
		i.dump.ClientID = ""
	}

	dump, dumpErr := i.dump.Marshal()
	if dumpErr != nil {
		return result, nil, fmt.Errorf("failed to marshal workflow dump: %w", dumpErr)
	}

	return result, dump, nil
}

func (i *WorkflowInstance) CanDo(event fsm.Event) bool {
	return i.machine.CanDo(event)
}

func (i *WorkflowInstance) State() fsm.State {
	return i.machine.State()
}

func (i *WorkflowInstance) ClientID() string {
	return i.dump.ClientID
}
