package contract_workflow_fsm

import (
	"github.com/lojascometa/contract-terminal/fsm/fsm"
)

const (
	fsmName = "contract_workflow_fsm"

	StateNoClient             = fsm.State("state_no_client")
	StateClientLoaded         = fsm.State("state_client_loaded")
	StateAttachmentsPending   = fsm.State("state_attachments_pending")
	StateAttachmentsConfirmed = fsm.State("state_attachments_confirmed")
	StateContractSubmitted    = fsm.State("state_contract_submitted")

	EventLookupBegin          = fsm.Event("event_lookup_begin")
	EventLookupSuccess        = fsm.Event("event_lookup_success")
	EventLookupFailed         = fsm.Event("event_lookup_failed")
	EventAttachmentsAdded     = fsm.Event("event_attachments_added")
	EventAttachmentsConfirmed = fsm.Event("event_attachments_confirmed")
	EventContractSubmitted    = fsm.Event("event_contract_submitted")
)

type ContractWorkflowFSM struct {
	*fsm.FSM
}

func New() *ContractWorkflowFSM {
	machine := &ContractWorkflowFSM{}

	machine.FSM = fsm.MustNewFSM(
		fsmName,
		StateNoClient,
		[]fsm.EventDesc{
			// A new lookup restarts the workflow from any step. The per-client
			// flags are cleared by the same operation that emits this event.
			{
				Name: EventLookupBegin,
				SrcState: []fsm.State{
					StateNoClient,
					StateClientLoaded,
					StateAttachmentsPending,
					StateAttachmentsConfirmed,
					StateContractSubmitted,
				},
				DstState: StateNoClient,
			},

			{Name: EventLookupSuccess, SrcState: []fsm.State{StateNoClient}, DstState: StateClientLoaded},
			{Name: EventLookupFailed, SrcState: []fsm.State{StateNoClient}, DstState: StateNoClient},

			{
				Name:     EventAttachmentsAdded,
				SrcState: []fsm.State{StateClientLoaded, StateAttachmentsPending},
				DstState: StateAttachmentsPending,
			},
			{
				Name:     EventAttachmentsConfirmed,
				SrcState: []fsm.State{StateAttachmentsPending},
				DstState: StateAttachmentsConfirmed,
			},

			{
				Name:     EventContractSubmitted,
				SrcState: []fsm.State{StateAttachmentsConfirmed},
				DstState: StateContractSubmitted,
			},
		},
		fsm.Callbacks{
			EventLookupSuccess: machine.actionLookupSuccess,
		},
	)
	return machine
}
