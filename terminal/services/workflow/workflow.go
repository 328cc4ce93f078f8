package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/lojascometa/contract-terminal/common"
	"github.com/lojascometa/contract-terminal/fsm/fsm"
	"github.com/lojascometa/contract-terminal/fsm/state_machines"
	cwf "github.com/lojascometa/contract-terminal/fsm/state_machines/contract_workflow_fsm"
	"github.com/lojascometa/contract-terminal/qr"
	"github.com/lojascometa/contract-terminal/terminal/modules/state"
	clientrepo "github.com/lojascometa/contract-terminal/terminal/repositories/client"
	"github.com/lojascometa/contract-terminal/terminal/services/attachment"
	"github.com/lojascometa/contract-terminal/terminal/services/contract"
	"github.com/lojascometa/contract-terminal/terminal/services/lookup"
	"github.com/lojascometa/contract-terminal/terminal/services/signature"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

const WorkflowStateKey = "workflow_state"

// Status is the workflow summary the clerk UI renders its step gating from.
type Status struct {
	State                string                    `json:"state"`
	ClientID             string                    `json:"client_id,omitempty"`
	AttachmentCount      int                       `json:"attachment_count"`
	AttachmentsConfirmed bool                      `json:"attachments_confirmed"`
	ContractEnabled      bool                      `json:"contract_enabled"`
	Signatures           map[types.SignerRole]bool `json:"signatures"`
	ActiveRole           types.SignerRole          `json:"active_role,omitempty"`
}

// WorkflowService is the orchestrator behind the REST handlers. It owns the
// persisted workflow machine and coordinates the step services so every
// transition is gated in exactly one place.
type WorkflowService interface {
	LookupClient(ctx context.Context, id string) (*types.Client, error)
	Client() (*types.Client, error)
	Status() (*Status, error)

	AddAttachments(files ...types.Attachment) error
	ConfirmAttachments() error
	AttachmentPreviews() []string

	OpenSignature(role types.SignerRole) error
	DrawSignature(strokes ...signature.Stroke) error
	ClearSignature() error
	ConfirmSignature() ([]byte, error)
	CloseSignature() error

	SubmitContract(ctx context.Context) (*types.ContractLocation, string, error)

	Teardown()
}

type BaseWorkflowService struct {
	mu sync.Mutex

	instance *state_machines.WorkflowInstance

	state       state.State
	repo        clientrepo.ClientRepo
	lookup      lookup.LookupService
	attachments *attachment.Collector
	capture     *signature.Capture
	assembler   contract.AssemblerService
	qrProcessor qr.Processor
	qrFolder    string

	logger *slog.Logger
}

func NewWorkflowService(
	stg state.State,
	repo clientrepo.ClientRepo,
	lookupSvc lookup.LookupService,
	attachments *attachment.Collector,
	capture *signature.Capture,
	assembler contract.AssemblerService,
	qrProcessor qr.Processor,
	qrFolder string,
) (*BaseWorkflowService, error) {
	s := &BaseWorkflowService{
		state:       stg,
		repo:        repo,
		lookup:      lookupSvc,
		attachments: attachments,
		capture:     capture,
		assembler:   assembler,
		qrProcessor: qrProcessor,
		qrFolder:    qrFolder,
		logger:      common.NewLogger("workflow"),
	}

	if err := s.restore(); err != nil {
		return nil, err
	}
	return s, nil
}

// restore reloads the persisted workflow dump and reconciles it against the
// session store. Attachments and drawings are page-lifetime memory, so a
// dump caught mid attachment step degrades to client_loaded; a dump whose
// client no longer matches the store starts over.
func (s *BaseWorkflowService) restore() error {
	dump, err := s.state.Get(WorkflowStateKey)
	if err != nil {
		return fmt.Errorf("failed to load workflow state: %w", err)
	}

	instance, err := state_machines.New(dump)
	if err != nil {
		s.logger.Warn("discarding unreadable workflow dump", "error", err)
		instance, err = state_machines.New(nil)
		if err != nil {
			return err
		}
	}
	s.instance = instance

	client, err := s.repo.GetClient()
	if err != nil {
		return err
	}

	switch {
	case s.instance.State() == cwf.StateNoClient:
	case client == nil || client.ID != s.instance.ClientID():
		s.logger.Warn("workflow dump does not match the stored client, starting over")
		s.instance, _ = state_machines.New(nil)
		if err := s.repo.ClearClientScope(); err != nil {
			return err
		}
	case s.instance.State() == cwf.StateAttachmentsPending:
		// The pending files lived only in memory and are gone.
		restored, _ := state_machines.New(nil)
		_, _, _ = restored.Do(cwf.EventLookupBegin)
		_, _, _ = restored.Do(cwf.EventLookupSuccess, client.ID)
		s.instance = restored
	}

	return s.persistCurrentDump()
}

func (s *BaseWorkflowService) persistCurrentDump() error {
	dump := &state_machines.WorkflowDump{ClientID: s.instance.ClientID(), State: s.instance.State()}
	bz, err := dump.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal workflow dump: %w", err)
	}
	return s.state.Set(WorkflowStateKey, bz)
}

func (s *BaseWorkflowService) do(event fsm.Event, args ...interface{}) error {
	_, dump, err := s.instance.Do(event, args...)
	if err != nil {
		return err
	}
	if err := s.state.Set(WorkflowStateKey, dump); err != nil {
		return fmt.Errorf("failed to persist workflow state: %w", err)
	}
	return nil
}

// LookupClient restarts the workflow and loads a new client. The in-memory
// artifacts of the previous client are dropped before the request goes out.
func (s *BaseWorkflowService) LookupClient(ctx context.Context, id string) (*types.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.do(cwf.EventLookupBegin); err != nil {
		return nil, err
	}
	s.attachments.Reset()
	s.capture.Reset()

	client, err := s.lookup.Lookup(ctx, id)
	if err != nil {
		if ferr := s.do(cwf.EventLookupFailed); ferr != nil {
			s.logger.Error("failed to record lookup failure", "error", ferr)
		}
		return nil, err
	}

	if err := s.do(cwf.EventLookupSuccess, client.ID); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *BaseWorkflowService) Client() (*types.Client, error) {
	return s.repo.GetClient()
}

func (s *BaseWorkflowService) Status() (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := &Status{
		State:           s.instance.State().String(),
		ClientID:        s.instance.ClientID(),
		AttachmentCount: s.attachments.Count(),
		Signatures:      make(map[types.SignerRole]bool),
		ActiveRole:      s.capture.ActiveRole(),
	}

	for _, role := range types.SignerRoles() {
		_, ok := s.capture.Signature(role)
		status.Signatures[role] = ok
	}

	if status.ClientID != "" {
		confirmed, err := s.repo.AttachmentsConfirmed(status.ClientID)
		if err != nil {
			return nil, err
		}
		status.AttachmentsConfirmed = confirmed
	}
	status.ContractEnabled = s.instance.CanDo(cwf.EventContractSubmitted) && status.AttachmentsConfirmed

	return status, nil
}

func (s *BaseWorkflowService) AddAttachments(files ...types.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(files) == 0 {
		return nil
	}
	if !s.instance.CanDo(cwf.EventAttachmentsAdded) {
		return &types.ValidationError{Message: "Consulte um cliente antes de anexar documentos"}
	}

	if err := s.attachments.AddFiles(files...); err != nil {
		return err
	}
	return s.do(cwf.EventAttachmentsAdded)
}

func (s *BaseWorkflowService) ConfirmAttachments() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.instance.CanDo(cwf.EventAttachmentsConfirmed) {
		return &types.ValidationError{Message: "Não há documentos para confirmar"}
	}

	if err := s.attachments.Confirm(s.instance.ClientID()); err != nil {
		return err
	}
	return s.do(cwf.EventAttachmentsConfirmed)
}

func (s *BaseWorkflowService) AttachmentPreviews() []string {
	return s.attachments.Previews()
}

func (s *BaseWorkflowService) OpenSignature(role types.SignerRole) error {
	if err := s.requireClient(); err != nil {
		return err
	}
	return s.capture.Open(role)
}

func (s *BaseWorkflowService) DrawSignature(strokes ...signature.Stroke) error {
	for _, stroke := range strokes {
		if err := s.capture.Draw(stroke); err != nil {
			return err
		}
	}
	return nil
}

func (s *BaseWorkflowService) ClearSignature() error {
	return s.capture.Clear()
}

func (s *BaseWorkflowService) ConfirmSignature() ([]byte, error) {
	return s.capture.Confirm()
}

func (s *BaseWorkflowService) CloseSignature() error {
	return s.capture.Close()
}

// SubmitContract assembles and sends the submission for the loaded client.
// It is only enabled when the workflow reached attachments_confirmed and the
// persisted flag belongs to that same client.
func (s *BaseWorkflowService) SubmitContract(ctx context.Context) (*types.ContractLocation, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.instance.CanDo(cwf.EventContractSubmitted) {
		return nil, "", &types.ValidationError{Message: "Anexe e confirme os documentos antes de gerar o contrato"}
	}

	client, err := s.repo.GetClient()
	if err != nil {
		return nil, "", err
	}
	if client == nil || client.ID != s.instance.ClientID() {
		return nil, "", &types.ValidationError{Message: types.DefaultNotFoundMessage}
	}

	confirmed, err := s.repo.AttachmentsConfirmed(client.ID)
	if err != nil {
		return nil, "", err
	}
	if !confirmed {
		return nil, "", &types.ValidationError{Message: "Os documentos deste cliente não foram confirmados"}
	}

	submission, err := s.assembler.Build(client, s.capture.Signatures(), s.attachments.Files())
	if err != nil {
		return nil, "", err
	}

	location, err := s.assembler.Submit(ctx, submission)
	if err != nil {
		// The aggregate is discarded either way; the clerk retries the
		// same action with the artifacts still in memory.
		return nil, "", err
	}

	if err := s.repo.ClearAttachmentsConfirmed(client.ID); err != nil {
		s.logger.Error("failed to clear attachments flag after submission", "error", err)
	}
	s.attachments.Reset()
	s.capture.Reset()

	if err := s.do(cwf.EventContractSubmitted); err != nil {
		return nil, "", err
	}

	qrPath := s.writeContractQR(location)
	return location, qrPath, nil
}

func (s *BaseWorkflowService) writeContractQR(location *types.ContractLocation) string {
	if s.qrProcessor == nil || s.qrFolder == "" {
		return ""
	}

	path := filepath.Join(s.qrFolder, fmt.Sprintf("contrato_%s.png", uuid.New().String()))
	if err := s.qrProcessor.WriteQR(path, []byte(location.URL)); err != nil {
		s.logger.Warn("failed to write contract QR code", "error", err)
		return ""
	}
	return path
}

func (s *BaseWorkflowService) requireClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.instance.ClientID() == "" {
		return &types.ValidationError{Message: "Consulte um cliente antes de assinar"}
	}
	return nil
}

// Teardown abandons in-flight work and releases page-lifetime resources.
func (s *BaseWorkflowService) Teardown() {
	s.lookup.CancelInFlight()
	s.attachments.Reset()
	s.capture.Reset()
}
