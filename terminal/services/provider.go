package services

import (
	"github.com/lojascometa/contract-terminal/backendapi"
	"github.com/lojascometa/contract-terminal/qr"
	"github.com/lojascometa/contract-terminal/terminal/config"
	"github.com/lojascometa/contract-terminal/terminal/modules/state"
	clientrepo "github.com/lojascometa/contract-terminal/terminal/repositories/client"
	"github.com/lojascometa/contract-terminal/terminal/services/attachment"
	"github.com/lojascometa/contract-terminal/terminal/services/contract"
	"github.com/lojascometa/contract-terminal/terminal/services/lookup"
	"github.com/lojascometa/contract-terminal/terminal/services/signature"
	"github.com/lojascometa/contract-terminal/terminal/services/workflow"
)

var provider ServiceProvider

type ServiceProvider struct {
	config          *config.Config
	state           state.State
	backendClient   *backendapi.Client
	workflowService *workflow.BaseWorkflowService
}

// Init wires the service graph for one terminal.
func (p *ServiceProvider) Init(cfg *config.Config, stg state.State, backend *backendapi.Client) error {
	repo := clientrepo.NewClientRepo(stg)

	workflowService, err := workflow.NewWorkflowService(
		stg,
		repo,
		lookup.NewLookupService(backend, repo),
		attachment.NewCollector(repo, cfg.PreviewDir),
		signature.NewCapture(cfg.SignaturePadConfig.Width, cfg.SignaturePadConfig.Height),
		contract.NewAssemblerService(backend),
		qr.NewProcessor(),
		cfg.QrProcessorConfig.CodesFolder,
	)
	if err != nil {
		return err
	}

	p.config = cfg
	p.state = stg
	p.backendClient = backend
	p.workflowService = workflowService

	return nil
}

func (p *ServiceProvider) Config() *config.Config {
	return p.config
}

func (p *ServiceProvider) State() state.State {
	return p.state
}

func (p *ServiceProvider) BackendClient() *backendapi.Client {
	return p.backendClient
}

func (p *ServiceProvider) WorkflowService() workflow.WorkflowService {
	return p.workflowService
}

func App() *ServiceProvider {
	return &provider
}
