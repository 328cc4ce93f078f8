package lookup

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/lojascometa/contract-terminal/backendapi"
	"github.com/lojascometa/contract-terminal/common"
	clientrepo "github.com/lojascometa/contract-terminal/terminal/repositories/client"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

// LookupService fetches client records from the retail backend and keeps
// the session store's client scope consistent around each attempt.
type LookupService interface {
	Lookup(ctx context.Context, id string) (*types.Client, error)
	CancelInFlight()
}

type BaseLookupService struct {
	mu       sync.Mutex
	cancel   context.CancelFunc
	backend  *backendapi.Client
	repo     clientrepo.ClientRepo
	logger   *slog.Logger
}

func NewLookupService(backend *backendapi.Client, repo clientrepo.ClientRepo) *BaseLookupService {
	return &BaseLookupService{
		backend: backend,
		repo:    repo,
		logger:  common.NewLogger("lookup"),
	}
}

// Lookup clears the client scope, then issues one request. The previous
// in-flight lookup, if any, is cancelled first, so a slow stale response can
// never overwrite a later one. On failure the store stays in the clean
// no-client state.
func (s *BaseLookupService) Lookup(ctx context.Context, id string) (*types.Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &types.ValidationError{Message: "Informe o código do cliente"}
	}

	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	// Stale client and flags go away before the network call.
	if err := s.repo.ClearClientScope(); err != nil {
		cancel()
		return nil, err
	}

	client, err := s.backend.GetClient(ctx, id)
	if err != nil {
		s.logger.Info("lookup failed", "client_id", id, "error", err)
		return nil, err
	}

	// A superseded lookup must not touch the store, even if its response
	// arrived intact.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := s.repo.SaveClient(client); err != nil {
		return nil, err
	}

	s.logger.Info("client loaded", "client_id", client.ID)
	return client, nil
}

// CancelInFlight abandons the current lookup, if any. Called on teardown so
// a late callback lands on a dead context instead of a torn-down view.
func (s *BaseLookupService) CancelInFlight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
