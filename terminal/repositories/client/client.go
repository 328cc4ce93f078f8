package client

import (
	"encoding/json"
	"fmt"

	"github.com/lojascometa/contract-terminal/terminal/modules/state"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

const (
	// SelectedClientKey holds the currently selected client record.
	SelectedClientKey = "cliente_selecionado"

	// AttachmentsOkKeyPrefix scopes the per-client confirmation flags,
	// keyed attachmentsOk_<clientID>.
	AttachmentsOkKeyPrefix = "attachmentsOk"
)

// ClientRepo owns the session-persisted client scope: the selected client
// record and the attachment confirmation flags. A flag is only meaningful
// together with a loaded client of the same identifier; ClearClientScope is
// the invalidation rule that keeps it that way.
type ClientRepo interface {
	SaveClient(client *types.Client) error
	GetClient() (*types.Client, error)
	AttachmentsConfirmed(clientID string) (bool, error)
	SetAttachmentsConfirmed(clientID string) error
	ClearAttachmentsConfirmed(clientID string) error
	ClearClientScope() error
}

type BaseClientRepo struct {
	state state.State
}

func NewClientRepo(state state.State) *BaseClientRepo {
	return &BaseClientRepo{state}
}

func (r *BaseClientRepo) SaveClient(client *types.Client) error {
	bz, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("failed to marshal client: %w", err)
	}

	if err := r.state.Set(SelectedClientKey, bz); err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

// GetClient returns nil when no client is selected.
func (r *BaseClientRepo) GetClient() (*types.Client, error) {
	bz, err := r.state.Get(SelectedClientKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get selected client: %w", err)
	}
	if len(bz) == 0 {
		return nil, nil
	}

	var client types.Client
	if err := json.Unmarshal(bz, &client); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client: %w", err)
	}
	return &client, nil
}

func (r *BaseClientRepo) AttachmentsConfirmed(clientID string) (bool, error) {
	bz, err := r.state.Get(attachmentsOkKey(clientID))
	if err != nil {
		return false, fmt.Errorf("failed to get attachments flag for client %s: %w", clientID, err)
	}
	return string(bz) == "true", nil
}

func (r *BaseClientRepo) SetAttachmentsConfirmed(clientID string) error {
	if err := r.state.Set(attachmentsOkKey(clientID), []byte("true")); err != nil {
		return fmt.Errorf("failed to set attachments flag for client %s: %w", clientID, err)
	}
	return nil
}

func (r *BaseClientRepo) ClearAttachmentsConfirmed(clientID string) error {
	if err := r.state.Delete(attachmentsOkKey(clientID)); err != nil {
		return fmt.Errorf("failed to clear attachments flag for client %s: %w", clientID, err)
	}
	return nil
}

// ClearClientScope atomically drops the selected client and every per-client
// flag. Invoked with "begin new lookup", before the network call, so a
// failed lookup leaves a clean no-client state and no stale flag can leak
// into the next client's view.
func (r *BaseClientRepo) ClearClientScope() error {
	if err := r.state.Delete(SelectedClientKey); err != nil {
		return fmt.Errorf("failed to clear selected client: %w", err)
	}
	if err := r.state.DeleteByPrefix(AttachmentsOkKeyPrefix + "_"); err != nil {
		return fmt.Errorf("failed to clear attachment flags: %w", err)
	}
	return nil
}

func attachmentsOkKey(clientID string) string {
	return state.MakeCompositeKeyString(AttachmentsOkKeyPrefix, clientID)
}
