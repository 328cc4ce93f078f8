package services

import (
	"fmt"

	"github.com/lojascometa/contract-terminal/backendapi"
	"github.com/lojascometa/contract-terminal/terminal/config"
	"github.com/lojascometa/contract-terminal/terminal/modules/state"
)

func InitServices(cfg *config.Config) error {
	stg, err := state.NewLevelDBState(cfg.StateDBDSN)
	if err != nil {
		return fmt.Errorf("failed to init session state: %w", err)
	}

	backend := backendapi.NewClient(cfg.BackendApiConfig.BaseUrl, cfg.BackendApiConfig.Timeout)

	if err := provider.Init(cfg, stg, backend); err != nil {
		return fmt.Errorf("failed to init services: %w", err)
	}

	return nil
}
