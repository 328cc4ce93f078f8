package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lojascometa/contract-terminal/common"
	"github.com/lojascometa/contract-terminal/terminal/api/http_api"
	"github.com/lojascometa/contract-terminal/terminal/config"
	"github.com/lojascometa/contract-terminal/terminal/modules/state"
	"github.com/lojascometa/contract-terminal/terminal/services"
)

const (
	flagConfig     = "config"
	flagStateDBDSN = "state_dbdsn"
)

var rootCmd = &cobra.Command{
	Use:   "terminal",
	Short: "contract terminal daemon",
}

func init() {
	rootCmd.PersistentFlags().String(flagConfig, "", "Path to the configuration file")
	rootCmd.AddCommand(startCommand())
	rootCmd.AddCommand(resetStateCommand())
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "starts the clerk terminal",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}

			common.InitLogger(cfg.LoggingConfig)

			if err := services.InitServices(cfg); err != nil {
				log.Fatalf("failed to init services: %v", err)
			}

			server := &http_api.RESTApiProvider{}
			if err := server.NewServer(cfg, services.App()); err != nil {
				log.Fatalf("failed to init HTTP server: %v", err)
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigs

				log.Println("Received signal, stopping terminal...")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				services.App().WorkflowService().Teardown()
				if err := server.Stop(ctx); err != nil {
					log.Printf("failed to stop HTTP server: %v", err)
				}
				if err := services.App().State().Close(); err != nil {
					log.Printf("failed to close session state: %v", err)
				}
				os.Exit(0)
			}()

			if err := server.Start(); err != nil {
				log.Fatalf("HTTP server error: %v", err)
			}
		},
	}
}

func resetStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset_state [new_state_dbdsn]",
		Short: "abandons the current session state and starts a fresh one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			stg, err := state.NewLevelDBState(cfg.StateDBDSN)
			if err != nil {
				return err
			}
			defer stg.Close()

			newPath := ""
			if len(args) == 1 {
				newPath = args[0]
			}
			path, err := stg.Reset(newPath)
			if err != nil {
				return err
			}
			cmd.Printf("session state reset, new state at %s\n", path)
			return nil
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("failed to execute root command: %v", err)
	}
}
