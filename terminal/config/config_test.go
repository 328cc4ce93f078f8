package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Load("")
	req.NoError(err)

	req.Equal("operador", cfg.Username)
	req.Equal("localhost:8080", cfg.HttpApiConfig.ListenAddr())
	req.Equal("http://localhost:8000", cfg.BackendApiConfig.BaseUrl)
	req.Equal(30*time.Second, cfg.BackendApiConfig.Timeout)
	req.Equal(400, cfg.SignaturePadConfig.Width)
	req.Equal(150, cfg.SignaturePadConfig.Height)
	req.Equal("info", cfg.LoggingConfig.Level)
}

func TestLoadFromFile(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	req.NoError(os.WriteFile(path, []byte(`
username: balcao01
http_api_config:
  host: 0.0.0.0
  port: 9090
backend_api_config:
  base_url: https://retaguarda.example.com
  timeout: 5s
`), 0o644))

	cfg, err := Load(path)
	req.NoError(err)

	req.Equal("balcao01", cfg.Username)
	req.Equal("0.0.0.0:9090", cfg.HttpApiConfig.ListenAddr())
	req.Equal("https://retaguarda.example.com", cfg.BackendApiConfig.BaseUrl)
	req.Equal(5*time.Second, cfg.BackendApiConfig.Timeout)

	// Defaults still apply to untouched sections.
	req.Equal("./contract_codes", cfg.QrProcessorConfig.CodesFolder)
}

func TestLoadMissingFile(t *testing.T) {
	req := require.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	req.Error(err)
}
