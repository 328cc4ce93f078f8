package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lojascometa/contract-terminal/common"
)

type HttpApiConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

func (c *HttpApiConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type BackendApiConfig struct {
	BaseUrl  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
}

type QrProcessorConfig struct {
	CodesFolder string `mapstructure:"codes_folder"`
}

type SignaturePadConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type Config struct {
	Username   string `mapstructure:"username"`
	StateDBDSN string `mapstructure:"state_dbdsn"`
	PreviewDir string `mapstructure:"preview_dir"`

	HttpApiConfig *HttpApiConfig `mapstructure:"http_api_config"`

	BackendApiConfig *BackendApiConfig `mapstructure:"backend_api_config"`

	QrProcessorConfig *QrProcessorConfig `mapstructure:"qr_processor_config"`

	SignaturePadConfig *SignaturePadConfig `mapstructure:"signature_pad_config"`

	LoggingConfig *common.LoggingConfig `mapstructure:"logging_config"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("username", "operador")
	v.SetDefault("state_dbdsn", "./terminal_state")
	v.SetDefault("preview_dir", "")

	v.SetDefault("http_api_config.host", "localhost")
	v.SetDefault("http_api_config.port", 8080)
	v.SetDefault("http_api_config.debug", false)

	v.SetDefault("backend_api_config.base_url", "http://localhost:8000")
	v.SetDefault("backend_api_config.timeout", 30*time.Second)

	v.SetDefault("qr_processor_config.codes_folder", "./contract_codes")

	v.SetDefault("signature_pad_config.width", 400)
	v.SetDefault("signature_pad_config.height", 150)

	v.SetDefault("logging_config.level", "info")
	v.SetDefault("logging_config.format", "text")
}

// Load reads the terminal configuration from an optional file plus
// TERMINAL_* environment variables, on top of the built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TERMINAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
