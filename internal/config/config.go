package config

import (
	"path/filepath"
	"time"

	"icon-keeper/internal/env"
	"icon-keeper/internal/models"

	"github.com/spf13/viper"
)

/**
 * Admin server configuration parameters
 * @property {string} address - Server listening address (e.g. ":8085")
 * @property {string} mode - Application mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" for stdout
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Icon server (the supervised Node.js process) configuration
 * @property {string} host - Host where the icon server listens
 * @property {int} port - Port where the icon server listens
 * @property {string} server_path - Explicit path to the server entry point
 * @property {string} server_dir - Directory searched for default entry files
 * @property {string} command - Interpreter used to launch the entry point
 * @property {bool} auto_start - Start the server when the guard is created
 */
type IconServerConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	ServerPath string `mapstructure:"server_path"`
	ServerDir  string `mapstructure:"server_dir"`
	Command    string `mapstructure:"command"`
	AutoStart  bool   `mapstructure:"auto_start"`
}

// Endpoint 图标服务器的网络位置
func (c IconServerConfig) Endpoint() models.ServerEndpoint {
	return models.ServerEndpoint{Host: c.Host, Port: c.Port}
}

/**
 * Supervisor timing configuration
 * @property {duration} poll_interval - Fixed interval between health polls
 * @property {int} managed_attempts - Poll attempts for a managed start
 * @property {int} adhoc_attempts - Poll attempts for an ad-hoc start
 * @property {duration} stop_timeout - Grace period before the forced kill
 * @property {duration} probe_timeout - Single health probe timeout
 * @property {duration} search_timeout - Search request timeout
 * @property {duration} generate_timeout - Generate request timeout, longer
 *           because generation may call a slow AI backend
 */
type SupervisorConfig struct {
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	ManagedAttempts int           `mapstructure:"managed_attempts"`
	AdhocAttempts   int           `mapstructure:"adhoc_attempts"`
	StopTimeout     time.Duration `mapstructure:"stop_timeout"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"`
	SearchTimeout   time.Duration `mapstructure:"search_timeout"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout"`
}

type AppConfig struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Icon       IconServerConfig `mapstructure:"icon"`
	Supervisor SupervisorConfig `mapstructure:"supervisor"`
}

/**
 * Load application configuration from YAML file
 */
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(env.IconKeeperDir)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var Config AppConfig

/**
 * Fill defaults for settings absent from the config file
 * @description
 * - 图标服务器默认地址 localhost:3000
 * - 轮询节奏 0.5s；托管启动20次，临时启动10次
 * - 停止宽限期5s，探测超时2s，搜索10s，生成30s（生成更慢，保持不对称）
 */
func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8085"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Icon.Host == "" {
		cfg.Icon.Host = "localhost"
	}
	if cfg.Icon.Port == 0 {
		cfg.Icon.Port = 3000
	}
	if cfg.Icon.Command == "" {
		cfg.Icon.Command = "node"
	}
	if cfg.Icon.ServerDir == "" {
		cfg.Icon.ServerDir = filepath.Join(env.IconKeeperDir, "server")
	}
	if cfg.Supervisor.PollInterval == 0 {
		cfg.Supervisor.PollInterval = 500 * time.Millisecond
	}
	if cfg.Supervisor.ManagedAttempts == 0 {
		cfg.Supervisor.ManagedAttempts = 20
	}
	if cfg.Supervisor.AdhocAttempts == 0 {
		cfg.Supervisor.AdhocAttempts = 10
	}
	if cfg.Supervisor.StopTimeout == 0 {
		cfg.Supervisor.StopTimeout = 5 * time.Second
	}
	if cfg.Supervisor.ProbeTimeout == 0 {
		cfg.Supervisor.ProbeTimeout = 2 * time.Second
	}
	if cfg.Supervisor.SearchTimeout == 0 {
		cfg.Supervisor.SearchTimeout = 10 * time.Second
	}
	if cfg.Supervisor.GenerateTimeout == 0 {
		cfg.Supervisor.GenerateTimeout = 30 * time.Second
	}
	return cfg
}

func init() {
	cfg, err := LoadConfig()
	if err == nil {
		Config = *cfg
	}
	collectConfig(&Config)
}
