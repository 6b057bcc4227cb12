package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultNotesPath = "./data/notes.json"
	NotesFileName    = "notes.json"
)

type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutDownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
}

type DataConfig struct {
	// DatabaseURL selects the postgres store when set.
	DatabaseURL string `mapstructure:"database_url"`
	// NotesPath is the JSON file (or a directory holding notes.json) used without a database.
	NotesPath  string `mapstructure:"notes_path"`
	DBMaxConns int32  `mapstructure:"db_max_conns"`
}

type MiscConfig struct {
	GinMode        string `mapstructure:"gin_mode"`
	LogLevel       string `mapstructure:"log_level"`
	LogFile        string `mapstructure:"log_file"`
	StaticDir      string `mapstructure:"static_dir"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Misc   MiscConfig   `mapstructure:"misc"`
}

// LoadConfig reads config.yaml (optional), a .env file (optional) and the environment.
// Environment variables like GO_NOTES_SERVER_PORT override server.port; DATABASE_URL
// and NOTES_PATH are read by their plain names.
func LoadConfig(confPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(confPaths) == 0 {
		confPaths = []string{"./config", "."}
	}
	for _, p := range confPaths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvPrefix("GO_NOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("data.database_url", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind DATABASE_URL: %w", err)
	}
	if err := v.BindEnv("data.notes_path", "NOTES_PATH"); err != nil {
		return nil, fmt.Errorf("bind NOTES_PATH: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Data.DatabaseURL = strings.TrimSpace(cfg.Data.DatabaseURL)
	if cfg.Data.DatabaseURL == "" {
		cfg.Data.NotesPath = ResolveNotesPath(cfg.Data.NotesPath)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 5*time.Second)
	v.SetDefault("server.cors_allowed_origins", "*")

	v.SetDefault("data.database_url", "")
	v.SetDefault("data.notes_path", "")
	v.SetDefault("data.db_max_conns", 0)

	v.SetDefault("misc.gin_mode", gin.ReleaseMode)
	v.SetDefault("misc.log_level", "info")
	v.SetDefault("misc.log_file", "")
	v.SetDefault("misc.static_dir", "./web/static")
	v.SetDefault("misc.metrics_enabled", true)
}

// ResolveNotesPath maps the configured notes location to a file path.
// Empty selects DefaultNotesPath; an existing directory gets NotesFileName appended.
func ResolveNotesPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultNotesPath
	}
	if info, err := os.Stat(raw); err == nil && info.IsDir() {
		return filepath.Join(raw, NotesFileName)
	}
	return raw
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return errors.New("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.New("server write timeout must be positive")
	}
	if c.Server.IdleTimeout <= 0 {
		return errors.New("server idle timeout must be positive")
	}
	if c.Server.ShutDownTimeout <= 0 {
		return errors.New("server shutdown timeout must be positive")
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New("server request timeout must not be negative")
	}
	if c.Data.DatabaseURL == "" && c.Data.NotesPath == "" {
		return errors.New("notes path is required when no database url is set")
	}
	if c.Data.DBMaxConns < 0 {
		return fmt.Errorf("invalid db max conns: %d", c.Data.DBMaxConns)
	}
	switch c.Misc.GinMode {
	case "", gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("invalid gin mode: %s", c.Misc.GinMode)
	}
	return nil
}
