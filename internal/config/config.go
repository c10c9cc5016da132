package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the agent. Values come from
// defaults, then an optional YAML file, then the environment.
type Config struct {
	Port string `yaml:"port"`

	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`
	OrdersCSV   string `yaml:"orders_csv"`

	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"-"`
	GeminiAPIKey    string `yaml:"-"`

	CuOptAPIKey     string        `yaml:"-"`
	CuOptInvokeURL  string        `yaml:"cuopt_invoke_url"`
	CuOptStatusURL  string        `yaml:"cuopt_status_url"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	MaxPolls        int           `yaml:"max_polls"`
	SolverTimeLimit int           `yaml:"solver_time_limit"`

	VisualizationEnabled bool   `yaml:"visualization_enabled"`
	OutputDir            string `yaml:"output_dir"`
	ApplyDataEdits       bool   `yaml:"apply_data_edits"`

	CacheBackend string        `yaml:"cache_backend"`
	RedisURL     string        `yaml:"redis_url"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`

	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether an artifact mirror is configured.
func (c S3Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != "" && strings.TrimSpace(c.Bucket) != ""
}

func Defaults() Config {
	return Config{
		Port:                 "8080",
		DBDriver:             "sqlite",
		LLMProvider:          "anthropic",
		CuOptInvokeURL:       "https://optimize.api.nvidia.com/v1/nvidia/cuopt",
		CuOptStatusURL:       "https://optimize.api.nvidia.com/v1/status/",
		PollInterval:         time.Second,
		MaxPolls:             120,
		SolverTimeLimit:      5,
		VisualizationEnabled: true,
		OutputDir:            "optimization_results",
		CacheBackend:         "none",
		CacheTTL:             time.Hour,
	}
}

// Load builds the configuration. A missing YAML file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = Get("PORT", cfg.Port)
	cfg.DBDriver = Get("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseURL = Get("DATABASE_URL", Get("DB_PATH", cfg.DatabaseURL))
	cfg.OrdersCSV = Get("ORDERS_CSV", cfg.OrdersCSV)

	cfg.LLMProvider = strings.ToLower(Get("LLM_PROVIDER", cfg.LLMProvider))
	cfg.LLMModel = Get("LLM_MODEL", cfg.LLMModel)
	cfg.AnthropicAPIKey = Get("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.GeminiAPIKey = Get("GEMINI_API_KEY", cfg.GeminiAPIKey)

	cfg.CuOptAPIKey = Get("CUOPT_API_KEY", cfg.CuOptAPIKey)
	cfg.CuOptInvokeURL = Get("CUOPT_INVOKE_URL", cfg.CuOptInvokeURL)
	cfg.CuOptStatusURL = Get("CUOPT_STATUS_URL", cfg.CuOptStatusURL)

	cfg.OutputDir = Get("OUTPUT_DIR", cfg.OutputDir)
	cfg.CacheBackend = strings.ToLower(Get("CACHE_BACKEND", cfg.CacheBackend))
	cfg.RedisURL = Get("REDIS_URL", cfg.RedisURL)

	cfg.S3.Endpoint = Get("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.Region = Get("S3_REGION", cfg.S3.Region)
	cfg.S3.AccessKey = Get("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = Get("S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.Bucket = Get("S3_BUCKET", cfg.S3.Bucket)

	var err error
	if cfg.PollInterval, err = getDuration("CUOPT_POLL_INTERVAL", cfg.PollInterval); err != nil {
		return err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return err
	}
	if cfg.MaxPolls, err = getInt("CUOPT_MAX_POLLS", cfg.MaxPolls); err != nil {
		return err
	}
	if cfg.SolverTimeLimit, err = getInt("CUOPT_TIME_LIMIT", cfg.SolverTimeLimit); err != nil {
		return err
	}
	if cfg.VisualizationEnabled, err = getBool("VISUALIZATION_ENABLED", cfg.VisualizationEnabled); err != nil {
		return err
	}
	if cfg.ApplyDataEdits, err = getBool("APPLY_DATA_EDITS", cfg.ApplyDataEdits); err != nil {
		return err
	}
	if cfg.S3.UseSSL, err = getBool("S3_USE_SSL", cfg.S3.UseSSL); err != nil {
		return err
	}

	return nil
}

// Get returns the environment value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
