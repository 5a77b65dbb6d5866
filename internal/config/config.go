package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"krishisahay/internal/locale"
)

// Config holds service configuration derived from environment variables
// with an optional YAML overlay.
type Config struct {
	HTTPPort      string
	DBPath        string
	GeminiAPIKey  string
	GeminiModel   string
	WeatherAPIKey string
	DefaultLocale locale.Locale
	PromptsPath   string
	SessionLimit  int
	StrictConfig  bool
	SeedDemoData  bool
}

type fileConfig struct {
	HTTPPort        string `yaml:"http_port"`
	DBPath          string `yaml:"db_path"`
	GeminiModel     string `yaml:"gemini_model"`
	DefaultLanguage string `yaml:"default_language"`
	PromptsPath     string `yaml:"prompts_path"`
	SessionLimit    int    `yaml:"session_limit"`
}

const (
	defaultPort         = ":8000"
	defaultDBFile       = "krishisahay.db"
	defaultSessionLimit = 256
	maxSessionLimit     = 4096
)

// Load reads configuration from the environment and the optional
// config file. Missing credentials degrade the relevant feature instead
// of failing startup unless STRICT_CONFIG is set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
		StrictConfig:  parseBoolEnv("STRICT_CONFIG"),
		SeedDemoData:  parseBoolEnv("SEED_DEMO_DATA"),
		SessionLimit:  defaultSessionLimit,
	}

	configPath := getEnv("CONFIG_PATH", filepath.Join("config", "config.yaml"))
	fileCfg, fileErr := loadFileConfig(configPath)
	if fileErr != nil {
		if cfg.StrictConfig {
			return cfg, fmt.Errorf("config load failed (%s): %w", configPath, fileErr)
		}
		log.Printf("config load failed (%s): %v (using defaults)", configPath, fileErr)
	}

	cfg.HTTPPort = firstNonEmpty(os.Getenv("HTTP_PORT"), fileCfg.HTTPPort, defaultPort)
	if legacyPort := os.Getenv("PORT"); legacyPort != "" && cfg.HTTPPort == defaultPort {
		cfg.HTTPPort = legacyPort
	}
	if !strings.HasPrefix(cfg.HTTPPort, ":") {
		cfg.HTTPPort = ":" + cfg.HTTPPort
	}

	cfg.DBPath = firstNonEmpty(os.Getenv("DB_PATH"), fileCfg.DBPath, defaultDBFile)
	cfg.GeminiModel = firstNonEmpty(os.Getenv("GEMINI_MODEL"), fileCfg.GeminiModel)
	cfg.PromptsPath = firstNonEmpty(os.Getenv("PROMPTS_PATH"), fileCfg.PromptsPath)
	cfg.DefaultLocale = locale.Parse(firstNonEmpty(os.Getenv("DEFAULT_LANGUAGE"), fileCfg.DefaultLanguage))

	if v := os.Getenv("SESSION_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			if cfg.StrictConfig {
				return cfg, fmt.Errorf("invalid SESSION_LIMIT=%q", v)
			}
			log.Printf("invalid SESSION_LIMIT=%q, using default %d", v, defaultSessionLimit)
			n = defaultSessionLimit
		}
		cfg.SessionLimit = n
	} else if fileCfg.SessionLimit > 0 {
		cfg.SessionLimit = fileCfg.SessionLimit
	}
	if cfg.SessionLimit > maxSessionLimit {
		log.Printf("SESSION_LIMIT capped at %d (was %d)", maxSessionLimit, cfg.SessionLimit)
		cfg.SessionLimit = maxSessionLimit
	}

	if cfg.GeminiAPIKey == "" {
		if cfg.StrictConfig {
			return cfg, fmt.Errorf("GEMINI_API_KEY is required with STRICT_CONFIG")
		}
		log.Printf("GEMINI_API_KEY not set; answers will fail until it is configured")
	}
	if cfg.WeatherAPIKey == "" {
		log.Printf("WEATHER_API_KEY not set; weather facts will be unavailable")
	}

	return cfg, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseBoolEnv(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}
