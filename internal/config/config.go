// Package config loads runtime configuration from environment variables
// with CLI flag overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Run modes.
const (
	ModeServe    = "serve"    // MCP server over stdio
	ModeGenerate = "generate" // one-shot generation run
)

type Config struct {
	// Run mode: "serve" (default) or "generate".
	Mode string

	// Generation inputs. Exactly one source is required in generate mode:
	// a profile artifact, raw sample records, or a live table.
	ProfilePath string
	SamplePath  string
	TableName   string
	Dataset     string // dataset name, required with SamplePath
	OutputDir   string

	// Classification configuration.
	OverridesFile string
	PrimaryKey    string // explicit primary-key override
	HeuristicPK   bool

	// Emission.
	EntityPackage  string // package name for generated Go files
	TemplateFormat string // "twig", "liquid", or empty for no template

	// Database connection (optional; enables live-table profiling).
	DatabaseURL string
	Schemas     []string // empty means all non-system schemas

	// LLM endpoint (optional; enables model-backed template generation).
	LLMEndpoint string
	LLMModel    string
	LLMAPIKey   string

	// Logging.
	LogLevel slog.Level

	// Observability.
	OTelEnabled bool

	// Audit.
	AuditLog string // path to NDJSON audit log file
}

// Overrides holds CLI flag values that override environment variables.
// Pointer fields distinguish "not set" from zero values.
type Overrides struct {
	Mode           *string
	ProfilePath    *string
	SamplePath     *string
	TableName      *string
	Dataset        *string
	OutputDir      *string
	OverridesFile  *string
	PrimaryKey     *string
	EntityPackage  *string
	TemplateFormat *string
	DatabaseURL    *string
	LLMEndpoint    *string
	LLMModel       *string
	LogLevel       *string
	HeuristicPK    bool
	OTelEnabled    bool
	AuditLog       string
}

// Load builds a Config from environment variables, then applies CLI overrides,
// then validates the result.
func Load(overrides Overrides) (*Config, error) {
	cfg := defaults()

	if err := loadEnvVars(cfg); err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaults returns a Config populated with default values.
func defaults() *Config {
	return &Config{
		Mode:          ModeServe,
		OutputDir:     "generated",
		EntityPackage: "model",
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LLMModel:      "gpt-4o-mini",
	}
}

// loadEnvVars reads all supported environment variables into cfg.
func loadEnvVars(cfg *Config) error {
	if v := os.Getenv("MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("PROFILE_PATH"); v != "" {
		cfg.ProfilePath = v
	}
	if v := os.Getenv("SAMPLE_PATH"); v != "" {
		cfg.SamplePath = v
	}
	if v := os.Getenv("TABLE_NAME"); v != "" {
		cfg.TableName = v
	}
	if v := os.Getenv("DATASET"); v != "" {
		cfg.Dataset = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	cfg.OverridesFile = os.Getenv("OVERRIDES_FILE")
	if v := os.Getenv("PRIMARY_KEY"); v != "" {
		cfg.PrimaryKey = v
	}
	if v := os.Getenv("ENTITY_PACKAGE"); v != "" {
		cfg.EntityPackage = v
	}
	if v := os.Getenv("TEMPLATE_FORMAT"); v != "" {
		cfg.TemplateFormat = v
	}

	if v := os.Getenv("HEURISTIC_PK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HEURISTIC_PK value %q: %w", v, err)
		}
		cfg.HeuristicPK = b
	}

	if v := os.Getenv("SCHEMAS"); v != "" {
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				cfg.Schemas = append(cfg.Schemas, s)
			}
		}
	}

	if v := os.Getenv("LLM_ENDPOINT"); v != "" {
		cfg.LLMEndpoint = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}

	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid OTEL_ENABLED value %q: %w", v, err)
		}
		cfg.OTelEnabled = b
	}

	return nil
}

// applyOverrides applies CLI flag values on top of the env-loaded config.
func applyOverrides(cfg *Config, o Overrides) error {
	if o.Mode != nil {
		cfg.Mode = *o.Mode
	}
	if o.ProfilePath != nil {
		cfg.ProfilePath = *o.ProfilePath
	}
	if o.SamplePath != nil {
		cfg.SamplePath = *o.SamplePath
	}
	if o.TableName != nil {
		cfg.TableName = *o.TableName
	}
	if o.Dataset != nil {
		cfg.Dataset = *o.Dataset
	}
	if o.OutputDir != nil {
		cfg.OutputDir = *o.OutputDir
	}
	if o.OverridesFile != nil {
		cfg.OverridesFile = *o.OverridesFile
	}
	if o.PrimaryKey != nil {
		cfg.PrimaryKey = *o.PrimaryKey
	}
	if o.EntityPackage != nil {
		cfg.EntityPackage = *o.EntityPackage
	}
	if o.TemplateFormat != nil {
		cfg.TemplateFormat = *o.TemplateFormat
	}
	if o.DatabaseURL != nil {
		cfg.DatabaseURL = *o.DatabaseURL
	}
	if o.LLMEndpoint != nil {
		cfg.LLMEndpoint = *o.LLMEndpoint
	}
	if o.LLMModel != nil {
		cfg.LLMModel = *o.LLMModel
	}
	if o.LogLevel != nil {
		level, err := parseLogLevel(*o.LogLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}

	cfg.HeuristicPK = cfg.HeuristicPK || o.HeuristicPK
	cfg.OTelEnabled = cfg.OTelEnabled || o.OTelEnabled
	if o.AuditLog != "" {
		cfg.AuditLog = o.AuditLog
	}

	return nil
}

// validate checks cross-field constraints on the final config.
func validate(cfg *Config) error {
	switch cfg.Mode {
	case ModeServe, ModeGenerate:
	default:
		return fmt.Errorf("invalid MODE value %q: must be %q or %q", cfg.Mode, ModeServe, ModeGenerate)
	}

	if cfg.Mode == ModeGenerate {
		sources := 0
		for _, s := range []string{cfg.ProfilePath, cfg.SamplePath, cfg.TableName} {
			if s != "" {
				sources++
			}
		}
		if sources != 1 {
			return fmt.Errorf("generate mode needs exactly one input source: set one of PROFILE_PATH, SAMPLE_PATH, or TABLE_NAME")
		}
		if cfg.SamplePath != "" && cfg.Dataset == "" {
			return fmt.Errorf("DATASET is required when profiling sample records (set via env var or --dataset flag)")
		}
	}

	if cfg.TableName != "" && cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when profiling a live table (set via env var or --database-url flag)")
	}

	switch cfg.TemplateFormat {
	case "", "twig", "liquid":
	default:
		return fmt.Errorf("invalid TEMPLATE_FORMAT value %q: must be \"twig\" or \"liquid\"", cfg.TemplateFormat)
	}

	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL value %q: must be debug, info, warn, or error", s)
	}
}
