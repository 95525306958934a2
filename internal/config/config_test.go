package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, ModeServe, cfg.Mode)
	assert.Equal(t, "generated", cfg.OutputDir)
	assert.Equal(t, "model", cfg.EntityPackage)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.HeuristicPK)
	assert.False(t, cfg.OTelEnabled)
}

func TestLoad_EnvVars(t *testing.T) {
	t.Setenv("MODE", "generate")
	t.Setenv("PROFILE_PATH", "movies.profile.json")
	t.Setenv("OUTPUT_DIR", "out")
	t.Setenv("ENTITY_PACKAGE", "entities")
	t.Setenv("PRIMARY_KEY", "id")
	t.Setenv("HEURISTIC_PK", "true")
	t.Setenv("SCHEMAS", "public, app,")
	t.Setenv("LLM_MODEL", "mistral")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_ENABLED", "1")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, ModeGenerate, cfg.Mode)
	assert.Equal(t, "movies.profile.json", cfg.ProfilePath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "entities", cfg.EntityPackage)
	assert.Equal(t, "id", cfg.PrimaryKey)
	assert.True(t, cfg.HeuristicPK)
	assert.Equal(t, []string{"public", "app"}, cfg.Schemas)
	assert.Equal(t, "mistral", cfg.LLMModel)
	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.OTelEnabled)
}

func TestLoad_OverridesBeatEnv(t *testing.T) {
	t.Setenv("MODE", "serve")
	t.Setenv("LLM_MODEL", "from-env")

	cfg, err := Load(Overrides{
		Mode:        strPtr("generate"),
		ProfilePath: strPtr("p.json"),
		LLMModel:    strPtr("from-flag"),
	})
	require.NoError(t, err)

	assert.Equal(t, ModeGenerate, cfg.Mode)
	assert.Equal(t, "from-flag", cfg.LLMModel)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		overrides Overrides
		wantErr   string
	}{
		{
			name:      "invalid mode",
			overrides: Overrides{Mode: strPtr("watch")},
			wantErr:   "invalid MODE",
		},
		{
			name:      "generate without source",
			overrides: Overrides{Mode: strPtr("generate")},
			wantErr:   "exactly one input source",
		},
		{
			name: "generate with two sources",
			overrides: Overrides{
				Mode:        strPtr("generate"),
				ProfilePath: strPtr("p.json"),
				SamplePath:  strPtr("s.json"),
			},
			wantErr: "exactly one input source",
		},
		{
			name: "sample without dataset",
			overrides: Overrides{
				Mode:       strPtr("generate"),
				SamplePath: strPtr("s.json"),
			},
			wantErr: "DATASET is required",
		},
		{
			name: "table without database url",
			overrides: Overrides{
				Mode:      strPtr("generate"),
				TableName: strPtr("movies"),
			},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:      "bad template format",
			overrides: Overrides{TemplateFormat: strPtr("mustache")},
			wantErr:   "invalid TEMPLATE_FORMAT",
		},
		{
			name:      "bad log level",
			overrides: Overrides{LogLevel: strPtr("verbose")},
			wantErr:   "invalid LOG_LEVEL",
		},
		{
			name:    "bad heuristic flag env",
			env:     map[string]string{"HEURISTIC_PK": "maybe"},
			wantErr: "invalid HEURISTIC_PK",
		},
		{
			name:    "bad otel flag env",
			env:     map[string]string{"OTEL_ENABLED": "maybe"},
			wantErr: "invalid OTEL_ENABLED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_GenerateModeSources(t *testing.T) {
	t.Run("profile source", func(t *testing.T) {
		cfg, err := Load(Overrides{Mode: strPtr("generate"), ProfilePath: strPtr("p.json")})
		require.NoError(t, err)
		assert.Equal(t, "p.json", cfg.ProfilePath)
	})

	t.Run("sample source with dataset", func(t *testing.T) {
		cfg, err := Load(Overrides{
			Mode:       strPtr("generate"),
			SamplePath: strPtr("s.json"),
			Dataset:    strPtr("movies"),
		})
		require.NoError(t, err)
		assert.Equal(t, "movies", cfg.Dataset)
	})

	t.Run("table source with database url", func(t *testing.T) {
		cfg, err := Load(Overrides{
			Mode:        strPtr("generate"),
			TableName:   strPtr("movies"),
			DatabaseURL: strPtr("postgres://localhost:5432/db"),
		})
		require.NoError(t, err)
		assert.Equal(t, "movies", cfg.TableName)
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" INFO ", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
