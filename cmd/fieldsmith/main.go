package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/quarryhq/fieldsmith/internal/adapter/emit"
	"github.com/quarryhq/fieldsmith/internal/adapter/llm"
	fsmcp "github.com/quarryhq/fieldsmith/internal/adapter/mcp"
	"github.com/quarryhq/fieldsmith/internal/adapter/overrides"
	"github.com/quarryhq/fieldsmith/internal/adapter/postgres"
	"github.com/quarryhq/fieldsmith/internal/adapter/profile"
	"github.com/quarryhq/fieldsmith/internal/audit"
	"github.com/quarryhq/fieldsmith/internal/config"
	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/quarryhq/fieldsmith/internal/core/port"
	"github.com/quarryhq/fieldsmith/internal/core/service"
	"github.com/quarryhq/fieldsmith/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses CLI flags into config overrides.
func parseFlags(args []string) (config.Overrides, error) {
	fs := flag.NewFlagSet("fieldsmith", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	mode := fs.String("mode", "", "run mode: serve (MCP stdio) or generate (one-shot)")
	profilePath := fs.String("profile", "", "path to a profile artifact JSON file")
	samplePath := fs.String("sample", "", "path to a JSON array of sample records")
	tableName := fs.String("table", "", "Postgres table to profile")
	dataset := fs.String("dataset", "", "dataset name (required with --sample)")
	outputDir := fs.String("output-dir", "", "directory for generated artifacts")
	overridesFile := fs.String("overrides-file", "", "path to a YAML overrides file")
	primaryKey := fs.String("primary-key", "", "explicit primary-key field name")
	heuristicPK := fs.Bool("heuristic-pk", false, "allow uniqueness-based primary-key detection")
	entityPackage := fs.String("entity-package", "", "package name for generated Go entity files")
	templateFormat := fs.String("template", "", "search-result template dialect: twig or liquid")
	databaseURL := fs.String("database-url", "", "Postgres connection string")
	llmEndpoint := fs.String("llm-endpoint", "", "OpenAI-compatible API base URL for template generation")
	llmModel := fs.String("llm-model", "", "model name for template generation")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	otelEnabled := fs.Bool("otel", false, "enable OpenTelemetry tracing and metrics")
	auditLog := fs.String("audit-log", "", "path to NDJSON audit log file")

	if err := fs.Parse(args); err != nil {
		return config.Overrides{}, err
	}

	o := config.Overrides{
		HeuristicPK: *heuristicPK,
		OTelEnabled: *otelEnabled,
		AuditLog:    *auditLog,
	}

	// Only set pointers for flags the user actually passed.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			o.Mode = mode
		case "profile":
			o.ProfilePath = profilePath
		case "sample":
			o.SamplePath = samplePath
		case "table":
			o.TableName = tableName
		case "dataset":
			o.Dataset = dataset
		case "output-dir":
			o.OutputDir = outputDir
		case "overrides-file":
			o.OverridesFile = overridesFile
		case "primary-key":
			o.PrimaryKey = primaryKey
		case "entity-package":
			o.EntityPackage = entityPackage
		case "template":
			o.TemplateFormat = templateFormat
		case "database-url":
			o.DatabaseURL = databaseURL
		case "llm-endpoint":
			o.LLMEndpoint = llmEndpoint
		case "llm-model":
			o.LLMModel = llmModel
		case "log-level":
			o.LogLevel = logLevel
		}
	})

	return o, nil
}

func run(args []string) error {
	flagOverrides, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(flagOverrides)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr; stdout is reserved for the MCP stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	logger.Info("starting fieldsmith",
		slog.String("version", version),
		slog.String("mode", cfg.Mode),
		slog.String("log_level", cfg.LogLevel.String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Telemetry (optional).
	var tracer trace.Tracer
	inst := port.Instrumentation(telemetry.NoopInstruments())
	if cfg.OTelEnabled {
		provider, err := telemetry.Init(ctx, "fieldsmith", version)
		if err != nil {
			return fmt.Errorf("initializing telemetry: %w", err)
		}
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				logger.Error("telemetry shutdown", slog.String("error", err.Error()))
			}
		}()
		tracer = otel.Tracer("fieldsmith")
		inst = telemetry.NewInstruments()
		logger.Info("telemetry enabled")
	}

	// Audit (optional).
	var auditor port.RunAuditor = audit.NoopAuditor{}
	if cfg.AuditLog != "" {
		fa, err := audit.NewFileAuditor(cfg.AuditLog)
		if err != nil {
			return fmt.Errorf("opening audit log: %w", err)
		}
		defer fa.Close()
		auditor = fa
		logger.Info("audit log enabled", slog.String("file", cfg.AuditLog))
	}

	// Overrides file (optional).
	var ov *overrides.Overrides
	if cfg.OverridesFile != "" {
		ov, err = overrides.LoadFromFile(cfg.OverridesFile)
		if err != nil {
			return fmt.Errorf("loading overrides: %w", err)
		}
		logger.Info("overrides loaded",
			slog.String("file", cfg.OverridesFile),
			slog.Int("field_pins", len(ov.Fields)),
		)
	}

	// Database pool (optional; enables live-table profiling).
	var profiler port.TableProfiler
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		profiler = postgres.NewProfiler(pool, cfg.Schemas)
		logger.Info("database pool connected",
			slog.String("db.system", "postgresql"),
			slog.String("db.url", redactDSN(cfg.DatabaseURL)),
		)
	}

	// Template generator: LLM-backed when an endpoint or API key is
	// configured, deterministic fallback otherwise.
	var templates port.TemplateGenerator
	if cfg.LLMEndpoint != "" || cfg.LLMAPIKey != "" {
		templates, err = llm.NewGenerator(llm.Config{
			Endpoint: cfg.LLMEndpoint,
			Model:    cfg.LLMModel,
			APIKey:   cfg.LLMAPIKey,
		}, logger, inst)
		if err != nil {
			return fmt.Errorf("configuring template generator: %w", err)
		}
		logger.Info("llm template generator configured", slog.String("model", cfg.LLMModel))
	} else {
		templates = llm.NewFallbackGenerator()
	}

	// Domain pins from the overrides file.
	var pins map[string]domain.FieldPin
	if ov != nil {
		pins = ov.Pins()
	}

	// Services
	classifySvc := service.NewClassifyService(pins, logger, tracer, inst)
	emitters := []port.SchemaEmitter{
		emit.NewEntityEmitter(cfg.EntityPackage),
		emit.NewRepositoryEmitter(cfg.EntityPackage),
		emit.NewDDLEmitter(),
		emit.NewIndexSettingsEmitter(),
	}
	generateSvc := service.NewGenerateService(classifySvc, emitters, templates, auditor, logger, tracer)

	if cfg.Mode == config.ModeGenerate {
		return runGenerate(ctx, cfg, ov, profiler, generateSvc, logger)
	}

	// MCP server with tool handlers.
	mcpServer := fsmcp.NewServer(version, fsmcp.Deps{
		Classify:  classifySvc,
		Generate:  generateSvc,
		Templates: templates,
		Profiler:  profiler,
	}, logger, tracer, inst)

	// Run MCP over stdio (stdin/stdout).
	stdioServer := mcpserver.NewStdioServer(mcpServer)

	logger.Info("serving MCP over stdio")
	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("stdio server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// runGenerate executes a one-shot generation run: load a profile from the
// configured source, classify, emit, and write artifacts to the output dir.
func runGenerate(ctx context.Context, cfg *config.Config, ov *overrides.Overrides, profiler port.TableProfiler, generateSvc *service.GenerateService, logger *slog.Logger) error {
	p, err := loadProfile(ctx, cfg, profiler)
	if err != nil {
		return err
	}

	opts := service.GenerateOptions{
		Classify: domain.Options{
			PrimaryKeyOverride:  cfg.PrimaryKey,
			HeuristicPrimaryKey: cfg.HeuristicPK,
		},
		Template: port.TemplateFormat(cfg.TemplateFormat),
	}
	if ov != nil {
		ov.ApplyHints(p)
		if opts.Classify.PrimaryKeyOverride == "" {
			opts.Classify.PrimaryKeyOverride = ov.PrimaryKey
		}
	}

	artifacts, classification, err := generateSvc.Generate(ctx, p, opts)
	if err != nil {
		return fmt.Errorf("generating artifacts: %w", err)
	}

	if err := emit.WriteArtifacts(cfg.OutputDir, artifacts); err != nil {
		return fmt.Errorf("writing artifacts: %w", err)
	}

	logger.Info("artifacts written",
		slog.String("dataset", classification.Dataset),
		slog.String("primary_key", classification.PrimaryKey),
		slog.Int("artifacts", len(artifacts)),
		slog.String("output_dir", cfg.OutputDir),
	)
	return nil
}

// loadProfile resolves the configured input source into a dataset profile.
func loadProfile(ctx context.Context, cfg *config.Config, profiler port.TableProfiler) (*domain.DatasetProfile, error) {
	switch {
	case cfg.ProfilePath != "":
		return profile.NewArtifactLoader(cfg.ProfilePath).Load(ctx)
	case cfg.SamplePath != "":
		data, err := os.ReadFile(cfg.SamplePath)
		if err != nil {
			return nil, fmt.Errorf("reading sample records: %w", err)
		}
		records, err := profile.ParseRecords(data)
		if err != nil {
			return nil, err
		}
		return profile.FromRecords(cfg.Dataset, records)
	case cfg.TableName != "":
		if profiler == nil {
			return nil, fmt.Errorf("table profiling requires a database connection")
		}
		return profiler.ProfileTable(ctx, "", cfg.TableName)
	default:
		return nil, fmt.Errorf("no input source configured")
	}
}

// redactDSN masks the password portion of a connection string for logging.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
