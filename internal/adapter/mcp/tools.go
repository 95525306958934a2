package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quarryhq/fieldsmith/internal/adapter/profile"
	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/quarryhq/fieldsmith/internal/core/port"
	"github.com/quarryhq/fieldsmith/internal/core/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server metadata
const serverName = "fieldsmith"

// Tool descriptions
const (
	descClassifyFields = "Classify a dataset profile: resolve each field's storage type, pick the primary key, " +
		"and grant facet roles (filterable/sortable/searchable). " +
		"Input is a profile JSON document with per-field statistics. " +
		"Classification is strict by default: an undeterminable primary key is an error unless " +
		"heuristic detection is enabled or an explicit primary_key is given."

	descClassifyProfileParam = "Profile JSON: {\"name\": ..., \"fields\": [...], \"unique_hints\": [...]}"

	descProfileSample = "Compute a dataset profile from raw sample records (a JSON array of objects). " +
		"Produces per-field statistics: type hints, null and distinct counts (capped), string lengths, " +
		"and value-shape flags (boolean-like, URL-like, natural language, facet candidate). " +
		"Feed the result to classify_fields or generate_schema."

	descProfileTable = "Profile a live Postgres table into a dataset profile using pg_stats and a bounded row sample. " +
		"Exact counts come from the catalogs; value-shape flags come from sampled rows. " +
		"The table's primary-key columns become the profile's unique hints."

	descProfileTableParam = "Name of the table to profile"

	descGenerateSchema = "Classify a profile and emit all schema artifacts: a Go entity struct, a pgx repository " +
		"scaffold, CREATE TABLE DDL (validated with the Postgres parser), and search-index settings JSON. " +
		"Returns the artifacts as JSON; nothing is written to disk."

	descGenerateTemplate = "Generate a search-result template (twig or liquid) for a classified profile. " +
		"Uses the configured LLM endpoint when available, with sample records grounding the layout."
)

// RegisterTools wires the tool handlers into the MCP server. Tools whose
// collaborator is not configured (live profiling, templates) are skipped.
func RegisterTools(s *server.MCPServer, deps Deps) {
	s.AddTool(
		mcp.NewTool("classify_fields",
			mcp.WithDescription(descClassifyFields),
			mcp.WithString("profile",
				mcp.Required(),
				mcp.Description(descClassifyProfileParam),
			),
			mcp.WithString("primary_key",
				mcp.Description("Explicit primary-key field name (overrides hints and heuristics)"),
			),
			mcp.WithBoolean("heuristic_primary_key",
				mcp.Description("Allow uniqueness-based primary-key detection when no hints exist. Defaults to false."),
			),
		),
		classifyFieldsHandler(deps.Classify),
	)

	s.AddTool(
		mcp.NewTool("profile_sample",
			mcp.WithDescription(descProfileSample),
			mcp.WithString("dataset",
				mcp.Required(),
				mcp.Description("Dataset name"),
			),
			mcp.WithString("records",
				mcp.Required(),
				mcp.Description("JSON array of sample records"),
			),
		),
		profileSampleHandler(),
	)

	if deps.Profiler != nil {
		s.AddTool(
			mcp.NewTool("profile_table",
				mcp.WithDescription(descProfileTable),
				mcp.WithString("table_name",
					mcp.Required(),
					mcp.Description(descProfileTableParam),
				),
				mcp.WithString("schema",
					mcp.Description("Schema name (optional, resolves automatically if omitted)"),
				),
			),
			profileTableHandler(deps.Profiler),
		)
	}

	s.AddTool(
		mcp.NewTool("generate_schema",
			mcp.WithDescription(descGenerateSchema),
			mcp.WithString("profile",
				mcp.Required(),
				mcp.Description(descClassifyProfileParam),
			),
			mcp.WithString("primary_key",
				mcp.Description("Explicit primary-key field name"),
			),
			mcp.WithBoolean("heuristic_primary_key",
				mcp.Description("Allow uniqueness-based primary-key detection. Defaults to false."),
			),
		),
		generateSchemaHandler(deps.Generate),
	)

	if deps.Templates != nil {
		s.AddTool(
			mcp.NewTool("generate_template",
				mcp.WithDescription(descGenerateTemplate),
				mcp.WithString("profile",
					mcp.Required(),
					mcp.Description(descClassifyProfileParam),
				),
				mcp.WithString("format",
					mcp.Required(),
					mcp.Description("Template dialect: \"twig\" or \"liquid\""),
				),
				mcp.WithString("records",
					mcp.Description("Optional JSON array of sample records to ground the layout"),
				),
				mcp.WithString("primary_key",
					mcp.Description("Explicit primary-key field name"),
				),
				mcp.WithBoolean("heuristic_primary_key",
					mcp.Description("Allow uniqueness-based primary-key detection. Defaults to false."),
				),
			),
			generateTemplateHandler(deps.Classify, deps.Templates),
		)
	}
}

// classifyOptions extracts the shared classification arguments.
func classifyOptions(request mcp.CallToolRequest) domain.Options {
	args := request.GetArguments()
	opts := domain.Options{}
	if pk, ok := args["primary_key"].(string); ok {
		opts.PrimaryKeyOverride = pk
	}
	if h, ok := args["heuristic_primary_key"].(bool); ok {
		opts.HeuristicPrimaryKey = h
	}
	return opts
}

func profileArg(request mcp.CallToolRequest) (*domain.DatasetProfile, error) {
	raw, ok := request.GetArguments()["profile"].(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("profile is required")
	}
	return profile.Parse([]byte(raw))
}

func classifyFieldsHandler(classify *service.ClassifyService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := profileArg(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		ctx = service.WithToolName(ctx, "classify_fields")
		classification, err := classify.Classify(ctx, p, classifyOptions(request))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
		}

		return marshalResult(classification)
	}
}

func profileSampleHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dataset, ok := request.GetArguments()["dataset"].(string)
		if !ok || dataset == "" {
			return mcp.NewToolResultError("dataset is required"), nil
		}
		raw, ok := request.GetArguments()["records"].(string)
		if !ok || raw == "" {
			return mcp.NewToolResultError("records is required"), nil
		}

		records, err := profile.ParseRecords([]byte(raw))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		p, err := profile.FromRecords(dataset, records)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("profiling failed: %v", err)), nil
		}

		return marshalResult(p)
	}
}

func profileTableHandler(profiler port.TableProfiler) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tableName, ok := request.GetArguments()["table_name"].(string)
		if !ok || tableName == "" {
			return mcp.NewToolResultError("table_name is required"), nil
		}

		schema, _ := request.GetArguments()["schema"].(string)

		p, err := profiler.ProfileTable(ctx, schema, tableName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to profile table: %v", err)), nil
		}

		return marshalResult(p)
	}
}

func generateSchemaHandler(generate *service.GenerateService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := profileArg(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		ctx = service.WithToolName(ctx, "generate_schema")
		artifacts, classification, err := generate.Generate(ctx, p, service.GenerateOptions{
			Classify: classifyOptions(request),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
		}

		return marshalResult(map[string]any{
			"classification": classification,
			"artifacts":      artifacts,
		})
	}
}

func generateTemplateHandler(classify *service.ClassifyService, templates port.TemplateGenerator) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := profileArg(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		format, _ := request.GetArguments()["format"].(string)
		tf := port.TemplateFormat(format)
		if !tf.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("format must be %q or %q", port.FormatTwig, port.FormatLiquid)), nil
		}

		var samples []map[string]any
		if raw, ok := request.GetArguments()["records"].(string); ok && raw != "" {
			samples, err = profile.ParseRecords([]byte(raw))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		ctx = service.WithToolName(ctx, "generate_template")
		classification, err := classify.Classify(ctx, p, classifyOptions(request))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
		}

		artifact, err := templates.Generate(ctx, port.TemplateRequest{
			Classification: classification,
			Format:         tf,
			SampleDocs:     samples,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("template generation failed: %v", err)), nil
		}

		return marshalResult(artifact)
	}
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
