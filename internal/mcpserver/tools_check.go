package mcpserver

import (
	"context"

	"github.com/erraggy/xsd2oas/validator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type checkRefsInput struct {
	Bundle     bundleInput `json:"bundle"                jsonschema:"The documentation bundle to check"`
	NoCompile  bool        `json:"no_compile,omitempty"  jsonschema:"Only check that references resolve\\, without compiling schemas"`
	NoWarnings bool        `json:"no_warnings,omitempty" jsonschema:"Suppress dangling reference warnings (only show errors)"`
	Limit      int         `json:"limit,omitempty"       jsonschema:"Maximum issues returned (default 100)"`
	Offset     int         `json:"offset,omitempty"      jsonschema:"Skip the first N issues (for pagination)"`
}

type checkIssue struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
}

type checkRefsOutput struct {
	Valid        bool         `json:"valid"`
	SchemaCount  int          `json:"schema_count"`
	RefCount     int          `json:"ref_count"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	Returned     int          `json:"returned"`
	Issues       []checkIssue `json:"issues,omitempty"`
}

func handleCheckRefs(_ context.Context, _ *mcp.CallToolRequest, input checkRefsInput) (*mcp.CallToolResult, checkRefsOutput, error) {
	result, err := input.Bundle.convert()
	if err != nil {
		return errResult(err), checkRefsOutput{}, nil
	}

	vres, err := validator.ValidateWithOptions(
		validator.WithDocument(result.Document),
		validator.WithIncludeWarnings(!input.NoWarnings),
		validator.WithCompileSchemas(!input.NoCompile),
	)
	if err != nil {
		return errResult(err), checkRefsOutput{}, nil
	}

	all := make([]checkIssue, 0, len(vres.Errors)+len(vres.Warnings))
	for _, list := range [][]validator.ValidationError{vres.Errors, vres.Warnings} {
		for _, e := range list {
			issue := checkIssue{
				Severity: e.Severity.String(),
				Path:     e.Path,
				Message:  e.Message,
				Detail:   e.Context,
			}
			if ref, ok := e.Value.(string); ok && issue.Detail == "" {
				issue.Detail = ref
			}
			all = append(all, issue)
		}
	}

	returned := paginate(all, input.Offset, input.Limit)
	return nil, checkRefsOutput{
		Valid:        vres.Valid,
		SchemaCount:  vres.SchemaCount,
		RefCount:     vres.RefCount,
		ErrorCount:   vres.ErrorCount,
		WarningCount: vres.WarningCount,
		Returned:     len(returned),
		Issues:       returned,
	}, nil
}
