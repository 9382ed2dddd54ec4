package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/erraggy/xsd2oas/converter"
	"github.com/erraggy/xsd2oas/internal/fileutil"
	"github.com/erraggy/xsd2oas/openapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type convertInput struct {
	Bundle           bundleInput `json:"bundle"                      jsonschema:"The documentation bundle to convert"`
	Format           string      `json:"format,omitempty"            jsonschema:"Document format: json (default) or yaml"`
	Title            string      `json:"title,omitempty"             jsonschema:"info.title of the generated document"`
	Version          string      `json:"version,omitempty"           jsonschema:"info.version of the generated document"`
	NullableOptional bool        `json:"nullable_optional,omitempty" jsonschema:"Mark optional properties nullable"`
	NoWarnings       bool        `json:"no_warnings,omitempty"       jsonschema:"Drop info messages from the issue list"`
	Output           string      `json:"output,omitempty"            jsonschema:"File path to write the document. If omitted the document is returned inline."`
}

type convertIssue struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
}

type convertOutput struct {
	Success      bool           `json:"success"`
	Files        int            `json:"files"`
	SchemaCount  int            `json:"schema_count"`
	ContentTypes int            `json:"content_types"`
	FixCount     int            `json:"fix_count"`
	IssueCount   int            `json:"issue_count"`
	Issues       []convertIssue `json:"issues,omitempty"`
	WrittenTo    string         `json:"written_to,omitempty"`
	Document     string         `json:"document,omitempty"`
}

func handleConvert(_ context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	format := openapi.FormatJSON
	if input.Format != "" {
		f, err := openapi.ParseFormat(input.Format)
		if err != nil {
			return errResult(err), convertOutput{}, nil
		}
		format = f
	}

	var opts []converter.Option
	if input.NullableOptional {
		opts = append(opts, converter.WithNullableOptional(true))
	}
	if input.NoWarnings {
		opts = append(opts, converter.WithIncludeInfo(false))
	}

	result, err := input.Bundle.convert(opts...)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	output := convertOutput{
		Success:      result.Success,
		Files:        result.Stats.Files,
		SchemaCount:  result.Schemas.Len(),
		ContentTypes: result.Stats.ContentTypes,
		FixCount:     len(result.Fixes),
		IssueCount:   len(result.Issues),
	}

	output.Issues = makeSlice[convertIssue](len(result.Issues))
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, convertIssue{
			Severity: issue.Severity.String(),
			Path:     issue.Path,
			Message:  issue.Message,
			File:     issue.File,
		})
	}

	// The result may be cached, so the info object is replaced on a copy.
	doc := *result.Document
	info := *doc.Info
	if input.Title != "" {
		info.Title = input.Title
	}
	if input.Version != "" {
		info.Version = input.Version
	}
	doc.Info = &info

	data, err := doc.Marshal(format)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	if input.Output != "" {
		if err := os.WriteFile(input.Output, data, fileutil.OwnerReadWrite); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), convertOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Document = string(data)
	}

	return nil, output, nil
}
