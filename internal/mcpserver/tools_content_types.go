package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type lookupContentTypeInput struct {
	Bundle      bundleInput `json:"bundle"                 jsonschema:"The documentation bundle to read"`
	ContentType string      `json:"content_type,omitempty" jsonschema:"Media type to look up (exact\\, or glob with * and ?\\, e.g. *vcloud.task*)"`
	Schema      string      `json:"schema,omitempty"       jsonschema:"Only list media types mapped to this schema name (exact or glob)"`
	Limit       int         `json:"limit,omitempty"        jsonschema:"Maximum results (default 100)"`
	Offset      int         `json:"offset,omitempty"       jsonschema:"Skip the first N results (for pagination)"`
}

type contentTypeEntry struct {
	ContentType string `json:"content_type"`
	Schema      string `json:"schema"`
}

type lookupContentTypeOutput struct {
	Total    int                `json:"total"`
	Matched  int                `json:"matched"`
	Returned int                `json:"returned"`
	Entries  []contentTypeEntry `json:"entries,omitempty"`
}

func handleLookupContentType(_ context.Context, _ *mcp.CallToolRequest, input lookupContentTypeInput) (*mcp.CallToolResult, lookupContentTypeOutput, error) {
	result, err := input.Bundle.convert()
	if err != nil {
		return errResult(err), lookupContentTypeOutput{}, nil
	}

	matchType := globMatcher(input.ContentType)
	matchSchema := globMatcher(input.Schema)

	var matched []contentTypeEntry
	for mediaType, name := range result.ContentTypes.All() {
		if matchType(mediaType) && matchSchema(name) {
			matched = append(matched, contentTypeEntry{ContentType: mediaType, Schema: name})
		}
	}

	if len(matched) == 0 && input.ContentType != "" {
		return errResult(fmt.Errorf("no schema declares content type %q", input.ContentType)), lookupContentTypeOutput{}, nil
	}

	returned := paginate(matched, input.Offset, input.Limit)
	return nil, lookupContentTypeOutput{
		Total:    result.ContentTypes.Len(),
		Matched:  len(matched),
		Returned: len(returned),
		Entries:  returned,
	}, nil
}
