package mcpserver

import (
	"context"
	"strings"

	"github.com/erraggy/xsd2oas/openapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type walkSchemasInput struct {
	Bundle    bundleInput `json:"bundle"              jsonschema:"The documentation bundle to walk"`
	Name      string      `json:"name,omitempty"      jsonschema:"Filter by schema name (exact match\\, or glob with * and ?\\, e.g. vcloud_QueryResult*)"`
	Type      string      `json:"type,omitempty"      jsonschema:"Filter by schema kind (object\\, string\\, allOf\\, oneOf\\, etc.)"`
	Namespace string      `json:"namespace,omitempty" jsonschema:"Filter by namespace tag (e.g. vcloud\\, vcloud-ext\\, versioning). Use none for unprefixed schemas."`
	Union     bool        `json:"union,omitempty"     jsonschema:"Only show discriminated unions"`
	Detail    bool        `json:"detail,omitempty"    jsonschema:"Return full schema objects. WARNING: produces large output without filters."`
	GroupBy   string      `json:"group_by,omitempty"  jsonschema:"Group results and return counts instead of individual items. Values: type\\, namespace"`
	Limit     int         `json:"limit,omitempty"     jsonschema:"Maximum results (default 100)"`
	Offset    int         `json:"offset,omitempty"    jsonschema:"Skip the first N results (for pagination)"`
}

type schemaSummary struct {
	Name          string   `json:"name"`
	Namespace     string   `json:"namespace,omitempty"`
	Type          string   `json:"type,omitempty"`
	Title         string   `json:"title,omitempty"`
	Extends       []string `json:"extends,omitempty"`
	PropertyCount int      `json:"property_count"`
	Required      []string `json:"required,omitempty"`
	ContentTypes  []string `json:"content_types,omitempty"`
}

type schemaDetail struct {
	Name         string          `json:"name"`
	JSONPointer  string          `json:"json_pointer"`
	ContentTypes []string        `json:"content_types,omitempty"`
	Schema       *openapi.Schema `json:"schema"`
}

type walkSchemasOutput struct {
	Total     int             `json:"total"`
	Matched   int             `json:"matched"`
	Returned  int             `json:"returned"`
	Summaries []schemaSummary `json:"summaries,omitempty"`
	Schemas   []schemaDetail  `json:"schemas,omitempty"`
	Groups    []groupCount    `json:"groups,omitempty"`
}

// namedSchema pairs a component schema with its key.
type namedSchema struct {
	name   string
	schema *openapi.Schema
}

func handleWalkSchemas(_ context.Context, _ *mcp.CallToolRequest, input walkSchemasInput) (*mcp.CallToolResult, any, error) {
	if err := validateGroupBy(input.GroupBy, input.Detail, []string{"type", "namespace"}); err != nil {
		return errResult(err), nil, nil
	}

	result, err := input.Bundle.convert()
	if err != nil {
		return errResult(err), nil, nil
	}

	filtered := filterWalkSchemas(result.Schemas, input)

	if input.GroupBy != "" {
		groups := groupAndSort(filtered, func(ns namedSchema) string {
			if strings.EqualFold(input.GroupBy, "namespace") {
				return schemaNamespace(ns.name)
			}
			return schemaKind(ns.schema)
		})
		paged := paginate(groups, input.Offset, input.Limit)
		return nil, walkSchemasOutput{
			Total:    result.Schemas.Len(),
			Matched:  len(filtered),
			Returned: len(paged),
			Groups:   paged,
		}, nil
	}

	limit := input.Limit
	if input.Detail {
		limit = detailLimit(limit)
	}
	returned := paginate(filtered, input.Offset, limit)

	mediaTypes := make(map[string][]string)
	for mediaType, name := range result.ContentTypes.All() {
		mediaTypes[name] = append(mediaTypes[name], mediaType)
	}

	output := walkSchemasOutput{
		Total:    result.Schemas.Len(),
		Matched:  len(filtered),
		Returned: len(returned),
	}

	if input.Detail {
		output.Schemas = makeSlice[schemaDetail](len(returned))
		for _, ns := range returned {
			output.Schemas = append(output.Schemas, schemaDetail{
				Name:         ns.name,
				JSONPointer:  openapi.RefTo(ns.name),
				ContentTypes: mediaTypes[ns.name],
				Schema:       ns.schema,
			})
		}
		return nil, output, nil
	}

	output.Summaries = makeSlice[schemaSummary](len(returned))
	for _, ns := range returned {
		summary := schemaSummary{
			Name:         ns.name,
			Namespace:    schemaNamespace(ns.name),
			Type:         schemaKind(ns.schema),
			Title:        ns.schema.Title,
			Extends:      parentNames(ns.schema),
			ContentTypes: mediaTypes[ns.name],
		}
		for _, part := range ns.schema.ObjectParts() {
			summary.PropertyCount += part.Properties.Len()
			summary.Required = append(summary.Required, part.Required...)
		}
		output.Summaries = append(output.Summaries, summary)
	}
	return nil, output, nil
}

// filterWalkSchemas applies the name, type, namespace and union filters.
func filterWalkSchemas(schemas *openapi.OrderedMap[*openapi.Schema], input walkSchemasInput) []namedSchema {
	matchName := globMatcher(input.Name)
	var filtered []namedSchema
	for name, s := range schemas.All() {
		if !matchName(name) {
			continue
		}
		if input.Type != "" && !strings.EqualFold(schemaKind(s), input.Type) {
			continue
		}
		if input.Namespace != "" && !namespaceMatches(name, input.Namespace) {
			continue
		}
		if input.Union && s.Discriminator == nil {
			continue
		}
		filtered = append(filtered, namedSchema{name: name, schema: s})
	}
	return filtered
}

// schemaNamespace returns the tag before the first underscore of a schema
// key, or "" for the unprefixed union schemas.
func schemaNamespace(name string) string {
	ns, _, ok := strings.Cut(name, "_")
	if !ok {
		return ""
	}
	return ns
}

func namespaceMatches(name, filter string) bool {
	if strings.EqualFold(filter, "none") {
		return schemaNamespace(name) == ""
	}
	return strings.EqualFold(schemaNamespace(name), filter)
}

// schemaKind names the shape of a schema: its type, or the composition
// keyword when it has none.
func schemaKind(s *openapi.Schema) string {
	switch {
	case s.Type != "":
		return s.Type
	case len(s.AllOf) > 0:
		return "allOf"
	case len(s.OneOf) > 0:
		return "oneOf"
	case s.IsRef():
		return "ref"
	default:
		return ""
	}
}

// parentNames returns the schemas an allOf composition extends.
func parentNames(s *openapi.Schema) []string {
	var parents []string
	for _, sub := range s.AllOf {
		if name, ok := strings.CutPrefix(sub.Ref, openapi.ComponentsPrefix); ok {
			parents = append(parents, name)
		}
	}
	return parents
}
