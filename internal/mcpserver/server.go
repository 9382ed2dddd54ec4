// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the xsd2oas converter as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/erraggy/xsd2oas"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `xsd2oas MCP server: converts the XML schemas of vCloud API documentation bundles into OpenAPI 3.0 component schemas, looks up vendor content types, walks the generated schemas and checks their references.

Bundles are given either as a path (zip archive or unpacked directory) or as inline files keyed by their bundle path.

Configuration: defaults are configurable via XSD2OAS_* environment variables set in your MCP client config.

Key settings:
- XSD2OAS_CONFIG: TOML configuration applied to every conversion
- XSD2OAS_CACHE_TTL (default: 15m): cache TTL for converted bundles
- XSD2OAS_CACHE_ENABLED (default: true): disable bundle caching entirely
- XSD2OAS_WALK_LIMIT (default: 100): default result limit for list tools
- XSD2OAS_WALK_DETAIL_LIMIT (default: 25): default limit in detail mode

Caching: converted bundles are cached per session. Path entries use path+mtime as key. A background sweeper removes expired entries.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		bundleCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "xsd2oas", Version: xsd2oas.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Convert a vCloud API documentation bundle into an OpenAPI 3.0 document. Returns conversion statistics and issues plus the document (inline, or written to output). Use format to pick json or yaml, and title/version to set the info object.",
	}, handleConvert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lookup_content_type",
		Description: "Look up the vendor media types declared in a bundle and the schema each maps to. Filter by content_type (exact or glob with *, e.g. *task*) or by schema name to find the media types of a schema.",
	}, handleLookupContentType)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "walk_schemas",
		Description: "Walk and query the component schemas generated from a bundle. Filter by name (glob), type, namespace (e.g. vcloud, vcloud-ext) or polymorphic unions. Returns summaries by default or full schema objects with detail=true. Use group_by (type or namespace) to get distribution counts.",
	}, handleWalkSchemas)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_refs",
		Description: "Check the schemas generated from a bundle: every $ref must resolve to a component schema and every schema must compile as JSON Schema. Dangling references are warnings; schemas that do not compile are errors.",
	}, handleCheckRefs)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.WalkLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.WalkLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// detailLimit returns a lower default limit for detail mode output.
func detailLimit(limit int) int {
	if limit <= 0 {
		return cfg.WalkDetailLimit
	}
	return limit
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths in error messages so they
// are not leaked to MCP clients. Relative bundle entry names such as
// doc/etc/schemas/... are kept.
var pathPattern = regexp.MustCompile(`(^|[^a-zA-Z0-9._/-])/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "${1}<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[keyFn(item)]++
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateGroupBy checks that group_by is a valid value and is not combined with detail.
func validateGroupBy(groupBy string, detail bool, allowed []string) error {
	if groupBy == "" {
		return nil
	}
	if detail {
		return fmt.Errorf("cannot use both group_by and detail")
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}

// globMatcher returns a case-insensitive matcher for pattern. "*" matches
// any run of characters including "/" and "?" matches one character;
// a pattern without either must match exactly.
func globMatcher(pattern string) func(string) bool {
	if pattern == "" {
		return func(string) bool { return true }
	}
	if !strings.ContainsAny(pattern, "*?") {
		return func(s string) bool { return strings.EqualFold(s, pattern) }
	}
	expr := regexp.QuoteMeta(pattern)
	expr = strings.ReplaceAll(expr, `\*`, ".*")
	expr = strings.ReplaceAll(expr, `\?`, ".")
	re := regexp.MustCompile("(?i)^" + expr + "$")
	return re.MatchString
}
