package main

import (
	"fmt"
	"os"

	"github.com/erraggy/xsd2oas"
	"github.com/erraggy/xsd2oas/cmd/xsd2oas/commands"
)

// commandNames lists every top-level command, for typo suggestions.
var commandNames = []string{"convert", "content-types", "check", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("xsd2oas %s\n", xsd2oas.Version())
		fmt.Println(xsd2oas.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "convert":
		err = commands.HandleConvert(os.Args[2:])
	case "content-types":
		err = commands.HandleContentTypes(os.Args[2:])
	case "check":
		err = commands.HandleCheck(os.Args[2:])
	case "mcp":
		err = commands.HandleMCP(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the known command closest to input, or "" when
// none is within an edit distance of two.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`xsd2oas - vCloud API schema to OpenAPI converter

Usage:
  xsd2oas <command> [options]

Commands:
  convert        Convert a documentation bundle into an OpenAPI 3.0 document
  content-types  List the vendor media types of a bundle and their schemas
  check          Check that the generated schemas resolve and compile
  mcp            Serve the converter as MCP tools over stdio
  version        Show version information
  help           Show this help message

Examples:
  xsd2oas convert vcloud-api-doc.zip -o openapi.json
  xsd2oas convert -f yaml --content-types types.json doc/ -o openapi.yaml
  xsd2oas content-types --lookup application/vnd.vmware.vcloud.task+xml doc/
  xsd2oas check --strict vcloud-api-doc.zip

Run 'xsd2oas <command> --help' for more information on a command.`)
}
