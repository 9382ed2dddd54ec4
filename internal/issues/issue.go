// Package issues provides the finding type shared by the converter and the
// reference checker.
package issues

import (
	"fmt"

	"github.com/erraggy/xsd2oas/internal/severity"
)

// Issue is a single non-fatal finding.
type Issue struct {
	// Path locates the finding in the output document
	// (e.g. "components.schemas.vcloud_TaskType")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Field names the property or declaration concerned, if any
	Field string
	// Value is the offending value (optional)
	Value any
	// Context provides additional information about the issue (optional)
	Context string
	// File is the bundle entry the finding came from (empty when the
	// finding concerns the merged output)
	File string
	// Line is the 1-based line in File (0 if unknown)
	Line int
}

// String formats the issue with a symbol for its level:
// "✗" for Error or Critical, "⚠" for Warning and "ℹ" for Info.
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	var result string
	if i.File != "" {
		result = fmt.Sprintf("%s %s (%s): %s", symbol, i.Path, i.Location(), i.Message)
	} else {
		result = fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
	}
	if i.Context != "" {
		result += fmt.Sprintf("\n    Context: %s", i.Context)
	}
	return result
}

// Location returns "file:line" when both are known, the file alone when
// only it is known, and the path otherwise.
func (i Issue) Location() string {
	switch {
	case i.File != "" && i.Line > 0:
		return fmt.Sprintf("%s:%d", i.File, i.Line)
	case i.File != "":
		return i.File
	default:
		return i.Path
	}
}

// HasLocation returns true if the issue names a source file.
func (i Issue) HasLocation() bool {
	return i.File != ""
}

// Tally counts issues per level.
type Tally struct {
	Info     int
	Warning  int
	Error    int
	Critical int
}

// Count tallies list.
func Count(list []Issue) Tally {
	var t Tally
	for _, issue := range list {
		switch issue.Severity {
		case severity.SeverityInfo:
			t.Info++
		case severity.SeverityWarning:
			t.Warning++
		case severity.SeverityError:
			t.Error++
		case severity.SeverityCritical:
			t.Critical++
		}
	}
	return t
}

// Filter returns the issues at threshold or above, keeping their order.
func Filter(list []Issue, threshold severity.Severity) []Issue {
	out := make([]Issue, 0, len(list))
	for _, issue := range list {
		if issue.Severity.AtLeast(threshold) {
			out = append(out, issue)
		}
	}
	return out
}
