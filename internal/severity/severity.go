// Package severity defines the levels attached to conversion and check
// findings.
//
// Levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

import "fmt"

// Severity indicates how serious a finding is.
type Severity int

const (
	// SeverityError marks a finding that makes the output unusable.
	SeverityError Severity = iota

	// SeverityWarning marks output that was produced but may be wrong, such
	// as an overwritten schema key or a dangling reference.
	SeverityWarning

	// SeverityInfo marks a notice about a choice the converter made.
	SeverityInfo

	// SeverityCritical marks a finding that aborts processing.
	SeverityCritical
)

// String returns the lowercase name of the level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Rank orders levels by seriousness, Info being the lowest.
// Unknown levels rank below Info.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether s is as serious as threshold or more.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// Parse maps a level name back to its Severity.
func Parse(name string) (Severity, error) {
	switch name {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return 0, fmt.Errorf("severity: unknown level %q", name)
	}
}
