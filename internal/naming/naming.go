package naming

import "strings"

// Decapitalize lowercases the first character when it is an ASCII letter
// and leaves the rest untouched.
// Example: "RequiredString" -> "requiredString"
// Example: "VApp" -> "vApp"
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if c < 'A' || c > 'Z' {
		return s
	}
	return string(c+('a'-'A')) + s[1:]
}

// Qualify joins a namespace tag and a local name into a schema name.
// An empty tag yields the bare local name.
// Example: ("vcloud", "TaskType") -> "vcloud_TaskType"
func Qualify(namespace, local string) string {
	if namespace == "" {
		return local
	}
	return namespace + "_" + local
}

// SplitQName splits "prefix:local" at the first colon.
// A name without a colon has an empty prefix.
func SplitQName(qname string) (prefix, local string) {
	prefix, local, found := strings.Cut(qname, ":")
	if !found {
		return "", qname
	}
	return prefix, local
}

// Unqualify strips a namespace tag and its separator from a schema name.
// Example: ("vcloud", "vcloud_TaskType") -> "TaskType"
func Unqualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return strings.TrimPrefix(name, namespace+"_")
}
