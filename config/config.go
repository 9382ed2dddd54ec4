// Package config holds the settings that adapt a conversion to a particular
// documentation bundle layout, loaded from TOML.
//
// The defaults reproduce the vendor bundle conventions: schemas live under
// "doc/etc/", a few external and snapshot files are skipped, and each
// file's namespace tag is derived from its directory.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/erraggy/xsd2oas/fixer"
	"github.com/erraggy/xsd2oas/oaserrors"
	"github.com/erraggy/xsd2oas/openapi"
)

// NamespaceMode selects how a file's namespace tag is derived.
type NamespaceMode string

const (
	// ModePath derives the tag from the file path using ordered rules.
	ModePath NamespaceMode = "path"
	// ModeTarget derives the tag from the schema's targetNamespace attribute.
	ModeTarget NamespaceMode = "target"
)

// Config is the full conversion configuration.
type Config struct {
	Source    SourceConfig    `toml:"source"`
	Namespace NamespaceConfig `toml:"namespace"`
	Output    OutputConfig    `toml:"output"`
	Fixer     FixerConfig     `toml:"fixer"`
}

// SourceConfig selects the schema files of a bundle.
type SourceConfig struct {
	// Root is the prefix every schema path must start with.
	Root string `toml:"root"`
	// Suffix is the extension every schema path must end with.
	Suffix string `toml:"suffix"`
	// Exclude lists exact paths to skip.
	Exclude []string `toml:"exclude"`
	// ExcludePrefixes lists path prefixes to skip.
	ExcludePrefixes []string `toml:"exclude_prefixes"`
}

// Include reports whether the bundle entry name is a schema to convert.
func (s SourceConfig) Include(name string) bool {
	if !strings.HasPrefix(name, s.Root) || !strings.HasSuffix(name, s.Suffix) {
		return false
	}
	for _, ex := range s.Exclude {
		if name == ex {
			return false
		}
	}
	for _, p := range s.ExcludePrefixes {
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	return true
}

// PathRule maps files whose path contains Contains to Namespace.
type PathRule struct {
	Contains  string `toml:"contains"`
	Namespace string `toml:"namespace"`
}

// NamespaceConfig derives namespace tags.
type NamespaceConfig struct {
	Mode NamespaceMode `toml:"mode"`
	// Rules are tried in order; the first match wins.
	Rules []PathRule `toml:"rules"`
	// Fallback is the tag of a path no rule matches.
	Fallback string `toml:"fallback"`
	// Targets maps targetNamespace URIs to tags.
	Targets map[string]string `toml:"targets"`
	// TargetFallback is the tag of an unknown or missing targetNamespace.
	TargetFallback string `toml:"target_fallback"`
}

// ForPath returns the tag for a bundle path.
func (n NamespaceConfig) ForPath(name string) string {
	for _, r := range n.Rules {
		if strings.Contains(name, r.Contains) {
			return r.Namespace
		}
	}
	return n.Fallback
}

// ForTarget returns the tag for a targetNamespace URI.
func (n NamespaceConfig) ForTarget(uri string) string {
	if ns, ok := n.Targets[uri]; ok {
		return ns
	}
	return n.TargetFallback
}

// OutputConfig controls the generated document.
type OutputConfig struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Version     string `toml:"version"`
	// Format is "json" or "yaml".
	Format string `toml:"format"`
	// NullableOptional marks optional properties nullable.
	NullableOptional bool `toml:"nullable_optional"`
}

// FixerConfig selects the schema fixes.
type FixerConfig struct {
	// Enabled lists fix type names; empty enables every fix.
	Enabled []string `toml:"enabled"`
}

// FixTypes returns the enabled fixes, nil meaning all.
func (f FixerConfig) FixTypes() ([]fixer.FixType, error) {
	if len(f.Enabled) == 0 {
		return nil, nil
	}
	out := make([]fixer.FixType, 0, len(f.Enabled))
	for _, name := range f.Enabled {
		ft, err := fixer.ParseFixType(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ft)
	}
	return out, nil
}

// Default returns the configuration for vendor documentation bundles.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Root:   "doc/etc/",
			Suffix: ".xsd",
			Exclude: []string{
				"doc/etc/schemas/external/xml.xsd",
				"doc/etc/etc/schemas/external/xml.xsd",
			},
			ExcludePrefixes: []string{
				"doc/etc/etc/snapshot",
				"doc/etc/schemas/external/ovf1.1/",
			},
		},
		Namespace: NamespaceConfig{
			Mode: ModePath,
			Rules: []PathRule{
				{Contains: "/etc/1.5/schemas/extension/", Namespace: "vcloud-ext"},
				{Contains: "/etc/1.5/schemas/", Namespace: "vcloud"},
				{Contains: "/etc/schemas/versioning/", Namespace: "versioning"},
				{Contains: "/etc/schemas/external/ovf1.1/", Namespace: "ovf"},
			},
			Fallback: "unknown",
			Targets: map[string]string{
				"http://schemas.dmtf.org/ovf/envelope/1":                                              "ovf",
				"http://schemas.dmtf.org/ovf/environment/1":                                           "ovfenv",
				"http://schemas.dmtf.org/wbem/wscim/1/cim-schema/2/CIM_ResourceAllocationSettingData": "rasd",
				"http://schemas.dmtf.org/wbem/wscim/1/cim-schema/2/CIM_VirtualSystemSettingData":      "vssd",
				"http://schemas.dmtf.org/wbem/wscim/1/common":                                         "cim",
				"http://www.vmware.com/vcloud/meta":                                                   "meta",
				"http://www.vmware.com/schema/ovf":                                                    "vmw",
				"http://www.vmware.com/vcloud/extension/v1.5":                                         "vcloud-ext",
				"http://www.vmware.com/vcloud/v1.5":                                                   "vcloud",
				"http://www.vmware.com/vcloud/versions":                                               "versioning",
			},
			TargetFallback: "vcloud",
		},
		Output: OutputConfig{
			Title:   "vCloud API",
			Version: "1.0",
			Format:  string(openapi.FormatJSON),
		},
	}
}

// Parse decodes TOML data over the defaults. Keys the configuration does
// not know are rejected. Lists replace their defaults while the targets
// table extends them.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	// Rule tables would otherwise be decoded over the default rules.
	defaultRules := cfg.Namespace.Rules
	cfg.Namespace.Rules = nil

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, &oaserrors.ConfigError{Message: "invalid TOML", Cause: err}
	}
	if !md.IsDefined("namespace", "rules") {
		cfg.Namespace.Rules = defaultRules
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &oaserrors.ConfigError{
			Option:  keys[0],
			Value:   keys,
			Message: "unknown configuration keys: " + strings.Join(keys, ", "),
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the TOML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Value: path, Message: "cannot read file", Cause: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if c.Source.Suffix == "" {
		return &oaserrors.ConfigError{Option: "source.suffix", Value: c.Source.Suffix, Message: "must not be empty"}
	}
	switch c.Namespace.Mode {
	case ModePath, ModeTarget:
	default:
		return &oaserrors.ConfigError{
			Option:  "namespace.mode",
			Value:   c.Namespace.Mode,
			Message: fmt.Sprintf("must be %q or %q", ModePath, ModeTarget),
		}
	}
	for i, r := range c.Namespace.Rules {
		if r.Contains == "" {
			return &oaserrors.ConfigError{Option: fmt.Sprintf("namespace.rules[%d].contains", i), Message: "must not be empty"}
		}
	}
	if _, err := openapi.ParseFormat(c.Output.Format); err != nil {
		return &oaserrors.ConfigError{Option: "output.format", Value: c.Output.Format, Message: "unsupported format", Cause: err}
	}
	if _, err := c.Fixer.FixTypes(); err != nil {
		return &oaserrors.ConfigError{Option: "fixer.enabled", Value: c.Fixer.Enabled, Message: "unknown fix", Cause: err}
	}
	return nil
}
