package mcpserver

import (
	"github.com/erraggy/xsd2oas/internal/testutil"
)

// inlineBundle returns the schema files of the shared test bundle, keyed
// by their bundle path.
func inlineBundle() map[string]string {
	return map[string]string{
		"doc/etc/1.5/schemas/master/common.xsd":          testutil.CommonXSD,
		"doc/etc/1.5/schemas/extension/vmwextension.xsd": testutil.ExtensionXSD,
		"doc/etc/schemas/versioning/versions.xsd":        testutil.VersionsXSD,
	}
}
