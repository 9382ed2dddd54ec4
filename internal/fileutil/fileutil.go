// Package fileutil holds file modes for the documents xsd2oas writes.
package fileutil

import "os"

// OwnerReadWrite is the mode for converted documents and content-type
// tables. Vendor bundles can carry unreleased API surface, so output is
// readable by its owner only.
const OwnerReadWrite os.FileMode = 0o600
