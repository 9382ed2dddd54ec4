package commands

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/erraggy/xsd2oas/internal/testutil"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn while capturing os.Stdout and returns the output.
// The pipe is drained concurrently so large documents cannot block fn.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	defer func() {
		os.Stdout = old
	}()
	fn()

	_ = w.Close()
	out := <-done
	_ = r.Close()
	return string(out)
}

// bundleZip writes the shared test bundle to a zip archive.
func bundleZip(t *testing.T) string {
	t.Helper()
	return testutil.WriteBundleZip(t, testutil.Bundle())
}

// extensionOnlyBundle is a bundle whose extension type references common
// types that are not part of it.
func extensionOnlyBundle(t *testing.T) string {
	t.Helper()
	return testutil.WriteBundleDir(t, map[string]string{
		"doc/etc/1.5/schemas/extension/vmwextension.xsd": testutil.ExtensionXSD,
	})
}
