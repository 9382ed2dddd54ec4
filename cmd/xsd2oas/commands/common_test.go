package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/xsd2oas/fixer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"", FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateOutputFormat(format), format)
	}
	err := ValidateOutputFormat(FormatText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format 'text'")
}

func TestValidateReportFormat(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateReportFormat(format), format)
	}
	assert.Error(t, ValidateReportFormat(""))
	assert.Error(t, ValidateReportFormat("xml"))
}

func TestOutputStructured(t *testing.T) {
	data := map[string]int{"schemas": 3}

	tests := []struct {
		format string
		want   string
	}{
		{FormatJSON, "{\n  \"schemas\": 3\n}\n"},
		{FormatYAML, "schemas: 3\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, OutputStructured(&buf, data, tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	t.Run("invalid", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, OutputStructured(&buf, data, FormatText))
		assert.Empty(t, buf.String())
	})
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bundle.zip")

	t.Run("distinct file", func(t *testing.T) {
		assert.NoError(t, ValidateOutputPath(filepath.Join(dir, "openapi.json"), []string{input}))
	})

	t.Run("overwrites input", func(t *testing.T) {
		err := ValidateOutputPath(input, []string{input})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "would overwrite input file")
	})

	t.Run("symlink", func(t *testing.T) {
		target := filepath.Join(dir, "target.json")
		require.NoError(t, os.WriteFile(target, nil, 0o600))
		link := filepath.Join(dir, "link.json")
		require.NoError(t, os.Symlink(target, link))

		err := ValidateOutputPath(link, []string{input})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refusing to write to symlink")
	})
}

func TestRejectSymlinkOutput(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, RejectSymlinkOutput(filepath.Join(dir, "missing.json")))

	regular := filepath.Join(dir, "regular.json")
	require.NoError(t, os.WriteFile(regular, nil, 0o600))
	assert.NoError(t, RejectSymlinkOutput(regular))
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteOutput(path, []byte("{}")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out := captureStdout(t, func() {
		require.NoError(t, WriteOutput("", []byte("stdout")))
	})
	assert.Equal(t, "stdout", out)
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "vCloud API", cfg.Output.Title)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "xsd2oas.toml")
		require.NoError(t, os.WriteFile(path, []byte("[output]\ntitle = \"Cloud Director\"\nformat = \"yaml\"\n"), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "Cloud Director", cfg.Output.Title)
		assert.Equal(t, "yaml", cfg.Output.Format)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewLogger(&buf, false)
	quiet.Info("hidden")
	quiet.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown key=value")

	buf.Reset()
	verbose := NewLogger(&buf, true)
	verbose.Debug("detail")
	assert.Contains(t, buf.String(), "level=DEBUG msg=detail")
}

func TestParseFixList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []fixer.FixType
		wantErr bool
	}{
		{"single", "stub-ovf", []fixer.FixType{fixer.FixTypeStubOVF}, false},
		{
			"list with spaces",
			"query-result-superclass, metadata-superclass",
			[]fixer.FixType{fixer.FixTypeQueryResultSuperclass, fixer.FixTypeMetadataSuperclass},
			false,
		},
		{"unknown", "stub-ovf,rename", nil, true},
		{"empty", " , ", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFixList(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, tableFormat("types.yaml"))
	assert.Equal(t, FormatYAML, tableFormat("TYPES.YML"))
	assert.Equal(t, FormatJSON, tableFormat("types.json"))
	assert.Equal(t, FormatJSON, tableFormat("types"))
}
