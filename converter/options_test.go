package converter

import (
	"errors"
	"testing"

	"github.com/erraggy/xsd2oas/config"
	"github.com/erraggy/xsd2oas/fixer"
	"github.com/erraggy/xsd2oas/internal/source"
	"github.com/erraggy/xsd2oas/internal/testutil"
	"github.com/erraggy/xsd2oas/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions_Defaults(t *testing.T) {
	cfg, err := applyOptions(WithFiles())
	require.NoError(t, err)
	assert.NotNil(t, cfg.cfg)
	assert.IsType(t, NopLogger{}, cfg.logger)
	assert.True(t, cfg.includeInfo)
	assert.False(t, cfg.checkRefs)
	assert.False(t, cfg.disableFixes)
	assert.Nil(t, cfg.fixes)
}

func TestApplyOptions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{"no source", nil, "must specify an input source"},
		{"two sources", []Option{WithArchive("a.zip"), WithDirectory("doc")}, "exactly one"},
		{"empty bundle", []Option{WithBundle("")}, "bundle path cannot be empty"},
		{"empty archive", []Option{WithArchive("")}, "archive path cannot be empty"},
		{"empty directory", []Option{WithDirectory("")}, "directory cannot be empty"},
		{"nil config", []Option{WithFiles(), WithConfig(nil)}, "config cannot be nil"},
		{"unknown fix", []Option{WithFiles(), WithFixes("bogus")}, "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := applyOptions(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWithConfigValidates(t *testing.T) {
	cfg := config.Default()
	cfg.Namespace.Mode = "guess"

	_, err := ConvertWithOptions(WithFiles(), WithConfig(cfg))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))
	assert.Contains(t, err.Error(), "converter: invalid options")
}

func TestWithFixes(t *testing.T) {
	cfg, err := applyOptions(WithFiles(), WithFixes(fixer.FixTypeStubOVF))
	require.NoError(t, err)
	assert.Equal(t, []fixer.FixType{fixer.FixTypeStubOVF}, cfg.fixes)
	assert.False(t, cfg.disableFixes)

	cfg, err = applyOptions(WithFiles(), WithFixes())
	require.NoError(t, err)
	assert.True(t, cfg.disableFixes)
}

func TestWithLoggerNil(t *testing.T) {
	cfg, err := applyOptions(WithFiles(), WithLogger(nil))
	require.NoError(t, err)
	assert.IsType(t, NopLogger{}, cfg.logger)
}

func TestConvertWithOptions(t *testing.T) {
	t.Run("bundle", func(t *testing.T) {
		result, err := ConvertWithOptions(WithBundle(testutil.WriteBundleZip(t, testutil.Bundle())))
		require.NoError(t, err)
		assert.Equal(t, wantBundleSchemas, result.Schemas.Keys())
	})

	t.Run("archive", func(t *testing.T) {
		result, err := ConvertWithOptions(WithArchive(testutil.WriteBundleZip(t, testutil.Bundle())))
		require.NoError(t, err)
		assert.Equal(t, 3, result.Stats.Files)
	})

	t.Run("directory", func(t *testing.T) {
		result, err := ConvertWithOptions(
			WithDirectory(testutil.WriteBundleDir(t, testutil.Bundle())),
			WithIncludeInfo(false),
		)
		require.NoError(t, err)
		assert.Empty(t, result.Issues)
	})

	t.Run("files with every option", func(t *testing.T) {
		cfg := config.Default()
		cfg.Output.Title = "Extension API"

		result, err := ConvertWithOptions(
			WithFiles(bundleFiles()...),
			WithConfig(cfg),
			WithLogger(NopLogger{}),
			WithNullableOptional(true),
			WithFixes(fixer.FixTypeQueryResultSuperclass),
			WithCheckRefs(true),
			WithStrictMode(true),
		)
		require.NoError(t, err)
		assert.Equal(t, "Extension API", result.Document.Info.Title)
		assert.Len(t, result.Fixes, 5)

		s, ok := result.Schemas.Get("vcloud-ext_VimServerType")
		require.True(t, ok)
		owner, _ := s.AllOf[1].Properties.Get("owner")
		require.NotNil(t, owner)
		assert.True(t, owner.Nullable)
	})

	t.Run("no files", func(t *testing.T) {
		result, err := ConvertWithOptions(WithFiles([]source.File{}...))
		require.NoError(t, err)
		assert.Zero(t, result.Stats.Files)
		assert.Equal(t, 3, result.Schemas.Len(), "only the stubs")
	})
}
