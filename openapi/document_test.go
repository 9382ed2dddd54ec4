package openapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_Marshal(t *testing.T) {
	schemas := NewOrderedMap[*Schema]()
	schemas.Set("vcloud_B", &Schema{Type: "string"})
	schemas.Set("vcloud_A", &Schema{Type: "integer", Format: "int32"})
	doc := NewDocument(&Info{Title: "vCloud API", Version: "36.0"}, schemas)

	t.Run("json", func(t *testing.T) {
		data, err := doc.Marshal(FormatJSON)
		require.NoError(t, err)
		out := string(data)
		assert.Contains(t, out, `"openapi": "3.0.2"`)
		assert.Contains(t, out, `"paths": {}`)
		assert.Less(t, strings.Index(out, "vcloud_B"), strings.Index(out, "vcloud_A"))
		assert.Less(t, strings.Index(out, "basicAuth"), strings.Index(out, "bearerAuth"))
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := doc.Marshal(FormatYAML)
		require.NoError(t, err)
		out := string(data)
		assert.Contains(t, out, "openapi: 3.0.2")
		assert.Less(t, strings.Index(out, "vcloud_B"), strings.Index(out, "vcloud_A"))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := doc.Marshal(Format("toml"))
		assert.Error(t, err)
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := doc.Marshal(FormatJSON)
		require.NoError(t, err)
		second, err := doc.Marshal(FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
