package converter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/erraggy/xsd2oas/config"
	"github.com/erraggy/xsd2oas/fixer"
	"github.com/erraggy/xsd2oas/internal/source"
	"github.com/erraggy/xsd2oas/internal/testutil"
	"github.com/erraggy/xsd2oas/oaserrors"
	"github.com/erraggy/xsd2oas/openapi"
	"github.com/erraggy/xsd2oas/xsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantBundleSchemas = []string{
	"vcloud-ext_VimServerType",
	"vcloud_LinkType",
	"vcloud_ResourceType",
	"vcloud_ReferenceType",
	"vcloud_ContainerType",
	"vcloud_QueryResultRecordType",
	"vcloud_QueryResultVAppRecordType",
	"vcloud_QueryResultAdminVmRecordType",
	"vcloud_MetadataTypedValue",
	"vcloud_MetadataStringValue",
	"vcloud_MetadataNumberValue",
	"vcloud_MetadataEntryType",
	"vcloud_TaskType",
	"vcloud_TaskStatusType",
	"vcloud_CapacityType",
	"versioning_SupportedVersionsType",
	"QueryResultRecordType",
	"MetadataTypedValue",
	"ovf_Section_Type",
	"ovf_Item",
	"ovf_RASD_Type",
}

func bundleFiles() []source.File {
	var files []source.File
	for name, content := range testutil.Bundle() {
		if !strings.HasSuffix(name, ".xsd") || strings.Contains(name, "external") || strings.Contains(name, "snapshot") {
			continue
		}
		files = append(files, source.File{Name: name, Data: []byte(content)})
	}
	return files
}

func TestNew(t *testing.T) {
	c := New()
	assert.NotNil(t, c.Config)
	assert.IsType(t, NopLogger{}, c.Logger)
	assert.True(t, c.IncludeInfo)
	assert.False(t, c.StrictMode)
	assert.False(t, c.CheckRefs)
}

func TestConvertBundle(t *testing.T) {
	tests := []struct {
		name  string
		input func(t *testing.T) string
	}{
		{"archive", func(t *testing.T) string { return testutil.WriteBundleZip(t, testutil.Bundle()) }},
		{"directory", func(t *testing.T) string { return testutil.WriteBundleDir(t, testutil.Bundle()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().ConvertBundle(tt.input(t))
			require.NoError(t, err)

			assert.Equal(t, wantBundleSchemas, result.Schemas.Keys())
			assert.Same(t, result.Schemas, result.Document.Components.Schemas)
			assert.Equal(t, []string{
				"doc/etc/1.5/schemas/extension/vmwextension.xsd",
				"doc/etc/1.5/schemas/master/common.xsd",
				"doc/etc/schemas/versioning/versions.xsd",
			}, result.Files)

			assert.Equal(t, Stats{
				Files:        3,
				Types:        16,
				Objects:      15,
				SimpleTypes:  1,
				ContentTypes: 3,
				Skipped:      3,
				Removed:      1,
				Overwritten:  0,
			}, result.Stats)

			assert.Len(t, result.Fixes, 12)
			assert.Equal(t, 16, result.InfoCount)
			assert.Zero(t, result.WarningCount)
			assert.True(t, result.Success)
			assert.False(t, result.HasWarnings())
			assert.False(t, result.HasCriticalIssues())
		})
	}
}

func TestConvertArchiveAndDirectory(t *testing.T) {
	fromZip, err := New().ConvertArchive(testutil.WriteBundleZip(t, testutil.Bundle()))
	require.NoError(t, err)
	fromDir, err := New().ConvertDirectory(testutil.WriteBundleDir(t, testutil.Bundle()))
	require.NoError(t, err)

	zipJSON, err := fromZip.Marshal()
	require.NoError(t, err)
	dirJSON, err := fromDir.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(zipJSON), string(dirJSON))
}

func TestConvertBundleErrors(t *testing.T) {
	_, err := New().ConvertBundle(t.TempDir() + "/missing.zip")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrSource))
	assert.Contains(t, err.Error(), "converter:")

	_, err = New().ConvertArchive(testutil.WriteBundleDir(t, testutil.Bundle()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrSource))

	_, err = New().ConvertDirectory(testutil.WriteBundleZip(t, testutil.Bundle()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrSource))
}

func TestConvertFiles_Deterministic(t *testing.T) {
	files := bundleFiles()
	reversed := make([]source.File, len(files))
	for i, f := range files {
		reversed[len(files)-1-i] = f
	}

	first, err := New().ConvertFiles(files)
	require.NoError(t, err)
	second, err := New().ConvertFiles(reversed)
	require.NoError(t, err)

	a, err := first.Marshal()
	require.NoError(t, err)
	b, err := second.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, first.Issues, second.Issues)
}

func TestConvertFiles_Document(t *testing.T) {
	result, err := New().ConvertFiles(bundleFiles())
	require.NoError(t, err)

	assert.Equal(t, openapi.Version, result.Document.OpenAPI)
	assert.Equal(t, "vCloud API", result.Document.Info.Title)
	assert.Equal(t, "1.0", result.Document.Info.Version)
	assert.Equal(t, openapi.FormatJSON, result.Format)

	data, err := result.Marshal()
	require.NoError(t, err)

	var doc struct {
		OpenAPI    string `json:"openapi"`
		Components struct {
			Schemas map[string]json.RawMessage `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "3.0.2", doc.OpenAPI)
	assert.Len(t, doc.Components.Schemas, len(wantBundleSchemas))

	assert.JSONEq(t, `{
        "title": "vcloud-ext_VimServerType",
        "description": "A vCenter server.",
        "allOf": [
            {"$ref": "#/components/schemas/vcloud_ResourceType"},
            {
                "type": "object",
                "properties": {
                    "url": {"type": "string", "format": "uri"},
                    "owner": {"$ref": "#/components/schemas/vcloud_ReferenceType"}
                },
                "required": ["url"],
                "additionalProperties": false
            }
        ]
    }`, string(doc.Components.Schemas["vcloud-ext_VimServerType"]))

	assert.JSONEq(t, `{
        "title": "versioning_SupportedVersionsType",
        "description": "List of supported versions.",
        "type": "object",
        "properties": {
            "version": {"type": "array", "items": {"type": "string"}}
        },
        "required": ["version"],
        "additionalProperties": false
    }`, string(doc.Components.Schemas["versioning_SupportedVersionsType"]))
}

func TestConvertFiles_ContentTypes(t *testing.T) {
	result, err := New().ConvertFiles(bundleFiles())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"application/vnd.vmware.vcloud.metadata.value+xml",
		"application/vnd.vmware.vcloud.resource+xml",
		"application/vnd.vmware.vcloud.task+xml",
	}, result.ContentTypes.Keys())

	name, ok := result.ContentTypes.Get("application/vnd.vmware.vcloud.task+xml")
	require.True(t, ok)
	assert.Equal(t, "vcloud_TaskType", name)
}

func TestConvertFiles_Issues(t *testing.T) {
	result, err := New().ConvertFiles(bundleFiles())
	require.NoError(t, err)

	var removed, skipped, fixes int
	for _, issue := range result.Issues {
		assert.Equal(t, SeverityInfo, issue.Severity, issue.String())
		switch {
		case issue.Field == "VcTaskList":
			removed++
			assert.Equal(t, "components.schemas.vcloud_TaskType", issue.Path)
			assert.Equal(t, "doc/etc/1.5/schemas/master/common.xsd", issue.File)
		case strings.Contains(issue.Message, "was skipped"):
			skipped++
		case issue.Context != "":
			fixes++
			_, err := fixer.ParseFixType(issue.Context)
			assert.NoError(t, err)
		}
	}
	assert.Equal(t, 1, removed)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, 12, fixes)
}

func TestConvertFiles_IncludeInfo(t *testing.T) {
	c := New()
	c.IncludeInfo = false
	result, err := c.ConvertFiles(bundleFiles())
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
	assert.Zero(t, result.InfoCount)
}

func TestConvertFiles_Fixes(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		c := New()
		c.DisableFixes = true
		result, err := c.ConvertFiles(bundleFiles())
		require.NoError(t, err)
		assert.Empty(t, result.Fixes)
		assert.Equal(t, wantBundleSchemas[:16], result.Schemas.Keys())
	})

	t.Run("selected", func(t *testing.T) {
		c := New()
		c.EnabledFixes = []fixer.FixType{fixer.FixTypeMetadataSuperclass}
		result, err := c.ConvertFiles(bundleFiles())
		require.NoError(t, err)
		assert.Len(t, result.Fixes, 4)
		assert.True(t, result.Schemas.Has("MetadataTypedValue"))
		assert.False(t, result.Schemas.Has("QueryResultRecordType"))
	})

	t.Run("from config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Fixer.Enabled = []string{"stub-ovf"}
		c := New()
		c.Config = cfg
		result, err := c.ConvertFiles(bundleFiles())
		require.NoError(t, err)
		assert.Len(t, result.Fixes, 3)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Fixer.Enabled = []string{"bogus"}
		c := New()
		c.Config = cfg
		_, err := c.ConvertFiles(bundleFiles())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bogus")
	})
}

func TestConvertFiles_NullableOptional(t *testing.T) {
	files := []source.File{{Name: "doc/etc/1.5/schemas/master/inheritance.xsd", Data: []byte(testutil.InheritanceXSD)}}

	plain, err := New().ConvertFiles(files)
	require.NoError(t, err)
	s, _ := plain.Schemas.Get("vcloud_BaseType")
	require.NotNil(t, s)
	field, _ := s.Properties.Get("baseField")
	assert.False(t, field.Nullable)

	c := New()
	c.NullableOptional = true
	nullable, err := c.ConvertFiles(files)
	require.NoError(t, err)
	s, _ = nullable.Schemas.Get("vcloud_BaseType")
	field, _ = s.Properties.Get("baseField")
	assert.True(t, field.Nullable)
}

func TestConvertFiles_NamespaceFromPath(t *testing.T) {
	files := []source.File{
		{Name: "doc/etc/1.5/schemas/master/inheritance.xsd", Data: []byte(testutil.InheritanceXSD)},
		{Name: "elsewhere/inheritance.xsd", Namespace: "custom", Data: []byte(testutil.InheritanceXSD)},
	}

	c := New()
	c.DisableFixes = true
	result, err := c.ConvertFiles(files)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"vcloud_BaseType",
		"vcloud_TestType",
		"custom_BaseType",
		"custom_TestType",
	}, result.Schemas.Keys())
}

func TestConvertFiles_TargetNamespaceMode(t *testing.T) {
	cfg := config.Default()
	cfg.Namespace.Mode = config.ModeTarget

	files := []source.File{
		{Name: "a.xsd", Data: []byte(testutil.CommonXSD)},
		{Name: "b.xsd", Data: []byte(testutil.ExtensionXSD)},
		{Name: "c.xsd", Data: []byte(testutil.VersionsXSD)},
		{Name: "d.xsd", Data: []byte(testutil.InheritanceXSD)},
	}

	c := New()
	c.Config = cfg
	c.DisableFixes = true
	result, err := c.ConvertFiles(files)
	require.NoError(t, err)

	keys := result.Schemas.Keys()
	assert.Contains(t, keys, "vcloud_TaskType")
	assert.Contains(t, keys, "vcloud-ext_VimServerType")
	assert.Contains(t, keys, "versioning_SupportedVersionsType")
	assert.Contains(t, keys, "vcloud_BaseType", "no targetNamespace falls back")

	s, _ := result.Schemas.Get("vcloud-ext_VimServerType")
	assert.Equal(t, "#/components/schemas/vcloud_ResourceType", s.AllOf[0].Ref)
}

func TestConvertFiles_Overwrite(t *testing.T) {
	files := []source.File{
		{Name: "doc/etc/1.5/schemas/master/a.xsd", Data: []byte(testutil.InheritanceXSD)},
		{Name: "doc/etc/1.5/schemas/master/b.xsd", Data: []byte(strings.Replace(testutil.InheritanceXSD, "A test type.", "Declared again.", 1))},
	}

	c := New()
	c.DisableFixes = true
	result, err := c.ConvertFiles(files)
	require.NoError(t, err)

	assert.Equal(t, []string{"vcloud_BaseType", "vcloud_TestType"}, result.Schemas.Keys())
	assert.Equal(t, 2, result.Stats.Overwritten)
	assert.Equal(t, 2, result.WarningCount)
	assert.True(t, result.Success)

	s, _ := result.Schemas.Get("vcloud_TestType")
	assert.Equal(t, "Declared again.", s.Description)

	for _, issue := range result.Issues {
		if issue.Severity == SeverityWarning {
			assert.Equal(t, "doc/etc/1.5/schemas/master/b.xsd", issue.File)
		}
	}
}

func TestConvertFiles_StrictMode(t *testing.T) {
	files := []source.File{
		{Name: "doc/etc/1.5/schemas/master/a.xsd", Data: []byte(testutil.InheritanceXSD)},
		{Name: "doc/etc/1.5/schemas/master/b.xsd", Data: []byte(testutil.InheritanceXSD)},
	}

	c := New()
	c.StrictMode = true
	result, err := c.ConvertFiles(files)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Contains(t, err.Error(), "strict mode")
	assert.Equal(t, 2, result.WarningCount)

	result, err = c.ConvertFiles(files[:1])
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestConvertFiles_ContentTypeConflict(t *testing.T) {
	const tmpl = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:meta="http://www.vmware.com/vcloud/meta">
    <xs:complexType name="%s">
        <xs:annotation>
            <xs:appinfo><meta:content-type>application/vnd.vmware.vcloud.org+xml</meta:content-type></xs:appinfo>
            <xs:documentation xml:lang="en">An organization.</xs:documentation>
        </xs:annotation>
    </xs:complexType>
</xs:schema>`

	files := []source.File{
		{Name: "doc/etc/1.5/schemas/master/a.xsd", Data: []byte(strings.Replace(tmpl, "%s", "OrgType", 1))},
		{Name: "doc/etc/1.5/schemas/master/b.xsd", Data: []byte(strings.Replace(tmpl, "%s", "AdminOrgType", 1))},
	}

	c := New()
	c.DisableFixes = true
	result, err := c.ConvertFiles(files)
	require.NoError(t, err)

	name, ok := result.ContentTypes.Get("application/vnd.vmware.vcloud.org+xml")
	require.True(t, ok)
	assert.Equal(t, "vcloud_AdminOrgType", name)
	require.Equal(t, 1, result.WarningCount)

	var warning ConversionIssue
	for _, issue := range result.Issues {
		if issue.Severity == SeverityWarning {
			warning = issue
		}
	}
	assert.Equal(t, "contentTypes", warning.Path)
	assert.Contains(t, warning.Message, "vcloud_OrgType")
}

func TestConvertFiles_CheckRefs(t *testing.T) {
	t.Run("bundle resolves", func(t *testing.T) {
		c := New()
		c.CheckRefs = true
		result, err := c.ConvertFiles(bundleFiles())
		require.NoError(t, err)
		assert.Zero(t, result.WarningCount)
		assert.Zero(t, result.ErrorCount)
		assert.True(t, result.Success)
	})

	t.Run("dangling reference", func(t *testing.T) {
		files := []source.File{
			{Name: "doc/etc/1.5/schemas/extension/vmwextension.xsd", Data: []byte(testutil.ExtensionXSD)},
		}
		c := New()
		c.CheckRefs = true
		c.DisableFixes = true
		result, err := c.ConvertFiles(files)
		require.NoError(t, err)
		assert.Equal(t, 2, result.WarningCount)
		assert.True(t, result.Success, "dangling references are warnings")
	})
}

func TestConvertFiles_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		sentinel error
		check    func(t *testing.T, err error)
	}{
		{
			name:     "malformed XML",
			data:     "<xs:schema",
			sentinel: oaserrors.ErrParse,
			check: func(t *testing.T, err error) {
				var perr *oaserrors.ParseError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, "doc/etc/1.5/schemas/master/bad.xsd", perr.Path)
			},
		},
		{
			name:     "not a schema",
			data:     "<root/>",
			sentinel: xsd.ErrNotSchemaNode,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, oaserrors.ErrParse))
				assert.Contains(t, err.Error(), "bad.xsd")
			},
		},
		{
			name: "restriction without base",
			data: `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
    <xs:simpleType name="Broken"><xs:restriction/></xs:simpleType>
</xs:schema>`,
			sentinel: xsd.ErrMissingBase,
			check: func(t *testing.T, err error) {
				var derr *oaserrors.DeclarationError
				require.True(t, errors.As(err, &derr))
				assert.Equal(t, "doc/etc/1.5/schemas/master/bad.xsd", derr.Path)
				assert.Equal(t, "Broken", derr.Declaration)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := append(bundleFiles(), source.File{
				Name: "doc/etc/1.5/schemas/master/bad.xsd",
				Data: []byte(tt.data),
			})
			result, err := New().ConvertFiles(files)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.sentinel), err.Error())
			assert.True(t, strings.HasPrefix(err.Error(), "converter: "))
			tt.check(t, err)
		})
	}
}

func TestConvertFiles_YAML(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Format = "yaml"
	cfg.Output.Title = "Tenant API"

	c := New()
	c.Config = cfg
	result, err := c.ConvertFiles(bundleFiles())
	require.NoError(t, err)
	assert.Equal(t, openapi.FormatYAML, result.Format)

	data, err := result.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "openapi: 3.0.2\n"))
	assert.Contains(t, string(data), "title: Tenant API")
}

func TestConvertFiles_Logging(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	c := New()
	c.Logger = NewSlogAdapter(slog.New(handler))
	_, err := c.ConvertFiles(bundleFiles())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "parsed schema file")
	assert.Contains(t, out, "namespace=vcloud-ext")
	assert.Contains(t, out, "skipped declaration")
	assert.Contains(t, out, "dropped removed field")
	assert.Contains(t, out, "applied schema fixes")
	assert.Contains(t, out, "conversion complete")
}

func TestConvertFiles_NilConfigAndLogger(t *testing.T) {
	c := &Converter{IncludeInfo: true}
	result, err := c.ConvertFiles(bundleFiles())
	require.NoError(t, err)
	assert.Equal(t, wantBundleSchemas, result.Schemas.Keys())
}

// vAppXSD references OVF types and elements whose schemas the default
// configuration excludes.
const vAppXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns="http://www.vmware.com/vcloud/v1.5"
    xmlns:xs="http://www.w3.org/2001/XMLSchema"
    xmlns:ovf="http://schemas.dmtf.org/ovf/envelope/1"
    targetNamespace="http://www.vmware.com/vcloud/v1.5"
    elementFormDefault="qualified">
    <xs:complexType name="VAppType">
        <xs:annotation>
            <xs:documentation xml:lang="en">A vApp.</xs:documentation>
        </xs:annotation>
        <xs:sequence>
            <xs:element ref="ovf:Section" minOccurs="0" maxOccurs="unbounded"/>
            <xs:element ref="ovf:Item" minOccurs="0" maxOccurs="unbounded"/>
            <xs:element name="NetworkSection" type="ovf:Section_Type" minOccurs="0"/>
            <xs:element name="Rasd" type="ovf:RASD_Type" minOccurs="0"/>
        </xs:sequence>
    </xs:complexType>
</xs:schema>`

func TestConvertDirectory_ExcludedOVF(t *testing.T) {
	dir := testutil.WriteBundleDir(t, map[string]string{
		"doc/etc/1.5/schemas/master/vApp.xsd":     vAppXSD,
		"doc/etc/schemas/external/ovf1.1/ovf.xsd": "<not-a-schema/>",
	})

	c := New()
	c.CheckRefs = true
	result, err := c.ConvertDirectory(dir)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"doc/etc/1.5/schemas/master/vApp.xsd"}, result.Files)

	vApp, ok := result.Schemas.Get("vcloud_VAppType")
	require.True(t, ok)
	props := vApp.Properties
	require.Equal(t, []string{"section", "item", "networkSection", "rasd"}, props.Keys())

	section, _ := props.Get("section")
	assert.Equal(t, "array", section.Type)
	assert.Equal(t, "#/components/schemas/ovf_Section", section.Items.Ref)
	item, _ := props.Get("item")
	assert.Equal(t, "#/components/schemas/ovf_Item", item.Items.Ref)
	network, _ := props.Get("networkSection")
	assert.Equal(t, "#/components/schemas/ovf_Section_Type", network.Ref)
	rasd, _ := props.Get("rasd")
	assert.Equal(t, "#/components/schemas/ovf_RASD_Type", rasd.Ref)

	for _, name := range []string{"ovf_Section_Type", "ovf_Item", "ovf_RASD_Type"} {
		assert.True(t, result.Schemas.Has(name), "missing stub %s", name)
	}

	var dangling []any
	for _, issue := range result.Issues {
		if issue.Severity == SeverityWarning && issue.Value != nil {
			dangling = append(dangling, issue.Value)
		}
	}
	assert.Equal(t, []any{"#/components/schemas/ovf_Section"}, dangling,
		"only the element without a stub is left dangling")
}
