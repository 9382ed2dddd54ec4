package fixer

import (
	"encoding/json"
	"testing"

	"github.com/erraggy/xsd2oas/internal/testutil"
	"github.com/erraggy/xsd2oas/openapi"
	"github.com/erraggy/xsd2oas/xsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commonSchemas resolves the common fixture into a schema map.
func commonSchemas(t *testing.T) *openapi.OrderedMap[*openapi.Schema] {
	t.Helper()
	s, err := xsd.Parse([]byte(testutil.CommonXSD), "vcloud")
	require.NoError(t, err)

	schemas := openapi.NewOrderedMap[*openapi.Schema]()
	for _, typ := range s.Types {
		schemas.Set(typ.Name(), typ.Schema(xsd.Options{}))
	}
	return schemas
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestNew(t *testing.T) {
	f := New()
	require.NotNil(t, f)
	assert.Nil(t, f.EnabledFixes)
}

func TestParseFixType(t *testing.T) {
	for _, ft := range AllFixTypes() {
		got, err := ParseFixType(string(ft))
		require.NoError(t, err)
		assert.Equal(t, ft, got)
	}

	_, err := ParseFixType("missing-path-parameter")
	assert.Error(t, err)
}

func TestFixWithOptions_NoInput(t *testing.T) {
	_, err := FixWithOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input source specified")
}

func TestFixWithOptions_InvalidOptions(t *testing.T) {
	_, err := FixWithOptions(WithSchemas(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schemas cannot be nil")

	_, err = FixWithOptions(WithSchemas(openapi.NewOrderedMap[*openapi.Schema]()), WithEnabledFixes("bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fix type")
}

func TestApplyAll(t *testing.T) {
	schemas := commonSchemas(t)

	result, err := FixWithOptions(WithSchemas(schemas))
	require.NoError(t, err)
	assert.True(t, result.HasFixes())
	assert.Equal(t, 12, result.FixCount)
	assert.Len(t, result.Fixes, result.FixCount)
	assert.Same(t, schemas, result.Schemas)

	keys := schemas.Keys()
	assert.Equal(t, []string{
		"QueryResultRecordType",
		"MetadataTypedValue",
		"ovf_Section_Type",
		"ovf_Item",
		"ovf_RASD_Type",
	}, keys[len(keys)-5:])
}

func TestQueryResultSuperclass(t *testing.T) {
	schemas := commonSchemas(t)
	f := &Fixer{EnabledFixes: []FixType{FixTypeQueryResultSuperclass}}
	result := f.Apply(schemas)
	assert.Equal(t, 5, result.FixCount)

	union, ok := schemas.Get("QueryResultRecordType")
	require.True(t, ok)
	assert.Equal(t,
		`{"oneOf":[`+
			`{"$ref":"#/components/schemas/vcloud_QueryResultVAppRecordType"},`+
			`{"$ref":"#/components/schemas/vcloud_QueryResultAdminVmRecordType"}],`+
			`"discriminator":{"propertyName":"_type","mapping":{`+
			`"QueryResultVAppRecordType":"#/components/schemas/vcloud_QueryResultVAppRecordType",`+
			`"QueryResultAdminVmRecordType":"#/components/schemas/vcloud_QueryResultAdminVmRecordType"}}}`,
		marshal(t, union))

	base, _ := schemas.Get("vcloud_QueryResultRecordType")
	own := base.ObjectParts()[0]
	discriminator, ok := own.Properties.Get("_type")
	require.True(t, ok)
	assert.JSONEq(t, `{"type":"string","enum":["QueryResultVAppRecordType","QueryResultAdminVmRecordType"]}`, marshal(t, discriminator))
	assert.Equal(t, []string{"_type"}, own.Required)

	container, _ := schemas.Get("vcloud_ContainerType")
	props := container.ObjectParts()[0].Properties
	assert.Equal(t, []string{"total", "record", "reference"}, props.Keys())
	record, _ := props.Get("record")
	assert.JSONEq(t, `{"type":"array","items":{"$ref":"#/components/schemas/QueryResultRecordType"}}`, marshal(t, record))
	reference, _ := props.Get("reference")
	assert.JSONEq(t, `{"type":"array","items":{"$ref":"#/components/schemas/vcloud_ReferenceType"}}`, marshal(t, reference))

	assert.False(t, schemas.Has("MetadataTypedValue"))
	assert.False(t, schemas.Has("ovf_Item"))
}

func TestMetadataSuperclass(t *testing.T) {
	schemas := commonSchemas(t)
	f := &Fixer{EnabledFixes: []FixType{FixTypeMetadataSuperclass}}
	result := f.Apply(schemas)
	assert.Equal(t, 4, result.FixCount)

	union, ok := schemas.Get("MetadataTypedValue")
	require.True(t, ok)
	assert.JSONEq(t, `{
        "oneOf": [
            {"$ref": "#/components/schemas/vcloud_MetadataStringValue"},
            {"$ref": "#/components/schemas/vcloud_MetadataNumberValue"}
        ],
        "discriminator": {
            "propertyName": "_type",
            "mapping": {
                "MetadataStringValue": "#/components/schemas/vcloud_MetadataStringValue",
                "MetadataNumberValue": "#/components/schemas/vcloud_MetadataNumberValue"
            }
        }
    }`, marshal(t, union))

	base, _ := schemas.Get("vcloud_MetadataTypedValue")
	assert.JSONEq(t, `{
        "title": "vcloud_MetadataTypedValue",
        "description": "Base type for typed metadata values.",
        "type": "object",
        "properties": {
            "_type": {"type": "string", "enum": ["MetadataStringValue", "MetadataNumberValue"]}
        },
        "required": ["_type"],
        "additionalProperties": false
    }`, marshal(t, base))

	entry, _ := schemas.Get("vcloud_MetadataEntryType")
	typedValue, ok := entry.ObjectParts()[0].Properties.Get("typedValue")
	require.True(t, ok)
	assert.JSONEq(t, `{"allOf":[{"$ref":"#/components/schemas/MetadataTypedValue"}]}`, marshal(t, typedValue))

	assert.False(t, schemas.Has("QueryResultRecordType"))
}

func TestRetargetKeepsMetadata(t *testing.T) {
	own := openapi.NewObject()
	own.Properties.Set("typedValue", &openapi.Schema{
		Description: "The value.",
		AllOf:       []*openapi.Schema{openapi.NewRef("vcloud_MetadataTypedValue")},
		ReadOnly:    true,
	})
	schemas := openapi.NewOrderedMap[*openapi.Schema]()
	schemas.Set("vcloud_MetadataBooleanValue", openapi.NewObject())
	schemas.Set("vcloud_Holder", own)

	New().Apply(schemas)

	got, _ := own.Properties.Get("typedValue")
	assert.JSONEq(t, `{"description":"The value.","allOf":[{"$ref":"#/components/schemas/MetadataTypedValue"}],"readOnly":true}`, marshal(t, got))
}

func TestStubOVF(t *testing.T) {
	existing := &openapi.Schema{Type: "string"}
	schemas := openapi.NewOrderedMap[*openapi.Schema]()
	schemas.Set("ovf_Item", existing)

	f := &Fixer{EnabledFixes: []FixType{FixTypeStubOVF}}
	result := f.Apply(schemas)
	assert.Equal(t, 2, result.FixCount)

	assert.Equal(t, []string{"ovf_Item", "ovf_Section_Type", "ovf_RASD_Type"}, schemas.Keys())
	item, _ := schemas.Get("ovf_Item")
	assert.Same(t, existing, item)

	stub, _ := schemas.Get("ovf_Section_Type")
	assert.Equal(t, `{"type":"object","properties":{"info":{"type":"object","properties":{"value":{"type":"string"}}}}}`, marshal(t, stub))
}

func TestApplyWithoutFamilies(t *testing.T) {
	schemas := openapi.NewOrderedMap[*openapi.Schema]()
	schemas.Set("vcloud_QueryResultRecordType", openapi.NewObject())
	schemas.Set("vcloud_MetadataTypedValue", openapi.NewObject())

	f := &Fixer{EnabledFixes: []FixType{FixTypeQueryResultSuperclass, FixTypeMetadataSuperclass}}
	result := f.Apply(schemas)

	assert.False(t, result.HasFixes())
	assert.Equal(t, 2, schemas.Len())
}

func TestApplyIdempotent(t *testing.T) {
	schemas := commonSchemas(t)

	first := New().Apply(schemas)
	require.True(t, first.HasFixes())
	once := marshal(t, schemas)

	second := New().Apply(schemas)
	assert.False(t, second.HasFixes())
	assert.Empty(t, second.Fixes)
	assert.Equal(t, once, marshal(t, schemas))
}
