package fixer

import (
	"fmt"
	"strings"

	"github.com/erraggy/xsd2oas/openapi"
)

const (
	// DiscriminatorProperty names the property that selects a union member.
	DiscriminatorProperty = "_type"

	vcloudPrefix = "vcloud_"
)

// family describes one polymorphic group of vcloud types.
type family struct {
	fixType FixType
	// union is both the synthetic schema name and, behind the vcloud
	// prefix, the name of the family's base type.
	union        string
	memberPrefix string
	memberSuffix string
	// requireDiscriminator lists the discriminator in the base type's
	// required properties.
	requireDiscriminator bool
	// container, when set, gains "record" and "reference" arrays.
	container string
	// retarget names the property that is pointed at the union wherever it
	// appears.
	retarget string
}

var queryResultFamily = family{
	fixType:              FixTypeQueryResultSuperclass,
	union:                "QueryResultRecordType",
	memberPrefix:         "QueryResult",
	memberSuffix:         "RecordType",
	requireDiscriminator: true,
	container:            vcloudPrefix + "ContainerType",
}

var metadataFamily = family{
	fixType:              FixTypeMetadataSuperclass,
	union:                "MetadataTypedValue",
	memberPrefix:         "Metadata",
	memberSuffix:         "Value",
	requireDiscriminator: true,
	retarget:             "typedValue",
}

type member struct {
	name  string
	short string
}

// members returns the family's concrete types in schema map order.
func (fam family) members(schemas *openapi.OrderedMap[*openapi.Schema]) []member {
	var out []member
	for _, name := range schemas.Keys() {
		short, ok := strings.CutPrefix(name, vcloudPrefix)
		if !ok || short == fam.union {
			continue
		}
		if strings.HasPrefix(short, fam.memberPrefix) && strings.HasSuffix(short, fam.memberSuffix) {
			out = append(out, member{name: name, short: short})
		}
	}
	return out
}

// applySuperclass synthesizes the union for fam and wires the related
// types to it. A family without members is left alone.
func applySuperclass(schemas *openapi.OrderedMap[*openapi.Schema], fam family, result *FixResult) {
	members := fam.members(schemas)
	if len(members) == 0 {
		return
	}

	if !schemas.Has(fam.union) {
		union := &openapi.Schema{
			Discriminator: &openapi.Discriminator{
				PropertyName: DiscriminatorProperty,
				Mapping:      openapi.NewOrderedMap[string](),
			},
		}
		for _, m := range members {
			union.OneOf = append(union.OneOf, openapi.NewRef(m.name))
			union.Discriminator.Mapping.Set(m.short, openapi.RefTo(m.name))
		}
		schemas.Set(fam.union, union)
		result.add(Fix{
			Type:        fam.fixType,
			Path:        schemaPath(fam.union),
			Description: fmt.Sprintf("added union %s over %d types", fam.union, len(members)),
			After:       union,
		})
	}

	baseName := vcloudPrefix + fam.union
	if base, ok := schemas.Get(baseName); ok {
		injectDiscriminator(base, baseName, fam, members, result)
	}

	if fam.container != "" {
		if container, ok := schemas.Get(fam.container); ok {
			injectContainerArrays(container, fam, result)
		}
	}

	if fam.retarget != "" {
		for name, s := range schemas.All() {
			retarget(s, name, fam, result)
		}
	}
}

// injectDiscriminator adds the "_type" enum to the first object part of
// the base type.
func injectDiscriminator(base *openapi.Schema, baseName string, fam family, members []member, result *FixResult) {
	parts := base.ObjectParts()
	if len(parts) == 0 {
		return
	}
	own := parts[0]

	if !own.Properties.Has(DiscriminatorProperty) {
		enum := make([]any, 0, len(members))
		for _, m := range members {
			enum = append(enum, m.short)
		}
		prop := &openapi.Schema{Type: "string", Enum: enum}
		if own.Properties == nil {
			own.Properties = openapi.NewOrderedMap[*openapi.Schema]()
		}
		own.Properties.Set(DiscriminatorProperty, prop)
		result.add(Fix{
			Type:        fam.fixType,
			Path:        schemaPath(baseName) + ".properties." + DiscriminatorProperty,
			Description: fmt.Sprintf("added discriminator property to %s", baseName),
			After:       prop,
		})
	}

	if fam.requireDiscriminator && !own.HasRequired(DiscriminatorProperty) {
		before := append([]string(nil), own.Required...)
		own.Required = append(own.Required, DiscriminatorProperty)
		result.add(Fix{
			Type:        fam.fixType,
			Path:        schemaPath(baseName) + ".required",
			Description: fmt.Sprintf("marked discriminator property of %s required", baseName),
			Before:      before,
			After:       own.Required,
		})
	}
}

// injectContainerArrays adds the record and reference arrays to the first
// object part of the container type.
func injectContainerArrays(container *openapi.Schema, fam family, result *FixResult) {
	parts := container.ObjectParts()
	if len(parts) == 0 {
		return
	}
	own := parts[0]
	if own.Properties == nil {
		own.Properties = openapi.NewOrderedMap[*openapi.Schema]()
	}

	arrays := []struct {
		property string
		target   string
	}{
		{"record", fam.union},
		{"reference", vcloudPrefix + "ReferenceType"},
	}
	for _, a := range arrays {
		prop := openapi.ArrayOf(openapi.NewRef(a.target))
		if !own.Properties.SetIfAbsent(a.property, prop) {
			continue
		}
		result.add(Fix{
			Type:        fam.fixType,
			Path:        schemaPath(fam.container) + ".properties." + a.property,
			Description: fmt.Sprintf("added %s array to %s", a.property, fam.container),
			After:       prop,
		})
	}
}

// retarget points the family's property at the union in every object part
// of s, keeping the property's own metadata.
func retarget(s *openapi.Schema, name string, fam family, result *FixResult) {
	ref := openapi.RefTo(fam.union)
	for _, part := range s.ObjectParts() {
		prop, ok := part.Properties.Get(fam.retarget)
		if !ok || prop == nil {
			continue
		}
		if len(prop.AllOf) == 1 && prop.AllOf[0].Ref == ref && prop.Ref == "" && prop.Type == "" {
			continue
		}
		updated := &openapi.Schema{
			Description: prop.Description,
			AllOf:       []*openapi.Schema{openapi.NewRef(fam.union)},
			Nullable:    prop.Nullable,
			ReadOnly:    prop.ReadOnly,
			Deprecated:  prop.Deprecated,
		}
		part.Properties.Set(fam.retarget, updated)
		result.add(Fix{
			Type:        fam.fixType,
			Path:        schemaPath(name) + ".properties." + fam.retarget,
			Description: fmt.Sprintf("pointed %s.%s at %s", name, fam.retarget, fam.union),
			Before:      prop,
			After:       updated,
		})
	}
}
