// Package fixer post-processes the merged component schemas of a conversion.
//
// The vendor schemas model two polymorphic families through plain
// inheritance: query result records (vcloud_QueryResult*RecordType) and typed
// metadata values (vcloud_Metadata*Value). XML carries the concrete type in
// the element name, which JSON loses, so the fixer adds a synthetic oneOf
// union for each family with a "_type" discriminator and wires the base and
// container types to it. It also stubs the few OVF types the vendor schemas
// reference but the bundle does not define.
//
// # Quick Start
//
//	result, err := fixer.FixWithOptions(
//		fixer.WithSchemas(schemas),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Applied %d fixes\n", result.FixCount)
//
// Or use a reusable Fixer instance:
//
//	f := fixer.New()
//	f.EnabledFixes = []fixer.FixType{fixer.FixTypeStubOVF}
//	result := f.Apply(schemas)
//
// # Supported Fixes
//
//   - query-result-superclass: adds QueryResultRecordType, a "_type" enum on
//     vcloud_QueryResultRecordType and "record"/"reference" arrays on
//     vcloud_ContainerType.
//   - metadata-superclass: adds MetadataTypedValue, a required "_type" enum on
//     vcloud_MetadataTypedValue and points every "typedValue" property at the
//     union.
//   - stub-ovf: adds ovf_Section_Type, ovf_Item and ovf_RASD_Type.
//
// Every fix inserts only what is absent, so applying the fixer twice yields
// the same schemas as applying it once.
package fixer
