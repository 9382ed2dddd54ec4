// Package xsd maps the vendor dialect of XML Schema used by the vCloud API
// documentation onto OpenAPI 3.0 schema objects.
//
// The package understands a deliberately small part of XML Schema: named
// complexType and simpleType declarations, sequences of elements,
// attributes, single inheritance through complexContent extension,
// simpleContent extension, group and attributeGroup references, and the
// vendor's annotation convention for descriptions and field metadata.
//
// # Pipeline
//
// A schema file is parsed with [ParseDocument]. All documents of a run are
// registered in an [Index] so element, group and attribute-group references
// can cross files. [Document.Resolve] then turns every top-level declaration
// into a [Type], and [Type.Schema] renders it:
//
//	doc, err := xsd.ParseDocument(data, "vcloud")
//	if err != nil {
//	    return err
//	}
//	schema, err := doc.Resolve(xsd.NewIndex(doc))
//	if err != nil {
//	    return err
//	}
//	for _, t := range schema.Types {
//	    out.Set(t.Name(), t.Schema(xsd.Options{}))
//	}
//
// # Naming
//
// Output names are the declared name prefixed with the document's
// namespace tag, for example "vcloud_TaskType". An empty tag leaves names
// unprefixed. Property names are the declared names with their first ASCII
// letter lowercased.
package xsd
