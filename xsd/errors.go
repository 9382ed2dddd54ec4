package xsd

import "errors"

// Shape errors returned by the resolvers. Callers match them with errors.Is.
var (
	// ErrNoMatch reports a type token outside the primitive vocabulary.
	ErrNoMatch = errors.New("xsd: no matching primitive type")

	// ErrNotAnnotationNode reports a node that is not xs:annotation.
	ErrNotAnnotationNode = errors.New("xsd: not an annotation node")

	// ErrNoDescription reports an annotation without an English description.
	ErrNoDescription = errors.New("xsd: annotation has no description")

	// ErrNotTypeNode reports a node that is not a recognized type declaration.
	ErrNotTypeNode = errors.New("xsd: not a type node")

	// ErrMissingName reports a declaration without a usable name.
	ErrMissingName = errors.New("xsd: missing name attribute")

	// ErrMissingAnnotation reports a complexType without a usable annotation.
	ErrMissingAnnotation = errors.New("xsd: missing annotation element")

	// ErrMissingBase reports a restriction without a base attribute.
	ErrMissingBase = errors.New("xsd: missing base attribute")

	// ErrMissingItemType reports a list without an itemType attribute.
	ErrMissingItemType = errors.New("xsd: missing itemType attribute")

	// ErrMissingType reports a field with neither an inline nor a named type.
	ErrMissingType = errors.New("xsd: missing type attribute")

	// ErrNotFieldNode reports a node that is neither xs:element nor xs:attribute.
	ErrNotFieldNode = errors.New("xsd: not a field node")

	// ErrRemoved reports a field whose annotation marks it removed.
	// Object resolution filters such fields out instead of failing.
	ErrRemoved = errors.New("xsd: field removed")

	// ErrNotSchemaNode reports a document whose root is not xs:schema.
	ErrNotSchemaNode = errors.New("xsd: not a schema node")

	// ErrUnresolved reports a group or attributeGroup reference that
	// matches no indexed declaration. Element refs are left dangling instead.
	ErrUnresolved = errors.New("xsd: unresolved reference")
)
