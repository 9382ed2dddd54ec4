package xsd

import (
	"fmt"
	"strconv"

	"aqwari.net/xml/xmltree"
	"github.com/erraggy/xsd2oas/internal/naming"
	"github.com/erraggy/xsd2oas/openapi"
)

// Cardinality is how many times a field may occur.
type Cardinality int

const (
	// ExactlyOne fields are always present.
	ExactlyOne Cardinality = iota
	// Optional fields may be absent.
	Optional
	// Array fields repeat and render as arrays.
	Array
)

// String returns a readable name for the cardinality.
func (c Cardinality) String() string {
	switch c {
	case ExactlyOne:
		return "exactly-one"
	case Optional:
		return "optional"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("Cardinality(%d)", int(c))
	}
}

// ParseCardinality derives a cardinality from raw minOccurs and maxOccurs
// values, where an empty string means the attribute is absent.
func ParseCardinality(minOccurs, maxOccurs string) Cardinality {
	if maxOccurs == "unbounded" {
		return Array
	}
	if n, err := strconv.Atoi(maxOccurs); err == nil && n > 1 {
		return Array
	}
	if minOccurs != "" && maxOccurs == "" && minOccurs != "0" && minOccurs != "1" {
		return Array
	}
	if minOccurs == "0" && (maxOccurs == "" || maxOccurs == "1") {
		return Optional
	}
	return ExactlyOne
}

// FieldType is either a reference to a named schema or an inline simple type.
type FieldType struct {
	// Ref is the output schema name of a named type.
	Ref    string
	Inline *SimpleType
}

// schema renders the bare type.
func (ft FieldType) schema() *openapi.Schema {
	if ft.Inline != nil {
		return ft.Inline.scalar()
	}
	return openapi.NewRef(ft.Ref)
}

// Field is one property of an object type, taken from an xs:element or an
// xs:attribute.
type Field struct {
	Name        string
	Annotation  *Annotation
	Type        FieldType
	Cardinality Cardinality
	// Attribute is set for fields declared with xs:attribute.
	Attribute bool
}

// ResolveField reads an xs:element or xs:attribute. Element references are
// followed through idx. A field annotated as removed yields ErrRemoved.
func ResolveField(ns string, el *xmltree.Element, idx *Index) (*Field, error) {
	switch Classify(el) {
	case KindAttribute:
		return resolveAttribute(ns, el, idx)
	case KindElement:
		return resolveElement(ns, el, idx)
	default:
		return nil, ErrNotFieldNode
	}
}

func resolveAttribute(ns string, el *xmltree.Element, idx *Index) (*Field, error) {
	name, _ := lookupAttr(el, "name")
	if name == "" {
		return nil, ErrMissingName
	}
	f := &Field{Name: naming.Decapitalize(name), Attribute: true}
	if err := f.annotate(el); err != nil {
		return nil, err
	}

	ft, err := inlineOrNamedType(ns, el, idx)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	if ft == nil {
		return nil, fmt.Errorf("%w: attribute %q", ErrMissingType, name)
	}
	f.Type = *ft

	f.Cardinality = Optional
	if use, _ := lookupAttr(el, "use"); use == "required" {
		f.Cardinality = ExactlyOne
	}
	return f, nil
}

func resolveElement(ns string, el *xmltree.Element, idx *Index) (*Field, error) {
	name, _ := lookupAttr(el, "name")
	var decl *Declaration
	if name == "" {
		ref, _ := lookupAttr(el, "ref")
		if ref == "" {
			return nil, ErrMissingName
		}
		d, ok := idx.Element(el, ns, ref)
		if !ok {
			return danglingElement(ns, el, idx, ref)
		}
		decl = &d
		name, _ = lookupAttr(d.Element, "name")
	}

	f := &Field{Name: naming.Decapitalize(name)}
	if err := f.annotate(el); err != nil {
		return nil, err
	}
	if decl != nil && f.Annotation == nil {
		if err := f.annotate(decl.Element); err != nil {
			return nil, err
		}
	}

	ft, err := elementType(ns, el, decl, idx)
	if err != nil {
		return nil, fmt.Errorf("element %q: %w", name, err)
	}
	f.Type = ft

	minOccurs, _ := lookupAttr(el, "minOccurs")
	maxOccurs, _ := lookupAttr(el, "maxOccurs")
	f.Cardinality = ParseCardinality(minOccurs, maxOccurs)
	return f, nil
}

// danglingElement maps an element ref with no indexed declaration, such as
// one into an excluded schema, to a reference named after the element.
// The reference is left dangling for the fixer and the reference checker.
func danglingElement(ns string, el *xmltree.Element, idx *Index, ref string) (*Field, error) {
	_, local := naming.SplitQName(ref)
	f := &Field{
		Name: naming.Decapitalize(local),
		Type: FieldType{Ref: idx.typeName(el, ns, ref)},
	}
	if err := f.annotate(el); err != nil {
		return nil, err
	}
	minOccurs, _ := lookupAttr(el, "minOccurs")
	maxOccurs, _ := lookupAttr(el, "maxOccurs")
	f.Cardinality = ParseCardinality(minOccurs, maxOccurs)
	return f, nil
}

// elementType picks, in order: an inline simple type on the element, the
// inline or named type of the referenced declaration, the element's own
// type attribute.
func elementType(ns string, el *xmltree.Element, decl *Declaration, idx *Index) (FieldType, error) {
	if st := firstChild(el, KindSimpleType); st != nil {
		inline, err := ResolveSimpleType(ns, st)
		if err != nil {
			return FieldType{}, err
		}
		return FieldType{Inline: inline}, nil
	}
	if decl != nil {
		ft, err := inlineOrNamedType(decl.Namespace, decl.Element, idx)
		if err != nil {
			return FieldType{}, err
		}
		if ft != nil {
			return *ft, nil
		}
	}
	if t, ok := lookupAttr(el, "type"); ok && t != "" {
		return namedType(ns, el, t, idx), nil
	}
	return FieldType{}, ErrMissingType
}

// inlineOrNamedType returns nil when el has neither an inline simple type
// nor a type attribute.
func inlineOrNamedType(ns string, el *xmltree.Element, idx *Index) (*FieldType, error) {
	if st := firstChild(el, KindSimpleType); st != nil {
		inline, err := ResolveSimpleType(ns, st)
		if err != nil {
			return nil, err
		}
		return &FieldType{Inline: inline}, nil
	}
	if t, ok := lookupAttr(el, "type"); ok && t != "" {
		ft := namedType(ns, el, t, idx)
		return &ft, nil
	}
	return nil, nil
}

// namedType turns a type attribute into a primitive or a reference.
func namedType(ns string, el *xmltree.Element, qname string, idx *Index) FieldType {
	if p, err := ParsePrimitive(primitiveToken(el, qname)); err == nil {
		return FieldType{Inline: &SimpleType{Base: p}}
	}
	return FieldType{Ref: idx.typeName(el, ns, qname)}
}

// annotate attaches the field's annotation and rejects removed fields.
func (f *Field) annotate(el *xmltree.Element) error {
	ann := firstChild(el, KindAnnotation)
	if ann == nil {
		return nil
	}
	a, err := ExtractAnnotation(ann)
	if err != nil {
		// Fields may be documented only through their type.
		return nil
	}
	if a.Removed {
		return fmt.Errorf("%w: %s", ErrRemoved, f.Name)
	}
	f.Annotation = a
	return nil
}

// ReadOnly reports whether clients can never set the field.
func (f *Field) ReadOnly() bool {
	return f.Attribute || (f.Annotation != nil && f.Annotation.Modifiable == ModifiableNone)
}

// Options tunes schema rendering.
type Options struct {
	// NullableOptional marks optional fields nullable in addition to
	// leaving them out of the required list.
	NullableOptional bool
}

// Schema renders the field as a property schema.
func (f *Field) Schema(opts Options) *openapi.Schema {
	var description string
	var deprecated bool
	if f.Annotation != nil {
		description = f.Annotation.Description
		deprecated = f.Annotation.Deprecated
	}
	readOnly := f.ReadOnly()
	nullable := opts.NullableOptional && f.Cardinality == Optional

	item := f.Type.schema()
	var s *openapi.Schema
	switch {
	case f.Cardinality == Array:
		if item.Type == "array" {
			s = item
		} else {
			s = openapi.ArrayOf(item)
		}
	case item.IsRef() && (description != "" || deprecated || readOnly || nullable):
		// $ref siblings are ignored in OpenAPI 3.0.
		s = &openapi.Schema{AllOf: []*openapi.Schema{item}}
	default:
		s = item
	}

	s.Description = description
	s.Deprecated = deprecated
	s.ReadOnly = readOnly
	s.Nullable = nullable
	return s
}
