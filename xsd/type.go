package xsd

import (
	"errors"

	"aqwari.net/xml/xmltree"
	"github.com/erraggy/xsd2oas/openapi"
)

// Type is the result of resolving one top-level declaration: exactly one
// of Object and Simple is set.
type Type struct {
	Object *ObjectType
	Simple *SimpleType
}

// ResolveType tries the object resolver first and falls back to the simple
// resolver. ErrNotTypeNode means el is neither.
func ResolveType(ns string, el *xmltree.Element, idx *Index) (Type, error) {
	ot, err := ResolveObjectType(ns, el, idx)
	if err == nil {
		return Type{Object: ot}, nil
	}
	if !errors.Is(err, ErrNotTypeNode) {
		return Type{}, err
	}
	st, err := ResolveSimpleType(ns, el)
	if err != nil {
		return Type{}, err
	}
	if st.Name == "" {
		return Type{}, ErrMissingName
	}
	return Type{Simple: st}, nil
}

// Name returns the namespace-prefixed name of the type.
func (t Type) Name() string {
	if t.Object != nil {
		return t.Object.Name
	}
	if t.Simple != nil {
		return t.Simple.Name
	}
	return ""
}

// Annotation returns the type's annotation, which may be nil.
func (t Type) Annotation() *Annotation {
	if t.Object != nil {
		return t.Object.Annotation
	}
	if t.Simple != nil {
		return t.Simple.Annotation
	}
	return nil
}

// Schema renders the type as a component schema.
func (t Type) Schema(opts Options) *openapi.Schema {
	if t.Object != nil {
		return t.Object.Schema(opts)
	}
	if t.Simple != nil {
		return t.Simple.Schema()
	}
	return nil
}
