package xsd

import (
	"fmt"

	"aqwari.net/xml/xmltree"
	"github.com/erraggy/xsd2oas/internal/naming"
	"github.com/erraggy/xsd2oas/openapi"
)

// SimpleType is a restriction of, or a list over, a primitive type.
type SimpleType struct {
	// Name is the namespace-prefixed name; empty for inline declarations.
	Name       string
	Annotation *Annotation
	IsList     bool
	Base       PrimitiveType
	Restriction
}

// ResolveSimpleType reads an xs:simpleType declaration. Both the list and
// the restriction shape require a primitive item or base type.
func ResolveSimpleType(ns string, el *xmltree.Element) (*SimpleType, error) {
	if Classify(el) != KindSimpleType {
		return nil, ErrNotTypeNode
	}

	st := &SimpleType{}
	if name, ok := lookupAttr(el, "name"); ok && name != "" {
		st.Name = naming.Qualify(ns, name)
	}
	if ann := firstChild(el, KindAnnotation); ann != nil {
		// An undocumented simple type is still usable.
		st.Annotation, _ = ExtractAnnotation(ann)
	}

	if list := firstChild(el, KindList); list != nil {
		itemType, ok := lookupAttr(list, "itemType")
		if !ok {
			return nil, fmt.Errorf("%w: list in %q", ErrMissingItemType, st.Name)
		}
		base, err := ParsePrimitive(primitiveToken(list, itemType))
		if err != nil {
			return nil, err
		}
		st.IsList = true
		st.Base = base
		return st, nil
	}

	restriction := firstChild(el, KindRestriction)
	if restriction == nil {
		return nil, ErrNotTypeNode
	}
	baseName, ok := lookupAttr(restriction, "base")
	if !ok {
		return nil, fmt.Errorf("%w: restriction in %q", ErrMissingBase, st.Name)
	}
	base, err := ParsePrimitive(primitiveToken(restriction, baseName))
	if err != nil {
		return nil, err
	}
	st.Base = base

	if p := firstChild(restriction, KindPattern); p != nil {
		st.Pattern, _ = lookupAttr(p, "value")
	}
	if m := firstChild(restriction, KindMinInclusive); m != nil {
		st.MinInclusive, _ = lookupAttr(m, "value")
	}
	for _, e := range childrenOf(restriction, KindEnumeration) {
		if v, ok := lookupAttr(e, "value"); ok {
			st.Enumeration = append(st.Enumeration, &v)
		} else {
			st.Enumeration = append(st.Enumeration, nil)
		}
	}
	return st, nil
}

// scalar renders the type without naming metadata. A list renders as an
// array of its item primitive.
func (st *SimpleType) scalar() *openapi.Schema {
	if st.IsList {
		return openapi.ArrayOf(st.Base.Schema(Restriction{}))
	}
	return st.Base.Schema(st.Restriction)
}

// Schema renders the declaration as a top-level component. Lists carry no
// inline metadata.
func (st *SimpleType) Schema() *openapi.Schema {
	s := st.scalar()
	if st.IsList {
		return s
	}
	s.Title = st.Name
	if st.Annotation != nil {
		s.Description = st.Annotation.Description
		s.Deprecated = st.Annotation.Deprecated
	}
	return s
}
