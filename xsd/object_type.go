package xsd

import (
	"errors"
	"fmt"

	"aqwari.net/xml/xmltree"
	"github.com/erraggy/xsd2oas/internal/naming"
	"github.com/erraggy/xsd2oas/openapi"
)

// ObjectType is a complexType flattened into an ordered field list with at
// most one parent.
type ObjectType struct {
	Name       string
	Annotation *Annotation
	Fields     []*Field
	// Parent is the output name of the extension base, empty when the type
	// stands alone.
	Parent string
	// Removed lists the declared names of fields dropped because their
	// annotation marks them removed.
	Removed []string
}

// ResolveObjectType reads a named, annotated xs:complexType. Fields come
// from the direct sequence and attributes, from a complexContent extension
// (which also names the parent) and from a simpleContent extension (which
// adds a required "value" field typed by its base). Group and
// attributeGroup references are inlined through idx.
func ResolveObjectType(ns string, el *xmltree.Element, idx *Index) (*ObjectType, error) {
	if Classify(el) != KindComplexType {
		return nil, ErrNotTypeNode
	}
	name, _ := lookupAttr(el, "name")
	if name == "" {
		return nil, ErrMissingName
	}
	ot := &ObjectType{Name: naming.Qualify(ns, name)}

	ann := firstChild(el, KindAnnotation)
	if ann == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingAnnotation, ot.Name)
	}
	a, err := ExtractAnnotation(ann)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingAnnotation, ot.Name, err)
	}
	ot.Annotation = a

	c := &collector{idx: idx, ot: ot, active: make(map[*xmltree.Element]bool)}
	for _, child := range childElements(el) {
		switch Classify(child) {
		case KindComplexContent:
			ext := firstChild(child, KindExtension)
			if ext == nil {
				continue
			}
			if base, _ := lookupAttr(ext, "base"); base != "" {
				ot.Parent = idx.typeName(ext, ns, base)
			}
			if err := c.container(ns, ext); err != nil {
				return nil, err
			}
		case KindSimpleContent:
			ext := firstChild(child, KindExtension)
			if ext == nil {
				continue
			}
			if err := c.container(ns, ext); err != nil {
				return nil, err
			}
			if base, _ := lookupAttr(ext, "base"); base != "" {
				ot.Fields = append(ot.Fields, &Field{
					Name:        "value",
					Type:        namedType(ns, ext, base, idx),
					Cardinality: ExactlyOne,
				})
			}
		default:
			if err := c.member(ns, child); err != nil {
				return nil, err
			}
		}
	}
	return ot, nil
}

// collector accumulates fields while walking one complexType.
type collector struct {
	idx *Index
	ot  *ObjectType
	// active holds the group declarations currently being expanded.
	active map[*xmltree.Element]bool
}

// container walks the children of a complexType-like node.
func (c *collector) container(ns string, el *xmltree.Element) error {
	for _, child := range childElements(el) {
		if err := c.member(ns, child); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) member(ns string, el *xmltree.Element) error {
	switch Classify(el) {
	case KindSequence:
		for _, child := range childElements(el) {
			switch Classify(child) {
			case KindElement:
				if err := c.field(ns, child); err != nil {
					return err
				}
			case KindGroup:
				if err := c.group(ns, child); err != nil {
					return err
				}
			}
		}
	case KindAttribute:
		return c.field(ns, el)
	case KindGroup:
		return c.group(ns, el)
	case KindAttributeGroup:
		return c.attributeGroup(ns, el)
	}
	return nil
}

func (c *collector) field(ns string, el *xmltree.Element) error {
	f, err := ResolveField(ns, el, c.idx)
	if errors.Is(err, ErrRemoved) {
		name, _ := lookupAttr(el, "name")
		if name == "" {
			name, _ = lookupAttr(el, "ref")
		}
		c.ot.Removed = append(c.ot.Removed, name)
		return nil
	}
	if err != nil {
		return err
	}
	c.ot.Fields = append(c.ot.Fields, f)
	return nil
}

func (c *collector) group(ns string, el *xmltree.Element) error {
	ref, _ := lookupAttr(el, "ref")
	if ref == "" {
		return nil
	}
	d, ok := c.idx.Group(el, ns, ref)
	if !ok {
		return fmt.Errorf("%w: group %q", ErrUnresolved, ref)
	}
	if c.active[d.Element] {
		return nil
	}
	c.active[d.Element] = true
	defer delete(c.active, d.Element)

	for _, seq := range childrenOf(d.Element, KindSequence) {
		if err := c.member(d.Namespace, seq); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) attributeGroup(ns string, el *xmltree.Element) error {
	ref, _ := lookupAttr(el, "ref")
	if ref == "" {
		return nil
	}
	d, ok := c.idx.AttributeGroup(el, ns, ref)
	if !ok {
		return fmt.Errorf("%w: attributeGroup %q", ErrUnresolved, ref)
	}
	if c.active[d.Element] {
		return nil
	}
	c.active[d.Element] = true
	defer delete(c.active, d.Element)

	return c.container(d.Namespace, d.Element)
}

// Schema renders the type. A standalone type is a closed object; a derived
// type is an allOf of its parent reference and its own closed object, with
// the naming metadata on the wrapper.
func (ot *ObjectType) Schema(opts Options) *openapi.Schema {
	own := openapi.NewObject()
	for _, f := range ot.Fields {
		own.Properties.Set(f.Name, f.Schema(opts))
		if f.Cardinality != Optional && !own.HasRequired(f.Name) {
			own.Required = append(own.Required, f.Name)
		}
	}

	out := own
	if ot.Parent != "" {
		out = &openapi.Schema{AllOf: []*openapi.Schema{openapi.NewRef(ot.Parent), own}}
	}
	out.Title = ot.Name
	if ot.Annotation != nil {
		out.Description = ot.Annotation.Description
		out.Deprecated = ot.Annotation.Deprecated
	}
	return out
}
