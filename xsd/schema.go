package xsd

import (
	"encoding/xml"
	"errors"

	"aqwari.net/xml/xmltree"
	"github.com/erraggy/xsd2oas/oaserrors"
)

// Document is one parsed schema file.
type Document struct {
	// Path identifies the file in error messages.
	Path string
	// Namespace is the tag prefixed to every name the document declares.
	Namespace string
	// TargetNamespace is the targetNamespace attribute of xs:schema.
	TargetNamespace string

	root *xmltree.Element
}

// ParseDocument parses data and checks that its root is xs:schema.
func ParseDocument(data []byte, namespace string) (*Document, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		perr := &oaserrors.ParseError{Message: "malformed XML", Cause: err}
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			perr.Line = syntaxErr.Line
		}
		return nil, perr
	}
	if Classify(root) != KindSchema {
		return nil, ErrNotSchemaNode
	}
	target, _ := lookupAttr(root, "targetNamespace")
	return &Document{Namespace: namespace, TargetNamespace: target, root: root}, nil
}

// Includes returns the schemaLocation of every xs:include and xs:import.
func (d *Document) Includes() []string {
	var out []string
	for _, c := range childElements(d.root) {
		if c.Name.Space != SchemaNS || (c.Name.Local != "include" && c.Name.Local != "import") {
			continue
		}
		if loc, ok := lookupAttr(c, "schemaLocation"); ok {
			out = append(out, loc)
		}
	}
	return out
}

// Schema is the resolved content of one document.
type Schema struct {
	Namespace string
	// Types are the resolved declarations in document order.
	Types []Type
	// Skipped names the top-level declarations that are not types, such
	// as global elements and groups.
	Skipped []string
}

// Resolve turns every top-level child into a Type. Children that are not
// type declarations are skipped; any other failure aborts with a
// DeclarationError naming the file and declaration.
func (d *Document) Resolve(idx *Index) (*Schema, error) {
	s := &Schema{Namespace: d.Namespace}
	for _, c := range childElements(d.root) {
		kind := Classify(c)
		if kind == KindAnnotation || c.Name.Space != SchemaNS {
			continue
		}
		name, _ := lookupAttr(c, "name")

		t, err := ResolveType(d.Namespace, c, idx)
		if errors.Is(err, ErrNotTypeNode) {
			if name != "" {
				s.Skipped = append(s.Skipped, kind.String()+" "+name)
			}
			continue
		}
		if err != nil {
			return nil, &oaserrors.DeclarationError{
				Path:        d.Path,
				Declaration: name,
				Message:     "cannot resolve " + c.Name.Local,
				Cause:       err,
			}
		}
		s.Types = append(s.Types, t)
	}
	return s, nil
}

// Parse is the single-document path: parse, index and resolve data.
func Parse(data []byte, namespace string) (*Schema, error) {
	doc, err := ParseDocument(data, namespace)
	if err != nil {
		return nil, err
	}
	return doc.Resolve(NewIndex(doc))
}

// ContentTypesNames maps every content type declared on a resolved type to
// that type's output name.
func (s *Schema) ContentTypesNames() map[string]string {
	out := make(map[string]string)
	for _, t := range s.Types {
		if a := t.Annotation(); a != nil && a.ContentType != "" {
			out[a.ContentType] = t.Name()
		}
	}
	return out
}
