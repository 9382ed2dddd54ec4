package xsd

import (
	"encoding/xml"

	"aqwari.net/xml/xmltree"
	"github.com/erraggy/xsd2oas/internal/naming"
)

// Declaration is a top-level element, group or attributeGroup together with
// the namespace tag of the document that declares it.
type Declaration struct {
	Namespace string
	Element   *xmltree.Element
}

// Index records the top-level declarations of every document in a run so
// references can be followed across files. The first declaration of a name
// wins.
type Index struct {
	namespaces      map[string]string
	elements        declTable
	groups          declTable
	attributeGroups declTable
}

// declTable indexes declarations by qualified XML name and by
// "tag:local", the vendor's spelling of a cross-file reference.
type declTable struct {
	byName map[xml.Name]Declaration
	byTag  map[string]Declaration
}

func newDeclTable() declTable {
	return declTable{
		byName: make(map[xml.Name]Declaration),
		byTag:  make(map[string]Declaration),
	}
}

func (t declTable) add(target, ns, local string, el *xmltree.Element) {
	d := Declaration{Namespace: ns, Element: el}
	key := xml.Name{Space: target, Local: local}
	if _, ok := t.byName[key]; !ok {
		t.byName[key] = d
	}
	tag := ns + ":" + local
	if _, ok := t.byTag[tag]; !ok {
		t.byTag[tag] = d
	}
}

// lookup resolves ref as written on from, a node of a document tagged ns.
// It tries the namespace-qualified name first, then the prefix read as a
// namespace tag, then the local name inside ns.
func (t declTable) lookup(from *xmltree.Element, ns, ref string) (Declaration, bool) {
	if d, ok := t.byName[from.Resolve(ref)]; ok {
		return d, true
	}
	prefix, local := naming.SplitQName(ref)
	if prefix != "" {
		if d, ok := t.byTag[prefix+":"+local]; ok {
			return d, true
		}
	}
	d, ok := t.byTag[ns+":"+local]
	return d, ok
}

// NewIndex builds an index over docs.
func NewIndex(docs ...*Document) *Index {
	idx := &Index{
		namespaces:      make(map[string]string),
		elements:        newDeclTable(),
		groups:          newDeclTable(),
		attributeGroups: newDeclTable(),
	}
	for _, d := range docs {
		idx.Add(d)
	}
	return idx
}

// Add registers the top-level declarations of doc.
func (idx *Index) Add(doc *Document) {
	if doc.TargetNamespace != "" {
		if _, ok := idx.namespaces[doc.TargetNamespace]; !ok {
			idx.namespaces[doc.TargetNamespace] = doc.Namespace
		}
	}
	for _, c := range childElements(doc.root) {
		name, _ := lookupAttr(c, "name")
		if name == "" {
			continue
		}
		switch Classify(c) {
		case KindElement:
			idx.elements.add(doc.TargetNamespace, doc.Namespace, name, c)
		case KindGroup:
			idx.groups.add(doc.TargetNamespace, doc.Namespace, name, c)
		case KindAttributeGroup:
			idx.attributeGroups.add(doc.TargetNamespace, doc.Namespace, name, c)
		}
	}
}

// NamespaceFor returns the namespace tag registered for a target
// namespace URI.
func (idx *Index) NamespaceFor(uri string) (string, bool) {
	if idx == nil || uri == "" {
		return "", false
	}
	ns, ok := idx.namespaces[uri]
	return ns, ok
}

// Element finds the top-level element declaration that ref names.
func (idx *Index) Element(from *xmltree.Element, ns, ref string) (Declaration, bool) {
	if idx == nil {
		return Declaration{}, false
	}
	return idx.elements.lookup(from, ns, ref)
}

// Group finds the top-level group declaration that ref names.
func (idx *Index) Group(from *xmltree.Element, ns, ref string) (Declaration, bool) {
	if idx == nil {
		return Declaration{}, false
	}
	return idx.groups.lookup(from, ns, ref)
}

// AttributeGroup finds the top-level attributeGroup declaration that ref names.
func (idx *Index) AttributeGroup(from *xmltree.Element, ns, ref string) (Declaration, bool) {
	if idx == nil {
		return Declaration{}, false
	}
	return idx.attributeGroups.lookup(from, ns, ref)
}

// typeName maps a type QName written on el to an output schema name.
// Unprefixed names live in ns. A prefix bound to an indexed target
// namespace takes that document's tag; any other prefix is used as the
// tag itself.
func (idx *Index) typeName(el *xmltree.Element, ns, qname string) string {
	prefix, local := naming.SplitQName(qname)
	if prefix == "" {
		return naming.Qualify(ns, local)
	}
	if tag, ok := idx.NamespaceFor(el.Resolve(qname).Space); ok {
		return naming.Qualify(tag, local)
	}
	return naming.Qualify(prefix, local)
}
