package xsd

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"aqwari.net/xml/xmltree"
)

const (
	// SchemaNS is the XML Schema namespace URI.
	SchemaNS = "http://www.w3.org/2001/XMLSchema"
	// MetaNS is the vendor namespace of appinfo metadata elements.
	MetaNS = "http://www.vmware.com/vcloud/meta"
)

// Kind classifies an XML Schema node.
type Kind int

// Recognized node kinds. Anything outside the schema namespace, or a schema
// element this package does not interpret, is KindOther.
const (
	KindOther Kind = iota
	KindSchema
	KindAnnotation
	KindDocumentation
	KindAppInfo
	KindSequence
	KindComplexContent
	KindSimpleContent
	KindExtension
	KindRestriction
	KindList
	KindElement
	KindAttribute
	KindGroup
	KindAttributeGroup
	KindComplexType
	KindSimpleType
	KindPattern
	KindEnumeration
	KindMinInclusive
)

var kindByLocal = map[string]Kind{
	"schema":         KindSchema,
	"annotation":     KindAnnotation,
	"documentation":  KindDocumentation,
	"appinfo":        KindAppInfo,
	"sequence":       KindSequence,
	"complexContent": KindComplexContent,
	"simpleContent":  KindSimpleContent,
	"extension":      KindExtension,
	"restriction":    KindRestriction,
	"list":           KindList,
	"element":        KindElement,
	"attribute":      KindAttribute,
	"group":          KindGroup,
	"attributeGroup": KindAttributeGroup,
	"complexType":    KindComplexType,
	"simpleType":     KindSimpleType,
	"pattern":        KindPattern,
	"enumeration":    KindEnumeration,
	"minInclusive":   KindMinInclusive,
}

// String returns the XML Schema local name of the kind.
func (k Kind) String() string {
	for local, kind := range kindByLocal {
		if kind == k {
			return local
		}
	}
	return "other"
}

// Classify returns the kind of el. Every "is this an xs:foo" decision in
// the package goes through here.
func Classify(el *xmltree.Element) Kind {
	if el == nil || el.Name.Space != SchemaNS {
		return KindOther
	}
	return kindByLocal[el.Name.Local]
}

// childElements returns pointers to the direct children of el.
func childElements(el *xmltree.Element) []*xmltree.Element {
	out := make([]*xmltree.Element, 0, len(el.Children))
	for i := range el.Children {
		out = append(out, &el.Children[i])
	}
	return out
}

// childrenOf returns the direct children of el with the given kind.
func childrenOf(el *xmltree.Element, kind Kind) []*xmltree.Element {
	var out []*xmltree.Element
	for _, c := range childElements(el) {
		if Classify(c) == kind {
			out = append(out, c)
		}
	}
	return out
}

// firstChild returns the first direct child of el with the given kind.
func firstChild(el *xmltree.Element, kind Kind) *xmltree.Element {
	for _, c := range childElements(el) {
		if Classify(c) == kind {
			return c
		}
	}
	return nil
}

// lookupAttr returns the value of the unqualified attribute local and
// whether it is present at all.
func lookupAttr(el *xmltree.Element, local string) (string, bool) {
	for _, a := range el.StartElement.Attr {
		if a.Name.Local == local && (a.Name.Space == "" || a.Name.Space == el.Name.Space) {
			return a.Value, true
		}
	}
	return "", false
}

// langAttr returns the xml:lang value of el.
func langAttr(el *xmltree.Element) string {
	for _, a := range el.StartElement.Attr {
		if a.Name.Local == "lang" {
			return a.Value
		}
	}
	return ""
}

// hasAttributes reports whether el carries any attribute other than
// namespace declarations.
func hasAttributes(el *xmltree.Element) bool {
	for _, a := range el.StartElement.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		return true
	}
	return false
}

// innerText returns the character data inside el with entities and CDATA
// sections decoded. Nested markup is kept as bare tags so HTML embedded as
// real elements survives next to HTML embedded as escaped text. Content the
// decoder cannot read to the end is returned raw.
func innerText(el *xmltree.Element) string {
	d := xml.NewDecoder(bytes.NewReader(el.Content))
	d.Strict = false
	d.Entity = xml.HTMLEntity
	d.AutoClose = xml.HTMLAutoClose

	var b strings.Builder
	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return string(el.Content)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			b.WriteString("<" + t.Name.Local)
			for _, a := range t.Attr {
				b.WriteString(" " + a.Name.Local + `="`)
				_ = xml.EscapeText(&b, []byte(a.Value))
				b.WriteString(`"`)
			}
			b.WriteString(">")
		case xml.EndElement:
			b.WriteString("</" + t.Name.Local + ">")
		}
	}
	return b.String()
}
