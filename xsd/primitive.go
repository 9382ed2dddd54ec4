package xsd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"aqwari.net/xml/xmltree"
	"github.com/erraggy/xsd2oas/internal/naming"
	"github.com/erraggy/xsd2oas/openapi"
)

// PrimitiveType is one of the built-in XML Schema types the vendor
// schemas use.
type PrimitiveType int

// The primitive vocabulary.
const (
	AnyType PrimitiveType = iota
	AnyURI
	Base64Binary
	Boolean
	Byte
	UnsignedByte
	DateTime
	Decimal
	Double
	Float
	HexBinary
	Int
	Integer
	Long
	UnsignedLong
	NormalizedString
	Short
	UnsignedShort
	String
	UnsignedInt
)

var primitiveTokens = []string{
	AnyType:          "xs:anyType",
	AnyURI:           "xs:anyURI",
	Base64Binary:     "xs:base64Binary",
	Boolean:          "xs:boolean",
	Byte:             "xs:byte",
	UnsignedByte:     "xs:unsignedByte",
	DateTime:         "xs:dateTime",
	Decimal:          "xs:decimal",
	Double:           "xs:double",
	Float:            "xs:float",
	HexBinary:        "xs:hexBinary",
	Int:              "xs:int",
	Integer:          "xs:integer",
	Long:             "xs:long",
	UnsignedLong:     "xs:unsignedLong",
	NormalizedString: "xs:normalizedString",
	Short:            "xs:short",
	UnsignedShort:    "xs:unsignedShort",
	String:           "xs:string",
	UnsignedInt:      "xs:unsignedInt",
}

var primitiveByToken = func() map[string]PrimitiveType {
	m := make(map[string]PrimitiveType, len(primitiveTokens))
	for p, tok := range primitiveTokens {
		m[tok] = PrimitiveType(p)
	}
	return m
}()

// ParsePrimitive maps a prefixed token such as "xs:int" to its
// PrimitiveType. Matching is exact and case-sensitive.
func ParsePrimitive(token string) (PrimitiveType, error) {
	p, ok := primitiveByToken[token]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoMatch, token)
	}
	return p, nil
}

// Primitives returns the whole vocabulary in declaration order.
func Primitives() []PrimitiveType {
	out := make([]PrimitiveType, len(primitiveTokens))
	for i := range primitiveTokens {
		out[i] = PrimitiveType(i)
	}
	return out
}

// String returns the token the type was parsed from.
func (p PrimitiveType) String() string {
	if p < 0 || int(p) >= len(primitiveTokens) {
		return fmt.Sprintf("PrimitiveType(%d)", int(p))
	}
	return primitiveTokens[p]
}

// Restriction carries the facets a simple type may put on its primitive.
// Values stay strings until Schema converts them.
type Restriction struct {
	Pattern string
	// Enumeration holds one entry per xs:enumeration; nil marks an entry
	// without a value attribute.
	Enumeration  []*string
	MinInclusive string
}

type scalarKind int

const (
	kindString scalarKind = iota
	kindBoolean
	kindInteger
	kindNumber
)

type scalarShape struct {
	kind   scalarKind
	format string
}

var scalarShapes = map[PrimitiveType]scalarShape{
	AnyType:          {kindString, ""},
	Decimal:          {kindString, ""},
	HexBinary:        {kindString, ""},
	NormalizedString: {kindString, ""},
	String:           {kindString, ""},
	AnyURI:           {kindString, "uri"},
	Base64Binary:     {kindString, "byte"},
	Byte:             {kindString, "byte"},
	UnsignedByte:     {kindString, "byte"},
	Boolean:          {kindBoolean, ""},
	DateTime:         {kindString, "date-time"},
	Double:           {kindNumber, "double"},
	Float:            {kindNumber, "float"},
	Int:              {kindInteger, "int32"},
	Integer:          {kindInteger, ""},
	UnsignedInt:      {kindInteger, ""},
	Short:            {kindInteger, ""},
	UnsignedShort:    {kindInteger, ""},
	Long:             {kindInteger, "int64"},
	UnsignedLong:     {kindInteger, "int64"},
}

// Schema renders the primitive with its facets as an output scalar.
// Numeric enumeration entries and minimums that do not parse are dropped.
func (p PrimitiveType) Schema(r Restriction) *openapi.Schema {
	shape := scalarShapes[p]
	s := &openapi.Schema{Format: shape.format}

	switch shape.kind {
	case kindString:
		s.Type = "string"
		s.Pattern = r.Pattern
		for _, v := range r.Enumeration {
			if v != nil {
				s.Enum = append(s.Enum, *v)
			}
		}
	case kindBoolean:
		s.Type = "boolean"
	case kindInteger:
		s.Type = "integer"
		for _, v := range r.Enumeration {
			if v == nil {
				continue
			}
			if n, err := strconv.ParseInt(strings.TrimSpace(*v), 10, 64); err == nil {
				s.Enum = append(s.Enum, n)
			}
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(r.MinInclusive), 10, 64); err == nil {
			m := float64(n)
			s.Minimum = &m
		}
	case kindNumber:
		s.Type = "number"
		for _, v := range r.Enumeration {
			if v == nil {
				continue
			}
			if f, ok := parseFinite(*v); ok {
				s.Enum = append(s.Enum, f)
			}
		}
		if f, ok := parseFinite(r.MinInclusive); ok {
			s.Minimum = &f
		}
	}
	return s
}

// parseFinite parses a float and rejects NaN and infinities, which JSON
// cannot represent.
func parseFinite(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// primitiveToken normalizes qname to the "xs:" spelling when its prefix is
// bound to the XML Schema namespace in el's scope.
func primitiveToken(el *xmltree.Element, qname string) string {
	prefix, local := naming.SplitQName(qname)
	if prefix != "" && prefix != "xs" && el.Resolve(qname).Space == SchemaNS {
		return "xs:" + local
	}
	return qname
}
