package xsd

import (
	"strings"

	"aqwari.net/xml/xmltree"
)

// Modifiable tells when a client may set a field.
type Modifiable string

// Modifiable policies. The zero value means the annotation did not say.
const (
	ModifiableUnknown Modifiable = ""
	ModifiableCreate  Modifiable = "create"
	ModifiableUpdate  Modifiable = "update"
	ModifiableAlways  Modifiable = "always"
	ModifiableNone    Modifiable = "none"
)

func parseModifiable(s string) Modifiable {
	switch m := Modifiable(strings.TrimSpace(s)); m {
	case ModifiableCreate, ModifiableUpdate, ModifiableAlways, ModifiableNone:
		return m
	default:
		return ModifiableUnknown
	}
}

// Annotation is the metadata the vendor attaches to a declaration through
// xs:annotation.
type Annotation struct {
	// Description is the English documentation rendered as markdown.
	Description string
	// Required is nil when no "required" entry holds a literal true or false.
	Required   *bool
	Deprecated bool
	Modifiable Modifiable
	// ContentType is the vendor media type bound to the declaration.
	ContentType string
	// Removed marks a declaration dropped from the current API version.
	Removed bool
}

// Documentation source attribute values.
const (
	sourceRequired   = "required"
	sourceDeprecated = "deprecated"
	sourceModifiable = "modifiable"
	sourceRemovedIn  = "removed-in"
)

// ExtractAnnotation reads an xs:annotation node. Only a missing English
// description is an error; every other lookup degrades to its zero value.
func ExtractAnnotation(el *xmltree.Element) (*Annotation, error) {
	if Classify(el) != KindAnnotation {
		return nil, ErrNotAnnotationNode
	}

	var entries, appinfos []*xmltree.Element
	for _, c := range childElements(el) {
		switch Classify(c) {
		case KindDocumentation:
			entries = append(entries, c)
		case KindAppInfo:
			appinfos = append(appinfos, c)
			entries = append(entries, childrenOf(c, KindDocumentation)...)
		}
	}

	a := &Annotation{}
	described := false
	for _, doc := range entries {
		source, _ := lookupAttr(doc, "source")
		switch source {
		case "":
			if !described && isEnglish(doc) {
				a.Description = Markdown(innerText(doc))
				described = true
			}
		case sourceRequired:
			if a.Required == nil {
				a.Required = parseBool(innerText(doc))
			}
		case sourceDeprecated:
			a.Deprecated = true
		case sourceModifiable:
			if a.Modifiable == ModifiableUnknown {
				a.Modifiable = parseModifiable(innerText(doc))
			}
		case sourceRemovedIn:
			a.Removed = true
		}
	}

	for _, info := range appinfos {
		for _, c := range childElements(info) {
			if c.Name.Space != MetaNS {
				continue
			}
			switch c.Name.Local {
			case "content-type":
				if a.ContentType == "" {
					a.ContentType = strings.TrimSpace(innerText(c))
				}
			case "version":
				if _, ok := lookupAttr(c, "removed-in"); ok {
					a.Removed = true
				}
			}
		}
	}

	if !described {
		return nil, ErrNoDescription
	}
	return a, nil
}

// isEnglish accepts xml:lang="en" and documentation without attributes.
func isEnglish(el *xmltree.Element) bool {
	return langAttr(el) == "en" || !hasAttributes(el)
}

func parseBool(s string) *bool {
	var v bool
	switch strings.TrimSpace(s) {
	case "true":
		v = true
	case "false":
		v = false
	default:
		return nil
	}
	return &v
}
