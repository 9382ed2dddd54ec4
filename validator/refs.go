package validator

import (
	"fmt"
	"strings"

	"github.com/erraggy/xsd2oas/openapi"
)

// walkRefs calls visit for every $ref and discriminator mapping target
// reachable from s without following references.
func walkRefs(s *openapi.Schema, path string, visit func(path, ref string)) {
	if s == nil {
		return
	}
	if s.Ref != "" {
		visit(path, s.Ref)
	}
	walkRefs(s.Items, path+".items", visit)
	for name, p := range s.Properties.All() {
		walkRefs(p, path+".properties."+name, visit)
	}
	for i, sub := range s.AllOf {
		walkRefs(sub, fmt.Sprintf("%s.allOf[%d]", path, i), visit)
	}
	for i, sub := range s.OneOf {
		walkRefs(sub, fmt.Sprintf("%s.oneOf[%d]", path, i), visit)
	}
	if s.Discriminator != nil {
		for key, ref := range s.Discriminator.Mapping.All() {
			visit(path+".discriminator.mapping."+key, ref)
		}
	}
}

// localTarget returns the schema name a component reference points to.
func localTarget(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, openapi.ComponentsPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(token string) string {
	return pointerEscaper.Replace(token)
}
