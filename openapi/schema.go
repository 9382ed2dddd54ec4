package openapi

// ComponentsPrefix is the JSON pointer prefix of every emitted schema reference.
const ComponentsPrefix = "#/components/schemas/"

// Schema is an OpenAPI 3.0 schema object restricted to the keywords the
// XSD mapping produces. Field order matches output key order.
type Schema struct {
	Ref         string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Type   string `yaml:"type,omitempty" json:"type,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	Pattern string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Minimum *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Enum    []any    `yaml:"enum,omitempty" json:"enum,omitempty"`

	Items *Schema `yaml:"items,omitempty" json:"items,omitempty"`

	Properties           *OrderedMap[*Schema] `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required             []string             `yaml:"required,omitempty" json:"required,omitempty"`
	AdditionalProperties *bool                `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`

	AllOf         []*Schema      `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	OneOf         []*Schema      `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
	Discriminator *Discriminator `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`

	Nullable   bool `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	ReadOnly   bool `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	Deprecated bool `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
}

// Discriminator selects a oneOf member by the value of PropertyName.
type Discriminator struct {
	PropertyName string              `yaml:"propertyName" json:"propertyName"`
	Mapping      *OrderedMap[string] `yaml:"mapping,omitempty" json:"mapping,omitempty"`
}

// RefTo returns the components reference string for a schema name.
func RefTo(name string) string {
	return ComponentsPrefix + name
}

// NewRef returns a schema consisting of a single $ref to name.
func NewRef(name string) *Schema {
	return &Schema{Ref: RefTo(name)}
}

// NewObject returns an empty closed object schema.
func NewObject() *Schema {
	closed := false
	return &Schema{
		Type:                 "object",
		Properties:           NewOrderedMap[*Schema](),
		Required:             []string{},
		AdditionalProperties: &closed,
	}
}

// ArrayOf wraps items in an array schema.
func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

// IsRef reports whether s is a bare reference.
func (s *Schema) IsRef() bool {
	return s != nil && s.Ref != ""
}

// IsObject reports whether s declares type object.
func (s *Schema) IsObject() bool {
	return s != nil && s.Type == "object"
}

// HasRequired reports whether name is listed in Required.
func (s *Schema) HasRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// ObjectParts returns s itself when it is an object, plus every object
// member of its allOf composition, in order.
func (s *Schema) ObjectParts() []*Schema {
	if s == nil {
		return nil
	}
	var parts []*Schema
	if s.IsObject() {
		parts = append(parts, s)
	}
	for _, sub := range s.AllOf {
		if sub.IsObject() {
			parts = append(parts, sub)
		}
	}
	return parts
}
