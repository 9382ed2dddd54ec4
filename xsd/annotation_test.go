package xsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annotationNS = `xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:meta="http://www.vmware.com/vcloud/meta"`

func TestExtractAnnotation(t *testing.T) {
	el := parseElement(t, `<xs:annotation `+annotationNS+`>
    <xs:appinfo><meta:content-type> application/vnd.test+xml </meta:content-type></xs:appinfo>
    <xs:documentation source="modifiable">always</xs:documentation>
    <xs:documentation xml:lang="en">
        A base abstract &lt;b&gt;type&lt;/b&gt; for
        all the&lt;br/&gt;types.
    </xs:documentation>
    <xs:documentation source="required">false</xs:documentation>
    <xs:documentation source="deprecated">5.1</xs:documentation>
</xs:annotation>`)

	a, err := ExtractAnnotation(el)
	require.NoError(t, err)

	assert.Equal(t, "A base abstract **type** for all the  \ntypes.", a.Description)
	require.NotNil(t, a.Required)
	assert.False(t, *a.Required)
	assert.True(t, a.Deprecated)
	assert.Equal(t, ModifiableAlways, a.Modifiable)
	assert.Equal(t, "application/vnd.test+xml", a.ContentType)
	assert.False(t, a.Removed)
}

func TestExtractAnnotationLookups(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, a *Annotation)
	}{
		{
			name: "documentation without attributes is English",
			body: `<xs:documentation>Plain.</xs:documentation>`,
			check: func(t *testing.T, a *Annotation) {
				assert.Equal(t, "Plain.", a.Description)
				assert.Nil(t, a.Required)
				assert.False(t, a.Deprecated)
				assert.Equal(t, ModifiableUnknown, a.Modifiable)
				assert.Empty(t, a.ContentType)
			},
		},
		{
			name: "first English entry wins",
			body: `<xs:documentation xml:lang="fr">Bonjour.</xs:documentation>
                   <xs:documentation xml:lang="en">First.</xs:documentation>
                   <xs:documentation xml:lang="en">Second.</xs:documentation>`,
			check: func(t *testing.T, a *Annotation) {
				assert.Equal(t, "First.", a.Description)
			},
		},
		{
			name: "required must be a literal boolean",
			body: `<xs:documentation xml:lang="en">D.</xs:documentation>
                   <xs:documentation source="required">yes</xs:documentation>`,
			check: func(t *testing.T, a *Annotation) {
				assert.Nil(t, a.Required)
			},
		},
		{
			name: "required true is trimmed",
			body: `<xs:documentation xml:lang="en">D.</xs:documentation>
                   <xs:documentation source="required"> true </xs:documentation>`,
			check: func(t *testing.T, a *Annotation) {
				require.NotNil(t, a.Required)
				assert.True(t, *a.Required)
			},
		},
		{
			name: "unknown modifiable degrades",
			body: `<xs:documentation xml:lang="en">D.</xs:documentation>
                   <xs:documentation source="modifiable">Always</xs:documentation>`,
			check: func(t *testing.T, a *Annotation) {
				assert.Equal(t, ModifiableUnknown, a.Modifiable)
			},
		},
		{
			name: "modifiable none",
			body: `<xs:documentation xml:lang="en">D.</xs:documentation>
                   <xs:documentation source="modifiable">none</xs:documentation>`,
			check: func(t *testing.T, a *Annotation) {
				assert.Equal(t, ModifiableNone, a.Modifiable)
			},
		},
		{
			name: "removed-in documentation",
			body: `<xs:documentation xml:lang="en">D.</xs:documentation>
                   <xs:documentation source="removed-in">5.1</xs:documentation>`,
			check: func(t *testing.T, a *Annotation) {
				assert.True(t, a.Removed)
			},
		},
		{
			name: "removed-in version metadata",
			body: `<xs:appinfo><meta:version added-in="1.5" removed-in="5.1"/></xs:appinfo>
                   <xs:documentation xml:lang="en">D.</xs:documentation>`,
			check: func(t *testing.T, a *Annotation) {
				assert.True(t, a.Removed)
			},
		},
		{
			name: "version metadata without removal",
			body: `<xs:appinfo><meta:version added-in="1.5"/></xs:appinfo>
                   <xs:documentation xml:lang="en">D.</xs:documentation>`,
			check: func(t *testing.T, a *Annotation) {
				assert.False(t, a.Removed)
			},
		},
		{
			name: "documentation nested in appinfo",
			body: `<xs:appinfo><xs:documentation xml:lang="en">Nested.</xs:documentation></xs:appinfo>`,
			check: func(t *testing.T, a *Annotation) {
				assert.Equal(t, "Nested.", a.Description)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := parseElement(t, `<xs:annotation `+annotationNS+`>`+tt.body+`</xs:annotation>`)
			a, err := ExtractAnnotation(el)
			require.NoError(t, err)
			tt.check(t, a)
		})
	}
}

func TestExtractAnnotationErrors(t *testing.T) {
	t.Run("not an annotation", func(t *testing.T) {
		el := parseElement(t, `<xs:documentation `+annotationNS+`>D.</xs:documentation>`)
		_, err := ExtractAnnotation(el)
		assert.ErrorIs(t, err, ErrNotAnnotationNode)
	})

	t.Run("no English description", func(t *testing.T) {
		el := parseElement(t, `<xs:annotation `+annotationNS+`>
            <xs:documentation xml:lang="fr">Bonjour.</xs:documentation>
            <xs:documentation source="modifiable">none</xs:documentation>
        </xs:annotation>`)
		_, err := ExtractAnnotation(el)
		assert.ErrorIs(t, err, ErrNoDescription)
	})
}
