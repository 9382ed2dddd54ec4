// Package testutil provides test utilities and schema fixtures for unit tests.
package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// InheritanceXSD declares BaseType and TestType, which extends it, in a
// schema without a target namespace.
const InheritanceXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
    <xs:complexType name="BaseType" abstract="true">
        <xs:annotation>
            <xs:documentation xml:lang="en">
                A base abstract type for all the types.
            </xs:documentation>
        </xs:annotation>
        <xs:sequence>
            <xs:element name="BaseField" type="xs:string" minOccurs="0">
                <xs:annotation>
                    <xs:documentation source="modifiable">always</xs:documentation>
                    <xs:documentation xml:lang="en">A base field for the base type</xs:documentation>
                    <xs:documentation source="required">false</xs:documentation>
                </xs:annotation>
            </xs:element>
        </xs:sequence>
    </xs:complexType>
    <xs:complexType name="TestType">
        <xs:annotation>
            <xs:documentation xml:lang="en">A test type.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="BaseType">
                <xs:sequence>
                    <xs:element name="OptionalString" type="xs:string" minOccurs="0">
                        <xs:annotation>
                            <xs:documentation xml:lang="en">An optional string</xs:documentation>
                        </xs:annotation>
                    </xs:element>
                    <xs:element name="RequiredString" type="xs:string" minOccurs="1">
                        <xs:annotation>
                            <xs:documentation xml:lang="en">A required string</xs:documentation>
                        </xs:annotation>
                    </xs:element>
                </xs:sequence>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>
</xs:schema>
`

// CommonXSD is a vcloud master schema exercising every supported shape.
const CommonXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns="http://www.vmware.com/vcloud/v1.5"
    xmlns:xs="http://www.w3.org/2001/XMLSchema"
    xmlns:meta="http://www.vmware.com/vcloud/meta"
    targetNamespace="http://www.vmware.com/vcloud/v1.5"
    elementFormDefault="qualified">

    <xs:element name="Link" type="LinkType"/>

    <xs:attributeGroup name="CommonAttributes">
        <xs:attribute name="href" type="xs:anyURI">
            <xs:annotation>
                <xs:documentation source="modifiable">none</xs:documentation>
                <xs:documentation xml:lang="en">The URI of the entity.</xs:documentation>
            </xs:annotation>
        </xs:attribute>
        <xs:attribute name="type" type="xs:string">
            <xs:annotation>
                <xs:documentation xml:lang="en">The MIME type of the entity.</xs:documentation>
            </xs:annotation>
        </xs:attribute>
    </xs:attributeGroup>

    <xs:group name="TenantFields">
        <xs:sequence>
            <xs:element name="TenantId" type="xs:string" minOccurs="0">
                <xs:annotation>
                    <xs:documentation xml:lang="en">Tenant identifier.</xs:documentation>
                </xs:annotation>
            </xs:element>
        </xs:sequence>
    </xs:group>

    <xs:complexType name="LinkType">
        <xs:annotation>
            <xs:documentation xml:lang="en">Extends &lt;b&gt;ReferenceType&lt;/b&gt; with a rel attribute.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="ReferenceType">
                <xs:attribute name="rel" type="xs:string" use="required">
                    <xs:annotation>
                        <xs:documentation xml:lang="en">Relationship of the link.</xs:documentation>
                    </xs:annotation>
                </xs:attribute>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>

    <xs:complexType name="ResourceType" abstract="true">
        <xs:annotation>
            <xs:appinfo><meta:content-type>application/vnd.vmware.vcloud.resource+xml</meta:content-type></xs:appinfo>
            <xs:documentation xml:lang="en">The base type for all objects.</xs:documentation>
        </xs:annotation>
        <xs:sequence>
            <xs:element ref="Link" minOccurs="0" maxOccurs="unbounded">
                <xs:annotation>
                    <xs:documentation source="modifiable">none</xs:documentation>
                    <xs:documentation xml:lang="en">A reference to an entity or operation.</xs:documentation>
                </xs:annotation>
            </xs:element>
        </xs:sequence>
        <xs:attributeGroup ref="CommonAttributes"/>
    </xs:complexType>

    <xs:complexType name="ReferenceType">
        <xs:annotation>
            <xs:documentation xml:lang="en">A reference to a resource.</xs:documentation>
        </xs:annotation>
        <xs:attribute name="href" type="xs:anyURI" use="required">
            <xs:annotation>
                <xs:documentation xml:lang="en">Contains the URI to the entity.</xs:documentation>
            </xs:annotation>
        </xs:attribute>
        <xs:attribute name="name" type="xs:string"/>
    </xs:complexType>

    <xs:complexType name="ContainerType">
        <xs:annotation>
            <xs:documentation xml:lang="en">Container for query results.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="ResourceType">
                <xs:attribute name="total" type="xs:long"/>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>

    <xs:complexType name="QueryResultRecordType">
        <xs:annotation>
            <xs:documentation xml:lang="en">Base type for query records.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="ResourceType">
                <xs:attribute name="id" type="xs:string"/>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>

    <xs:complexType name="QueryResultVAppRecordType">
        <xs:annotation>
            <xs:documentation xml:lang="en">A vApp record.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="QueryResultRecordType">
                <xs:attribute name="name" type="xs:string"/>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>

    <xs:complexType name="QueryResultAdminVmRecordType">
        <xs:annotation>
            <xs:documentation xml:lang="en">An admin VM record.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="QueryResultRecordType">
                <xs:attribute name="guestOs" type="xs:string"/>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>

    <xs:complexType name="MetadataTypedValue" abstract="true">
        <xs:annotation>
            <xs:documentation xml:lang="en">Base type for typed metadata values.</xs:documentation>
        </xs:annotation>
    </xs:complexType>

    <xs:complexType name="MetadataStringValue">
        <xs:annotation>
            <xs:documentation xml:lang="en">A string metadata value.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="MetadataTypedValue">
                <xs:sequence>
                    <xs:element name="Value" type="xs:string"/>
                </xs:sequence>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>

    <xs:complexType name="MetadataNumberValue">
        <xs:annotation>
            <xs:documentation xml:lang="en">A numeric metadata value.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="MetadataTypedValue">
                <xs:sequence>
                    <xs:element name="Value" type="xs:double"/>
                </xs:sequence>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>

    <xs:complexType name="MetadataEntryType">
        <xs:annotation>
            <xs:appinfo><meta:content-type>application/vnd.vmware.vcloud.metadata.value+xml</meta:content-type></xs:appinfo>
            <xs:documentation xml:lang="en">A metadata entry.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="ResourceType">
                <xs:sequence>
                    <xs:element name="Key" type="xs:string"/>
                    <xs:element name="TypedValue" type="MetadataTypedValue" minOccurs="0"/>
                </xs:sequence>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>

    <xs:complexType name="TaskType">
        <xs:annotation>
            <xs:appinfo><meta:content-type>application/vnd.vmware.vcloud.task+xml</meta:content-type></xs:appinfo>
            <xs:documentation xml:lang="en">Represents an asynchronous operation.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="ResourceType">
                <xs:sequence>
                    <xs:element name="Owner" type="ReferenceType" minOccurs="0">
                        <xs:annotation>
                            <xs:documentation xml:lang="en">The task owner.</xs:documentation>
                        </xs:annotation>
                    </xs:element>
                    <xs:group ref="TenantFields"/>
                    <xs:element name="Progress" minOccurs="0">
                        <xs:annotation>
                            <xs:documentation xml:lang="en">Progress in percent.</xs:documentation>
                        </xs:annotation>
                        <xs:simpleType>
                            <xs:restriction base="xs:int">
                                <xs:minInclusive value="0"/>
                            </xs:restriction>
                        </xs:simpleType>
                    </xs:element>
                    <xs:element name="VcTaskList" type="xs:string" minOccurs="0">
                        <xs:annotation>
                            <xs:documentation xml:lang="en">Removed list of tasks.</xs:documentation>
                            <xs:documentation source="removed-in">5.1</xs:documentation>
                        </xs:annotation>
                    </xs:element>
                </xs:sequence>
                <xs:attribute name="status" type="TaskStatusType" use="required"/>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>

    <xs:simpleType name="TaskStatusType">
        <xs:annotation>
            <xs:documentation xml:lang="en">Task states.</xs:documentation>
        </xs:annotation>
        <xs:restriction base="xs:string">
            <xs:enumeration value="queued"/>
            <xs:enumeration value="running"/>
            <xs:enumeration value="success"/>
        </xs:restriction>
    </xs:simpleType>

    <xs:complexType name="CapacityType">
        <xs:annotation>
            <xs:documentation xml:lang="en">A value with units.</xs:documentation>
            <xs:documentation source="deprecated">5.5</xs:documentation>
        </xs:annotation>
        <xs:simpleContent>
            <xs:extension base="xs:long">
                <xs:attribute name="units" type="xs:string" use="required"/>
            </xs:extension>
        </xs:simpleContent>
    </xs:complexType>
</xs:schema>
`

// ExtensionXSD is a vcloud-ext schema deriving from a master type.
const ExtensionXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns="http://www.vmware.com/vcloud/extension/v1.5"
    xmlns:vcloud="http://www.vmware.com/vcloud/v1.5"
    xmlns:xs="http://www.w3.org/2001/XMLSchema"
    targetNamespace="http://www.vmware.com/vcloud/extension/v1.5">
    <xs:complexType name="VimServerType">
        <xs:annotation>
            <xs:documentation xml:lang="en">A vCenter server.</xs:documentation>
        </xs:annotation>
        <xs:complexContent>
            <xs:extension base="vcloud:ResourceType">
                <xs:sequence>
                    <xs:element name="Url" type="xs:anyURI"/>
                    <xs:element name="Owner" type="vcloud:ReferenceType" minOccurs="0"/>
                </xs:sequence>
            </xs:extension>
        </xs:complexContent>
    </xs:complexType>
</xs:schema>
`

// VersionsXSD is the versioning schema.
const VersionsXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns="http://www.vmware.com/vcloud/versions"
    xmlns:xs="http://www.w3.org/2001/XMLSchema"
    targetNamespace="http://www.vmware.com/vcloud/versions">
    <xs:complexType name="SupportedVersionsType">
        <xs:annotation>
            <xs:documentation xml:lang="en">List of supported versions.</xs:documentation>
        </xs:annotation>
        <xs:sequence>
            <xs:element name="Version" type="xs:string" maxOccurs="unbounded"/>
        </xs:sequence>
    </xs:complexType>
</xs:schema>
`

// Bundle returns the files of a small documentation bundle keyed by their
// path inside the archive. It includes files every default filter rule
// must drop.
func Bundle() map[string]string {
	return map[string]string{
		"doc/etc/1.5/schemas/master/common.xsd":          CommonXSD,
		"doc/etc/1.5/schemas/extension/vmwextension.xsd": ExtensionXSD,
		"doc/etc/schemas/versioning/versions.xsd":        VersionsXSD,
		"doc/etc/schemas/external/xml.xsd":               "<not-a-schema/>",
		"doc/etc/schemas/external/ovf1.1/ovf.xsd":        "<not-a-schema/>",
		"doc/etc/etc/snapshot/common.xsd":                "<not-a-schema/>",
		"doc/landing-user_operations.html":               "<html></html>",
		"doc/etc/1.5/schemas/master/README.txt":          "ignored",
	}
}

// WriteBundleDir writes files below a temporary directory and returns it.
func WriteBundleDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// WriteBundleZip writes files into a temporary zip archive and returns its
// path. Entries are written in sorted order.
func WriteBundleZip(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	defer func() { _ = f.Close() }()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish archive: %v", err)
	}
	return path
}
