// Package naming provides the string transforms that map XML Schema names
// onto OpenAPI component and property names.
//
// Functions include Decapitalize for property names, Qualify for
// namespace-prefixed schema names and SplitQName for prefixed XML names.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
