// Package dataset reads and writes the YAML document that holds one
// account's products and mandatory links. Documents are validated against an
// embedded JSON Schema and a schema_version compatibility constraint before
// they are decoded.
package dataset
