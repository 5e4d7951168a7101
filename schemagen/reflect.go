package schemagen

import (
	"context"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"

	"go.cachewatch.io/adminapi/graphql"
)

// fieldInfo contains the schema-facing information parsed from a struct
// field of an args struct.
type fieldInfo struct {
	// Skipped indicates that this field should not be included in the schema.
	Skipped bool

	// Name is the field name that should be exposed for this field.
	Name string
}

// parseFieldInfo derives the exposed name of an args struct field. A
// `graphql` tag wins, then a `json` tag; otherwise the Go name is converted
// to lowerCamel.
func parseFieldInfo(field reflect.StructField) *fieldInfo {
	if field.PkgPath != "" { // unexported fields are not exposed
		return &fieldInfo{Skipped: true}
	}

	tag := field.Tag.Get("graphql")
	if tag == "" {
		tag = field.Tag.Get("json")
	}
	name := strings.TrimSpace(strings.Split(tag, ",")[0])
	if name == "-" {
		return &fieldInfo{Skipped: true}
	}
	if name == "" {
		name = strcase.ToLowerCamel(field.Name)
	}

	return &fieldInfo{Name: name}
}

// Common types needed for type assertions against resolver signatures.
var errType = reflect.TypeOf((*error)(nil)).Elem()
var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
var selectionSetType = reflect.TypeOf(&graphql.SelectionSet{})
