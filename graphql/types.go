package graphql

import (
	"context"
	"fmt"
)

// Type is one node of a schema's type graph: a Scalar, Enum, Object,
// InputObject, or a List/NonNull wrapper around one of those.
type Type interface {
	String() string

	// isType restricts the interface to the types declared in this package.
	isType()
}

// Scalar is a leaf value. An optional Unwrapper converts the resolved Go
// value into its output representation; with a nil Unwrapper the value is
// passed through to JSON marshalling untouched.
type Scalar struct {
	Type      string
	Unwrapper func(interface{}) (interface{}, error)
}

func (s *Scalar) isType() {}

func (s *Scalar) String() string {
	return s.Type
}

// Enum is a leaf value drawn from a fixed set of named constants.
type Enum struct {
	Type       string
	Values     []string
	ReverseMap map[interface{}]string
}

func (e *Enum) isType() {}

func (e *Enum) String() string {
	return e.Type
}

// Object is a composite value whose fields resolve independently.
type Object struct {
	Name        string
	Description string
	KeyField    *Field
	Fields      map[string]*Field
}

func (o *Object) isType() {}

func (o *Object) String() string {
	return o.Name
}

// List wraps the element type of a slice-valued field.
type List struct {
	Type Type
}

func (l *List) isType() {}

func (l *List) String() string {
	return fmt.Sprintf("[%s]", l.Type)
}

// InputObject describes the shape of an object argument of a query,
// mutation or subscription field.
type InputObject struct {
	Name        string
	InputFields map[string]Type
}

func (io *InputObject) isType() {}

func (io *InputObject) String() string {
	return io.Name
}

// NonNull marks its inner type as never resolving to null.
type NonNull struct {
	Type Type
}

func (n *NonNull) isType() {}

func (n *NonNull) String() string {
	return fmt.Sprintf("%s!", n.Type)
}

var _ Type = &Scalar{}
var _ Type = &Enum{}
var _ Type = &Object{}
var _ Type = &List{}
var _ Type = &InputObject{}
var _ Type = &NonNull{}

// A Resolver computes the value of one field given the enclosing source
// object and the field's parsed arguments.
type Resolver func(ctx context.Context, source, args interface{}, selectionSet *SelectionSet) (interface{}, error)

// Field describes one resolvable field of an Object: its result type, its
// argument shapes, and the functions that parse arguments and resolve the
// value.
type Field struct {
	Resolve        Resolver
	Type           Type
	Args           map[string]Type
	ParseArguments func(json interface{}) (interface{}, error)
}

// Schema is an assembled, queryable surface: a namespace label, the three
// root types, and the full set of named types registered with the builder.
// A Schema is built once at startup and is read-only afterwards.
type Schema struct {
	Namespace    string
	Query        Type
	Mutation     Type
	Subscription Type

	// Types indexes every named type in the schema (objects, input
	// objects, enums) by type name.
	Types map[string]Type
}

// SelectionSet is the body of one level of a query: the fields selected
// directly plus any fragment spreads at that level. The query
//
//	{
//	  key
//	  ...itemMeta
//	  regions { name }
//	}
//
// produces a set with two selections (key and regions, the latter holding
// the name subselection) and one fragment spread. Selections live in a
// slice, not a map, because duplicate aliases are legal until execution
// merges them.
type SelectionSet struct {
	Selections []*Selection
	Fragments  []*FragmentSpread
}

// Selection is a single selected field: the schema field name, the output
// alias (equal to the name when no alias was written), the field's
// arguments, and the subselection applied to the result. For
//
//	entry: cacheItem(key: "a") { region }
//
// Name is "cacheItem", Alias is "entry", Args carries the key argument and
// SelectionSet holds the region subselection.
type Selection struct {
	Name         string
	Alias        string
	Args         interface{}
	SelectionSet *SelectionSet
	Directives   []*Directive

	// parsed guards Args: they are converted from their wire shape to the
	// resolver's typed args struct at most once per selection.
	parsed bool
}

// A FragmentDefinition is a reusable selection set. On names the object
// type the fragment applies to; spreads on other types are skipped.
type FragmentDefinition struct {
	Name         string
	On           string
	SelectionSet *SelectionSet
}

// FragmentSpread represents a usage of a FragmentDefinition. Alongside the
// information about the fragment, it includes any directives used at that
// spread location.
type FragmentSpread struct {
	Fragment   *FragmentDefinition
	Directives []*Directive
}

// Directive is a skip/include style annotation on a selection.
type Directive struct {
	Name string
	Args interface{}
}

// Query is a single parsed operation ready for validation and execution.
type Query struct {
	Name         string
	Kind         string
	SelectionSet *SelectionSet
}
