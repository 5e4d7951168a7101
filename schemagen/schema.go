package schemagen

import (
	"fmt"
	"reflect"

	"go.cachewatch.io/adminapi/graphql"
)

// Schema is a registry of types and resolvers from which a queryable
// schema is built. It is not safe for concurrent registration; build it
// during initialization and share the built schema instead.
type Schema struct {
	namespace    string
	objects      map[string]*Object
	enumMappings map[reflect.Type]*EnumMapping
	inputObjects map[string]*InputObject
}

// NewSchema creates an empty registry with no namespace label.
func NewSchema() *Schema {
	return &Schema{
		objects:      make(map[string]*Object),
		enumMappings: make(map[reflect.Type]*EnumMapping),
		inputObjects: make(map[string]*InputObject),
	}
}

// NewNamespacedSchema creates an empty registry whose built schema carries
// the given namespace label. The label prefixes the root type names, so a
// namespace "Admin" produces AdminQuery and AdminMutation roots.
func NewNamespacedSchema(namespace string) *Schema {
	s := NewSchema()
	s.namespace = namespace
	return s
}

// Enum registers an enumType in the schema. The val should be any value
// that can be deserialized into your enum, and the enumMap maps the exposed
// names onto values of that same type.
func (s *Schema) Enum(val interface{}, enumMap map[string]interface{}, description ...string) {
	typ := reflect.TypeOf(val)
	if s.enumMappings[typ] != nil {
		panic("duplicate enum " + typ.String())
	}

	reverseMap := make(map[interface{}]string, len(enumMap))
	for name, value := range enumMap {
		if reflect.TypeOf(value) != typ {
			panic(fmt.Sprintf("enum value %s should be of type %s", name, typ))
		}
		reverseMap[value] = name
	}

	desc := ""
	if len(description) > 0 {
		desc = description[0]
	}

	s.enumMappings[typ] = &EnumMapping{
		Map:         enumMap,
		ReverseMap:  reverseMap,
		Description: desc,
	}
}

// Object registers a struct as an object type in the schema. Registering
// the same name twice for the same Go type returns the existing
// registration so fields can be attached from several places.
func (s *Schema) Object(name string, typ interface{}, description ...string) *Object {
	if object, ok := s.objects[name]; ok {
		if reflect.TypeOf(object.Type) != reflect.TypeOf(typ) {
			panic("re-registered object with different type " + name)
		}
		return object
	}

	desc := ""
	if len(description) > 0 {
		desc = description[0]
	}

	object := &Object{
		Name:        name,
		Description: desc,
		Type:        typ,
	}
	s.objects[name] = object
	return object
}

// InputObject registers a struct as an input object in the schema. Its
// fields are filled through the returned registration's FieldFunc.
func (s *Schema) InputObject(name string, typ interface{}, description ...string) *InputObject {
	if input, ok := s.inputObjects[name]; ok {
		if reflect.TypeOf(input.Type) != reflect.TypeOf(typ) {
			panic("re-registered input object with different type " + name)
		}
		return input
	}

	desc := ""
	if len(description) > 0 {
		desc = description[0]
	}

	input := &InputObject{
		Name:        name,
		Description: desc,
		Type:        typ,
		Fields:      make(map[string]interface{}),
	}
	s.inputObjects[name] = input
	return input
}

// query, mutation and subscription are the anonymous source types of the
// root objects.
type query struct{}
type mutation struct{}
type subscription struct{}

// Query returns an object for the root query type, named after the
// schema's namespace.
func (s *Schema) Query() *Object {
	return s.Object(s.namespace+"Query", query{})
}

// Mutation returns an object for the root mutation type.
func (s *Schema) Mutation() *Object {
	return s.Object(s.namespace+"Mutation", mutation{})
}

// Subscription returns an object for the root subscription type.
func (s *Schema) Subscription() *Object {
	return s.Object(s.namespace+"Subscription", subscription{})
}

// Build takes the registered types and builds a queryable schema out of
// them. Every registered object and input object is built, so duplicate
// names and invalid resolver signatures surface here rather than at query
// time. Build is deterministic for a fixed set of registrations.
func (s *Schema) Build() (*graphql.Schema, error) {
	// Roots exist even when nothing registered fields on them.
	s.Query()
	s.Mutation()
	s.Subscription()

	sb := &schemaBuilder{
		types:        make(map[reflect.Type]graphql.Type),
		typeNames:    make(map[string]graphql.Type),
		objects:      make(map[reflect.Type]*Object),
		enumMappings: s.enumMappings,
		inputObjects: make(map[reflect.Type]*InputObject),
		inputParsers: make(map[reflect.Type]*parsedInput),
		typeCache:    make(map[reflect.Type]cachedType),
	}

	for name, object := range s.objects {
		typ := reflect.TypeOf(object.Type)
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			return nil, fmt.Errorf("object %s should be a struct, not %s", name, typ)
		}
		if previous, ok := sb.objects[typ]; ok {
			return nil, fmt.Errorf("duplicate type %s: %s and %s", typ, previous.Name, name)
		}
		sb.objects[typ] = object
	}

	for name, input := range s.inputObjects {
		typ := reflect.TypeOf(input.Type)
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			return nil, fmt.Errorf("input object %s should be a struct, not %s", name, typ)
		}
		if previous, ok := sb.inputObjects[typ]; ok {
			return nil, fmt.Errorf("duplicate input type %s: %s and %s", typ, previous.Name, name)
		}
		sb.inputObjects[typ] = input
	}

	for typ := range sb.objects {
		if _, err := sb.getType(typ); err != nil {
			return nil, err
		}
	}
	for typ := range sb.inputObjects {
		if _, _, err := sb.generateObjectParserInner(typ); err != nil {
			return nil, err
		}
	}

	queryTyp, err := sb.getType(reflect.TypeOf(query{}))
	if err != nil {
		return nil, err
	}
	mutationTyp, err := sb.getType(reflect.TypeOf(mutation{}))
	if err != nil {
		return nil, err
	}
	subscriptionTyp, err := sb.getType(reflect.TypeOf(subscription{}))
	if err != nil {
		return nil, err
	}

	return &graphql.Schema{
		Namespace:    s.namespace,
		Query:        unwrapNonNull(queryTyp),
		Mutation:     unwrapNonNull(mutationTyp),
		Subscription: unwrapNonNull(subscriptionTyp),
		Types:        sb.typeNames,
	}, nil
}

// MustBuild builds a schema and panics if the build fails.
func (s *Schema) MustBuild() *graphql.Schema {
	built, err := s.Build()
	if err != nil {
		panic(err)
	}
	return built
}

func unwrapNonNull(typ graphql.Type) graphql.Type {
	if nonNull, ok := typ.(*graphql.NonNull); ok {
		return nonNull.Type
	}
	return typ
}
