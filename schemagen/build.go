package schemagen

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"go.cachewatch.io/adminapi/graphql"
)

// schemaBuilder compiles the declarative registrations of a Schema into
// the runtime type graph consumed by the executor.
type schemaBuilder struct {
	types        map[reflect.Type]graphql.Type
	typeNames    map[string]graphql.Type
	objects      map[reflect.Type]*Object
	enumMappings map[reflect.Type]*EnumMapping
	inputObjects map[reflect.Type]*InputObject
	inputParsers map[reflect.Type]*parsedInput
	typeCache    map[reflect.Type]cachedType
}

// cachedType holds an in-progress args-struct parse so self-referencing
// argument structs terminate.
type cachedType struct {
	argType *graphql.InputObject
	fields  map[string]argField
}

// parsedInput is a finished parser for a registered input object.
type parsedInput struct {
	parser  *argParser
	argType graphql.Type
}

// registerName records a named type, rejecting two different types under
// the same name.
func (sb *schemaBuilder) registerName(name string, typ graphql.Type) error {
	if previous, ok := sb.typeNames[name]; ok {
		if previous != typ {
			return fmt.Errorf("duplicate type name %s", name)
		}
		return nil
	}
	sb.typeNames[name] = typ
	return nil
}

// getType maps a Go type onto its schema type. Value kinds come back
// non-nullable; pointers to structs, scalars and enums are nullable.
func (sb *schemaBuilder) getType(t reflect.Type) (graphql.Type, error) {
	if sb.enumMappings[t] != nil {
		enum, err := sb.buildEnum(t)
		if err != nil {
			return nil, err
		}
		return &graphql.NonNull{Type: enum}, nil
	}
	if t.Kind() == reflect.Ptr && sb.enumMappings[t.Elem()] != nil {
		return sb.buildEnum(t.Elem())
	}

	if name, ok := scalars[t]; ok {
		scalar, err := sb.getScalar(name)
		if err != nil {
			return nil, err
		}
		return &graphql.NonNull{Type: scalar}, nil
	}
	if t.Kind() == reflect.Ptr {
		if name, ok := scalars[t.Elem()]; ok {
			return sb.getScalar(name)
		}
	}

	switch t.Kind() {
	case reflect.Struct:
		object, err := sb.buildObject(t)
		if err != nil {
			return nil, err
		}
		return &graphql.NonNull{Type: object}, nil

	case reflect.Ptr:
		if t.Elem().Kind() == reflect.Struct {
			return sb.buildObject(t.Elem())
		}

	case reflect.Slice:
		inner, err := sb.getType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &graphql.List{Type: inner}, nil
	}

	return nil, fmt.Errorf("bad type %s: should be a struct, scalar, pointer, or a slice", t)
}

func (sb *schemaBuilder) getScalar(name string) (graphql.Type, error) {
	if typ, ok := sb.typeNames[name]; ok {
		return typ, nil
	}
	scalar := &graphql.Scalar{Type: name}
	if err := sb.registerName(name, scalar); err != nil {
		return nil, err
	}
	return scalar, nil
}

func (sb *schemaBuilder) buildEnum(t reflect.Type) (graphql.Type, error) {
	if typ, ok := sb.types[t]; ok {
		return typ, nil
	}

	mapping := sb.enumMappings[t]
	values := make([]string, 0, len(mapping.Map))
	for name := range mapping.Map {
		values = append(values, name)
	}
	sort.Strings(values)

	enum := &graphql.Enum{
		Type:       t.Name(),
		Values:     values,
		ReverseMap: mapping.ReverseMap,
	}
	if err := sb.registerName(enum.Type, enum); err != nil {
		return nil, err
	}
	sb.types[t] = enum
	return enum, nil
}

func (sb *schemaBuilder) buildObject(t reflect.Type) (graphql.Type, error) {
	if typ, ok := sb.types[t]; ok {
		return typ, nil
	}

	registration, ok := sb.objects[t]
	if !ok {
		return nil, fmt.Errorf("%s not registered as object", t)
	}

	object := &graphql.Object{
		Name:        registration.Name,
		Description: registration.Description,
		Fields:      make(map[string]*graphql.Field),
	}
	// Cache before building fields so cyclic object graphs terminate.
	sb.types[t] = object
	if err := sb.registerName(object.Name, object); err != nil {
		return nil, err
	}

	for name, method := range registration.Methods {
		field, err := sb.buildFunction(t, method)
		if err != nil {
			return nil, fmt.Errorf("bad method %s on type %s: %v", name, registration.Name, err)
		}
		object.Fields[name] = field
		if registration.key == name {
			object.KeyField = field
		}
	}

	if registration.key != "" && object.KeyField == nil {
		return nil, fmt.Errorf("key field %s not registered on type %s", registration.key, registration.Name)
	}

	return object, nil
}

// buildFunction converts a resolver function into a schema field. The
// function may take a context, a source object (value or pointer), an args
// struct and a selection set, in that order, and must return a value with
// an optional trailing error.
func (sb *schemaBuilder) buildFunction(sourceTyp reflect.Type, m *method) (*graphql.Field, error) {
	fun := reflect.ValueOf(m.Fn)
	funcTyp := fun.Type()
	if funcTyp.Kind() != reflect.Func {
		return nil, fmt.Errorf("expected func, not %s", funcTyp)
	}

	in := 0

	hasContext := funcTyp.NumIn() > in && funcTyp.In(in) == contextType
	if hasContext {
		in++
	}

	var sourceArgTyp reflect.Type
	if funcTyp.NumIn() > in && (funcTyp.In(in) == sourceTyp || funcTyp.In(in) == reflect.PtrTo(sourceTyp)) {
		sourceArgTyp = funcTyp.In(in)
		in++
	}

	var argsTyp reflect.Type
	var argsParser *argParser
	var argsType *graphql.InputObject
	if funcTyp.NumIn() > in && funcTyp.In(in) != selectionSetType && funcTyp.In(in).Kind() == reflect.Struct {
		argsTyp = funcTyp.In(in)
		parser, argType, err := sb.makeInputObjectParser(argsTyp)
		if err != nil {
			return nil, err
		}
		argsParser, argsType = parser, argType
		in++
	}

	hasSelectionSet := funcTyp.NumIn() > in && funcTyp.In(in) == selectionSetType
	if hasSelectionSet {
		in++
	}

	if in != funcTyp.NumIn() {
		return nil, fmt.Errorf("func %s has an unexpected signature", funcTyp)
	}

	hasError := funcTyp.NumOut() > 0 && funcTyp.Out(funcTyp.NumOut()-1) == errType
	returns := funcTyp.NumOut()
	if hasError {
		returns--
	}
	if returns != 1 {
		return nil, fmt.Errorf("func %s should return a value and an optional error", funcTyp)
	}
	if funcTyp.Out(0) == errType {
		return nil, fmt.Errorf("func %s should return a value before the error", funcTyp)
	}

	retType, err := sb.getType(funcTyp.Out(0))
	if err != nil {
		return nil, err
	}

	field := &graphql.Field{
		Type: retType,
		Resolve: func(ctx context.Context, source, args interface{}, selectionSet *graphql.SelectionSet) (interface{}, error) {
			callIn := make([]reflect.Value, 0, funcTyp.NumIn())

			if hasContext {
				callIn = append(callIn, reflect.ValueOf(ctx))
			}

			if sourceArgTyp != nil {
				sourceValue := reflect.ValueOf(source)
				switch {
				case !sourceValue.IsValid():
					sourceValue = reflect.Zero(sourceArgTyp)
				case sourceValue.Type() == sourceArgTyp:
					// as-is
				case sourceValue.Kind() == reflect.Ptr && sourceValue.Type().Elem() == sourceArgTyp:
					sourceValue = sourceValue.Elem()
				case sourceArgTyp.Kind() == reflect.Ptr && sourceArgTyp.Elem() == sourceValue.Type():
					ptr := reflect.New(sourceValue.Type())
					ptr.Elem().Set(sourceValue)
					sourceValue = ptr
				default:
					return nil, fmt.Errorf("resolver expected source %s, got %T", sourceArgTyp, source)
				}
				callIn = append(callIn, sourceValue)
			}

			if argsTyp != nil {
				argsValue := reflect.ValueOf(args)
				if !argsValue.IsValid() || argsValue.Type() != argsTyp {
					argsValue = reflect.New(argsTyp).Elem()
				}
				callIn = append(callIn, argsValue)
			}

			if hasSelectionSet {
				callIn = append(callIn, reflect.ValueOf(selectionSet))
			}

			out := fun.Call(callIn)

			if hasError {
				if errValue := out[len(out)-1]; !errValue.IsNil() {
					return nil, errValue.Interface().(error)
				}
			}
			return out[0].Interface(), nil
		},
	}

	if argsTyp != nil {
		field.Args = argsType.InputFields
		parser := argsParser
		structTyp := argsTyp
		field.ParseArguments = func(json interface{}) (interface{}, error) {
			if json == nil {
				json = map[string]interface{}{}
			}
			value := reflect.New(structTyp).Elem()
			if err := parser.FromJSON(json, value); err != nil {
				return nil, err
			}
			return value.Interface(), nil
		}
	}

	return field, nil
}
