package schemagen

import (
	"errors"
	"fmt"
	"reflect"

	"go.cachewatch.io/adminapi/graphql"
)

// argParser fills a destination value from the JSON-shaped representation
// of an argument.
type argParser struct {
	FromJSON func(value interface{}, dest reflect.Value) error
	Type     reflect.Type
}

// argField ties an args struct field to the parser that fills it.
type argField struct {
	field  reflect.StructField
	parser *argParser
}

// makeInputObjectParser constructs an argParser for an args struct, i.e.
// the struct that bundles the arguments of a resolver:
//
//	obj.FieldFunc("cacheItem", func(ctx context.Context, args struct {
//	    Key string
//	}) (*CacheItem, error) { ... })
func (sb *schemaBuilder) makeInputObjectParser(typ reflect.Type) (*argParser, *graphql.InputObject, error) {
	if typ.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("expected struct but received type %s", typ.Name())
	}

	argType, fields, err := sb.generateArgParser(typ)
	if err != nil {
		return nil, nil, err
	}

	return &argParser{
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asMap, ok := value.(map[string]interface{})
			if !ok {
				return errors.New("not an object")
			}

			for name, field := range fields {
				value, exists := asMap[name]
				if !exists {
					switch field.parser.Type.Kind() {
					case reflect.Ptr, reflect.Slice:
						continue
					}
					return fmt.Errorf("missing required arg %s", name)
				}
				fieldDest := dest.FieldByIndex(field.field.Index)
				if err := field.parser.FromJSON(value, fieldDest); err != nil {
					return fmt.Errorf("%s: %s", name, err)
				}
			}

			for name := range asMap {
				if _, ok := fields[name]; !ok {
					return fmt.Errorf("unknown arg %s", name)
				}
			}
			return nil
		},
		Type: typ,
	}, argType, nil
}

// generateArgParser generates the parser for each field of an args struct.
func (sb *schemaBuilder) generateArgParser(typ reflect.Type) (*graphql.InputObject, map[string]argField, error) {
	if cached, ok := sb.typeCache[typ]; ok {
		return cached.argType, cached.fields, nil
	}

	fields := make(map[string]argField)
	argType := &graphql.InputObject{
		Name:        typ.Name(),
		InputFields: make(map[string]graphql.Type),
	}

	// Cache type information ahead of time to catch self-reference.
	sb.typeCache[typ] = cachedType{argType, fields}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous {
			return nil, nil, fmt.Errorf("bad arg type %s: anonymous fields not supported", typ)
		}

		fieldInfo := parseFieldInfo(field)
		if fieldInfo.Skipped {
			continue
		}

		if _, ok := fields[fieldInfo.Name]; ok {
			return nil, nil, fmt.Errorf("bad arg type %s: duplicate field %s", typ, fieldInfo.Name)
		}

		parser, fieldArgTyp, err := sb.generateObjectParser(field.Type)
		if err != nil {
			return nil, nil, err
		}

		fields[fieldInfo.Name] = argField{
			field:  field,
			parser: parser,
		}
		argType.InputFields[fieldInfo.Name] = fieldArgTyp
	}

	return argType, fields, nil
}

// generateObjectParser generates the parser for a single value inside an
// args struct, unwrapping an optional pointer.
func (sb *schemaBuilder) generateObjectParser(typ reflect.Type) (*argParser, graphql.Type, error) {
	if typ.Kind() == reflect.Ptr {
		parser, argType, err := sb.generateObjectParserInner(typ.Elem())
		if err != nil {
			return nil, nil, err
		}
		return wrapPtrParser(parser), argType, nil
	}

	return sb.generateObjectParserInner(typ)
}

// generateObjectParserInner generates the parser without having to worry
// about pointers. Registered input objects are filled through their
// FieldFunc registrations.
func (sb *schemaBuilder) generateObjectParserInner(typ reflect.Type) (*argParser, graphql.Type, error) {
	if sb.enumMappings[typ] != nil {
		parser, argType, err := sb.getEnumArgParser(typ)
		return parser, argType, err
	}

	if isScalarType(typ) {
		return sb.getInputFieldParser(typ)
	}

	if typ.Kind() == reflect.Slice {
		return sb.generateSliceParser(typ)
	}

	if cached, ok := sb.inputParsers[typ]; ok {
		return cached.parser, cached.argType, nil
	}

	registration, ok := sb.inputObjects[typ]
	if !ok {
		return nil, nil, fmt.Errorf("%s not registered as input object", typ.Name())
	}

	fields := make(map[string]argField)
	argType := &graphql.InputObject{
		Name:        registration.Name,
		InputFields: make(map[string]graphql.Type),
	}
	if err := sb.registerName(argType.Name, argType); err != nil {
		return nil, nil, err
	}

	for name, function := range registration.Fields {
		field := reflect.StructField{Name: name}
		funcTyp := reflect.TypeOf(function)
		sourceTyp := funcTyp.In(1)

		parser, fieldArgTyp, err := sb.getInputFieldParser(sourceTyp)
		if err != nil {
			return nil, nil, err
		}

		fields[name] = argField{
			field:  field,
			parser: parser,
		}
		argType.InputFields[name] = fieldArgTyp
	}

	parser := &argParser{
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asMap, ok := value.(map[string]interface{})
			if !ok {
				return errors.New("not an object")
			}

			for name := range asMap {
				if _, ok := fields[name]; !ok {
					return fmt.Errorf("unknown field %s", name)
				}
			}

			target := reflect.New(typ)
			for name, field := range fields {
				value, exists := asMap[name]
				if !exists {
					continue
				}
				function := registration.Fields[name]
				funcTyp := reflect.TypeOf(function)
				source := reflect.New(funcTyp.In(1)).Elem()

				if err := field.parser.FromJSON(value, source); err != nil {
					return fmt.Errorf("%s: %s", name, err)
				}

				out := reflect.ValueOf(function).Call([]reflect.Value{target, source})
				if len(out) > 0 && !out[0].IsNil() {
					return out[0].Interface().(error)
				}
			}

			dest.Set(target.Elem())
			return nil
		},
		Type: typ,
	}

	sb.inputParsers[typ] = &parsedInput{parser: parser, argType: argType}
	return parser, argType, nil
}

func (sb *schemaBuilder) getEnumArgParser(typ reflect.Type) (*argParser, graphql.Type, error) {
	enumType, err := sb.buildEnum(typ)
	if err != nil {
		return nil, nil, err
	}

	mapping := sb.enumMappings[typ]
	parser := &argParser{
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asString, ok := value.(string)
			if !ok {
				return errors.New("not a string")
			}
			mapped, ok := mapping.Map[asString]
			if !ok {
				return fmt.Errorf("%s is not a valid value of enum %s", asString, typ.Name())
			}
			dest.Set(reflect.ValueOf(mapped))
			return nil
		},
		Type: typ,
	}
	return parser, enumType, nil
}

func (sb *schemaBuilder) getInputFieldParser(typ reflect.Type) (*argParser, graphql.Type, error) {
	if sb.enumMappings[typ] != nil {
		return sb.getEnumArgParser(typ)
	}

	if parser, argType, ok := getScalarArgParser(typ); ok {
		return parser, argType, nil
	}

	switch typ.Kind() {
	case reflect.Struct:
		parser, argType, err := sb.generateObjectParserInner(typ)
		if err != nil {
			return nil, nil, err
		}
		if inputObject, ok := argType.(*graphql.InputObject); ok && inputObject.Name == "" {
			return nil, nil, fmt.Errorf("bad type %s: should have a name", typ)
		}
		return parser, argType, nil
	case reflect.Slice:
		return sb.generateSliceParser(typ)
	case reflect.Ptr:
		parser, argType, err := sb.getInputFieldParser(typ.Elem())
		if err != nil {
			return nil, nil, err
		}
		return wrapPtrParser(parser), argType, nil
	default:
		return nil, nil, fmt.Errorf("bad arg type %s: should be struct, scalar, pointer, or a slice", typ)
	}
}

// generateSliceParser generates the parser for a slice input by generating
// the parser for the underlying object and using it to fill the values of
// the list.
func (sb *schemaBuilder) generateSliceParser(typ reflect.Type) (*argParser, graphql.Type, error) {
	inner, argType, err := sb.generateObjectParser(typ.Elem())
	if err != nil {
		return nil, nil, err
	}

	return &argParser{
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asSlice, ok := value.([]interface{})
			if !ok {
				return errors.New("not a list")
			}

			slice := reflect.MakeSlice(typ, len(asSlice), len(asSlice))
			for i, value := range asSlice {
				if err := inner.FromJSON(value, slice.Index(i)); err != nil {
					return err
				}
			}
			dest.Set(slice)
			return nil
		},
		Type: typ,
	}, &graphql.List{Type: argType}, nil
}

func wrapPtrParser(inner *argParser) *argParser {
	return &argParser{
		FromJSON: func(value interface{}, dest reflect.Value) error {
			if value == nil {
				return nil
			}
			ptr := reflect.New(inner.Type)
			if err := inner.FromJSON(value, ptr.Elem()); err != nil {
				return err
			}
			dest.Set(ptr)
			return nil
		},
		Type: reflect.PtrTo(inner.Type),
	}
}
