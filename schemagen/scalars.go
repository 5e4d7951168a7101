package schemagen

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"

	"go.cachewatch.io/adminapi/graphql"
)

// scalars maps Go types onto the scalar names they are exposed as. Custom
// scalars are added through RegisterScalar.
var scalars = map[reflect.Type]string{
	reflect.TypeOf(bool(false)):  "Boolean",
	reflect.TypeOf(int(0)):       "Int",
	reflect.TypeOf(int32(0)):     "Int32",
	reflect.TypeOf(int64(0)):     "Int64",
	reflect.TypeOf(float64(0)):   "Float",
	reflect.TypeOf(string("")):   "String",
	reflect.TypeOf(ID{}):         "ID",
	reflect.TypeOf(Map{}):        "Map",
	reflect.TypeOf(Timestamp{}):  "Timestamp",
	reflect.TypeOf(Duration{}):   "Duration",
	reflect.TypeOf(Bytes{}):      "Bytes",
}

// isScalarType checks whether a reflect.Type is scalar or not.
func isScalarType(t reflect.Type) bool {
	_, ok := scalars[t]
	return ok
}

// scalarArgParsers fills scalar argument values from their JSON-shaped
// wire representation.
var scalarArgParsers = map[reflect.Type]*argParser{
	reflect.TypeOf(bool(false)): {
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asBool, ok := value.(bool)
			if !ok {
				return errors.New("not a bool")
			}
			dest.SetBool(asBool)
			return nil
		},
	},
	reflect.TypeOf(int(0)): {
		FromJSON: func(value interface{}, dest reflect.Value) error {
			n, err := asInt(value)
			if err != nil {
				return err
			}
			dest.SetInt(n)
			return nil
		},
	},
	reflect.TypeOf(int32(0)): {
		FromJSON: func(value interface{}, dest reflect.Value) error {
			n, err := asInt(value)
			if err != nil {
				return err
			}
			dest.SetInt(n)
			return nil
		},
	},
	reflect.TypeOf(int64(0)): {
		FromJSON: func(value interface{}, dest reflect.Value) error {
			n, err := asInt(value)
			if err != nil {
				return err
			}
			dest.SetInt(n)
			return nil
		},
	},
	reflect.TypeOf(float64(0)): {
		FromJSON: func(value interface{}, dest reflect.Value) error {
			switch v := value.(type) {
			case float64:
				dest.SetFloat(v)
			case int64:
				dest.SetFloat(float64(v))
			default:
				return errors.New("not a number")
			}
			return nil
		},
	},
	reflect.TypeOf(string("")): {
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asString, ok := value.(string)
			if !ok {
				return errors.New("not a string")
			}
			dest.SetString(asString)
			return nil
		},
	},
	reflect.TypeOf(ID{}): {
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asString, ok := value.(string)
			if !ok {
				return errors.New("not a string")
			}
			dest.Set(reflect.ValueOf(ID{Value: asString}))
			return nil
		},
	},
	reflect.TypeOf(Bytes{}): {
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asString, ok := value.(string)
			if !ok {
				return errors.New("not a string")
			}
			decoded, err := base64.StdEncoding.DecodeString(asString)
			if err != nil {
				return err
			}
			dest.Set(reflect.ValueOf(Bytes{Value: decoded}))
			return nil
		},
	},
	reflect.TypeOf(Map{}): {
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asString, ok := value.(string)
			if !ok {
				return errors.New("not a string")
			}
			decoded, err := base64.StdEncoding.DecodeString(asString)
			if err != nil {
				return err
			}
			dest.Set(reflect.ValueOf(Map{Value: string(decoded)}))
			return nil
		},
	},
}

func asInt(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case float64:
		n := int64(v)
		if float64(n) != v {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return n, nil
	default:
		return 0, errors.New("not a number")
	}
}

// getScalarArgParser returns the registered parser for a scalar type along
// with the scalar as it appears in the schema.
func getScalarArgParser(typ reflect.Type) (*argParser, graphql.Type, bool) {
	name, ok := scalars[typ]
	if !ok {
		return nil, nil, false
	}
	parser, ok := scalarArgParsers[typ]
	if !ok {
		return nil, nil, false
	}
	if parser.Type == nil {
		parser = &argParser{FromJSON: parser.FromJSON, Type: typ}
	}
	return parser, &graphql.Scalar{Type: name}, true
}
