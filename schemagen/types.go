package schemagen

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/golang/protobuf/ptypes/duration"
	"github.com/golang/protobuf/ptypes/timestamp"
)

// Object represents a Go type and a set of resolver methods to be converted
// into an object in a generated schema.
type Object struct {
	Name        string // Optional, defaults to the Go type's name.
	Description string
	Type        interface{}
	Methods     Methods

	key string
}

// Key registers the key field on an object. The field should be specified
// by the name of the graphql field.
// For example, for an object User:
//
//	type User struct {
//	    UserKey int64
//	}
//
// The key will be registered as:
//
//	object.Key("userKey")
func (s *Object) Key(f string) {
	s.key = f
}

// FieldFunc exposes a field on an object. The function f can take a number
// of optional arguments:
//
//	func([ctx context.Context], [o *Type], [args struct{}]) (Result, [error])
//
// For example, for an object of type User, a displayName field might take
// just an instance of the object:
//
//	user.FieldFunc("displayName", func(u *User) string {
//	    return u.Name
//	})
//
// A createUser mutation field might take both a context and arguments:
//
//	mutation.FieldFunc("createUser", func(ctx context.Context, args struct {
//	    Name  string
//	    Email string
//	}) (*User, error) {
//	    return store.CreateUser(ctx, args.Name, args.Email)
//	})
//
// An optional description (at most one) becomes the field's documentation.
func (s *Object) FieldFunc(name string, f interface{}, description ...string) {
	if s.Methods == nil {
		s.Methods = make(Methods)
	}

	desc := ""
	if len(description) > 0 {
		desc = description[0]
	}
	if len(description) > 1 {
		panic("at most one description allowed for FieldFunc")
	}

	if _, ok := s.Methods[name]; ok {
		panic("duplicate method " + name)
	}
	s.Methods[name] = &method{Fn: f, Description: desc}
}

// A Methods map represents the set of methods exposed on an Object.
type Methods map[string]*method

type method struct {
	Fn          interface{}
	Description string
}

// InputObject represents an input object passed as an argument to queries,
// mutations and subscriptions.
type InputObject struct {
	Name        string
	Description string
	Type        interface{}
	Fields      map[string]interface{}
}

// FieldFunc exposes a field of an input object and registers the function
// used to fill it. The target argument of the function must be a pointer:
//
//	input := schema.InputObject("createUserInput", CreateUserInput{})
//	input.FieldFunc("name", func(target *CreateUserInput, source string) {
//	    target.Name = source
//	})
func (io *InputObject) FieldFunc(name string, function interface{}) {
	funcTyp := reflect.TypeOf(function)

	if funcTyp.NumIn() != 2 {
		panic(fmt.Errorf("can not register field %v on %v as number of input argument should be 2", name, io.Name))
	}

	if funcTyp.In(0).Kind() != reflect.Ptr {
		panic(fmt.Errorf("can not register %s on input object %s as the first argument of the function is not a pointer type", name, io.Name))
	}

	if funcTyp.NumOut() > 1 {
		panic(fmt.Errorf("can not register field %v on %v as number of output parameters should be at most 1", name, io.Name))
	}

	io.Fields[name] = function
}

// EnumMapping is a representation of an enum that includes both the mapping
// and reverse mapping.
type EnumMapping struct {
	Map         map[string]interface{}
	ReverseMap  map[interface{}]string
	Description string
}

// UnmarshalFunc is used to unmarshal a scalar value from JSON.
type UnmarshalFunc func(value interface{}, dest reflect.Value) error

// RegisterScalar registers a custom scalar under the given name.
//
// For example, to register a DateTime scalar backed by time.Time:
//
//	typ := reflect.TypeOf(time.Time{})
//	schemagen.RegisterScalar(typ, "DateTime", func(value interface{}, dest reflect.Value) error {
//	    s, ok := value.(string)
//	    if !ok {
//	        return errors.New("invalid type expected string")
//	    }
//	    t, err := time.Parse(time.RFC3339, s)
//	    if err != nil {
//	        return err
//	    }
//	    dest.Set(reflect.ValueOf(t))
//	    return nil
//	})
//
// If uf is nil the type must implement json.Unmarshaler, which is then used
// to fill argument values.
func RegisterScalar(typ reflect.Type, name string, uf UnmarshalFunc) error {
	if typ.Kind() == reflect.Ptr {
		return errors.New("type should not be of pointer type")
	}

	if uf == nil {
		// Fall back to the type's own json.Unmarshaler.
		if !reflect.PtrTo(typ).Implements(reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()) {
			return errors.New("either UnmarshalFunc should be provided or the provided type should implement json.Unmarshaler interface")
		}

		f, _ := reflect.PtrTo(typ).MethodByName("UnmarshalJSON")

		uf = func(value interface{}, dest reflect.Value) error {
			var raw []byte
			switch v := value.(type) {
			case []byte:
				raw = v
			case string:
				raw = []byte(v)
			case float64:
				raw = []byte(strconv.FormatFloat(v, 'g', -1, 64))
			case int64:
				raw = []byte(strconv.FormatInt(v, 10))
			case bool:
				raw = []byte(strconv.FormatBool(v))
			default:
				return errors.New("unknown type")
			}

			if err := f.Func.Call([]reflect.Value{dest.Addr(), reflect.ValueOf(raw)})[0].Interface(); err != nil {
				return err.(error)
			}
			return nil
		}
	}

	scalars[typ] = name
	scalarArgParsers[typ] = &argParser{
		FromJSON: uf,
		Type:     typ,
	}

	return nil
}

// ID is the graphql ID scalar.
type ID struct {
	Value string
}

// MarshalJSON implements the JSON marshalling used to generate the output.
func (id ID) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, id.Value), nil
}

// UnmarshalJSON accepts the plain string representation of an ID.
func (id *ID) UnmarshalJSON(b []byte) error {
	var value string
	if err := json.Unmarshal(b, &value); err != nil {
		return err
	}
	id.Value = value
	return nil
}

// Timestamp handles protobuf timestamps, rendered as RFC3339 strings.
type Timestamp timestamp.Timestamp

// MarshalJSON implements the JSON marshalling used to generate the output.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, time.Unix(t.Seconds, int64(t.Nanos)).Format(time.RFC3339)), nil
}

// Duration handles protobuf durations, rendered as whole seconds.
type Duration duration.Duration

// MarshalJSON implements the JSON marshalling used to generate the output.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(d.Seconds))), nil
}

// Map handles opaque map payloads, rendered base64-encoded.
type Map struct {
	Value string
}

// MarshalJSON implements the JSON marshalling used to generate the output.
func (m Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString([]byte(m.Value)))
}

// Bytes handles raw byte payloads.
type Bytes struct {
	Value []byte
}

// MarshalJSON implements the JSON marshalling used to generate the output.
func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Value)
}
