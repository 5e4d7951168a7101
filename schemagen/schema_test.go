package schemagen_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.cachewatch.io/adminapi/graphql"
	"go.cachewatch.io/adminapi/schemagen"
)

type color int

const (
	red color = iota
	green
)

type palette struct {
	Name string
}

func buildPaletteSchema(t *testing.T) *graphql.Schema {
	t.Helper()

	s := schemagen.NewNamespacedSchema("Paint")
	s.Enum(color(0), map[string]interface{}{
		"RED":   red,
		"GREEN": green,
	})

	obj := s.Object("Palette", palette{})
	obj.FieldFunc("name", func(p *palette) string { return p.Name })
	obj.FieldFunc("primary", func(p *palette) color { return red })

	q := s.Query()
	q.FieldFunc("palette", func(ctx context.Context, args struct {
		Name  string
		Color color
		Limit *int64
	}) *palette {
		return &palette{Name: args.Name}
	})

	schema, err := s.Build()
	require.NoError(t, err)
	return schema
}

func TestBuildNullability(t *testing.T) {
	schema := buildPaletteSchema(t)

	query := schema.Query.(*graphql.Object)
	field := query.Fields["palette"]
	require.NotNil(t, field)

	// Pointer results are nullable, value results are not.
	obj, ok := field.Type.(*graphql.Object)
	require.True(t, ok, "expected nullable object, got %T", field.Type)
	require.Equal(t, "Palette", obj.Name)

	name := obj.Fields["name"]
	nonNull, ok := name.Type.(*graphql.NonNull)
	require.True(t, ok, "expected non-null string, got %T", name.Type)
	_, ok = nonNull.Type.(*graphql.Scalar)
	require.True(t, ok)
}

func TestBuildEnumValuesSorted(t *testing.T) {
	schema := buildPaletteSchema(t)

	typ, ok := schema.Types["color"]
	require.True(t, ok)
	enum, ok := typ.(*graphql.Enum)
	require.True(t, ok)
	require.Equal(t, []string{"GREEN", "RED"}, enum.Values)
}

func TestParseArguments(t *testing.T) {
	schema := buildPaletteSchema(t)

	field := schema.Query.(*graphql.Object).Fields["palette"]
	require.NotNil(t, field.ParseArguments)

	args, err := field.ParseArguments(map[string]interface{}{
		"name":  "warm",
		"color": "GREEN",
	})
	require.NoError(t, err)

	parsed := args.(struct {
		Name  string
		Color color
		Limit *int64
	})
	require.Equal(t, "warm", parsed.Name)
	require.Equal(t, green, parsed.Color)
	require.Nil(t, parsed.Limit)
}

func TestParseArgumentsMissingRequired(t *testing.T) {
	schema := buildPaletteSchema(t)

	field := schema.Query.(*graphql.Object).Fields["palette"]
	_, err := field.ParseArguments(map[string]interface{}{"color": "RED"})
	require.EqualError(t, err, "missing required arg name")
}

func TestParseArgumentsUnknownArg(t *testing.T) {
	schema := buildPaletteSchema(t)

	field := schema.Query.(*graphql.Object).Fields["palette"]
	_, err := field.ParseArguments(map[string]interface{}{
		"name":  "warm",
		"color": "RED",
		"shade": "dark",
	})
	require.EqualError(t, err, "unknown arg shade")
}

func TestParseArgumentsBadEnumValue(t *testing.T) {
	schema := buildPaletteSchema(t)

	field := schema.Query.(*graphql.Object).Fields["palette"]
	_, err := field.ParseArguments(map[string]interface{}{
		"name":  "warm",
		"color": "BLUE",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "BLUE is not a valid value of enum color")
}

type paintOrder struct {
	Color color
	Count int64
}

func TestRegisteredInputObjects(t *testing.T) {
	s := schemagen.NewNamespacedSchema("Paint")
	s.Enum(color(0), map[string]interface{}{
		"RED":   red,
		"GREEN": green,
	})

	input := s.InputObject("PaintOrderInput", paintOrder{})
	input.FieldFunc("color", func(target *paintOrder, source color) {
		target.Color = source
	})
	input.FieldFunc("count", func(target *paintOrder, source int64) {
		target.Count = source
	})

	q := s.Query()
	q.FieldFunc("orderTotal", func(ctx context.Context, args struct {
		Order paintOrder
	}) int64 {
		return args.Order.Count
	})

	schema, err := s.Build()
	require.NoError(t, err)

	field := schema.Query.(*graphql.Object).Fields["orderTotal"]
	args, err := field.ParseArguments(map[string]interface{}{
		"order": map[string]interface{}{
			"color": "GREEN",
			"count": int64(3),
		},
	})
	require.NoError(t, err)

	parsed := args.(struct{ Order paintOrder })
	require.Equal(t, green, parsed.Order.Color)
	require.Equal(t, int64(3), parsed.Order.Count)

	_, err = field.ParseArguments(map[string]interface{}{
		"order": map[string]interface{}{"amount": int64(3)},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field amount")
}

func TestBuildKeyFieldNotRegistered(t *testing.T) {
	s := schemagen.NewSchema()
	obj := s.Object("Palette", palette{})
	obj.Key("id")
	obj.FieldFunc("name", func(p *palette) string { return p.Name })

	s.Query().FieldFunc("palette", func() palette { return palette{} })

	_, err := s.Build()
	require.Error(t, err)
	require.Contains(t, err.Error(), "key field id not registered on type Palette")
}

type stamped struct {
	At time.Time
}

func TestCustomScalar(t *testing.T) {
	err := schemagen.RegisterScalar(timeType(), "DateTime", func(value interface{}, dest reflect.Value) error {
		s, ok := value.(string)
		if !ok {
			return errors.New("invalid type expected string")
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		dest.Set(reflect.ValueOf(parsed))
		return nil
	})
	require.NoError(t, err)

	s := schemagen.NewSchema()
	obj := s.Object("Stamped", stamped{})
	obj.FieldFunc("at", func(v *stamped) time.Time { return v.At })

	s.Query().FieldFunc("stamped", func(ctx context.Context, args struct {
		At time.Time
	}) stamped {
		return stamped{At: args.At}
	})

	schema, err := s.Build()
	require.NoError(t, err)
	require.Contains(t, schema.Types, "DateTime")

	field := schema.Query.(*graphql.Object).Fields["stamped"]
	args, err := field.ParseArguments(map[string]interface{}{
		"at": "2026-01-02T15:04:05Z",
	})
	require.NoError(t, err)
	parsed := args.(struct{ At time.Time })
	require.Equal(t, 2026, parsed.At.Year())
}

func timeType() reflect.Type {
	return reflect.TypeOf(time.Time{})
}

type payload struct {
	Meta schemagen.Map
}

func TestOpaqueScalars(t *testing.T) {
	s := schemagen.NewSchema()
	obj := s.Object("Payload", payload{})
	obj.FieldFunc("meta", func(p *payload) schemagen.Map { return p.Meta })
	obj.FieldFunc("at", func(p *payload) schemagen.Timestamp {
		return schemagen.Timestamp{Seconds: 1735689600}
	})

	s.Query().FieldFunc("payload", func(ctx context.Context, args struct {
		Meta schemagen.Map
	}) payload {
		return payload{Meta: args.Meta}
	})

	schema, err := s.Build()
	require.NoError(t, err)
	require.Contains(t, schema.Types, "Map")
	require.Contains(t, schema.Types, "Timestamp")

	// Map arguments arrive base64-encoded on the wire.
	field := schema.Query.(*graphql.Object).Fields["payload"]
	args, err := field.ParseArguments(map[string]interface{}{
		"meta": base64.StdEncoding.EncodeToString([]byte("region=eu-west")),
	})
	require.NoError(t, err)
	parsed := args.(struct{ Meta schemagen.Map })
	require.Equal(t, "region=eu-west", parsed.Meta.Value)

	out, err := json.Marshal(schemagen.Timestamp{Seconds: 1735689600})
	require.NoError(t, err)
	var rendered string
	require.NoError(t, json.Unmarshal(out, &rendered))
	at, err := time.Parse(time.RFC3339, rendered)
	require.NoError(t, err)
	require.True(t, at.Equal(time.Unix(1735689600, 0)))
}
