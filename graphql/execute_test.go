package graphql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"

	"go.cachewatch.io/adminapi/graphql"
)

type item struct {
	Key  string
	Size int64
}

// testSchema builds a small type graph by hand: a query root with scalar,
// object, list and enum fields.
func testSchema() graphql.Type {
	itemType := &graphql.Object{
		Name: "Item",
		Fields: map[string]*graphql.Field{
			"key": {
				Type: &graphql.NonNull{Type: &graphql.Scalar{Type: "String"}},
				Resolve: func(ctx context.Context, source, args interface{}, set *graphql.SelectionSet) (interface{}, error) {
					return source.(*item).Key, nil
				},
			},
			"size": {
				Type: &graphql.NonNull{Type: &graphql.Scalar{Type: "Int64"}},
				Resolve: func(ctx context.Context, source, args interface{}, set *graphql.SelectionSet) (interface{}, error) {
					return source.(*item).Size, nil
				},
			},
		},
	}

	kindType := &graphql.Enum{
		Type:   "Kind",
		Values: []string{"MISSING", "STALE"},
		ReverseMap: map[interface{}]string{
			1: "MISSING",
			2: "STALE",
		},
	}

	items := []*item{
		{Key: "a", Size: 1},
		{Key: "b", Size: 2},
	}

	return &graphql.Object{
		Name: "Query",
		Fields: map[string]*graphql.Field{
			"items": {
				Type: &graphql.List{Type: itemType},
				Resolve: func(ctx context.Context, source, args interface{}, set *graphql.SelectionSet) (interface{}, error) {
					return items, nil
				},
			},
			"missingItem": {
				Type: itemType,
				Resolve: func(ctx context.Context, source, args interface{}, set *graphql.SelectionSet) (interface{}, error) {
					return (*item)(nil), nil
				},
			},
			"kind": {
				Type: kindType,
				Resolve: func(ctx context.Context, source, args interface{}, set *graphql.SelectionSet) (interface{}, error) {
					return 2, nil
				},
			},
			"fails": {
				Type: &graphql.Scalar{Type: "String"},
				Resolve: func(ctx context.Context, source, args interface{}, set *graphql.SelectionSet) (interface{}, error) {
					return nil, errors.New("resolver blew up")
				},
			},
			"requiredKind": {
				Type: &graphql.NonNull{Type: kindType},
				Resolve: func(ctx context.Context, source, args interface{}, set *graphql.SelectionSet) (interface{}, error) {
					return 1, nil
				},
			},
		},
	}
}

func execute(t *testing.T, queryString string) (interface{}, error) {
	t.Helper()

	query, err := graphql.Parse(queryString, nil)
	require.NoError(t, err)

	executor := &graphql.Executor{}
	return executor.Execute(context.Background(), testSchema(), nil, query)
}

func TestExecuteObjectAndList(t *testing.T) {
	output, err := execute(t, `{ items { key size } }`)
	require.NoError(t, err)

	want := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"key": "a", "size": int64(1)},
			map[string]interface{}{"key": "b", "size": int64(2)},
		},
	}
	if diff := pretty.Compare(output, want); diff != "" {
		t.Errorf("unexpected output: %s", diff)
	}
}

func TestExecuteAliases(t *testing.T) {
	output, err := execute(t, `{ all: items { k: key } }`)
	require.NoError(t, err)

	want := map[string]interface{}{
		"all": []interface{}{
			map[string]interface{}{"k": "a"},
			map[string]interface{}{"k": "b"},
		},
	}
	if diff := pretty.Compare(output, want); diff != "" {
		t.Errorf("unexpected output: %s", diff)
	}
}

func TestExecuteTypename(t *testing.T) {
	output, err := execute(t, `{ items { __typename } }`)
	require.NoError(t, err)

	data, ok := output.(map[string]interface{})
	require.True(t, ok, "expected an object result, got %T", output)
	items, ok := data["items"].([]interface{})
	require.True(t, ok, "expected a list of items, got %T", data["items"])
	require.NotEmpty(t, items)
	require.Equal(t, "Item", items[0].(map[string]interface{})["__typename"])
}

// The executor is always handed a nil source for the operation root; that
// must not short-circuit to a null result.
func TestExecuteNilRootSource(t *testing.T) {
	query, err := graphql.Parse(`{ kind requiredKind }`, nil)
	require.NoError(t, err)

	executor := &graphql.Executor{}
	output, err := executor.Execute(context.Background(), testSchema(), nil, query)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"kind": "STALE", "requiredKind": "MISSING"}, output)
}

func TestExecuteNilObject(t *testing.T) {
	output, err := execute(t, `{ missingItem { key } }`)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"missingItem": nil}, output)
}

func TestExecuteEnum(t *testing.T) {
	output, err := execute(t, `{ kind }`)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"kind": "STALE"}, output)
}

func TestExecuteResolverError(t *testing.T) {
	_, err := execute(t, `{ fails }`)
	require.EqualError(t, err, "resolver blew up")
}

func TestExecuteSkipInclude(t *testing.T) {
	output, err := execute(t, `{
		kind @skip(if: true)
		requiredKind @include(if: true)
	}`)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"requiredKind": "MISSING"}, output)
}

func TestExecuteFragmentsMerge(t *testing.T) {
	query, err := graphql.Parse(`
		query { items { ...keys ...sizes } }
		fragment keys on Item { key }
		fragment sizes on Item { size }
	`, nil)
	require.NoError(t, err)

	executor := &graphql.Executor{}
	output, err := executor.Execute(context.Background(), testSchema(), nil, query)
	require.NoError(t, err)

	want := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"key": "a", "size": int64(1)},
			map[string]interface{}{"key": "b", "size": int64(2)},
		},
	}
	if diff := pretty.Compare(output, want); diff != "" {
		t.Errorf("unexpected output: %s", diff)
	}
}

// A parsed query may be executed many times, once per subscription event.
// Overlapping fragments must merge into fresh selections instead of growing
// the query in place.
func TestExecuteRepeatedDoesNotMutateQuery(t *testing.T) {
	query, err := graphql.Parse(`
		query { ...keys ...sizes }
		fragment keys on Query { items { key } }
		fragment sizes on Query { items { size } }
	`, nil)
	require.NoError(t, err)

	want := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"key": "a", "size": int64(1)},
			map[string]interface{}{"key": "b", "size": int64(2)},
		},
	}

	executor := &graphql.Executor{}
	for i := 0; i < 3; i++ {
		output, err := executor.Execute(context.Background(), testSchema(), nil, query)
		require.NoError(t, err)
		if diff := pretty.Compare(output, want); diff != "" {
			t.Fatalf("unexpected output on execution %d: %s", i+1, diff)
		}
	}

	keysItems := query.SelectionSet.Fragments[0].Fragment.SelectionSet.Selections[0]
	require.Equal(t, "items", keysItems.Name)
	require.Len(t, keysItems.SelectionSet.Selections, 1)
}

func TestExecuteUnknownField(t *testing.T) {
	_, err := execute(t, `{ nope }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown field "nope"`)
}

func TestExecuteContextCancelled(t *testing.T) {
	query, err := graphql.Parse(`{ kind }`, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := &graphql.Executor{}
	_, err = executor.Execute(ctx, testSchema(), nil, query)
	require.ErrorIs(t, err, context.Canceled)
}
