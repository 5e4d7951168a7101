package graphql

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// Executor evaluates a validated query against a schema root. The zero
// value is ready to use; an Executor carries no state between queries.
type Executor struct{}

// Execute runs the query against the root type and returns the response
// data. Resolver errors abort execution and are returned unchanged so the
// transport layer can classify them.
func (e *Executor) Execute(ctx context.Context, root Type, source interface{}, query *Query) (interface{}, error) {
	return e.execute(ctx, root, source, query.SelectionSet)
}

func (e *Executor) execute(ctx context.Context, typ Type, source interface{}, selectionSet *SelectionSet) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch typ := typ.(type) {
	case *NonNull:
		value, err := e.execute(ctx, typ.Type, source, selectionSet)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, fmt.Errorf("cannot return null for non-nullable type %s", typ.Type)
		}
		return value, nil

	case *List:
		return e.executeList(ctx, typ, source, selectionSet)

	case *Scalar:
		if typ.Unwrapper != nil {
			return typ.Unwrapper(source)
		}
		return source, nil

	case *Enum:
		if value, ok := typ.ReverseMap[source]; ok {
			return value, nil
		}
		return nil, fmt.Errorf("%v is not a valid value of enum %s", source, typ.Type)

	case *Object:
		return e.executeObject(ctx, typ, source, selectionSet)

	default:
		return nil, fmt.Errorf("cannot execute type %s", typ)
	}
}

func (e *Executor) executeList(ctx context.Context, typ *List, source interface{}, selectionSet *SelectionSet) (interface{}, error) {
	if source == nil {
		return nil, nil
	}

	v := reflect.ValueOf(source)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("list type %s resolved to non-list value %T", typ, source)
	}

	items := make([]interface{}, v.Len())
	for i := 0; i < v.Len(); i++ {
		value, err := e.execute(ctx, typ.Type, v.Index(i).Interface(), selectionSet)
		if err != nil {
			return nil, err
		}
		items[i] = value
	}
	return items, nil
}

func (e *Executor) executeObject(ctx context.Context, typ *Object, source interface{}, selectionSet *SelectionSet) (interface{}, error) {
	// An untyped nil is the root of the operation before any resolver has
	// run; only a typed nil produced by a resolver is a null object.
	if isNil(source) {
		return nil, nil
	}

	selections, err := flatten(selectionSet, typ.Name)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{}, len(selections))
	for _, selection := range selections {
		if selection.Name == "__typename" {
			fields[selection.Alias] = typ.Name
			continue
		}

		field, ok := typ.Fields[selection.Name]
		if !ok {
			return nil, fmt.Errorf("unknown field %q on type %q", selection.Name, typ.Name)
		}

		if field.ParseArguments != nil && !selection.parsed {
			parsed, err := field.ParseArguments(selection.Args)
			if err != nil {
				return nil, fmt.Errorf("%s: %v", selection.Name, err)
			}
			selection.Args = parsed
			selection.parsed = true
		}

		resolved, err := field.Resolve(ctx, source, selection.Args, selection.SelectionSet)
		if err != nil {
			return nil, err
		}

		value, err := e.execute(ctx, field.Type, resolved, selection.SelectionSet)
		if err != nil {
			return nil, err
		}
		fields[selection.Alias] = value
	}

	return fields, nil
}

// flatten expands fragment spreads into a flat ordered list of selections,
// dropping selections excluded by skip/include directives and merging
// duplicate aliases so overlapping fragments select once.
func flatten(selectionSet *SelectionSet, typeName string) ([]*Selection, error) {
	var result []*Selection
	byAlias := make(map[string]*Selection)

	add := func(selection *Selection) {
		prev, ok := byAlias[selection.Alias]
		if !ok {
			byAlias[selection.Alias] = selection
			result = append(result, selection)
			return
		}
		if prev.SelectionSet == nil || selection.SelectionSet == nil {
			return
		}
		// Merge into a copy: the parsed query is reused across executions
		// and must not grow.
		merged := &Selection{
			Name:       prev.Name,
			Alias:      prev.Alias,
			Args:       prev.Args,
			Directives: prev.Directives,
			SelectionSet: &SelectionSet{
				Selections: append(append([]*Selection(nil), prev.SelectionSet.Selections...), selection.SelectionSet.Selections...),
				Fragments:  append(append([]*FragmentSpread(nil), prev.SelectionSet.Fragments...), selection.SelectionSet.Fragments...),
			},
			parsed: prev.parsed,
		}
		byAlias[selection.Alias] = merged
		for i, existing := range result {
			if existing == prev {
				result[i] = merged
			}
		}
	}

	var walk func(*SelectionSet) error
	walk = func(set *SelectionSet) error {
		if set == nil {
			return nil
		}
		for _, selection := range set.Selections {
			include, err := shouldInclude(selection.Directives)
			if err != nil {
				return err
			}
			if include {
				add(selection)
			}
		}
		for _, fragment := range set.Fragments {
			include, err := shouldInclude(fragment.Directives)
			if err != nil {
				return err
			}
			if !include {
				continue
			}
			if on := fragment.Fragment.On; on != "" && on != typeName {
				continue
			}
			if err := walk(fragment.Fragment.SelectionSet); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(selectionSet); err != nil {
		return nil, err
	}
	return result, nil
}

func shouldInclude(directives []*Directive) (bool, error) {
	for _, directive := range directives {
		switch directive.Name {
		case "skip", "include":
			condition, err := directiveIf(directive)
			if err != nil {
				return false, err
			}
			if directive.Name == "skip" && condition {
				return false, nil
			}
			if directive.Name == "include" && !condition {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported directive @%s", directive.Name)
		}
	}
	return true, nil
}

func directiveIf(directive *Directive) (bool, error) {
	args, ok := directive.Args.(map[string]interface{})
	if !ok {
		return false, errors.New("directive requires an if argument")
	}
	condition, ok := args["if"].(bool)
	if !ok {
		return false, fmt.Errorf("@%s if argument must be a boolean", directive.Name)
	}
	return condition, nil
}

// isNil reports whether a resolver produced a typed nil boxed in a non-nil
// interface. An untyped nil is not a resolved value and stays live.
func isNil(source interface{}) bool {
	if source == nil {
		return false
	}
	v := reflect.ValueOf(source)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}
