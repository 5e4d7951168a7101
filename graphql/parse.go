package graphql

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
)

// Parse parses a GraphQL request into a Query, substituting the given
// variables into argument positions. The request must contain exactly one
// operation; named fragments are resolved into the returned selection sets.
func Parse(query string, variables map[string]interface{}) (*Query, error) {
	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{
			Body: []byte(query),
			Name: "GraphQL request",
		}),
	})
	if err != nil {
		return nil, err
	}

	var operation *ast.OperationDefinition
	fragmentASTs := make(map[string]*ast.FragmentDefinition)

	for _, def := range doc.Definitions {
		switch def := def.(type) {
		case *ast.OperationDefinition:
			if operation != nil {
				return nil, errors.New("must have a single query")
			}
			operation = def
		case *ast.FragmentDefinition:
			name := def.Name.Value
			if _, ok := fragmentASTs[name]; ok {
				return nil, fmt.Errorf("duplicate fragment %s", name)
			}
			fragmentASTs[name] = def
		default:
			return nil, fmt.Errorf("unsupported definition %s", def.GetKind())
		}
	}

	if operation == nil {
		return nil, errors.New("must have a single query")
	}

	c := &converter{
		variables: variables,
		fragments: fragmentASTs,
		converted: make(map[string]*FragmentDefinition),
		visiting:  make(map[string]bool),
	}

	selectionSet, err := c.convertSelectionSet(operation.SelectionSet)
	if err != nil {
		return nil, err
	}

	name := ""
	if operation.Name != nil {
		name = operation.Name.Value
	}

	return &Query{
		Name:         name,
		Kind:         operation.Operation,
		SelectionSet: selectionSet,
	}, nil
}

// converter carries the state needed to turn the third-party AST into this
// package's selection sets, resolving fragment spreads along the way.
type converter struct {
	variables map[string]interface{}
	fragments map[string]*ast.FragmentDefinition
	converted map[string]*FragmentDefinition
	visiting  map[string]bool
}

func (c *converter) convertSelectionSet(set *ast.SelectionSet) (*SelectionSet, error) {
	if set == nil {
		return nil, nil
	}

	result := &SelectionSet{}

	for _, sel := range set.Selections {
		switch sel := sel.(type) {
		case *ast.Field:
			name := sel.Name.Value
			alias := name
			if sel.Alias != nil {
				alias = sel.Alias.Value
			}

			args, err := c.convertArguments(sel.Arguments)
			if err != nil {
				return nil, err
			}

			directives, err := c.convertDirectives(sel.Directives)
			if err != nil {
				return nil, err
			}

			childSet, err := c.convertSelectionSet(sel.SelectionSet)
			if err != nil {
				return nil, err
			}

			result.Selections = append(result.Selections, &Selection{
				Name:         name,
				Alias:        alias,
				Args:         args,
				SelectionSet: childSet,
				Directives:   directives,
			})

		case *ast.FragmentSpread:
			fragment, err := c.convertFragment(sel.Name.Value)
			if err != nil {
				return nil, err
			}

			directives, err := c.convertDirectives(sel.Directives)
			if err != nil {
				return nil, err
			}

			result.Fragments = append(result.Fragments, &FragmentSpread{
				Fragment:   fragment,
				Directives: directives,
			})

		case *ast.InlineFragment:
			on := ""
			if sel.TypeCondition != nil {
				on = sel.TypeCondition.Name.Value
			}

			childSet, err := c.convertSelectionSet(sel.SelectionSet)
			if err != nil {
				return nil, err
			}

			directives, err := c.convertDirectives(sel.Directives)
			if err != nil {
				return nil, err
			}

			result.Fragments = append(result.Fragments, &FragmentSpread{
				Fragment: &FragmentDefinition{
					On:           on,
					SelectionSet: childSet,
				},
				Directives: directives,
			})

		default:
			return nil, fmt.Errorf("unsupported selection kind %T", sel)
		}
	}

	return result, nil
}

func (c *converter) convertFragment(name string) (*FragmentDefinition, error) {
	if fragment, ok := c.converted[name]; ok {
		return fragment, nil
	}
	if c.visiting[name] {
		return nil, fmt.Errorf("fragment cycle through %s", name)
	}

	def, ok := c.fragments[name]
	if !ok {
		return nil, fmt.Errorf("unknown fragment %s", name)
	}

	c.visiting[name] = true
	selectionSet, err := c.convertSelectionSet(def.SelectionSet)
	delete(c.visiting, name)
	if err != nil {
		return nil, err
	}

	fragment := &FragmentDefinition{
		Name:         name,
		On:           def.TypeCondition.Name.Value,
		SelectionSet: selectionSet,
	}
	c.converted[name] = fragment
	return fragment, nil
}

func (c *converter) convertArguments(args []*ast.Argument) (interface{}, error) {
	if len(args) == 0 {
		return nil, nil
	}

	result := make(map[string]interface{}, len(args))
	for _, arg := range args {
		value, err := c.convertValue(arg.Value)
		if err != nil {
			return nil, err
		}
		result[arg.Name.Value] = value
	}
	return result, nil
}

func (c *converter) convertDirectives(directives []*ast.Directive) ([]*Directive, error) {
	if len(directives) == 0 {
		return nil, nil
	}

	result := make([]*Directive, 0, len(directives))
	for _, d := range directives {
		args, err := c.convertArguments(d.Arguments)
		if err != nil {
			return nil, err
		}
		result = append(result, &Directive{
			Name: d.Name.Value,
			Args: args,
		})
	}
	return result, nil
}

// convertValue maps an AST value onto the JSON-shaped representation that
// argument parsers consume. Variables are substituted from the request.
func (c *converter) convertValue(value ast.Value) (interface{}, error) {
	switch value := value.(type) {
	case *ast.Variable:
		return c.variables[value.Name.Value], nil
	case *ast.IntValue:
		n, err := strconv.ParseInt(value.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int arg: %s", value.Value)
		}
		return n, nil
	case *ast.FloatValue:
		f, err := strconv.ParseFloat(value.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float arg: %s", value.Value)
		}
		return f, nil
	case *ast.StringValue:
		return value.Value, nil
	case *ast.BooleanValue:
		return value.Value, nil
	case *ast.EnumValue:
		return value.Value, nil
	case *ast.ListValue:
		list := make([]interface{}, 0, len(value.Values))
		for _, item := range value.Values {
			converted, err := c.convertValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, converted)
		}
		return list, nil
	case *ast.ObjectValue:
		object := make(map[string]interface{}, len(value.Fields))
		for _, field := range value.Fields {
			converted, err := c.convertValue(field.Value)
			if err != nil {
				return nil, err
			}
			object[field.Name.Value] = converted
		}
		return object, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %s", value.GetKind())
	}
}
