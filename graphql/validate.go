package graphql

import (
	"context"
	"fmt"
)

// ValidateQuery checks a selection set against the type it will be executed
// on: every selected field must exist, leaf fields must not carry a
// subselection, and composite fields must carry one.
func ValidateQuery(ctx context.Context, root Type, selectionSet *SelectionSet) error {
	switch root := root.(type) {
	case *NonNull:
		return ValidateQuery(ctx, root.Type, selectionSet)

	case *List:
		return ValidateQuery(ctx, root.Type, selectionSet)

	case *Scalar, *Enum:
		if selectionSet != nil && (len(selectionSet.Selections) > 0 || len(selectionSet.Fragments) > 0) {
			return fmt.Errorf("cannot select fields on leaf type %s", root)
		}
		return nil

	case *Object:
		if selectionSet == nil || (len(selectionSet.Selections) == 0 && len(selectionSet.Fragments) == 0) {
			return fmt.Errorf("object type %s must have a selection of subfields", root.Name)
		}

		for _, selection := range selectionSet.Selections {
			if selection.Name == "__typename" {
				if selection.SelectionSet != nil {
					return fmt.Errorf("cannot select fields on __typename")
				}
				continue
			}

			field, ok := root.Fields[selection.Name]
			if !ok {
				return fmt.Errorf("unknown field %q on type %q", selection.Name, root.Name)
			}
			if err := ValidateQuery(ctx, field.Type, selection.SelectionSet); err != nil {
				return err
			}
		}

		for _, fragment := range selectionSet.Fragments {
			if on := fragment.Fragment.On; on != "" && on != root.Name {
				return fmt.Errorf("fragment on %s cannot be applied to %s", on, root.Name)
			}
			if err := ValidateQuery(ctx, root, fragment.Fragment.SelectionSet); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("cannot query type %s", root)
	}
}
