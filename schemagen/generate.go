package schemagen

import (
	"errors"

	"go.cachewatch.io/adminapi/graphql"
)

// TypeSpec registers one exposed entity type: its object, the inputs it
// needs, and its query fields.
type TypeSpec interface {
	RegisterType(s *Schema)
}

// MutationGroup registers a bundle of named mutation fields on a schema.
type MutationGroup interface {
	RegisterMutations(s *Schema)
}

// Config fixes the four inputs of schema generation: the exposed entity
// types, the namespace label scoping the schema, whether the implicitly
// shared base types are included, and the attached mutation groups.
type Config struct {
	Types            []TypeSpec
	Namespace        string
	IncludeBaseTypes bool
	MutationGroups   []MutationGroup
}

// Generate assembles a schema from the given configuration. Generation is
// deterministic: the same configuration always produces a structurally
// equivalent schema. Registration conflicts and invalid resolvers surface
// as build errors, unchanged.
func Generate(cfg Config) (*graphql.Schema, error) {
	if len(cfg.Types) == 0 {
		return nil, errors.New("schemagen: no types to expose")
	}

	s := NewNamespacedSchema(cfg.Namespace)

	if cfg.IncludeBaseTypes {
		for _, register := range baseTypes {
			register(s)
		}
	}

	for _, spec := range cfg.Types {
		spec.RegisterType(s)
	}
	for _, group := range cfg.MutationGroups {
		group.RegisterMutations(s)
	}

	return s.Build()
}
