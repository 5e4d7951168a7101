package admin

import (
	"go.cachewatch.io/adminapi/events"
	"go.cachewatch.io/adminapi/graphql"
	"go.cachewatch.io/adminapi/schemagen"
)

// Namespace is the label scoping the generated schema to the
// administrative surface.
const Namespace = "Admin"

// Init assembles the Admin schema: the three exposed entity types, the
// Admin namespace, base types suppressed, and the single Mutations group.
// The result is the generator's output passed through unchanged; so are
// its errors. The caller owns the returned schema for the lifetime of the
// process.
func Init(store *Store, feed *events.Feed) (*graphql.Schema, error) {
	return schemagen.Generate(schemagen.Config{
		Types: []schemagen.TypeSpec{
			UserType{Store: store},
			CacheItemType{Store: store},
			InconsistencyType{Store: store},
		},
		Namespace:        Namespace,
		IncludeBaseTypes: false,
		MutationGroups: []schemagen.MutationGroup{
			Mutations{Store: store, Feed: feed},
		},
	})
}
