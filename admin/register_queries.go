package admin

import (
	"context"

	"go.cachewatch.io/adminapi/schemagen"
)

// registerUserQueries registers the query fields of the User entity.
func registerUserQueries(sb *schemagen.Schema, store *Store) {
	q := sb.Query()

	q.FieldFunc("user", func(ctx context.Context, args struct {
		ID schemagen.ID
	}) (*User, error) {
		return store.User(args.ID.Value)
	}, "Fetch a user by id.")

	q.FieldFunc("users", func(ctx context.Context) []*User {
		return store.Users()
	}, "All admin users.")
}

// registerCacheItemQueries registers the query fields of the CacheItem
// entity.
func registerCacheItemQueries(sb *schemagen.Schema, store *Store) {
	q := sb.Query()

	q.FieldFunc("cacheItem", func(ctx context.Context, args struct {
		Key string
	}) (*CacheItem, error) {
		return store.CacheItem(args.Key)
	}, "Fetch a cache entry by key.")

	q.FieldFunc("cacheItems", func(ctx context.Context, args struct {
		Region *string
	}) []*CacheItem {
		return store.CacheItems(args.Region)
	}, "Cache entries, optionally filtered by region.")
}

// registerInconsistencyQueries registers the query fields of the
// Inconsistency entity.
func registerInconsistencyQueries(sb *schemagen.Schema, store *Store) {
	q := sb.Query()

	q.FieldFunc("inconsistency", func(ctx context.Context, args struct {
		ID schemagen.ID
	}) (*Inconsistency, error) {
		return store.Inconsistency(args.ID.Value)
	}, "Fetch an inconsistency record by id.")

	q.FieldFunc("inconsistencies", func(ctx context.Context, args struct {
		OnlyOpen *bool
	}) []*Inconsistency {
		onlyOpen := args.OnlyOpen != nil && *args.OnlyOpen
		return store.Inconsistencies(onlyOpen)
	}, "Recorded inconsistencies, optionally restricted to open ones.")
}
