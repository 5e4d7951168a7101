package admin

import (
	"context"

	"go.cachewatch.io/adminapi/events"
	"go.cachewatch.io/adminapi/schemagen"
)

// Mutations is the mutation-handler group of the Admin schema. All write
// operations of the surface live here.
type Mutations struct {
	Store *Store
	Feed  *events.Feed
}

// RegisterMutations implements schemagen.MutationGroup.
func (m Mutations) RegisterMutations(sb *schemagen.Schema) {
	mut := sb.Mutation()

	mut.FieldFunc("createUser", func(ctx context.Context, args struct {
		Input CreateUserInput
	}) (*User, error) {
		return m.Store.CreateUser(args.Input.Name, args.Input.Email, args.Input.Role)
	}, "Creates a new active admin user.")

	mut.FieldFunc("setUserActive", func(ctx context.Context, args struct {
		ID     schemagen.ID
		Active bool
	}) (*User, error) {
		return m.Store.SetUserActive(args.ID.Value, args.Active)
	}, "Activates or deactivates a user.")

	mut.FieldFunc("evictCacheItem", func(ctx context.Context, args struct {
		Key string
	}) (*CacheItem, error) {
		return m.Store.EvictCacheItem(args.Key)
	}, "Removes a cache entry and returns the evicted entry.")

	mut.FieldFunc("reportInconsistency", func(ctx context.Context, args struct {
		Input ReportInconsistencyInput
	}) (*Inconsistency, error) {
		record := m.Store.ReportInconsistency(args.Input.Key, args.Input.Kind, args.Input.Detail)
		if m.Feed != nil {
			if err := m.Feed.Publish(ctx, record); err != nil {
				return nil, err
			}
		}
		return record, nil
	}, "Records a detected inconsistency and notifies subscribers.")

	mut.FieldFunc("resolveInconsistency", func(ctx context.Context, args struct {
		ID         schemagen.ID
		ResolvedBy string
	}) (*Inconsistency, error) {
		return m.Store.ResolveInconsistency(args.ID.Value, args.ResolvedBy)
	}, "Marks an inconsistency resolved.")
}
