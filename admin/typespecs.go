package admin

import "go.cachewatch.io/adminapi/schemagen"

// UserType exposes the User entity: its object, inputs and query fields.
type UserType struct {
	Store *Store
}

// RegisterType implements schemagen.TypeSpec.
func (t UserType) RegisterType(sb *schemagen.Schema) {
	registerDateTimeScalar()
	registerRoleEnum(sb)
	registerUserObject(sb)
	registerCreateUserInput(sb)
	registerUserQueries(sb, t.Store)
}

// CacheItemType exposes the CacheItem entity.
type CacheItemType struct {
	Store *Store
}

// RegisterType implements schemagen.TypeSpec.
func (t CacheItemType) RegisterType(sb *schemagen.Schema) {
	registerDateTimeScalar()
	registerCacheItemObject(sb)
	registerCacheItemQueries(sb, t.Store)
}

// InconsistencyType exposes the Inconsistency entity, including its
// subscription feed.
type InconsistencyType struct {
	Store *Store
}

// RegisterType implements schemagen.TypeSpec.
func (t InconsistencyType) RegisterType(sb *schemagen.Schema) {
	registerDateTimeScalar()
	registerInconsistencyKindEnum(sb)
	registerInconsistencyObject(sb)
	registerReportInconsistencyInput(sb)
	registerInconsistencyQueries(sb, t.Store)
	registerInconsistencySubscriptions(sb)
}
