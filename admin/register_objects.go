package admin

import (
	"time"

	"go.cachewatch.io/adminapi/schemagen"
)

// registerUserObject registers the User output object. Every exposed field
// is mapped explicitly so the schema shape is visible in one place.
func registerUserObject(sb *schemagen.Schema) {
	user := sb.Object("User", User{}, "An operator account on the admin surface.")
	user.Key("id")

	user.FieldFunc("id", func(u *User) schemagen.ID { return u.ID })
	user.FieldFunc("name", func(u *User) string { return u.Name })
	user.FieldFunc("email", func(u *User) string { return u.Email })
	user.FieldFunc("role", func(u *User) Role { return u.Role })
	user.FieldFunc("active", func(u *User) bool { return u.Active })
	user.FieldFunc("createdAt", func(u *User) time.Time { return u.CreatedAt })
}

// registerCacheItemObject registers the CacheItem output object.
func registerCacheItemObject(sb *schemagen.Schema) {
	item := sb.Object("CacheItem", CacheItem{}, "One entry of the watched cache.")
	item.Key("key")

	item.FieldFunc("key", func(c *CacheItem) string { return c.Key })
	item.FieldFunc("region", func(c *CacheItem) string { return c.Region })
	item.FieldFunc("sizeBytes", func(c *CacheItem) int64 { return c.SizeBytes })
	item.FieldFunc("hitCount", func(c *CacheItem) int64 { return c.HitCount })
	item.FieldFunc("checksum", func(c *CacheItem) schemagen.Bytes {
		return schemagen.Bytes{Value: c.Checksum}
	})
	item.FieldFunc("ttl", func(c *CacheItem) schemagen.Duration {
		return schemagen.Duration{Seconds: int64(c.ExpiresAt.Sub(c.StoredAt) / time.Second)}
	})
	item.FieldFunc("storedAt", func(c *CacheItem) time.Time { return c.StoredAt })
	item.FieldFunc("expiresAt", func(c *CacheItem) time.Time { return c.ExpiresAt })
	item.FieldFunc("expired", func(c *CacheItem) bool { return time.Now().After(c.ExpiresAt) })
}

// registerInconsistencyObject registers the Inconsistency output object.
func registerInconsistencyObject(sb *schemagen.Schema) {
	record := sb.Object("Inconsistency", Inconsistency{}, "A detected divergence between a cached value and its source.")
	record.Key("id")

	record.FieldFunc("id", func(i *Inconsistency) schemagen.ID { return i.ID })
	record.FieldFunc("key", func(i *Inconsistency) string { return i.Key })
	record.FieldFunc("kind", func(i *Inconsistency) InconsistencyKind { return i.Kind })
	record.FieldFunc("detail", func(i *Inconsistency) string { return i.Detail })
	record.FieldFunc("detectedAt", func(i *Inconsistency) time.Time { return i.DetectedAt })
	record.FieldFunc("resolved", func(i *Inconsistency) bool { return i.Resolved })
	record.FieldFunc("resolvedBy", func(i *Inconsistency) string { return i.ResolvedBy })
}
