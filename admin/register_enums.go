package admin

import "go.cachewatch.io/adminapi/schemagen"

// registerRoleEnum registers the Role enum.
func registerRoleEnum(sb *schemagen.Schema) {
	sb.Enum(RoleViewer, map[string]interface{}{
		"ADMIN":    RoleAdmin,
		"OPERATOR": RoleOperator,
		"VIEWER":   RoleViewer,
	}, "Access level of an admin user (ADMIN full, OPERATOR acts on caches, VIEWER read-only).")
}

// registerInconsistencyKindEnum registers the InconsistencyKind enum.
func registerInconsistencyKindEnum(sb *schemagen.Schema) {
	sb.Enum(KindStale, map[string]interface{}{
		"MISSING":  KindMissing,
		"STALE":    KindStale,
		"DIVERGED": KindDiverged,
	}, "How a cached value diverged from its source of truth.")
}
