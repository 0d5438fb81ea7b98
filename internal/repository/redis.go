package repository

// Redis key layout. Toggles live under a synthetic composite key that
// concatenates the tenant identifier and the toggle key; per-tenant
// index sets stand in for the secondary index a wide-column store
// would use for full scans.
//
//	toggles:<tenant>:<key>       toggle record (JSON envelope)
//	toggles:idx:<tenant>         set of toggle keys in the tenant
//	audits:<tenant>              sorted set, scored by timestamp
//	audits:<tenant>:user:<user>  per-user audit index
//	tenants:<key>                tenant record
//	tenants:idx                  set of all tenant keys

const keySeparator = ":"

func toggleKey(tenantID, key string) string {
	return "toggles" + keySeparator + tenantID + keySeparator + key
}

func toggleIndexKey(tenantID string) string {
	return "toggles" + keySeparator + "idx" + keySeparator + tenantID
}

func auditKey(tenantID string) string {
	return "audits" + keySeparator + tenantID
}

func auditUserKey(tenantID, user string) string {
	return auditKey(tenantID) + keySeparator + "user" + keySeparator + user
}

func tenantKey(key string) string {
	return "tenants" + keySeparator + key
}

const tenantIndexKey = "tenants" + keySeparator + "idx"
