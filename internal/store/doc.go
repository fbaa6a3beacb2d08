// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. The feed service ships a PostgreSQL and a
// MongoDB implementation; both guarantee single-record atomicity only.
package store
