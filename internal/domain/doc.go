// Package domain contains the core business entities of the feed service:
// users, the posts they author, and the invariants those entities must hold
// independent of any storage backend or delivery mechanism.
package domain
