// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Two services cover the feed:
//
//   - AccountService: registration, login and the user's status line.
//   - FeedService: creating, listing, viewing, editing and deleting posts.
//
// Services receive their dependencies through constructor injection. The
// caller's identity arrives on the context (see auth.IdentityFromContext);
// services decide authentication and ownership themselves and return the
// sentinel errors in errors.go, which the API layer maps to status codes.
package service
