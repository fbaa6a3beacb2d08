// Package postgres provides the PostgreSQL implementations of the
// store.UserStore and store.PostStore interfaces, along with the embedded
// goose migrations that create their schema.
//
// Stores run on database/sql over the pgx stdlib driver and accept a
// store.DBTX so they work with either a pool or a transaction.
package postgres
