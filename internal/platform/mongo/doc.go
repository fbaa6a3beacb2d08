// Package mongo provides MongoDB implementations of the store.UserStore and
// store.PostStore interfaces on the official mongo-driver.
//
// Users live in the "users" collection and carry an ordered "posts" array of
// post ids; posts live in "posts" and reference their creator by id. Ids are
// stored as canonical UUID strings in _id.
package mongo
