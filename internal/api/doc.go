// Package api holds the REST surface of the service: the image upload and
// download handlers, and the single mapping from internal errors to HTTP
// status codes and client messages shared with the GraphQL endpoint.
package api
