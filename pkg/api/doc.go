// Package api defines the request and response messages exchanged with the
// splitbook RPC services. Messages are plain structs encoded as JSON; money
// fields are decimal strings so no precision is lost on the wire.
package api
