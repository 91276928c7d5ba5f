// Package apiconnect binds the splitbook services to Connect. It plays the
// role generated *connect packages usually do, over the plain JSON messages
// in package api.
package apiconnect

import (
	"encoding/json"
	"strings"

	"connectrpc.com/connect"
)

// Codec marshals api messages as JSON. It registers under the name "json",
// so Connect serves it as application/json.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (Codec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

func trimBase(baseURL string) string { return strings.TrimRight(baseURL, "/") }
