// Package api defines the messages exchanged by the docelucro RPC services.
//
// Messages are plain Go structs encoded as JSON with lowerCamelCase field
// names, the same shape protojson would produce. Register Codec on both
// handlers and clients (see package apiconnect) so Connect uses it instead of
// its protobuf codecs.
package api
