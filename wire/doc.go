// Package wire defines the RoutingMessage envelope and its CBOR-encoded
// body types, plus the fingerprint used for duplicate suppression.
package wire
