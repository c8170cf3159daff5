// Package wire carries a plugin host across a Unix socket so the UI can
// run in a different process from the host.
//
// The connection is long-lived and carries a stream of self-delimiting
// CBOR values in both directions. The client sends [Request] values
// tagged with an id; the server answers each with a [Message] carrying
// the same id and pushes subscribed host events as messages with id 0.
//
// [Server] exposes any bridge.Host. [Client] implements bridge.Host, so
// a bridge.Adapter can use a remote host exactly like a local one. Every
// client call has a deadline; failures come back as errors, which the
// adapter turns into the absent/no-op behaviour of a missing host.
package wire
