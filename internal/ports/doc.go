// Package ports defines the interfaces (ports) that connect the client core
// to infrastructure adapters.
//
// Ports are the boundaries between the buffering core and the outside world.
// They define what the core needs from external systems without specifying
// how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [Codec]: Encodes and decodes records for the buffer and batch body
//   - [BatchSender]: Ships a serialized batch to the ingestion service
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The client core (internal/client) depends only on these interfaces.
// Infrastructure adapters (internal/adapters, internal/codec) implement them
// with concrete implementations (net/http, encoding/json).
//
// This separation enables:
//   - Testing the flush policy with in-memory codecs and fake senders
//   - Swapping the wire format without changing buffering logic
//   - Clear boundaries and dependency direction
package ports
