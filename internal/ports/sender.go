package ports

import "context"

// BatchSender transmits one already-serialized batch document to the
// ingestion service. Implementations handle authentication, transport, and
// response validation.
type BatchSender interface {
	// Send posts the batch body and interprets the acknowledgement.
	// Returns nil when the service accepted the batch. Returns a
	// *domain.TransportError when the batch may never have arrived, and a
	// *domain.RejectionError when the service received and refused it.
	// No retries are performed; retry policy belongs to the caller.
	Send(ctx context.Context, body []byte) error
}
