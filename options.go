package recship

import (
	"github.com/benbjohnson/clock"

	"github.com/bft-labs/recship/internal/ports"
	"github.com/bft-labs/recship/pkg/log"
)

// Option configures optional behavior of a Client.
type Option func(*options)

// options holds the optional configuration for a Client.
type options struct {
	codec      ports.Codec
	sender     ports.BatchSender
	httpClient ports.HTTPClient
	logger     log.Logger
	clock      clock.Clock
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
		clock:  clock.New(),
	}
}

// WithCodec sets the serialization codec for records and batch bodies.
// If not provided, JSON is used.
func WithCodec(c Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithSender replaces the whole batch transport. The configured URL, token,
// and timeouts are ignored when a sender is supplied.
func WithSender(s BatchSender) Option {
	return func(o *options) {
		o.sender = s
	}
}

// WithHTTPClient sets a custom HTTP client for batch posts.
// If not provided, a default client with the configured timeouts is used.
func WithHTTPClient(c HTTPClient) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClock sets the clock used by the flush-interval trigger.
// Intended for tests; if not provided, the wall clock is used.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}
