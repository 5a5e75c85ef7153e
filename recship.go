// Package recship provides a buffered client for shipping structured
// upsert/switch-view records to a remote ingestion endpoint.
//
// Records are encoded as they are pushed and accumulate in an in-memory
// buffer. The buffer is drained as one serialized batch over authenticated
// HTTP POST when it reaches the configured byte threshold or when the flush
// interval has elapsed at the next push. There is no background flushing:
// network I/O happens inline on the goroutine calling Push, Flush, or Close.
//
// Example usage:
//
//	cfg := recship.DefaultConfig()
//	cfg.ClientID = 1234
//	cfg.Token = "your-api-token"
//	cfg.Namespace = "prod"
//	cfg.TableName = "events"
//	cfg.KeyNames = []string{"id"}
//
//	c, err := recship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close(context.Background())
//
//	err = c.Push(ctx, recship.Message{
//	    Action: recship.ActionUpsert,
//	    Data:   map[string]any{"id": 1, "name": "n"},
//	})
package recship

import (
	httpadapter "github.com/bft-labs/recship/internal/adapters/http"
	"github.com/bft-labs/recship/internal/client"
	"github.com/bft-labs/recship/internal/codec"
	"github.com/bft-labs/recship/internal/domain"
	"github.com/bft-labs/recship/internal/ports"
	"github.com/bft-labs/recship/pkg/log"
)

// Client is the buffered record-shipping client. Use New to construct one.
type Client = client.Client

// Config holds the configuration for a Client.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = client.Config

// Message describes one change to one destination table.
type Message = domain.Message

// Record is the wire mapping derived from a Message plus client defaults.
type Record = domain.Record

// Action identifies what the destination should do with a record.
type Action = domain.Action

// Recognized actions.
const (
	ActionUpsert     = domain.ActionUpsert
	ActionSwitchView = domain.ActionSwitchView
)

// DefaultURL is the default ingestion endpoint for record batches.
const DefaultURL = client.DefaultURL

// RejectionError reports that the service received a batch and refused it.
type RejectionError = domain.RejectionError

// TransportError reports a failure before an acknowledgement was decoded.
type TransportError = domain.TransportError

// Errors returned by the client; check with errors.Is.
var (
	ErrMissingTableName = domain.ErrMissingTableName
	ErrMissingKeyNames  = domain.ErrMissingKeyNames
	ErrInvalidAction    = domain.ErrInvalidAction
	ErrCorruptBuffer    = domain.ErrCorruptBuffer
	ErrInvalidConfig    = domain.ErrInvalidConfig
)

// Codec serializes records for the buffer and the batch body.
type Codec = ports.Codec

// BatchSender ships one serialized batch document.
type BatchSender = ports.BatchSender

// HTTPClient abstracts HTTP operations. *http.Client satisfies it.
type HTTPClient = ports.HTTPClient

// Logger is the structured logging interface used by the client.
type Logger = log.Logger

// DefaultConfig returns a Config with default values.
// At minimum, set ClientID, Token, and Namespace before calling New.
func DefaultConfig() Config {
	return client.DefaultConfig()
}

// Int64 returns a pointer to v, for populating optional message fields.
func Int64(v int64) *int64 {
	return domain.Int64(v)
}

// UnmarshalMessage parses one JSON-encoded message written with the wire
// field names (table_name, key_names, action, table_version, sequence,
// data). This is the format the recship CLI reads line by line.
func UnmarshalMessage(b []byte) (Message, error) {
	return domain.UnmarshalMessage(b)
}

// New validates cfg and constructs a Client. By default records travel as
// JSON over HTTP with the configured timeouts; options override the codec,
// the transport, or the whole sender.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.codec == nil {
		o.codec = codec.NewJSON()
	}
	if o.sender == nil {
		hc := o.httpClient
		if hc == nil {
			hc = httpadapter.DefaultClient(cfg.ConnectTimeout, cfg.ResponseTimeout)
		}
		o.sender = httpadapter.NewSender(hc, cfg.URL, cfg.Token, o.codec.ContentType(), o.logger)
	}

	return client.New(cfg, o.codec, o.sender, o.logger, o.clock), nil
}
