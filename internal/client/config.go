package client

import (
	"fmt"
	"time"

	"github.com/bft-labs/recship/internal/domain"
)

// DefaultURL is the default ingestion endpoint for record batches.
const DefaultURL = "https://pipeline-gateway.rjmetrics.com/push"

// Default flush triggers and transport timeouts.
const (
	DefaultFlushInterval   = 60 * time.Second
	DefaultBufferBytes     = 4096
	DefaultConnectTimeout  = 2 * time.Minute
	DefaultResponseTimeout = 2 * time.Minute
)

// Config holds the configuration for a Client. It is immutable for the
// client's lifetime; construct it once and do not mutate it after New.
type Config struct {
	// URL is the ingestion endpoint batches are posted to.
	URL string

	// ClientID identifies the account with the ingestion service and is
	// embedded in every record.
	ClientID int

	// Token is the bearer token sent on every batch request.
	Token string

	// Namespace scopes destination tables and is embedded in every record.
	Namespace string

	// TableName is the fallback destination table for messages that do not
	// name one.
	TableName string

	// KeyNames is the fallback ordered key field list for messages that do
	// not carry one.
	KeyNames []string

	// FlushInterval is the maximum age of buffered data before the next
	// push drains the buffer.
	FlushInterval time.Duration

	// BufferBytes is the encoded-size threshold at which a push drains the
	// buffer.
	BufferBytes int

	// ConnectTimeout bounds the connection attempt of a batch post.
	ConnectTimeout time.Duration

	// ResponseTimeout bounds the whole request including reading the
	// response. Zero means no response timeout.
	ResponseTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
// At minimum, set ClientID, Token, and Namespace before use.
func DefaultConfig() Config {
	return Config{
		URL:             DefaultURL,
		FlushInterval:   DefaultFlushInterval,
		BufferBytes:     DefaultBufferBytes,
		ConnectTimeout:  DefaultConnectTimeout,
		ResponseTimeout: DefaultResponseTimeout,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	// Ensure no trailing slash
	if c.URL[len(c.URL)-1] == '/' {
		c.URL = c.URL[:len(c.URL)-1]
	}

	if c.ClientID <= 0 {
		return fmt.Errorf("%w: client id is required", domain.ErrInvalidConfig)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidConfig)
	}
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", domain.ErrInvalidConfig)
	}

	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.BufferBytes <= 0 {
		c.BufferBytes = DefaultBufferBytes
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}

	return nil
}

// defaults returns the per-record fallback values derived from the config.
func (c *Config) defaults() domain.Defaults {
	return domain.Defaults{
		ClientID:  c.ClientID,
		Namespace: c.Namespace,
		TableName: c.TableName,
		KeyNames:  c.KeyNames,
	}
}
