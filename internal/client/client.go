// Package client implements the buffering core of recship: the append-only
// record buffer, the flush policy, and the drain sequence.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/bft-labs/recship/internal/domain"
	"github.com/bft-labs/recship/internal/ports"
	"github.com/bft-labs/recship/pkg/log"
)

// Client accumulates encoded records in memory and drains them as one batch
// when the buffer reaches its byte threshold or the flush interval elapses.
//
// Both flush triggers are evaluated after every Push; there is no background
// goroutine, so an idle client holds its buffer until the next Push or an
// explicit Flush. Network I/O happens inline on the calling goroutine.
//
// A mutex serializes buffer mutation and flushing, so Push, Flush, and Close
// are safe for concurrent use. Note that a flush in progress blocks other
// calls until it completes.
type Client struct {
	cfg    Config
	codec  ports.Codec
	sender ports.BatchSender
	logger log.Logger
	clock  clock.Clock

	mu        sync.Mutex
	buf       bytes.Buffer
	lastFlush time.Time
}

// New creates a Client from an already validated Config and its collaborators.
func New(cfg Config, codec ports.Codec, sender ports.BatchSender, logger log.Logger, clk clock.Clock) *Client {
	c := &Client{
		cfg:    cfg,
		codec:  codec,
		sender: sender,
		logger: logger,
		clock:  clk,
	}
	c.lastFlush = clk.Now()
	return c
}

// Push encodes msg and appends it to the buffer, then drains the buffer
// inline if either flush trigger fires. Returns a validation error before
// anything is buffered when the message and client defaults together cannot
// resolve a table name or key names.
func (c *Client) Push(ctx context.Context, msg domain.Message) error {
	rec, err := domain.NewRecord(msg, c.cfg.defaults())
	if err != nil {
		return err
	}
	encoded, err := c.codec.Encode(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Write(encoded)

	if c.buf.Len() >= c.cfg.BufferBytes || c.clock.Since(c.lastFlush) >= c.cfg.FlushInterval {
		return c.flush(ctx)
	}
	return nil
}

// Flush drains the buffer as one batch. An empty buffer is a no-op: no
// network call is made and the flush-interval clock is not reset. On any
// error the buffer is left intact so the caller may flush again.
func (c *Client) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flush(ctx)
}

// Close performs one final Flush. It is safe to call on an empty client and
// safe to call more than once.
func (c *Client) Close(ctx context.Context) error {
	return c.Flush(ctx)
}

// Buffered returns the number of encoded bytes waiting to be flushed.
func (c *Client) Buffered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}

// flush drains the buffer. Caller must hold c.mu.
func (c *Client) flush(ctx context.Context) error {
	if c.buf.Len() == 0 {
		return nil
	}

	// The buffer holds a concatenation of independently encoded records,
	// not a well-formed batch document. Decode the stream back into records
	// before re-encoding as one array. A clean io.EOF terminates the
	// stream; anything else means the buffer is corrupt.
	dec := c.codec.NewDecoder(bytes.NewReader(c.buf.Bytes()))
	var records []domain.Record
	for {
		var r domain.Record
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCorruptBuffer, err)
		}
		records = append(records, r)
	}

	body, err := c.codec.Encode(records)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	start := c.clock.Now()
	if err := c.sender.Send(ctx, body); err != nil {
		c.logger.Error("batch send failed",
			log.Int("records", len(records)),
			log.Int("bytes", len(body)),
			log.Err(err))
		return err
	}

	c.logger.Debug("batch sent",
		log.Int("records", len(records)),
		log.Int("bytes", len(body)),
		log.Duration("took", c.clock.Since(start)))

	c.buf.Reset()
	c.lastFlush = c.clock.Now()
	return nil
}
