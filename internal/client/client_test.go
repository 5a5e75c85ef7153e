package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/bft-labs/recship/internal/codec"
	"github.com/bft-labs/recship/internal/domain"
	"github.com/bft-labs/recship/pkg/log"
)

// fakeSender records batch bodies and can be programmed to fail.
type fakeSender struct {
	calls  int
	bodies [][]byte
	err    error
}

func (s *fakeSender) Send(ctx context.Context, body []byte) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.bodies = append(s.bodies, body)
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ClientID = 42
	cfg.Token = "secret"
	cfg.Namespace = "prod"
	cfg.TableName = "events"
	cfg.KeyNames = []string{"id"}
	return cfg
}

func newTestClient(t *testing.T, cfg Config, sender *fakeSender, clk clock.Clock) *Client {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return New(cfg, codec.NewJSON(), sender, log.NewNoopLogger(), clk)
}

func encodedSize(t *testing.T, msg domain.Message, cfg Config) int {
	t.Helper()
	rec, err := domain.NewRecord(msg, domain.Defaults{
		ClientID:  cfg.ClientID,
		Namespace: cfg.Namespace,
		TableName: cfg.TableName,
		KeyNames:  cfg.KeyNames,
	})
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	b, err := codec.NewJSON().Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return len(b)
}

func decodeBatch(t *testing.T, body []byte) []map[string]any {
	t.Helper()
	var batch []map[string]any
	if err := json.Unmarshal(body, &batch); err != nil {
		t.Fatalf("unmarshal batch body: %v", err)
	}
	return batch
}

func TestPush_BelowThresholdsAccumulates(t *testing.T) {
	sender := &fakeSender{}
	cfg := testConfig()
	cfg.BufferBytes = 1 << 20
	c := newTestClient(t, cfg, sender, clock.NewMock())

	msg := domain.Message{Data: map[string]any{"id": 1}}
	size := encodedSize(t, msg, cfg)

	for i := 1; i <= 5; i++ {
		if err := c.Push(context.Background(), msg); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
		if got := c.Buffered(); got != i*size {
			t.Fatalf("after %d pushes Buffered() = %d, want %d", i, got, i*size)
		}
	}

	if sender.calls != 0 {
		t.Errorf("sender called %d times, want 0", sender.calls)
	}
}

func TestPush_SizeThresholdTriggersOneFlush(t *testing.T) {
	sender := &fakeSender{}
	cfg := testConfig()
	msg := domain.Message{Data: map[string]any{"id": 1}}
	size := encodedSize(t, msg, cfg)
	cfg.BufferBytes = 3 * size
	c := newTestClient(t, cfg, sender, clock.NewMock())

	for i := 0; i < 2; i++ {
		if err := c.Push(context.Background(), msg); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	}
	if sender.calls != 0 {
		t.Fatalf("sender called before threshold, calls = %d", sender.calls)
	}

	// Third push reaches the (inclusive) threshold.
	if err := c.Push(context.Background(), msg); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if sender.calls != 1 {
		t.Errorf("sender calls = %d, want 1", sender.calls)
	}
	if got := c.Buffered(); got != 0 {
		t.Errorf("Buffered() after flush = %d, want 0", got)
	}
	if batch := decodeBatch(t, sender.bodies[0]); len(batch) != 3 {
		t.Errorf("batch length = %d, want 3", len(batch))
	}
}

func TestPush_IntervalTriggersOnNextPushOnly(t *testing.T) {
	sender := &fakeSender{}
	mock := clock.NewMock()
	cfg := testConfig()
	cfg.BufferBytes = 1 << 20
	cfg.FlushInterval = time.Minute
	c := newTestClient(t, cfg, sender, mock)

	msg := domain.Message{Data: map[string]any{"id": 1}}
	if err := c.Push(context.Background(), msg); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	// Crossing the interval alone must not send anything; there is no
	// autonomous background trigger.
	mock.Add(2 * time.Minute)
	if sender.calls != 0 {
		t.Fatalf("sender called without a push, calls = %d", sender.calls)
	}

	if err := c.Push(context.Background(), msg); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if sender.calls != 1 {
		t.Errorf("sender calls = %d, want 1", sender.calls)
	}
	if batch := decodeBatch(t, sender.bodies[0]); len(batch) != 2 {
		t.Errorf("batch length = %d, want 2", len(batch))
	}
}

func TestFlush_EmptyBufferIsNoOp(t *testing.T) {
	sender := &fakeSender{}
	mock := clock.NewMock()
	c := newTestClient(t, testConfig(), sender, mock)

	before := c.lastFlush
	mock.Add(time.Hour)
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if sender.calls != 0 {
		t.Errorf("sender calls = %d, want 0", sender.calls)
	}
	if !c.lastFlush.Equal(before) {
		t.Error("empty flush advanced the last-flush timestamp")
	}
}

func TestFlush_RoundTripResolvesDefaults(t *testing.T) {
	sender := &fakeSender{}
	cfg := testConfig()
	c := newTestClient(t, cfg, sender, clock.NewMock())

	// Neither message names a table; both must resolve to the default.
	msgs := []domain.Message{
		{Data: map[string]any{"id": 1}},
		{Data: map[string]any{"id": 2}},
	}
	for _, m := range msgs {
		if err := c.Push(context.Background(), m); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	batch := decodeBatch(t, sender.bodies[0])
	if len(batch) != len(msgs) {
		t.Fatalf("batch length = %d, want %d", len(batch), len(msgs))
	}
	for i, rec := range batch {
		if rec["table_name"] != "events" {
			t.Errorf("record %d table_name = %v, want events", i, rec["table_name"])
		}
		keys, ok := rec["key_names"].([]any)
		if !ok || len(keys) != 1 || keys[0] != "id" {
			t.Errorf("record %d key_names = %v, want [id]", i, rec["key_names"])
		}
		if rec["client_id"] != float64(42) {
			t.Errorf("record %d client_id = %v, want 42", i, rec["client_id"])
		}
		if rec["namespace"] != "prod" {
			t.Errorf("record %d namespace = %v, want prod", i, rec["namespace"])
		}
	}
}

func TestPush_SingleMessageBatchScenario(t *testing.T) {
	sender := &fakeSender{}
	cfg := testConfig()
	msg := domain.Message{
		TableName: "users",
		KeyNames:  []string{"id"},
		Action:    domain.ActionUpsert,
		Data:      map[string]any{"id": 1},
	}
	cfg.BufferBytes = encodedSize(t, msg, cfg)
	c := newTestClient(t, cfg, sender, clock.NewMock())

	if err := c.Push(context.Background(), msg); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	if sender.calls != 1 {
		t.Fatalf("sender calls = %d, want 1", sender.calls)
	}
	batch := decodeBatch(t, sender.bodies[0])
	if len(batch) != 1 {
		t.Fatalf("batch length = %d, want 1", len(batch))
	}
	rec := batch[0]
	if rec["table_name"] != "users" {
		t.Errorf("table_name = %v, want users", rec["table_name"])
	}
	if rec["action"] != "UPSERT" {
		t.Errorf("action = %v, want UPSERT", rec["action"])
	}
	data, ok := rec["data"].(map[string]any)
	if !ok || data["id"] != float64(1) {
		t.Errorf("data = %v, want map[id:1]", rec["data"])
	}
	if got := c.Buffered(); got != 0 {
		t.Errorf("Buffered() after success = %d, want 0", got)
	}
}

func TestFlush_RejectionPreservesBuffer(t *testing.T) {
	rejection := &domain.RejectionError{
		StatusCode: 400,
		Reason:     "Bad Request",
		Body:       map[string]any{"error": "schema mismatch"},
	}
	sender := &fakeSender{err: rejection}
	cfg := testConfig()
	c := newTestClient(t, cfg, sender, clock.NewMock())

	if err := c.Push(context.Background(), domain.Message{Data: map[string]any{"id": 1}}); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	buffered := c.Buffered()

	err := c.Flush(context.Background())
	var rej *domain.RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("Flush() error = %v, want *domain.RejectionError", err)
	}
	if rej.StatusCode != 400 {
		t.Errorf("StatusCode = %d, want 400", rej.StatusCode)
	}
	if got := c.Buffered(); got != buffered {
		t.Errorf("Buffered() after rejection = %d, want %d", got, buffered)
	}

	// The same batch is re-sendable once the sender recovers.
	sender.err = nil
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("retry Flush() error = %v", err)
	}
	if batch := decodeBatch(t, sender.bodies[0]); len(batch) != 1 {
		t.Errorf("retried batch length = %d, want 1", len(batch))
	}
	if got := c.Buffered(); got != 0 {
		t.Errorf("Buffered() after retry = %d, want 0", got)
	}
}

func TestFlush_CorruptBufferAborts(t *testing.T) {
	sender := &fakeSender{}
	mock := clock.NewMock()
	c := newTestClient(t, testConfig(), sender, mock)

	c.buf.WriteString(`{"client_id":42}{"truncated":`)
	buffered := c.Buffered()
	before := c.lastFlush

	err := c.Flush(context.Background())
	if !errors.Is(err, domain.ErrCorruptBuffer) {
		t.Fatalf("Flush() error = %v, want ErrCorruptBuffer", err)
	}
	if sender.calls != 0 {
		t.Errorf("sender calls = %d, want 0", sender.calls)
	}
	if got := c.Buffered(); got != buffered {
		t.Errorf("Buffered() = %d, want %d (untouched)", got, buffered)
	}
	if !c.lastFlush.Equal(before) {
		t.Error("corrupt flush advanced the last-flush timestamp")
	}
}

func TestClose_FlushesAndIsRepeatable(t *testing.T) {
	sender := &fakeSender{}
	c := newTestClient(t, testConfig(), sender, clock.NewMock())

	if err := c.Push(context.Background(), domain.Message{Data: map[string]any{"id": 1}}); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if sender.calls != 1 {
		t.Errorf("sender calls = %d, want 1", sender.calls)
	}

	// A second close finds an empty buffer and sends nothing.
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if sender.calls != 1 {
		t.Errorf("sender calls after second close = %d, want 1", sender.calls)
	}
}

func TestPush_ValidationFailsBeforeBuffering(t *testing.T) {
	sender := &fakeSender{}
	cfg := testConfig()
	cfg.TableName = ""
	c := newTestClient(t, cfg, sender, clock.NewMock())

	err := c.Push(context.Background(), domain.Message{Data: map[string]any{"id": 1}})
	if !errors.Is(err, domain.ErrMissingTableName) {
		t.Fatalf("Push() error = %v, want ErrMissingTableName", err)
	}
	if got := c.Buffered(); got != 0 {
		t.Errorf("Buffered() = %d, want 0", got)
	}
}
