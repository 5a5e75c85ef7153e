package filetail

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/recship"
	"github.com/bft-labs/recship/pkg/log"
)

// chanPusher forwards pushed messages to a channel.
type chanPusher struct {
	msgs chan recship.Message
}

func (p *chanPusher) Push(ctx context.Context, msg recship.Message) error {
	select {
	case p.msgs <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func waitForMessage(t *testing.T, ch <-chan recship.Message) recship.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
		return recship.Message{}
	}
}

func TestFollower_ReadsExistingAndAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.ndjson")
	if err := os.WriteFile(path, []byte(`{"table_name":"users","data":{"id":1}}`+"\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	pusher := &chanPusher{msgs: make(chan recship.Message, 8)}
	cfg := DefaultConfig()
	cfg.DebounceDelay = 10 * time.Millisecond
	f := New(path, pusher, log.NewNoopLogger(), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	msg := waitForMessage(t, pusher.msgs)
	if msg.TableName != "users" {
		t.Errorf("first message table = %v, want users", msg.TableName)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := file.WriteString(`{"table_name":"orders","sequence":2,"data":{"id":9}}` + "\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	file.Close()

	msg = waitForMessage(t, pusher.msgs)
	if msg.TableName != "orders" {
		t.Errorf("appended message table = %v, want orders", msg.TableName)
	}
	if msg.Sequence == nil || *msg.Sequence != 2 {
		t.Errorf("appended message sequence = %v, want 2", msg.Sequence)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestFollower_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.ndjson")
	content := "not json\n" +
		`{"table_name":"users","data":{"id":1}}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	pusher := &chanPusher{msgs: make(chan recship.Message, 8)}
	f := New(path, pusher, log.NewNoopLogger(), DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx)

	msg := waitForMessage(t, pusher.msgs)
	if msg.TableName != "users" {
		t.Errorf("message table = %v, want users", msg.TableName)
	}
}

func TestFollower_PushErrorStopsRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.ndjson")
	if err := os.WriteFile(path, []byte(`{"table_name":"users"}`+"\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	wantErr := errors.New("push failed")
	f := New(path, pushFunc(func(context.Context, recship.Message) error { return wantErr }), log.NewNoopLogger(), DefaultConfig())

	if err := f.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want %v", err, wantErr)
	}
}

func TestFollower_MissingFile(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "absent.ndjson"), &chanPusher{msgs: make(chan recship.Message)}, log.NewNoopLogger(), DefaultConfig())
	if err := f.Run(context.Background()); err == nil {
		t.Error("Run() succeeded on missing file")
	}
}

// pushFunc adapts a function to the Pusher interface.
type pushFunc func(ctx context.Context, msg recship.Message) error

func (f pushFunc) Push(ctx context.Context, msg recship.Message) error {
	return f(ctx, msg)
}
