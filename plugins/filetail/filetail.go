// Package filetail follows a newline-delimited JSON record file and pushes
// each complete line into a recship client. It backs the CLI's --follow
// mode: producers append records to a file, filetail ships them.
package filetail

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/recship"
	"github.com/bft-labs/recship/pkg/log"
)

// Pusher receives messages decoded from the followed file.
// *recship.Client satisfies this interface.
type Pusher interface {
	Push(ctx context.Context, msg recship.Message) error
}

// Config holds configuration options for the follower.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before
	// reading, so bursts of appends are drained in one pass.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// Follower tails one record file. Partial trailing lines are kept until the
// producer finishes them with a newline.
type Follower struct {
	path          string
	pusher        Pusher
	logger        log.Logger
	debounceDelay time.Duration

	pending []byte
}

// New creates a follower for path that pushes decoded messages into pusher.
func New(path string, pusher Pusher, logger log.Logger, cfg Config) *Follower {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Follower{
		path:          path,
		pusher:        pusher,
		logger:        logger,
		debounceDelay: cfg.DebounceDelay,
	}
}

// Run reads all existing lines, then blocks watching the file for appends
// until ctx is cancelled or a push fails. Malformed lines are logged and
// skipped; they never stop the follower.
func (f *Follower) Run(ctx context.Context) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	if err := f.drain(ctx, reader); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.path); err != nil {
		return fmt.Errorf("watch %s: %w", f.path, err)
	}

	debounce := time.NewTimer(f.debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(f.debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("watcher error", log.Err(err))

		case <-debounce.C:
			if err := f.drain(ctx, reader); err != nil {
				return err
			}
		}
	}
}

// drain reads complete lines until the file is exhausted, pushing each one.
// A trailing fragment without a newline is carried over to the next drain.
func (f *Follower) drain(ctx context.Context, reader *bufio.Reader) error {
	for {
		chunk, err := reader.ReadBytes('\n')
		f.pending = append(f.pending, chunk...)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("read %s: %w", f.path, err)
			}
			return nil
		}

		line := string(bytes.TrimSpace(f.pending))
		f.pending = f.pending[:0]
		if line == "" {
			continue
		}

		msg, err := recship.UnmarshalMessage([]byte(line))
		if err != nil {
			f.logger.Warn("skipping malformed record line", log.Err(err))
			continue
		}
		if err := f.pusher.Push(ctx, msg); err != nil {
			return err
		}
	}
}
