package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/recship"
	"github.com/bft-labs/recship/internal/cliconfig"
	"github.com/bft-labs/recship/pkg/log"
	"github.com/bft-labs/recship/plugins/filetail"
)

const helpDescription = `
Ship newline-delimited JSON records to an ingestion endpoint as batches.

Each input line is one record using the wire field names (table_name,
key_names, action, table_version, sequence, data). Records accumulate in an
in-memory buffer and go out as a single batch when the buffer reaches its
byte threshold or the flush interval elapses; anything still buffered is
flushed on shutdown.

Configure via file ($HOME/.recship/config.toml), RECSHIP_* environment
variables, or flags. Flags win over environment, environment wins over file.
`

var exampleUsage = strings.TrimSpace(`
  cat records.ndjson | recship --client-id 1234 --token <api-token> --namespace prod --table events --key-names id
  recship --config $HOME/.recship/config.toml --input records.ndjson --follow
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "recship",
		Short:   "Ship newline-delimited JSON records to an ingestion endpoint as batches",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.recship/config.toml),
			// then env, then flag overrides via the changed map.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}

			// Log configuration (masking the token)
			logCfg := cfg
			if len(logCfg.Token) > 0 {
				logCfg.Token = "*****"
			}
			logger.Info().Interface("config", logCfg).Msg("configuration")

			adapter := log.NewZerologAdapterWithLogger(logger)
			c, err := recship.New(cfg.ClientConfig(), recship.WithLogger(adapter))
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Follow {
				err = followFile(ctx, cfg, c, adapter)
			} else {
				err = shipOnce(ctx, cfg, c)
			}

			// Drain whatever is still buffered, even after a signal.
			if closeErr := c.Close(context.Background()); closeErr != nil {
				logger.Error().Err(closeErr).Msg("final flush failed; buffered records were not sent")
				if err == nil {
					err = closeErr
				}
			}
			return err
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.recship/config.toml)")
	root.Flags().StringVar(&cfg.URL, "url", cfg.URL, "ingestion endpoint URL")
	root.Flags().IntVar(&cfg.ClientID, "client-id", cfg.ClientID, "client identifier embedded in every record")
	root.Flags().StringVar(&cfg.Token, "token", cfg.Token, "bearer token for authentication")
	root.Flags().StringVar(&cfg.Namespace, "namespace", cfg.Namespace, "namespace embedded in every record")
	root.Flags().StringVar(&cfg.TableName, "table", cfg.TableName, "default destination table for records that do not name one")
	root.Flags().StringSliceVar(&cfg.KeyNames, "key-names", cfg.KeyNames, "default key field names for records that do not carry them")
	root.Flags().DurationVar(&cfg.FlushInterval, "flush-interval", cfg.FlushInterval, "maximum age of buffered records before the next push flushes")
	root.Flags().IntVar(&cfg.BufferBytes, "buffer-bytes", cfg.BufferBytes, "encoded-size threshold that triggers a flush")
	root.Flags().DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "connection timeout for batch posts")
	root.Flags().DurationVar(&cfg.ResponseTimeout, "response-timeout", cfg.ResponseTimeout, "overall timeout for batch posts including the response")
	root.Flags().StringVar(&cfg.Input, "input", cfg.Input, "NDJSON record file to read (default: stdin)")
	root.Flags().BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep reading --input as it grows")
	root.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable debug logging")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("recship failed")
		os.Exit(1)
	}
}

// shipOnce reads records from the input until EOF and pushes each one.
func shipOnce(ctx context.Context, cfg cliconfig.Config, c *recship.Client) error {
	var in io.Reader = os.Stdin
	if cfg.Input != "" {
		file, err := os.Open(cfg.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		in = file
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		msg, err := recship.UnmarshalMessage([]byte(line))
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := c.Push(ctx, msg); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// followFile tails the input file until the context is cancelled.
func followFile(ctx context.Context, cfg cliconfig.Config, c *recship.Client, logger recship.Logger) error {
	follower := filetail.New(cfg.Input, c, logger, filetail.DefaultConfig())
	err := follower.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
