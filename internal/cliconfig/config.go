package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/recship/internal/client"
)

// Config holds CLI configuration for recship.
type Config struct {
	URL       string
	ClientID  int
	Token     string
	Namespace string

	TableName string
	KeyNames  []string

	FlushInterval   time.Duration
	BufferBytes     int
	ConnectTimeout  time.Duration
	ResponseTimeout time.Duration

	// Input is the NDJSON record file to read. Empty means stdin.
	Input string

	// Follow keeps reading Input as it grows instead of stopping at EOF.
	Follow bool

	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		URL:             client.DefaultURL,
		FlushInterval:   client.DefaultFlushInterval,
		BufferBytes:     client.DefaultBufferBytes,
		ConnectTimeout:  client.DefaultConnectTimeout,
		ResponseTimeout: client.DefaultResponseTimeout,
		Token:           os.Getenv("RECSHIP_TOKEN"),
	}
}

// Validate checks CLI-specific constraints. Client-level validation (token,
// client id, namespace) happens when the client is constructed.
func (c *Config) Validate() error {
	if c.Follow && c.Input == "" {
		return fmt.Errorf("--follow requires --input (cannot follow stdin)")
	}
	return nil
}

// ClientConfig converts the CLI configuration into a client Config.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		URL:             c.URL,
		ClientID:        c.ClientID,
		Token:           c.Token,
		Namespace:       c.Namespace,
		TableName:       c.TableName,
		KeyNames:        c.KeyNames,
		FlushInterval:   c.FlushInterval,
		BufferBytes:     c.BufferBytes,
		ConnectTimeout:  c.ConnectTimeout,
		ResponseTimeout: c.ResponseTimeout,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a string slice if non-empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setStringsFromString splits a comma-separated string and sets the
// destination. Used for environment variables that come as strings.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
