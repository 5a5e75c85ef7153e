package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	URL             string   `toml:"url"`
	ClientID        int      `toml:"client_id"`
	Token           string   `toml:"token"`
	Namespace       string   `toml:"namespace"`
	TableName       string   `toml:"table_name"`
	KeyNames        []string `toml:"key_names"`
	FlushInterval   string   `toml:"flush_interval"`
	BufferBytes     int      `toml:"buffer_bytes"`
	ConnectTimeout  string   `toml:"connect_timeout"`
	ResponseTimeout string   `toml:"response_timeout"`
	Input           string   `toml:"input"`
	Follow          *bool    `toml:"follow"`
	Verbose         *bool    `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.recship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".recship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", fc.URL, &cfg.URL)
	s.setInt("client-id", fc.ClientID, &cfg.ClientID)
	s.setString("token", fc.Token, &cfg.Token)
	s.setString("namespace", fc.Namespace, &cfg.Namespace)
	s.setString("table", fc.TableName, &cfg.TableName)
	s.setStrings("key-names", fc.KeyNames, &cfg.KeyNames)
	s.setString("input", fc.Input, &cfg.Input)

	if err := s.setDuration("flush-interval", fc.FlushInterval, &cfg.FlushInterval); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("response-timeout", fc.ResponseTimeout, &cfg.ResponseTimeout); err != nil {
		return err
	}

	s.setInt("buffer-bytes", fc.BufferBytes, &cfg.BufferBytes)

	s.setBool("follow", fc.Follow, &cfg.Follow)
	s.setBool("verbose", fc.Verbose, &cfg.Verbose)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
