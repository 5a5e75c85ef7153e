package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (RECSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", os.Getenv("RECSHIP_URL"), &cfg.URL)
	s.setString("token", os.Getenv("RECSHIP_TOKEN"), &cfg.Token)
	s.setString("namespace", os.Getenv("RECSHIP_NAMESPACE"), &cfg.Namespace)
	s.setString("table", os.Getenv("RECSHIP_TABLE_NAME"), &cfg.TableName)
	s.setString("input", os.Getenv("RECSHIP_INPUT"), &cfg.Input)

	s.setStringsFromString("key-names", os.Getenv("RECSHIP_KEY_NAMES"), &cfg.KeyNames)

	if err := s.setIntFromString("client-id", os.Getenv("RECSHIP_CLIENT_ID"), &cfg.ClientID); err != nil {
		return err
	}
	if err := s.setIntFromString("buffer-bytes", os.Getenv("RECSHIP_BUFFER_BYTES"), &cfg.BufferBytes); err != nil {
		return err
	}

	if err := s.setDuration("flush-interval", os.Getenv("RECSHIP_FLUSH_INTERVAL"), &cfg.FlushInterval); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", os.Getenv("RECSHIP_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("response-timeout", os.Getenv("RECSHIP_RESPONSE_TIMEOUT"), &cfg.ResponseTimeout); err != nil {
		return err
	}

	s.setBoolFromString("follow", os.Getenv("RECSHIP_FOLLOW"), &cfg.Follow)
	s.setBoolFromString("verbose", os.Getenv("RECSHIP_VERBOSE"), &cfg.Verbose)

	return nil
}
