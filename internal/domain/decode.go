package domain

import (
	"encoding/json"
	"fmt"
)

// messageJSON mirrors Message with the wire field names, so record files and
// CLI input are written in the same vocabulary as the batch schema.
type messageJSON struct {
	TableName    string         `json:"table_name,omitempty"`
	KeyNames     []string       `json:"key_names,omitempty"`
	Action       string         `json:"action,omitempty"`
	TableVersion *int64         `json:"table_version,omitempty"`
	Sequence     *int64         `json:"sequence,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

// UnmarshalMessage parses one JSON-encoded message written with the wire
// field names. The action, when present, must be a recognized value.
func UnmarshalMessage(b []byte) (Message, error) {
	var m messageJSON
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, fmt.Errorf("parse message: %w", err)
	}

	msg := Message{
		TableName:    m.TableName,
		KeyNames:     m.KeyNames,
		TableVersion: m.TableVersion,
		Sequence:     m.Sequence,
		Data:         m.Data,
	}
	if m.Action != "" {
		a := Action(m.Action)
		if !a.Valid() {
			return Message{}, fmt.Errorf("%w: %q", ErrInvalidAction, m.Action)
		}
		msg.Action = a
	}
	return msg, nil
}
