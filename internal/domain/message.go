package domain

// Action identifies what the destination should do with a record.
type Action string

const (
	// ActionUpsert inserts or updates a row in the destination table.
	ActionUpsert Action = "UPSERT"

	// ActionSwitchView atomically points the table at a new version.
	ActionSwitchView Action = "SWITCH_VIEW"
)

// Valid reports whether a is one of the recognized actions.
func (a Action) Valid() bool {
	return a == ActionUpsert || a == ActionSwitchView
}

// Wire field names. These match the ingestion service's batch schema
// and must not be changed independently of the server.
const (
	FieldClientID     = "client_id"
	FieldNamespace    = "namespace"
	FieldAction       = "action"
	FieldTableName    = "table_name"
	FieldTableVersion = "table_version"
	FieldKeyNames     = "key_names"
	FieldSequence     = "sequence"
	FieldData         = "data"
)

// Message describes one change to one destination table.
// A Message is immutable once handed to the client.
//
// TableName and KeyNames may be left empty when the client was configured
// with defaults; the wire transform resolves them at push time. Optional
// integer fields use pointers so that "absent" is representable and absent
// fields can be omitted from the wire mapping entirely.
type Message struct {
	// TableName is the destination table. Empty means "use the client default".
	TableName string

	// KeyNames is the ordered list of fields that identify a row.
	// Nil means "use the client default".
	KeyNames []string

	// Action tells the destination how to apply the record.
	// Empty means the service default (upsert).
	Action Action

	// TableVersion selects a table schema version, if the destination
	// tracks versions.
	TableVersion *int64

	// Sequence orders records within a table. The remote system applies
	// records in sequence order, not arrival order.
	Sequence *int64

	// Data is the record payload, a mapping from field name to value.
	Data map[string]any
}

// Int64 returns a pointer to v, for populating optional message fields.
func Int64(v int64) *int64 {
	return &v
}
