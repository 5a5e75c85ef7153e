package domain

// Record is the wire mapping derived from a Message plus client defaults,
// ready for serialization into a batch. Fields without a value are omitted
// from the mapping rather than written as null.
type Record map[string]any

// Defaults carries the client-level identity and fallback values that are
// folded into every record.
type Defaults struct {
	ClientID  int
	Namespace string
	TableName string
	KeyNames  []string
}

// NewRecord builds the wire mapping for msg. The client identifier and
// namespace always come from the defaults. Table name and key names come
// from the message when set, falling back to the defaults; if neither side
// provides a value the record is invalid and an error is returned before
// anything reaches the buffer.
func NewRecord(msg Message, d Defaults) (Record, error) {
	tableName := msg.TableName
	if tableName == "" {
		tableName = d.TableName
	}
	if tableName == "" {
		return nil, ErrMissingTableName
	}

	keyNames := msg.KeyNames
	if keyNames == nil {
		keyNames = d.KeyNames
	}
	if len(keyNames) == 0 {
		return nil, ErrMissingKeyNames
	}

	r := Record{
		FieldClientID:  d.ClientID,
		FieldNamespace: d.Namespace,
		FieldTableName: tableName,
		FieldKeyNames:  keyNames,
	}

	if msg.Action != "" {
		if !msg.Action.Valid() {
			return nil, ErrInvalidAction
		}
		r[FieldAction] = string(msg.Action)
	}
	if msg.TableVersion != nil {
		r[FieldTableVersion] = *msg.TableVersion
	}
	if msg.Sequence != nil {
		r[FieldSequence] = *msg.Sequence
	}
	if msg.Data != nil {
		r[FieldData] = msg.Data
	}

	return r, nil
}
