package utils

import (
	"fmt"
	"time"

	"github.com/simpleym/yard_backend/config"
)

// Field names stamped on every insert; updates use the updated_* pair so an
// audit trail distinguishes creation from the last edit.
const (
	FieldTimestamp      = "timestamp"
	FieldTimestampLocal = "timestamp_EST"
	FieldUpdatedAt      = "updated_at"
	FieldUpdatedAtLocal = "updated_at_EST"
)

// CurrentTimestamps returns the dual rendering used across all documents:
// absolute UTC plus the same instant in the fixed local zone.
func CurrentTimestamps() (utc string, local string) {
	now := time.Now()
	return now.UTC().Format(time.RFC3339Nano), now.In(config.LocalZone()).Format(time.RFC3339Nano)
}

// StampCreate adds the create-time timestamp pair to a record.
func StampCreate(record map[string]any) {
	utc, local := CurrentTimestamps()
	record[FieldTimestamp] = utc
	record[FieldTimestampLocal] = local
}

// StampUpdate adds the update-time timestamp pair to a record.
func StampUpdate(record map[string]any) {
	utc, local := CurrentTimestamps()
	record[FieldUpdatedAt] = utc
	record[FieldUpdatedAtLocal] = local
}

// GeneratedRecordID builds the ID used when a caller supplies none.
// Nanosecond resolution keeps back-to-back inserts from colliding.
func GeneratedRecordID(collection string) string {
	return fmt.Sprintf("%s_%d", collection, time.Now().UTC().UnixNano())
}

// StringField reads a string-valued field, returning "" for absent or
// non-string values.
func StringField(record map[string]any, field string) string {
	v, _ := record[field].(string)
	return v
}
