package driver

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rainfrog/rainfrog/internal/model"
)

// sqliteAffinityLayouts is the order spec.md §4.2 mandates for SQLite's
// TEXT/DATETIME affinity probing: try each parse, first success wins.
var sqliteAffinityLayouts = []string{
	time.RFC3339Nano,          // DateTime<Utc>-ish
	"2006-01-02T15:04:05.999", // NaiveDateTime
	"2006-01-02 15:04:05.999",
	"2006-01-02", // NaiveDate
	"15:04:05",   // NaiveTime
}

func decodeSQLiteCell(ct *sql.ColumnType, raw interface{}) model.Value {
	typeName := strings.ToUpper(ct.DatabaseTypeName())

	switch {
	case typeName == "INTEGER" || typeName == "BOOLEAN":
		switch v := raw.(type) {
		case int64:
			return model.Value{String: fmt.Sprintf("%d", v)}
		case []byte:
			return model.Value{String: string(v)}
		}
	case typeName == "REAL":
		switch v := raw.(type) {
		case float64:
			return model.Value{String: fmt.Sprintf("%v", v)}
		case []byte:
			return model.Value{String: string(v)}
		}
	case typeName == "BLOB":
		if b, ok := raw.([]byte); ok {
			return model.Value{String: fmt.Sprintf("%x", b)}
		}
	case typeName == "" || typeName == "TEXT" || typeName == "NUMERIC" || strings.Contains(typeName, "DATE") || strings.Contains(typeName, "TIME"):
		return model.Value{String: probeSQLiteAffinity(rawToString(raw))}
	}

	return model.Value{String: rawToString(raw)}
}

// probeSQLiteAffinity tries, in order, timestamp layouts, then UUID, then
// JSON, and finally falls back to the literal string.
func probeSQLiteAffinity(s string) string {
	for _, layout := range sqliteAffinityLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return s
		}
	}
	if _, err := uuid.Parse(s); err == nil {
		return s
	}
	if json.Valid([]byte(s)) {
		return s
	}
	return s
}
