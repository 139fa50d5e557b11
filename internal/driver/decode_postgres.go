package driver

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rainfrog/rainfrog/internal/model"
)

// decodePostgresCell covers the type set spec.md §4.2 requires for
// PostgreSQL: booleans, integer/float widths, text variants, BYTEA (hex),
// the four date/time types, UUID, INET/CIDR, JSON/JSONB, and all of the
// above as arrays (lib/pq reports array column types with a leading "_",
// e.g. "_int4", and hands back the wire array literal as raw text — we
// just reformat the delimiter to the spec's "{ a, b, c }" form). Anything
// else falls back to a raw text cast.
func decodePostgresCell(ct *sql.ColumnType, raw interface{}) model.Value {
	typeName := strings.ToUpper(ct.DatabaseTypeName())

	if strings.HasPrefix(typeName, "_") {
		return model.Value{String: formatPGArray(rawToString(raw)), IsNull: false}
	}

	switch typeName {
	case "BOOL":
		if b, ok := raw.(bool); ok {
			return model.Value{String: fmt.Sprintf("%t", b)}
		}
	case "INT2", "INT4", "INT8":
		switch v := raw.(type) {
		case int64:
			return model.Value{String: fmt.Sprintf("%d", v)}
		case []byte:
			return model.Value{String: string(v)}
		}
	case "FLOAT4", "FLOAT8", "NUMERIC":
		switch v := raw.(type) {
		case float64:
			return model.Value{String: fmt.Sprintf("%v", v)}
		case []byte:
			return model.Value{String: string(v)}
		}
	case "BYTEA":
		if b, ok := raw.([]byte); ok {
			return model.Value{String: "\\x" + hex.EncodeToString(b)}
		}
	case "TIMESTAMP":
		if t, ok := raw.(time.Time); ok {
			return model.Value{String: t.Format("2006-01-02 15:04:05")}
		}
	case "TIMESTAMPTZ":
		if t, ok := raw.(time.Time); ok {
			return model.Value{String: t.Format("2006-01-02 15:04:05-07")}
		}
	case "DATE":
		if t, ok := raw.(time.Time); ok {
			return model.Value{String: t.Format("2006-01-02")}
		}
	case "TIME":
		if t, ok := raw.(time.Time); ok {
			return model.Value{String: t.Format("15:04:05")}
		}
	case "UUID", "INET", "CIDR", "JSON", "JSONB":
		return model.Value{String: rawToString(raw)}
	}

	return model.Value{String: rawToString(raw)}
}

func rawToString(raw interface{}) string {
	switch v := raw.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatPGArray reformats a Postgres array literal like "{1,2,3}" into the
// spec's "{ a, b, c }" delimiter form. This is a best-effort scalar-element
// reformat: it does not re-parse quoted elements containing commas or
// braces, a known limitation for array-of-text columns with such values.
func formatPGArray(literal string) string {
	trimmed := strings.TrimSpace(literal)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return literal
	}
	inner := trimmed[1 : len(trimmed)-1]
	if inner == "" {
		return "{ }"
	}
	parts := strings.Split(inner, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
