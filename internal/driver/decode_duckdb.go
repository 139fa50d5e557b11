package driver

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rainfrog/rainfrog/internal/model"
)

// decodeDuckDBCell covers marcboeker/go-duckdb's DatabaseTypeName() output,
// including its LIST/STRUCT array-ish types rendered with the same
// "{ a, b, c }" delimiter convention used for Postgres arrays.
func decodeDuckDBCell(ct *sql.ColumnType, raw interface{}) model.Value {
	typeName := strings.ToUpper(ct.DatabaseTypeName())

	switch {
	case typeName == "BOOLEAN":
		if b, ok := raw.(bool); ok {
			return model.Value{String: fmt.Sprintf("%t", b)}
		}
	case strings.Contains(typeName, "INT") || typeName == "HUGEINT":
		switch v := raw.(type) {
		case int64:
			return model.Value{String: fmt.Sprintf("%d", v)}
		case []byte:
			return model.Value{String: string(v)}
		}
	case typeName == "FLOAT" || typeName == "DOUBLE" || typeName == "DECIMAL":
		switch v := raw.(type) {
		case float64:
			return model.Value{String: fmt.Sprintf("%v", v)}
		case []byte:
			return model.Value{String: string(v)}
		}
	case typeName == "DATE":
		if t, ok := raw.(time.Time); ok {
			return model.Value{String: t.Format("2006-01-02")}
		}
	case typeName == "TIME":
		if t, ok := raw.(time.Time); ok {
			return model.Value{String: t.Format("15:04:05")}
		}
	case strings.HasPrefix(typeName, "TIMESTAMP"):
		if t, ok := raw.(time.Time); ok {
			return model.Value{String: t.Format("2006-01-02 15:04:05")}
		}
	case typeName == "BLOB":
		if b, ok := raw.([]byte); ok {
			return model.Value{String: fmt.Sprintf("%x", b)}
		}
	case typeName == "UUID", typeName == "JSON":
		return model.Value{String: rawToString(raw)}
	case strings.HasPrefix(typeName, "LIST") || strings.HasPrefix(typeName, "STRUCT") || strings.HasPrefix(typeName, "ARRAY"):
		return model.Value{String: formatPGArray(rawToString(raw))}
	}

	return model.Value{String: rawToString(raw)}
}
