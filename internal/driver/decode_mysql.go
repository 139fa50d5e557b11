package driver

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rainfrog/rainfrog/internal/model"
)

// decodeMySQLCell covers go-sql-driver/mysql's DatabaseTypeName() output.
// The driver hands back []byte for almost everything unless the DSN sets
// parseTime=true, in which case DATE/DATETIME/TIMESTAMP arrive as
// time.Time; we support both.
func decodeMySQLCell(ct *sql.ColumnType, raw interface{}) model.Value {
	typeName := strings.ToUpper(ct.DatabaseTypeName())

	switch typeName {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "YEAR":
		switch v := raw.(type) {
		case int64:
			return model.Value{String: fmt.Sprintf("%d", v)}
		case []byte:
			return model.Value{String: string(v)}
		}
	case "FLOAT", "DOUBLE", "DECIMAL":
		switch v := raw.(type) {
		case float64:
			return model.Value{String: fmt.Sprintf("%v", v)}
		case []byte:
			return model.Value{String: string(v)}
		}
	case "DATE":
		return model.Value{String: formatMaybeTime(raw, "2006-01-02")}
	case "DATETIME", "TIMESTAMP":
		return model.Value{String: formatMaybeTime(raw, "2006-01-02 15:04:05")}
	case "TIME":
		return model.Value{String: formatMaybeTime(raw, "15:04:05")}
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BINARY", "VARBINARY":
		if b, ok := raw.([]byte); ok {
			return model.Value{String: fmt.Sprintf("%x", b)}
		}
	case "JSON", "BIT":
		return model.Value{String: rawToString(raw)}
	}

	return model.Value{String: rawToString(raw)}
}

func formatMaybeTime(raw interface{}, layout string) string {
	if t, ok := raw.(time.Time); ok {
		return t.Format(layout)
	}
	return rawToString(raw)
}
