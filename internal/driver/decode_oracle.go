package driver

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rainfrog/rainfrog/internal/model"
)

// decodeOracleCell covers sijms/go-ora/v2's DatabaseTypeName() output:
// NUMBER (Oracle has no separate int/float wire type), VARCHAR2/NVARCHAR2/
// CHAR/CLOB text variants, DATE/TIMESTAMP, RAW/BLOB binary, and ROWID.
func decodeOracleCell(ct *sql.ColumnType, raw interface{}) model.Value {
	typeName := strings.ToUpper(ct.DatabaseTypeName())

	switch typeName {
	case "NUMBER", "BINARY_FLOAT", "BINARY_DOUBLE":
		switch v := raw.(type) {
		case int64:
			return model.Value{String: fmt.Sprintf("%d", v)}
		case float64:
			return model.Value{String: fmt.Sprintf("%v", v)}
		case []byte:
			return model.Value{String: string(v)}
		}
	case "DATE":
		if t, ok := raw.(time.Time); ok {
			return model.Value{String: t.Format("2006-01-02 15:04:05")}
		}
	case "TIMESTAMP", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITH LOCAL TIME ZONE":
		if t, ok := raw.(time.Time); ok {
			return model.Value{String: t.Format("2006-01-02 15:04:05.000000-07:00")}
		}
	case "RAW", "BLOB", "LONG RAW":
		if b, ok := raw.([]byte); ok {
			return model.Value{String: hex.EncodeToString(b)}
		}
	case "CLOB", "NCLOB", "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR", "ROWID":
		return model.Value{String: rawToString(raw)}
	}

	return model.Value{String: rawToString(raw)}
}
