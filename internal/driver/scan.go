package driver

import (
	"database/sql"

	"github.com/rainfrog/rainfrog/internal/model"
)

// CellDecoder converts one raw driver value to its display form. Each
// backend supplies its own (see decode_*.go); the scanning loop itself —
// identical across all five database/sql-backed drivers — lives here once.
type CellDecoder func(colType *sql.ColumnType, raw interface{}) model.Value

// scanRows drains rows into a model.Rows using decode for every cell.
// Nullness is always detected before the decoder runs (raw == nil), per
// spec.md §4.2 "Nullness is detected before type dispatch."
func scanRows(rows *sql.Rows, decode CellDecoder) (model.Rows, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return model.Rows{}, err
	}

	headers := make([]model.Header, len(colTypes))
	for i, ct := range colTypes {
		headers[i] = model.Header{Name: ct.Name(), TypeName: ct.DatabaseTypeName()}
	}

	raws := make([]interface{}, len(colTypes))
	ptrs := make([]interface{}, len(colTypes))
	for i := range raws {
		ptrs[i] = &raws[i]
	}

	var out []model.Row
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return model.Rows{}, err
		}
		row := make(model.Row, len(colTypes))
		for i, ct := range colTypes {
			var v model.Value
			if raws[i] == nil {
				v = model.NullValue()
			} else {
				v = decode(ct, raws[i])
			}
			row[i] = v.String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return model.Rows{}, err
	}

	return model.Rows{Headers: headers, Rows: out}, nil
}

func int64Ptr(v int64) *int64 { return &v }
