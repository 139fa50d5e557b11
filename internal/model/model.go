// Package model holds the data types shared across the query-execution
// pipeline: rows returned by a driver, the header metadata that describes
// them, and the favorite-query records persisted to disk.
package model

// Header describes one column of a Rows result.
type Header struct {
	Name     string
	TypeName string
}

// Row is one line of a query result, already rendered to display strings.
type Row []string

// Rows is an immutable query result. Once constructed by a Driver it is
// never mutated; a new query produces a new Rows value.
type Rows struct {
	Headers      []Header
	Rows         []Row
	RowsAffected *int64
}

// Value is a single decoded cell. A null value always carries the literal
// string "NULL" so the viewport can render uniformly without consulting
// IsNull for layout purposes.
type Value struct {
	String string
	IsNull bool
}

func NullValue() Value { return Value{String: "NULL", IsNull: true} }

// Favorite is a named, persisted query. Name is restricted to letters,
// digits, '_' and '-' — enforced by the popup that creates it, not here.
type Favorite struct {
	Name       string
	QueryLines []string
}

// Query joins QueryLines the same way the on-disk file stores them.
func (f Favorite) Query() string {
	out := ""
	for i, l := range f.QueryLines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
