package driver

import (
	"context"
	"fmt"

	"github.com/rainfrog/rainfrog/internal/parser"
)

// New dispatches to the concrete backend named by opts.Driver. This is the
// single tagged-construction point the rest of the core goes through —
// no interface-embedding hierarchy, just one switch (spec.md §9).
func New(ctx context.Context, opts ConnOpts) (Driver, error) {
	switch opts.Driver {
	case parser.Postgres:
		return newPostgresDriver(ctx, opts)
	case parser.MySQL:
		return newMySQLDriver(ctx, opts)
	case parser.SQLite:
		return newSQLiteDriver(ctx, opts)
	case parser.Oracle:
		return newOracleDriver(ctx, opts)
	case parser.DuckDB:
		return newDuckDBDriver(ctx, opts)
	default:
		return nil, fmt.Errorf("driver: unknown driver tag %q", opts.Driver)
	}
}
