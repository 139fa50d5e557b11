package driver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
)

// duckdbDriver wraps marcboeker/go-duckdb's database/sql adapter. DuckDB's
// Go driver does not expose the savepoint/rollback semantics the other four
// backends rely on, so StartTx/CommitTx/RollbackTx all fail fast with
// ErrTxUnsupported — GetExecutionType already collapses Transaction to
// Confirm for this tag (see internal/parser), so the App Loop should never
// actually reach StartTx here; these exist only to satisfy the interface.
type duckdbDriver struct {
	db *sql.DB

	slot    slotState
	task    *asyncTask
	pending QueryResultsWithMetadata
}

func newDuckDBDriver(ctx context.Context, opts ConnOpts) (Driver, error) {
	path := opts.URL
	if path == "" {
		path = opts.Database
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("duckdb: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("duckdb: ping: %w", err)
	}
	return &duckdbDriver{db: db}, nil
}

func (d *duckdbDriver) Tag() parser.DriverTag { return parser.DuckDB }

func (d *duckdbDriver) StartQuery(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartQuery called while a task is already in flight")
	}
	d.slot = slotQuery
	d.task = newAsyncTask(context.Background(), func(ctx context.Context) QueryResultsWithMetadata {
		return runSQLQuery(ctx, d.db, sqlText, stmt, decodeDuckDBCell)
	})
}

func (d *duckdbDriver) StartTx(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartTx called while a task is already in flight")
	}
	d.slot = slotQuery
	d.task = newAsyncTask(context.Background(), func(ctx context.Context) QueryResultsWithMetadata {
		return QueryResultsWithMetadata{Err: ErrTxUnsupported, Statement: stmt}
	})
}

func (d *duckdbDriver) AbortQuery() bool {
	if d.task == nil {
		return false
	}
	d.task.abort()
	d.task = nil
	d.slot = slotNone
	return true
}

func (d *duckdbDriver) GetQueryResults() TaskStatus {
	return genericGetQueryResults(&d.slot, &d.task, &d.pending)
}

func (d *duckdbDriver) CommitTx(ctx context.Context) (*QueryResultsWithMetadata, error) {
	return nil, ErrTxUnsupported
}

func (d *duckdbDriver) RollbackTx(ctx context.Context) error {
	return ErrTxUnsupported
}

func (d *duckdbDriver) LoadMenu(ctx context.Context) (model.Rows, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
		ORDER BY table_schema, table_name`)
	if err != nil {
		return model.Rows{}, err
	}
	defer rows.Close()
	return scanRows(rows, decodeDuckDBCell)
}

func (d *duckdbDriver) PreviewRowsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT * FROM "%s"."%s" LIMIT 100`, schema, table)
}

func (d *duckdbDriver) PreviewColumnsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = '%s' AND table_name = '%s'
		ORDER BY ordinal_position`, schema, table)
}

func (d *duckdbDriver) PreviewConstraintsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT constraint_name, constraint_type
		FROM information_schema.table_constraints
		WHERE table_schema = '%s' AND table_name = '%s'`, schema, table)
}

func (d *duckdbDriver) PreviewIndexesQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT * FROM duckdb_indexes() WHERE schema_name = '%s' AND table_name = '%s'`, schema, table)
}

func (d *duckdbDriver) PreviewPoliciesQuery(schema, table string) string {
	return "-- DuckDB has no row-level security policy catalog"
}

func (d *duckdbDriver) Close() error { return d.db.Close() }
