package driver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
)

// sqliteDriver opens a single connection (SetMaxOpenConns(1)): SQLite
// serializes writers at the file level regardless, and mattn/go-sqlite3's
// cgo connection is not meant to be shared across concurrent callers
// without external coordination.
type sqliteDriver struct {
	db *sql.DB

	slot    slotState
	task    *asyncTask
	tx      *sql.Tx
	pending QueryResultsWithMetadata
}

func newSQLiteDriver(ctx context.Context, opts ConnOpts) (Driver, error) {
	path := opts.URL
	if path == "" {
		path = opts.Database
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &sqliteDriver{db: db}, nil
}

func (d *sqliteDriver) Tag() parser.DriverTag { return parser.SQLite }

func (d *sqliteDriver) StartQuery(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartQuery called while a task is already in flight")
	}
	d.slot = slotQuery
	d.task = newAsyncTask(context.Background(), func(ctx context.Context) QueryResultsWithMetadata {
		return runSQLQuery(ctx, d.db, sqlText, stmt, decodeSQLiteCell)
	})
}

func (d *sqliteDriver) StartTx(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartTx called while a task is already in flight")
	}
	d.slot = slotTxStart
	d.task = newAsyncTask(context.Background(), func(ctx context.Context) QueryResultsWithMetadata {
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return QueryResultsWithMetadata{Err: err, Statement: stmt}
		}
		res := runSQLQueryTx(ctx, tx, sqlText, stmt, decodeSQLiteCell)
		if res.Err != nil {
			tx.Rollback()
			return res
		}
		d.tx = tx
		return res
	})
}

func (d *sqliteDriver) AbortQuery() bool {
	if d.task == nil {
		return false
	}
	d.task.abort()
	d.task = nil
	d.slot = slotNone
	return true
}

func (d *sqliteDriver) GetQueryResults() TaskStatus {
	return genericGetQueryResults(&d.slot, &d.task, &d.pending)
}

func (d *sqliteDriver) CommitTx(ctx context.Context) (*QueryResultsWithMetadata, error) {
	if d.slot != slotTxPending || d.tx == nil {
		return nil, fmt.Errorf("sqlite: CommitTx called with no pending transaction")
	}
	err := d.tx.Commit()
	d.tx = nil
	d.slot = slotNone
	res := d.pending
	d.pending = QueryResultsWithMetadata{}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (d *sqliteDriver) RollbackTx(ctx context.Context) error {
	if d.slot != slotTxPending || d.tx == nil {
		return fmt.Errorf("sqlite: RollbackTx called with no pending transaction")
	}
	err := d.tx.Rollback()
	d.tx = nil
	d.slot = slotNone
	d.pending = QueryResultsWithMetadata{}
	return err
}

func (d *sqliteDriver) LoadMenu(ctx context.Context) (model.Rows, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT 'main' AS schema_name, name AS table_name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return model.Rows{}, err
	}
	defer rows.Close()
	return scanRows(rows, decodeSQLiteCell)
}

func (d *sqliteDriver) PreviewRowsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT * FROM "%s" LIMIT 100`, table)
}

func (d *sqliteDriver) PreviewColumnsQuery(schema, table string) string {
	return fmt.Sprintf(`PRAGMA table_info("%s")`, table)
}

func (d *sqliteDriver) PreviewConstraintsQuery(schema, table string) string {
	return fmt.Sprintf(`PRAGMA foreign_key_list("%s")`, table)
}

func (d *sqliteDriver) PreviewIndexesQuery(schema, table string) string {
	return fmt.Sprintf(`PRAGMA index_list("%s")`, table)
}

func (d *sqliteDriver) PreviewPoliciesQuery(schema, table string) string {
	return "-- SQLite has no row-level security policy catalog"
}

func (d *sqliteDriver) Close() error { return d.db.Close() }
