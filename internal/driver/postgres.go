package driver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
)

// postgresDriver wraps a *sql.DB pool from lib/pq. Postgres needs no extra
// connection-level mutex: database/sql already serializes access to each
// pooled *sql.Conn, and we never hold more than one conn (via tx) at a time
// per spec.md §4.2's "at most one in-flight task" invariant.
type postgresDriver struct {
	db *sql.DB

	slot    slotState
	task    *asyncTask
	tx      *sql.Tx
	pending QueryResultsWithMetadata
}

func newPostgresDriver(ctx context.Context, opts ConnOpts) (Driver, error) {
	dsn := opts.URL
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
			opts.Host, opts.Port, opts.Database, opts.Username, opts.Password)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &postgresDriver{db: db}, nil
}

func (d *postgresDriver) Tag() parser.DriverTag { return parser.Postgres }

func (d *postgresDriver) StartQuery(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartQuery called while a task is already in flight")
	}
	d.slot = slotQuery
	d.task = newAsyncTask(context.Background(), func(ctx context.Context) QueryResultsWithMetadata {
		return runSQLQuery(ctx, d.db, sqlText, stmt, decodePostgresCell)
	})
}

func (d *postgresDriver) StartTx(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartTx called while a task is already in flight")
	}
	d.slot = slotTxStart
	d.task = newAsyncTask(context.Background(), func(ctx context.Context) QueryResultsWithMetadata {
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return QueryResultsWithMetadata{Err: err, Statement: stmt}
		}
		res := runSQLQueryTx(ctx, tx, sqlText, stmt, decodePostgresCell)
		if res.Err != nil {
			tx.Rollback()
			return res
		}
		d.tx = tx
		return res
	})
}

func (d *postgresDriver) AbortQuery() bool {
	if d.task == nil {
		return false
	}
	d.task.abort()
	d.task = nil
	d.slot = slotNone
	return true
}

func (d *postgresDriver) GetQueryResults() TaskStatus {
	return genericGetQueryResults(&d.slot, &d.task, &d.pending)
}

func (d *postgresDriver) CommitTx(ctx context.Context) (*QueryResultsWithMetadata, error) {
	if d.slot != slotTxPending || d.tx == nil {
		return nil, fmt.Errorf("postgres: CommitTx called with no pending transaction")
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

func (d *postgresDriver) RollbackTx(ctx context.Context) error {
	if d.slot != slotTxPending || d.tx == nil {
		return fmt.Errorf("postgres: RollbackTx called with no pending transaction")
	}
	err := d.tx.Rollback()
	d.tx = nil
	d.slot = slotNone
	d.pending = QueryResultsWithMetadata{}
	return err
}

func (d *postgresDriver) LoadMenu(ctx context.Context) (model.Rows, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name`)
	if err != nil {
		return model.Rows{}, err
	}
	defer rows.Close()
	return scanRows(rows, decodePostgresCell)
}

func (d *postgresDriver) PreviewRowsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT * FROM %q.%q LIMIT 100`, schema, table)
}

func (d *postgresDriver) PreviewColumnsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = '%s' AND table_name = '%s'
		ORDER BY ordinal_position`, schema, table)
}

func (d *postgresDriver) PreviewConstraintsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT conname, pg_get_constraintdef(oid)
		FROM pg_constraint
		WHERE conrelid = '%s.%s'::regclass`, schema, table)
}

func (d *postgresDriver) PreviewIndexesQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT indexname, indexdef
		FROM pg_indexes
		WHERE schemaname = '%s' AND tablename = '%s'`, schema, table)
}

func (d *postgresDriver) PreviewPoliciesQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT policyname, permissive, roles, cmd, qual, with_check
		FROM pg_policies
		WHERE schemaname = '%s' AND tablename = '%s'`, schema, table)
}

func (d *postgresDriver) Close() error { return d.db.Close() }
