package driver

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/sijms/go-ora/v2"
	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
)

// oracleDriver holds a pool plus connMu, which the in-flight task holds
// for its whole run, per spec.md §4.2: "native client handles are not
// shareable across tasks." CommitTx, RollbackTx and LoadMenu take connMu
// too, so a LoadMenu issued while a task runs waits for that task to end.
// sijms/go-ora is pure Go, so there is no OCI break-execution call to
// invoke; cancelling the task's context is the closest equivalent —
// go-ora aborts the in-flight network round trip on context cancellation.
// AbortQuery cancels that context and clears the task slot in the same
// call; it does not take connMu itself, which the task goroutine releases
// when it returns.
type oracleDriver struct {
	db     *sql.DB
	connMu sync.Mutex

	slot    slotState
	task    *asyncTask
	cancel  context.CancelFunc
	tx      *sql.Tx
	pending QueryResultsWithMetadata
}

func newOracleDriver(ctx context.Context, opts ConnOpts) (Driver, error) {
	dsn := opts.URL
	if dsn == "" {
		dsn = fmt.Sprintf("oracle://%s:%s@%s:%s/%s", opts.Username, opts.Password, opts.Host, opts.Port, opts.Database)
	}
	db, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("oracle: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("oracle: ping: %w", err)
	}
	return &oracleDriver{db: db}, nil
}

func (d *oracleDriver) Tag() parser.DriverTag { return parser.Oracle }

func (d *oracleDriver) StartQuery(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartQuery called while a task is already in flight")
	}
	d.slot = slotQuery
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.task = newAsyncTask(ctx, func(ctx context.Context) QueryResultsWithMetadata {
		d.connMu.Lock()
		defer d.connMu.Unlock()
		return runSQLQuery(ctx, d.db, sqlText, stmt, decodeOracleCell)
	})
}

func (d *oracleDriver) StartTx(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartTx called while a task is already in flight")
	}
	d.slot = slotTxStart
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.task = newAsyncTask(ctx, func(ctx context.Context) QueryResultsWithMetadata {
		d.connMu.Lock()
		defer d.connMu.Unlock()
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return QueryResultsWithMetadata{Err: err, Statement: stmt}
		}
		res := runSQLQueryTx(ctx, tx, sqlText, stmt, decodeOracleCell)
		if res.Err != nil {
			tx.Rollback()
			return res
		}
		d.tx = tx
		return res
	})
}

func (d *oracleDriver) AbortQuery() bool {
	if d.task == nil {
		return false
	}
	d.task.abort() // cancels the task ctx: go-ora aborts its round trip
	if d.cancel != nil {
		d.cancel()
	}
	d.task = nil
	d.slot = slotNone
	return true
}

func (d *oracleDriver) GetQueryResults() TaskStatus {
	return genericGetQueryResults(&d.slot, &d.task, &d.pending)
}

func (d *oracleDriver) CommitTx(ctx context.Context) (*QueryResultsWithMetadata, error) {
	if d.slot != slotTxPending || d.tx == nil {
		return nil, fmt.Errorf("oracle: CommitTx called with no pending transaction")
	}
	d.connMu.Lock()
	err := d.tx.Commit()
	d.connMu.Unlock()
	d.tx = nil
	d.slot = slotNone
	res := d.pending
	d.pending = QueryResultsWithMetadata{}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (d *oracleDriver) RollbackTx(ctx context.Context) error {
	if d.slot != slotTxPending || d.tx == nil {
		return fmt.Errorf("oracle: RollbackTx called with no pending transaction")
	}
	d.connMu.Lock()
	err := d.tx.Rollback()
	d.connMu.Unlock()
	d.tx = nil
	d.slot = slotNone
	d.pending = QueryResultsWithMetadata{}
	return err
}

func (d *oracleDriver) LoadMenu(ctx context.Context) (model.Rows, error) {
	d.connMu.Lock()
	defer d.connMu.Unlock()
	rows, err := d.db.QueryContext(ctx, `
		SELECT owner, table_name
		FROM all_tables
		WHERE owner NOT IN ('SYS', 'SYSTEM', 'OUTLN', 'XDB')
		ORDER BY owner, table_name`)
	if err != nil {
		return model.Rows{}, err
	}
	defer rows.Close()
	return scanRows(rows, decodeOracleCell)
}

func (d *oracleDriver) PreviewRowsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT * FROM "%s"."%s" WHERE ROWNUM <= 100`, schema, table)
}

func (d *oracleDriver) PreviewColumnsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT column_name, data_type, nullable, data_default
		FROM all_tab_columns
		WHERE owner = '%s' AND table_name = '%s'
		ORDER BY column_id`, schema, table)
}

func (d *oracleDriver) PreviewConstraintsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT constraint_name, constraint_type, search_condition
		FROM all_constraints
		WHERE owner = '%s' AND table_name = '%s'`, schema, table)
}

func (d *oracleDriver) PreviewIndexesQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT index_name, uniqueness
		FROM all_indexes
		WHERE table_owner = '%s' AND table_name = '%s'`, schema, table)
}

func (d *oracleDriver) PreviewPoliciesQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT policy_name, policy_type, sel, ins, upd, del
		FROM all_policies
		WHERE object_owner = '%s' AND object_name = '%s'`, schema, table)
}

func (d *oracleDriver) Close() error { return d.db.Close() }
