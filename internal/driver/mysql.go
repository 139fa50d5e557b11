package driver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
)

type mysqlDriver struct {
	db *sql.DB

	slot    slotState
	task    *asyncTask
	tx      *sql.Tx
	pending QueryResultsWithMetadata
}

func newMySQLDriver(ctx context.Context, opts ConnOpts) (Driver, error) {
	dsn := opts.URL
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", opts.Username, opts.Password, opts.Host, opts.Port, opts.Database)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &mysqlDriver{db: db}, nil
}

func (d *mysqlDriver) Tag() parser.DriverTag { return parser.MySQL }

func (d *mysqlDriver) StartQuery(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartQuery called while a task is already in flight")
	}
	d.slot = slotQuery
	d.task = newAsyncTask(context.Background(), func(ctx context.Context) QueryResultsWithMetadata {
		return runSQLQuery(ctx, d.db, sqlText, stmt, decodeMySQLCell)
	})
}

func (d *mysqlDriver) StartTx(sqlText string, stmt *parser.Statement) {
	if d.slot != slotNone {
		panic("driver: StartTx called while a task is already in flight")
	}
	d.slot = slotTxStart
	d.task = newAsyncTask(context.Background(), func(ctx context.Context) QueryResultsWithMetadata {
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return QueryResultsWithMetadata{Err: err, Statement: stmt}
		}
		res := runSQLQueryTx(ctx, tx, sqlText, stmt, decodeMySQLCell)
		if res.Err != nil {
			tx.Rollback()
			return res
		}
		d.tx = tx
		return res
	})
}

func (d *mysqlDriver) AbortQuery() bool {
	if d.task == nil {
		return false
	}
	d.task.abort()
	d.task = nil
	d.slot = slotNone
	return true
}

func (d *mysqlDriver) GetQueryResults() TaskStatus {
	return genericGetQueryResults(&d.slot, &d.task, &d.pending)
}

func (d *mysqlDriver) CommitTx(ctx context.Context) (*QueryResultsWithMetadata, error) {
	if d.slot != slotTxPending || d.tx == nil {
		return nil, fmt.Errorf("mysql: CommitTx called with no pending transaction")
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

func (d *mysqlDriver) RollbackTx(ctx context.Context) error {
	if d.slot != slotTxPending || d.tx == nil {
		return fmt.Errorf("mysql: RollbackTx called with no pending transaction")
	}
	err := d.tx.Rollback()
	d.tx = nil
	d.slot = slotNone
	d.pending = QueryResultsWithMetadata{}
	return err
}

func (d *mysqlDriver) LoadMenu(ctx context.Context) (model.Rows, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')
		ORDER BY table_schema, table_name`)
	if err != nil {
		return model.Rows{}, err
	}
	defer rows.Close()
	return scanRows(rows, decodeMySQLCell)
}

func (d *mysqlDriver) PreviewRowsQuery(schema, table string) string {
	return fmt.Sprintf("SELECT * FROM `%s`.`%s` LIMIT 100", schema, table)
}

func (d *mysqlDriver) PreviewColumnsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT column_name, column_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = '%s' AND table_name = '%s'
		ORDER BY ordinal_position`, schema, table)
}

func (d *mysqlDriver) PreviewConstraintsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT constraint_name, constraint_type
		FROM information_schema.table_constraints
		WHERE table_schema = '%s' AND table_name = '%s'`, schema, table)
}

func (d *mysqlDriver) PreviewIndexesQuery(schema, table string) string {
	return fmt.Sprintf("SHOW INDEX FROM `%s`.`%s`", schema, table)
}

func (d *mysqlDriver) PreviewPoliciesQuery(schema, table string) string {
	return "-- MySQL has no row-level security policy catalog"
}

func (d *mysqlDriver) Close() error { return d.db.Close() }
