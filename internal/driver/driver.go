// Package driver implements the uniform asynchronous contract the core
// state machine drives: connect, start/abort a query, poll for a finished
// result, and manage the confirm-then-commit transaction dance — over five
// backends with unrelated native clients (lib/pq, go-sql-driver/mysql,
// mattn/go-sqlite3, sijms/go-ora, marcboeker/go-duckdb).
package driver

import (
	"context"
	"errors"

	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
)

// ErrTxUnsupported is returned by DuckDB's StartTx/CommitTx/RollbackTx;
// DuckDB has no multi-statement transaction semantics exposed through
// go-duckdb's database/sql driver in the way the other four backends do.
var ErrTxUnsupported = errors.New("driver: transactions are not supported by this backend")

// ConnOpts is the resolved connection configuration, already merged from
// CLI flags / URL / config file by the caller (see config.ApplyFlags).
type ConnOpts struct {
	Driver   parser.DriverTag
	URL      string
	Host     string
	Port     string
	Database string
	Username string
	Password string
}

// QueryResultsWithMetadata is produced by a driver task on completion and
// moves exactly once into either the Results Viewport or a TxPending slot.
type QueryResultsWithMetadata struct {
	Results   model.Rows
	Err       error
	Statement *parser.Statement
}

// TaskStatusKind tags the union GetQueryResults returns.
type TaskStatusKind int

const (
	NoTask TaskStatusKind = iota
	Pending
	Finished
	ConfirmTxStatus
)

// TaskStatus is the non-blocking result of polling the driver's one-slot
// task. Exactly one of Result (Finished) or RowsAffected+Statement
// (ConfirmTxStatus) is populated, matching its Kind.
type TaskStatus struct {
	Kind         TaskStatusKind
	Result       *QueryResultsWithMetadata
	RowsAffected *int64
	Statement    *parser.Statement
}

// Driver is the uniform contract every backend implements. No inheritance
// hierarchy: one interface, five concrete structs, a tagged constructor
// switch (see New in factory.go).
type Driver interface {
	Tag() parser.DriverTag

	// StartQuery schedules a non-transactional query. Returns immediately.
	// Calling this while a task is already in flight is a caller bug (the
	// Task State Machine must not allow it) and panics.
	//
	// stmt is the Statement the parser already classified to pick this
	// execution path; it is threaded straight through into the task's
	// QueryResultsWithMetadata rather than re-parsed. stmt is nil exactly
	// when bypass_parser was used, which is also how the resulting
	// QueryResultsWithMetadata ends up with statement_type = None
	// (spec.md §4.1).
	StartQuery(sqlText string, stmt *parser.Statement)

	// StartTx is identical to StartQuery but the statement runs inside a
	// newly opened transaction, and GetQueryResults will report
	// ConfirmTxStatus instead of Finished once it completes.
	StartTx(sqlText string, stmt *parser.Statement)

	// AbortQuery cancels the in-flight task, if any, and returns true if
	// there was one to cancel. Idempotent: calling it with no task in
	// flight is a no-op that returns false. Leaves the driver in the
	// NoTask state: the task slot is cleared in the same call that
	// cancels the task's context. No implementation takes a connection
	// lock here; a lock the task goroutine holds is released when that
	// goroutine returns.
	AbortQuery() bool

	// GetQueryResults is non-blocking: it only inspects whether the
	// in-flight task has finished.
	GetQueryResults() TaskStatus

	// CommitTx and RollbackTx consume the TxPending slot exactly once.
	// They may suspend on network I/O; internal/app calls them directly
	// from its Update, so the UI waits until they return.
	CommitTx(ctx context.Context) (*QueryResultsWithMetadata, error)
	RollbackTx(ctx context.Context) error

	LoadMenu(ctx context.Context) (model.Rows, error)

	PreviewRowsQuery(schema, table string) string
	PreviewColumnsQuery(schema, table string) string
	PreviewConstraintsQuery(schema, table string) string
	PreviewIndexesQuery(schema, table string) string
	PreviewPoliciesQuery(schema, table string) string

	Close() error
}
