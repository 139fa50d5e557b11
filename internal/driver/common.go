package driver

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
)

// runSQLQuery executes sqlText against pool and decodes whatever rows (or
// rows-affected count) come back. Shared by every database/sql-backed
// driver; only the CellDecoder differs per backend.
func runSQLQuery(ctx context.Context, pool *sql.DB, sqlText string, stmt *parser.Statement, decode CellDecoder) QueryResultsWithMetadata {
	if looksLikeRowReturning(stmt) {
		rows, err := pool.QueryContext(ctx, sqlText)
		if err != nil {
			return QueryResultsWithMetadata{Err: err, Statement: stmt}
		}
		defer rows.Close()
		results, err := scanRows(rows, decode)
		if err != nil {
			return QueryResultsWithMetadata{Err: err, Statement: stmt}
		}
		return QueryResultsWithMetadata{Results: results, Statement: stmt}
	}

	res, err := pool.ExecContext(ctx, sqlText)
	if err != nil {
		return QueryResultsWithMetadata{Err: err, Statement: stmt}
	}
	n, _ := res.RowsAffected()
	return QueryResultsWithMetadata{Results: affectedRows(n), Statement: stmt}
}

// runSQLQueryTx is runSQLQuery's transaction-bound twin, used by StartTx.
func runSQLQueryTx(ctx context.Context, tx *sql.Tx, sqlText string, stmt *parser.Statement, decode CellDecoder) QueryResultsWithMetadata {
	if looksLikeRowReturning(stmt) {
		rows, err := tx.QueryContext(ctx, sqlText)
		if err != nil {
			return QueryResultsWithMetadata{Err: err, Statement: stmt}
		}
		defer rows.Close()
		results, err := scanRows(rows, decode)
		if err != nil {
			return QueryResultsWithMetadata{Err: err, Statement: stmt}
		}
		return QueryResultsWithMetadata{Results: results, Statement: stmt}
	}

	res, err := tx.ExecContext(ctx, sqlText)
	if err != nil {
		return QueryResultsWithMetadata{Err: err, Statement: stmt}
	}
	n, _ := res.RowsAffected()
	return QueryResultsWithMetadata{Results: affectedRows(n), Statement: stmt}
}

func looksLikeRowReturning(stmt *parser.Statement) bool {
	if stmt == nil {
		// bypass_parser mode: the statement shape is unknown and is not
		// probed, so the text always runs through ExecContext and only a
		// rows-affected count comes back; result rows are not returned.
		return false
	}
	switch stmt.Kind {
	case parser.KindSelect:
		return true
	case parser.KindExplain:
		return true
	default:
		return false
	}
}

func affectedRows(n int64) model.Rows {
	return model.Rows{RowsAffected: &n}
}

// genericGetQueryResults implements the GetQueryResults polling contract
// shared by all five drivers: inspect the in-flight task; if it just
// finished, either surface it (Finished) or, for a transactional task,
// stash it and surface ConfirmTxStatus. A driver already sitting in
// TxPending always reports Pending, never re-finishing (spec.md §4.2).
func genericGetQueryResults(slot *slotState, task **asyncTask, pending *QueryResultsWithMetadata) TaskStatus {
	switch *slot {
	case slotNone:
		return TaskStatus{Kind: NoTask}
	case slotTxPending:
		return TaskStatus{Kind: Pending}
	}

	if *task == nil {
		return TaskStatus{Kind: NoTask}
	}
	result, done := (*task).poll()
	if !done {
		return TaskStatus{Kind: Pending}
	}

	wasTx := *slot == slotTxStart
	*task = nil

	if wasTx && result.Err == nil {
		*pending = result
		*slot = slotTxPending
		return TaskStatus{
			Kind:         ConfirmTxStatus,
			RowsAffected: result.Results.RowsAffected,
			Statement:    result.Statement,
		}
	}

	*slot = slotNone
	return TaskStatus{Kind: Finished, Result: &result}
}

func trimLower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
