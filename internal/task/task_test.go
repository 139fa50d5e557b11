package task

import (
	"context"
	"testing"

	"github.com/rainfrog/rainfrog/internal/driver"
	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
)

// fakeDriver is a hand-rolled driver.Driver stub so the state machine can
// be exercised without a real database connection.
type fakeDriver struct {
	started   bool
	aborted   bool
	status    driver.TaskStatus
	commitErr error
}

func (f *fakeDriver) Tag() parser.DriverTag                          { return parser.Postgres }
func (f *fakeDriver) StartQuery(sqlText string, stmt *parser.Statement) { f.started = true }
func (f *fakeDriver) StartTx(sqlText string, stmt *parser.Statement)    { f.started = true }
func (f *fakeDriver) AbortQuery() bool                                { f.aborted = true; return f.started }
func (f *fakeDriver) GetQueryResults() driver.TaskStatus              { return f.status }
func (f *fakeDriver) CommitTx(ctx context.Context) (*driver.QueryResultsWithMetadata, error) {
	return &driver.QueryResultsWithMetadata{Results: model.Rows{}}, f.commitErr
}
func (f *fakeDriver) RollbackTx(ctx context.Context) error { return nil }
func (f *fakeDriver) LoadMenu(ctx context.Context) (model.Rows, error) {
	return model.Rows{}, nil
}
func (f *fakeDriver) PreviewRowsQuery(schema, table string) string       { return "" }
func (f *fakeDriver) PreviewColumnsQuery(schema, table string) string    { return "" }
func (f *fakeDriver) PreviewConstraintsQuery(schema, table string) string { return "" }
func (f *fakeDriver) PreviewIndexesQuery(schema, table string) string    { return "" }
func (f *fakeDriver) PreviewPoliciesQuery(schema, table string) string   { return "" }
func (f *fakeDriver) Close() error                                      { return nil }

func TestStartQueryRequiresNoneState(t *testing.T) {
	m := New(&fakeDriver{})
	if err := m.StartQuery("select 1", &parser.Statement{Kind: parser.KindSelect}); err != nil {
		t.Fatalf("StartQuery from None: %v", err)
	}
	if m.State() != Pending {
		t.Fatalf("state = %s, want Pending", m.State())
	}
	if err := m.StartQuery("select 2", nil); err == nil {
		t.Fatalf("expected error starting a second query while Pending")
	}
}

func TestTickFinishedReturnsToNone(t *testing.T) {
	fd := &fakeDriver{status: driver.TaskStatus{Kind: driver.Finished, Result: &driver.QueryResultsWithMetadata{}}}
	m := New(fd)
	m.StartQuery("select 1", &parser.Statement{Kind: parser.KindSelect})

	out := m.Tick()
	if out.Kind != DataReady {
		t.Fatalf("outcome kind = %v, want DataReady", out.Kind)
	}
	if m.State() != None {
		t.Fatalf("state after Finished = %s, want None", m.State())
	}
}

func TestTickConfirmTxOpensPopup(t *testing.T) {
	n := int64(3)
	fd := &fakeDriver{status: driver.TaskStatus{Kind: driver.ConfirmTxStatus, RowsAffected: &n}}
	m := New(fd)
	m.StartTx("delete from t", &parser.Statement{Kind: parser.KindDelete})

	out := m.Tick()
	if out.Kind != TxOpened {
		t.Fatalf("outcome kind = %v, want TxOpened", out.Kind)
	}
	if m.State() != AwaitingTxDecision {
		t.Fatalf("state = %s, want AwaitingTxDecision", m.State())
	}

	if _, err := m.ConfirmTx(context.Background()); err != nil {
		t.Fatalf("ConfirmTx: %v", err)
	}
	if m.State() != None {
		t.Fatalf("state after commit = %s, want None", m.State())
	}
}

func TestAbortQueryOnlyWorksWhilePending(t *testing.T) {
	m := New(&fakeDriver{})
	if m.AbortQuery() {
		t.Fatalf("AbortQuery from None should be a no-op returning false")
	}
	m.StartQuery("select pg_sleep(10)", &parser.Statement{Kind: parser.KindSelect})
	if !m.AbortQuery() {
		t.Fatalf("AbortQuery from Pending should succeed")
	}
	if m.State() != None {
		t.Fatalf("state after abort = %s, want None", m.State())
	}
}

func TestRollbackRequiresAwaitingTxDecision(t *testing.T) {
	m := New(&fakeDriver{})
	if err := m.RollbackTx(context.Background()); err == nil {
		t.Fatalf("expected error rolling back with no pending transaction")
	}
}
