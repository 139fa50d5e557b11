// Package task implements the App-owned Task State Machine described in
// SPEC_FULL.md §4.3: a thin state enum wrapping the Driver's own one-slot
// task so the App Loop never has to scatter nil checks for "is something
// running" across its Update function.
package task

import (
	"context"
	"fmt"

	"github.com/rainfrog/rainfrog/internal/driver"
	"github.com/rainfrog/rainfrog/internal/parser"
)

// State names the machine's current position. Zero value is None.
type State int

const (
	None State = iota
	Pending
	AwaitingTxDecision
	CommittingTx
	RollingBackTx
)

func (s State) String() string {
	switch s {
	case None:
		return "None"
	case Pending:
		return "Pending"
	case AwaitingTxDecision:
		return "AwaitingTxDecision"
	case CommittingTx:
		return "CommittingTx"
	case RollingBackTx:
		return "RollingBackTx"
	default:
		return "Unknown"
	}
}

// Outcome is what a Tick hands back to the App Loop to act on: Result is
// populated for DataReady, RowsAffected and Statement for TxOpened.
type OutcomeKind int

const (
	NoOutcome OutcomeKind = iota
	Cancelled
	DataReady  // result → Viewport
	TxOpened   // popup should open (ConfirmTx)
)

type Outcome struct {
	Kind         OutcomeKind
	Result       *driver.QueryResultsWithMetadata
	RowsAffected *int64
	Statement    *parser.Statement
}

// Machine owns exactly one State and delegates the real async work to a
// driver.Driver. It never holds two states at once and every method below
// corresponds to one arrow in SPEC_FULL.md §4.3's transition diagram.
type Machine struct {
	state State
	drv   driver.Driver
}

func New(drv driver.Driver) *Machine {
	return &Machine{drv: drv}
}

func (m *Machine) State() State { return m.state }

// StartQuery fires None --start_query(Normal|Confirm)--> Pending.
func (m *Machine) StartQuery(sqlText string, stmt *parser.Statement) error {
	if m.state != None {
		return fmt.Errorf("task: StartQuery called in state %s, want None", m.state)
	}
	m.drv.StartQuery(sqlText, stmt)
	m.state = Pending
	return nil
}

// StartTx fires None --start_query(Transaction)--> Pending; the driver
// will report ConfirmTx once the statement inside the new transaction has
// run, moving this machine on to AwaitingTxDecision via Tick.
func (m *Machine) StartTx(sqlText string, stmt *parser.Statement) error {
	if m.state != None {
		return fmt.Errorf("task: StartTx called in state %s, want None", m.state)
	}
	m.drv.StartTx(sqlText, stmt)
	m.state = Pending
	return nil
}

// Tick is the one poll-per-frame the App Loop performs. At most one
// transition happens per call; a task still running leaves the state as
// it is and yields NoOutcome.
func (m *Machine) Tick() Outcome {
	switch m.state {
	case Pending:
		status := m.drv.GetQueryResults()
		switch status.Kind {
		case driver.Finished:
			m.state = None
			return Outcome{Kind: DataReady, Result: status.Result}
		case driver.ConfirmTxStatus:
			m.state = AwaitingTxDecision
			return Outcome{Kind: TxOpened, RowsAffected: status.RowsAffected, Statement: status.Statement}
		default:
			return Outcome{Kind: NoOutcome}
		}
	default:
		return Outcome{Kind: NoOutcome}
	}
}

// AbortQuery fires Pending --user:Abort--> None. Calling it outside
// Pending is a no-op, matching the driver's own idempotent AbortQuery.
// §4.3 also draws AwaitingTxDecision --Abort--> RollingBackTx, which this
// method does not implement: it is safe to omit only because the Popup
// Orchestrator owns all key input while a ConfirmTx popup is open, so the
// App Loop never routes an Abort action to this Machine in that state —
// RollbackTx already covers the equivalent "reject the open transaction"
// outcome the popup's "n"/Esc path produces.
func (m *Machine) AbortQuery() bool {
	if m.state != Pending {
		return false
	}
	aborted := m.drv.AbortQuery()
	m.state = None
	return aborted
}

// ConfirmTx fires AwaitingTxDecision --user:Y--> CommittingTx --done--> None.
func (m *Machine) ConfirmTx(ctx context.Context) (*driver.QueryResultsWithMetadata, error) {
	if m.state != AwaitingTxDecision {
		return nil, fmt.Errorf("task: ConfirmTx called in state %s, want AwaitingTxDecision", m.state)
	}
	m.state = CommittingTx
	result, err := m.drv.CommitTx(ctx)
	m.state = None
	return result, err
}

// RollbackTx fires AwaitingTxDecision --user:N/Esc|Abort--> RollingBackTx
// --done--> None.
func (m *Machine) RollbackTx(ctx context.Context) error {
	if m.state != AwaitingTxDecision {
		return fmt.Errorf("task: RollbackTx called in state %s, want AwaitingTxDecision", m.state)
	}
	m.state = RollingBackTx
	err := m.drv.RollbackTx(ctx)
	m.state = None
	return err
}

