package parser

// Kind classifies the admissible statement returned by Parse. It mirrors
// the statement shapes GetExecutionType dispatches on; dialects that can't
// discriminate a sub-kind (e.g. the MySQL grammar has no ALTER ROLE) just
// never produce it.
type Kind int

const (
	KindOther Kind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindAlterTable
	KindAlterIndex
	KindAlterView
	KindAlterRole
	KindDrop
	KindTruncate
	KindExplain
)

// Statement is the driver-agnostic classification of one parsed SQL
// statement. Text is the canonical re-serialized form (or the verbatim
// input, for statements classified by sniffing a leading keyword instead
// of building a full AST). Bypass-parser mode produces no Statement.
type Statement struct {
	Kind    Kind
	Analyze bool       // only meaningful when Kind == KindExplain
	Inner   *Statement // only set when Kind == KindExplain
	Text    string
}

// ExecutionType classifies how a Statement should be run.
type ExecutionType int

const (
	Normal ExecutionType = iota
	Confirm
	Transaction
)

// GetExecutionType implements the classification rules of spec.md §4.1 and
// §4.2's DuckDB exception: confirmed=true means the user has already
// answered an earlier confirmation popup for this exact statement, so it
// always runs Normal. tag matters only for KindDelete/KindUpdate — DuckDB
// has no transaction support at all (driver.ErrTxUnsupported), so on that
// tag a statement that would otherwise run behind start_tx instead
// collapses to Confirm and runs behind start_query once accepted.
func GetExecutionType(tag DriverTag, stmt *Statement, confirmed bool) ExecutionType {
	if confirmed {
		return Normal
	}
	if stmt == nil {
		return Normal
	}
	switch stmt.Kind {
	case KindAlterIndex, KindAlterView, KindAlterRole, KindAlterTable, KindDrop, KindTruncate:
		return Confirm
	case KindDelete, KindUpdate:
		if tag == DuckDB {
			return Confirm
		}
		return Transaction
	case KindExplain:
		if !stmt.Analyze || stmt.Inner == nil {
			return Normal
		}
		switch inner := GetExecutionType(tag, stmt.Inner, false); inner {
		case Transaction, Confirm:
			return inner
		default:
			return Normal
		}
	default:
		return Normal
	}
}
