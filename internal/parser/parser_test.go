package parser

import "testing"

func TestParse_SelectNormal(t *testing.T) {
	text, stmt, err := Parse(Postgres, "select 1, 2", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Kind != KindSelect {
		t.Fatalf("expected KindSelect, got %v", stmt.Kind)
	}
	if text == "" {
		t.Fatalf("expected non-empty canonical text")
	}
	if GetExecutionType(Postgres, stmt, false) != Normal {
		t.Fatalf("expected Normal execution type")
	}
}

func TestParse_EmptyQuery(t *testing.T) {
	_, _, err := Parse(Postgres, "   -- just a comment\n", false)
	if err == nil {
		t.Fatalf("expected an error")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != EmptyQuery {
		t.Fatalf("expected EmptyQuery, got %#v", err)
	}
}

func TestParse_MoreThanOneStatement(t *testing.T) {
	_, _, err := Parse(Postgres, "SELECT 1; SELECT 2;", false)
	if err == nil {
		t.Fatalf("expected an error")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != MoreThanOneStatement {
		t.Fatalf("expected MoreThanOneStatement, got %#v", err)
	}
}

func TestParse_BypassParser(t *testing.T) {
	text, stmt, err := Parse(Postgres, "SELECT 1; SELECT 2;", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt != nil {
		t.Fatalf("expected nil statement in bypass mode")
	}
	if text != "SELECT 1; SELECT 2;" {
		t.Fatalf("expected verbatim trimmed text, got %q", text)
	}
}

func TestParse_DeleteIsTransaction(t *testing.T) {
	_, stmt, err := Parse(MySQL, "DELETE FROM t WHERE id=1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GetExecutionType(MySQL, stmt, false) != Transaction {
		t.Fatalf("expected Transaction execution type")
	}
	if GetExecutionType(MySQL, stmt, true) != Normal {
		t.Fatalf("confirmed=true must always be Normal")
	}
}

func TestParse_DeleteOnDuckDBIsConfirmNotTransaction(t *testing.T) {
	_, stmt, err := Parse(DuckDB, "DELETE FROM t WHERE id=1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := GetExecutionType(DuckDB, stmt, false); got != Confirm {
		t.Fatalf("expected Confirm for DELETE on DuckDB (no transaction support), got %v", got)
	}
	if got := GetExecutionType(MySQL, stmt, false); got != Transaction {
		t.Fatalf("expected Transaction for the same statement on a driver tag with tx support, got %v", got)
	}
}

func TestParse_DropIsConfirm(t *testing.T) {
	_, stmt, err := Parse(MySQL, "DROP TABLE users", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GetExecutionType(MySQL, stmt, false) != Confirm {
		t.Fatalf("expected Confirm execution type")
	}
}

func TestParse_ExplainAnalyzeCollapsesToInner(t *testing.T) {
	_, stmt, err := Parse(Postgres, "EXPLAIN ANALYZE DELETE FROM t WHERE id=1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Kind != KindExplain || !stmt.Analyze {
		t.Fatalf("expected an analyzed Explain statement, got %#v", stmt)
	}
	if got := GetExecutionType(Postgres, stmt, false); got != Transaction {
		t.Fatalf("expected Transaction (collapsed from inner DELETE), got %v", got)
	}
}

func TestParse_ExplainWithoutAnalyzeIsNormal(t *testing.T) {
	_, stmt, err := Parse(Postgres, "EXPLAIN DELETE FROM t WHERE id=1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := GetExecutionType(Postgres, stmt, false); got != Normal {
		t.Fatalf("expected Normal for non-analyze EXPLAIN, got %v", got)
	}
}

func TestGetExecutionType_TableDriven(t *testing.T) {
	cases := []struct {
		kind Kind
		want ExecutionType
	}{
		{KindSelect, Normal},
		{KindInsert, Normal},
		{KindUpdate, Transaction},
		{KindDelete, Transaction},
		{KindAlterTable, Confirm},
		{KindAlterIndex, Confirm},
		{KindAlterView, Confirm},
		{KindAlterRole, Confirm},
		{KindDrop, Confirm},
		{KindTruncate, Confirm},
		{KindOther, Normal},
	}
	for _, c := range cases {
		got := GetExecutionType(Postgres, &Statement{Kind: c.kind}, false)
		if got != c.want {
			t.Errorf("kind %v: got %v, want %v", c.kind, got, c.want)
		}
	}
}
