package parser

import (
	"strings"

	pgquery "github.com/pganalyze/pg_query_go/v2"
)

// parsePostgres uses libpg_query (via pganalyze/pg_query_go), the actual
// PostgreSQL grammar, so statement splitting and re-serialization are
// dialect-correct rather than approximated.
func parsePostgres(body string) (string, *Statement, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", nil, errEmpty()
	}

	result, err := pgquery.Parse(trimmed)
	if err != nil {
		return "", nil, errSQL(err)
	}

	stmts := nonEmptyRawStmts(result)
	if len(stmts) == 0 {
		return "", nil, errEmpty()
	}
	if len(stmts) > 1 {
		return "", nil, errMultiple()
	}

	single := &pgquery.ParseResult{
		Version: result.Version,
		Stmts:   stmts,
	}
	text, err := pgquery.Deparse(single)
	if err != nil {
		// Deparse can fail on a handful of exotic nodes (e.g. some utility
		// statements); fall back to the original slice of source text.
		text = trimmed
	}

	kind := classifyPostgres(stmts[0])
	return text, &Statement{Kind: kind, Text: text}, nil
}

func nonEmptyRawStmts(r *pgquery.ParseResult) []*pgquery.RawStmt {
	out := make([]*pgquery.RawStmt, 0, len(r.Stmts))
	for _, s := range r.Stmts {
		if s != nil && s.Stmt != nil {
			out = append(out, s)
		}
	}
	return out
}

func classifyPostgres(raw *pgquery.RawStmt) Kind {
	n := raw.Stmt
	switch {
	case n.GetSelectStmt() != nil:
		return KindSelect
	case n.GetInsertStmt() != nil:
		return KindInsert
	case n.GetUpdateStmt() != nil:
		return KindUpdate
	case n.GetDeleteStmt() != nil:
		return KindDelete
	case n.GetTruncateStmt() != nil:
		return KindTruncate
	case n.GetDropStmt() != nil:
		return KindDrop
	case n.GetAlterTableStmt() != nil:
		return classifyAlterTable(n.GetAlterTableStmt())
	case n.GetAlterRoleStmt() != nil:
		return KindAlterRole
	case n.GetRenameStmt() != nil:
		return classifyRename(n.GetRenameStmt())
	default:
		return KindOther
	}
}

// classifyAlterTable inspects the object kind ALTER TABLE's grammar node
// carries (relkind) to tell apart ALTER TABLE proper from ALTER INDEX,
// which Postgres's grammar routes through the same AlterTableStmt node.
func classifyAlterTable(stmt *pgquery.AlterTableStmt) Kind {
	switch stmt.GetRelkind() {
	case pgquery.ObjectType_OBJECT_INDEX:
		return KindAlterIndex
	case pgquery.ObjectType_OBJECT_VIEW:
		return KindAlterView
	default:
		return KindAlterTable
	}
}

// classifyRename handles the RENAME forms (ALTER TABLE/INDEX/VIEW ... RENAME
// TO ...), which Postgres represents as a dedicated RenameStmt rather than
// AlterTableStmt.
func classifyRename(stmt *pgquery.RenameStmt) Kind {
	switch stmt.GetRenameType() {
	case pgquery.ObjectType_OBJECT_INDEX:
		return KindAlterIndex
	case pgquery.ObjectType_OBJECT_VIEW:
		return KindAlterView
	default:
		return KindAlterTable
	}
}
