package parser

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// parseVitess backs MySQL and SQLite with the vitess MySQL grammar, and
// backs Oracle/DuckDB as a best-effort generic SQL grammar — no dedicated
// grammar for either exists anywhere in the reachable ecosystem. Dialect
// constructs the vitess grammar rejects (SQLite's PRAGMA/ATTACH, Oracle's
// PL/SQL blocks) fall back to sniffLeadingKeyword, which only answers the
// classification question rather than building a full AST.
func parseVitess(body string) (string, *Statement, error) {
	pieces, err := sqlparser.SplitStatementToPieces(body)
	if err != nil {
		return "", nil, errSQL(err)
	}

	nonBlank := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if strings.TrimSpace(stripSQLComments(p)) != "" {
			nonBlank = append(nonBlank, p)
		}
	}
	if len(nonBlank) == 0 {
		return "", nil, errEmpty()
	}
	if len(nonBlank) > 1 {
		return "", nil, errMultiple()
	}

	piece := strings.TrimSpace(nonBlank[0])

	stmt, err := sqlparser.Parse(piece)
	if err != nil {
		return sniffLeadingKeyword(piece)
	}

	text := sqlparser.String(stmt)
	return text, &Statement{Kind: classifyVitess(stmt), Text: text}, nil
}

func classifyVitess(stmt sqlparser.Statement) Kind {
	switch n := stmt.(type) {
	case *sqlparser.Select, *sqlparser.Union:
		return KindSelect
	case *sqlparser.Insert:
		return KindInsert
	case *sqlparser.Update:
		return KindUpdate
	case *sqlparser.Delete:
		return KindDelete
	case *sqlparser.DDL:
		switch n.Action {
		case sqlparser.DropStr:
			return KindDrop
		case sqlparser.TruncateStr:
			return KindTruncate
		case sqlparser.AlterStr, sqlparser.RenameStr:
			return KindAlterTable
		default:
			return KindOther
		}
	default:
		return KindOther
	}
}

// sniffLeadingKeyword classifies input the grammar couldn't parse at all by
// inspecting its first keyword. It never fails: anything unrecognized is
// KindOther, which GetExecutionType treats as Normal. This keeps the parser
// total (spec.md §8: parse(s) always returns Ok or one of the three typed
// errors, never a panic) at the cost of AST fidelity for vendor-specific
// statements.
func sniffLeadingKeyword(text string) (string, *Statement, error) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	kind := KindOther
	switch {
	case strings.HasPrefix(upper, "ALTER ROLE"), strings.HasPrefix(upper, "ALTER USER"):
		kind = KindAlterRole
	case strings.HasPrefix(upper, "ALTER INDEX"):
		kind = KindAlterIndex
	case strings.HasPrefix(upper, "ALTER VIEW"):
		kind = KindAlterView
	case strings.HasPrefix(upper, "ALTER TABLE"), strings.HasPrefix(upper, "ALTER "):
		kind = KindAlterTable
	case strings.HasPrefix(upper, "DROP "):
		kind = KindDrop
	case strings.HasPrefix(upper, "TRUNCATE"):
		kind = KindTruncate
	case strings.HasPrefix(upper, "DELETE"):
		kind = KindDelete
	case strings.HasPrefix(upper, "UPDATE"):
		kind = KindUpdate
	case strings.HasPrefix(upper, "INSERT"):
		kind = KindInsert
	case strings.HasPrefix(upper, "SELECT"), strings.HasPrefix(upper, "WITH"):
		kind = KindSelect
	case strings.HasPrefix(upper, "BEGIN"):
		// A PL/SQL anonymous block: treat conservatively, it may do anything.
		kind = KindAlterTable
	}
	return text, &Statement{Kind: kind, Text: text}, nil
}

// stripSQLComments removes -- line comments and /* */ block comments, used
// only to decide whether a split piece is blank (i.e. comments-only).
func stripSQLComments(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '-' && i+1 < len(runes) && runes[i+1] == '-' {
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			continue
		}
		if runes[i] == '/' && i+1 < len(runes) && runes[i+1] == '*' {
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}
