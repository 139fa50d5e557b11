package parser

import "strings"

// DriverTag identifies which of the five backends a query targets. Dialect
// selection is a pure function of this tag (spec.md §9 design note) so the
// parser never needs a live driver handle.
type DriverTag string

const (
	Postgres DriverTag = "postgres"
	MySQL    DriverTag = "mysql"
	SQLite   DriverTag = "sqlite"
	Oracle   DriverTag = "oracle"
	DuckDB   DriverTag = "duckdb"
)

// Parse reduces raw (possibly multi-statement, possibly commented) input to
// a single admissible statement and classifies it, per spec.md §4.1.
//
// bypassParser short-circuits everything below and returns the trimmed raw
// text with a nil Statement; the caller is expected to have already routed
// that mode through the ConfirmBypass popup.
func Parse(tag DriverTag, raw string, bypassParser bool) (string, *Statement, error) {
	if bypassParser {
		text := strings.TrimSpace(raw)
		if text == "" {
			return "", nil, errEmpty()
		}
		return text, nil, nil
	}

	body, analyze, hadExplain := stripExplainPrefix(raw)

	text, stmt, err := parseOne(tag, body)
	if err != nil {
		return "", nil, err
	}

	if hadExplain {
		outer := &Statement{
			Kind:    KindExplain,
			Analyze: analyze,
			Inner:   stmt,
			Text:    "EXPLAIN " + explainOptsText(analyze) + text,
		}
		return outer.Text, outer, nil
	}
	return text, stmt, nil
}

func explainOptsText(analyze bool) string {
	if analyze {
		return "ANALYZE "
	}
	return ""
}

// stripExplainPrefix peels a leading EXPLAIN [ANALYZE] or EXPLAIN (opts...)
// clause off raw input, returning the remainder to parse as the inner
// statement. This is deliberately textual rather than AST-based so it
// behaves identically across all five dialects (see SPEC_FULL.md §4.1).
func stripExplainPrefix(raw string) (body string, analyze bool, hadExplain bool) {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "explain") {
		return raw, false, false
	}
	rest := strings.TrimSpace(s[len("explain"):])
	restLower := strings.ToLower(rest)

	switch {
	case strings.HasPrefix(restLower, "analyze"):
		analyze = true
		rest = strings.TrimSpace(rest[len("analyze"):])
	case strings.HasPrefix(rest, "("):
		end := strings.Index(rest, ")")
		if end != -1 {
			opts := strings.ToLower(rest[1:end])
			analyze = containsWord(opts, "analyze") && !containsWord(opts, "analyze false") && !containsWord(opts, "analyze 0")
			rest = strings.TrimSpace(rest[end+1:])
		}
	}
	return rest, analyze, true
}

func containsWord(haystack, word string) bool {
	return strings.Contains(haystack, word)
}

func parseOne(tag DriverTag, body string) (string, *Statement, error) {
	switch tag {
	case Postgres:
		return parsePostgres(body)
	default:
		return parseVitess(body)
	}
}
