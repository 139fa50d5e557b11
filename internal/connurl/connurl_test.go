package connurl

import (
	"testing"

	"github.com/rainfrog/rainfrog/internal/parser"
)

func TestExtractDriver(t *testing.T) {
	cases := []struct {
		in      string
		want    parser.DriverTag
		wantErr bool
	}{
		{"postgres://user@host/db", parser.Postgres, false},
		{"  postgresql://user@host/db  ", parser.Postgres, false},
		{"POSTGRES://user@host/db", parser.Postgres, false},
		{"mysql://user@host/db", parser.MySQL, false},
		{"jdbc:oracle:thin:@host:1521:xe", parser.Oracle, false},
		{"/tmp/my.sqlite", parser.SQLite, false},
		{"/tmp/my.sqlite3", parser.SQLite, false},
		{"/tmp/my.duckdb", parser.DuckDB, false},
		{"/tmp/my.ddb", parser.DuckDB, false},
		{"/tmp/my.db", "", true},
		{"not a url", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := ExtractDriver(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ExtractDriver(%q) = %v, want error", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ExtractDriver(%q) unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ExtractDriver(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestExtractDriverIdempotentUnderWhitespace(t *testing.T) {
	a, err := ExtractDriver("postgres://h/d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ExtractDriver("  postgres://h/d  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("extraction not idempotent under whitespace: %v != %v", a, b)
	}
}
