package db

import "testing"

func TestSQLiteDSN(t *testing.T) {
	cases := map[string]string{
		"data/qc.db":                            "data/qc.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		"data/qc.db?_pragma=foreign_keys(1)":    "data/qc.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		"file:qc.db?mode=rwc&_txlock=immediate": "file:qc.db?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
	}
	for in, want := range cases {
		if got := sqliteDSN(in); got != want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", in, got, want)
		}
	}
}
