package db

import "testing"

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?)"

	if got := Rebind(DriverSQLite, q); got != q {
		t.Fatalf("sqlite rebind changed query: %q", got)
	}

	want := "INSERT INTO t (a, b) VALUES ($1, $2)"
	if got := Rebind(DriverPostgres, q); got != want {
		t.Fatalf("Rebind = %q, want %q", got, want)
	}
}
