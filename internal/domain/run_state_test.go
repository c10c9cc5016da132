package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRunStateEmptyListsSerializeAsArrays(t *testing.T) {
	state := NewRunState("run-1", "use 2 forklifts")

	b, err := json.Marshal(state.Result())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	if !strings.Contains(got, `"errors":[]`) || !strings.Contains(got, `"logs":[]`) {
		t.Fatalf("empty lists must encode as [], got %s", got)
	}
}

func TestRunStateSnapshotsAreCopies(t *testing.T) {
	state := NewRunState("run-1", "q")
	state.AddError(errors.New("boom"))

	errs := state.Errors()
	errs[0] = "changed"

	if state.Errors()[0] != "boom" {
		t.Fatal("Errors must return a copy")
	}
	if logs := state.Logs(); len(logs) != 1 || logs[0] != "ERROR: boom" {
		t.Fatalf("logs = %v", logs)
	}
}
