package controllers

import (
	"encoding/json"
	"testing"
)

func TestIDListDropsSentinelEntries(t *testing.T) {
	var in bulkDeleteInput
	payload := `{"ids": [3, "new", null, 0, -4, 7, "9", 12]}`
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := idList{3, 7, 12}
	if len(in.IDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, in.IDs)
	}
	for i, id := range want {
		if in.IDs[i] != id {
			t.Errorf("at %d: expected %d, got %d", i, id, in.IDs[i])
		}
	}
}

func TestIDListRejectsNonArray(t *testing.T) {
	var in bulkDeleteInput
	if err := json.Unmarshal([]byte(`{"ids": "all"}`), &in); err == nil {
		t.Fatal("expected a non-array ids value to fail decoding")
	}
}
