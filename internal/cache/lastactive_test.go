package cache

import "testing"

func TestBuildLastActiveCaseWhen_Empty(t *testing.T) {
	query, args := BuildLastActiveCaseWhen(nil)
	if query != "" || args != nil {
		t.Errorf("expected empty query and args for empty flush, got %q %v", query, args)
	}
}

func TestBuildLastActiveCaseWhen_SingleEntry(t *testing.T) {
	query, args := BuildLastActiveCaseWhen([]LastActiveFlush{{UserID: "u1", Epoch: 1000}})
	if len(args) != 1 || args[0] != "u1" {
		t.Errorf("args = %v, want [u1]", args)
	}
	if query == "" {
		t.Error("expected a non-empty query")
	}
}

func TestBuildLastActiveCaseWhen_MultipleEntries(t *testing.T) {
	flush := []LastActiveFlush{
		{UserID: "u1", Epoch: 1000},
		{UserID: "u2", Epoch: 2000},
	}
	query, args := BuildLastActiveCaseWhen(flush)
	if len(args) != 2 {
		t.Fatalf("args length = %d, want 2", len(args))
	}
	if args[0] != "u1" || args[1] != "u2" {
		t.Errorf("args = %v, want [u1 u2]", args)
	}
	if query == "" {
		t.Error("expected a non-empty query")
	}
}
