package universe

import (
	"reflect"
	"testing"

	"llm-market-analyst/internal/types"
)

func TestNewDropsDuplicates(t *testing.T) {
	u := New([]types.Instrument{
		{Symbol: "RELIANCE", Name: "Reliance Industries"},
		{Symbol: "TCS", Name: "Tata Consultancy Services"},
		{Symbol: "RELIANCE", Name: "Duplicate"},
		{Symbol: "", Name: "Nameless"},
	})

	if u.Len() != 2 {
		t.Fatalf("Expected 2 instruments, got %d", u.Len())
	}

	ins, ok := u.Lookup("RELIANCE")
	if !ok {
		t.Fatal("Expected RELIANCE in universe")
	}
	if ins.Name != "Reliance Industries" {
		t.Errorf("Expected first occurrence to win, got name %q", ins.Name)
	}
}

func TestSymbolsPreservesOrder(t *testing.T) {
	u := New([]types.Instrument{
		{Symbol: "C"}, {Symbol: "A"}, {Symbol: "B"},
	})

	got := u.Symbols()
	want := []string{"C", "A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Symbols() = %v, want %v", got, want)
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"A", "B", "A", "", "C", "B"})
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe = %v, want %v", got, want)
	}
}
