package compare

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/lensquote/internal/domain"
)

func testComparisonSet(t *testing.T) *ComparisonSet {
	t.Helper()
	compSet, err := NewCompareEngine(nil).Compare(testTables(t), testSelection(), CompareOptions{Patient: "Jane Doe"})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	return compSet
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{}
	result := formatter.Format(testComparisonSet(t))

	if result == "" {
		t.Fatal("Expected formatted output, got empty string")
	}

	for _, want := range []string{
		"SUPPLY COMPARISON",
		"Patient: Jane Doe",
		"Base Supply: Year supply",
		"Year supply (base)",
		"6 month supply",
		"1 box per eye",
		"$480.00",
		"$28.75",
		"COMPARISON TO BASE",
		"-$420.00",
		"RECOMMENDATIONS",
		"Lowest cost per box",
	} {
		if !contains(result, want) {
			t.Errorf("Expected %q in output", want)
		}
	}
}

func TestTableFormatter_NoAlternatives(t *testing.T) {
	formatter := &TableFormatter{}
	result := formatter.Format(&ComparisonSet{
		BaseMode:   domain.SupplyYear,
		BaseResult: &ComparisonResult{Mode: domain.SupplyYear, Description: "Year supply"},
	})

	if contains(result, "COMPARISON TO BASE") {
		t.Error("Did not expect a comparison section without alternatives")
	}
	if contains(result, "RECOMMENDATIONS") {
		t.Error("Did not expect recommendations")
	}
}

func TestTableFormatter_FormatDelta(t *testing.T) {
	formatter := &TableFormatter{}
	tests := []struct {
		in   string
		want string
	}{
		{"12.5", "+$12.50"},
		{"-3", "-$3.00"},
		{"0", "no change"},
	}
	for _, tt := range tests {
		if got := formatter.formatDelta(dec(tt.in)); got != tt.want {
			t.Errorf("formatDelta(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTableFormatter_Truncate(t *testing.T) {
	formatter := &TableFormatter{}
	if got := formatter.truncate("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	if got := formatter.truncate("a much longer description", 10); got != "a much ..." {
		t.Errorf("Expected truncated string, got %q", got)
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	formatter := &TableFormatter{}
	result := formatter.FormatCompact(testComparisonSet(t))

	want := "Year supply: $28.75/box | 6 month supply: $27.50/box | 1 box per eye: $20.00/box"
	if result != want {
		t.Errorf("Expected %q, got %q", want, result)
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	compSet := testComparisonSet(t)

	for _, pretty := range []bool{false, true} {
		formatter := &JSONFormatter{Pretty: pretty}
		result, err := formatter.Format(compSet)
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal([]byte(result), &decoded); err != nil {
			t.Fatalf("Output is not valid JSON: %v", err)
		}
		if decoded["baseMode"] != "year" {
			t.Errorf("Expected baseMode year, got %v", decoded["baseMode"])
		}
		if pretty != strings.Contains(result, "\n  ") {
			t.Errorf("Pretty=%v did not match indentation", pretty)
		}
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	formatter := &CSVFormatter{}
	result, err := formatter.Format(testComparisonSet(t))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if !contains(lines[0], "Final Cost Per Box") {
		t.Error("Expected header row")
	}
	if lines[1] != "year,Base,16,480.00,20.00,480.00,28.75,0.00,0.00" {
		t.Errorf("Unexpected base row: %s", lines[1])
	}
	if lines[3] != "one,Alternative,2,60.00,20.00,60.00,20.00,-420.00,-8.75" {
		t.Errorf("Unexpected alternative row: %s", lines[3])
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
