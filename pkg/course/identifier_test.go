package course

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want Identifier
	}{
		{"CSCI-105-CS-3", Identifier{"CSCI", "105", "CS", "3"}},
		{"ASAM126 HM-01", Identifier{"ASAM", "126", "HM", "01"}},
		{"ASAM 126HM - 01", Identifier{"ASAM", "126", "HM", "01"}},
		{"CSCI005L HM", Identifier{"CSCI", "005L", "HM", ""}},
		{"math030g po-02", Identifier{"MATH", "030g", "PO", "02"}},
		{"CSCI-005-HM-", Identifier{"CSCI", "005", "HM", ""}},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.raw)
		if err != nil {
			t.Errorf("Normalize(%q) returned error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %+v, expected %+v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize_Malformed(t *testing.T) {
	for _, raw := range []string{"", "CSCI", "CSCI HM-01", "123HM-01", "CSCI005-01", "CSCI-HM-XX-01"} {
		if _, err := Normalize(raw); !errors.Is(err, ErrMalformedIdentifier) {
			t.Errorf("expected ErrMalformedIdentifier for %q, got %v", raw, err)
		}
	}
}

func TestNormalize_RoundTrip(t *testing.T) {
	for _, raw := range []string{"ASAM126 HM-01", "PHYS051 PO-03", "CSCI005L HM", "CSCI-105-CS-3"} {
		id, err := Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", raw, err)
		}
		again, err := Normalize(id.Key())
		if err != nil {
			t.Fatalf("Normalize(%q): %v", id.Key(), err)
		}
		if again != id {
			t.Errorf("round trip of %q changed identifier: %+v -> %+v", raw, id, again)
		}
	}
}

func TestNormalizeFields(t *testing.T) {
	want := Identifier{"ASAM", "126", "HM", "01"}

	got, err := NormalizeFields("ASAM126 HM - 01")
	if err != nil || got != want {
		t.Errorf("four token row: got %+v, %v", got, err)
	}

	got, err = NormalizeFields("ASAM126HM - 01")
	if err != nil || got != want {
		t.Errorf("glued three token row: got %+v, %v", got, err)
	}

	if _, err := NormalizeFields("SEMINAR - 01"); !errors.Is(err, ErrMalformedIdentifier) {
		t.Errorf("expected ErrMalformedIdentifier for row without a number, got %v", err)
	}
}

func TestIdentifierKeys(t *testing.T) {
	id := Identifier{"CSCI", "005", "HM", "01"}
	if id.Key() != "CSCI-005-HM-01" {
		t.Errorf("expected key CSCI-005-HM-01, got %s", id.Key())
	}
	if id.CourseKey() != "CSCI-005-HM-" {
		t.Errorf("expected course key CSCI-005-HM-, got %s", id.CourseKey())
	}
}
