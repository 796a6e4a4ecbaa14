package reconcile

import "testing"

func TestExtractRequisites(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		prereq string
		coreq  string
		rest   string
	}{
		{
			name:   "prerequisite in the middle",
			text:   "Studies X. Prerequisite: CSCI-51. More text.",
			prereq: "CSCI-51",
			rest:   "Studies X. More text.",
		},
		{
			name:   "plural label at the end without a period",
			text:   "Covers proofs. Prerequisites: MATH 055 or permission",
			prereq: "MATH 055 or permission",
			rest:   "Covers proofs.",
		},
		{
			name:   "both kinds",
			text:   "Lab course. Prereq: PHYS 023. Co-requisite: PHYS 051L. Bring goggles.",
			prereq: "PHYS 023",
			coreq:  "PHYS 051L",
			rest:   "Lab course. Bring goggles.",
		},
		{
			name: "no requisites",
			text: "Just a  description.",
			rest: "Just a  description.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRequisites(tt.text)
			if got.Prerequisites != tt.prereq {
				t.Errorf("expected prerequisites %q, got %q", tt.prereq, got.Prerequisites)
			}
			if got.Corequisites != tt.coreq {
				t.Errorf("expected corequisites %q, got %q", tt.coreq, got.Corequisites)
			}
			if got.Remainder != tt.rest {
				t.Errorf("expected remainder %q, got %q", tt.rest, got.Remainder)
			}
		})
	}
}

func TestExtractFee(t *testing.T) {
	tests := map[string]int{
		"Materials fee $45.":             45,
		"Lab fee of $120, payable early": 120,
		"Costs $300":                     300,
		"Pay $ then $15 later":           15,
	}
	for text, want := range tests {
		got, ok := ExtractFee(text)
		if !ok || got != want {
			t.Errorf("ExtractFee(%q) = %d, %v; expected %d", text, got, ok, want)
		}
	}

	if _, ok := ExtractFee("No fee here."); ok {
		t.Errorf("expected no fee to be found")
	}
}
