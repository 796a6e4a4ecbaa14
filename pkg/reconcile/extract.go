package reconcile

import (
	"strconv"
	"strings"
)

// Longer labels come first so "Co-requisite" is not cut as "Co-req"
var (
	prerequisiteLabels = []string{"Prerequisite", "Prereq"}
	corequisiteLabels  = []string{"Corequisite", "Co-requisite", "Coreq", "Co-req"}
)

// Requisites is the result of pulling requisite clauses out of free text
type Requisites struct {
	Prerequisites string
	Corequisites  string
	// Remainder is the input with the extracted clauses removed
	Remainder string
}

// ExtractRequisites removes the first prerequisite and the first corequisite
// clause from text. A clause runs from its label to the next period.
func ExtractRequisites(text string) Requisites {
	out := Requisites{Remainder: text}
	out.Prerequisites, out.Remainder = cutClause(out.Remainder, prerequisiteLabels)
	out.Corequisites, out.Remainder = cutClause(out.Remainder, corequisiteLabels)
	return out
}

func cutClause(text string, labels []string) (string, string) {
	for _, label := range labels {
		start := strings.Index(text, label)
		if start < 0 {
			continue
		}

		body := text[start+len(label):]
		rest := ""
		if end := strings.Index(body, "."); end >= 0 {
			body, rest = body[:end], body[end+1:]
		}

		clause := strings.TrimPrefix(body, "(s)")
		clause = strings.TrimPrefix(clause, "s")
		clause = strings.TrimSpace(clause)
		clause = strings.TrimPrefix(clause, ":")
		clause = collapseSpaces(clause)

		return clause, tidy(text[:start] + " " + rest)
	}
	return "", text
}

// tidy collapses whitespace and the punctuation left behind by a removed clause
func tidy(s string) string {
	s = collapseSpaces(s)
	for {
		next := strings.ReplaceAll(s, "..", ".")
		next = strings.ReplaceAll(next, ". .", ".")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractFee finds the first "$<digits>" amount terminated by a space, period,
// comma or the end of the text. It returns 0 and false when none is present.
func ExtractFee(text string) (int, bool) {
	for i := strings.Index(text, "$"); i >= 0; {
		digits := text[i+1:]
		end := strings.IndexAny(digits, " .,")
		if end >= 0 {
			digits = digits[:end]
		}
		if fee, err := strconv.Atoi(digits); err == nil && fee >= 0 {
			return fee, true
		}

		next := strings.Index(text[i+1:], "$")
		if next < 0 {
			break
		}
		i += next + 1
	}
	return 0, false
}
