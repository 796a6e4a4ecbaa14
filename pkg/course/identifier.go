package course

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrMalformedIdentifier is returned when a course code cannot be split into its parts
var ErrMalformedIdentifier = errors.New("malformed course identifier")

// Identifier is the canonical form of a course code such as "CSCI-105-HM-01".
// Section is empty for catalog entries.
type Identifier struct {
	Department   string `json:"code"`
	Number       string `json:"id"`
	SchoolSuffix string `json:"dept"`
	Section      string `json:"section"`
}

// Key renders "{department}-{number}-{school_suffix}-{section}"
func (id Identifier) Key() string {
	return fmt.Sprintf("%s-%s-%s-%s", id.Department, id.Number, id.SchoolSuffix, id.Section)
}

// CourseKey is the key without the section, as used by the catalog
func (id Identifier) CourseKey() string {
	return fmt.Sprintf("%s-%s-%s-", id.Department, id.Number, id.SchoolSuffix)
}

func (id Identifier) String() string {
	return id.Key()
}

// Normalize parses a raw course code. Whitespace is ignored, so "ASAM126 HM-01",
// "ASAM 126HM - 01" and "ASAM-126-HM-01" all produce the same Identifier.
func Normalize(raw string) (Identifier, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if parts := strings.Split(s, "-"); len(parts) >= 3 {
		id := Identifier{
			Department:   strings.ToUpper(parts[0]),
			Number:       parts[1],
			SchoolSuffix: strings.ToUpper(parts[2]),
			Section:      strings.Join(parts[3:], "-"),
		}
		if id.Department == "" || id.SchoolSuffix == "" || !hasDigit(id.Number) {
			return Identifier{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, raw)
		}
		return id, nil
	}

	head, section, _ := strings.Cut(s, "-")
	return split(raw, head, "", section)
}

// NormalizeFields parses the schedule row form "ASAM126 HM - 01", which
// tokenizes into four fields. When the suffix is glued to the number
// ("ASAM126HM - 01") only three fields arrive and the last two characters of
// the first token are taken as the school suffix.
func NormalizeFields(raw string) (Identifier, error) {
	fields := strings.Fields(raw)
	switch {
	case len(fields) == 4 && fields[2] == "-":
		if id, err := split(raw, fields[0], fields[1], fields[3]); err == nil {
			return id, nil
		}
	case len(fields) == 3 && fields[1] == "-" && len(fields[0]) > 2:
		glued := fields[0]
		if id, err := split(raw, glued[:len(glued)-2], glued[len(glued)-2:], fields[2]); err == nil {
			return id, nil
		}
	}
	return Normalize(raw)
}

// split finishes parsing once the section is cut off. An empty suffix means
// it is still attached to the end of head.
func split(raw, head, suffix, section string) (Identifier, error) {
	if suffix == "" {
		if len(head) < 2 || !isLetters(head[len(head)-2:]) {
			return Identifier{}, fmt.Errorf("%w: missing school suffix in %q", ErrMalformedIdentifier, raw)
		}
		head, suffix = head[:len(head)-2], head[len(head)-2:]
	}

	// department letters end where the first digit follows them
	seenLetter := false
	cut := -1
	for i, r := range head {
		if unicode.IsDigit(r) {
			if seenLetter {
				cut = i
			}
			break
		}
		if unicode.IsLetter(r) {
			seenLetter = true
		}
	}
	if cut <= 0 {
		return Identifier{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, raw)
	}

	return Identifier{
		Department:   strings.ToUpper(head[:cut]),
		Number:       head[cut:],
		SchoolSuffix: strings.ToUpper(suffix),
		Section:      section,
	}, nil
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
