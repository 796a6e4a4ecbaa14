package reconcile

import (
	"strings"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"golang.org/x/text/cases"
)

// MatchKind records which step of the cascade attached a catalog record
type MatchKind int

const (
	NoMatch MatchKind = iota
	ExactTitle
	IdentifierContained
	FuzzyTitle
)

// Stats counts how each schedule record was matched
type Stats struct {
	Exact     int `json:"exact"`
	Contained int `json:"contained"`
	Fuzzy     int `json:"fuzzy"`
	Unmatched int `json:"unmatched"`
}

func (s *Stats) add(kind MatchKind) {
	switch kind {
	case ExactTitle:
		s.Exact++
	case IdentifierContained:
		s.Contained++
	case FuzzyTitle:
		s.Fuzzy++
	default:
		s.Unmatched++
	}
}

// Result is the output of one reconciliation pass
type Result struct {
	Courses []course.Course
	// Catalog is the input catalog after extraction, with instructors,
	// school and offering status back-filled from matched sections.
	Catalog []course.CatalogRecord
	Stats   Stats
}

// Engine attaches catalog records to schedule records
type Engine struct {
	Scorer Scorer
	// MinScore is the fuzzy score a candidate must exceed to count as a match
	MinScore float64
}

// NewEngine returns an engine using scorer for the fuzzy step
func NewEngine(scorer Scorer) *Engine {
	return &Engine{Scorer: scorer}
}

// Reconcile builds one Course per schedule record. Records without a catalog
// match are kept without descriptions. Neither input is modified.
func (e *Engine) Reconcile(schedule []course.ScheduleRecord, catalog []course.CatalogRecord) Result {
	cat := PrepareCatalog(catalog)

	titles := make([]string, len(cat))
	schools := make([]course.School, len(cat))
	for i, r := range cat {
		titles[i] = normalizeTitle(r.Title)
		schools[i] = r.School
	}

	res := Result{Courses: make([]course.Course, 0, len(schedule))}
	for _, rec := range schedule {
		c := course.NewCourse(rec)
		c.Instructors = append([]string(nil), rec.Instructors...)

		idx, kind := e.match(rec, cat, titles, schools)
		res.Stats.add(kind)
		if idx >= 0 {
			attach(&c, &cat[idx])
		}

		applyNotes(&c)
		res.Courses = append(res.Courses, c)
	}

	res.Catalog = cat
	return res
}

func (e *Engine) match(rec course.ScheduleRecord, cat []course.CatalogRecord, titles []string, schools []course.School) (int, MatchKind) {
	school := rec.School()
	var pool []int
	for i := range cat {
		if schools[i] == school || schools[i] == course.NA {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		return -1, NoMatch
	}

	title := scheduleTitle(rec.Title)

	var exact []int
	for _, i := range pool {
		if titles[i] == title {
			exact = append(exact, i)
		}
	}
	if len(exact) == 1 {
		return exact[0], ExactTitle
	}

	candidates := pool
	if len(exact) > 1 {
		candidates = exact
	}

	key := rec.Identifier.Key()
	var contained []int
	for _, i := range candidates {
		if strings.Contains(key, cat[i].Identifier.CourseKey()) {
			contained = append(contained, i)
		}
	}
	if len(contained) == 1 {
		return contained[0], IdentifierContained
	}

	if len(contained) > 1 {
		if i := e.bestTitle(title, contained, titles); i >= 0 {
			return i, FuzzyTitle
		}
	}
	// ambiguous containment with no close title still falls back to the whole pool
	if i := e.bestTitle(title, candidates, titles); i >= 0 {
		return i, FuzzyTitle
	}
	return -1, NoMatch
}

// bestTitle returns the highest scoring candidate above MinScore. Ties go to
// the earliest candidate, which is also the first one carrying that title.
func (e *Engine) bestTitle(title string, candidates []int, titles []string) int {
	if e.Scorer == nil {
		return -1
	}
	best, bestScore := -1, e.MinScore
	for _, i := range candidates {
		if s := e.Scorer.Score(title, titles[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

func attach(c *course.Course, entry *course.CatalogRecord) {
	c.Description = entry.Description
	c.Prerequisites = entry.Prerequisites
	c.Corequisites = entry.Corequisites
	c.Fee = entry.Fee
	if c.Credits == 0 && entry.Credits != 0 {
		c.Credits, c.CreditsHMC = course.ConvertCredits(entry.Credits, entry.School)
	}

	entry.Instructors = union(entry.Instructors, c.Instructors)
	entry.CurrentlyOffered = true
	if entry.School == course.NA {
		entry.School = c.School()
	}
	if entry.Credits == 0 {
		entry.Credits = c.Credits
	}
}

// applyNotes pulls requisites and fees out of section notes. Values found
// there are specific to the section and replace the catalog ones.
func applyNotes(c *course.Course) {
	req := ExtractRequisites(c.Notes)
	if req.Prerequisites != "" {
		c.Prerequisites = req.Prerequisites
	}
	if req.Corequisites != "" {
		c.Corequisites = req.Corequisites
	}
	c.Notes = req.Remainder

	if fee, ok := ExtractFee(c.Notes); ok {
		c.Fee = fee
	}
}

// PrepareCatalog copies the records and moves requisites embedded in each
// description into their own fields.
func PrepareCatalog(records []course.CatalogRecord) []course.CatalogRecord {
	out := make([]course.CatalogRecord, len(records))
	for i, r := range records {
		r.Instructors = append([]string(nil), r.Instructors...)

		req := ExtractRequisites(r.Description)
		if r.Prerequisites == "" {
			r.Prerequisites = req.Prerequisites
		}
		if r.Corequisites == "" {
			r.Corequisites = req.Corequisites
		}
		r.Description = req.Remainder

		if r.Fee == 0 {
			if fee, ok := ExtractFee(r.Description); ok {
				r.Fee = fee
			}
		}
		out[i] = r
	}
	return out
}

func normalizeTitle(title string) string {
	title = cases.Fold().String(title)
	title = strings.ReplaceAll(title, "&", "and")
	return collapseSpaces(title)
}

// scheduleTitle drops a leading "Course Group - " prefix used by the feed
func scheduleTitle(title string) string {
	if _, after, ok := strings.Cut(title, " - "); ok {
		title = after
	}
	return normalizeTitle(title)
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := append([]string(nil), a...)
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
