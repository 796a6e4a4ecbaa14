// Package merge folds a freshly reconciled course list into the previously
// published one so that data learned in earlier cycles is not lost.
package merge

import "github.com/IonImpulse/fivec-scheduler-server/pkg/course"

// Merge returns current with gaps filled from previous.
//
// A current course is paired with the previous course that has the same
// identifier, or failing that the first one with the same title. For the
// description and requisites the longer non-empty value wins; for notes the
// previous value wins whenever it differs; a zero fee is filled from previous.
// Courses only in current are kept as they are and courses only in previous
// are dropped. The result follows the order of current.
func Merge(previous, current []course.Course) []course.Course {
	byKey := make(map[string]int, len(previous))
	byTitle := make(map[string]int, len(previous))
	for i, c := range previous {
		if _, ok := byKey[c.Key()]; !ok {
			byKey[c.Key()] = i
		}
		if _, ok := byTitle[c.Title]; !ok {
			byTitle[c.Title] = i
		}
	}

	out := course.CloneCourses(current)
	for i := range out {
		j, ok := byKey[out[i].Key()]
		if !ok {
			j, ok = byTitle[out[i].Title]
		}
		if ok {
			fold(&out[i], previous[j])
		}
	}
	return out
}

func fold(c *course.Course, prev course.Course) {
	c.Description = longer(c.Description, prev.Description)
	c.Prerequisites = longer(c.Prerequisites, prev.Prerequisites)
	c.Corequisites = longer(c.Corequisites, prev.Corequisites)
	if prev.Notes != c.Notes {
		c.Notes = prev.Notes
	}
	if c.Fee == 0 {
		c.Fee = prev.Fee
	}
}

// longer keeps cur on ties
func longer(cur, prev string) string {
	if len(prev) > len(cur) {
		return prev
	}
	return cur
}
