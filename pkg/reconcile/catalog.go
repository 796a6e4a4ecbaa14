package reconcile

import "github.com/IonImpulse/fivec-scheduler-server/pkg/course"

// MergeCatalogs folds per-school catalog batches into one list. Records are
// the same course when their section-less keys match; the known school wins
// over NA and the longer description is kept. First-seen order is preserved.
func MergeCatalogs(batches ...[]course.CatalogRecord) []course.CatalogRecord {
	var out []course.CatalogRecord
	index := make(map[string]int)

	for _, batch := range batches {
		for _, r := range batch {
			key := r.Identifier.CourseKey()
			i, ok := index[key]
			if !ok {
				r.Instructors = append([]string(nil), r.Instructors...)
				index[key] = len(out)
				out = append(out, r)
				continue
			}

			existing := &out[i]
			if existing.School == course.NA {
				existing.School = r.School
			}
			if len(r.Description) > len(existing.Description) {
				existing.Description = r.Description
			}
			if existing.Prerequisites == "" {
				existing.Prerequisites = r.Prerequisites
			}
			if existing.Corequisites == "" {
				existing.Corequisites = r.Corequisites
			}
			if existing.Offered == "" {
				existing.Offered = r.Offered
			}
			if existing.Credits == 0 {
				existing.Credits = r.Credits
			}
			if existing.Fee == 0 {
				existing.Fee = r.Fee
			}
			existing.Instructors = union(existing.Instructors, r.Instructors)
		}
	}
	return out
}
