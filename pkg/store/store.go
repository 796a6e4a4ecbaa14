// Package store holds the published snapshot and the share-code registry in
// memory and persists them for warm restarts.
package store

import (
	"reflect"
	"sync"
	"time"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/geocode"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/menu"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/sharecode"
)

// Store is shared by the updater and every reader. The snapshot and the
// ancillary data sit behind one lock; the registry has its own. Readers get
// copies and must not hold either lock while serializing.
type Store struct {
	mu        sync.RWMutex
	snapshot  course.Snapshot
	catalog   []course.CatalogRecord
	menus     []menu.SchoolMenu
	locations map[string]geocode.Coordinates

	codes *sharecode.Registry
	now   func() time.Time
}

// New returns an empty store
func New() *Store {
	return &Store{
		locations: make(map[string]geocode.Coordinates),
		codes:     sharecode.NewRegistry(),
		now:       time.Now,
	}
}

// Snapshot returns a copy of the published snapshot
func (s *Store) Snapshot() course.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// SnapshotIfNewer returns a copy only when the snapshot changed after since.
// Comparison is at one second resolution, matching the timestamps clients hold.
func (s *Store) SnapshotIfNewer(since time.Time) (course.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot.LastChange.Unix() <= since.Unix() {
		return course.Snapshot{}, false
	}
	return s.snapshot.Clone(), true
}

// Publish replaces the snapshot. The last-change time only moves when the
// term or the courses differ from what is published. It reports whether
// anything changed.
func (s *Store) Publish(term string, courses []course.Course) bool {
	courses = course.CloneCourses(courses)

	s.mu.Lock()
	defer s.mu.Unlock()

	if term == s.snapshot.Term && reflect.DeepEqual(courses, s.snapshot.Courses) {
		return false
	}
	s.snapshot = course.Snapshot{Term: term, Courses: courses, LastChange: s.now()}
	return true
}

// Restore installs a persisted snapshot as is
func (s *Store) Restore(snap course.Snapshot) {
	snap = snap.Clone()
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

// Courses returns a copy of the published courses
func (s *Store) Courses() []course.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return course.CloneCourses(s.snapshot.Courses)
}

// Catalog returns the last reconciled catalog
func (s *Store) Catalog() []course.CatalogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]course.CatalogRecord(nil), s.catalog...)
}

func (s *Store) SetCatalog(records []course.CatalogRecord) {
	records = append([]course.CatalogRecord(nil), records...)
	s.mu.Lock()
	s.catalog = records
	s.mu.Unlock()
}

// Menus returns the last fetched dining menus
func (s *Store) Menus() []menu.SchoolMenu {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]menu.SchoolMenu(nil), s.menus...)
}

func (s *Store) SetMenus(menus []menu.SchoolMenu) {
	menus = append([]menu.SchoolMenu(nil), menus...)
	s.mu.Lock()
	s.menus = menus
	s.mu.Unlock()
}

// Locations returns a copy of the known building coordinates
func (s *Store) Locations() map[string]geocode.Coordinates {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]geocode.Coordinates, len(s.locations))
	for k, v := range s.locations {
		out[k] = v
	}
	return out
}

// AddLocations records coordinates, keeping existing entries
func (s *Store) AddLocations(found map[string]geocode.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range found {
		s.locations[k] = v
	}
}

// AssignCode returns the share code for list
func (s *Store) AssignCode(list course.SharedCourseList) (string, error) {
	return s.codes.Assign(list)
}

// LookupCode resolves a share code
func (s *Store) LookupCode(code string) (course.SharedCourseList, bool) {
	return s.codes.Lookup(code)
}

// Codes exposes the registry for persistence and statistics
func (s *Store) Codes() *sharecode.Registry {
	return s.codes
}
