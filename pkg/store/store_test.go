package store

import (
	"sync"
	"testing"
	"time"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/geocode"
)

func courses(keys ...string) []course.Course {
	var out []course.Course
	for _, k := range keys {
		id, err := course.Normalize(k)
		if err != nil {
			panic(err)
		}
		out = append(out, course.NewCourse(course.ScheduleRecord{Identifier: id, Title: k}))
	}
	return out
}

func TestPublishAndSnapshot(t *testing.T) {
	s := New()
	clock := time.Unix(1700000000, 0)
	s.now = func() time.Time { return clock }

	if !s.Publish("FA2026", courses("CSCI005 HM-01")) {
		t.Fatalf("expected first publish to change the snapshot")
	}

	snap := s.Snapshot()
	if snap.Term != "FA2026" || len(snap.Courses) != 1 || !snap.LastChange.Equal(clock) {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	// Mutating the copy must not leak into the store
	snap.Courses[0].Title = "changed"
	if s.Snapshot().Courses[0].Title == "changed" {
		t.Errorf("snapshot copy shares memory with the store")
	}

	clock = clock.Add(time.Minute)
	if s.Publish("FA2026", courses("CSCI005 HM-01")) {
		t.Errorf("expected identical publish to be a no-op")
	}
	if !s.Snapshot().LastChange.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("last change moved on an identical publish")
	}
}

func TestSnapshotIfNewer(t *testing.T) {
	s := New()
	s.now = func() time.Time { return time.Unix(1700000100, 0) }
	s.Publish("FA2026", courses("CSCI005 HM-01"))

	if _, ok := s.SnapshotIfNewer(time.Unix(1700000100, 0)); ok {
		t.Errorf("expected no update for a client holding the current timestamp")
	}
	if snap, ok := s.SnapshotIfNewer(time.Unix(1700000000, 0)); !ok || len(snap.Courses) != 1 {
		t.Errorf("expected an update for a stale client")
	}
}

func TestCodesAndSnapshotAreIndependent(t *testing.T) {
	s := New()
	list := course.SharedCourseList{LocalCourses: courses("CSCI005 HM-01")}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Publish("FA2026", courses("CSCI005 HM-01", "MATH030 PO-02"))
		}()
		go func() {
			defer wg.Done()
			if _, err := s.AssignCode(list); err != nil {
				t.Errorf("assign failed: %v", err)
			}
		}()
	}
	wg.Wait()

	code, _ := s.AssignCode(list)
	if _, ok := s.LookupCode(code); !ok {
		t.Errorf("expected code %s to resolve", code)
	}
	if s.Codes().Len() != 1 {
		t.Errorf("expected one code, got %d", s.Codes().Len())
	}
}

func TestAddLocations(t *testing.T) {
	s := New()
	s.AddLocations(map[string]geocode.Coordinates{"HarveyMudd-Shanahan": {Lat: "34.1", Lon: "-117.7"}})
	s.AddLocations(map[string]geocode.Coordinates{"Pomona-Carnegie": {Lat: "34.09", Lon: "-117.71"}})

	locs := s.Locations()
	if len(locs) != 2 {
		t.Errorf("expected 2 locations, got %d", len(locs))
	}
}
