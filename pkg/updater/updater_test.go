package updater

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/geocode"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/menu"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/reconcile"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/source"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/store"
)

type fakeSchedule struct {
	batch source.ScheduleBatch
	err   error
	calls int
}

func (f *fakeSchedule) FetchSchedule(context.Context) (source.ScheduleBatch, error) {
	f.calls++
	return f.batch, f.err
}

type fakeCatalog struct {
	records []course.CatalogRecord
	err     error
	calls   int
}

func (f *fakeCatalog) FetchCatalog(context.Context) (source.CatalogBatch, error) {
	f.calls++
	return source.CatalogBatch{Records: f.records}, f.err
}

type fakeMenus struct {
	calls int
}

func (f *fakeMenus) FetchMenus(context.Context) ([]menu.SchoolMenu, error) {
	f.calls++
	return []menu.SchoolMenu{{School: course.Pomona}}, nil
}

type fakeLocations struct {
	err error
}

func (f *fakeLocations) LocateAll(_ context.Context, _ []course.Course, _ map[string]geocode.Coordinates) (map[string]geocode.Coordinates, error) {
	return map[string]geocode.Coordinates{"HarveyMudd-Shanahan": {Lat: "34.1", Lon: "-117.7"}}, f.err
}

type countingBackend struct {
	saves     int
	codeSaves int
	codes     map[string]course.SharedCourseList
	err       error
}

func (b *countingBackend) SaveSnapshot(context.Context, course.Snapshot) error {
	b.saves++
	return b.err
}
func (b *countingBackend) LoadSnapshot(context.Context) (course.Snapshot, error) {
	return course.Snapshot{}, nil
}
func (b *countingBackend) SaveCodes(_ context.Context, codes map[string]course.SharedCourseList) error {
	b.codeSaves++
	b.codes = codes
	return b.err
}
func (b *countingBackend) LoadCodes(context.Context) (map[string]course.SharedCourseList, error) {
	return nil, nil
}

func record(dept, num, sec, title string) course.ScheduleRecord {
	return course.ScheduleRecord{
		Identifier: course.Identifier{Department: dept, Number: num, SchoolSuffix: "HM", Section: sec},
		Title:      title,
		Timings: []course.Timing{{
			Days:     []course.Day{course.Monday, course.Wednesday},
			Start:    13*60 + 15,
			End:      14*60 + 30,
			Location: course.Location{School: course.HarveyMudd, Building: "Shanahan", Room: "B460"},
		}},
	}
}

func testConfig() config.UpdateConfig {
	return config.UpdateConfig{
		Interval:         time.Minute,
		DescriptionEvery: 3,
		MenuEvery:        2,
		LocationEvery:    5,
		BackoffThreshold: 2,
		BackoffStep:      time.Second,
	}
}

func newTestUpdater(sched *fakeSchedule, cat *fakeCatalog) (*Updater, *store.Store) {
	st := store.New()
	u := New(testConfig(), st, nil, Sources{
		Schedule: sched,
		Catalogs: source.Catalogs{course.HarveyMudd: cat},
	}, reconcile.NewEngine(reconcile.NewStrutilScorer()), zap.NewNop())
	return u, st
}

func TestRunCycle_CatalogFailureStillPublishes(t *testing.T) {
	sched := &fakeSchedule{batch: source.ScheduleBatch{
		Term: "FA 2026",
		Records: []course.ScheduleRecord{
			record("CSCI", "070", "01", "Data Structures"),
			record("MATH", "019", "02", "Calculus"),
		},
	}}
	cat := &fakeCatalog{err: errors.New("catalog down")}
	u, st := newTestUpdater(sched, cat)

	rep := u.RunCycle(context.Background())

	if !rep.Published {
		t.Fatal("expected snapshot to be published")
	}
	if got := len(st.Snapshot().Courses); got != 2 {
		t.Errorf("expected 2 courses, got %d", got)
	}
	if u.Errors() != 1 {
		t.Errorf("expected error counter 1, got %d", u.Errors())
	}
	if u.Countdown(Descriptions) != 0 {
		t.Errorf("expected descriptions to stay due, got countdown %d", u.Countdown(Descriptions))
	}

	u.RunCycle(context.Background())
	if cat.calls != 2 {
		t.Errorf("expected catalog retried on next cycle, got %d calls", cat.calls)
	}
}

func TestRunCycle_ScheduleFailure(t *testing.T) {
	sched := &fakeSchedule{err: errors.New("connection refused")}
	cat := &fakeCatalog{}
	u, st := newTestUpdater(sched, cat)

	rep := u.RunCycle(context.Background())
	if rep.ScheduleErr == nil {
		t.Fatal("expected schedule error")
	}
	var fe *source.FetchError
	if !errors.As(rep.ScheduleErr, &fe) || fe.Source != "schedule" {
		t.Errorf("expected schedule FetchError, got %v", rep.ScheduleErr)
	}
	if cat.calls != 0 {
		t.Errorf("expected no ancillary fetches, got %d", cat.calls)
	}
	if !st.Snapshot().LastChange.IsZero() {
		t.Error("expected nothing published")
	}

	u.RunCycle(context.Background())
	if u.Errors() != 2 {
		t.Errorf("expected error counter 2, got %d", u.Errors())
	}

	sched.err = nil
	sched.batch = source.ScheduleBatch{Term: "FA 2026", Records: []course.ScheduleRecord{record("CSCI", "070", "01", "Data Structures")}}
	u.RunCycle(context.Background())
	if u.Errors() != 0 {
		t.Errorf("expected error counter reset, got %d", u.Errors())
	}
}

func TestRunCycle_EmptyScheduleIsFailure(t *testing.T) {
	sched := &fakeSchedule{batch: source.ScheduleBatch{Term: "FA 2026"}}
	u, st := newTestUpdater(sched, &fakeCatalog{})

	rep := u.RunCycle(context.Background())
	if !errors.Is(rep.ScheduleErr, source.ErrEmptySchedule) {
		t.Errorf("expected ErrEmptySchedule, got %v", rep.ScheduleErr)
	}
	if st.Snapshot().Term != "" {
		t.Error("expected empty schedule not to be published")
	}
	if u.Errors() != 1 {
		t.Errorf("expected error counter 1, got %d", u.Errors())
	}
}

func TestRunCycle_Cadence(t *testing.T) {
	sched := &fakeSchedule{batch: source.ScheduleBatch{Term: "FA 2026", Records: []course.ScheduleRecord{record("CSCI", "070", "01", "Data Structures")}}}
	cat := &fakeCatalog{}
	menus := &fakeMenus{}
	st := store.New()
	u := New(testConfig(), st, nil, Sources{
		Schedule: sched,
		Catalogs: source.Catalogs{course.HarveyMudd: cat},
		Menus:    menus,
	}, reconcile.NewEngine(reconcile.NewStrutilScorer()), zap.NewNop())

	for i := 0; i < 7; i++ {
		u.RunCycle(context.Background())
	}

	// cycles 1, 4, 7
	if cat.calls != 3 {
		t.Errorf("expected 3 catalog fetches, got %d", cat.calls)
	}
	// cycles 1, 3, 5, 7
	if menus.calls != 4 {
		t.Errorf("expected 4 menu fetches, got %d", menus.calls)
	}
	if len(st.Menus()) != 1 {
		t.Errorf("expected menus stored, got %d", len(st.Menus()))
	}
}

func TestRunCycle_KeepsLastGoodCatalog(t *testing.T) {
	sched := &fakeSchedule{batch: source.ScheduleBatch{Term: "FA 2026", Records: []course.ScheduleRecord{record("CSCI", "070", "01", "Data Structures")}}}
	cat := &fakeCatalog{records: []course.CatalogRecord{{
		Identifier:  course.Identifier{Department: "CSCI", Number: "070", SchoolSuffix: "HM"},
		Title:       "Data Structures",
		School:      course.HarveyMudd,
		Description: "Abstract data types.",
	}}}
	u, st := newTestUpdater(sched, cat)

	u.RunCycle(context.Background())
	cat.err = errors.New("catalog down")
	cat.records = nil
	u.RunCycle(context.Background())

	courses := st.Snapshot().Courses
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}
	if courses[0].Description != "Abstract data types." {
		t.Errorf("expected description kept, got %q", courses[0].Description)
	}
}

func TestRunCycle_LocationsKeepPartialResults(t *testing.T) {
	sched := &fakeSchedule{batch: source.ScheduleBatch{Term: "FA 2026", Records: []course.ScheduleRecord{record("CSCI", "070", "01", "Data Structures")}}}
	st := store.New()
	u := New(testConfig(), st, nil, Sources{
		Schedule:  sched,
		Locations: &fakeLocations{err: errors.New("rate limited")},
	}, reconcile.NewEngine(reconcile.NewStrutilScorer()), zap.NewNop())

	rep := u.RunCycle(context.Background())

	if len(rep.Failed) != 1 || rep.Failed[0] != Locations {
		t.Errorf("expected locations failure, got %v", rep.Failed)
	}
	if _, ok := st.Locations()["HarveyMudd-Shanahan"]; !ok {
		t.Error("expected partial locations stored")
	}
}

func TestRunCycle_PersistFailureIsNotCounted(t *testing.T) {
	sched := &fakeSchedule{batch: source.ScheduleBatch{Term: "FA 2026", Records: []course.ScheduleRecord{record("CSCI", "070", "01", "Data Structures")}}}
	backend := &countingBackend{err: errors.New("disk full")}
	u := New(testConfig(), store.New(), backend, Sources{Schedule: sched}, reconcile.NewEngine(reconcile.NewStrutilScorer()), zap.NewNop())

	u.RunCycle(context.Background())

	if backend.saves != 1 {
		t.Errorf("expected 1 save, got %d", backend.saves)
	}
	if u.Errors() != 0 {
		t.Errorf("expected error counter 0, got %d", u.Errors())
	}
}

func TestRunCycle_ScheduleFailureStillSavesCodes(t *testing.T) {
	sched := &fakeSchedule{err: errors.New("connection refused")}
	st := store.New()
	backend := &countingBackend{}
	u := New(testConfig(), st, backend, Sources{Schedule: sched}, reconcile.NewEngine(reconcile.NewStrutilScorer()), zap.NewNop())

	code, err := st.AssignCode(course.SharedCourseList{LocalCourses: []course.Course{course.NewCourse(record("CSCI", "070", "01", "Data Structures"))}})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		u.RunCycle(context.Background())
	}

	if backend.codeSaves != 3 {
		t.Errorf("expected 3 code saves, got %d", backend.codeSaves)
	}
	if backend.saves != 0 {
		t.Errorf("expected no snapshot saves, got %d", backend.saves)
	}
	if _, ok := backend.codes[code]; !ok {
		t.Errorf("expected code %s to be persisted, got %v", code, backend.codes)
	}
}

func TestNextDelay(t *testing.T) {
	sched := &fakeSchedule{err: errors.New("down")}
	u, _ := newTestUpdater(sched, &fakeCatalog{})
	u.cfg.Jitter = 10 * time.Second
	u.jitter = func(n int64) int64 { return n / 2 }

	if got := u.NextDelay(); got != time.Minute+5*time.Second {
		t.Errorf("expected 1m5s, got %v", got)
	}

	for i := 0; i < 4; i++ {
		u.RunCycle(context.Background())
	}
	// four errors is past the threshold of two
	want := time.Minute + 5*time.Second + 4*time.Second
	if got := u.NextDelay(); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	sched := &fakeSchedule{batch: source.ScheduleBatch{Term: "FA 2026", Records: []course.ScheduleRecord{record("CSCI", "070", "01", "Data Structures")}}}
	u, _ := newTestUpdater(sched, &fakeCatalog{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		u.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Run to return after cancel")
	}
	if sched.calls != 1 {
		t.Errorf("expected 1 cycle, got %d", sched.calls)
	}
}
