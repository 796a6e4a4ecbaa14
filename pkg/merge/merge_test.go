package merge

import (
	"reflect"
	"testing"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

func mk(num, sec, title, desc, notes string) course.Course {
	c := course.NewCourse(course.ScheduleRecord{
		Identifier: course.Identifier{Department: "CSCI", Number: num, SchoolSuffix: "HM", Section: sec},
		Title:      title,
		Notes:      notes,
	})
	c.Description = desc
	return c
}

func TestMerge_Idempotent(t *testing.T) {
	s := []course.Course{
		mk("005", "01", "Intro", "Python.", "Bring laptop."),
		mk("070", "01", "Data Structures", "", ""),
	}
	got := Merge(s, s)
	if !reflect.DeepEqual(got, s) {
		t.Errorf("merging a snapshot with itself changed it:\n%+v\n%+v", got, s)
	}
}

func TestMerge_KeepsKnownDescriptions(t *testing.T) {
	prev := []course.Course{mk("005", "01", "Intro", "A long and useful description.", "")}
	cur := []course.Course{mk("005", "01", "Intro", "", "")}

	got := Merge(prev, cur)
	if got[0].Description != "A long and useful description." {
		t.Errorf("description regressed to %q", got[0].Description)
	}

	cur[0].Description = "An even longer and more useful description."
	got = Merge(prev, cur)
	if got[0].Description != cur[0].Description {
		t.Errorf("expected longer current description, got %q", got[0].Description)
	}
}

func TestMerge_NotesPreferPrevious(t *testing.T) {
	prev := []course.Course{mk("005", "01", "Intro", "", "Old note.")}
	cur := []course.Course{mk("005", "01", "Intro", "", "New note that is longer.")}

	got := Merge(prev, cur)
	if got[0].Notes != "Old note." {
		t.Errorf("expected previous notes to win, got %q", got[0].Notes)
	}
}

func TestMerge_MembershipFollowsCurrent(t *testing.T) {
	prev := []course.Course{mk("005", "01", "Intro", "x", ""), mk("999", "01", "Gone", "y", "")}
	cur := []course.Course{mk("005", "01", "Intro", "", ""), mk("131", "01", "Theory", "", "")}

	got := Merge(prev, cur)
	if len(got) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(got))
	}
	if got[0].Key() != "CSCI-005-HM-01" || got[1].Key() != "CSCI-131-HM-01" {
		t.Errorf("unexpected membership: %s, %s", got[0].Key(), got[1].Key())
	}
}

func TestMerge_MatchesByTitleWhenKeyChanged(t *testing.T) {
	prev := []course.Course{mk("005", "01", "Intro", "Python.", "")}
	cur := []course.Course{mk("005", "03", "Intro", "", "")}

	got := Merge(prev, cur)
	if got[0].Description != "Python." {
		t.Errorf("expected description carried over by title, got %q", got[0].Description)
	}
	if got[0].Key() != "CSCI-005-HM-03" {
		t.Errorf("identity must follow current, got %s", got[0].Key())
	}
}
