// Package source defines what the updater needs from the upstream sites.
// The concrete adapters live in the scraper, menu and geocode packages.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/geocode"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/menu"
)

// ErrEmptySchedule is returned when a schedule fetch parses no records at all
var ErrEmptySchedule = errors.New("schedule contained no records")

// FetchError wraps a failure of one upstream source
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ScheduleBatch is one pull of the live schedule. Skipped counts rows that
// could not be parsed.
type ScheduleBatch struct {
	Term    string
	Records []course.ScheduleRecord
	Skipped int
}

// CatalogBatch is one school's catalog
type CatalogBatch struct {
	School  course.School
	Records []course.CatalogRecord
	Skipped int
}

type ScheduleSource interface {
	FetchSchedule(ctx context.Context) (ScheduleBatch, error)
}

type CatalogSource interface {
	FetchCatalog(ctx context.Context) (CatalogBatch, error)
}

type MenuSource interface {
	FetchMenus(ctx context.Context) ([]menu.SchoolMenu, error)
}

// LocationSource geocodes the buildings used by courses that are not yet known
type LocationSource interface {
	LocateAll(ctx context.Context, courses []course.Course, known map[string]geocode.Coordinates) (map[string]geocode.Coordinates, error)
}

// Catalogs is the dispatch table from school to its catalog adapter.
// It is built once at startup.
type Catalogs map[course.School]CatalogSource

// FetchAll pulls every catalog in a fixed school order. It fails as a whole
// if any school fails so a partial catalog never replaces a complete one.
func (c Catalogs) FetchAll(ctx context.Context) ([]CatalogBatch, error) {
	var batches []CatalogBatch
	for _, school := range append(append([]course.School(nil), course.Schools...), course.NA) {
		src, ok := c[school]
		if !ok {
			continue
		}
		batch, err := src.FetchCatalog(ctx)
		if err != nil {
			return nil, &FetchError{Source: fmt.Sprintf("catalog %s", school), Err: err}
		}
		batch.School = school
		batches = append(batches, batch)
	}
	return batches, nil
}
