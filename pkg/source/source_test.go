package source

import (
	"context"
	"errors"
	"testing"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

type stubCatalog struct {
	records []course.CatalogRecord
	err     error
}

func (s stubCatalog) FetchCatalog(context.Context) (CatalogBatch, error) {
	return CatalogBatch{Records: s.records}, s.err
}

func TestCatalogs_FetchAll(t *testing.T) {
	c := Catalogs{
		course.Pomona:     stubCatalog{records: make([]course.CatalogRecord, 2)},
		course.HarveyMudd: stubCatalog{records: make([]course.CatalogRecord, 1)},
	}

	batches, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	// Pomona precedes Harvey Mudd in course.Schools
	if batches[0].School != course.Pomona || batches[1].School != course.HarveyMudd {
		t.Errorf("unexpected order %v, %v", batches[0].School, batches[1].School)
	}
}

func TestCatalogs_FetchAllFailsAsWhole(t *testing.T) {
	boom := errors.New("boom")
	c := Catalogs{
		course.Pomona:  stubCatalog{records: make([]course.CatalogRecord, 2)},
		course.Scripps: stubCatalog{err: boom},
	}

	batches, err := c.FetchAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Errorf("expected a FetchError, got %T", err)
	}
	if batches != nil {
		t.Errorf("expected no partial result, got %d batches", len(batches))
	}
}
