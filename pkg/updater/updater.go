// Package updater runs the periodic fetch, reconcile, merge and publish loop.
package updater

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/merge"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/reconcile"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/source"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/store"
)

// Kind is an ancillary data kind refreshed on its own cadence
type Kind string

const (
	Descriptions Kind = "descriptions"
	Menus        Kind = "menus"
	Locations    Kind = "locations"
)

// Sources are the upstream adapters. Menus and Locations may be nil.
type Sources struct {
	Schedule  source.ScheduleSource
	Catalogs  source.Catalogs
	Menus     source.MenuSource
	Locations source.LocationSource
}

// CycleReport summarizes one pass of the loop
type CycleReport struct {
	Term        string
	Records     int
	Skipped     int
	Published   bool
	Fetched     []Kind
	Failed      []Kind
	ScheduleErr error
	Stats       reconcile.Stats
	Errors      int
}

// Updater owns the refresh loop. It is not safe for concurrent use; run one
// loop per store.
type Updater struct {
	cfg     config.UpdateConfig
	store   *store.Store
	backend store.Backend
	sources Sources
	engine  *reconcile.Engine
	logger  *zap.Logger

	countdowns map[Kind]int
	errors     int
	catalog    []course.CatalogRecord
	jitter     func(n int64) int64
}

// New wires an updater. backend may be nil to disable persistence.
func New(cfg config.UpdateConfig, st *store.Store, backend store.Backend, sources Sources, engine *reconcile.Engine, logger *zap.Logger) *Updater {
	u := &Updater{
		cfg:        cfg,
		store:      st,
		backend:    backend,
		sources:    sources,
		engine:     engine,
		logger:     logger,
		countdowns: make(map[Kind]int),
		jitter:     rand.Int63n,
	}
	// zero countdowns fetch everything on the first cycle
	for _, k := range u.kinds() {
		u.countdowns[k] = 0
	}
	if cat := st.Catalog(); len(cat) > 0 {
		u.catalog = cat
	}
	return u
}

func (u *Updater) kinds() []Kind {
	var kinds []Kind
	if len(u.sources.Catalogs) > 0 {
		kinds = append(kinds, Descriptions)
	}
	if u.sources.Menus != nil {
		kinds = append(kinds, Menus)
	}
	if u.sources.Locations != nil {
		kinds = append(kinds, Locations)
	}
	return kinds
}

func (u *Updater) period(k Kind) int {
	switch k {
	case Descriptions:
		return u.cfg.DescriptionEvery
	case Menus:
		return u.cfg.MenuEvery
	}
	return u.cfg.LocationEvery
}

// Errors returns the consecutive error counter
func (u *Updater) Errors() int {
	return u.errors
}

// Countdown returns the cycles left before k is due
func (u *Updater) Countdown(k Kind) int {
	return u.countdowns[k]
}

// Run loops until ctx is cancelled. A cycle in flight is never interrupted
// between publish and persist; cancellation is only observed while sleeping.
func (u *Updater) Run(ctx context.Context) {
	for {
		u.RunCycle(ctx)

		delay := u.NextDelay()
		u.logger.Debug("sleeping until next update", zap.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// NextDelay is the interval plus jitter, growing linearly with the error
// counter once it passes the backoff threshold.
func (u *Updater) NextDelay() time.Duration {
	d := u.cfg.Interval
	if u.cfg.Jitter > 0 {
		d += time.Duration(u.jitter(int64(u.cfg.Jitter)))
	}
	if u.errors > u.cfg.BackoffThreshold {
		d += time.Duration(u.errors) * u.cfg.BackoffStep
	}
	return d
}

// RunCycle performs one pass: schedule, due ancillary fetches, reconcile,
// merge, publish and persist.
func (u *Updater) RunCycle(ctx context.Context) CycleReport {
	for k, left := range u.countdowns {
		if left > 0 {
			u.countdowns[k] = left - 1
		}
	}

	var rep CycleReport
	start := time.Now()

	batch, err := u.sources.Schedule.FetchSchedule(ctx)
	if err == nil && len(batch.Records) == 0 {
		err = source.ErrEmptySchedule
	}
	if err != nil {
		u.errors++
		rep.ScheduleErr = &source.FetchError{Source: "schedule", Err: err}
		rep.Errors = u.errors
		u.logFailure("schedule fetch failed", rep.ScheduleErr)
		if u.backend != nil {
			if err := u.store.SaveCodes(ctx, u.backend); err != nil {
				u.logger.Error("failed to persist share codes", zap.Error(err))
			}
		}
		return rep
	}

	rep.Term = batch.Term
	rep.Records = len(batch.Records)
	rep.Skipped = batch.Skipped
	if batch.Skipped > 0 {
		u.logger.Warn("skipped malformed schedule rows", zap.Int("skipped", batch.Skipped))
	}

	u.runDue(ctx, Descriptions, &rep, u.fetchDescriptions)
	u.runDue(ctx, Menus, &rep, u.fetchMenus)
	u.runDue(ctx, Locations, &rep, func(ctx context.Context) error {
		return u.fetchLocations(ctx, batch.Records)
	})

	res := u.engine.Reconcile(batch.Records, u.catalog)
	rep.Stats = res.Stats

	merged := merge.Merge(u.store.Courses(), res.Courses)
	rep.Published = u.store.Publish(batch.Term, merged)
	if len(res.Catalog) > 0 {
		u.store.SetCatalog(res.Catalog)
	}

	if u.backend != nil {
		if err := u.store.Save(ctx, u.backend); err != nil {
			u.logger.Error("failed to persist snapshot", zap.Error(err))
		}
	}

	if len(rep.Failed) == 0 {
		u.errors = 0
	}
	rep.Errors = u.errors

	u.logger.Info("update cycle complete",
		zap.String("term", rep.Term),
		zap.Int("courses", len(merged)),
		zap.Bool("changed", rep.Published),
		zap.Int("matched_exact", res.Stats.Exact),
		zap.Int("matched_contained", res.Stats.Contained),
		zap.Int("matched_fuzzy", res.Stats.Fuzzy),
		zap.Int("unmatched", res.Stats.Unmatched),
		zap.Int("errors", u.errors),
		zap.Duration("took", time.Since(start)),
	)
	return rep
}

// runDue fetches k if its countdown reached zero. Success resets the
// countdown; failure leaves it at zero so the next cycle retries.
func (u *Updater) runDue(ctx context.Context, k Kind, rep *CycleReport, fetch func(context.Context) error) {
	left, ok := u.countdowns[k]
	if !ok || left > 0 {
		return
	}

	if err := fetch(ctx); err != nil {
		u.errors++
		rep.Failed = append(rep.Failed, k)
		u.logFailure("ancillary fetch failed", &source.FetchError{Source: string(k), Err: err})
		return
	}

	u.countdowns[k] = u.period(k)
	rep.Fetched = append(rep.Fetched, k)
}

func (u *Updater) fetchDescriptions(ctx context.Context) error {
	batches, err := u.sources.Catalogs.FetchAll(ctx)
	if err != nil {
		return err
	}

	lists := make([][]course.CatalogRecord, 0, len(batches))
	skipped := 0
	for _, b := range batches {
		lists = append(lists, b.Records)
		skipped += b.Skipped
	}
	u.catalog = reconcile.MergeCatalogs(lists...)

	u.logger.Info("fetched catalog descriptions", zap.Int("records", len(u.catalog)), zap.Int("skipped", skipped))
	return nil
}

func (u *Updater) fetchMenus(ctx context.Context) error {
	menus, err := u.sources.Menus.FetchMenus(ctx)
	if err != nil {
		return err
	}
	u.store.SetMenus(menus)
	return nil
}

func (u *Updater) fetchLocations(ctx context.Context, records []course.ScheduleRecord) error {
	courses := make([]course.Course, len(records))
	for i, r := range records {
		courses[i] = course.NewCourse(r)
	}

	found, err := u.sources.Locations.LocateAll(ctx, courses, u.store.Locations())
	// keep whatever was found before a failure
	u.store.AddLocations(found)
	return err
}

func (u *Updater) logFailure(msg string, err error) {
	fields := []zap.Field{zap.Error(err), zap.Int("errors", u.errors)}
	if u.errors > u.cfg.BackoffThreshold {
		u.logger.Warn(msg+", backing off", fields...)
		return
	}
	u.logger.Error(msg, fields...)
}
