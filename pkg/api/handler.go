// Package api serves the published snapshot and the share-code registry.
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/store"
)

const (
	msgNoUpdate    = "No update needed"
	msgInvalidCode = "Invalid code"
)

// maxListBody caps the size of a posted course list
const maxListBody = 4 << 20

// Handler holds what every route reads from
type Handler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewHandler(st *store.Store, logger *zap.Logger) *Handler {
	return &Handler{store: st, logger: logger}
}

// snapshotBody is the [timestamp, courses] pair clients expect
func snapshotBody(snap course.Snapshot) []any {
	courses := snap.Courses
	if courses == nil {
		courses = []course.Course{}
	}
	return []any{snap.LastChange.Unix(), courses}
}

// FullUpdate returns the whole snapshot
func (h *Handler) FullUpdate(c *gin.Context) {
	c.JSON(http.StatusOK, snapshotBody(h.store.Snapshot()))
}

// UpdateIfStale returns the snapshot only if it changed after the client's
// timestamp (unix seconds).
func (h *Handler) UpdateIfStale(c *gin.Context) {
	ts, err := strconv.ParseInt(c.Param("timestamp"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp must be unix seconds"})
		return
	}

	snap, newer := h.store.SnapshotIfNewer(time.Unix(ts, 0))
	if !newer {
		c.JSON(http.StatusOK, msgNoUpdate)
		return
	}
	c.JSON(http.StatusOK, snapshotBody(snap))
}

// GetUniqueCode registers a course list and returns its share code. Both
// the {local_courses, custom_courses} object and a bare array of courses
// are accepted.
func (h *Handler) GetUniqueCode(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxListBody+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
		return
	}
	if len(body) > maxListBody {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "course list too large"})
		return
	}

	list, err := decodeList(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course list"})
		return
	}

	code, err := h.store.AssignCode(list)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not assign code"})
		return
	}
	c.JSON(http.StatusOK, code)
}

func decodeList(body []byte) (course.SharedCourseList, error) {
	var list course.SharedCourseList

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &list.LocalCourses)
		return list, err
	}

	err := json.Unmarshal(trimmed, &list)
	return list, err
}

// GetCourseListByCode resolves a share code
func (h *Handler) GetCourseListByCode(c *gin.Context) {
	list, ok := h.store.LookupCode(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, msgInvalidCode)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Catalog(c *gin.Context) {
	records := h.store.Catalog()
	if records == nil {
		records = []course.CatalogRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) Menus(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Menus())
}

func (h *Handler) Locations(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Locations())
}

// Occupancy is computed on request from the published courses
func (h *Handler) Occupancy(c *gin.Context) {
	c.JSON(http.StatusOK, course.ComputeOccupancy(h.store.Courses()))
}

func (h *Handler) Health(c *gin.Context) {
	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"term":      snap.Term,
		"courses":   len(snap.Courses),
		"timestamp": snap.LastChange.Unix(),
	})
}
