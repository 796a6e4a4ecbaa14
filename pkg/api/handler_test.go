package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testCourse(dept, num, sec, title string) course.Course {
	return course.NewCourse(course.ScheduleRecord{
		Identifier: course.Identifier{Department: dept, Number: num, SchoolSuffix: "HM", Section: sec},
		Title:      title,
		Seats:      course.Seats{Taken: 10, Max: 20},
		Timings: []course.Timing{{
			Days:  []course.Day{course.Monday},
			Start: 13*60 + 15,
			End:   14*60 + 30,
		}},
	})
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	st := store.New()
	r := Setup(&config.ServerConfig{Mode: gin.TestMode, AllowOrigins: []string{"*"}}, st, zap.NewNop())
	return r, st
}

func do(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFullUpdate(t *testing.T) {
	r, st := newTestRouter(t)
	st.Publish("FA 2026", []course.Course{testCourse("CSCI", "070", "01", "Data Structures")})

	w := do(r, http.MethodGet, "/fullupdate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body []json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected body %s: %v", w.Body.String(), err)
	}
	if len(body) != 2 {
		t.Fatalf("expected [timestamp, courses], got %s", w.Body.String())
	}

	var ts int64
	if err := json.Unmarshal(body[0], &ts); err != nil || ts != st.Snapshot().LastChange.Unix() {
		t.Errorf("expected timestamp %d, got %s", st.Snapshot().LastChange.Unix(), body[0])
	}
	var courses []course.Course
	if err := json.Unmarshal(body[1], &courses); err != nil || len(courses) != 1 {
		t.Errorf("expected 1 course, got %s", body[1])
	}
}

func TestFullUpdate_EmptyStore(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/fullupdate", nil)
	if w.Body.String() != "[-62135596800,[]]" {
		t.Errorf("expected zero snapshot, got %s", w.Body.String())
	}
}

func TestUpdateIfStale(t *testing.T) {
	r, st := newTestRouter(t)
	st.Publish("FA 2026", []course.Course{testCourse("CSCI", "070", "01", "Data Structures")})
	last := st.Snapshot().LastChange.Unix()

	w := do(r, http.MethodGet, fmt.Sprintf("/updateIfStale/%d", last), nil)
	if w.Body.String() != `"No update needed"` {
		t.Errorf("expected no update, got %s", w.Body.String())
	}

	w = do(r, http.MethodGet, fmt.Sprintf("/updateIfStale/%d", last-60), nil)
	var body []json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body) != 2 {
		t.Errorf("expected snapshot, got %s", w.Body.String())
	}

	w = do(r, http.MethodGet, "/updateIfStale/yesterday", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestShareCodeRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)

	list := course.SharedCourseList{
		LocalCourses: []course.Course{
			testCourse("MATH", "019", "02", "Calculus"),
			testCourse("CSCI", "070", "01", "Data Structures"),
		},
	}
	payload, _ := json.Marshal(list)

	w := do(r, http.MethodPost, "/getUniqueCode", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var code string
	if err := json.Unmarshal(w.Body.Bytes(), &code); err != nil || len(code) != 7 {
		t.Fatalf("expected 7 character code, got %s", w.Body.String())
	}

	// same selection in another order gets the same code
	reordered, _ := json.Marshal(course.SharedCourseList{LocalCourses: []course.Course{list.LocalCourses[1], list.LocalCourses[0]}})
	w = do(r, http.MethodPost, "/getUniqueCode", reordered)
	var again string
	_ = json.Unmarshal(w.Body.Bytes(), &again)
	if again != code {
		t.Errorf("expected code %s, got %s", code, again)
	}

	w = do(r, http.MethodGet, "/getCourseListByCode/"+code, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got course.SharedCourseList
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.LocalCourses) != 2 || got.LocalCourses[0].Key() != "CSCI-070-HM-01" {
		t.Errorf("expected sorted list back, got %+v", got.LocalCourses)
	}
}

func TestGetUniqueCode_BareArray(t *testing.T) {
	r, st := newTestRouter(t)

	payload, _ := json.Marshal([]course.Course{testCourse("CSCI", "070", "01", "Data Structures")})
	w := do(r, http.MethodPost, "/getUniqueCode", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var code string
	_ = json.Unmarshal(w.Body.Bytes(), &code)
	list, ok := st.LookupCode(code)
	if !ok || len(list.LocalCourses) != 1 {
		t.Errorf("expected bare array stored as local courses, got %+v", list)
	}
}

func TestGetUniqueCode_BadBody(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/getUniqueCode", []byte(`{"local_courses": 5}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetCourseListByCode_Unknown(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/getCourseListByCode/QQQQQQQ", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w.Body.String() != `"Invalid code"` {
		t.Errorf("expected invalid code message, got %s", w.Body.String())
	}
}

func TestOccupancy(t *testing.T) {
	r, st := newTestRouter(t)
	st.Publish("FA 2026", []course.Course{testCourse("CSCI", "070", "01", "Data Structures")})

	w := do(r, http.MethodGet, "/occupancy", nil)
	var occ course.Occupancy
	if err := json.Unmarshal(w.Body.Bytes(), &occ); err != nil {
		t.Fatal(err)
	}
	if occ.Starts[0][13*60+15] != 10 {
		t.Errorf("expected 10 starting Monday 13:15, got %d", occ.Starts[0][13*60+15])
	}
	if occ.Ends[0][14*60+30] != 10 {
		t.Errorf("expected 10 ending Monday 14:30, got %d", occ.Ends[0][14*60+30])
	}
}

func TestHealthAndRequestID(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected request id echoed, got %q", got)
	}

	w = do(r, http.MethodGet, "/health", nil)
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("expected generated uuid, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/getUniqueCode", nil)
	req.Header.Set("Origin", "https://5scheduler.io")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://5scheduler.io" {
		t.Errorf("expected origin allowed, got %q", got)
	}
}
