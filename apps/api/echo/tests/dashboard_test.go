package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rollcall/core/attendance"
	"github.com/trezcool/rollcall/core/dashboard"
	emailsvc "github.com/trezcool/rollcall/services/email"
	"github.com/trezcool/rollcall/tests"
)

func rowIDs(scr dashboard.Screen) []int {
	ids := make([]int, 0, len(scr.Rows))
	for _, row := range scr.Rows {
		ids = append(ids, row.ID)
	}
	return ids
}

func TestHealth(t *testing.T) {
	srv, _ := setup(t)

	tt := httpTest{wantCode: http.StatusOK, wantData: []byte(`{"status": "ok"}`)}
	req, rec := newRequest(http.MethodGet, "/health")
	srv.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func TestViewPages(t *testing.T) {
	srv, _ := setup(t)

	tests := []struct {
		path     string
		contains []string
	}{
		{path: "/", contains: []string{"Rollcall - Dashboard", "Emma Thompson", `id="presentPercentage"`, "60%", "/charts/weekly?period=current"}},
		{path: "/?weekly=last", contains: []string{"/charts/weekly?period=last", "/charts/monthly?period=current"}},
		{path: "/attendance", contains: []string{"Rollcall - Attendance", "Take Attendance", "Olivia Parker", `name="note"`}},
		{path: "/reports", contains: []string{"Attendance Overview", "/charts/trend", `action="/reports/send"`}},
		{path: "/settings", contains: []string{`id="darkModeSettings"`}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, rec := newFormRequest(http.MethodGet, tt.path, nil)
			srv.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML))
			for _, s := range tt.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}

	req, rec := newFormRequest(http.MethodGet, "/?weekly=lol", nil)
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestViewScreens(t *testing.T) {
	srv, _ := setup(t)

	req, rec := newRequest(http.MethodGet, "/attendance")
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var scr dashboard.Screen
	unmarshallObj(t, rec.Body.Bytes(), &scr)
	assert.Equal(t, dashboard.ViewAttendance, scr.View)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rowIDs(scr))
	assert.Equal(t, 3, scr.Stats.Present)
	if assert.NotNil(t, scr.Rows[0].NoteAction) {
		assert.Equal(t, "Note", scr.Rows[0].NoteAction.Label)
	}
}

func TestViewActions(t *testing.T) {
	srv, _ := setup(t)

	tests := []httpTest{
		{
			name:     "filter: missing",
			method:   http.MethodPost,
			path:     "/views/home/filter",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status": "this field is required"}`),
		},
		{
			name:     "filter: invalid",
			method:   http.MethodPost,
			path:     "/views/home/filter",
			body:     []byte(`{"status": "sick"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status": "filter must be one of all, present, absent or late"}`),
		},
		{
			name:     "unknown view",
			method:   http.MethodPost,
			path:     "/views/lol/filter",
			body:     []byte(`{"status": "all"}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "section: blank",
			method:   http.MethodPost,
			path:     "/views/home/section",
			body:     []byte(`{"section": "  "}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"section": "this field is required"}`),
		},
		{name: "filter", method: http.MethodPost, path: "/views/home/filter", body: []byte(`{"status": " Present "}`), wantCode: http.StatusOK, extra: []int{1, 4, 5}},
		{name: "section", method: http.MethodPost, path: "/views/home/section", body: []byte(`{"section": "10-B"}`), wantCode: http.StatusOK, extra: []int{6, 8, 10}},
		{name: "search", method: http.MethodPost, path: "/views/home/search", body: []byte(`{"search": "10"}`), wantCode: http.StatusOK, extra: []int{10}},
		{name: "search: clear", method: http.MethodPost, path: "/views/home/search", body: []byte(`{"search": ""}`), wantCode: http.StatusOK, extra: []int{6, 8, 10}},
		{name: "search: no match", method: http.MethodPost, path: "/views/home/search", body: []byte(`{"search": "zzz"}`), wantCode: http.StatusOK, extra: []int{}},
		{name: "other view untouched", method: http.MethodGet, path: "/attendance", wantCode: http.StatusOK, extra: []int{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := tt.request()
			srv.ServeHTTP(rec, req)

			if wantIDs, ok := tt.extra.([]int); ok {
				assert.Equal(t, tt.wantCode, rec.Code)
				var scr dashboard.Screen
				unmarshallObj(t, rec.Body.Bytes(), &scr)
				assert.Equal(t, wantIDs, rowIDs(scr))
				assert.Equal(t, len(wantIDs) == 0, scr.Empty)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestViewActions_form(t *testing.T) {
	srv, app := setup(t)

	req, rec := newFormRequest(http.MethodPost, "/views/attendance/search", url.Values{"search": {"emma"}})
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/attendance", rec.Header().Get(echo.HeaderLocation))

	state, _ := app.Dashboard.State(dashboard.ViewAttendance)
	assert.Equal(t, "emma", state.Search)

	// the page shows the empty state
	req, rec = newFormRequest(http.MethodPost, "/views/attendance/search", url.Values{"search": {"zzz"}})
	srv.ServeHTTP(rec, req)
	req, rec = newFormRequest(http.MethodGet, "/attendance", nil)
	srv.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), dashboard.EmptyText)
}

type statusChange struct {
	id int
	st attendance.Status
}

func TestSetStatus(t *testing.T) {
	srv, app := setup(t)

	tests := []httpTest{
		{
			name:     "invalid status",
			method:   http.MethodPost,
			path:     "/students/2/status",
			body:     []byte(`{"status": "sick"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status": "status must be one of present, absent or late"}`),
		},
		{
			name:     "invalid view",
			method:   http.MethodPost,
			path:     "/students/2/status",
			body:     []byte(`{"status": "late", "view": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"view": "view must be one of home, attendance, reports or settings"}`),
		},
		{
			name:     "absent to present",
			method:   http.MethodPost,
			path:     "/students/2/status",
			body:     []byte(`{"status": "present"}`),
			wantCode: http.StatusOK,
			extra:    statusChange{id: 2, st: attendance.StatusPresent},
		},
		{
			name:     "present to absent",
			method:   http.MethodPost,
			path:     "/students/1/status",
			body:     []byte(`{"status": "absent", "view": "attendance"}`),
			wantCode: http.StatusOK,
			extra:    statusChange{id: 1, st: attendance.StatusAbsent},
		},
		{
			name:     "form",
			method:   http.MethodPost,
			path:     "/students/4/status",
			form:     url.Values{"status": {"late"}, "view": {"attendance"}},
			wantCode: http.StatusSeeOther,
			extra:    statusChange{id: 4, st: attendance.StatusLate},
		},
		{name: "unknown id", method: http.MethodPost, path: "/students/9999/status", body: []byte(`{"status": "late"}`), wantCode: http.StatusOK},
		{name: "non-numeric id", method: http.MethodPost, path: "/students/lol/status", body: []byte(`{"status": "late"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := app.AttSvc.QueryAll(context.Background())

			req, rec := tt.request()
			srv.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			assert.Equal(t, tt.wantCode, rec.Code)

			change, ok := tt.extra.(statusChange)
			if !ok { // no-op
				after, _ := app.AttSvc.QueryAll(context.Background())
				assert.Equal(t, before, after)
				return
			}
			got := testutil.Student(t, app.AttSvc, change.id)
			assert.Equal(t, change.st, got.Status)
			assert.True(t, attendance.ValidTime(got.Status, got.Time))

			if rec.Code == http.StatusOK {
				var scr dashboard.Screen
				unmarshallObj(t, rec.Body.Bytes(), &scr)
				found := false
				for _, row := range scr.Rows {
					if row.ID == change.id {
						found = true
						assert.Equal(t, change.st, row.Status)
					}
				}
				assert.True(t, found)
			} else {
				assert.Equal(t, "/attendance", rec.Header().Get(echo.HeaderLocation))
			}
		})
	}

	// stats follow the mutations: 10-A is now 2 present (2, 5), 1 absent (1), 2 late (3, 4)
	req, rec := newRequest(http.MethodGet, "/")
	srv.ServeHTTP(rec, req)
	var scr dashboard.Screen
	unmarshallObj(t, rec.Body.Bytes(), &scr)
	assert.Equal(t, attendance.AggregateStats{
		Section: "10-A", Total: 5, Present: 2, Absent: 1, Late: 2,
		PresentPct: 40, AbsentPct: 20, LatePct: 40,
	}, *scr.Stats)
}

func TestEditNote(t *testing.T) {
	srv, app := setup(t)

	tests := []struct {
		name     string
		req      func() (*http.Request, *httptest.ResponseRecorder)
		wantCode int
		wantNote *string
		notice   string
	}{
		{
			name:     "cancel",
			req:      func() (*http.Request, *httptest.ResponseRecorder) { return newRequest(http.MethodPost, "/students/3/note", []byte(`{"note": "x", "cancel": true}`)) },
			wantCode: http.StatusOK,
		},
		{
			name:     "dismissed",
			req:      func() (*http.Request, *httptest.ResponseRecorder) { return newRequest(http.MethodPost, "/students/3/note", []byte(`{}`)) },
			wantCode: http.StatusOK,
		},
		{
			name:     "json",
			req:      func() (*http.Request, *httptest.ResponseRecorder) { return newRequest(http.MethodPost, "/students/3/note", []byte(`{"note": "bus delay"}`)) },
			wantCode: http.StatusOK,
			wantNote: strPtr("bus delay"),
			notice:   "Note saved for Sophia Chen",
		},
		{
			name: "form cancel",
			req: func() (*http.Request, *httptest.ResponseRecorder) {
				return newFormRequest(http.MethodPost, "/students/3/note", url.Values{"note": {"lol"}, "cancel": {"1"}})
			},
			wantCode: http.StatusSeeOther,
			wantNote: strPtr("bus delay"),
		},
		{
			name: "form empty note",
			req: func() (*http.Request, *httptest.ResponseRecorder) {
				return newFormRequest(http.MethodPost, "/students/3/note", url.Values{"note": {""}, "view": {"attendance"}})
			},
			wantCode: http.StatusSeeOther,
			wantNote: strPtr(""),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := tt.req()
			srv.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)

			got := testutil.Student(t, app.AttSvc, 3)
			if tt.wantNote == nil {
				assert.False(t, got.HasNote())
			} else {
				assert.True(t, got.HasNote())
				assert.Equal(t, *tt.wantNote, got.Note.String)
			}
			assert.Equal(t, attendance.StatusLate, got.Status)

			if rec.Code == http.StatusOK {
				var scr dashboard.Screen
				unmarshallObj(t, rec.Body.Bytes(), &scr)
				assert.Equal(t, dashboard.ViewAttendance, scr.View)
				assert.Equal(t, tt.notice, scr.Notice)
			} else {
				assert.Equal(t, "/attendance", rec.Header().Get(echo.HeaderLocation))
			}
		})
	}

	req, rec := newRequest(http.MethodPost, "/students/9999/note", []byte(`{"note": "lol"}`))
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func strPtr(s string) *string { return &s }

func TestDarkMode(t *testing.T) {
	srv, app := setup(t)
	ctx := context.Background()

	tests := []httpTest{
		{name: "toggle on", method: http.MethodPost, path: "/preferences/dark-mode", body: []byte(`{}`), wantCode: http.StatusOK, extra: true},
		{name: "toggle off", method: http.MethodPost, path: "/preferences/dark-mode", body: []byte(`{"view": "settings"}`), wantCode: http.StatusOK, extra: false},
		{name: "set on", method: http.MethodPost, path: "/preferences/dark-mode", body: []byte(`{"enabled": "on"}`), wantCode: http.StatusOK, extra: true},
		{name: "set on again", method: http.MethodPost, path: "/preferences/dark-mode", body: []byte(`{"enabled": "true"}`), wantCode: http.StatusOK, extra: true},
		{name: "settings form: unchecked", method: http.MethodPost, path: "/preferences/dark-mode", form: url.Values{"enabled": {"false"}, "view": {"settings"}}, wantCode: http.StatusSeeOther, extra: false},
		{name: "settings form: checked", method: http.MethodPost, path: "/preferences/dark-mode", form: url.Values{"enabled": {"true", "false"}, "view": {"settings"}}, wantCode: http.StatusSeeOther, extra: true},
		{
			name:     "invalid",
			method:   http.MethodPost,
			path:     "/preferences/dark-mode",
			body:     []byte(`{"enabled": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"enabled": "enabled must be one of [true false on off 1 0]"}`),
			extra:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := tt.request()
			srv.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			} else {
				assert.Equal(t, tt.wantCode, rec.Code)
			}

			want := tt.extra.(bool)
			assert.Equal(t, want, app.Dashboard.DarkMode())
			stored, err := app.PrefSvc.DarkMode(ctx)
			assert.NoError(t, err)
			assert.Equal(t, want, stored)

			if rec.Code == http.StatusOK {
				var scr dashboard.Screen
				unmarshallObj(t, rec.Body.Bytes(), &scr)
				assert.Equal(t, want, scr.DarkMode)
			}
		})
	}

	req, rec := newFormRequest(http.MethodGet, "/settings", nil)
	srv.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `class="dark"`)
}

func TestCharts(t *testing.T) {
	srv, app := setup(t)

	tests := []struct {
		name     string
		path     string
		json     bool
		wantCode int
	}{
		{name: "weekly svg", path: "/charts/weekly", wantCode: http.StatusOK},
		{name: "monthly svg", path: "/charts/monthly?period=last&width=800&height=400", wantCode: http.StatusOK},
		{name: "distribution spec", path: "/charts/distribution", json: true, wantCode: http.StatusOK},
		{name: "unknown chart", path: "/charts/radar", wantCode: http.StatusNotFound},
		{name: "unknown period", path: "/charts/weekly?period=lol", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newFormRequest(http.MethodGet, tt.path, nil)
			if tt.json {
				req, rec = newRequest(http.MethodGet, tt.path)
			}
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if rec.Code != http.StatusOK {
				return
			}
			if tt.json {
				var spec struct {
					Name string
					Kind string
				}
				unmarshallObj(t, rec.Body.Bytes(), &spec)
				assert.Equal(t, "distribution", spec.Name)
				assert.Equal(t, "pie", spec.Kind)
			} else {
				assert.Equal(t, "image/svg+xml", rec.Header().Get(echo.HeaderContentType))
				assert.Contains(t, rec.Body.String(), "<svg")
			}
		})
	}

	w, h := app.Dashboard.ChartSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 400, h)
}

func TestSendReport(t *testing.T) {
	srv, _ := setup(t)

	tests := []httpTest{
		{
			name:     "no section",
			method:   http.MethodPost,
			path:     "/reports/send",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"section": "this field is required"}`),
		},
		{
			name:     "invalid recipient",
			method:   http.MethodPost,
			path:     "/reports/send",
			body:     []byte(`{"section": "10-A", "to": ["lol"]}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"to[0]": "to[0] must be a valid email address"}`),
		},
		{
			name:     "default recipients",
			method:   http.MethodPost,
			path:     "/reports/send",
			body:     []byte(`{"section": "10-A"}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]string{"success": "Report sent for section 10-A"}),
			extra:    "office@school.test",
		},
		{
			name:     "form",
			method:   http.MethodPost,
			path:     "/reports/send",
			form:     url.Values{"section": {"11-A"}, "to": {"head@school.test"}},
			wantCode: http.StatusSeeOther,
			extra:    "head@school.test",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emailsvc.SentMessages = nil

			req, rec := tt.request()
			srv.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			} else {
				assert.Equal(t, tt.wantCode, rec.Code)
			}

			to, ok := tt.extra.(string)
			if !ok {
				assert.Empty(t, emailsvc.SentMessages)
				return
			}
			if assert.Len(t, emailsvc.SentMessages, 1) {
				msg := emailsvc.SentMessages[0]
				assert.Equal(t, to, msg.To[0].Address)
				assert.True(t, strings.HasPrefix(msg.Subject, "Attendance report "))
				assert.NotEmpty(t, msg.TextContent)
				assert.NotEmpty(t, msg.HTMLContent)
			}
		})
	}
}
