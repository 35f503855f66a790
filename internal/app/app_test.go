package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"Volunteer_Service/internal/export"
	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/pkg"
	"Volunteer_Service/internal/repository/mysql"
	"Volunteer_Service/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	_, rdb := testutil.NewRedis(t)
	engine := NewEngine(Options{
		DB:             db,
		Redis:          rdb,
		Issuer:         pkg.NewTokenIssuer("a", "r", time.Minute, time.Hour),
		ExportLocale:   "ru",
		ExportLocation: time.UTC,
		AdminRowLimit:  5000,
	})
	return &testApp{t: t, db: db, engine: engine}
}

type req struct {
	method string
	path   string
	token  string
	json   any
	form   url.Values
	header map[string]string
}

func (a *testApp) do(r req) *httptest.ResponseRecorder {
	a.t.Helper()

	var body *bytes.Reader
	contentType := ""
	switch {
	case r.json != nil:
		b, err := json.Marshal(r.json)
		require.NoError(a.t, err)
		body = bytes.NewReader(b)
		contentType = "application/json"
	case r.form != nil:
		body = bytes.NewReader([]byte(r.form.Encode()))
		contentType = "application/x-www-form-urlencoded"
	default:
		body = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(r.method, r.path, body)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.header {
		httpReq.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, httpReq)
	return w
}

func (a *testApp) login(u *model.User) string {
	a.t.Helper()
	w := a.do(req{method: http.MethodPost, path: "/api/user/login", json: map[string]string{
		"username": u.Username,
		"password": testutil.Password,
	}})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var out struct{ AccessToken string }
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestEventList(t *testing.T) {
	a := newTestApp(t)
	now := time.Now()
	e1 := testutil.CreateEvent(t, a.db, now, func(e *model.Event) { e.Location = "Amsterdam" })
	testutil.CreateEvent(t, a.db, now.Add(time.Hour), func(e *model.Event) { e.Location = "Rotterdam" })
	u := testutil.CreateUser(t, a.db)
	testutil.Like(t, a.db, u.ID, e1.ID)
	token := a.login(u)

	w := a.do(req{method: http.MethodGet, path: "/?location=%20amster%20&sort=likes", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, "amster", out["location"])
	events := out["events"].([]any)
	require.Len(t, events, 1)
	first := events[0].(map[string]any)
	assert.Equal(t, float64(e1.ID), first["id"])
	assert.Equal(t, float64(1), first["likes_count"])
	assert.Equal(t, true, first["liked"])

	// 匿名访问
	w = a.do(req{method: http.MethodGet, path: "/"})
	require.Equal(t, http.StatusOK, w.Code)
	events = decode(t, w)["events"].([]any)
	require.Len(t, events, 2)
	assert.Equal(t, false, events[1].(map[string]any)["liked"])
}

func TestEventDetail(t *testing.T) {
	a := newTestApp(t)
	e := testutil.CreateEvent(t, a.db, time.Now())

	w := a.do(req{method: http.MethodGet, path: fmt.Sprintf("/events/%d/", e.ID)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["application"])

	w = a.do(req{method: http.MethodGet, path: fmt.Sprintf("/events/%d/", e.ID+50)})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(req{method: http.MethodGet, path: "/events/abc/"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApply(t *testing.T) {
	a := newTestApp(t)
	e := testutil.CreateEvent(t, a.db, time.Now())
	u := testutil.CreateUser(t, a.db)
	token := a.login(u)
	path := fmt.Sprintf("/events/%d/apply/", e.ID)

	w := a.do(req{method: http.MethodPost, path: path, form: url.Values{"motivation": {"x"}}})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/api/user/login", decode(t, w)["login_url"])

	w = a.do(req{method: http.MethodGet, path: path, token: token})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(req{method: http.MethodPost, path: path, token: token, form: url.Values{"motivation": {"  "}}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "motivation")

	w = a.do(req{method: http.MethodPost, path: path, token: token, form: url.Values{"motivation": {"I can help"}}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, fmt.Sprintf("/events/%d/", e.ID), w.Header().Get("Location"))

	// 重复报名：JSON 客户端拿到提示和跳转地址
	w = a.do(req{method: http.MethodPost, path: path, token: token,
		json:   map[string]string{"motivation": "again"},
		header: map[string]string{"Accept": "application/json"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, fmt.Sprintf("/events/%d/", e.ID), out["redirect"])
	assert.Contains(t, out["msg"], "already applied")

	var n int64
	require.NoError(t, a.db.Model(&model.VolunteerApplication{}).Where("user_id = ?", u.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	w = a.do(req{method: http.MethodGet, path: path, token: token})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = a.do(req{method: http.MethodGet, path: "/me/applications/", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["applications"], 1)

	w = a.do(req{method: http.MethodPost, path: fmt.Sprintf("/events/%d/apply/", e.ID+9), token: token, form: url.Values{"motivation": {"m"}}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeToggle(t *testing.T) {
	a := newTestApp(t)
	e := testutil.CreateEvent(t, a.db, time.Now())
	u := testutil.CreateUser(t, a.db)
	token := a.login(u)
	path := fmt.Sprintf("/events/%d/like/", e.ID)

	w := a.do(req{method: http.MethodPost, path: path})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(req{method: http.MethodPost, path: path, token: token, header: map[string]string{"Referer": "http://example.com/?sort=likes"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?sort=likes", w.Header().Get("Location"))

	w = a.do(req{method: http.MethodPost, path: path, token: token, header: map[string]string{"Accept": "application/json"}})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, false, out["liked"])
	assert.Equal(t, float64(0), out["likes_count"])
	assert.Equal(t, fmt.Sprintf("/events/%d/", e.ID), out["redirect"])

	// 外站来源不跟随
	w = a.do(req{method: http.MethodPost, path: path, token: token, header: map[string]string{"Referer": "https://evil.test/x"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, fmt.Sprintf("/events/%d/", e.ID), w.Header().Get("Location"))

	w = a.do(req{method: http.MethodGet, path: path})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, fmt.Sprintf("/events/%d/", e.ID), w.Header().Get("Location"))

	w = a.do(req{method: http.MethodGet, path: "/me/likes/", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["likes"], 1)

	w = a.do(req{method: http.MethodPost, path: fmt.Sprintf("/events/%d/like/", e.ID+3), token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordsExport(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateEvent(t, a.db, time.Now())
	staff := testutil.CreateUser(t, a.db, testutil.Staff)
	user := testutil.CreateUser(t, a.db)
	staffToken := a.login(staff)

	w := a.do(req{method: http.MethodGet, path: "/admin-tools/export/", token: a.login(user)})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(req{method: http.MethodGet, path: "/admin-tools/export/", token: staffToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["tables"], 4)

	w = a.do(req{method: http.MethodPost, path: "/admin-tools/export/", token: staffToken,
		form: url.Values{"model": {"events"}, "fields": {"title", "id"}}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report_events.xlsx"`, w.Header().Get("Content-Disposition"))

	x, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer x.Close()
	rows, err := x.GetRows("Report")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "title"}, rows[0])

	w = a.do(req{method: http.MethodPost, path: "/admin-tools/export/", token: staffToken,
		form: url.Values{"model": {"events"}, "fields": {"bogus"}}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no valid columns selected", decode(t, w)["msg"])

	w = a.do(req{method: http.MethodPost, path: "/admin-tools/export/", token: staffToken,
		form: url.Values{"model": {"bogus"}}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown table", decode(t, w)["msg"])
}

func TestAdminExport(t *testing.T) {
	a := newTestApp(t)
	staff := testutil.CreateUser(t, a.db, testutil.Staff)
	token := a.login(staff)

	w := a.do(req{method: http.MethodPost, path: "/admin/export-xlsx/", token: token,
		json: map[string]any{"model": "core.Event"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, (&mysql.PermissionRepository{DB: a.db}).Grant(context.Background(), staff.ID, "core.view_event"))
	w = a.do(req{method: http.MethodPost, path: "/admin/export-xlsx/", token: token,
		json: map[string]any{"model": "core.Event"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="export.xlsx"`, w.Header().Get("Content-Disposition"))
}

func TestSetStatus(t *testing.T) {
	a := newTestApp(t)
	e := testutil.CreateEvent(t, a.db, time.Now())
	u := testutil.CreateUser(t, a.db)
	staff := testutil.CreateUser(t, a.db, testutil.Staff)
	app := &model.VolunteerApplication{UserID: u.ID, EventID: e.ID, Motivation: "m"}
	require.NoError(t, a.db.Create(app).Error)
	path := fmt.Sprintf("/admin-tools/applications/%d/status/", app.ID)

	w := a.do(req{method: http.MethodPost, path: path, token: a.login(u), json: map[string]string{"status": "APPROVED"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(req{method: http.MethodPost, path: path, token: a.login(staff), json: map[string]string{"status": "APPROVED"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "APPROVED", decode(t, w)["application"].(map[string]any)["status"])
}

func TestSessionAndMetrics(t *testing.T) {
	a := newTestApp(t)
	u := testutil.CreateUser(t, a.db)
	token := a.login(u)

	w := a.do(req{method: http.MethodGet, path: "/api/user/me", token: token})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(req{method: http.MethodPost, path: "/api/user/logout", token: token})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(req{method: http.MethodGet, path: "/api/user/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(req{method: http.MethodPost, path: "/api/user/login", json: map[string]string{"username": u.Username, "password": "nope"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(req{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
	assert.True(t, strings.Contains(w.Body.String(), "failed_login_attempts_total 1"))
}
