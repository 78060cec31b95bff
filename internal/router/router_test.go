package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/okr-tracker/internal/config"
	"github.com/yukikurage/okr-tracker/internal/constants"
	"github.com/yukikurage/okr-tracker/internal/dto"
	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/okr"
	"github.com/yukikurage/okr-tracker/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type renderCall struct {
	name string
	data gin.H
}

// stubHTMLRender records the template name and data instead of executing templates
type stubHTMLRender struct {
	calls []renderCall
}

type stubHTMLInstance struct{}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	h, _ := data.(gin.H)
	r.calls = append(r.calls, renderCall{name: name, data: h})
	return &stubHTMLInstance{}
}

func (r *stubHTMLRender) last() renderCall {
	if len(r.calls) == 0 {
		return renderCall{}
	}
	return r.calls[len(r.calls)-1]
}

func (i *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (i *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

type routerTestEnv struct {
	db       *gorm.DB
	engine   *gin.Engine
	renderer *stubHTMLRender
}

func setupRouterTestEnv(t *testing.T) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Objective{}, &models.KeyResult{}, &models.KeyResultUpdate{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	renderer := &stubHTMLRender{}
	engine := New(Options{
		Config: &config.Config{
			GinMode:     gin.TestMode,
			TemplateDir: "web/templates",
			StaticDir:   "web/static",
		},
		DB:           db,
		SessionStore: cookie.NewStore([]byte("test-secret")),
		HTMLRender:   renderer,
	})

	return &routerTestEnv{db: db, engine: engine, renderer: renderer}
}

// browser keeps the session cookie between requests
type browser struct {
	env     *routerTestEnv
	cookies map[string]*http.Cookie
}

func (env *routerTestEnv) browser() *browser {
	return &browser{env: env, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.env.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

// signUp registers and logs in a new user
func (env *routerTestEnv) signUp(t *testing.T, username string) *browser {
	t.Helper()
	b := env.browser()

	w := b.post("/register", url.Values{
		"username":  {username},
		"email":     {username + "@example.com"},
		"password":  {"password123"},
		"password2": {"password123"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	w = b.post("/login", url.Values{
		"username": {username},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))

	return b
}

func (b *browser) createObjective(t *testing.T, title, start, end string) uint64 {
	t.Helper()
	w := b.post("/objectives/new", url.Values{
		"title":       {title},
		"description": {"Some **markdown**"},
		"start_date":  {start},
		"end_date":    {end},
	})
	require.Equal(t, http.StatusFound, w.Code)

	var id uint64
	_, err := fmt.Sscanf(w.Header().Get("Location"), "/objectives/%d", &id)
	require.NoError(t, err)
	return id
}

func (env *routerTestEnv) keyResultIDs(t *testing.T, objectiveID uint64) []uint64 {
	t.Helper()
	var ids []uint64
	require.NoError(t, env.db.Model(&models.KeyResult{}).Where("objective_id = ?", objectiveID).Order("id").Pluck("id", &ids).Error)
	return ids
}

func TestHealth(t *testing.T) {
	env := setupRouterTestEnv(t)

	w := env.browser().get("/health")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestIndex_AnonymousAndSignedIn(t *testing.T) {
	env := setupRouterTestEnv(t)

	w := env.browser().get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pages/index.html", env.renderer.last().name)

	b := env.signUp(t, "alice")
	w = b.get("/")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestProtectedPage_RedirectsToLogin(t *testing.T) {
	env := setupRouterTestEnv(t)

	w := env.browser().get("/dashboard")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fdashboard", w.Header().Get("Location"))
}

func TestRegister_ShowsValidationErrors(t *testing.T) {
	env := setupRouterTestEnv(t)
	env.signUp(t, "alice")

	w := env.browser().post("/register", url.Values{
		"username":  {"alice"},
		"email":     {"other@example.com"},
		"password":  {"password123"},
		"password2": {"password123"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	call := env.renderer.last()
	assert.Equal(t, "auth/register.html", call.name)
	assert.Equal(t, "please use a different username", call.data["Error"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := setupRouterTestEnv(t)
	env.signUp(t, "alice")

	w := env.browser().post("/login", url.Values{
		"username": {"alice"},
		"password": {"not-the-password"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "auth/login.html", env.renderer.last().name)
	assert.Equal(t, "invalid username or password", env.renderer.last().data["Error"])
}

func TestLogin_NextRedirect(t *testing.T) {
	env := setupRouterTestEnv(t)
	env.signUp(t, "alice")

	tests := []struct {
		next     string
		location string
	}{
		{"/objectives", "/objectives"},
		{"//evil.example.com/", "/dashboard"},
		{"https://evil.example.com/", "/dashboard"},
		{"", "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			w := env.browser().post("/login", url.Values{
				"username": {"alice"},
				"password": {"password123"},
				"next":     {tt.next},
			})
			require.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			return c
		}
	}
	require.FailNow(t, "response did not set the session cookie")
	return nil
}

func TestLogin_RememberMeExtendsCookie(t *testing.T) {
	env := setupRouterTestEnv(t)
	env.signUp(t, "alice")

	remembered := env.browser()
	w := remembered.post("/login", url.Values{
		"username":    {"alice"},
		"password":    {"password123"},
		"remember_me": {"true"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.RememberMeMaxAge, sessionCookie(t, w).MaxAge)

	// creating an objective saves a flash into the session
	w = remembered.post("/objectives/new", url.Values{
		"title":      {"Grow"},
		"start_date": {"2025-01-01"},
		"end_date":   {"2025-03-31"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.RememberMeMaxAge, sessionCookie(t, w).MaxAge)

	w = remembered.get(w.Header().Get("Location"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.RememberMeMaxAge, sessionCookie(t, w).MaxAge)
}

func TestLogin_BrowserSessionSurvivesFlash(t *testing.T) {
	env := setupRouterTestEnv(t)
	env.signUp(t, "alice")

	b := env.browser()
	w := b.post("/login", url.Values{
		"username": {"alice"},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 0, sessionCookie(t, w).MaxAge)

	w = b.post("/objectives/new", url.Values{
		"title":      {"Grow"},
		"start_date": {"2025-01-01"},
		"end_date":   {"2025-03-31"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 0, sessionCookie(t, w).MaxAge)

	w = b.get(w.Header().Get("Location"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, sessionCookie(t, w).MaxAge)
	assert.Equal(t, "objectives/view.html", env.renderer.last().name)
}

func TestLogout(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")

	w := b.get("/logout")
	require.Equal(t, http.StatusFound, w.Code)

	w = b.get("/dashboard")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestObjectiveLifecycle(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")

	id := b.createObjective(t, "Grow revenue", "2025-01-01", "2025-03-31")

	w := b.get(fmt.Sprintf("/objectives/%d", id))
	require.Equal(t, http.StatusOK, w.Code)
	call := env.renderer.last()
	assert.Equal(t, "objectives/view.html", call.name)
	assert.Equal(t, []interface{}{"Objective created successfully."}, call.data["Flashes"])

	w = b.post(fmt.Sprintf("/objectives/%d/edit", id), url.Values{
		"title":      {"Grow revenue fast"},
		"start_date": {"2025-01-01"},
		"end_date":   {"2025-04-30"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	var objective models.Objective
	require.NoError(t, env.db.First(&objective, id).Error)
	assert.Equal(t, "Grow revenue fast", objective.Title)
	assert.Equal(t, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), objective.EndDate.UTC())

	w = b.get("/objectives")
	require.Equal(t, http.StatusOK, w.Code)
	summaries, ok := env.renderer.last().data["Objectives"].([]okr.ObjectiveSummary)
	require.True(t, ok)
	require.Len(t, summaries, 1)
}

func TestObjectiveCreate_InvalidDates(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")

	w := b.post("/objectives/new", url.Values{
		"title":      {"Backwards"},
		"start_date": {"2025-03-01"},
		"end_date":   {"2025-01-01"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "end date must not be before start date", env.renderer.last().data["Error"])

	w = b.post("/objectives/new", url.Values{
		"title":      {"No dates"},
		"start_date": {"not-a-date"},
		"end_date":   {"2025-01-01"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "objectives/new.html", env.renderer.last().name)
}

func TestObjectiveAccess_ForbiddenAndNotFound(t *testing.T) {
	env := setupRouterTestEnv(t)
	alice := env.signUp(t, "alice")
	bob := env.signUp(t, "bob")

	id := alice.createObjective(t, "Private", "2025-01-01", "2025-03-31")

	w := bob.get(fmt.Sprintf("/objectives/%d", id))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "errors/403.html", env.renderer.last().name)

	w = bob.post(fmt.Sprintf("/objectives/%d/delete", id), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = bob.get("/objectives/9999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "errors/404.html", env.renderer.last().name)

	w = bob.get("/objectives/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	env.db.Model(&models.Objective{}).Where("id = ?", id).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestKeyResultProgressFlow(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")
	objectiveID := b.createObjective(t, "Grow", "2025-01-01", "2025-03-31")

	w := b.post(fmt.Sprintf("/objectives/%d/keyresults/new", objectiveID), url.Values{
		"title":         {"Customers"},
		"target_value":  {"200"},
		"current_value": {"20"},
		"unit":          {"count"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/objectives/%d", objectiveID), w.Header().Get("Location"))

	ids := env.keyResultIDs(t, objectiveID)
	require.Len(t, ids, 1)
	krID := ids[0]

	w = b.get(fmt.Sprintf("/keyresults/%d/update", krID))
	require.Equal(t, http.StatusOK, w.Code)
	call := env.renderer.last()
	assert.Equal(t, "keyresults/update.html", call.name)
	assert.Equal(t, "20", call.data["Values"].(gin.H)["value"])

	w = b.post(fmt.Sprintf("/keyresults/%d/update", krID), url.Values{
		"value":   {"75"},
		"comment": {"Big launch"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	var kr models.KeyResult
	require.NoError(t, env.db.First(&kr, krID).Error)
	assert.Equal(t, 75.0, kr.CurrentValue)

	var updates []models.KeyResultUpdate
	require.NoError(t, env.db.Where("key_result_id = ?", krID).Order("id").Find(&updates).Error)
	require.Len(t, updates, 2)
	assert.Equal(t, 20.0, updates[0].Value)
	assert.Equal(t, 75.0, updates[1].Value)

	w = b.post(fmt.Sprintf("/keyresults/%d/update", krID), url.Values{"value": {""}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = b.post(fmt.Sprintf("/keyresults/%d/edit", krID), url.Values{
		"title":         {"Paying customers"},
		"target_value":  {"150"},
		"current_value": {"0"},
		"unit":          {"count"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.NoError(t, env.db.First(&kr, krID).Error)
	assert.Equal(t, "Paying customers", kr.Title)
	assert.Equal(t, 75.0, kr.CurrentValue)

	w = b.get(fmt.Sprintf("/objectives/%d", objectiveID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "objectives/view.html", env.renderer.last().name)
}

func TestKeyResult_RejectsNonFiniteValues(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")
	objectiveID := b.createObjective(t, "Grow", "2025-01-01", "2025-03-31")
	newPath := fmt.Sprintf("/objectives/%d/keyresults/new", objectiveID)

	for _, tt := range []struct {
		name    string
		target  string
		current string
	}{
		{"infinite target and current", "Inf", "Inf"},
		{"nan target", "NaN", "0"},
		{"nan current", "100", "NaN"},
		{"negative infinite current", "100", "-Inf"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := b.post(newPath, url.Values{
				"title":         {"Customers"},
				"target_value":  {tt.target},
				"current_value": {tt.current},
				"unit":          {"count"},
			})
			require.Equal(t, http.StatusBadRequest, w.Code)
			call := env.renderer.last()
			assert.Equal(t, "keyresults/new.html", call.name)
			assert.Equal(t, services.ErrValueNotFinite.Error(), call.data["Error"])
		})
	}
	assert.Empty(t, env.keyResultIDs(t, objectiveID))

	w := b.post(newPath, url.Values{
		"title":         {"Customers"},
		"target_value":  {"200"},
		"current_value": {"20"},
		"unit":          {"count"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	krID := env.keyResultIDs(t, objectiveID)[0]

	for _, value := range []string{"NaN", "Inf", "-Inf"} {
		w = b.post(fmt.Sprintf("/keyresults/%d/update", krID), url.Values{"value": {value}})
		require.Equal(t, http.StatusBadRequest, w.Code, value)
		assert.Equal(t, "keyresults/update.html", env.renderer.last().name)
	}

	var kr models.KeyResult
	require.NoError(t, env.db.First(&kr, krID).Error)
	assert.Equal(t, 20.0, kr.CurrentValue)

	w = b.get(fmt.Sprintf("/api/objectives/%d", objectiveID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progress":10`)

	w = b.get("/api/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
}

func TestKeyResultAccess_Forbidden(t *testing.T) {
	env := setupRouterTestEnv(t)
	alice := env.signUp(t, "alice")
	bob := env.signUp(t, "bob")
	objectiveID := alice.createObjective(t, "Grow", "2025-01-01", "2025-03-31")

	w := bob.post(fmt.Sprintf("/objectives/%d/keyresults/new", objectiveID), url.Values{
		"title":        {"Sneaky"},
		"target_value": {"10"},
		"unit":         {"count"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = alice.post(fmt.Sprintf("/objectives/%d/keyresults/new", objectiveID), url.Values{
		"title":        {"Real"},
		"target_value": {"10"},
		"unit":         {"count"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	krID := env.keyResultIDs(t, objectiveID)[0]

	for _, path := range []string{"/keyresults/%d/edit", "/keyresults/%d/update"} {
		w = bob.get(fmt.Sprintf(path, krID))
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}

	w = bob.post(fmt.Sprintf("/keyresults/%d/update", krID), url.Values{"value": {"99"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var kr models.KeyResult
	require.NoError(t, env.db.First(&kr, krID).Error)
	assert.Equal(t, 0.0, kr.CurrentValue)
}

func TestObjectiveDelete_Cascades(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")
	objectiveID := b.createObjective(t, "Doomed", "2025-01-01", "2025-03-31")

	for i := 0; i < 2; i++ {
		w := b.post(fmt.Sprintf("/objectives/%d/keyresults/new", objectiveID), url.Values{
			"title":        {fmt.Sprintf("kr %d", i)},
			"target_value": {"10"},
			"unit":         {"count"},
		})
		require.Equal(t, http.StatusFound, w.Code)
	}
	for _, krID := range env.keyResultIDs(t, objectiveID) {
		for v := 1; v <= 3; v++ {
			w := b.post(fmt.Sprintf("/keyresults/%d/update", krID), url.Values{"value": {fmt.Sprint(v)}})
			require.Equal(t, http.StatusFound, w.Code)
		}
	}

	w := b.post(fmt.Sprintf("/objectives/%d/delete", objectiveID), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/objectives", w.Header().Get("Location"))

	var keyResults, updates int64
	env.db.Model(&models.KeyResult{}).Count(&keyResults)
	env.db.Model(&models.KeyResultUpdate{}).Count(&updates)
	assert.Zero(t, keyResults)
	assert.Zero(t, updates)
}

func TestKeyResultDelete(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")
	objectiveID := b.createObjective(t, "Grow", "2025-01-01", "2025-03-31")

	w := b.post(fmt.Sprintf("/objectives/%d/keyresults/new", objectiveID), url.Values{
		"title":         {"kr"},
		"target_value":  {"10"},
		"current_value": {"5"},
		"unit":          {"count"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	krID := env.keyResultIDs(t, objectiveID)[0]

	w = b.post(fmt.Sprintf("/keyresults/%d/delete", krID), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/objectives/%d", objectiveID), w.Header().Get("Location"))

	var updates int64
	env.db.Model(&models.KeyResultUpdate{}).Count(&updates)
	assert.Zero(t, updates)
}

func TestCompleteObjectiveAPI(t *testing.T) {
	env := setupRouterTestEnv(t)
	alice := env.signUp(t, "alice")
	bob := env.signUp(t, "bob")
	id := alice.createObjective(t, "Finish", "2025-01-01", "2025-03-31")
	path := fmt.Sprintf("/api/objectives/%d/complete", id)

	w := env.browser().postJSON(path, gin.H{"is_complete": true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = bob.postJSON(path, gin.H{"is_complete": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	w = alice.postJSON(path, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = alice.postJSON(path, gin.H{"is_complete": true})
	require.Equal(t, http.StatusOK, w.Code)
	var response dto.CompleteObjectiveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.True(t, response.IsComplete)

	w = alice.postJSON(path, gin.H{"is_complete": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.IsComplete)

	w = alice.postJSON("/api/objectives/9999/complete", gin.H{"is_complete": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboard(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")

	w := b.get("/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	call := env.renderer.last()
	assert.Equal(t, "dashboard/index.html", call.name)
	dashboard, ok := call.data["Dashboard"].(okr.Dashboard)
	require.True(t, ok)
	assert.Zero(t, dashboard.TotalCount)

	future := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")
	start := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02")
	id := b.createObjective(t, "Upcoming", start, future)
	w = b.post(fmt.Sprintf("/objectives/%d/keyresults/new", id), url.Values{
		"title":         {"half"},
		"target_value":  {"10"},
		"current_value": {"5"},
		"unit":          {"count"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	w = b.get("/api/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	var response dto.DashboardDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.TotalCount)
	assert.Equal(t, 0, response.CompletedCount)
	assert.InDelta(t, 50.0, response.OverallProgress, 1e-9)
	require.Len(t, response.Upcoming, 1)
	assert.Equal(t, "Upcoming", response.Upcoming[0].Title)
}

func TestObjectiveAndHistoryJSON(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")
	id := b.createObjective(t, "Grow", "2025-01-01", "2025-03-31")
	w := b.post(fmt.Sprintf("/objectives/%d/keyresults/new", id), url.Values{
		"title":         {"kr"},
		"target_value":  {"100"},
		"current_value": {"40"},
		"unit":          {"%"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	w = b.get(fmt.Sprintf("/api/objectives/%d", id))
	require.Equal(t, http.StatusOK, w.Code)
	var detail dto.ObjectiveDetailDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "2025-03-31", detail.EndDate)
	require.Len(t, detail.KeyResults, 1)
	assert.InDelta(t, 40.0, detail.Progress, 1e-9)

	krID := detail.KeyResults[0].ID
	w = b.get(fmt.Sprintf("/api/keyresults/%d/updates", krID))
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Updates []dto.KeyResultUpdateDTO `json:"updates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Updates, 1)
	assert.Equal(t, 40.0, history.Updates[0].Value)
}

func TestChangePassword(t *testing.T) {
	env := setupRouterTestEnv(t)
	b := env.signUp(t, "alice")

	w := b.post("/account/password", url.Values{
		"current_password": {"password123"},
		"new_password":     {"short"},
		"new_password2":    {"short"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "auth/password.html", env.renderer.last().name)

	w = b.post("/account/password", url.Values{
		"current_password": {"password123"},
		"new_password":     {"betterpassword"},
		"new_password2":    {"betterpassword"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	w = env.browser().post("/login", url.Values{
		"username": {"alice"},
		"password": {"betterpassword"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := setupRouterTestEnv(t)

	w := env.browser().get("/no/such/page")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "errors/404.html", env.renderer.last().name)
}

func TestNewSessionStore(t *testing.T) {
	store, err := NewSessionStore(&config.Config{SessionStore: config.SessionStoreCookie, SessionSecret: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, store)

	_, err = NewSessionStore(&config.Config{SessionStore: "memcached", SessionSecret: "secret"})
	assert.Error(t, err)
}
