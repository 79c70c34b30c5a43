// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renaissance-story/internal/api"
	"renaissance-story/internal/common/config"
	"renaissance-story/internal/common/database"
	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/common/observability"
	"renaissance-story/internal/common/ratelimit"
	"renaissance-story/internal/followup"
	"renaissance-story/internal/models"
	"renaissance-story/internal/store"
	"renaissance-story/internal/web"

	indexsubmission "renaissance-story/internal/workers/application/index-submission"
	submitapplication "renaissance-story/internal/workers/application/submit-application"
)

// ==========================
// Fake Backends
// ==========================

type fakeSupabase struct {
	mu      sync.Mutex
	rows    []map[string]interface{}
	headers []http.Header
	fail    string
}

func (f *fakeSupabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.headers = append(f.headers, r.Header.Clone())
	if f.fail != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "23502", "message": f.fail})
		return
	}

	var rows []map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.rows = append(f.rows, rows...)
	w.WriteHeader(http.StatusCreated)
}

func (f *fakeSupabase) stored() []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]interface{}(nil), f.rows...)
}

type fakeElasticsearch struct {
	mu   sync.Mutex
	docs map[string]map[string]interface{}
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	raw, _ := io.ReadAll(r.Body)
	var doc map[string]interface{}
	_ = json.Unmarshal(raw, &doc)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = map[string]map[string]interface{}{}
	}
	f.docs[r.URL.Path] = doc

	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(`{"result":"created","_version":1}`))
}

func (f *fakeElasticsearch) indexed() map[string]map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]map[string]interface{}, len(f.docs))
	for k, v := range f.docs {
		out[k] = v
	}
	return out
}

// ==========================
// Environment
// ==========================

type testEnvironment struct {
	server    *httptest.Server
	supabase  *fakeSupabase
	search    *fakeElasticsearch
	followups *followup.Dispatcher
}

func setupEnvironment(t *testing.T, supabaseConfigured bool, limiter ratelimit.Limiter) *testEnvironment {
	t.Helper()
	log := logger.NewTestLogger(t)

	env := &testEnvironment{supabase: &fakeSupabase{}, search: &fakeElasticsearch{}}
	supabaseSrv := httptest.NewServer(env.supabase)
	t.Cleanup(supabaseSrv.Close)
	searchSrv := httptest.NewServer(env.search)
	t.Cleanup(searchSrv.Close)

	storageCfg := config.StorageConfig{
		Driver: config.StorageDriverSupabase,
		Table:  "applicant_submissions",
	}
	if supabaseConfigured {
		storageCfg.Supabase = config.SupabaseConfig{URL: supabaseSrv.URL, ServiceRole: "service-role-key"}
		storageCfg.Timeout = 5000
	}

	var submitter api.Submitter
	st, err := store.New(storageCfg, nil)
	if err == nil {
		submitter = submitapplication.NewHandler(submitapplication.LoadConfig(), st, log)
	} else {
		require.ErrorIs(t, err, store.ErrNotConfigured)
	}

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{searchSrv.URL}})
	require.NoError(t, err)
	index := indexsubmission.NewHandler(indexsubmission.LoadConfig("applicant-submissions"), es, log)

	env.followups = followup.NewDispatcher(5*time.Second, log,
		followup.NewTask(indexsubmission.TaskType, func(ctx context.Context, r *models.SubmissionRecord) error {
			_, err := index.Execute(ctx, r)
			return err
		}),
		followup.NewTask("always-fails", func(context.Context, *models.SubmissionRecord) error {
			return assert.AnError
		}),
	)

	router := api.NewRouter(api.Options{
		Apply:   api.NewApplyHandler(submitter, env.followups, observability.New("story-e2e", log), 0, log),
		Pages:   web.NewHandler(log),
		Limiter: limiter,
		Logger:  log,
	})
	env.server = httptest.NewServer(router)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnvironment) apply(t *testing.T, method, body string) (int, http.Header, string) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+"/api/apply", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, res.Header, string(raw)
}

// ==========================
// Journeys
// ==========================

func TestFullE2E_StoryToSubmission(t *testing.T) {
	env := setupEnvironment(t, true, nil)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	// walk the story from the intro to the last form step
	location := "/"
	res, err := client.Get(env.server.URL + location)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	chapter, step := 0, ""
	for i := 0; i < 14; i++ {
		form := url.Values{"action": {"next"}}
		if step != "" {
			form.Set("step", step)
		}
		res, err := client.PostForm(env.server.URL+"/chapters/"+strconv.Itoa(chapter)+"/nav", form)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusSeeOther, res.StatusCode)

		location = res.Header.Get("Location")
		u, err := url.Parse(location)
		require.NoError(t, err)
		chapter, err = strconv.Atoi(strings.TrimPrefix(u.Path, "/chapters/"))
		require.NoError(t, err)
		step = u.Query().Get("step")
	}
	assert.Equal(t, "/chapters/7?step=8", location)

	res, err = client.Get(env.server.URL + location)
	require.NoError(t, err)
	page, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Contains(t, string(page), "Submit Application")

	status, headers, body := env.apply(t, http.MethodPost, `{
		"name": "Mei Chan",
		"email": "mei@example.com",
		"phone": "",
		"subject": "Piano",
		"experience": "10+ years",
		"referrer": "https://instagram.com/",
		"user_agent": "Mozilla/5.0"
	}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, body)
	assert.Equal(t, "*", headers.Get("Access-Control-Allow-Origin"))

	rows := env.supabase.stored()
	require.Len(t, rows, 1)
	assert.Equal(t, "Mei Chan", rows[0]["name"])
	assert.Nil(t, rows[0]["phone"])
	assert.Nil(t, rows[0]["portfolio"])
	assert.Equal(t, "Mozilla/5.0", rows[0]["user_agent"])

	hdr := env.supabase.headers[0]
	assert.Equal(t, "service-role-key", hdr.Get("apikey"))
	assert.Equal(t, "Bearer service-role-key", hdr.Get("Authorization"))
	assert.Equal(t, "return=minimal", hdr.Get("Prefer"))

	require.NoError(t, env.followups.Wait(context.Background()))
	docs := env.search.indexed()
	require.Len(t, docs, 1)
	for path, doc := range docs {
		assert.True(t, strings.HasPrefix(path, "/applicant-submissions/_doc/"))
		assert.Equal(t, "mei@example.com", doc["email"])
		assert.Equal(t, "Piano", doc["subject"])
	}
}

func TestFullE2E_ApplyResponses(t *testing.T) {
	env := setupEnvironment(t, true, nil)

	status, headers, body := env.apply(t, http.MethodOptions, "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)
	assert.Equal(t, "POST, OPTIONS", headers.Get("Access-Control-Allow-Methods"))

	status, _, body = env.apply(t, http.MethodGet, "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, body)

	status, _, body = env.apply(t, http.MethodPost, `{"name":"","email":"a@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Missing required fields: name, email"}`, body)

	status, _, body = env.apply(t, http.MethodPost, `{"name":"A","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Invalid email"}`, body)

	assert.Empty(t, env.supabase.stored())
}

func TestFullE2E_StoreErrorSurfaced(t *testing.T) {
	env := setupEnvironment(t, true, nil)
	env.supabase.fail = `null value in column "email" violates not-null constraint`

	status, _, body := env.apply(t, http.MethodPost, `{"name":"A","email":"a@b.com"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"null value in column \"email\" violates not-null constraint"}`, body)

	require.NoError(t, env.followups.Wait(context.Background()))
	assert.Empty(t, env.search.indexed())
}

func TestFullE2E_NotConfigured(t *testing.T) {
	env := setupEnvironment(t, false, nil)

	status, _, body := env.apply(t, http.MethodPost, `{"name":"A","email":"a@b.com"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Server not configured (missing Supabase env vars)"}`, body)
}

func TestFullE2E_RateLimited(t *testing.T) {
	env := setupEnvironment(t, true, ratelimit.NewMemoryLimiter(1, time.Hour))

	status, _, _ := env.apply(t, http.MethodPost, `{"name":"A","email":"a@b.com"}`)
	require.Equal(t, http.StatusOK, status)

	status, _, body := env.apply(t, http.MethodPost, `{"name":"A","email":"a@b.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.JSONEq(t, `{"error":"Too many requests"}`, body)
	assert.Len(t, env.supabase.stored(), 1)
}
