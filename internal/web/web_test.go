package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/story"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	r := chi.NewRouter()
	NewHandler(logger.NewTestLogger(t)).Routes(r)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postNav(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ==========================
// Pages
// ==========================

func TestHome_RendersIntro(t *testing.T) {
	rec := get(t, newTestRouter(t), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Start the Magic")
	assert.Contains(t, body, `action="/chapters/0/nav"`)
	assert.NotContains(t, body, `value="back"`)
}

func TestChapter_RendersStoryChapter(t *testing.T) {
	rec := get(t, newTestRouter(t), "/chapters/5")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Does This Sound Like You?")
	assert.Contains(t, body, "<li>Love teaching and want to keep it exciting</li>")
}

func TestChapter_FormStep(t *testing.T) {
	rec := get(t, newTestRouter(t), "/chapters/7?step=2")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "EMAIL ADDRESS")
	assert.Contains(t, body, `type="email"`)
	assert.Contains(t, body, "Step 2 of 8")
	assert.Contains(t, body, "/static/apply.js")
	assert.NotContains(t, body, story.SubmitLabel)
}

func TestChapter_FinalStepShowsSubmit(t *testing.T) {
	rec := get(t, newTestRouter(t), "/chapters/7?step=8")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, story.SubmitLabel)
	assert.Contains(t, body, "INSTAGRAM OR SOCIAL (OPTIONAL)")
}

func TestChapter_OutOfRangeIsClamped(t *testing.T) {
	rec := get(t, newTestRouter(t), "/chapters/99")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), story.FormTitle)
}

func TestChapter_NonNumericIndex(t *testing.T) {
	rec := get(t, newTestRouter(t), "/chapters/intro")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==========================
// Navigation
// ==========================

func TestNavigate(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		form     url.Values
		location string
	}{
		{"next chapter", "/chapters/0/nav", url.Values{"action": {"next"}}, "/chapters/1"},
		{"back chapter", "/chapters/3/nav", url.Values{"action": {"back"}}, "/chapters/2"},
		{"into form", "/chapters/6/nav", url.Values{"action": {"next"}}, "/chapters/7?step=1"},
		{"next step", "/chapters/7/nav", url.Values{"action": {"next"}, "step": {"3"}}, "/chapters/7?step=4"},
		{"last step stays", "/chapters/7/nav", url.Values{"action": {"next"}, "step": {"8"}}, "/chapters/7?step=8"},
		{"back from first step", "/chapters/7/nav", url.Values{"action": {"back"}, "step": {"1"}}, "/chapters/6"},
	}

	h := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postNav(t, h, tt.target, tt.form)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestNavigate_UnknownAction(t *testing.T) {
	rec := postNav(t, newTestRouter(t), "/chapters/2/nav", url.Values{"action": {"jump"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==========================
// Catalogue & assets
// ==========================

func TestCatalogue(t *testing.T) {
	rec := get(t, newTestRouter(t), "/api/chapters")
	require.Equal(t, http.StatusOK, rec.Code)

	var body catalogue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Chapters, story.ChapterCount)
	assert.Len(t, body.FormSteps, story.TotalFormSteps)
	assert.Equal(t, story.FormTitle, body.Form.Title)
}

func TestStaticAssets(t *testing.T) {
	rec := get(t, newTestRouter(t), "/static/apply.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sessionStorage")
}

var assetRef = regexp.MustCompile(`(?:src|href)="(/[^"]*)"|url\(['"]?(/[^'")]*)`)

func TestChapterAssetsAreServed(t *testing.T) {
	h := newTestRouter(t)

	for i := 0; i < story.ChapterCount; i++ {
		target := "/chapters/" + strconv.Itoa(i)
		if i == story.FormChapter {
			target += "?step=" + strconv.Itoa(story.TotalFormSteps)
		}
		rec := get(t, h, target)
		require.Equal(t, http.StatusOK, rec.Code, target)

		for _, m := range assetRef.FindAllStringSubmatch(rec.Body.String(), -1) {
			ref := m[1] + m[2]
			assert.Equal(t, http.StatusOK, get(t, h, ref).Code, "%s references %s", target, ref)
		}
	}
}
