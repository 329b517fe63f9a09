package httpserve

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truthlens/newsroom/content"
	"github.com/vmihailenco/msgpack/v5"
)

func (f *fixture) createArticle(t *testing.T, token, title, status string) content.Article {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/admin/articles", token, map[string]interface{}{
		"title": title, "category": "national", "status": status, "content": "Body of " + title,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[content.Article](t, rec)
}

func TestPublicArticles(t *testing.T) {
	f := newFixture(t)
	pub := f.createArticle(t, f.reporter, "Flood Relief Reaches Villages", content.StatusPublished)
	assert.Equal(t, "flood-relief-reaches-villages", pub.Slug)
	assert.Equal(t, "Rita", pub.AuthorName)
	f.createArticle(t, f.reporter, "Secret Draft", content.StatusDraft)

	list := decode[[]content.Article](t, f.do(t, http.MethodGet, "/api/v1/articles", "", nil))
	require.Len(t, list, 1)
	assert.Equal(t, pub.ID, list[0].ID)

	got := decode[content.Article](t, f.do(t, http.MethodGet, "/api/v1/articles/"+pub.Slug, "", nil))
	assert.EqualValues(t, 1, got.Views)
	got = decode[content.Article](t, f.do(t, http.MethodGet, "/api/v1/articles/"+pub.Slug, "", nil))
	assert.EqualValues(t, 2, got.Views)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/articles/secret-draft", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/articles?limit=many", "", nil).Code)

	drafts := decode[[]content.Article](t, f.do(t, http.MethodGet, "/api/v1/admin/articles?status=draft", f.editor, nil))
	assert.Len(t, drafts, 1)

	rec := f.do(t, http.MethodPost, "/api/v1/admin/articles", f.admin, map[string]interface{}{"title": "Flood Relief Reaches Villages"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCommentModerationFlow(t *testing.T) {
	f := newFixture(t)
	a := f.createArticle(t, f.admin, "Budget Hearing Today", content.StatusPublished)
	path := "/api/v1/articles/" + a.Slug + "/comments"

	rec := f.do(t, http.MethodPost, path, "", map[string]string{"content": "  Great reporting  "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	c := decode[content.Comment](t, rec)
	assert.Equal(t, content.CommentPending, c.Status)
	assert.Equal(t, "Anonymous", c.Author)

	assert.Empty(t, decode[[]content.CommentThread](t, f.do(t, http.MethodGet, path, "", nil)))
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, path, "", map[string]string{"content": " "}).Code)

	all := decode[[]content.AdminComment](t, f.do(t, http.MethodGet, "/api/v1/admin/comments", f.editor, nil))
	require.Len(t, all, 1)
	assert.Equal(t, a.Title, all[0].ArticleTitle)

	rec = f.do(t, http.MethodPut, "/api/v1/admin/comments/"+c.ID+"/status", f.editor, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	threads := decode[[]content.CommentThread](t, f.do(t, http.MethodGet, path, "", nil))
	require.Len(t, threads, 1)
	assert.Equal(t, "Great reporting", threads[0].Content)

	liked := decode[content.Comment](t, f.do(t, http.MethodPost, "/api/v1/comments/"+c.ID+"/like", "", nil))
	assert.Equal(t, 1, liked.Likes)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodDelete, "/api/v1/admin/comments/"+c.ID, f.reporter, nil).Code)
}

func TestJobsApplicationsAndNewsletter(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/admin/jobs", f.editor, map[string]interface{}{
		"title": "Editorial Intern", "type": "internship", "isOpen": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	job := decode[content.Job](t, rec)

	jobs := decode[[]content.Job](t, f.do(t, http.MethodGet, "/api/v1/jobs", "", nil))
	require.Len(t, jobs, 1)

	rec = f.do(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/applications", "", map[string]string{"fullName": "Ann Lee", "email": "Ann@Example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/v1/jobs/nope/applications", "", map[string]string{"fullName": "Ann Lee", "email": "ann@example.com"}).Code)

	apps := decode[[]content.JobApplication](t, f.do(t, http.MethodGet, "/api/v1/admin/applications?jobId="+job.ID, f.editor, nil))
	require.Len(t, apps, 1)
	assert.Equal(t, "ann@example.com", apps[0].Email)

	assert.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/newsletter", "", map[string]string{"email": "Reader@Example.com"}).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/newsletter", "", map[string]string{"email": "reader@example.com"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/newsletter", "", map[string]string{"email": "nope"}).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/newsletter/unsubscribe", "", map[string]string{"email": "reader@example.com"}).Code)
	subs := decode[[]content.Subscriber](t, f.do(t, http.MethodGet, "/api/v1/admin/subscribers?active=true", f.editor, nil))
	assert.Empty(t, subs)
}

func TestHomeAndMaintenance(t *testing.T) {
	f := newFixture(t)
	f.createArticle(t, f.admin, "Morning Brief", content.StatusPublished)

	home := decode[map[string]interface{}](t, f.do(t, http.MethodGet, "/api/v1/home", "", nil))
	assert.Contains(t, home, "sections")

	rec := f.do(t, http.MethodPost, "/api/site", f.admin, []byte(`{"maintenanceMode":true}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusServiceUnavailable, f.do(t, http.MethodGet, "/api/v1/home", "", nil).Code)
}

func TestMsgpackRequestsAndResponses(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/settings/featured?rt=application/msgpack", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/msgpack", rec.Header().Get("Content-Type"))
	var featured map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &featured))
	assert.EqualValues(t, 5, featured["maxBreakingNews"])

	body, err := msgpack.Marshal(map[string]interface{}{"dark": true})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/theme", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/msgpack")
	req.Header.Set("Authorization", "Bearer "+f.admin)
	rec = httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/theme?rt=application/msgpack", "", nil)
	var theme map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &theme))
	assert.Equal(t, true, theme["dark"])
}

func TestCorsPreflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/theme", nil)
	req.Header.Set("Origin", "https://truthlens.example")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCorsOriginListMatchesWholeEntries(t *testing.T) {
	f := newFixture(t)
	f.srv.Cfg.CORES = "https://a.com, https://truthlens.example"
	for origin, allowed := range map[string]bool{
		"https://a.com":             true,
		"https://truthlens.example": true,
		"https://a.co":              false,
		"https://truthlens":         false,
	} {
		req := httptest.NewRequest(http.MethodOptions, "/api/theme", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		f.srv.ServeHTTP(rec, req)
		if allowed {
			assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"), origin)
		} else {
			assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"), origin)
		}
	}
}

func TestStaticFilesWithFallback(t *testing.T) {
	f := newFixture(t)
	dir := f.srv.Cfg.StaticDir

	rec := f.do(t, http.MethodGet, "/admin/sections", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading application")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	rec = f.do(t, http.MethodGet, "/assets/app.js", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/admin/sections", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>app</html>", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/nope", "", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/v1/team", "", nil)

	rec := f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "newsroom_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="GET /api/v1/team"`)
	assert.Contains(t, rec.Body.String(), "newsroom_websocket_clients 0")
}
