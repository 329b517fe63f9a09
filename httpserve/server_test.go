package httpserve

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truthlens/newsroom/config"
	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/hub"
	"github.com/truthlens/newsroom/kvstore"
	"github.com/truthlens/newsroom/settings"
)

type fixture struct {
	srv      *Server
	store    kvstore.Store
	events   []hub.Event
	admin    string
	editor   string
	reporter string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	h := hub.New()
	t.Cleanup(h.Close)
	st := settings.New(store, h)
	ct := content.New(store, st, content.Options{JwtSecret: "test-secret", Events: h})
	f := &fixture{store: store}
	h.Subscribe(func(ev hub.Event) { f.events = append(f.events, ev) })
	f.srv = New(config.ConfigHttp{CORES: "*", StaticDir: t.TempDir()}, store, st, ct, h)

	require.NoError(t, ct.EnsureAdmin(ctx, "Admin", "admin@truthlens.test", "supersecret"))
	f.admin = f.login(t, "admin@truthlens.test", "supersecret")
	for _, u := range []content.NewUser{
		{Name: "Eddie", Email: "editor@truthlens.test", Password: "editorpass", Role: content.RoleEditor},
		{Name: "Rita", Email: "reporter@truthlens.test", Password: "reporterpass", Role: content.RoleReporter},
	} {
		_, err := ct.CreateUser(ctx, u)
		require.NoError(t, err)
	}
	f.editor = f.login(t, "editor@truthlens.test", "editorpass")
	f.reporter = f.login(t, "reporter@truthlens.test", "reporterpass")
	return f
}

func (f *fixture) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

// do sends body as json; a []byte body is sent as is
func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		bs, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(bs)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *fixture) eventNames() []string {
	names := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		names = append(names, ev.Name)
	}
	return names
}

func (f *fixture) getWithETag(t *testing.T, path, etag string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}
