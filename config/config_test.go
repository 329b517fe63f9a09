package config

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truthlens/newsroom/dlog"
)

func resetCfg(t *testing.T) {
	t.Helper()
	Cfg = Default()
	t.Cleanup(func() { Cfg = Default() })
}

func TestStringMasksSecrets(t *testing.T) {
	resetCfg(t)
	Cfg.Jwt.Secret = "supersecretvalue"
	Cfg.Redis = []*ConfigRedis{{Name: "default", Password: "redispassword", Host: "localhost", Port: 6379}}

	s := Cfg.String()
	assert.NotContains(t, s, "supersecretvalue")
	assert.Contains(t, s, "alue")
	assert.NotContains(t, s, "redispassword")
	// the original must not be touched
	assert.Equal(t, "supersecretvalue", Cfg.Jwt.Secret)
	assert.Equal(t, "redispassword", Cfg.Redis[0].Password)
}

func TestLoadFromEnv(t *testing.T) {
	resetCfg(t)
	t.Setenv("PORT", "8088")
	t.Setenv("STORE", `{"Backend":"sqlite","Path":"news.db"}`)
	t.Setenv("JWT", `{"Secret":"abc","ExpireHours":2}`)
	t.Setenv("REDIS_default", `{"Host":"127.0.0.1","Port":6379,"DB":2}`)
	t.Setenv("LogLevel", "3")

	require.NoError(t, LoadConfig_FromEnv())
	assert.EqualValues(t, 8088, Cfg.Http.Port)
	assert.Equal(t, "sqlite", Cfg.Store.Backend)
	assert.Equal(t, "news.db", Cfg.Store.Path)
	assert.Equal(t, "abc", Cfg.Jwt.Secret)
	assert.EqualValues(t, 2, Cfg.Jwt.ExpireHours)
	assert.EqualValues(t, 3, Cfg.Settings.LogLevel)
	require.Len(t, Cfg.Redis, 1)
	assert.Equal(t, "default", Cfg.Redis[0].Name)
	assert.EqualValues(t, 2, Cfg.Redis[0].DB)
}

func TestLoadFromEnvRejectsBadJSON(t *testing.T) {
	resetCfg(t)
	t.Setenv("STORE", `{"Backend":`)
	assert.Error(t, LoadConfig_FromEnv())
}

func TestLoadFromEnvAppliesValidVariablesPastBadOne(t *testing.T) {
	resetCfg(t)
	t.Setenv("REDIS_cache", `{"Host":}`)
	t.Setenv("JWT", `{"Secret":"prod-secret"}`)
	t.Setenv("PORT", "8089")

	err := LoadConfig_FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_cache")
	assert.Equal(t, "prod-secret", Cfg.Jwt.Secret)
	assert.EqualValues(t, 8089, Cfg.Http.Port)
	assert.Empty(t, Cfg.Redis)
}

func TestLoadFailsOnBadEnvironment(t *testing.T) {
	resetCfg(t)
	old := ConfigDir
	ConfigDir = ""
	t.Cleanup(func() { ConfigDir = old })
	var logs bytes.Buffer
	dlog.SetOutput(&logs)
	t.Cleanup(func() { dlog.SetOutput(os.Stdout) })
	t.Setenv("REDIS_cache", `{"Host":}`)
	t.Setenv("JWT", `{"Secret":"prod-secret"}`)

	err := Load()
	require.Error(t, err)
	assert.Contains(t, logs.String(), "Step1.1.2 Load config from enviroment failed")
	assert.Contains(t, logs.String(), "REDIS_cache")
	assert.NotContains(t, logs.String(), "Step1.E")
}

func TestLoadFromFileWritesDemoWhenMissing(t *testing.T) {
	resetCfg(t)
	dir := t.TempDir()
	old := ConfigDir
	ConfigDir = dir
	t.Cleanup(func() { ConfigDir = old })

	LoadConfig_FromFile()
	_, err := os.Stat(filepath.Join(dir, "config.demo.toml"))
	require.NoError(t, err)
	assert.Equal(t, "file", Cfg.Store.Backend)

	// a real config.toml wins
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[Store]\nBackend = \"memory\"\n[Http]\nPort = 9090\n"), 0644))
	LoadConfig_FromFile()
	assert.Equal(t, "memory", Cfg.Store.Backend)
	assert.EqualValues(t, 9090, Cfg.Http.Port)
}

func TestLoadFromWeb(t *testing.T) {
	resetCfg(t)
	old := ConfigDir
	ConfigDir = t.TempDir()
	t.Cleanup(func() { ConfigDir = old })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[Store]\nBackend = \"redis\"\nRedisName = \"default\"\n"))
	}))
	defer srv.Close()
	t.Setenv("CONFIG_URL", srv.URL)

	LoadConfig_FromWeb()
	assert.Equal(t, "redis", Cfg.Store.Backend)
	assert.Equal(t, srv.URL, Cfg.ConfigUrl)
	saved, err := os.ReadFile(filepath.Join(ConfigDir, "config.toml"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(saved), "redis"))
}
