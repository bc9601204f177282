package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harrylevesque/academicverify/internal/config"
	"github.com/harrylevesque/academicverify/internal/docs"
)

func TestNewHTTPServer_Timeouts(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.ReadTimeout = "7s"

	srv := newHTTPServer(cfg, http.NotFoundHandler())
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 7*time.Second, srv.ReadTimeout)
	assert.Equal(t, 7*time.Second, srv.ReadHeaderTimeout)
}

func TestBuildServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Session.KeyFile = filepath.Join(t.TempDir(), "missing.key")

	srv, err := buildServer(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, srv.Handler())
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "academicverify.yaml")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil); configForce = false })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Server.Addr, cfg.Server.Addr)

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	require.Error(t, rootCmd.Execute())

	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0644))
	rootCmd.SetArgs([]string{"config", "init", "--config", path, "--force"})
	require.NoError(t, rootCmd.Execute())
}

func TestDocsRaw(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"docs", "--raw", "--config", filepath.Join(t.TempDir(), "none.yaml")})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil); docsRaw = false })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, string(docs.Markdown()), out.String())
}
