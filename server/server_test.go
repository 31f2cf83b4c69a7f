package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_New(t *testing.T) {
	srv := New(Config{Listen: ":8080", Dir: "site", Version: "1.0.0", Debug: false})
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.Equal(t, "site", srv.dir)
	assert.False(t, srv.debug)
}

func TestServer_Run(t *testing.T) {
	// generated site stand-in
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>hello</html>"), 0o600))

	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	srv := New(Config{
		Listen:  fmt.Sprintf("127.0.0.1:%d", port),
		Dir:     dir,
		Version: "1.0.0",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	// wait for server to start
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 50*time.Millisecond)

	t.Run("status endpoint", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/v1/status")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var status map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		assert.Equal(t, "ok", status["status"])
		assert.Equal(t, "1.0.0", status["version"])
	})

	t.Run("static site", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/index.html")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "<html>hello</html>", string(body))
	})

	t.Run("missing file", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/nope.html")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	// graceful shutdown
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
