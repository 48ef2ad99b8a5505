package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body><h1>Rin</h1></body></html>"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "style.css"), []byte("body{}"), 0644))
	return dir
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServeInjectsReloadScript(t *testing.T) {
	srv := httptest.NewServer(newMux(newHub(), newTestSite(t)))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))
	assert.Contains(t, body, "<h1>Rin</h1>")
	assert.Contains(t, body, "new WebSocket")
	assert.Less(t, strings.Index(body, "new WebSocket"), strings.Index(body, "</body>"))
	assert.Equal(t, 1, strings.Count(body, "<script>"))
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	resp, body = get(t, srv.URL+"/index.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "new WebSocket")
}

func TestServeHeadHasNoBody(t *testing.T) {
	srv := httptest.NewServer(newMux(newHub(), newTestSite(t)))
	defer srv.Close()

	resp, err := http.Head(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Greater(t, resp.ContentLength, int64(0))
}

func TestReadPage(t *testing.T) {
	root := http.Dir(newTestSite(t))

	page, ok := readPage(root, "/")
	require.True(t, ok)
	assert.Contains(t, string(page), "<h1>Rin</h1>")

	_, ok = readPage(root, "/css/style.css")
	assert.False(t, ok, "only HTML is read")
	_, ok = readPage(root, "/css/")
	assert.False(t, ok, "directory without index.html")
	_, ok = readPage(root, "/../../etc/passwd.html")
	assert.False(t, ok)
}

func TestServeLeavesAssetsAlone(t *testing.T) {
	srv := httptest.NewServer(newMux(newHub(), newTestSite(t)))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/css/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{}", body)
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))
}

func TestServeMissingPage(t *testing.T) {
	srv := httptest.NewServer(newMux(newHub(), newTestSite(t)))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/nope.html")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, body, "new WebSocket")
}

func TestInjectReloadScript(t *testing.T) {
	out := string(injectReloadScript([]byte("<p>no body tag</p>")))
	assert.True(t, strings.HasPrefix(out, "<p>no body tag</p>"))
	assert.Contains(t, out, "new WebSocket")

	out = string(injectReloadScript([]byte("<body>x</body>")))
	assert.True(t, strings.HasSuffix(out, "</body>"))
}

func TestHubBroadcast(t *testing.T) {
	hub := newHub()
	srv := httptest.NewServer(newMux(hub, t.TempDir()))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.clientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, hub.broadcastMessage([]byte(reloadMessage)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	msgType, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)
	assert.Equal(t, reloadMessage, string(msg))

	conn.Close()
	assert.Eventually(t, func() bool { return hub.clientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.broadcastMessage([]byte(reloadMessage)))
}

func TestWatchSet(t *testing.T) {
	root := t.TempDir()
	templates := filepath.Join(root, "templates")
	require.NoError(t, os.MkdirAll(filepath.Join(templates, "default"), 0755))

	ws := newWatchSet()
	require.NoError(t, ws.addTree(templates))
	require.NoError(t, ws.addTree(filepath.Join(root, "missing")))
	ws.addFile(filepath.Join(root, "site.yaml"))

	assert.ElementsMatch(t, []string{templates, filepath.Join(templates, "default"), root}, ws.dirList())

	assert.True(t, ws.relevant(filepath.Join(root, "site.yaml")))
	assert.True(t, ws.relevant(filepath.Join(templates, "default", "layout.html")))
	assert.False(t, ws.relevant(filepath.Join(root, "README.md")), "siblings of site.yaml are ignored")
	assert.False(t, ws.relevant(filepath.Join(templates, "default", "layout.html~")))
	assert.False(t, ws.relevant(filepath.Join(templates, "default", ".layout.html.swp")))
}
