// internal/server/server.go
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"showcase/internal/builder"
)

const (
	debounceDuration = 300 * time.Millisecond
	reloadMessage    = "reload"
)

// Run builds the site, then serves outputDir on port and rebuilds whenever
// the templates, static assets or any of watchFiles change. Open pages reload
// themselves after each successful rebuild.
func Run(port int, outputDir string, watchFiles []string, buildFunc func(builder.BuildOptions) error, opts builder.BuildOptions) error {
	opts.CleanDestination = true
	if err := buildFunc(opts); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	ws := newWatchSet()
	for _, dir := range []string{"templates", "static"} {
		if err := ws.addTree(dir); err != nil {
			return err
		}
	}
	for _, file := range watchFiles {
		ws.addFile(file)
	}
	for _, dir := range ws.dirList() {
		if err := watcher.Add(dir); err != nil {
			log.Printf("Error adding watch on %s: %v", dir, err)
			continue
		}
		fmt.Printf("Watching directory: %s\n", dir)
	}

	opts.CleanDestination = false
	go watchForChanges(watcher, ws, hub, buildFunc, opts)

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Serving site on http://localhost%s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	return http.ListenAndServe(addr, newMux(hub, outputDir))
}

// watchSet tracks what a rebuild depends on. Whole trees are watched for
// templates and static files; single files are watched through their parent
// directory so editors that save by rename are still seen.
type watchSet struct {
	dirs  map[string]bool // every event inside counts
	files map[string]bool // only these names count
	roots map[string]bool // parent dirs watched for files
}

func newWatchSet() *watchSet {
	return &watchSet{
		dirs:  make(map[string]bool),
		files: make(map[string]bool),
		roots: make(map[string]bool),
	}
}

// addTree registers root and all its subdirectories. A missing root is skipped.
func (ws *watchSet) addTree(root string) error {
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	err := filepath.Walk(root, func(dir string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			ws.dirs[filepath.Clean(dir)] = true
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", root, err)
	}
	return nil
}

func (ws *watchSet) addFile(file string) {
	file = filepath.Clean(file)
	ws.files[file] = true
	ws.roots[filepath.Dir(file)] = true
}

func (ws *watchSet) dirList() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range []map[string]bool{ws.dirs, ws.roots} {
		for dir := range m {
			if !seen[dir] {
				seen[dir] = true
				out = append(out, dir)
			}
		}
	}
	return out
}

// relevant reports whether a change to name should trigger a rebuild.
func (ws *watchSet) relevant(name string) bool {
	name = filepath.Clean(name)
	base := filepath.Base(name)
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasPrefix(base, ".#") {
		return false
	}
	if ws.files[name] {
		return true
	}
	return ws.dirs[filepath.Dir(name)] || ws.dirs[name]
}

func newMux(hub *Hub, outputDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})

	fileServer := http.FileServer(http.Dir(outputDir))
	mux.Handle("/", liveReloadWrapper(outputDir, fileServer))
	return mux
}

// watchForChanges rebuilds once changes settle for debounceDuration, so a
// burst of saves results in a single rebuild that sees the final state.
func watchForChanges(watcher *fsnotify.Watcher, ws *watchSet, hub *Hub, buildFunc func(builder.BuildOptions) error, opts builder.BuildOptions) {
	timer := time.NewTimer(debounceDuration)
	if !timer.Stop() {
		<-timer.C
	}
	var changed string

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !ws.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) && ws.dirs[filepath.Dir(filepath.Clean(event.Name))] {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					ws.dirs[filepath.Clean(event.Name)] = true
					if err := watcher.Add(event.Name); err != nil {
						log.Printf("Error adding watch on %s: %v", event.Name, err)
					}
				}
			}
			changed = event.Name
			timer.Reset(debounceDuration)

		case <-timer.C:
			log.Printf("Change detected in %s, rebuilding...", changed)
			if err := buildFunc(opts); err != nil {
				log.Printf("Error rebuilding site: %v", err)
				continue
			}
			log.Println("Site rebuilt successfully. Triggering reload...")
			hub.broadcastMessage([]byte(reloadMessage))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// liveReloadWrapper disables caching and serves HTML pages from outputDir
// with the reload script injected. Everything else goes to next.
func liveReloadWrapper(outputDir string, next http.Handler) http.Handler {
	root := http.Dir(outputDir)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		page, ok := readPage(root, r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		body := injectReloadScript(page)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method == http.MethodHead {
			return
		}
		w.Write(body)
	})
}

// readPage loads the HTML file a request path refers to, mapping directory
// paths to their index.html. http.Dir keeps lookups inside root.
func readPage(root http.Dir, urlPath string) ([]byte, bool) {
	name := path.Clean("/" + urlPath)
	if strings.HasSuffix(urlPath, "/") {
		name = path.Join(name, "index.html")
	}
	if path.Ext(name) != ".html" {
		return nil, false
	}

	f, err := root.Open(name)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	if info, err := f.Stat(); err != nil || info.IsDir() {
		return nil, false
	}
	page, err := io.ReadAll(f)
	if err != nil {
		log.Printf("Error reading %s: %v", name, err)
		return nil, false
	}
	return page, true
}

// injectReloadScript places the script before </body>, or appends it when
// the page has no closing body tag.
func injectReloadScript(page []byte) []byte {
	idx := bytes.LastIndex(page, []byte("</body>"))
	if idx < 0 {
		return append(page, liveReloadScript...)
	}
	out := make([]byte, 0, len(page)+len(liveReloadScript))
	out = append(out, page[:idx]...)
	out = append(out, liveReloadScript...)
	return append(out, page[idx:]...)
}

const liveReloadScript = `
<script>
  (function() {
    var socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "` + reloadMessage + `") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection lost. Restart 'showcase serve' to reconnect.");
    };
  })();
</script>
`
