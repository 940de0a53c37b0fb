// Package viewer shows rendered figures on a local web page and blocks until
// the page is closed.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"k8s.io/klog/v2"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8050"

// Figure is something the viewer can display.
type Figure interface {
	ID() string
	Caption() string
	PNG() ([]byte, error)
}

// FigureInfo describes one figure in the listing.
type FigureInfo struct {
	Name    string `json:"name"`
	Caption string `json:"caption"`
	URL     string `json:"url"`
}

type image struct {
	info FigureInfo
	png  []byte
}

// Server serves pre-rendered figures. It is safe for concurrent use.
type Server struct {
	images []image
	byName map[string]int

	closed    chan struct{}
	closeOnce sync.Once
}

// New renders every figure up front.
func New(figs ...Figure) (*Server, error) {
	if len(figs) == 0 {
		return nil, errors.New("no figures to show")
	}

	s := &Server{
		byName: make(map[string]int, len(figs)),
		closed: make(chan struct{}),
	}
	for _, f := range figs {
		name := f.ID()
		if _, ok := s.byName[name]; ok {
			return nil, fmt.Errorf("duplicate figure %q", name)
		}
		data, err := f.PNG()
		if err != nil {
			return nil, fmt.Errorf("figure %q: %w", name, err)
		}
		s.byName[name] = len(s.images)
		s.images = append(s.images, image{
			info: FigureInfo{
				Name:    name,
				Caption: f.Caption(),
				URL:     "/figures/" + name + ".png",
			},
			png: data,
		})
	}
	return s, nil
}

// Closed is closed once the page requested to close.
func (s *Server) Closed() <-chan struct{} {
	return s.closed
}

// Close releases anyone waiting on Closed. It may be called more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Handler returns the HTTP routes of the viewer.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/", s.page)
	r.Get("/figures", s.list)
	r.Get("/figures/{name}", s.figure)
	r.Post("/close", s.close)
	return r
}

// Serve serves the viewer on ln until the page is closed, ctx is done or
// the server fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := klog.FromContext(ctx)

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info("Showing figures, close the page to finish", "url", "http://"+ln.Addr().String()+"/", "figures", len(s.images))

	var serveErr error
	select {
	case <-s.closed:
		logger.V(2).Info("Viewer closed by user")
	case <-ctx.Done():
		logger.V(2).Info("Viewer interrupted", "reason", ctx.Err())
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serving figures: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = fmt.Errorf("stopping viewer: %w", err)
	}
	return serveErr
}

// Show renders figs, serves them on addr and blocks until the page is
// closed or ctx is done.
func Show(ctx context.Context, addr string, figs ...Figure) error {
	s, err := New(figs...)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	infos := make([]FigureInfo, len(s.images))
	for i, img := range s.images {
		infos[i] = img.info
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, infos); err != nil {
		klog.FromContext(r.Context()).Error(err, "Rendering viewer page")
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	infos := make([]FigureInfo, len(s.images))
	for i, img := range s.images {
		infos[i] = img.info
	}
	render.JSON(w, r, infos)
}

func (s *Server) figure(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "name"), ".png")
	i, ok := s.byName[name]
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": fmt.Sprintf("figure %q not found", name)})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.images[i].png)
}

func (s *Server) close(w http.ResponseWriter, r *http.Request) {
	s.Close()
	render.JSON(w, r, map[string]string{"status": "closed"})
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>trendscope</title>
<style>
body { font-family: sans-serif; margin: 2em; }
figure { margin: 0 0 2em 0; }
img { max-width: 100%; border: 1px solid #ddd; }
</style>
</head>
<body>
<button id="close">Close</button>
{{range .}}
<figure>
<img src="{{.URL}}" alt="{{.Caption}}">
<figcaption>{{.Caption}}</figcaption>
</figure>
{{end}}
<script>
document.getElementById("close").addEventListener("click", function () {
  fetch("/close", { method: "POST" }).then(function () { window.close(); document.body.textContent = "Closed."; });
});
</script>
</body>
</html>
`))
