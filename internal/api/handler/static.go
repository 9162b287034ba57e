package handler

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

const (
	widgetFile = "gradient_tweet.html"
	indexFile  = "index.html"
)

// StaticHandler serves the widget HTML and the built login frontend.
type StaticHandler struct {
	logger      *slog.Logger
	widgetDir   string
	frontendDir string
}

func NewStaticHandler(logger *slog.Logger, widgetDir, frontendDir string) *StaticHandler {
	return &StaticHandler{logger: logger, widgetDir: widgetDir, frontendDir: frontendDir}
}

// Widget serves the gradient tweet widget.
func (h *StaticHandler) Widget(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, filepath.Join(h.widgetDir, widgetFile), "<p>Widget not available</p>")
}

// Login serves the frontend entry point that hosts the identity provider's
// login flow.
func (h *StaticHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, filepath.Join(h.frontendDir, indexFile), "<p>Login page not available</p>")
}

// Assets serves the frontend's bundled assets under /assets/.
func (h *StaticHandler) Assets() http.Handler {
	return http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(h.frontendDir, "assets"))))
}

func (h *StaticHandler) serveFile(w http.ResponseWriter, r *http.Request, path, notFound string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		h.logger.Warn("static file unavailable", slog.String("path", path))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(notFound))
		return
	}
	http.ServeFile(w, r, path)
}
