// Package web is the minimal pattoo-web backend served by the API agent.
package web

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"pattooweb/internal/config"
	"pattooweb/internal/logging"
)

// New returns the backend handler. GET /status answers "ok"; /static/ serves
// server.static_dir when that directory exists.
func New(cfg *config.Config, logger *slog.Logger) http.Handler {
	logger = logging.NewComponentLogger(logger, "web")
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})

	if dir := cfg.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
		} else {
			logger.Debug("static directory unavailable", logging.String("path", dir))
		}
	}
	return mux
}
