package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

// NewRouter wires the generate endpoint, read-only artifact serving and health.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(h.logger),
	)

	r.Get("/", h.Health)
	r.Get("/status", h.Status)
	r.Post("/generate", h.Generate)

	files := h.filesRoute
	static := http.StripPrefix(files, noDirListing(http.FileServer(http.Dir(h.outputDir))))
	r.Method(http.MethodGet, files+"/*", static)
	r.Method(http.MethodHead, files+"/*", static)

	return r
}

// noDirListing hides directory indexes of the output folder.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info(r.Context(), "%s %s %d %dB %s [%s]",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
		})
	}
}
