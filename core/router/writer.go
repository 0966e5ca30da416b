package router

import "net/http"

// responseWriter remembers whether the header went out so the error handler
// can tell a failed render from an unrendered one.
type responseWriter struct {
	http.ResponseWriter
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.ResponseWriter.Write(b)
}

// Written reports whether the header was sent.
func (w *responseWriter) Written() bool { return w.written }

func (w *responseWriter) Flush() {
	w.WriteHeader(http.StatusOK)
	http.NewResponseController(w.ResponseWriter).Flush()
}

func (w *responseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
