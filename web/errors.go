package web

import (
	"net/http"
)

// ErrorPages provides the body served for an error status.
type ErrorPages interface {
	// ErrorPage returns the page for status, or false if there is none.
	ErrorPage(status int) ([]byte, bool)
}

// ErrorHandler captures 404 and 500 responses from h and replaces the body
// with the page from pages.
func ErrorHandler(h http.Handler, pages ErrorPages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{
			ResponseWriter: w,
			pages:          pages,
		}
		h.ServeHTTP(writer, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	pages   ErrorPages
	noWrite bool
	err     error
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.noWrite {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if statusCode == http.StatusNotFound || statusCode == http.StatusInternalServerError {
		// special processing of response
		if b, ok := w.pages.ErrorPage(statusCode); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Del("X-Content-Type-Options")
			w.Header().Del("Content-Length")
			w.ResponseWriter.WriteHeader(statusCode)
			w.noWrite = true
			_, w.err = w.ResponseWriter.Write(b)
			return
		}
	}
	// normal processing
	w.ResponseWriter.WriteHeader(statusCode)
}
