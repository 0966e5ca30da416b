package middleware

import (
	"bytes"
	"maps"
	"net/http"
	"strconv"

	"github.com/armonaut/armonaut/core/handler"
)

// bufferedWriter captures a response so middleware can rewrite it before
// anything reaches the client.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter(w http.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{header: w.Header().Clone()}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

// Written reports whether the wrapped response produced a status.
func (b *bufferedWriter) Written() bool { return b.status != 0 }

// copyHeader replaces the header of w with the buffered one.
func (b *bufferedWriter) copyHeader(w http.ResponseWriter) {
	dst := w.Header()
	clear(dst)
	maps.Copy(dst, b.header)
}

// flush sends the buffered response to w.
func (b *bufferedWriter) flush(w http.ResponseWriter, r *http.Request) error {
	b.copyHeader(w)
	if b.status == 0 {
		b.status = http.StatusOK
	}
	if b.body.Len() > 0 && bodyAllowed(b.status) {
		w.Header().Set("Content-Length", strconv.Itoa(b.body.Len()))
	}
	w.WriteHeader(b.status)
	if r.Method == http.MethodHead || !bodyAllowed(b.status) {
		return nil
	}
	_, err := w.Write(b.body.Bytes())
	return err
}

// buffered runs resp against a buffer and hands the result to rewrite.
// If resp fails before writing anything, its headers are kept and the error
// is returned for the router's error handler.
func buffered(resp handler.Response, rewrite func(b *bufferedWriter, r *http.Request)) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		b := newBufferedWriter(w)
		err := resp(b, r)
		if err != nil && !b.Written() {
			b.copyHeader(w)
			return err
		}
		rewrite(b, r)
		if ferr := b.flush(w, r); ferr != nil {
			return ferr
		}
		return err
	}
}

func bodyAllowed(status int) bool {
	return status >= 200 && status != http.StatusNoContent && status != http.StatusNotModified
}
