package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safesafar/backend/internal/middleware"
)

const bodyLimit = 100

// newLimitedHandler wraps a body-reading handler with the size limit, the
// way a JSON-decoding trip handler sits behind it in the real router. The
// inner handler answers 413 when its read fails, which is what
// http.MaxBytesReader forces once the limit is crossed.
func newLimitedHandler() http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return middleware.NewMaxBodySizeHandler(bodyLimit)(inner)
}

func postTrips(t *testing.T, h http.Handler, bodySize int, contentLength int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(strings.Repeat("x", bodySize)))
	req.ContentLength = contentLength
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMaxBodySizeHandler_WithinLimit(t *testing.T) {
	rec := postTrips(t, newLimitedHandler(), bodyLimit/2, int64(bodyLimit/2))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMaxBodySizeHandler_DeclaredOversizeRejectedEarly(t *testing.T) {
	// A Content-Length over the limit is refused before the handler runs.
	rec := postTrips(t, newLimitedHandler(), 2*bodyLimit, 2*bodyLimit)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMaxBodySizeHandler_StreamingOversizeFailsMidRead(t *testing.T) {
	// With no Content-Length the early check cannot fire; the wrapped
	// reader trips the limit inside the handler's read instead.
	rec := postTrips(t, newLimitedHandler(), 2*bodyLimit, -1)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMaxBodySizeHandler_ExactLimitAllowed(t *testing.T) {
	rec := postTrips(t, newLimitedHandler(), bodyLimit, bodyLimit)
	assert.Equal(t, http.StatusOK, rec.Code)
}
