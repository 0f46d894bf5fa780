package tablegate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tablegate/tablegate"
)

func TestRequestLogger(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = tablegate.GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	h := tablegate.RequestLogger(inner)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code, "status must pass through the recorder")
	assert.NotEmpty(t, seen, "handlers see the request id in context")
	assert.Equal(t, seen, rr.Header().Get("X-Request-Id"))
}
