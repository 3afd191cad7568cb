package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/status":
			_, _ = w.Write([]byte(`{"start_time":"2026-01-02T03:04:05Z","elapsed_seconds":10,"iterations":500,"execs_avg":50,"counters":{"crashes":2}}`))
		case "/broken":
			_, _ = w.Write([]byte(`{`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	status, err := check(srv.Client(), srv.URL+"/status")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), status.Iterations)
	assert.Equal(t, uint64(2), status.Counters["crashes"])

	_, err = check(srv.Client(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "unexpected status 404")

	_, err = check(srv.Client(), srv.URL+"/broken")
	assert.Error(t, err)
}
