package telemetry

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExported(t *testing.T) {
	exporter, err := NewExporter()
	require.NoError(t, err)

	m, err := NewMetrics(exporter.MeterProvider().Meter("bollywood-test"))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/bollywood/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bollywood/a", nil))
	}

	w := httptest.NewRecorder()
	exporter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := ioutil.ReadAll(w.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "http_server_requests")
	assert.Contains(t, string(body), "http_server_duration_ms")
	assert.Contains(t, string(body), `route="/bollywood/{slug}"`)
}
