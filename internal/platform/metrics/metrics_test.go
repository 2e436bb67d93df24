package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/applications/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/applications/42", nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	labels := map[string]string{}
	var count float64
	for _, mf := range families {
		if mf.GetName() != "evaluation_http_requests_total" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		count = mf.GetMetric()[0].GetCounter().GetValue()
	}
	assert.Equal(t, 1.0, count)
	assert.Equal(t, "/applications/{id}", labels["route"])
	assert.Equal(t, "404", labels["status"])
}
