package preview

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/webcell/pkg/metrics"
)

func TestInstrumentCountsRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))

	r := chi.NewRouter()
	r.Use(Instrument(
		WithRequestMetrics(m),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/skip" }),
	))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/skip", func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/items/1", "/items/2", "/skip", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	tests := []struct {
		route string
		code  string
		want  float64
	}{
		{"/items/{id}", "418", 2},
		{"/missing", "404", 1},
		{"/skip", "200", 0},
	}
	for _, tt := range tests {
		got := counter(t, reg, tt.route, tt.code)
		if got != tt.want {
			t.Errorf("requests{route=%q,code=%q} = %v, want %v", tt.route, tt.code, got, tt.want)
		}
	}
}

func counter(t *testing.T, reg *prometheus.Registry, route, code string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() != "webcell_http_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == route && labels["code"] == code {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
