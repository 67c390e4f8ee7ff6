package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObservePrediction(t *testing.T) {
	m := NewMetrics()
	m.ObservePrediction(true, time.Millisecond)
	m.ObservePrediction(false, time.Millisecond)
	m.ObservePrediction(false, time.Millisecond)

	if got := testutil.ToFloat64(m.predictions.WithLabelValues("true")); got != 1 {
		t.Fatalf("expected 1 found prediction, got %v", got)
	}
	if got := testutil.ToFloat64(m.predictions.WithLabelValues("false")); got != 2 {
		t.Fatalf("expected 2 unmatched predictions, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.SetArtifactsLoaded(true)
	m.ObserveRequest(http.MethodPost, "/predict_home_price", http.StatusOK, 3*time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"estate_artifacts_loaded 1",
		`estate_http_requests_total{method="POST",path="/predict_home_price",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
