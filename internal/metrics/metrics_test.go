package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"stockin-agent/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_Handler(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.ScansRecorded.Add(3)
	reg.UnitsScanned.Add(7)
	reg.ActiveScans.Inc()
	reg.ReceiptsFinalized.WithLabelValues("Received").Inc()

	if got := testutil.ToFloat64(reg.UnitsScanned); got != 7 {
		t.Errorf("units scanned = %v, want 7", got)
	}

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		"stockin_scans_recorded_total 3",
		"stockin_active_scans 1",
		`stockin_receipts_finalized_total{po_status="Received"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
