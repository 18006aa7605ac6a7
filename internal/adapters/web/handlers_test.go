package web_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stockin-agent/internal/adapters/web"
	"stockin-agent/internal/app"
	"stockin-agent/internal/core"
	"stockin-agent/internal/metrics"
	"stockin-agent/internal/notify"

	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithOrders(t, core.DemoPurchaseOrders())
}

func newTestServerWithOrders(t *testing.T, orders []core.PurchaseOrder) *httptest.Server {
	t.Helper()
	reg := metrics.NewRegistry()
	store := core.NewMemoryPurchaseOrderService(orders, core.DemoProducts())
	svc := app.NewAppService(store, notify.NewBus(zap.NewNop(), 0), app.Options{
		Metrics: reg,
		Logger:  zap.NewNop(),
	})
	t.Cleanup(svc.Shutdown)

	srv := httptest.NewServer(web.NewHandler(svc, "http://pos.local", reg.Handler(), zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) *http.Response {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp
}

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	var body struct {
		Status string `json:"status"`
	}
	resp := do(t, srv, http.MethodGet, "/api/health", nil, &body)
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		t.Errorf("health = %d %+v", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Errorf("missing X-Request-ID header")
	}
}

func TestPurchaseOrderEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var list app.PurchaseOrderListResult
	if resp := do(t, srv, http.MethodGet, "/api/purchase-orders", nil, &list); resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}
	if len(list.PurchaseOrders) != 3 {
		t.Errorf("got %d orders", len(list.PurchaseOrders))
	}

	var bad errorBody
	if resp := do(t, srv, http.MethodGet, "/api/purchase-orders?status=Lost", nil, &bad); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad status filter: %d", resp.StatusCode)
	}

	var po core.PurchaseOrder
	if resp := do(t, srv, http.MethodGet, "/api/purchase-orders/PO2024003", nil, &po); resp.StatusCode != http.StatusOK {
		t.Fatalf("get status %d", resp.StatusCode)
	}
	if po.PONumber != "PO-MIX-112" || len(po.Lines) != 3 {
		t.Errorf("unexpected po %+v", po)
	}

	var nf errorBody
	resp := do(t, srv, http.MethodGet, "/api/purchase-orders/PO-404", nil, &nf)
	if resp.StatusCode != http.StatusNotFound || nf.Code != "NOT_FOUND" || nf.RequestID == "" {
		t.Errorf("not found = %d %+v", resp.StatusCode, nf)
	}

	var products app.ProductListResult
	do(t, srv, http.MethodGet, "/api/products", nil, &products)
	if len(products.Products) != len(core.DemoProducts()) {
		t.Errorf("got %d products", len(products.Products))
	}
}

func TestStationWorkflow(t *testing.T) {
	srv := newTestServer(t)

	var st app.StationResult
	resp := do(t, srv, http.MethodPost, "/api/stations", nil, &st)
	if resp.StatusCode != http.StatusCreated || st.StationID == "" {
		t.Fatalf("create station = %d %+v", resp.StatusCode, st)
	}
	base := "/api/stations/" + st.StationID

	var warn errorBody
	if resp := do(t, srv, http.MethodPost, base+"/start", nil, &warn); resp.StatusCode != http.StatusConflict || warn.Code != "NO_PO_SELECTED" {
		t.Errorf("start without po = %d %+v", resp.StatusCode, warn)
	}

	if resp := do(t, srv, http.MethodPost, base+"/select", map[string]string{"purchase_order_id": "PO2024001"}, &st); resp.StatusCode != http.StatusOK {
		t.Fatalf("select status %d", resp.StatusCode)
	}
	if len(st.Results) != 2 || st.Results[0].Status != core.ScanStatusPendingScan {
		t.Errorf("seeded rows = %+v", st.Results)
	}

	if resp := do(t, srv, http.MethodPost, base+"/scans", map[string]int{"product_id": 9, "quantity": 100}, &st); resp.StatusCode != http.StatusOK {
		t.Fatalf("scan status %d", resp.StatusCode)
	}
	if resp := do(t, srv, http.MethodPost, base+"/scans", map[string]int{"product_id": 9, "quantity": -1}, nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative qty status %d", resp.StatusCode)
	}

	var results app.ScanResultsResult
	do(t, srv, http.MethodGet, base+"/results", nil, &results)
	if len(results.Outstanding) != 1 || results.Outstanding[0].ProductID != 10 {
		t.Errorf("outstanding = %+v", results.Outstanding)
	}

	var fin app.ReceiptResult
	if resp := do(t, srv, http.MethodPost, base+"/finalize", nil, &fin); resp.StatusCode != http.StatusOK {
		t.Fatalf("finalize status %d", resp.StatusCode)
	}
	if fin.Receipt == nil || fin.Receipt.POStatus != core.POStatusPartiallyReceived {
		t.Fatalf("receipt = %+v", fin.Receipt)
	}

	var stored app.ReceiptResult
	if resp := do(t, srv, http.MethodGet, "/api/receipts/"+fin.Receipt.ID, nil, &stored); resp.StatusCode != http.StatusOK {
		t.Errorf("get receipt status %d", resp.StatusCode)
	}

	var events app.EventListResult
	do(t, srv, http.MethodGet, base+"/events", nil, &events)
	if n := len(events.Events); n == 0 || events.Events[n-1].Kind != core.EventShipmentFinalized {
		t.Errorf("events = %+v", events.Events)
	}

	if resp := do(t, srv, http.MethodPost, base+"/finalize", nil, nil); resp.StatusCode != http.StatusConflict {
		t.Errorf("second finalize status %d", resp.StatusCode)
	}

	if resp := do(t, srv, http.MethodDelete, base, nil, nil); resp.StatusCode != http.StatusNoContent {
		t.Errorf("close status %d", resp.StatusCode)
	}
	if resp := do(t, srv, http.MethodGet, base, nil, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("closed station status %d", resp.StatusCode)
	}
}

func TestSelectRequiresPurchaseOrderID(t *testing.T) {
	srv := newTestServer(t)
	var st app.StationResult
	do(t, srv, http.MethodPost, "/api/stations", nil, &st)

	var e errorBody
	resp := do(t, srv, http.MethodPost, "/api/stations/"+st.StationID+"/select", map[string]string{}, &e)
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(e.Error, "purchase_order_id") {
		t.Errorf("select without id = %d %+v", resp.StatusCode, e)
	}
}

func TestSelectCancelledPurchaseOrder(t *testing.T) {
	orders := core.DemoPurchaseOrders()
	orders[0].Status = core.POStatusCancelled
	srv := newTestServerWithOrders(t, orders)
	var st app.StationResult
	do(t, srv, http.MethodPost, "/api/stations", nil, &st)

	var e errorBody
	resp := do(t, srv, http.MethodPost, "/api/stations/"+st.StationID+"/select",
		map[string]string{"purchase_order_id": orders[0].ID}, &e)
	if resp.StatusCode != http.StatusConflict || e.Code != "PO_CANCELLED" {
		t.Errorf("select cancelled PO = %d %+v", resp.StatusCode, e)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status %d", resp.StatusCode)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/products", nil)
	req.Header.Set("Origin", "http://pos.local")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "http://pos.local" {
		t.Errorf("preflight = %d %q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"))
	}
}
