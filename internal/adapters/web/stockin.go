package web

import (
	"net/http"

	"stockin-agent/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiListPurchaseOrders handles GET /api/purchase-orders[?status=].
func (h *Handler) apiListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPurchaseOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiGetPurchaseOrder handles GET /api/purchase-orders/{id}.
func (h *Handler) apiGetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetPurchaseOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.PurchaseOrder)
}

// apiListProducts handles GET /api/products.
func (h *Handler) apiListProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreateStation handles POST /api/stations.
func (h *Handler) apiCreateStation(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CreateStation(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/stations/"+result.StationID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}

// apiGetStation handles GET /api/stations/{sid}.
func (h *Handler) apiGetStation(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetStation(r.Context(), stationID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCloseStation handles DELETE /api/stations/{sid}.
func (h *Handler) apiCloseStation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CloseStation(r.Context(), stationID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiSelectPurchaseOrder handles POST /api/stations/{sid}/select.
// Body: { purchase_order_id }
func (h *Handler) apiSelectPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PurchaseOrderID string `json:"purchase_order_id"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.PurchaseOrderID == "" {
		writeError(w, r, "purchase_order_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.SelectPurchaseOrder(r.Context(), app.SelectPurchaseOrderRequest{
		StationID:       stationID(r),
		PurchaseOrderID: body.PurchaseOrderID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiDeselectPurchaseOrder handles POST /api/stations/{sid}/deselect.
func (h *Handler) apiDeselectPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.DeselectPurchaseOrder(r.Context(), stationID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiStartScan handles POST /api/stations/{sid}/start.
func (h *Handler) apiStartScan(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.StartScan(r.Context(), stationID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiStopScan handles POST /api/stations/{sid}/stop.
func (h *Handler) apiStopScan(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.StopScan(r.Context(), stationID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiRecordScan handles POST /api/stations/{sid}/scans.
// Body: { product_id, quantity }
func (h *Handler) apiRecordScan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.RecordManualScan(r.Context(), app.ManualScanRequest{
		StationID: stationID(r),
		ProductID: body.ProductID,
		Quantity:  body.Quantity,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiResults handles GET /api/stations/{sid}/results.
func (h *Handler) apiResults(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetResults(r.Context(), stationID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiEvents handles GET /api/stations/{sid}/events.
func (h *Handler) apiEvents(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RecentEvents(r.Context(), stationID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiFinalize handles POST /api/stations/{sid}/finalize.
func (h *Handler) apiFinalize(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.FinalizeShipment(r.Context(), stationID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiGetReceipt handles GET /api/receipts/{id}.
func (h *Handler) apiGetReceipt(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
