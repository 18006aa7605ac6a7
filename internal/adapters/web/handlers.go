package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"stockin-agent/internal/app"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
	logger *zap.Logger
}

// NewHandler creates and wires the chi router with all routes. metricsHandler
// is mounted at /metrics when non-nil.
func NewHandler(svc app.ApplicationService, allowedOrigins string, metricsHandler http.Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.L()
	}
	h := &Handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Purchase orders & catalog ─────────────────────────────────────────
		r.Get("/api/purchase-orders", h.apiListPurchaseOrders)
		r.Get("/api/purchase-orders/{id}", h.apiGetPurchaseOrder)
		r.Get("/api/products", h.apiListProducts)

		// ── Receiving stations ────────────────────────────────────────────────
		r.Post("/api/stations", h.apiCreateStation)
		r.Route("/api/stations/{sid}", func(r chi.Router) {
			r.Get("/", h.apiGetStation)
			r.Delete("/", h.apiCloseStation)
			r.Post("/select", h.apiSelectPurchaseOrder)
			r.Post("/deselect", h.apiDeselectPurchaseOrder)
			r.Post("/start", h.apiStartScan)
			r.Post("/stop", h.apiStopScan)
			r.Post("/scans", h.apiRecordScan)
			r.Get("/results", h.apiResults)
			r.Get("/events", h.apiEvents)
			r.Post("/finalize", h.apiFinalize)
		})

		// ── Receipts ──────────────────────────────────────────────────────────
		r.Get("/api/receipts/{id}", h.apiGetReceipt)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// stationID extracts the {sid} URL parameter.
func stationID(r *http.Request) string {
	return chi.URLParam(r, "sid")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
