package app

import (
	"stockin-agent/internal/ai"
	"stockin-agent/internal/core"
)

// PurchaseOrderListResult is returned by ListPurchaseOrders.
type PurchaseOrderListResult struct {
	PurchaseOrders []core.PurchaseOrder `json:"purchase_orders"`
}

// PurchaseOrderResult is returned by GetPurchaseOrder.
type PurchaseOrderResult struct {
	PurchaseOrder *core.PurchaseOrder `json:"purchase_order"`
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// StationResult is a snapshot of a receiving station.
type StationResult struct {
	StationID     string              `json:"station_id"`
	State         core.SimulatorState `json:"state"`
	PurchaseOrder *core.PurchaseOrder `json:"purchase_order,omitempty"`
	Results       []core.ScanResult   `json:"results"`
	Outstanding   int                 `json:"outstanding"`
}

// ScanResultsResult is returned by GetResults.
type ScanResultsResult struct {
	StationID   string            `json:"station_id"`
	Results     []core.ScanResult `json:"results"`
	Outstanding []core.ScanResult `json:"outstanding"`
}

// EventListResult is returned by RecentEvents.
type EventListResult struct {
	StationID string       `json:"station_id"`
	Events    []core.Event `json:"events"`
}

// ReceiptResult is returned by FinalizeShipment and GetReceipt.
// Summary is nil when no summarizer is configured or it failed.
type ReceiptResult struct {
	Receipt      *core.StockInReceipt `json:"receipt"`
	Summary      *ai.ReceiptSummary   `json:"summary,omitempty"`
	SummaryError string               `json:"summary_error,omitempty"`
}
