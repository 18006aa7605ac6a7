package app

import (
	"context"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ListPurchaseOrders returns purchase orders, optionally filtered by status.
	ListPurchaseOrders(ctx context.Context, status string) (*PurchaseOrderListResult, error)

	// GetPurchaseOrder returns a single purchase order with its lines.
	GetPurchaseOrder(ctx context.Context, poID string) (*PurchaseOrderResult, error)

	// ListProducts returns the product catalog.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// CreateStation opens a new receiving station with no purchase order selected.
	CreateStation(ctx context.Context) (*StationResult, error)

	// GetStation returns the station's selection, scan state and current rows.
	GetStation(ctx context.Context, stationID string) (*StationResult, error)

	// CloseStation stops any scan on the station and discards it.
	CloseStation(ctx context.Context, stationID string) error

	// SelectPurchaseOrder seeds the station's reconciliation with one Pending Scan
	// row per PO line. Fails with ErrScanInProgress while the station is scanning.
	SelectPurchaseOrder(ctx context.Context, req SelectPurchaseOrderRequest) (*StationResult, error)

	// DeselectPurchaseOrder stops scanning and discards the station's rows.
	DeselectPurchaseOrder(ctx context.Context, stationID string) (*StationResult, error)

	// StartScan starts the batch-scan simulator. Without a selected purchase order
	// it emits a warning event and returns core.ErrInvalidSelection; rows are untouched.
	// Starting an already scanning station is a no-op.
	StartScan(ctx context.Context, stationID string) (*StationResult, error)

	// StopScan returns the station to Idle. In-flight detections are dropped.
	StopScan(ctx context.Context, stationID string) (*StationResult, error)

	// RecordManualScan folds an operator-entered product and quantity into the rows.
	RecordManualScan(ctx context.Context, req ManualScanRequest) (*StationResult, error)

	// GetResults returns the station's rows and the subset still short of expectation.
	GetResults(ctx context.Context, stationID string) (*ScanResultsResult, error)

	// RecentEvents returns the station's most recent advisory events, oldest first.
	RecentEvents(ctx context.Context, stationID string) (*EventListResult, error)

	// FinalizeShipment stops scanning, persists a StockInReceipt, rolls the PO status
	// forward and clears the station. Fails with ErrNothingToFinalize when no
	// purchase order is selected.
	FinalizeShipment(ctx context.Context, stationID string) (*ReceiptResult, error)

	// GetReceipt returns a previously finalized receipt.
	GetReceipt(ctx context.Context, receiptID string) (*ReceiptResult, error)

	// Shutdown stops every active scan.
	Shutdown()
}
