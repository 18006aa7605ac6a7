package core

import "context"

// PurchaseOrderService provides the purchase orders and product catalog a
// receiving station works against, and stores finalized receipts.
type PurchaseOrderService interface {
	// GetPO returns a purchase order by ID, including all lines.
	// Returns ErrPurchaseOrderNotFound if no such order exists.
	GetPO(ctx context.Context, poID string) (*PurchaseOrder, error)

	// GetPOs returns purchase orders, optionally filtered by status.
	// An empty status returns all orders.
	GetPOs(ctx context.Context, status POStatus) ([]PurchaseOrder, error)

	// Catalog returns a read-only snapshot of the product catalog.
	Catalog(ctx context.Context) (ProductCatalog, error)

	// RecordReceipt stores a finalized receipt and rolls the purchase order
	// status forward over the units received across all of its receipts,
	// writing the result to receipt.POStatus. Returns ErrPurchaseOrderCancelled
	// for a cancelled order.
	RecordReceipt(ctx context.Context, receipt *StockInReceipt) error

	// GetReceipt returns a stored receipt by ID.
	// Returns ErrReceiptNotFound if no such receipt exists.
	GetReceipt(ctx context.Context, receiptID string) (*StockInReceipt, error)
}
