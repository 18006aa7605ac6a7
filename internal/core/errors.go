package core

import "errors"

var (
	// ErrInvalidSelection is returned when scanning starts without a purchase order.
	// It is a recoverable warning, not a failure.
	ErrInvalidSelection = errors.New("no purchase order selected")

	// ErrInvalidQuantity is returned when a scan carries a non-positive quantity.
	ErrInvalidQuantity = errors.New("scan quantity must be positive")

	// ErrPurchaseOrderNotFound is returned by PurchaseOrderService lookups.
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")

	// ErrPurchaseOrderCancelled is returned when a cancelled purchase order is
	// selected for receiving or a shipment is finalized against one.
	ErrPurchaseOrderCancelled = errors.New("purchase order is cancelled")

	// ErrReceiptNotFound is returned by PurchaseOrderService.GetReceipt.
	ErrReceiptNotFound = errors.New("stock-in receipt not found")
)
