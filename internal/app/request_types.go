package app

// SelectPurchaseOrderRequest is the input for selecting a PO on a station.
type SelectPurchaseOrderRequest struct {
	StationID       string
	PurchaseOrderID string
}

// ManualScanRequest is the input for an operator-entered scan.
type ManualScanRequest struct {
	StationID string
	ProductID int
	Quantity  int
}
