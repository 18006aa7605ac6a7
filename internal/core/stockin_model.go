package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus is the receiving status of a purchase order.
type POStatus string

const (
	POStatusPending           POStatus = "Pending"
	POStatusPartiallyReceived POStatus = "Partially Received"
	POStatusReceived          POStatus = "Received"
	POStatusCancelled         POStatus = "Cancelled"
)

// ScanStatus is the reconciliation status of one ScanResult row.
type ScanStatus string

const (
	ScanStatusOK             ScanStatus = "OK"
	ScanStatusUnderQuantity  ScanStatus = "Under Quantity"
	ScanStatusOverQuantity   ScanStatus = "Over Quantity"
	ScanStatusUnexpectedItem ScanStatus = "Unexpected Item"
	ScanStatusOKWithExpiry   ScanStatus = "OK with Expiry"
	ScanStatusPendingScan    ScanStatus = "Pending Scan"

	// ScanStatusExpiryCaptureFailed is reserved for a failed expiry label read.
	// Nothing in the engine produces it yet.
	ScanStatusExpiryCaptureFailed ScanStatus = "Expiry Capture Failed"
)

// UnknownProductName is shown for products the catalog cannot resolve.
const UnknownProductName = "Unknown Product"

// Product is the catalog metadata the reconciliation engine needs.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku,omitempty"`
	Category      string          `json:"category,omitempty"`
	HasExpiryDate bool            `json:"has_expiry_date"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrder is an expected-delivery manifest. The core never mutates it.
type PurchaseOrder struct {
	ID           string              `json:"id"`
	PONumber     string              `json:"po_number"`
	OrderDate    string              `json:"order_date"` // YYYY-MM-DD
	SupplierName string              `json:"supplier_name"`
	Status       POStatus            `json:"status"`
	Lines        []PurchaseOrderLine `json:"lines"`
}

// PurchaseOrderLine is one product expected on a purchase order.
type PurchaseOrderLine struct {
	ProductID        int    `json:"product_id"`
	ProductName      string `json:"product_name"`
	ExpectedQuantity int    `json:"expected_quantity"`
}

// Line returns the PO line for productID, if the product was ordered.
func (po *PurchaseOrder) Line(productID int) (PurchaseOrderLine, bool) {
	if po == nil {
		return PurchaseOrderLine{}, false
	}
	for _, l := range po.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return PurchaseOrderLine{}, false
}

// ScanResult is the per-product reconciliation row.
type ScanResult struct {
	ProductID        int        `json:"product_id"`
	ProductName      string     `json:"product_name"`
	SKU              *string    `json:"sku,omitempty"`
	ExpectedQuantity int        `json:"expected_quantity"`
	ScannedQuantity  int        `json:"scanned_quantity"`
	Discrepancy      int        `json:"discrepancy"`
	Status           ScanStatus `json:"status"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	HasExpiryDate    bool       `json:"has_expiry_date"`
}

// Detection is one synthetic observation of a product and a quantity.
type Detection struct {
	Product  Product
	Quantity int
}

// StockInReceipt is the finalized outcome of one reconciliation session.
type StockInReceipt struct {
	ID               string               `json:"id"`
	PurchaseOrderID  string               `json:"purchase_order_id"`
	PONumber         string               `json:"po_number"`
	SupplierName     string               `json:"supplier_name"`
	FinalizedAt      time.Time            `json:"finalized_at"`
	POStatus         POStatus             `json:"po_status"`
	TotalExpected    int                  `json:"total_expected"`
	TotalScanned     int                  `json:"total_scanned"`
	DiscrepancyValue decimal.Decimal      `json:"discrepancy_value"`
	Lines            []StockInReceiptLine `json:"lines"`
}

// StockInReceiptLine is a ScanResult frozen at finalization, valued at unit cost.
type StockInReceiptLine struct {
	ScanResult
	UnitCost         decimal.Decimal `json:"unit_cost"`
	DiscrepancyValue decimal.Decimal `json:"discrepancy_value"`
}
