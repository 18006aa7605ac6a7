package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// RollUpStatus derives the PO status implied by one reconciliation session
// on top of the order's current status. See RollUpReceived.
func RollUpStatus(order *PurchaseOrder, results []ScanResult) POStatus {
	if order == nil {
		return ""
	}
	return RollUpReceived(order, order.Status, ScannedQuantities(results))
}

// RollUpReceived derives the PO status from the quantities received so far,
// summed over every shipment. Received when every ordered line is complete,
// Partially Received when some ordered units arrived, current otherwise.
// Cancelled and Received are terminal and never move.
func RollUpReceived(order *PurchaseOrder, current POStatus, received map[int]int) POStatus {
	if order == nil {
		return ""
	}
	if current == POStatusCancelled || current == POStatusReceived {
		return current
	}

	ordered, complete, touched := 0, 0, 0
	for _, l := range order.Lines {
		if l.ExpectedQuantity <= 0 {
			continue
		}
		ordered++
		got := received[l.ProductID]
		if got > 0 {
			touched++
		}
		if got >= l.ExpectedQuantity {
			complete++
		}
	}

	switch {
	case ordered > 0 && complete == ordered:
		return POStatusReceived
	case touched > 0:
		return POStatusPartiallyReceived
	default:
		return current
	}
}

// ScannedQuantities sums scanned units per product.
func ScannedQuantities(results []ScanResult) map[int]int {
	out := make(map[int]int, len(results))
	for _, r := range results {
		out[r.ProductID] += r.ScannedQuantity
	}
	return out
}

// BuildReceipt freezes results into a StockInReceipt. Discrepancies are valued
// at the catalog unit cost; unknown products are valued at zero.
func BuildReceipt(id string, order *PurchaseOrder, results []ScanResult, catalog ProductCatalog, finalizedAt time.Time) StockInReceipt {
	rec := StockInReceipt{
		ID:               id,
		FinalizedAt:      finalizedAt,
		DiscrepancyValue: decimal.Zero,
		Lines:            make([]StockInReceiptLine, 0, len(results)),
	}
	if order != nil {
		rec.PurchaseOrderID = order.ID
		rec.PONumber = order.PONumber
		rec.SupplierName = order.SupplierName
		rec.POStatus = RollUpStatus(order, results)
	}

	for _, r := range results {
		cost := decimal.Zero
		if catalog != nil {
			if p, ok := catalog.Product(r.ProductID); ok {
				cost = p.UnitCost
			}
		}
		value := cost.Mul(decimal.NewFromInt(int64(r.Discrepancy)))
		rec.Lines = append(rec.Lines, StockInReceiptLine{
			ScanResult:       cloneResult(r),
			UnitCost:         cost,
			DiscrepancyValue: value,
		})
		rec.TotalExpected += r.ExpectedQuantity
		rec.TotalScanned += r.ScannedQuantity
		rec.DiscrepancyValue = rec.DiscrepancyValue.Add(value)
	}
	return rec
}
