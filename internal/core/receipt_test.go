package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockin-agent/internal/core"

	"github.com/shopspring/decimal"
)

func TestRollUpStatus(t *testing.T) {
	order := &core.PurchaseOrder{Status: core.POStatusPending, Lines: []core.PurchaseOrderLine{
		{ProductID: 1, ExpectedQuantity: 10},
		{ProductID: 2, ExpectedQuantity: 5},
	}}

	tests := []struct {
		name    string
		results []core.ScanResult
		want    core.POStatus
	}{
		{"nothing scanned", []core.ScanResult{{ProductID: 1}, {ProductID: 2}}, core.POStatusPending},
		{"only unexpected items", []core.ScanResult{{ProductID: 9, ScannedQuantity: 4}}, core.POStatusPending},
		{"one line short", []core.ScanResult{{ProductID: 1, ScannedQuantity: 10}, {ProductID: 2, ScannedQuantity: 1}}, core.POStatusPartiallyReceived},
		{"one line untouched", []core.ScanResult{{ProductID: 1, ScannedQuantity: 12}}, core.POStatusPartiallyReceived},
		{"all complete", []core.ScanResult{{ProductID: 1, ScannedQuantity: 10}, {ProductID: 2, ScannedQuantity: 5}}, core.POStatusReceived},
		{"over counts as complete", []core.ScanResult{{ProductID: 1, ScannedQuantity: 11}, {ProductID: 2, ScannedQuantity: 9}}, core.POStatusReceived},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.RollUpStatus(order, tt.results); got != tt.want {
				t.Errorf("RollUpStatus = %q, want %q", got, tt.want)
			}
		})
	}

	if got := core.RollUpStatus(nil, nil); got != "" {
		t.Errorf("nil order: got %q", got)
	}
}

func TestRollUpReceived(t *testing.T) {
	order := &core.PurchaseOrder{Lines: []core.PurchaseOrderLine{
		{ProductID: 1, ExpectedQuantity: 10},
		{ProductID: 2, ExpectedQuantity: 5},
	}}

	tests := []struct {
		name     string
		current  core.POStatus
		received map[int]int
		want     core.POStatus
	}{
		{"cancelled never moves", core.POStatusCancelled, map[int]int{1: 10, 2: 5}, core.POStatusCancelled},
		{"received never moves back", core.POStatusReceived, map[int]int{1: 1}, core.POStatusReceived},
		{"partial stays partial", core.POStatusPartiallyReceived, map[int]int{1: 10, 2: 4}, core.POStatusPartiallyReceived},
		{"cumulative completes", core.POStatusPartiallyReceived, map[int]int{1: 10, 2: 5}, core.POStatusReceived},
		{"nothing ordered arrived", core.POStatusPending, map[int]int{7: 3}, core.POStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.RollUpReceived(order, tt.current, tt.received); got != tt.want {
				t.Errorf("RollUpReceived = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildReceipt(t *testing.T) {
	catalog := core.NewMapCatalog([]core.Product{
		{ID: 1, Name: "A", UnitCost: decimal.RequireFromString("2.50")},
		{ID: 2, Name: "B", UnitCost: decimal.RequireFromString("1.00")},
	})
	order := &core.PurchaseOrder{ID: "PO1", PONumber: "PO-001", SupplierName: "Supplier", Status: core.POStatusPending,
		Lines: []core.PurchaseOrderLine{{ProductID: 1, ExpectedQuantity: 10}, {ProductID: 2, ExpectedQuantity: 4}}}
	results := []core.ScanResult{
		{ProductID: 1, ExpectedQuantity: 10, ScannedQuantity: 8, Discrepancy: -2, Status: core.ScanStatusUnderQuantity},
		{ProductID: 2, ExpectedQuantity: 4, ScannedQuantity: 5, Discrepancy: 1, Status: core.ScanStatusOverQuantity},
		{ProductID: 99, ExpectedQuantity: 0, ScannedQuantity: 3, Discrepancy: 3, Status: core.ScanStatusUnexpectedItem},
	}
	at := time.Date(2024, 7, 20, 10, 0, 0, 0, time.UTC)

	rec := core.BuildReceipt("r-1", order, results, catalog, at)

	if rec.ID != "r-1" || rec.PurchaseOrderID != "PO1" || rec.PONumber != "PO-001" || !rec.FinalizedAt.Equal(at) {
		t.Errorf("header wrong: %+v", rec)
	}
	if rec.POStatus != core.POStatusPartiallyReceived {
		t.Errorf("po status = %q", rec.POStatus)
	}
	if rec.TotalExpected != 14 || rec.TotalScanned != 16 {
		t.Errorf("totals = %d/%d, want 14/16", rec.TotalExpected, rec.TotalScanned)
	}
	// -2 * 2.50 + 1 * 1.00 + 3 * 0 = -4.00
	if !rec.DiscrepancyValue.Equal(decimal.RequireFromString("-4")) {
		t.Errorf("discrepancy value = %s, want -4", rec.DiscrepancyValue)
	}
	if len(rec.Lines) != 3 || !rec.Lines[2].UnitCost.IsZero() {
		t.Errorf("lines = %+v", rec.Lines)
	}
}

func TestMemoryPurchaseOrderService(t *testing.T) {
	ctx := context.Background()
	svc := core.NewMemoryPurchaseOrderService(core.DemoPurchaseOrders(), core.DemoProducts())

	pos, err := svc.GetPOs(ctx, "")
	if err != nil {
		t.Fatalf("GetPOs: %v", err)
	}
	if len(pos) != 3 || pos[0].ID != "PO2024001" {
		t.Fatalf("unexpected orders: %+v", pos)
	}

	if _, err := svc.GetPO(ctx, "missing"); !errors.Is(err, core.ErrPurchaseOrderNotFound) {
		t.Errorf("expected ErrPurchaseOrderNotFound, got %v", err)
	}

	po, err := svc.GetPO(ctx, "PO2024001")
	if err != nil {
		t.Fatalf("GetPO: %v", err)
	}
	po.Lines[0].ExpectedQuantity = 1
	again, _ := svc.GetPO(ctx, "PO2024001")
	if again.Lines[0].ExpectedQuantity != 100 {
		t.Errorf("stored order mutated through returned copy")
	}

	catalog, err := svc.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	rec := core.BuildReceipt("r-1", again, []core.ScanResult{
		{ProductID: 9, ExpectedQuantity: 100, ScannedQuantity: 100},
		{ProductID: 10, ExpectedQuantity: 50, ScannedQuantity: 50},
	}, catalog, time.Now())
	if err := svc.RecordReceipt(ctx, &rec); err != nil {
		t.Fatalf("RecordReceipt: %v", err)
	}
	if err := svc.RecordReceipt(ctx, &rec); err == nil {
		t.Errorf("expected duplicate receipt to be rejected")
	}

	received, err := svc.GetPOs(ctx, core.POStatusReceived)
	if err != nil {
		t.Fatalf("GetPOs: %v", err)
	}
	if len(received) != 1 || received[0].ID != "PO2024001" {
		t.Errorf("expected PO2024001 received, got %+v", received)
	}

	stored, err := svc.GetReceipt(ctx, "r-1")
	if err != nil {
		t.Fatalf("GetReceipt: %v", err)
	}
	if stored.TotalScanned != 150 {
		t.Errorf("stored receipt total = %d", stored.TotalScanned)
	}
	if _, err := svc.GetReceipt(ctx, "nope"); !errors.Is(err, core.ErrReceiptNotFound) {
		t.Errorf("expected ErrReceiptNotFound, got %v", err)
	}
}

func demoOrdersWith(poID string, status core.POStatus) []core.PurchaseOrder {
	orders := core.DemoPurchaseOrders()
	for i := range orders {
		if orders[i].ID == poID {
			orders[i].Status = status
		}
	}
	return orders
}

func TestMemoryPurchaseOrderService_RecordReceiptStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled order is rejected", func(t *testing.T) {
		svc := core.NewMemoryPurchaseOrderService(demoOrdersWith("PO2024001", core.POStatusCancelled), core.DemoProducts())
		po, _ := svc.GetPO(ctx, "PO2024001")
		catalog, _ := svc.Catalog(ctx)
		rec := core.BuildReceipt("r-1", po, []core.ScanResult{{ProductID: 9, ExpectedQuantity: 100, ScannedQuantity: 4}}, catalog, time.Now())
		if err := svc.RecordReceipt(ctx, &rec); !errors.Is(err, core.ErrPurchaseOrderCancelled) {
			t.Fatalf("expected ErrPurchaseOrderCancelled, got %v", err)
		}
		after, _ := svc.GetPO(ctx, "PO2024001")
		if after.Status != core.POStatusCancelled {
			t.Errorf("status = %q, want Cancelled", after.Status)
		}
		if _, err := svc.GetReceipt(ctx, "r-1"); !errors.Is(err, core.ErrReceiptNotFound) {
			t.Errorf("rejected receipt was stored: %v", err)
		}
	})

	t.Run("received order does not move back", func(t *testing.T) {
		svc := core.NewMemoryPurchaseOrderService(demoOrdersWith("PO2024002", core.POStatusReceived), core.DemoProducts())
		po, _ := svc.GetPO(ctx, "PO2024002")
		catalog, _ := svc.Catalog(ctx)
		rec := core.BuildReceipt("r-1", po, []core.ScanResult{{ProductID: 1, ExpectedQuantity: 200, ScannedQuantity: 3}}, catalog, time.Now())
		if err := svc.RecordReceipt(ctx, &rec); err != nil {
			t.Fatalf("RecordReceipt: %v", err)
		}
		after, _ := svc.GetPO(ctx, "PO2024002")
		if after.Status != core.POStatusReceived || rec.POStatus != core.POStatusReceived {
			t.Errorf("status = %q / receipt %q, want Received", after.Status, rec.POStatus)
		}
	})

	t.Run("split delivery accumulates", func(t *testing.T) {
		svc := core.NewMemoryPurchaseOrderService(core.DemoPurchaseOrders(), core.DemoProducts())
		catalog, _ := svc.Catalog(ctx)

		po, _ := svc.GetPO(ctx, "PO2024001")
		first := core.BuildReceipt("r-1", po, []core.ScanResult{
			{ProductID: 9, ExpectedQuantity: 100, ScannedQuantity: 70},
			{ProductID: 10, ExpectedQuantity: 50, ScannedQuantity: 50},
		}, catalog, time.Now())
		if err := svc.RecordReceipt(ctx, &first); err != nil {
			t.Fatalf("first RecordReceipt: %v", err)
		}
		if first.POStatus != core.POStatusPartiallyReceived {
			t.Fatalf("first receipt status = %q", first.POStatus)
		}

		po, _ = svc.GetPO(ctx, "PO2024001")
		second := core.BuildReceipt("r-2", po, []core.ScanResult{
			{ProductID: 9, ExpectedQuantity: 100, ScannedQuantity: 30},
			{ProductID: 10, ExpectedQuantity: 50, ScannedQuantity: 0},
		}, catalog, time.Now())
		if err := svc.RecordReceipt(ctx, &second); err != nil {
			t.Fatalf("second RecordReceipt: %v", err)
		}
		if second.POStatus != core.POStatusReceived {
			t.Errorf("second receipt status = %q, want Received", second.POStatus)
		}
		after, _ := svc.GetPO(ctx, "PO2024001")
		if after.Status != core.POStatusReceived {
			t.Errorf("po status = %q, want Received", after.Status)
		}
	})
}
