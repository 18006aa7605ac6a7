package core_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"stockin-agent/internal/core"
)

func TestRandomDetectionSource_BatchShape(t *testing.T) {
	catalog := testCatalog()
	src := core.NewRandomDetectionSource(catalog, rand.New(rand.NewPCG(7, 11)))
	order := threeLineOrder()

	for i := 0; i < 500; i++ {
		batch := src.Batch(order, nil)
		if len(batch) < 1 || len(batch) > 3 {
			t.Fatalf("batch size %d outside [1,3]", len(batch))
		}
		for _, d := range batch {
			if d.Quantity < 1 || d.Quantity > 5 {
				t.Fatalf("quantity %d outside [1,5]", d.Quantity)
			}
			if d.Product.Name == "" {
				t.Fatalf("detection without product name: %+v", d)
			}
		}
	}
}

func TestRandomDetectionSource_NilOrder(t *testing.T) {
	src := core.NewRandomDetectionSource(testCatalog(), nil)
	if batch := src.Batch(nil, nil); batch != nil {
		t.Errorf("expected no detections without an order, got %+v", batch)
	}
}

func TestRandomDetectionSource_BiasedTowardOutstandingLines(t *testing.T) {
	catalog := testCatalog()
	src := core.NewRandomDetectionSource(catalog, rand.New(rand.NewPCG(3, 5)))
	order := threeLineOrder()

	// Products 9 and 11 are complete; only 10 is outstanding.
	results := []core.ScanResult{
		{ProductID: 9, ExpectedQuantity: 100, ScannedQuantity: 100},
		{ProductID: 10, ExpectedQuantity: 50, ScannedQuantity: 10},
		{ProductID: 11, ExpectedQuantity: 20, ScannedQuantity: 25},
	}

	counts := make(map[int]int)
	total := 0
	for i := 0; i < 3000; i++ {
		for _, d := range src.Batch(order, results) {
			counts[d.Product.ID]++
			total++
		}
	}

	// Expected share of product 10: 0.85 * (0.7 + 0.3/3) + 0.15/4 ≈ 0.72.
	share := float64(counts[10]) / float64(total)
	if share < 0.62 || share > 0.82 {
		t.Errorf("outstanding product share = %.2f, want ≈0.72 (counts %v)", share, counts)
	}
	// Product 42 is only reachable through the catalog branch.
	if counts[42] == 0 {
		t.Errorf("unexpected catalog items never produced: %v", counts)
	}
}

func TestRandomDetectionSource_UnknownPOProductFallsBack(t *testing.T) {
	src := core.NewRandomDetectionSource(core.NewMapCatalog(nil), rand.New(rand.NewPCG(1, 1)))
	order := &core.PurchaseOrder{Lines: []core.PurchaseOrderLine{{ProductID: 77, ExpectedQuantity: 5}}}

	for i := 0; i < 100; i++ {
		for _, d := range src.Batch(order, nil) {
			if d.Product.ID != 77 || d.Product.Name != core.UnknownProductName {
				t.Fatalf("unexpected detection %+v", d)
			}
		}
	}
}

func TestRandomExpiry_Range(t *testing.T) {
	now := time.Date(2024, 7, 15, 13, 45, 0, 0, time.UTC)
	gen := core.NewRandomExpiry(rand.New(rand.NewPCG(9, 9)), func() time.Time { return now })
	today := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	minSeen, maxSeen := 1000, 0
	for i := 0; i < 5000; i++ {
		d := gen.GenerateExpiryDate()
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Fatalf("expiry %s not truncated to a date", d)
		}
		days := int(d.Sub(today).Hours() / 24)
		if days < 30 || days > 394 {
			t.Fatalf("offset %d days outside [30,394]", days)
		}
		minSeen = min(minSeen, days)
		maxSeen = max(maxSeen, days)
	}
	if minSeen > 35 || maxSeen < 389 {
		t.Errorf("offsets not spread across range: min %d max %d", minSeen, maxSeen)
	}
}
