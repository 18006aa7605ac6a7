package core

import (
	"fmt"
	"sync"
	"time"
)

// DeriveStatus maps expected/scanned quantities to a row status.
// It is total over non-negative inputs and never returns Pending Scan.
func DeriveStatus(expected, scanned int, hasExpiry bool) ScanStatus {
	switch {
	case expected == 0:
		return ScanStatusUnexpectedItem
	case scanned < expected:
		return ScanStatusUnderQuantity
	case scanned == expected:
		if hasExpiry {
			return ScanStatusOKWithExpiry
		}
		return ScanStatusOK
	default:
		return ScanStatusOverQuantity
	}
}

// ReconciliationEngine keeps one ScanResult per product for the active purchase
// order and folds scan observations into it. All methods are safe for
// concurrent use; detections may arrive in any order.
type ReconciliationEngine struct {
	mu      sync.Mutex
	order   *PurchaseOrder
	catalog ProductCatalog
	results []ScanResult
	index   map[int]int // product id -> position in results

	expiry   ExpiryGenerator
	notifier Notifier
	now      func() time.Time
}

// EngineOption configures a ReconciliationEngine.
type EngineOption func(*ReconciliationEngine)

// WithExpiryGenerator replaces the random expiry simulation.
func WithExpiryGenerator(g ExpiryGenerator) EngineOption {
	return func(e *ReconciliationEngine) { e.expiry = g }
}

// WithNotifier routes advisory events to n.
func WithNotifier(n Notifier) EngineOption {
	return func(e *ReconciliationEngine) { e.notifier = n }
}

// WithClock sets the clock used to timestamp events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *ReconciliationEngine) { e.now = now }
}

// NewReconciliationEngine returns an engine with no order selected.
func NewReconciliationEngine(opts ...EngineOption) *ReconciliationEngine {
	e := &ReconciliationEngine{
		index:    make(map[int]int),
		notifier: discardNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.expiry == nil {
		e.expiry = NewRandomExpiry(nil, e.now)
	}
	return e
}

// InitializeForOrder discards current state and seeds one Pending Scan row per
// PO line. A nil order leaves the engine empty.
func (e *ReconciliationEngine) InitializeForOrder(order *PurchaseOrder, catalog ProductCatalog) []ScanResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.order = order
	e.catalog = catalog
	e.results = nil
	e.index = make(map[int]int)

	if order == nil {
		return []ScanResult{}
	}

	for _, line := range order.Lines {
		if _, dup := e.index[line.ProductID]; dup {
			continue
		}
		name := line.ProductName
		var sku *string
		hasExpiry := false
		if catalog != nil {
			if p, ok := catalog.Product(line.ProductID); ok {
				name = p.Name
				sku = p.SKU
				hasExpiry = p.HasExpiryDate
			}
		}
		if name == "" {
			name = UnknownProductName
		}
		e.index[line.ProductID] = len(e.results)
		e.results = append(e.results, ScanResult{
			ProductID:        line.ProductID,
			ProductName:      name,
			SKU:              sku,
			ExpectedQuantity: line.ExpectedQuantity,
			ScannedQuantity:  0,
			Discrepancy:      -line.ExpectedQuantity,
			Status:           ScanStatusPendingScan,
			HasExpiryDate:    hasExpiry,
		})
	}
	return cloneResults(e.results)
}

// RecordScan folds quantity units of product into the result set and returns
// the updated rows. Expiry dates are assigned once per product.
func (e *ReconciliationEngine) RecordScan(product Product, quantity int) ([]ScanResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("record scan of product %d (qty %d): %w", product.ID, quantity, ErrInvalidQuantity)
	}

	var events []Event

	e.mu.Lock()
	if product.Name == "" {
		product.Name = e.resolveName(product.ID)
	}

	pos, found := e.index[product.ID]
	if !found {
		expected := 0
		if line, ok := e.order.Line(product.ID); ok {
			expected = line.ExpectedQuantity
		}
		pos = len(e.results)
		e.index[product.ID] = pos
		e.results = append(e.results, ScanResult{
			ProductID:        product.ID,
			ProductName:      product.Name,
			SKU:              product.SKU,
			ExpectedQuantity: expected,
		})
	}

	row := &e.results[pos]
	row.ScannedQuantity += quantity
	row.Discrepancy = row.ScannedQuantity - row.ExpectedQuantity
	row.HasExpiryDate = product.HasExpiryDate
	if row.HasExpiryDate && row.ExpiryDate == nil {
		exp := e.expiry.GenerateExpiryDate()
		row.ExpiryDate = &exp
		announced := exp
		events = append(events, e.event(EventExpirySimulated, product, 0, &announced,
			fmt.Sprintf("Expiry simulated: %s → %s", product.Name, exp.Format("2006-01-02"))))
	}
	row.Status = DeriveStatus(row.ExpectedQuantity, row.ScannedQuantity, row.HasExpiryDate)

	events = append(events, e.event(EventItemScanned, product, quantity, nil,
		fmt.Sprintf("Item scanned: %s × %d", product.Name, quantity)))
	out := cloneResults(e.results)
	e.mu.Unlock()

	for _, ev := range events {
		e.notifier.Notify(ev)
	}
	return out, nil
}

// Results returns a copy of the current rows in insertion order.
func (e *ReconciliationEngine) Results() []ScanResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneResults(e.results)
}

// Outstanding returns PO rows that are still short of their expected quantity.
func (e *ReconciliationEngine) Outstanding() []ScanResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return outstanding(e.results)
}

// Order returns the active purchase order, or nil.
func (e *ReconciliationEngine) Order() *PurchaseOrder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.order
}

// Catalog returns the catalog supplied to InitializeForOrder.
func (e *ReconciliationEngine) Catalog() ProductCatalog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog
}

// Reset clears the active order and all rows.
func (e *ReconciliationEngine) Reset() {
	e.InitializeForOrder(nil, nil)
}

func (e *ReconciliationEngine) resolveName(productID int) string {
	if e.catalog != nil {
		if p, ok := e.catalog.Product(productID); ok {
			return p.Name
		}
	}
	if line, ok := e.order.Line(productID); ok && line.ProductName != "" {
		return line.ProductName
	}
	return UnknownProductName
}

func (e *ReconciliationEngine) event(kind EventKind, p Product, qty int, expiry *time.Time, msg string) Event {
	ev := Event{
		Kind:        kind,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		ExpiryDate:  expiry,
		Message:     msg,
		At:          e.now(),
	}
	if e.order != nil {
		ev.PONumber = e.order.PONumber
	}
	return ev
}

func outstanding(results []ScanResult) []ScanResult {
	var out []ScanResult
	for _, r := range results {
		if r.ExpectedQuantity > 0 && r.ScannedQuantity < r.ExpectedQuantity {
			out = append(out, cloneResult(r))
		}
	}
	return out
}

func cloneResults(in []ScanResult) []ScanResult {
	out := make([]ScanResult, len(in))
	for i, r := range in {
		out[i] = cloneResult(r)
	}
	return out
}

func cloneResult(r ScanResult) ScanResult {
	if r.ExpiryDate != nil {
		t := *r.ExpiryDate
		r.ExpiryDate = &t
	}
	return r
}
