package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryPurchaseOrderService struct {
	catalog *MapCatalog

	mu       sync.RWMutex
	orders   map[string]PurchaseOrder
	receipts map[string]StockInReceipt
}

// NewMemoryPurchaseOrderService constructs a PurchaseOrderService held entirely
// in memory. Orders are copied on the way in and out.
func NewMemoryPurchaseOrderService(orders []PurchaseOrder, products []Product) PurchaseOrderService {
	s := &memoryPurchaseOrderService{
		catalog:  NewMapCatalog(products),
		orders:   make(map[string]PurchaseOrder, len(orders)),
		receipts: make(map[string]StockInReceipt),
	}
	for _, po := range orders {
		s.orders[po.ID] = copyOrder(po)
	}
	return s
}

func (s *memoryPurchaseOrderService) GetPO(_ context.Context, poID string) (*PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	po, ok := s.orders[poID]
	if !ok {
		return nil, fmt.Errorf("purchase order %s: %w", poID, ErrPurchaseOrderNotFound)
	}
	out := copyOrder(po)
	return &out, nil
}

func (s *memoryPurchaseOrderService) GetPOs(_ context.Context, status POStatus) ([]PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []PurchaseOrder
	for _, po := range s.orders {
		if status != "" && po.Status != status {
			continue
		}
		out = append(out, copyOrder(po))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderDate != out[j].OrderDate {
			return out[i].OrderDate < out[j].OrderDate
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memoryPurchaseOrderService) Catalog(context.Context) (ProductCatalog, error) {
	return s.catalog, nil
}

func (s *memoryPurchaseOrderService) RecordReceipt(_ context.Context, receipt *StockInReceipt) error {
	if receipt == nil || receipt.ID == "" {
		return fmt.Errorf("receipt ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.orders[receipt.PurchaseOrderID]
	if !ok {
		return fmt.Errorf("purchase order %s: %w", receipt.PurchaseOrderID, ErrPurchaseOrderNotFound)
	}
	if po.Status == POStatusCancelled {
		return fmt.Errorf("record receipt for %s: %w", po.PONumber, ErrPurchaseOrderCancelled)
	}
	if _, dup := s.receipts[receipt.ID]; dup {
		return fmt.Errorf("receipt %s already recorded", receipt.ID)
	}

	received := make(map[int]int)
	for _, prev := range s.receipts {
		if prev.PurchaseOrderID != po.ID {
			continue
		}
		for _, l := range prev.Lines {
			received[l.ProductID] += l.ScannedQuantity
		}
	}
	for _, l := range receipt.Lines {
		received[l.ProductID] += l.ScannedQuantity
	}
	receipt.POStatus = RollUpReceived(&po, po.Status, received)

	s.receipts[receipt.ID] = copyReceipt(*receipt)
	po.Status = receipt.POStatus
	s.orders[po.ID] = po
	return nil
}

func (s *memoryPurchaseOrderService) GetReceipt(_ context.Context, receiptID string) (*StockInReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.receipts[receiptID]
	if !ok {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, ErrReceiptNotFound)
	}
	out := copyReceipt(rec)
	return &out, nil
}

func copyOrder(po PurchaseOrder) PurchaseOrder {
	po.Lines = append([]PurchaseOrderLine(nil), po.Lines...)
	return po
}

func copyReceipt(r StockInReceipt) StockInReceipt {
	lines := make([]StockInReceiptLine, len(r.Lines))
	for i, l := range r.Lines {
		l.ScanResult = cloneResult(l.ScanResult)
		lines[i] = l
	}
	r.Lines = lines
	return r
}
