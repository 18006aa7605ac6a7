package core

import (
	"math/rand/v2"
	"sync"
	"time"
)

// DetectionSource decides what the simulated camera "sees" on one tick.
type DetectionSource interface {
	// Batch returns the detections for one tick given the active order and
	// the current reconciliation rows.
	Batch(order *PurchaseOrder, results []ScanResult) []Detection
}

// DetectionSourceFunc adapts a function to DetectionSource.
type DetectionSourceFunc func(order *PurchaseOrder, results []ScanResult) []Detection

func (f DetectionSourceFunc) Batch(order *PurchaseOrder, results []ScanResult) []Detection {
	return f(order, results)
}

// Tuning for RandomDetectionSource.
const (
	poPickProbability          = 0.85
	outstandingPickProbability = 0.70
	maxDetectionsPerBatch      = 3
	maxUnitsPerDetection       = 5
)

// RandomDetectionSource produces 1–3 detections per batch, biased toward PO
// lines that are still short, with the occasional unexpected catalog item.
type RandomDetectionSource struct {
	catalog ProductCatalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDetectionSource returns a source drawing products from catalog.
// A nil rng uses a time-seeded generator.
func NewRandomDetectionSource(catalog ProductCatalog, rng *rand.Rand) *RandomDetectionSource {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0xca11))
	}
	return &RandomDetectionSource{catalog: catalog, rng: rng}
}

func (s *RandomDetectionSource) Batch(order *PurchaseOrder, results []ScanResult) []Detection {
	if order == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	short := outstanding(results)
	n := 1 + s.rng.IntN(maxDetectionsPerBatch)
	batch := make([]Detection, 0, n)
	for i := 0; i < n; i++ {
		p, ok := s.pick(order, short)
		if !ok {
			continue
		}
		batch = append(batch, Detection{
			Product:  p,
			Quantity: 1 + s.rng.IntN(maxUnitsPerDetection),
		})
	}
	return batch
}

func (s *RandomDetectionSource) pick(order *PurchaseOrder, short []ScanResult) (Product, bool) {
	if s.rng.Float64() < poPickProbability && len(order.Lines) > 0 {
		if len(short) > 0 && s.rng.Float64() < outstandingPickProbability {
			return LookupProduct(s.catalog, short[s.rng.IntN(len(short))].ProductID), true
		}
		return LookupProduct(s.catalog, order.Lines[s.rng.IntN(len(order.Lines))].ProductID), true
	}
	if s.catalog == nil {
		return Product{}, false
	}
	all := s.catalog.Products()
	if len(all) == 0 {
		return Product{}, false
	}
	return all[s.rng.IntN(len(all))], true
}
