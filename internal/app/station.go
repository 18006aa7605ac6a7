package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stockin-agent/internal/core"

	"go.uber.org/zap"
)

// station is one receiving dock: a reconciliation engine plus the simulated
// camera feeding it. mu serializes lifecycle operations; scans from the
// simulator go straight to the engine, which has its own lock.
type station struct {
	id       string
	engine   *core.ReconciliationEngine
	notifier core.Notifier

	mu  sync.Mutex
	sim *core.BatchScanSimulator
}

// stationNotifier stamps the station ID on every event before publishing.
type stationNotifier struct {
	id   string
	next core.Notifier
}

func (n stationNotifier) Notify(ev core.Event) {
	ev.StationID = n.id
	n.next.Notify(ev)
}

func (s *appService) newStation(id string) *station {
	notifier := stationNotifier{id: id, next: s.bus}
	engineOpts := []core.EngineOption{
		core.WithNotifier(notifier),
		core.WithClock(s.opts.Now),
	}
	if s.opts.ExpiryGenerator != nil {
		engineOpts = append(engineOpts, core.WithExpiryGenerator(s.opts.ExpiryGenerator))
	}
	return &station{
		id:       id,
		engine:   core.NewReconciliationEngine(engineOpts...),
		notifier: notifier,
		sim:      s.newSimulator(id, nil),
	}
}

func (s *appService) newSimulator(stationID string, catalog core.ProductCatalog) *core.BatchScanSimulator {
	opts := []core.SimulatorOption{
		core.WithSimulatorLogger(s.logger.With(zap.String("station", stationID))),
		core.WithDropHook(func(core.Detection) { s.metrics.StaleDetectionsDropped.Inc() }),
	}
	if s.opts.ScanInterval > 0 {
		opts = append(opts, core.WithPeriod(s.opts.ScanInterval))
	}
	if s.opts.JitterMin > 0 || s.opts.JitterMax > 0 {
		opts = append(opts, core.WithJitter(s.opts.JitterMin, s.opts.JitterMax))
	}
	opts = append(opts, s.opts.SimulatorOptions...)
	return core.NewBatchScanSimulator(s.opts.NewDetectionSource(catalog), opts...)
}

// snapshot must be called with st.mu held.
func (st *station) snapshot() *StationResult {
	results := st.engine.Results()
	outstanding := 0
	for _, r := range results {
		if r.ScannedQuantity < r.ExpectedQuantity {
			outstanding++
		}
	}
	return &StationResult{
		StationID:     st.id,
		State:         st.sim.State(),
		PurchaseOrder: st.engine.Order(),
		Results:       results,
		Outstanding:   outstanding,
	}
}

func (s *appService) announce(st *station, kind core.EventKind, poNumber, msg string) {
	st.notifier.Notify(core.Event{
		Kind:     kind,
		PONumber: poNumber,
		Message:  msg,
		At:       s.opts.Now(),
	})
}

// SelectPurchaseOrder seeds the station's rows from a purchase order.
func (s *appService) SelectPurchaseOrder(ctx context.Context, req SelectPurchaseOrderRequest) (*StationResult, error) {
	st, err := s.station(req.StationID)
	if err != nil {
		return nil, err
	}
	po, err := s.store.GetPO(ctx, req.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if po.Status == core.POStatusCancelled {
		return nil, fmt.Errorf("select %s on station %s: %w", po.ID, req.StationID, core.ErrPurchaseOrderCancelled)
	}
	catalog, err := s.store.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.sim.State() == core.SimulatorScanning {
		return nil, fmt.Errorf("select %s on station %s: %w", po.ID, st.id, ErrScanInProgress)
	}

	st.engine.InitializeForOrder(po, catalog)
	st.sim = s.newSimulator(st.id, catalog)
	s.announce(st, core.EventPOSelected, po.PONumber, fmt.Sprintf("PO %s selected.", po.PONumber))
	return st.snapshot(), nil
}

// DeselectPurchaseOrder stops scanning and discards the station's rows.
func (s *appService) DeselectPurchaseOrder(ctx context.Context, stationID string) (*StationResult, error) {
	st, err := s.station(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	s.stopLocked(st)
	st.engine.Reset()
	return st.snapshot(), nil
}

// StartScan starts the batch-scan simulator for the selected purchase order.
func (s *appService) StartScan(ctx context.Context, stationID string) (*StationResult, error) {
	st, err := s.station(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	order := st.engine.Order()
	if order == nil {
		s.announce(st, core.EventWarning, "", "Please select a Purchase Order first.")
		return nil, fmt.Errorf("start scan on station %s: %w", st.id, core.ErrInvalidSelection)
	}
	if st.sim.State() == core.SimulatorScanning {
		return st.snapshot(), nil
	}

	if err := st.sim.Start(s.baseCtx, order, st.engine.Results, func(d core.Detection) {
		s.recordDetection(st, d)
	}); err != nil {
		return nil, err
	}
	s.metrics.ActiveScans.Inc()
	s.announce(st, core.EventScanStarted, order.PONumber, "Scanning started.")
	return st.snapshot(), nil
}

// StopScan returns the station to Idle.
func (s *appService) StopScan(ctx context.Context, stationID string) (*StationResult, error) {
	st, err := s.station(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	s.stopLocked(st)
	return st.snapshot(), nil
}

// stopLocked stops a scanning station. st.mu must be held.
func (s *appService) stopLocked(st *station) {
	if st.sim.State() != core.SimulatorScanning {
		return
	}
	st.sim.Stop()
	s.metrics.ActiveScans.Dec()
	poNumber := ""
	if order := st.engine.Order(); order != nil {
		poNumber = order.PONumber
	}
	s.announce(st, core.EventScanStopped, poNumber, "Scanning stopped.")
}

// recordDetection runs on simulator timers and must not take st.mu.
func (s *appService) recordDetection(st *station, d core.Detection) {
	if _, err := st.engine.RecordScan(d.Product, d.Quantity); err != nil {
		s.logger.Warn("detection rejected", zap.String("station", st.id), zap.Error(err))
		return
	}
	s.metrics.ScansRecorded.Inc()
	s.metrics.UnitsScanned.Add(float64(d.Quantity))
}

// RecordManualScan folds an operator-entered scan into the station's rows.
func (s *appService) RecordManualScan(ctx context.Context, req ManualScanRequest) (*StationResult, error) {
	st, err := s.station(req.StationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.engine.Order() == nil {
		return nil, fmt.Errorf("manual scan on station %s: %w", st.id, core.ErrInvalidSelection)
	}
	product := core.LookupProduct(st.engine.Catalog(), req.ProductID)
	if _, err := st.engine.RecordScan(product, req.Quantity); err != nil {
		return nil, err
	}
	s.metrics.ScansRecorded.Inc()
	s.metrics.UnitsScanned.Add(float64(req.Quantity))
	return st.snapshot(), nil
}

// GetResults returns the station's rows and the subset still outstanding.
func (s *appService) GetResults(ctx context.Context, stationID string) (*ScanResultsResult, error) {
	st, err := s.station(stationID)
	if err != nil {
		return nil, err
	}
	out := st.engine.Outstanding()
	if out == nil {
		out = []core.ScanResult{}
	}
	return &ScanResultsResult{
		StationID:   st.id,
		Results:     st.engine.Results(),
		Outstanding: out,
	}, nil
}

// FinalizeShipment persists the station's reconciliation as a receipt and
// clears the station. On a storage error the rows are kept so the operator
// can retry.
func (s *appService) FinalizeShipment(ctx context.Context, stationID string) (*ReceiptResult, error) {
	st, err := s.station(stationID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	st.mu.Lock()
	order := st.engine.Order()
	if order == nil {
		st.mu.Unlock()
		return nil, fmt.Errorf("finalize station %s: %w", st.id, ErrNothingToFinalize)
	}
	s.stopLocked(st)

	receipt := core.BuildReceipt(s.opts.NewID(), order, st.engine.Results(), st.engine.Catalog(), s.opts.Now().UTC())
	if err := s.store.RecordReceipt(ctx, &receipt); err != nil {
		st.mu.Unlock()
		return nil, fmt.Errorf("finalize PO %s: %w", order.PONumber, err)
	}
	st.engine.Reset()
	s.announce(st, core.EventShipmentFinalized, order.PONumber,
		fmt.Sprintf("Shipment for PO %s finalized.", order.PONumber))
	st.mu.Unlock()

	s.metrics.ReceiptsFinalized.WithLabelValues(string(receipt.POStatus)).Inc()
	s.metrics.FinalizeLatencySec.Observe(time.Since(started).Seconds())
	s.logger.Info("shipment finalized",
		zap.String("station", st.id),
		zap.String("receipt", receipt.ID),
		zap.String("po_number", order.PONumber),
		zap.String("po_status", string(receipt.POStatus)),
		zap.Int("expected", receipt.TotalExpected),
		zap.Int("scanned", receipt.TotalScanned))

	result := &ReceiptResult{Receipt: &receipt}
	if s.summarizer != nil {
		summary, err := s.summarizer.SummarizeReceipt(ctx, receipt)
		if err != nil {
			s.logger.Warn("receipt summary failed", zap.String("receipt", receipt.ID), zap.Error(err))
			result.SummaryError = err.Error()
		} else {
			result.Summary = summary
		}
	}
	return result, nil
}
