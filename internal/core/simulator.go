package core

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SimulatorState is the scanning lifecycle of a BatchScanSimulator.
type SimulatorState string

const (
	SimulatorIdle     SimulatorState = "Idle"
	SimulatorScanning SimulatorState = "Scanning"
)

const (
	DefaultScanPeriod = 4 * time.Second
	DefaultJitterMin  = 100 * time.Millisecond
	DefaultJitterMax  = 400 * time.Millisecond
)

// TickerFunc starts a periodic tick and returns its channel and a stop function.
type TickerFunc func(period time.Duration) (<-chan time.Time, func())

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func())

// BatchScanSimulator manufactures synthetic detections while scanning is
// active. Each Start opens a new generation; detections scheduled under an
// older generation are dropped when they fire.
type BatchScanSimulator struct {
	source    DetectionSource
	period    time.Duration
	jitterMin time.Duration
	jitterMax time.Duration
	newTicker TickerFunc
	afterFunc AfterFunc
	onDrop    func(Detection)
	logger    *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	// mu guards state and generation. Firing detections hold it for reading
	// so that once Stop returns no stale detection can still be running.
	mu         sync.RWMutex
	state      SimulatorState
	generation uint64
	cancel     context.CancelFunc
}

// SimulatorOption configures a BatchScanSimulator.
type SimulatorOption func(*BatchScanSimulator)

// WithPeriod sets the batch interval.
func WithPeriod(d time.Duration) SimulatorOption {
	return func(s *BatchScanSimulator) { s.period = d }
}

// WithJitter sets the per-detection stagger range [min, max).
func WithJitter(min, max time.Duration) SimulatorOption {
	return func(s *BatchScanSimulator) { s.jitterMin, s.jitterMax = min, max }
}

// WithTicker replaces time.NewTicker.
func WithTicker(f TickerFunc) SimulatorOption {
	return func(s *BatchScanSimulator) { s.newTicker = f }
}

// WithAfterFunc replaces time.AfterFunc for detection delays.
func WithAfterFunc(f AfterFunc) SimulatorOption {
	return func(s *BatchScanSimulator) { s.afterFunc = f }
}

// WithDropHook is called for every detection discarded as stale.
func WithDropHook(f func(Detection)) SimulatorOption {
	return func(s *BatchScanSimulator) { s.onDrop = f }
}

// WithJitterRand sets the random source for jitter.
func WithJitterRand(rng *rand.Rand) SimulatorOption {
	return func(s *BatchScanSimulator) { s.rng = rng }
}

// WithSimulatorLogger sets the logger.
func WithSimulatorLogger(l *zap.Logger) SimulatorOption {
	return func(s *BatchScanSimulator) { s.logger = l }
}

// NewBatchScanSimulator returns an idle simulator pulling detections from source.
func NewBatchScanSimulator(source DetectionSource, opts ...SimulatorOption) *BatchScanSimulator {
	s := &BatchScanSimulator{
		source:    source,
		period:    DefaultScanPeriod,
		jitterMin: DefaultJitterMin,
		jitterMax: DefaultJitterMax,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		onDrop:    func(Detection) {},
		state:     SimulatorIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.L()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7177))
	}
	return s
}

// Start begins ticking for order. snapshot supplies the current rows to the
// detection source; onDetection receives every live detection and must not
// call back into the simulator. Starting without an order returns
// ErrInvalidSelection and changes nothing. Starting while already scanning is
// a no-op.
func (s *BatchScanSimulator) Start(ctx context.Context, order *PurchaseOrder, snapshot func() []ScanResult, onDetection func(Detection)) error {
	if order == nil {
		s.logger.Warn("scan start rejected: no purchase order selected")
		return ErrInvalidSelection
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SimulatorScanning {
		return nil
	}
	s.generation++
	gen := s.generation
	s.state = SimulatorScanning
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.logger.Info("batch scan started",
		zap.String("po_number", order.PONumber),
		zap.Uint64("generation", gen),
		zap.Duration("period", s.period))

	go s.run(runCtx, gen, order, snapshot, onDetection)
	return nil
}

// Stop returns the simulator to Idle. Detections already scheduled become
// inert; when Stop returns none of them is executing.
func (s *BatchScanSimulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// State reports the current lifecycle state.
func (s *BatchScanSimulator) State() SimulatorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *BatchScanSimulator) stopLocked() {
	if s.state != SimulatorScanning {
		return
	}
	s.generation++
	s.state = SimulatorIdle
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.logger.Info("batch scan stopped", zap.Uint64("generation", s.generation))
}

func (s *BatchScanSimulator) run(ctx context.Context, gen uint64, order *PurchaseOrder, snapshot func() []ScanResult, onDetection func(Detection)) {
	ticks, stopTicker := s.newTicker(s.period)
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.generation == gen {
				s.stopLocked()
			}
			s.mu.Unlock()
			return
		case <-ticks:
			if !s.live(gen) {
				return
			}
			s.tick(gen, order, snapshot, onDetection)
		}
	}
}

func (s *BatchScanSimulator) tick(gen uint64, order *PurchaseOrder, snapshot func() []ScanResult, onDetection func(Detection)) {
	var rows []ScanResult
	if snapshot != nil {
		rows = snapshot()
	}
	batch := s.source.Batch(order, rows)
	s.logger.Debug("batch generated", zap.Int("detections", len(batch)), zap.Uint64("generation", gen))

	for i, d := range batch {
		d := d
		delay := time.Duration(i) * s.jitter()
		s.afterFunc(delay, func() { s.fire(gen, d, onDetection) })
	}
}

func (s *BatchScanSimulator) fire(gen uint64, d Detection, onDetection func(Detection)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != SimulatorScanning || s.generation != gen {
		s.onDrop(d)
		return
	}
	onDetection(d)
}

func (s *BatchScanSimulator) live(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == SimulatorScanning && s.generation == gen
}

func (s *BatchScanSimulator) jitter() time.Duration {
	if s.jitterMax <= s.jitterMin {
		return s.jitterMin
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.jitterMin + time.Duration(s.rng.Int64N(int64(s.jitterMax-s.jitterMin)))
}
