package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stockin-agent/internal/ai"
	"stockin-agent/internal/core"
	"stockin-agent/internal/metrics"
	"stockin-agent/internal/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes the stations created by the service. Zero values select the
// production defaults.
type Options struct {
	ScanInterval time.Duration
	JitterMin    time.Duration
	JitterMax    time.Duration

	Summarizer ai.Summarizer
	Metrics    *metrics.Registry
	Logger     *zap.Logger

	// NewDetectionSource builds the simulated camera for a catalog.
	NewDetectionSource func(core.ProductCatalog) core.DetectionSource
	// ExpiryGenerator overrides the random expiry dates.
	ExpiryGenerator core.ExpiryGenerator
	// SimulatorOptions are appended after the timing options above.
	SimulatorOptions []core.SimulatorOption

	Now   func() time.Time
	NewID func() string
}

type appService struct {
	store      core.PurchaseOrderService
	bus        *notify.Bus
	summarizer ai.Summarizer
	metrics    *metrics.Registry
	logger     *zap.Logger
	opts       Options

	baseCtx context.Context
	cancel  context.CancelFunc

	mu       sync.RWMutex
	stations map[string]*station
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(store core.PurchaseOrderService, bus *notify.Bus, opts Options) ApplicationService {
	if opts.Logger == nil {
		opts.Logger = zap.L()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	if bus == nil {
		bus = notify.NewBus(opts.Logger, 0)
	}
	if opts.NewDetectionSource == nil {
		opts.NewDetectionSource = func(c core.ProductCatalog) core.DetectionSource {
			return core.NewRandomDetectionSource(c, nil)
		}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &appService{
		store:      store,
		bus:        bus,
		summarizer: opts.Summarizer,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		opts:       opts,
		baseCtx:    ctx,
		cancel:     cancel,
		stations:   make(map[string]*station),
	}
}

// ListPurchaseOrders returns purchase orders, optionally filtered by status.
func (s *appService) ListPurchaseOrders(ctx context.Context, status string) (*PurchaseOrderListResult, error) {
	if status != "" && !validPOStatus(core.POStatus(status)) {
		return nil, fmt.Errorf("purchase order status %q: %w", status, ErrInvalidRequest)
	}
	orders, err := s.store.GetPOs(ctx, core.POStatus(status))
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []core.PurchaseOrder{}
	}
	return &PurchaseOrderListResult{PurchaseOrders: orders}, nil
}

// GetPurchaseOrder returns a single purchase order with its lines.
func (s *appService) GetPurchaseOrder(ctx context.Context, poID string) (*PurchaseOrderResult, error) {
	po, err := s.store.GetPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{PurchaseOrder: po}, nil
}

// ListProducts returns the product catalog ordered by ID.
func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	catalog, err := s.store.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	products := catalog.Products()
	if products == nil {
		products = []core.Product{}
	}
	return &ProductListResult{Products: products}, nil
}

// GetReceipt returns a previously finalized receipt.
func (s *appService) GetReceipt(ctx context.Context, receiptID string) (*ReceiptResult, error) {
	rec, err := s.store.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return &ReceiptResult{Receipt: rec}, nil
}

// CreateStation opens a new receiving station.
func (s *appService) CreateStation(ctx context.Context) (*StationResult, error) {
	id := s.opts.NewID()
	st := s.newStation(id)

	s.mu.Lock()
	if _, dup := s.stations[id]; dup {
		s.mu.Unlock()
		return nil, fmt.Errorf("station %s already exists", id)
	}
	s.stations[id] = st
	s.mu.Unlock()

	s.logger.Info("station opened", zap.String("station", id))
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot(), nil
}

// GetStation returns a snapshot of the station.
func (s *appService) GetStation(ctx context.Context, stationID string) (*StationResult, error) {
	st, err := s.station(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot(), nil
}

// CloseStation stops any scan on the station and discards it.
func (s *appService) CloseStation(ctx context.Context, stationID string) error {
	s.mu.Lock()
	st, ok := s.stations[stationID]
	delete(s.stations, stationID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("station %s: %w", stationID, ErrStationNotFound)
	}

	st.mu.Lock()
	s.stopLocked(st)
	st.mu.Unlock()
	s.bus.Forget(stationID)
	s.logger.Info("station closed", zap.String("station", stationID))
	return nil
}

// RecentEvents returns the station's most recent advisory events.
func (s *appService) RecentEvents(ctx context.Context, stationID string) (*EventListResult, error) {
	if _, err := s.station(stationID); err != nil {
		return nil, err
	}
	events := s.bus.Recent(stationID)
	if events == nil {
		events = []core.Event{}
	}
	return &EventListResult{StationID: stationID, Events: events}, nil
}

// Shutdown stops every active scan and cancels the service context.
func (s *appService) Shutdown() {
	s.mu.RLock()
	stations := make([]*station, 0, len(s.stations))
	for _, st := range s.stations {
		stations = append(stations, st)
	}
	s.mu.RUnlock()

	for _, st := range stations {
		st.mu.Lock()
		s.stopLocked(st)
		st.mu.Unlock()
	}
	s.cancel()
}

func (s *appService) station(id string) (*station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stations[id]
	if !ok {
		return nil, fmt.Errorf("station %s: %w", id, ErrStationNotFound)
	}
	return st, nil
}

func validPOStatus(st core.POStatus) bool {
	switch st {
	case core.POStatusPending, core.POStatusPartiallyReceived, core.POStatusReceived, core.POStatusCancelled:
		return true
	}
	return false
}

// IsNotFound reports whether err means the referenced entity does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStationNotFound) ||
		errors.Is(err, core.ErrPurchaseOrderNotFound) ||
		errors.Is(err, core.ErrReceiptNotFound)
}
