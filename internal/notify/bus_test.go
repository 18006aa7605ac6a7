package notify_test

import (
	"fmt"
	"sync"
	"testing"

	"stockin-agent/internal/core"
	"stockin-agent/internal/notify"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBus_RecentKeepsLastEventsPerStation(t *testing.T) {
	bus := notify.NewBus(zap.NewNop(), 3)

	for i := 1; i <= 5; i++ {
		bus.Notify(core.Event{Kind: core.EventItemScanned, StationID: "a", Message: fmt.Sprintf("a%d", i)})
	}
	bus.Notify(core.Event{Kind: core.EventScanStarted, StationID: "b", Message: "b1"})

	got := bus.Recent("a")
	if len(got) != 3 || got[0].Message != "a3" || got[2].Message != "a5" {
		t.Errorf("station a history = %+v", got)
	}
	if b := bus.Recent("b"); len(b) != 1 || b[0].Message != "b1" {
		t.Errorf("station b history = %+v", b)
	}

	bus.Forget("a")
	if len(bus.Recent("a")) != 0 {
		t.Errorf("history survived Forget")
	}
}

func TestBus_SubscribeByKind(t *testing.T) {
	bus := notify.NewBus(zap.NewNop(), 0)

	var mu sync.Mutex
	var expiries, all int
	if err := bus.Subscribe(core.EventExpirySimulated, func(core.Event) {
		mu.Lock()
		expiries++
		mu.Unlock()
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := bus.SubscribeAll(func(core.Event) {
		mu.Lock()
		all++
		mu.Unlock()
	}); err != nil {
		t.Fatalf("SubscribeAll: %v", err)
	}

	bus.Notify(core.Event{Kind: core.EventItemScanned})
	bus.Notify(core.Event{Kind: core.EventExpirySimulated})
	bus.Notify(core.Event{Kind: core.EventWarning, Message: "Please select a Purchase Order first."})

	mu.Lock()
	defer mu.Unlock()
	if expiries != 1 || all != 3 {
		t.Errorf("expiries=%d all=%d, want 1/3", expiries, all)
	}
}

func TestBus_ConcurrentNotify(t *testing.T) {
	bus := notify.NewBus(zap.NewNop(), 0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				bus.Notify(core.Event{Kind: core.EventItemScanned, StationID: "s"})
			}
		}()
	}
	wg.Wait()
	if n := len(bus.Recent("s")); n != notify.DefaultHistory {
		t.Errorf("history length = %d, want %d", n, notify.DefaultHistory)
	}
}

func TestNewBus_RegistersBuiltInHandlers(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	bus := notify.NewBus(zap.New(obs), 0)

	bus.Notify(core.Event{Kind: core.EventScanStarted, StationID: "s", Message: "Scanning started."})
	bus.Notify(core.Event{Kind: core.EventWarning, StationID: "s", Message: "Please select a Purchase Order first."})

	if got := len(bus.Recent("s")); got != 2 {
		t.Errorf("recent events = %d, want 2", got)
	}
	if got := logs.FilterLevelExact(zapcore.DebugLevel).Len(); got != 1 {
		t.Errorf("debug entries = %d, want 1", got)
	}
	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warns) != 1 || warns[0].Message != "Please select a Purchase Order first." {
		t.Errorf("warn entries = %+v", warns)
	}
}
