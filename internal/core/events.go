package core

import "time"

// EventKind names an advisory event. Events never feed back into engine state.
type EventKind string

const (
	EventPOSelected        EventKind = "po.selected"
	EventItemScanned       EventKind = "scan.item"
	EventExpirySimulated   EventKind = "scan.expiry"
	EventScanStarted       EventKind = "scan.started"
	EventScanStopped       EventKind = "scan.stopped"
	EventShipmentFinalized EventKind = "shipment.finalized"
	EventWarning           EventKind = "scan.warning"
)

// Event is a toast-style notification for whatever UI sits on top.
type Event struct {
	Kind        EventKind  `json:"kind"`
	StationID   string     `json:"station_id,omitempty"`
	PONumber    string     `json:"po_number,omitempty"`
	ProductID   int        `json:"product_id,omitempty"`
	ProductName string     `json:"product_name,omitempty"`
	Quantity    int        `json:"quantity,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Message     string     `json:"message"`
	At          time.Time  `json:"at"`
}

// Notifier receives advisory events.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

type discardNotifier struct{}

func (discardNotifier) Notify(Event) {}
