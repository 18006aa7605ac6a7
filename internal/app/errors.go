package app

import "errors"

var (
	// ErrStationNotFound is returned for an unknown station ID.
	ErrStationNotFound = errors.New("station not found")

	// ErrScanInProgress is returned when an operation needs the station to be idle.
	ErrScanInProgress = errors.New("scan in progress, stop scanning first")

	// ErrInvalidRequest is returned for malformed input such as an unknown PO status.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNothingToFinalize is returned when finalizing a station with no purchase order.
	ErrNothingToFinalize = errors.New("no purchase order selected to finalize")
)
