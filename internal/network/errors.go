package network

import "errors"

var (
	// ErrNoBuses indicates a case with an empty bus list.
	ErrNoBuses = errors.New("network: case must have at least one bus")
	// ErrNoRef indicates a case without a reference bus.
	ErrNoRef = errors.New("network: case must have exactly one reference bus")
	// ErrMultipleRef indicates a case with more than one reference bus.
	ErrMultipleRef = errors.New("network: case must have exactly one reference bus")
	// ErrBadBusType indicates an unrecognized bus type string.
	ErrBadBusType = errors.New("network: bus type must be one of ref, pv, pq")
	// ErrBadBranch indicates a branch endpoint that is not a bus index.
	ErrBadBranch = errors.New("network: branch endpoint out of range")
	// ErrBadGenBus indicates a generator attached to a nonexistent bus.
	ErrBadGenBus = errors.New("network: generator bus out of range")
	// ErrZeroImpedance indicates an in-service branch with r = x = 0.
	ErrZeroImpedance = errors.New("network: in-service branch has zero impedance")
)
