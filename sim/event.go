package sim

import (
	"fmt"
	"math"
)

// SimTime is virtual time in minutes elapsed since the start of the simulation.
// It only moves forward, and only when the simulator pops an event.
type SimTime float64

// Forever is a horizon that is never reached; Run(Forever) drains the queue.
var Forever = SimTime(math.Inf(1))

// EventKind identifies why a process is being resumed.
type EventKind int

const (
	// EventTimeout resumes a process whose requested delay has elapsed.
	EventTimeout EventKind = iota
	// EventResourceAcquired resumes a process that was granted a pool unit on release.
	EventResourceAcquired
)

func (k EventKind) String() string {
	switch k {
	case EventTimeout:
		return "Timeout"
	case EventResourceAcquired:
		return "ResourceAcquired"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event defines the interface for all simulation events.
// Each event carries its due time, a per-simulator sequence number used as the
// FIFO tie-breaker, and the process it continues.
type Event interface {
	Timestamp() SimTime
	EventID() uint64
	Kind() EventKind
	Process() *Process
	Execute(*Simulator)
}

// BaseEvent provides common event fields
type BaseEvent struct {
	timestamp SimTime
	eventID   uint64
	kind      EventKind
	proc      *Process
}

func newBaseEvent(timestamp SimTime, kind EventKind, proc *Process, eventID uint64) BaseEvent {
	return BaseEvent{
		timestamp: timestamp,
		eventID:   eventID,
		kind:      kind,
		proc:      proc,
	}
}

func (e *BaseEvent) Timestamp() SimTime {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Kind() EventKind {
	return e.kind
}

func (e *BaseEvent) Process() *Process {
	return e.proc
}

// TimeoutEvent fires when a process's requested delay has elapsed.
type TimeoutEvent struct {
	BaseEvent
}

func NewTimeoutEvent(timestamp SimTime, proc *Process, eventID uint64) *TimeoutEvent {
	return &TimeoutEvent{
		BaseEvent: newBaseEvent(timestamp, EventTimeout, proc, eventID),
	}
}

// Execute resumes the sleeping process.
func (e *TimeoutEvent) Execute(sim *Simulator) {
	sim.resume(e.proc)
}

// ResourceAcquiredEvent resumes a process that was handed a unit of Pool by a
// release. Ownership of the unit was transferred when the event was scheduled.
type ResourceAcquiredEvent struct {
	BaseEvent
	Pool *ResourcePool
}

func NewResourceAcquiredEvent(timestamp SimTime, proc *Process, pool *ResourcePool, eventID uint64) *ResourceAcquiredEvent {
	return &ResourceAcquiredEvent{
		BaseEvent: newBaseEvent(timestamp, EventResourceAcquired, proc, eventID),
		Pool:      pool,
	}
}

// Execute resumes the waiting process.
func (e *ResourceAcquiredEvent) Execute(sim *Simulator) {
	sim.resume(e.proc)
}
