// sim/simulator.go
package sim

import (
	"errors"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds simulation time, the event queue,
// the live processes and the resource pools registered against it.
//
// Thread-safety: processes run on their own goroutines, but control is handed
// over on unbuffered channels so exactly one of them (or the caller of Run)
// executes at any moment. No state here is guarded by a lock, and none is needed.
type Simulator struct {
	Clock SimTime
	// EventQueue holds every pending timeout and grant
	EventQueue *EventHeap
	// RNG is the single seeded source that all model randomness derives from
	RNG *PartitionedRNG

	nextEventID uint64 // per-simulator counter; FIFO tie-break for equal timestamps
	nextProcID  uint64
	procs       map[uint64]*Process
	current     *Process
	pools       []*ResourcePool
	hooks       []Hook
}

// NewSimulator creates a simulator at time zero whose randomness derives from seed.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		Clock:      0,
		EventQueue: NewEventHeap(),
		RNG:        NewPartitionedRNG(NewSimulationKey(seed)),
		procs:      make(map[uint64]*Process),
	}
}

// Now returns the current virtual time.
func (s *Simulator) Now() SimTime {
	return s.Clock
}

// Pending returns the number of scheduled events.
func (s *Simulator) Pending() int {
	return s.EventQueue.Len()
}

// Live returns the number of processes that have started and not yet finished.
func (s *Simulator) Live() int {
	return len(s.procs)
}

// Current returns the process that is executing, or nil when the kernel is.
func (s *Simulator) Current() *Process {
	return s.current
}

func (s *Simulator) newEventID() uint64 {
	s.nextEventID++
	return s.nextEventID
}

// schedule pushes an event into the queue.
func (s *Simulator) schedule(ev Event) {
	if ev.Timestamp() < s.Clock {
		invariant("schedule", "event %d due at %v, before now %v", ev.EventID(), ev.Timestamp(), s.Clock)
	}
	s.EventQueue.Schedule(ev)
}

// scheduleAfter arranges for p to be resumed delay minutes from now.
func (s *Simulator) scheduleAfter(p *Process, delay SimTime) {
	if delay < 0 || math.IsNaN(float64(delay)) || math.IsInf(float64(delay), 0) {
		invariant("ScheduleAfter", "process %d requested delay %v", p.id, delay)
	}
	s.schedule(NewTimeoutEvent(s.Clock+delay, p, s.newEventID()))
}

// Step executes the next event. It reports false when the queue is empty.
func (s *Simulator) Step() bool {
	ev := s.EventQueue.PopNext()
	if ev == nil {
		return false
	}

	// Clock is monotonic
	if ev.Timestamp() < s.Clock {
		invariant("Run", "clock went backwards: %v < %v", ev.Timestamp(), s.Clock)
	}
	s.Clock = ev.Timestamp()
	logrus.Tracef("[t=%9.3f] %s for process %d", s.Clock, ev.Kind(), ev.Process().ID())

	s.invokeHooks(ev, HookPosBeforeEvent)
	ev.Execute(s)
	s.invokeHooks(ev, HookPosAfterEvent)
	return true
}

// Run executes events in (time, scheduling order) until the queue is empty or
// the next event is due at or after until. When it stops because of the
// horizon, the clock is moved to until. Processes still suspended stay
// suspended; call Shutdown to abandon them.
func (s *Simulator) Run(until SimTime) {
	for {
		next := s.EventQueue.Peek()
		if next == nil || next.Timestamp() >= until {
			break
		}
		s.Step()
	}
	if !math.IsInf(float64(until), 1) && s.Clock < until {
		s.Clock = until
	}
	logrus.Debugf("[t=%9.3f] run stopped, %d events pending, %d processes live", s.Clock, s.Pending(), s.Live())
}

// Shutdown abandons every suspended process and drops pending events. Abandoned
// journeys unwind silently; deferred calls in their functions still run.
// It returns the number of processes abandoned.
func (s *Simulator) Shutdown() int {
	ids := make([]uint64, 0, len(s.procs))
	for id := range s.procs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	abandoned := 0
	for _, id := range ids {
		p, ok := s.procs[id]
		if !ok || p.state != ProcessSuspended {
			continue
		}
		p.abandon = true
		s.transfer(p)
		abandoned++
	}
	if abandoned > 0 {
		logrus.Debugf("[t=%9.3f] abandoned %d processes", s.Clock, abandoned)
	}
	s.EventQueue = NewEventHeap()
	return abandoned
}

// Pools returns the pools created through NewResourcePool, in creation order.
func (s *Simulator) Pools() []*ResourcePool {
	return s.pools
}

// CheckInvariants verifies every registered pool. It returns nil when all hold.
func (s *Simulator) CheckInvariants() error {
	var errs []error
	for _, rp := range s.pools {
		if err := rp.CheckInvariants(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
