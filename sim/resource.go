// Implements the ResourcePool, a finite-capacity facility with a FIFO wait queue.

package sim

import (
	"fmt"
	"strings"
)

// PoolObserver is notified whenever a pool changes. Observers must not
// acquire or release units themselves.
type PoolObserver interface {
	// PoolChanged fires after every grant, enqueue and release.
	PoolChanged(pool *ResourcePool)
	// PoolGranted fires when a unit is granted; wait is zero for immediate grants.
	PoolGranted(pool *ResourcePool, wait SimTime)
}

type waiter struct {
	proc  *Process
	since SimTime
}

// ResourcePool models a pool of identical units (beds, doctors, rooms,
// machines). A request is granted immediately while units are free;
// otherwise the requester joins the tail of the wait queue. On release the
// freed unit goes straight to the head of the queue, so nobody can overtake
// a process that is already waiting, whatever its patient's severity.
type ResourcePool struct {
	Name     string
	Capacity int

	sim       *Simulator
	inUse     int
	waitQ     []waiter
	observers []PoolObserver

	grants     int
	queued     int
	totalWait  SimTime
	maxWait    SimTime
	peakQueue  int
	busyArea   float64 // integral of inUse over virtual time
	lastChange SimTime
}

// PoolStats is a snapshot of a pool's counters.
type PoolStats struct {
	Name        string  `yaml:"name"`
	Capacity    int     `yaml:"capacity"`
	InUse       int     `yaml:"in_use"`
	Queued      int     `yaml:"queued"`
	Grants      int     `yaml:"grants"`
	Waited      int     `yaml:"waited"`
	MeanWait    float64 `yaml:"mean_wait"`
	MaxWait     float64 `yaml:"max_wait"`
	PeakQueue   int     `yaml:"peak_queue"`
	Utilization float64 `yaml:"utilization"`
}

// NewResourcePool creates a pool with the given number of units and registers
// it with the simulator. Capacity must be at least one.
func (s *Simulator) NewResourcePool(name string, capacity int) *ResourcePool {
	if capacity < 1 {
		invariant("NewResourcePool", "pool %q capacity %d < 1", name, capacity)
	}
	rp := &ResourcePool{
		Name:       name,
		Capacity:   capacity,
		sim:        s,
		lastChange: s.Clock,
	}
	s.pools = append(s.pools, rp)
	return rp
}

// Observe registers an observer.
func (rp *ResourcePool) Observe(o PoolObserver) {
	rp.observers = append(rp.observers, o)
}

// InUse returns the number of granted units.
func (rp *ResourcePool) InUse() int {
	return rp.inUse
}

// QueueLen returns the number of processes waiting.
func (rp *ResourcePool) QueueLen() int {
	return len(rp.waitQ)
}

// Available returns the number of free units.
func (rp *ResourcePool) Available() int {
	return rp.Capacity - rp.inUse
}

// Waiting returns the ids of the waiting processes, head first.
func (rp *ResourcePool) Waiting() []uint64 {
	ids := make([]uint64, len(rp.waitQ))
	for i, w := range rp.waitQ {
		ids[i] = w.proc.id
	}
	return ids
}

func (rp *ResourcePool) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s[%d/%d", rp.Name, rp.inUse, rp.Capacity)
	if len(rp.waitQ) > 0 {
		fmt.Fprintf(&sb, " +%d waiting", len(rp.waitQ))
	}
	sb.WriteString("]")
	return sb.String()
}

func (rp *ResourcePool) tryAcquire(p *Process) bool {
	if rp.inUse < rp.Capacity && len(rp.waitQ) == 0 {
		rp.grant(p, rp.sim.Clock)
		return true
	}
	return false
}

func (rp *ResourcePool) enqueue(p *Process) {
	rp.waitQ = append(rp.waitQ, waiter{proc: p, since: rp.sim.Clock})
	rp.queued++
	if len(rp.waitQ) > rp.peakQueue {
		rp.peakQueue = len(rp.waitQ)
	}
	rp.notifyChanged()
}

// grant takes a free unit and hands it to p. requestedAt is when p asked.
func (rp *ResourcePool) grant(p *Process, requestedAt SimTime) {
	rp.accumulate()
	rp.inUse++
	if rp.inUse > rp.Capacity {
		invariant("grant", "pool %q in use %d exceeds capacity %d", rp.Name, rp.inUse, rp.Capacity)
	}
	rp.hand(p, requestedAt)
	rp.notifyChanged()
}

// hand records p as the holder of a unit already counted in inUse.
func (rp *ResourcePool) hand(p *Process, requestedAt SimTime) {
	p.held = append(p.held, rp)

	wait := rp.sim.Clock - requestedAt
	rp.grants++
	rp.totalWait += wait
	if wait > rp.maxWait {
		rp.maxWait = wait
	}
	for _, o := range rp.observers {
		o.PoolGranted(rp, wait)
	}
}

// release returns a unit held by p. If anyone is waiting, the unit passes
// directly to the head of the queue and inUse does not change.
func (rp *ResourcePool) release(p *Process) {
	if rp.inUse == 0 {
		invariant("Release", "pool %q released by process %d with nothing in use", rp.Name, p.id)
	}

	if len(rp.waitQ) == 0 {
		rp.accumulate()
		rp.inUse--
		rp.notifyChanged()
		return
	}

	w := rp.waitQ[0]
	rp.waitQ[0] = waiter{}
	rp.waitQ = rp.waitQ[1:]
	rp.hand(w.proc, w.since)
	rp.sim.schedule(NewResourceAcquiredEvent(rp.sim.Clock, w.proc, rp, rp.sim.newEventID()))
	rp.notifyChanged()
}

func (rp *ResourcePool) accumulate() {
	now := rp.sim.Clock
	rp.busyArea += float64(rp.inUse) * float64(now-rp.lastChange)
	rp.lastChange = now
}

func (rp *ResourcePool) notifyChanged() {
	for _, o := range rp.observers {
		o.PoolChanged(rp)
	}
}

// CheckInvariants returns an error if the pool is in an inconsistent state.
func (rp *ResourcePool) CheckInvariants() error {
	if rp.inUse < 0 || rp.inUse > rp.Capacity {
		return fmt.Errorf("pool %q: in use %d outside [0,%d]", rp.Name, rp.inUse, rp.Capacity)
	}
	if len(rp.waitQ) > 0 && rp.inUse != rp.Capacity {
		return fmt.Errorf("pool %q: %d waiting with %d/%d in use", rp.Name, len(rp.waitQ), rp.inUse, rp.Capacity)
	}
	return nil
}

// Stats returns the pool's counters as of the current virtual time.
func (rp *ResourcePool) Stats() PoolStats {
	st := PoolStats{
		Name:      rp.Name,
		Capacity:  rp.Capacity,
		InUse:     rp.inUse,
		Queued:    len(rp.waitQ),
		Grants:    rp.grants,
		Waited:    rp.queued,
		MaxWait:   float64(rp.maxWait),
		PeakQueue: rp.peakQueue,
	}
	if rp.grants > 0 {
		st.MeanWait = float64(rp.totalWait) / float64(rp.grants)
	}
	now := rp.sim.Clock
	if now > 0 {
		area := rp.busyArea + float64(rp.inUse)*float64(now-rp.lastChange)
		st.Utilization = area / (float64(rp.Capacity) * float64(now))
	}
	return st
}
