package sim

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// ProcessFunc is the body of a process. It runs on its own goroutine and may
// suspend only through p.Timeout and p.Acquire; between those calls it runs
// to completion without any other process observing intermediate state.
type ProcessFunc func(p *Process)

// ProcessState tracks a process through its lifecycle.
type ProcessState int

const (
	ProcessCreated ProcessState = iota
	ProcessRunning
	ProcessSuspended
	ProcessFinished
	ProcessAbandoned
)

func (s ProcessState) String() string {
	switch s {
	case ProcessCreated:
		return "created"
	case ProcessRunning:
		return "running"
	case ProcessSuspended:
		return "suspended"
	case ProcessFinished:
		return "finished"
	case ProcessAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("ProcessState(%d)", int(s))
	}
}

// Process is a suspendable unit of work: a patient journey or the arrival
// generator. Its resume point and local variables live on its goroutine's
// stack, so it continues exactly after the call that suspended it.
type Process struct {
	id    uint64
	name  string
	sim   *Simulator
	state ProcessState

	resume chan struct{} // kernel → process: run until the next suspension
	yield  chan struct{} // process → kernel: suspended or finished

	abandon bool
	failure any

	// held lists one entry per unit held, in acquisition order
	held []*ResourcePool
}

// Spawn creates a process and runs fn immediately, at the current virtual
// time, until its first suspension point. It may be called by the kernel's
// caller or from inside another process.
func (s *Simulator) Spawn(name string, fn ProcessFunc) *Process {
	if fn == nil {
		panic("Spawn: fn must not be nil")
	}
	s.nextProcID++
	p := &Process{
		id:     s.nextProcID,
		name:   name,
		sim:    s,
		state:  ProcessCreated,
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	s.procs[p.id] = p
	logrus.Debugf("[t=%9.3f] spawn process %d (%s)", s.Clock, p.id, name)

	go p.run(fn)
	s.transfer(p)
	return p
}

func (p *Process) run(fn ProcessFunc) {
	defer func() {
		// a panic here is re-raised by whoever resumed us
		if r := recover(); r != nil {
			p.failure = r
		}
		if p.state != ProcessAbandoned {
			p.state = ProcessFinished
		}
		delete(p.sim.procs, p.id)
		p.yield <- struct{}{}
	}()

	<-p.resume
	if p.abandon {
		p.state = ProcessAbandoned
		return
	}
	fn(p)
}

// transfer hands control to p and blocks until p suspends or finishes.
func (s *Simulator) transfer(p *Process) {
	prev := s.current
	s.current = p
	p.state = ProcessRunning
	p.resume <- struct{}{}
	<-p.yield
	s.current = prev

	if p.failure != nil {
		f := p.failure
		p.failure = nil
		panic(f)
	}
}

// resume continues a suspended process. Called by events.
func (s *Simulator) resume(p *Process) {
	if p.state != ProcessSuspended {
		invariant("resume", "process %d (%s) is %s, not suspended", p.id, p.name, p.state)
	}
	s.transfer(p)
}

// suspend parks the calling process until the kernel resumes it.
func (p *Process) suspend() {
	if p.abandon {
		runtime.Goexit()
	}
	if p.sim.current != p {
		invariant("suspend", "process %d (%s) suspended while not running", p.id, p.name)
	}
	p.state = ProcessSuspended
	p.yield <- struct{}{}
	<-p.resume
	if p.abandon {
		p.state = ProcessAbandoned
		runtime.Goexit()
	}
}

// ID returns the unique process id.
func (p *Process) ID() uint64 {
	if p == nil {
		return 0
	}
	return p.id
}

// Name returns the label given at spawn time.
func (p *Process) Name() string {
	return p.name
}

// State returns the lifecycle state.
func (p *Process) State() ProcessState {
	return p.state
}

// Done reports whether the process has finished or been abandoned.
func (p *Process) Done() bool {
	return p.state == ProcessFinished || p.state == ProcessAbandoned
}

// Sim returns the owning simulator.
func (p *Process) Sim() *Simulator {
	return p.sim
}

// Now returns the current virtual time.
func (p *Process) Now() SimTime {
	return p.sim.Clock
}

// Timeout suspends the process for delay minutes of virtual time. A zero
// delay still yields: the process resumes after every event already due now.
// A negative delay is an invariant violation.
func (p *Process) Timeout(delay SimTime) {
	p.sim.scheduleAfter(p, delay)
	p.suspend()
}

// Acquire takes one unit of pool, suspending until one is granted if the pool
// is exhausted. Grants are strictly first-come first-served.
func (p *Process) Acquire(pool *ResourcePool) {
	if pool.sim != p.sim {
		invariant("Acquire", "pool %q belongs to another simulator", pool.Name)
	}
	if pool.tryAcquire(p) {
		return
	}
	pool.enqueue(p)
	p.suspend()
}

// Release returns one unit of pool. Releasing a pool the process does not
// hold is an invariant violation.
func (p *Process) Release(pool *ResourcePool) {
	idx := -1
	for i := len(p.held) - 1; i >= 0; i-- {
		if p.held[i] == pool {
			idx = i
			break
		}
	}
	if idx < 0 {
		invariant("Release", "process %d (%s) does not hold %q", p.id, p.name, pool.Name)
	}
	p.held = append(p.held[:idx], p.held[idx+1:]...)
	pool.release(p)
}

// ReleaseAll returns every unit the process still holds, most recent first.
func (p *Process) ReleaseAll() {
	for len(p.held) > 0 {
		p.Release(p.held[len(p.held)-1])
	}
}

// Holds reports how many units of pool the process holds.
func (p *Process) Holds(pool *ResourcePool) int {
	n := 0
	for _, rp := range p.held {
		if rp == pool {
			n++
		}
	}
	return n
}

// Held returns the pools the process holds units of, in acquisition order.
func (p *Process) Held() []*ResourcePool {
	out := make([]*ResourcePool, len(p.held))
	copy(out, p.held)
	return out
}
