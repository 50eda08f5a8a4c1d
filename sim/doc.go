// Package sim provides the discrete-event simulation kernel that the
// hospital model runs on.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - event.go: SimTime and the two event kinds (Timeout, ResourceAcquired)
//   - simulator.go: the virtual clock and the event loop (Run, Step, Shutdown)
//   - process.go: cooperative processes and their two suspension points
//
// # Execution Model
//
// Each process runs on its own goroutine, but the simulator hands control
// over on unbuffered channels: exactly one process (or the caller of Run)
// executes at any moment. A process suspends only inside Process.Timeout and
// Process.Acquire. Mutual exclusion in the model is therefore expressed
// through ResourcePool capacity, never through locks.
//
// Ordering guarantees:
//   - events are ordered by (due time, scheduling order)
//   - a released unit goes to the longest-waiting requester (resource.go)
//
// # Sub-packages
//
//   - sim/hospital/: patients, hospital resources, journeys, arrivals
//   - sim/trace/: event log and per-patient records
//   - sim/metrics/: Prometheus collector for pools and patients
//   - sim/store/: SQLite persistence of runs
package sim
