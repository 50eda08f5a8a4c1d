// Package metrics exposes a hospital run as Prometheus metrics.
//
// Metric families (all times in virtual minutes):
//
//	hospital_patients_arrived_total{severity}     counter
//	hospital_patients_discharged_total{severity}  counter
//	hospital_length_of_stay_minutes{severity}     histogram
//	hospital_pool_in_use{pool}                    gauge
//	hospital_pool_queue_length{pool}              gauge
//	hospital_pool_capacity{pool}                  gauge
//	hospital_pool_wait_minutes{pool}              histogram
//
// A Collector owns its registry, so several runs in one process (a sweep,
// tests) never collide on registration.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hospital-sim/hospital-sim/sim"
	"github.com/hospital-sim/hospital-sim/sim/hospital"
)

// Collector implements hospital.Observer and sim.PoolObserver.
// It is driven by the simulation, which is single-threaded.
type Collector struct {
	registry *prometheus.Registry

	arrived      *prometheus.CounterVec
	discharged   *prometheus.CounterVec
	lengthOfStay *prometheus.HistogramVec

	poolInUse    *prometheus.GaugeVec
	poolQueue    *prometheus.GaugeVec
	poolCapacity *prometheus.GaugeVec
	poolWait     *prometheus.HistogramVec
}

var (
	_ hospital.Observer = (*Collector)(nil)
	_ sim.PoolObserver  = (*Collector)(nil)
)

// NewCollector creates a collector with a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		arrived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_patients_arrived_total",
			Help: "Patients admitted, by severity",
		}, []string{"severity"}),
		discharged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_patients_discharged_total",
			Help: "Patients discharged, by severity",
		}, []string{"severity"}),
		lengthOfStay: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hospital_length_of_stay_minutes",
			Help:    "Virtual minutes from arrival to discharge",
			Buckets: []float64{15, 30, 60, 90, 120, 180, 240, 360, 480},
		}, []string{"severity"}),
		poolInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hospital_pool_in_use",
			Help: "Units currently held",
		}, []string{"pool"}),
		poolQueue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hospital_pool_queue_length",
			Help: "Processes waiting for a unit",
		}, []string{"pool"}),
		poolCapacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hospital_pool_capacity",
			Help: "Units in the pool",
		}, []string{"pool"}),
		poolWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hospital_pool_wait_minutes",
			Help:    "Virtual minutes between request and grant",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 60, 120},
		}, []string{"pool"}),
	}

	c.registry.MustRegister(
		c.arrived,
		c.discharged,
		c.lengthOfStay,
		c.poolInUse,
		c.poolQueue,
		c.poolCapacity,
		c.poolWait,
	)
	return c
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// PatientArrived counts an admission.
func (c *Collector) PatientArrived(pt *hospital.Patient) {
	c.arrived.WithLabelValues(pt.Severity.String()).Inc()
}

// PatientDischarged counts a discharge and observes the length of stay.
func (c *Collector) PatientDischarged(pt *hospital.Patient) {
	sev := pt.Severity.String()
	c.discharged.WithLabelValues(sev).Inc()
	if dep, ok := pt.DepartureTime(); ok {
		c.lengthOfStay.WithLabelValues(sev).Observe(float64(dep - pt.ArrivalTime))
	}
}

// PoolChanged refreshes the pool gauges.
func (c *Collector) PoolChanged(rp *sim.ResourcePool) {
	c.poolInUse.WithLabelValues(rp.Name).Set(float64(rp.InUse()))
	c.poolQueue.WithLabelValues(rp.Name).Set(float64(rp.QueueLen()))
	c.poolCapacity.WithLabelValues(rp.Name).Set(float64(rp.Capacity))
}

// PoolGranted observes how long the grant took.
func (c *Collector) PoolGranted(rp *sim.ResourcePool, wait sim.SimTime) {
	c.poolWait.WithLabelValues(rp.Name).Observe(float64(wait))
}

// WriteTextfile writes every metric in the Prometheus text format, for the
// node exporter's textfile collector or for archiving next to the results.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
