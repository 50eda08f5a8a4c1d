// Package hospital models an emergency department on top of the sim kernel:
// patients, their journeys, the pools they contend for and the arrival stream.
package hospital

import (
	"strings"

	"github.com/hospital-sim/hospital-sim/sim"
)

// Pool names, as they appear in stats, metrics and the store.
const (
	PoolEmergencyBeds = "emergency_beds"
	PoolDoctors       = "doctors"
	PoolNurses        = "nurses"
	PoolWaitingRoom   = "waiting_room"
	PoolXRay          = "xray"
	PoolSurgeryRooms  = "surgery_rooms"
)

// Hospital holds the resource pools that journeys contend for.
type Hospital struct {
	EmergencyBeds *sim.ResourcePool
	Doctors       *sim.ResourcePool
	Nurses        *sim.ResourcePool
	WaitingRoom   *sim.ResourcePool
	XRay          *sim.ResourcePool
	SurgeryRooms  *sim.ResourcePool
	Offices       map[Specialty]*sim.ResourcePool
}

// NewHospital creates every pool on s, sized from cfg. cfg must be valid.
func NewHospital(s *sim.Simulator, cfg Config) *Hospital {
	h := &Hospital{
		EmergencyBeds: s.NewResourcePool(PoolEmergencyBeds, cfg.Capacities.EmergencyBeds),
		Doctors:       s.NewResourcePool(PoolDoctors, cfg.Staff.Doctors),
		Nurses:        s.NewResourcePool(PoolNurses, cfg.Staff.Nurses),
		WaitingRoom:   s.NewResourcePool(PoolWaitingRoom, cfg.Capacities.WaitingRoom),
		XRay:          s.NewResourcePool(PoolXRay, cfg.Capacities.XRayRooms),
		SurgeryRooms:  s.NewResourcePool(PoolSurgeryRooms, cfg.Capacities.SurgeryRooms),
		Offices:       make(map[Specialty]*sim.ResourcePool, len(AllSpecialties)),
	}
	for _, sp := range AllSpecialties {
		h.Offices[sp] = s.NewResourcePool(OfficePoolName(sp), cfg.OfficeCapacity(sp))
	}
	return h
}

// OfficePoolName returns the pool name of a specialty's consultation rooms.
func OfficePoolName(sp Specialty) string {
	return "office_" + strings.ToLower(sp.String())
}

// Office returns the consultation pool for a specialty.
func (h *Hospital) Office(sp Specialty) *sim.ResourcePool {
	return h.Offices[sp]
}

// Pools returns every pool in a fixed order.
func (h *Hospital) Pools() []*sim.ResourcePool {
	pools := []*sim.ResourcePool{
		h.EmergencyBeds,
		h.Doctors,
		h.Nurses,
		h.WaitingRoom,
		h.XRay,
		h.SurgeryRooms,
	}
	for _, sp := range AllSpecialties {
		pools = append(pools, h.Offices[sp])
	}
	return pools
}
