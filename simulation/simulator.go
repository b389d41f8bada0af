// Package simulation perturbs the fleet snapshot with bounded random deltas.
// It stands in for live telemetry: fuel and maintenance scores only ever
// decay, and driver ratings only ever climb toward their cap.
package simulation

import (
	"math/rand"
	"sync"

	"logistics/database"
)

// Default origin used for vehicles without a recorded position (Nairobi CBD)
const (
	DefaultLatitude  = -1.2921
	DefaultLongitude = 36.8219
)

var vehicleStatuses = []string{
	database.VehicleStatusActive,
	database.VehicleStatusIdle,
	database.VehicleStatusMaintenance,
}

var driverStatuses = []string{
	database.DriverStatusAvailable,
	database.DriverStatusOnTrip,
	database.DriverStatusOffDuty,
}

// Simulator owns its random source so callers can seed it for repeatable
// runs. The source is guarded by a mutex because *rand.Rand is not safe for
// concurrent use and one simulator is shared across request handlers.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a simulator seeded with the given value
func New(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// uniform returns a random value in [min, max)
func (s *Simulator) uniform(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Float64()*(max-min)
}

// intn returns a random value in [0, n)
func (s *Simulator) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Step applies one simulation tick to every vehicle and driver in place
func (s *Simulator) Step(vehicles []database.Vehicle, drivers []database.Driver) {
	for i := range vehicles {
		s.stepVehicle(&vehicles[i])
	}
	for i := range drivers {
		s.stepDriver(&drivers[i])
	}
}

func (s *Simulator) stepVehicle(v *database.Vehicle) {
	lat := DefaultLatitude
	if v.Latitude != nil {
		lat = *v.Latitude
	}
	lon := DefaultLongitude
	if v.Longitude != nil {
		lon = *v.Longitude
	}
	lat += s.uniform(-0.01, 0.01)
	lon += s.uniform(-0.01, 0.01)
	v.Latitude = &lat
	v.Longitude = &lon

	v.Status = vehicleStatuses[s.intn(len(vehicleStatuses))]
	if v.Status == database.VehicleStatusActive {
		v.Speed = s.uniform(0, 80)
	} else {
		v.Speed = 0
	}

	v.FuelLevel -= s.uniform(0, 0.5)
	if v.FuelLevel < 0 {
		v.FuelLevel = 0
	}
	v.MaintenanceScore -= s.uniform(0, 0.2)
	if v.MaintenanceScore < 0 {
		v.MaintenanceScore = 0
	}
}

func (s *Simulator) stepDriver(d *database.Driver) {
	d.Status = driverStatuses[s.intn(len(driverStatuses))]
	if d.Status == database.DriverStatusOnTrip {
		d.TotalTrips++
		d.Rating += s.uniform(0, 0.1)
		if d.Rating > 5.0 {
			d.Rating = 5.0
		}
	}
}

// RouteEstimate returns the simulated savings for a route optimization run
func (s *Simulator) RouteEstimate() (fuelSaved, timeSaved float64) {
	return s.uniform(15, 20), s.uniform(15, 20)
}
